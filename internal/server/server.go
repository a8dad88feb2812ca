// Package server renders the portfolio with gin. Pages are server-rendered
// html/template documents; the scroll effects are bound by a small embedded
// script.
package server

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"github.com/eleanorewu/folio/internal/catalog"
	"github.com/eleanorewu/folio/internal/config"
	"github.com/eleanorewu/folio/internal/dottext"
	"github.com/eleanorewu/folio/internal/i18n"
	"github.com/eleanorewu/folio/internal/palette"
	"github.com/eleanorewu/folio/internal/prefs"
	"github.com/eleanorewu/folio/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Deps are the collaborators a Server needs.
type Deps struct {
	Catalog *catalog.Catalog
	Store   *store.Store
	Palette *palette.Extractor
	Dots    *dottext.Renderer
	// Mailer delivers contact messages. Nil keeps them in the store only.
	Mailer Mailer
	Logger *slog.Logger
}

// Server holds the routes and their state.
type Server struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	store   *store.Store
	palette *palette.Extractor
	dots    *dottext.Renderer
	mailer  Mailer
	logger  *slog.Logger
	admin   *admin

	pngs   *pngCache
	render singleflight.Group

	engine *gin.Engine
}

// New builds the server and its routes.
func New(cfg *config.Config, d Deps) (*Server, error) {
	if d.Catalog == nil || d.Store == nil || d.Palette == nil || d.Dots == nil {
		return nil, errors.New("server: catalog, store, palette and dots are required")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		catalog: d.Catalog,
		store:   d.Store,
		palette: d.Palette,
		dots:    d.Dots,
		mailer:  d.Mailer,
		logger:  d.Logger,
		pngs:    newPNGCache(pngCacheSize),
	}
	s.admin = newAdmin(cfg.Admin, cfg.Site.Retention, d.Store, d.Logger)

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Logger))
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(static))

	r.Use(prefs.Middleware(cfg.Site.DefaultLang), s.admin.track())

	r.GET("/", s.home)
	r.GET("/project/:id", s.project)
	r.GET("/project", s.notFound)
	r.GET("/privacy", s.privacy)
	r.GET("/prefs/theme", s.toggleTheme)
	r.GET("/prefs/lang/:lang", s.setLang)
	r.GET("/dots.png", s.dotsPNG)
	r.POST("/contact", s.contact)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/projects", s.listProjects)
	api.GET("/projects/:id", s.getProject)
	api.GET("/palette/:id", s.paletteColor)

	s.admin.routes(r)
	r.NoRoute(s.notFound)

	s.engine = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"pad":  func(i int) string { return fmt.Sprintf("%02d", i+1) },
		"join": strings.Join,
		"year": func() int { return time.Now().Year() },
		// css marks a colour computed by the server as safe for style
		// attributes.
		"css": func(s string) template.CSS { return template.CSS(s) },
		"datetime": func(t time.Time) string {
			return t.Local().Format("2006-01-02 15:04")
		},
		"short": func(s string, n int) string {
			if r := []rune(s); len(r) > n {
				return string(r[:n]) + "…"
			}
			return s
		},
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelDebug
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelInfo
		}
		if strings.HasPrefix(path, "/static/") && status < 400 {
			return
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration", time.Since(start),
			"bytes", c.Writer.Size(),
		)
		for _, e := range c.Errors {
			logger.Error("handler error", "path", path, "err", e.Err)
		}
	}
}

// page is the data every site template receives.
type page struct {
	Lang      i18n.Language
	Theme     prefs.Theme
	Title     string
	Path      string
	Preloader bool
	Greetings []string

	Hero     []string
	Marquee  []string
	Gallery  [][]tile
	Projects []catalog.Project
	Project  *catalog.Project
	Next     *catalog.Project
	Sent     string
}

// tile is a gallery image with its background colour.
type tile struct {
	ID, Image, Alt, Color string
	// Pending is set when the colour still has to be fetched by the script.
	Pending bool
}

func (s *Server) newPage(c *gin.Context, title string) page {
	p := prefs.From(c)
	return page{
		Lang:  p.Lang,
		Theme: p.Theme,
		Title: title,
		Path:  c.Request.URL.RequestURI(),
	}
}

// T returns the UI string for key in the page language.
func (p page) T(key string) string { return p.Lang.Msg(key) }

// Dark reports whether the dark theme is active.
func (p page) Dark() bool { return p.Theme == prefs.Dark }

// OtherLang is the language the switch offers.
func (p page) OtherLang() i18n.Language { return p.Lang.Other() }

// LangLabel is the switch caption for the current language.
func (p page) LangLabel() string {
	if p.Lang == i18n.Chinese {
		return "繁中"
	}
	return "EN"
}
