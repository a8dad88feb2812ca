package server

import (
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"github.com/eleanorewu/folio/internal/i18n"
	"github.com/eleanorewu/folio/internal/palette"
	"github.com/eleanorewu/folio/internal/prefs"
)

// galleryCopies is how often each gallery row repeats so the strip never
// runs out while it scrolls sideways.
const galleryCopies = 3

func (s *Server) home(c *gin.Context) {
	p := s.newPage(c, "Eleanore Wu")
	p.Preloader = prefs.TakePreloader(c)
	p.Greetings = i18n.Greetings
	p.Hero = s.cfg.Site.HeroLines
	p.Marquee = s.catalog.TechKeywords()
	p.Projects = s.catalog.All()
	p.Gallery = s.gallery(c)
	p.Sent = c.Query("sent")

	c.HTML(http.StatusOK, "home.html", p)
}

// gallery splits the thumbnails into two rows. Colours already known are
// inlined; the rest are left to the page script.
func (s *Server) gallery(c *gin.Context) [][]tile {
	projects := s.catalog.All()
	tiles := make([]tile, 0, len(projects))
	for _, pr := range projects {
		t := tile{ID: pr.ID, Image: pr.Thumbnail, Alt: pr.Title}
		if color, ok := s.palette.Cached(c.Request.Context(), pr.Thumbnail); ok {
			t.Color = color
		} else {
			t.Color = palette.Placeholder
			t.Pending = true
		}
		tiles = append(tiles, t)
	}

	half := (len(tiles) + 1) / 2
	rows := [][]tile{tiles[:half], tiles[half:]}
	for i, row := range rows {
		repeated := make([]tile, 0, len(row)*galleryCopies)
		for range galleryCopies {
			repeated = append(repeated, row...)
		}
		rows[i] = repeated
	}
	return rows
}

func (s *Server) project(c *gin.Context) {
	id := c.Param("id")
	pr, err := s.catalog.Lookup(id)
	if err != nil {
		s.notFound(c)
		return
	}

	p := s.newPage(c, pr.Title)
	p.Project = pr
	p.Next = s.catalog.Next(pr.ID)
	c.HTML(http.StatusOK, "project.html", p)
}

func (s *Server) notFound(c *gin.Context) {
	p := s.newPage(c, prefs.From(c).Lang.Msg("notfound.title"))
	c.HTML(http.StatusNotFound, "notfound.html", p)
}

func (s *Server) privacy(c *gin.Context) {
	p := s.newPage(c, prefs.From(c).Lang.Msg("privacy.title"))
	c.HTML(http.StatusOK, "privacy.html", p)
}

// toggleTheme flips the theme cookie and returns to the page named by next.
func (s *Server) toggleTheme(c *gin.Context) {
	prefs.SaveTheme(c, prefs.Toggle(prefs.From(c).Theme))
	c.Redirect(http.StatusSeeOther, nextPath(c))
}

// setLang stores the chosen language. Unknown codes keep the current one.
func (s *Server) setLang(c *gin.Context) {
	lang := i18n.Parse(c.Param("lang"), prefs.From(c).Lang)
	prefs.SaveLang(c, lang)
	c.Redirect(http.StatusSeeOther, nextPath(c))
}

// nextPath returns the local path to go back to after a preference change.
// Anything that is not a plain local path sends the visitor home.
func nextPath(c *gin.Context) string {
	next := c.Query("next")
	// Browsers drop tabs and newlines from URLs, so "/\t/host" would become
	// "//host".
	if strings.ContainsFunc(next, unicode.IsControl) {
		return "/"
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return next
}
