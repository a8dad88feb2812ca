package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eleanorewu/folio/internal/config"
	"github.com/eleanorewu/folio/internal/store"
)

const (
	adminCookie   = "admin_token"
	trackTimeout  = 5 * time.Second
	visitorsLimit = 200
	messagesLimit = 200
)

// untracked paths never produce visit records.
var untracked = []string{
	"/static/", "/admin", "/api/", "/dots.png", "/health",
	"/favicon", "/privacy", "/prefs/", "/robots.txt",
}

// admin is the privacy-conscious statistics area.
type admin struct {
	token     string
	salt      string
	creds     config.AdminConfig
	retention time.Duration
	store     *store.Store
	logger    *slog.Logger
	now       func() time.Time

	pending sync.WaitGroup
}

func newAdmin(creds config.AdminConfig, retention time.Duration, st *store.Store, logger *slog.Logger) *admin {
	a := &admin{
		token:     randomToken(),
		salt:      randomToken(),
		creds:     creds,
		retention: retention,
		store:     st,
		logger:    logger,
		now:       time.Now,
	}

	if creds.Password == "" {
		logger.Warn("admin login disabled, set ADMIN_PASSWORD to enable it")
	} else {
		logger.Info("admin access available", "path", "/admin/login")
	}
	if gin.Mode() == gin.DebugMode {
		logger.Debug("admin token (dev only)", "token", a.token)
	}
	logger.Info("visitor tracking enabled with hashed IP addresses")
	return a
}

func randomToken() string {
	b := make([]byte, 32)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// hashIP hashes an address with the per-process salt, so the same visitor
// is recognisable within one run only.
func (a *admin) hashIP(ip string) string {
	h := sha256.New()
	h.Write([]byte(ip + a.salt))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// auth redirects to the login page unless the admin cookie holds the token.
func (a *admin) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// track records page views in the background. Static files, the admin area
// and API calls are skipped, and so are visitors sending DNT: 1.
func (a *admin) track() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" || isUntracked(path) {
			c.Next()
			return
		}

		v := store.Visit{
			HashedIP:  a.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: a.now(),
		}
		a.pending.Add(1)
		go func() {
			defer a.pending.Done()
			ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
			defer cancel()
			if err := a.store.RecordVisit(ctx, v); err != nil {
				a.logger.Warn("record visit", "path", v.Path, "err", err)
			}
		}()
		c.Next()
	}
}

func isUntracked(path string) bool {
	for _, prefix := range untracked {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// wait blocks until background visit writes have finished.
func (a *admin) wait() {
	a.pending.Wait()
}

// cleanup removes visits older than the retention period. A zero period
// keeps everything.
func (a *admin) cleanup(ctx context.Context) (int64, error) {
	if a.retention <= 0 {
		return 0, nil
	}
	n, err := a.store.PruneVisitors(ctx, a.now().Add(-a.retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		a.logger.Info("privacy cleanup removed old visitor records", "rows", n, "retention", a.retention)
	}
	return n, nil
}

func (a *admin) validCredentials(username, password string) bool {
	if a.creds.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.creds.Password)) == 1
	return userOK && passOK
}

func (a *admin) routes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if a.validCredentials(c.PostForm("username"), c.PostForm("password")) {
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(adminCookie, a.token, 3600*24, "/admin", "", false, true)
			a.logger.Info("admin login successful", "from", a.hashIP(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		a.logger.Warn("failed admin login attempt", "from", a.hashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		a.logger.Info("admin logout", "from", a.hashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	g := r.Group("/admin")
	g.Use(a.auth())

	g.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), a.now())
		if err != nil {
			a.logger.Error("load admin stats", "err", err)
			a.fail(c, "Failed to load statistics")
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"title": "Dashboard", "stats": stats})
	})

	g.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), a.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	g.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.store.RecentVisitors(c.Request.Context(), visitorsLimit)
		if err != nil {
			a.logger.Error("load visitors", "err", err)
			a.fail(c, "Failed to load visitors")
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"title": "Visitors", "visitors": visitors})
	})

	g.GET("/messages", func(c *gin.Context) {
		msgs, err := a.store.Messages(c.Request.Context(), messagesLimit)
		if err != nil {
			a.logger.Error("load messages", "err", err)
			a.fail(c, "Failed to load messages")
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{"title": "Messages", "messages": msgs})
	})

	g.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		n, err := a.cleanup(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	g.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), a.now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.logger.Info("admin stats exported", "by", a.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}

func (a *admin) fail(c *gin.Context, msg string) {
	c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"title": "Error", "error": msg})
}

// Cleanup prunes expired visit records. The serve command calls it on a
// timer.
func (s *Server) Cleanup(ctx context.Context) (int64, error) {
	return s.admin.cleanup(ctx)
}

// Wait blocks until pending visit writes are stored.
func (s *Server) Wait() {
	s.admin.wait()
}
