package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eleanorewu/folio/internal/catalog"
	"github.com/eleanorewu/folio/internal/i18n"
	"github.com/eleanorewu/folio/internal/prefs"
)

// projectJSON is a project resolved to one language.
type projectJSON struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Thumbnail   string   `json:"thumbnail"`
	Period      string   `json:"period"`
	Role        string   `json:"role"`
	Description string   `json:"description"`
	Details     []string `json:"details"`
	TechStack   []string `json:"tech_stack"`
	Link        string   `json:"link,omitempty"`
}

func localize(p *catalog.Project, lang i18n.Language) projectJSON {
	return projectJSON{
		ID:          p.ID,
		Title:       p.Title,
		Category:    p.Category,
		Thumbnail:   p.Thumbnail,
		Period:      p.DisplayPeriod(),
		Role:        p.Role.T(lang),
		Description: p.Description.T(lang),
		Details:     p.Details.T(lang),
		TechStack:   p.TechStack,
		Link:        p.Link,
	}
}

// apiLang honours an explicit ?lang= before the visitor's preference.
func apiLang(c *gin.Context) i18n.Language {
	return i18n.Parse(c.Query("lang"), prefs.From(c).Lang)
}

// listProjects handles GET /api/projects
func (s *Server) listProjects(c *gin.Context) {
	lang := apiLang(c)
	all := s.catalog.All()
	out := make([]projectJSON, 0, len(all))
	for i := range all {
		out = append(out, localize(&all[i], lang))
	}
	c.JSON(http.StatusOK, out)
}

// getProject handles GET /api/projects/:id
func (s *Server) getProject(c *gin.Context) {
	p, err := s.catalog.Lookup(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, localize(p, apiLang(c)))
}

// paletteColor handles GET /api/palette/:id. The colour is computed on
// demand when the warm-up has not reached the project yet.
func (s *Server) paletteColor(c *gin.Context) {
	p, err := s.catalog.Lookup(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	color := s.palette.Color(c.Request.Context(), p.Thumbnail)
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, gin.H{"id": p.ID, "color": color})
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
