package server

import (
	"bytes"
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/eleanorewu/folio/internal/dottext"
	"github.com/eleanorewu/folio/internal/prefs"
)

const (
	pngCacheSize = 64
	// maxPNGPixels bounds the encoded surface; larger requests get a lower
	// device pixel ratio.
	maxPNGPixels = 16_000_000
	maxLineRunes = 40
	maxLines     = 2
)

// dotsPNG handles GET /dots.png?w=&h=&theme=&text=&dpr=. Without text the
// configured hero lines are drawn.
func (s *Server) dotsPNG(c *gin.Context) {
	opts := s.dotOptions(c)
	key := opts.Key()

	data, ok := s.pngs.get(key)
	if !ok {
		v, err, _ := s.render.Do(key, func() (any, error) {
			var buf bytes.Buffer
			if err := s.dots.EncodePNG(&buf, opts); err != nil {
				return nil, err
			}
			b := buf.Bytes()
			s.pngs.put(key, b)
			return b, nil
		})
		if err != nil {
			_ = c.Error(err)
			c.Status(http.StatusInternalServerError)
			return
		}
		data = v.([]byte)
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", data)
}

func (s *Server) dotOptions(c *gin.Context) dottext.Options {
	w, _ := strconv.Atoi(c.Query("w"))
	h, _ := strconv.Atoi(c.Query("h"))
	dpr, _ := strconv.ParseFloat(c.DefaultQuery("dpr", "1"), 64)

	lines := c.QueryArray("text")
	if len(lines) == 0 {
		lines = s.cfg.Site.HeroLines
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	trimmed := make([]string, len(lines))
	for i, l := range lines {
		if r := []rune(l); len(r) > maxLineRunes {
			l = string(r[:maxLineRunes])
		}
		trimmed[i] = l
	}

	theme := prefs.ParseTheme(c.Query("theme"), prefs.From(c).Theme)
	opts := dottext.Options{
		Lines:  trimmed,
		Width:  w,
		Height: h,
		Dark:   theme == prefs.Dark,
		DPR:    dpr,
	}.Normalize()

	if opts.Width > 0 && opts.Height > 0 {
		area := float64(opts.Width) * float64(opts.Height)
		if area*opts.DPR*opts.DPR > maxPNGPixels {
			opts.DPR = max(1, math.Floor(math.Sqrt(maxPNGPixels/area)*100)/100)
		}
	}
	return opts
}

// pngCache is a small FIFO cache of encoded images.
type pngCache struct {
	mu    sync.Mutex
	limit int
	order []string
	items map[string][]byte
}

func newPNGCache(limit int) *pngCache {
	return &pngCache{limit: limit, items: make(map[string][]byte, limit)}
}

func (p *pngCache) get(key string) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.items[key]
	return b, ok
}

func (p *pngCache) put(key string, b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.items[key]; ok {
		return
	}
	if len(p.order) >= p.limit {
		oldest := p.order[0]
		p.order = p.order[1:]
		delete(p.items, oldest)
	}
	p.order = append(p.order, key)
	p.items[key] = b
}

func (p *pngCache) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}
