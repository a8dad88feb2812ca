package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestServerProperties(t *testing.T) {
	f := newFixture(t, nil)
	properties := gopter.NewProperties(nil)

	// Property: unknown project ids render the not-found page
	properties.Property("unknown ids are 404", prop.ForAll(
		func(id string) bool {
			if id == "alpha" || id == "beta" {
				return true
			}
			page := f.get("/project/" + url.PathEscape(id))
			api := f.get("/api/projects/" + url.PathEscape(id))
			return page.Code == http.StatusNotFound && api.Code == http.StatusNotFound
		},
		gen.Identifier(),
	))

	// Property: the redirect target after a preference change stays on site
	properties.Property("next stays local", prop.ForAll(
		func(next string) bool {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/?next="+url.QueryEscape(next), nil)
			got := nextPath(c)
			return strings.HasPrefix(got, "/") && !strings.HasPrefix(got, "//") &&
				!strings.Contains(got, `\`) && !strings.ContainsFunc(got, unicode.IsControl)
		},
		gen.AnyString(),
	))

	// Property: every dots request stays within the pixel budget
	properties.Property("dots surface is bounded", prop.ForAll(
		func(w, h int, dpr float64) bool {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			q := url.Values{}
			q.Set("w", strconv.Itoa(w))
			q.Set("h", strconv.Itoa(h))
			q.Set("dpr", strconv.FormatFloat(dpr, 'f', 2, 64))
			c.Request = httptest.NewRequest(http.MethodGet, "/dots.png?"+q.Encode(), nil)
			opts := f.srv.dotOptions(c)
			if opts.Width <= 0 || opts.Height <= 0 {
				return true
			}
			return float64(opts.Width*opts.Height)*opts.DPR*opts.DPR <= maxPNGPixels && opts.DPR >= 1
		},
		gen.IntRange(-10, 10000),
		gen.IntRange(-10, 10000),
		gen.Float64Range(0, 8),
	))

	properties.TestingRun(t)
}
