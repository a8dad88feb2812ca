package prefs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eleanorewu/folio/internal/i18n"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestToggleTwiceRestores(t *testing.T) {
	for _, th := range []Theme{Light, Dark} {
		assert.Equal(t, th, Toggle(Toggle(th)))
		assert.NotEqual(t, th, Toggle(th))
	}
}

func TestParseTheme(t *testing.T) {
	assert.Equal(t, Dark, ParseTheme("dark", Light))
	assert.Equal(t, Light, ParseTheme("light", Dark))
	assert.Equal(t, Dark, ParseTheme("sepia", Dark))
}

func TestResolve(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		p := Resolve(r, i18n.Chinese)
		assert.Equal(t, i18n.Chinese, p.Lang)
		assert.Equal(t, Light, p.Theme)
	})

	t.Run("headers", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Accept-Language", "en-US,en;q=0.9")
		r.Header.Set("Sec-CH-Prefers-Color-Scheme", `"dark"`)
		p := Resolve(r, i18n.Chinese)
		assert.Equal(t, i18n.English, p.Lang)
		assert.True(t, p.IsDark())
	})

	t.Run("cookies win", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Accept-Language", "en-US")
		r.Header.Set("Sec-CH-Prefers-Color-Scheme", "dark")
		r.AddCookie(&http.Cookie{Name: LangCookie, Value: "zh"})
		r.AddCookie(&http.Cookie{Name: ThemeCookie, Value: "light"})
		p := Resolve(r, i18n.English)
		assert.Equal(t, i18n.Chinese, p.Lang)
		assert.Equal(t, Light, p.Theme)
	})

	t.Run("bad cookie values fall back", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: LangCookie, Value: "klingon"})
		r.AddCookie(&http.Cookie{Name: ThemeCookie, Value: "neon"})
		p := Resolve(r, i18n.English)
		assert.Equal(t, i18n.English, p.Lang)
		assert.Equal(t, Light, p.Theme)
	})
}

// A theme toggled twice through real cookie round trips ends where it began.
func TestToggleCookieRoundTrip(t *testing.T) {
	r := gin.New()
	r.Use(Middleware(i18n.Chinese))
	r.GET("/toggle", func(c *gin.Context) {
		SaveTheme(c, Toggle(From(c).Theme))
		c.String(http.StatusOK, string(From(c).Theme))
	})

	do := func(cookies []*http.Cookie) []*http.Cookie {
		req := httptest.NewRequest(http.MethodGet, "/toggle", nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		return w.Result().Cookies()
	}

	start := []*http.Cookie{{Name: ThemeCookie, Value: "dark"}}
	once := do(start)
	require.Len(t, once, 1)
	assert.Equal(t, "light", once[0].Value)
	twice := do(once)
	require.Len(t, twice, 1)
	assert.Equal(t, "dark", twice[0].Value)
}

func TestFromWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	p := From(c)
	assert.Equal(t, i18n.Default, p.Lang)
	assert.Equal(t, Light, p.Theme)
}

func TestTakePreloader(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, TakePreloader(c))
	require.Len(t, w.Result().Cookies(), 1)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c2.Request.AddCookie(&http.Cookie{Name: PreloaderCookie, Value: "true"})
	assert.False(t, TakePreloader(c2))
}
