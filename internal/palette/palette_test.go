package palette

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestToHSL(t *testing.T) {
	tests := []struct {
		in   RGB
		want HSL
	}{
		{RGB{255, 0, 0}, HSL{0, 100, 50}},
		{RGB{0, 255, 0}, HSL{120, 100, 50}},
		{RGB{0, 0, 255}, HSL{240, 100, 50}},
		{RGB{255, 255, 255}, HSL{0, 0, 100}},
		{RGB{0, 0, 0}, HSL{0, 0, 0}},
	}
	for _, tt := range tests {
		got := ToHSL(tt.in)
		assert.InDelta(t, tt.want.H, got.H, 0.01, "hue of %v", tt.in)
		assert.InDelta(t, tt.want.S, got.S, 0.01, "saturation of %v", tt.in)
		assert.InDelta(t, tt.want.L, got.L, 0.01, "lightness of %v", tt.in)
	}
}

func TestHSLRoundTrip(t *testing.T) {
	for _, c := range []RGB{{255, 0, 0}, {12, 200, 99}, {128, 128, 128}, {250, 240, 10}, {1, 2, 3}} {
		back := ToHSL(c).RGB()
		assert.InDelta(t, int(c.R), int(back.R), 1)
		assert.InDelta(t, int(c.G), int(back.G), 1)
		assert.InDelta(t, int(c.B), int(back.B), 1)
	}
}

func TestSoften(t *testing.T) {
	assert.Equal(t, "rgb(190, 167, 167)", Soften(RGB{255, 0, 0}).CSS())
	assert.Equal(t, "rgb(179, 179, 179)", Soften(RGB{128, 128, 128}).CSS())
	assert.Equal(t, "rgb(242, 242, 242)", Soften(RGB{255, 255, 255}).CSS())
}

func TestSoftenedLowersLowSaturation(t *testing.T) {
	in := HSL{H: 200, S: 5, L: 40}
	out := in.Softened()
	assert.Equal(t, 2.5, out.S, "the floor of 8 never raises saturation")

	in = HSL{H: 200, S: 80, L: 90}
	out = in.Softened()
	assert.InDelta(t, 12.0, out.S, 1e-9)
}

func TestSoftenNearGrey(t *testing.T) {
	// Rounding at the raised lightness used to leave these as saturated as
	// the source.
	for _, c := range []RGB{{7, 6, 6}, {1, 0, 0}, {255, 254, 254}, {120, 121, 120}} {
		src := ToHSL(c)
		got := ToHSL(Soften(c))
		assert.Less(t, got.S, src.S, "saturation of %v", c)
	}
	assert.Zero(t, ToHSL(Soften(RGB{0, 0, 0})).S)
}

func TestAverage(t *testing.T) {
	avg, ok := Average(solid(400, 300, color.NRGBA{200, 100, 50, 255}))
	require.True(t, ok)
	assert.Equal(t, RGB{200, 100, 50}, avg)

	_, ok = Average(solid(10, 10, color.NRGBA{}))
	assert.False(t, ok, "fully transparent image has no opaque pixels")

	_, ok = Average(nil)
	assert.False(t, ok)

	_, ok = Average(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	assert.False(t, ok)
}

func TestAverageIgnoresTransparentHalf(t *testing.T) {
	img := solid(200, 200, color.NRGBA{})
	for y := 0; y < 200; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.NRGBA{0, 0, 255, 255})
		}
	}
	avg, ok := Average(img)
	require.True(t, ok)
	assert.Equal(t, uint8(0), avg.R)
	assert.Greater(t, avg.B, uint8(200))
}

func TestDominantColor(t *testing.T) {
	assert.Equal(t, Fallback, DominantColor(nil))
	assert.Equal(t, Fallback, DominantColor(solid(5, 5, color.NRGBA{})))
	assert.Equal(t, "rgb(190, 167, 167)", DominantColor(solid(50, 50, color.NRGBA{255, 0, 0, 255})))
}

type memCache struct {
	mu     sync.Mutex
	colors map[string]string
	saves  int
}

func newMemCache() *memCache { return &memCache{colors: map[string]string{}} }

func (m *memCache) Color(_ context.Context, source string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.colors[source]
	return c, ok, nil
}

func (m *memCache) SaveColor(_ context.Context, source, color string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.colors[source] = color
	m.saves++
	return nil
}

func imageServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	red := encodePNG(t, solid(64, 48, color.NRGBA{255, 0, 0, 255}))
	hits := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/red.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(red)
		case "/garbage.png":
			_, _ = w.Write([]byte("definitely not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, hits
}

func TestExtractorRemote(t *testing.T) {
	srv, hits := imageServer(t)
	cache := newMemCache()
	e := NewExtractor(WithHTTPClient(srv.Client()), WithCache(cache))
	ctx := context.Background()

	_, ok := e.Cached(ctx, srv.URL+"/red.png")
	assert.False(t, ok)

	assert.Equal(t, "rgb(190, 167, 167)", e.Color(ctx, srv.URL+"/red.png"))
	assert.Equal(t, "rgb(190, 167, 167)", e.Color(ctx, srv.URL+"/red.png"))
	assert.Equal(t, int32(1), hits.Load(), "second call is served from memory")
	assert.Equal(t, 1, cache.saves)

	c, ok := e.Cached(ctx, srv.URL+"/red.png")
	assert.True(t, ok)
	assert.Equal(t, "rgb(190, 167, 167)", c)
}

func TestExtractorFallbacks(t *testing.T) {
	srv, _ := imageServer(t)
	cache := newMemCache()
	e := NewExtractor(WithHTTPClient(srv.Client()), WithCache(cache))
	ctx := context.Background()

	assert.Equal(t, Fallback, e.Color(ctx, srv.URL+"/missing.png"))
	assert.Equal(t, Fallback, e.Color(ctx, srv.URL+"/garbage.png"))
	assert.Equal(t, Fallback, e.Color(ctx, filepath.Join(t.TempDir(), "nope.png")))
	assert.Equal(t, Fallback, e.Color(ctx, "http://127.0.0.1:1/unreachable.png"))
	assert.Zero(t, cache.saves, "fallbacks are not persisted")
}

func TestExtractorUsesPersistentCache(t *testing.T) {
	cache := newMemCache()
	cache.colors["thumb.jpg"] = "rgb(1, 2, 3)"
	e := NewExtractor(WithCache(cache))
	assert.Equal(t, "rgb(1, 2, 3)", e.Color(context.Background(), "thumb.jpg"))
}

func TestExtractorLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "green.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, solid(20, 20, color.NRGBA{0, 255, 0, 255})), 0o644))

	e := NewExtractor(WithTimeout(time.Second))
	got := e.Color(context.Background(), path)
	assert.NotEqual(t, Fallback, got)
	assert.Regexp(t, cssRGB, got)
}

func TestWarm(t *testing.T) {
	srv, hits := imageServer(t)
	cache := newMemCache()
	e := NewExtractor(WithHTTPClient(srv.Client()), WithCache(cache), WithWorkers(2))

	sources := []string{srv.URL + "/red.png", srv.URL + "/missing.png", srv.URL + "/red.png?v=2"}
	require.NoError(t, e.Warm(context.Background(), sources))
	assert.Equal(t, int32(3), hits.Load())
	assert.Equal(t, 2, cache.saves)
}

func TestWarmCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewExtractor()
	err := e.Warm(ctx, []string{"a.png", "b.png"})
	assert.ErrorIs(t, err, context.Canceled)
}
