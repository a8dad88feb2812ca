package palette

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxImageBytes caps how much of a remote image is read.
const maxImageBytes = 20 << 20

// ErrStatus is returned by Load when a remote image answers with a non-200
// status.
var ErrStatus = errors.New("unexpected status")

// Cache persists computed colours between runs.
type Cache interface {
	Color(ctx context.Context, source string) (string, bool, error)
	SaveColor(ctx context.Context, source, color string) error
}

// Extractor computes and remembers dominant colours for image sources.
// A source is an http(s) URL or a local file path.
type Extractor struct {
	client  *http.Client
	cache   Cache
	logger  *slog.Logger
	workers int

	mu   sync.Mutex
	memo map[string]string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient sets the client used for remote images.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) { e.client = c }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) { e.client = &http.Client{Timeout: d} }
}

// WithCache sets the persistent colour cache.
func WithCache(c Cache) Option {
	return func(e *Extractor) { e.cache = c }
}

// WithLogger sets the logger. Failures are logged at debug level only.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithWorkers bounds the concurrency of Warm.
func WithWorkers(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  slog.Default(),
		workers: 4,
		memo:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cached returns a colour already known for source without loading anything.
func (e *Extractor) Cached(ctx context.Context, source string) (string, bool) {
	e.mu.Lock()
	c, ok := e.memo[source]
	e.mu.Unlock()
	if ok {
		return c, true
	}
	if e.cache == nil {
		return "", false
	}
	c, ok, err := e.cache.Color(ctx, source)
	if err != nil {
		e.logger.Debug("palette cache read failed", "source", source, "err", err)
		return "", false
	}
	if ok {
		e.remember(source, c)
	}
	return c, ok
}

// Color returns the dominant colour of source. It never fails: load and
// decode errors yield Fallback. Fallback results are not persisted, so a
// later call may succeed once the image becomes reachable.
func (e *Extractor) Color(ctx context.Context, source string) string {
	if c, ok := e.Cached(ctx, source); ok {
		return c
	}

	img, err := Load(ctx, e.client, source)
	if err != nil {
		e.logger.Debug("palette image load failed", "source", source, "err", err)
		return Fallback
	}

	avg, ok := Average(img)
	if !ok {
		return Fallback
	}
	c := Soften(avg).CSS()
	e.remember(source, c)
	if e.cache != nil {
		if err := e.cache.SaveColor(ctx, source, c); err != nil {
			e.logger.Debug("palette cache write failed", "source", source, "err", err)
		}
	}
	return c
}

// Warm computes colours for every source in the background, bounded by the
// worker count. It returns when all are done or ctx is cancelled.
func (e *Extractor) Warm(ctx context.Context, sources []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, src := range sources {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			e.Color(gctx, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (e *Extractor) remember(source, color string) {
	e.mu.Lock()
	e.memo[source] = color
	e.mu.Unlock()
}

// Load fetches and decodes an image from an http(s) URL or a file path.
func Load(ctx context.Context, client *http.Client, source string) (image.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return loadRemote(ctx, client, source)
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}
	return img, nil
}

func loadRemote(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d from %s", ErrStatus, resp.StatusCode, url)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}
