package styles

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mlenz/drawbridge/pkg/cache"
	dberrors "github.com/mlenz/drawbridge/pkg/errors"
	"github.com/mlenz/drawbridge/pkg/httputil"
)

// DefaultBundleURL is where the icon SVG bundle is hosted.
const DefaultBundleURL = "https://perspective-icon-svg-set.s3-eu-west-1.amazonaws.com/v2.0.0/perspective-icons.zip"

// bundleTTL is how long the downloaded bundle stays fresh in the cache.
const bundleTTL = 7 * 24 * time.Hour

// imageIconStyle is the style template for bundle icons. The base64 SVG
// payload is appended to it.
const imageIconStyle = "shape=image;verticalLabelPosition=bottom;verticalAlign=top;fontSize=11;fontFamily=Tahoma;aspect=fixed;imageAspect=0;image=data:image/svg+xml,"

// Catalog is a Resolver whose backing table is the built-in styles merged
// with icons from a remotely fetched zip bundle.
//
// The bundle is fetched at most once per process lifetime, guarded by
// sync.Once; after Populate returns, the table is read-only and Resolve is
// safe for concurrent use. If population fails or is never attempted,
// Resolve falls back to the built-in table.
type Catalog struct {
	bundleURL string
	client    *http.Client
	cache     cache.Cache
	logger    *log.Logger

	once  sync.Once
	table Table
	err   error
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithBundleURL overrides the icon bundle location.
func WithBundleURL(url string) CatalogOption {
	return func(c *Catalog) { c.bundleURL = url }
}

// WithHTTPClient overrides the HTTP client used for the bundle download.
func WithHTTPClient(client *http.Client) CatalogOption {
	return func(c *Catalog) { c.client = client }
}

// WithLogger attaches a logger for download progress.
func WithLogger(logger *log.Logger) CatalogOption {
	return func(c *Catalog) { c.logger = logger }
}

// NewCatalog creates a catalog backed by the given cache.
// A nil cache disables bundle caching (the bundle is re-downloaded per
// process, still at most once).
func NewCatalog(backend cache.Cache, opts ...CatalogOption) *Catalog {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	c := &Catalog{
		bundleURL: DefaultBundleURL,
		cache:     backend,
		table:     Builtin(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Populate downloads the icon bundle and merges its icons into the table.
// It runs at most once per Catalog; later calls return the first outcome.
func (c *Catalog) Populate(ctx context.Context) error {
	c.once.Do(func() {
		c.err = c.populate(ctx)
	})
	return c.err
}

// Resolve implements Resolver. It never triggers network activity; callers
// wanting bundle icons must Populate first.
func (c *Catalog) Resolve(typeID string) Style {
	return c.table.Resolve(typeID)
}

func (c *Catalog) populate(ctx context.Context) error {
	data, err := c.fetchBundle(ctx)
	if err != nil {
		return err
	}

	merged, count, err := mergeBundle(c.table, data)
	if err != nil {
		return err
	}
	c.table = merged
	c.logger.Debug("icon catalog populated", "icons", count)
	return nil
}

// fetchBundle returns the bundle zip bytes, preferring the cache.
func (c *Catalog) fetchBundle(ctx context.Context) ([]byte, error) {
	key := "icons:" + c.bundleURL
	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		return data, nil
	}

	var data []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		var ferr error
		data, ferr = httputil.FetchBytes(ctx, c.client, c.bundleURL)
		return ferr
	})
	if err != nil {
		return nil, dberrors.Wrap(dberrors.ErrCodeNetwork, err, "download icon bundle")
	}

	if err := c.cache.Set(ctx, key, data, bundleTTL); err != nil {
		c.logger.Warn("could not cache icon bundle", "err", err)
	}
	return data, nil
}

// mergeBundle adds one style entry per SVG in the zip to a copy of base.
// Icon names derive from the archived filename with its leading directory
// and .svg extension removed; built-in entries are never overridden.
func mergeBundle(base Table, zipData []byte) (Table, int, error) {
	r, err := zip.NewReader(bytes.NewReader(zipData), int64(len(zipData)))
	if err != nil {
		return nil, 0, dberrors.Wrap(dberrors.ErrCodeInvalidFormat, err, "open icon bundle")
	}

	merged := make(Table, len(base)+len(r.File))
	for k, v := range base {
		merged[k] = v
	}

	count := 0
	for _, f := range r.File {
		if !strings.HasSuffix(f.Name, ".svg") {
			continue
		}
		name := strings.TrimSuffix(path.Base(f.Name), ".svg")
		if _, exists := merged[name]; exists {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, 0, dberrors.Wrap(dberrors.ErrCodeInvalidFormat, err, "read icon %s", f.Name)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			rc.Close()
			return nil, 0, dberrors.Wrap(dberrors.ErrCodeInvalidFormat, err, "read icon %s", f.Name)
		}
		rc.Close()

		merged[name] = Style{
			Style:  imageIconStyle + base64.StdEncoding.EncodeToString(buf.Bytes()),
			Width:  DefaultIconSize,
			Height: DefaultIconSize,
		}
		count++
	}

	return merged, count, nil
}
