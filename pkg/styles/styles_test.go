package styles

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mlenz/drawbridge/pkg/cache"
)

func TestTableResolveKnownType(t *testing.T) {
	table := Builtin()

	vpc := table.Resolve("vpc")
	if !strings.Contains(vpc.Style, "group_vpc") {
		t.Errorf("vpc style missing group_vpc shape: %s", vpc.Style)
	}
	if vpc.HasSize() {
		t.Error("container styles must not declare fixed dimensions")
	}
}

func TestTableResolveUnknownTypeDefaults(t *testing.T) {
	table := Builtin()

	// Unknown identifiers always resolve to the default icon, never an error.
	for _, id := range []string{"lambda", "resource", "", "definitely-not-a-type"} {
		got := table.Resolve(id)
		if got.Width != DefaultIconSize || got.Height != DefaultIconSize {
			t.Errorf("Resolve(%q) size = %vx%v, want %vx%v", id, got.Width, got.Height, DefaultIconSize, DefaultIconSize)
		}
		if !strings.Contains(got.Style, "resIcon=mxgraph.aws4.general") {
			t.Errorf("Resolve(%q) did not return the default icon style", id)
		}
	}
}

func TestTableResolveEdgeStyle(t *testing.T) {
	got := Builtin().Resolve(EdgeType)
	if !strings.Contains(got.Style, "endArrow=block") {
		t.Errorf("edge style unexpected: %s", got.Style)
	}
}

// iconZip builds an in-memory bundle with the given filename->svg entries.
func iconZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, svg := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := f.Write([]byte(svg)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestMergeBundle(t *testing.T) {
	data := iconZip(t, map[string]string{
		"icons/lambda.svg": "<svg>lambda</svg>",
		"icons/vpc.svg":    "<svg>should not override builtin</svg>",
		"icons/README.txt": "not an icon",
	})

	merged, count, err := mergeBundle(Builtin(), data)
	if err != nil {
		t.Fatalf("mergeBundle error: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 (builtin names and non-SVG entries skipped)", count)
	}

	lambda := merged.Resolve("lambda")
	if !strings.HasPrefix(lambda.Style, imageIconStyle) {
		t.Errorf("lambda style missing image prefix: %s", lambda.Style)
	}
	if lambda.Width != DefaultIconSize || lambda.Height != DefaultIconSize {
		t.Errorf("lambda size = %vx%v, want default", lambda.Width, lambda.Height)
	}

	// Built-in vpc entry must survive the merge untouched.
	if merged.Resolve("vpc").Style != Builtin().Resolve("vpc").Style {
		t.Error("builtin vpc style was overridden by bundle icon")
	}
}

func TestMergeBundleRejectsCorruptZip(t *testing.T) {
	if _, _, err := mergeBundle(Builtin(), []byte("not a zip")); err == nil {
		t.Fatal("expected error for corrupt bundle")
	}
}

func TestCatalogPopulateOnce(t *testing.T) {
	data := iconZip(t, map[string]string{"icons/sqs.svg": "<svg>sqs</svg>"})

	downloads := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downloads++
		w.Write(data)
	}))
	defer srv.Close()

	c := NewCatalog(cache.NewNullCache(), WithBundleURL(srv.URL), WithHTTPClient(srv.Client()))

	ctx := context.Background()
	if err := c.Populate(ctx); err != nil {
		t.Fatalf("Populate error: %v", err)
	}
	if err := c.Populate(ctx); err != nil {
		t.Fatalf("second Populate error: %v", err)
	}
	if downloads != 1 {
		t.Errorf("downloads = %d, want 1 (populate must run once per process)", downloads)
	}

	if got := c.Resolve("sqs"); !strings.HasPrefix(got.Style, imageIconStyle) {
		t.Errorf("sqs did not resolve to a bundle icon: %s", got.Style)
	}
}

func TestCatalogResolveWithoutPopulate(t *testing.T) {
	c := NewCatalog(nil)
	if got := c.Resolve("vpc"); got.Style != Builtin().Resolve("vpc").Style {
		t.Error("unpopulated catalog must fall back to the builtin table")
	}
}
