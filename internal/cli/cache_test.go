package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/wikilist/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	c, _ := newTestCLI(t)

	if got, want := c.cacheDir(), filepath.Join(os.Getenv("XDG_CACHE_HOME"), "wikilist"); got != want {
		t.Errorf("cacheDir() = %q, want %q", got, want)
	}

	c.Config.CacheDir = "/custom/cache"
	if got := c.cacheDir(); got != "/custom/cache" {
		t.Errorf("cacheDir() with config = %q", got)
	}
}

func TestCachePathCommand(t *testing.T) {
	c, _ := newTestCLI(t)
	out, err := run(t, c, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); !strings.HasSuffix(got, filepath.Join("cache", "wikilist")) {
		t.Errorf("cache path = %q", got)
	}
}

func TestCacheClearCommand(t *testing.T) {
	c, status := newTestCLI(t)

	fc, err := cache.NewFileCache(c.cacheDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := fc.Set(ctx, "wiki:members:Countries", []byte("[]"), time.Hour); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, c, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, hit, _ := fc.Get(ctx, "wiki:members:Countries"); hit {
		t.Error("entry survived cache clear")
	}
	if !strings.Contains(status.String(), "Cleared cache") {
		t.Errorf("status = %q", status.String())
	}
}
