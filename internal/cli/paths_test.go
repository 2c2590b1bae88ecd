package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCLICacheDirFromConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	want := filepath.Join(t.TempDir(), "c")
	t.Setenv("GRAPHVIEWER_CACHE_DIR", want)

	c := New(os.Stderr, LogInfo)
	got, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if got != want {
		t.Errorf("cacheDir() = %q, want %q", got, want)
	}
}

func TestNewCacheBackends(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	tests := []struct {
		backend string
		wantErr bool
	}{
		{"none", false},
		{"file", false},
		{"memcached", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			t.Setenv("GRAPHVIEWER_CACHE_BACKEND", tt.backend)
			c := New(os.Stderr, LogInfo)
			cc, err := c.newCache(t.Context())
			if (err != nil) != tt.wantErr {
				t.Fatalf("newCache() error = %v, wantErr %v", err, tt.wantErr)
			}
			if cc != nil {
				cc.Close()
			}
		})
	}
}
