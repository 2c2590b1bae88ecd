package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

// inDir runs the test from an empty temp dir so no stray graphviewer.toml
// is picked up.
func inDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	inDir(t)
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Margin.X != 5 || cfg.Margin.Y != 10 {
		t.Errorf("Margin = %+v, want {5 10}", cfg.Margin)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, BackendFile)
	}
	if cfg.Watch.Debounce != 300*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 300ms", cfg.Watch.Debounce)
	}
	if cfg.Font.Size != 12 {
		t.Errorf("Font.Size = %v, want 12", cfg.Font.Size)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := inDir(t)
	toml := `
[font]
size = 14

[server]
addr = ":9000"

[cache]
backend = "none"
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GRAPHVIEWER_SERVER_ADDR", ":9100")
	t.Setenv("GRAPHVIEWER_MARGIN_X", "7")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("addr", ":8080", "")
	fs.Float64("margin-y", 10, "")
	fs.Bool("verbose", false, "")
	if err := fs.Parse([]string{"--margin-y=3", "--verbose"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"file over default", cfg.Font.Size, 14.0},
		{"file over default", cfg.Cache.Backend, BackendNone},
		{"env over file", cfg.Server.Addr, ":9100"},
		{"env over default", cfg.Margin.X, 7.0},
		{"set flag over default", cfg.Margin.Y, 3.0},
		{"untouched default", cfg.Render.Padding, 20.0},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadUnsetFlagKeepsEnv(t *testing.T) {
	inDir(t)
	t.Setenv("GRAPHVIEWER_SERVER_ADDR", ":9100")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("addr", ":8080", "")
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9100" {
		t.Errorf("Server.Addr = %q, want env value :9100", cfg.Server.Addr)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	inDir(t)
	t.Setenv("GRAPHVIEWER_CONFIG", "does-not-exist.toml")
	if _, err := Load(nil); err == nil {
		t.Error("Load should fail for an explicit missing config file")
	}
}

func TestLoadBadFile(t *testing.T) {
	dir := inDir(t)
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("[font\nsize ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(nil); err == nil {
		t.Error("Load should fail for a malformed config file")
	}
}

func TestFlagKey(t *testing.T) {
	tests := []struct{ flag, want string }{
		{"addr", "server.addr"},
		{"font-size", "font.size"},
		{"cache-dir", "cache.dir"},
		{"margin-x", "margin.x"},
	}
	for _, tt := range tests {
		if got := FlagKey(tt.flag); got != tt.want {
			t.Errorf("FlagKey(%q) = %q, want %q", tt.flag, got, tt.want)
		}
	}
}

func TestEncode(t *testing.T) {
	inDir(t)
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out, err := Encode(cfg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, want := range []string{"[font]", "[cache]", `backend = "file"`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("Encode output missing %q:\n%s", want, out)
		}
	}

	parsed, err := Parser().Unmarshal(out)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := parsed["server"]; !ok {
		t.Errorf("re-parsed config missing server section: %v", parsed)
	}
}
