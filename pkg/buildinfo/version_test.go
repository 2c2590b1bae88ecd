package buildinfo

import (
	"strings"
	"testing"
)

func TestGetUsesLdflags(t *testing.T) {
	old := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = old[0], old[1], old[2] })

	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02"
	got := Get()
	if got.Version != "v1.2.3" || got.Commit != "abc123" || got.Date != "2026-01-02" {
		t.Errorf("Get() = %+v, want ldflags values", got)
	}
	if !strings.Contains(String(), "commit: abc123") {
		t.Errorf("String() = %q, want commit line", String())
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version v1.2.3\n") {
		t.Errorf("Template() = %q", Template())
	}
}

func TestGetDefaults(t *testing.T) {
	got := Get()
	if got.Version == "" {
		t.Error("Get().Version is empty")
	}
	if got.Commit != Commit {
		t.Errorf("Commit = %q, want %q", got.Commit, Commit)
	}
}
