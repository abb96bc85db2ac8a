package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/mhdash/internal/utils"
)

func TestSafeWriteFile_CreatesParentAndReplaces(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "nested", "out.csv")
	if err := utils.SafeWriteFile(p, []byte("a\n")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := utils.SafeWriteFile(p, []byte("b\n")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	got, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "b\n" {
		t.Fatalf("expected replaced content, got %q", got)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestSiblingPath(t *testing.T) {
	cases := []struct{ in, suffix, want string }{
		{"data/raw.csv", ".report.md", "data/raw.report.md"},
		{"clean", "_x.csv", "clean_x.csv"},
	}
	for _, c := range cases {
		if got := utils.SiblingPath(c.in, c.suffix); got != c.want {
			t.Fatalf("SiblingPath(%q,%q)=%q want %q", c.in, c.suffix, got, c.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := utils.ExpandHome("~/.mhdash/config.yaml")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if want := filepath.Join(home, ".mhdash", "config.yaml"); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got, _ := utils.ExpandHome("/abs/path"); got != "/abs/path" {
		t.Fatalf("absolute path changed: %q", got)
	}
}
