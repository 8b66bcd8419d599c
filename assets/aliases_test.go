package assets

import (
	"os"
	"path/filepath"
	"testing"
)

const testAliases = `
earl-grey:
  - earl
  - bergamot tea
chamomile: camomile
sencha:
  - green
  - japanese green
`

func loadTestTable(t *testing.T) *Table {
	t.Helper()

	path := filepath.Join(t.TempDir(), "aliases.yaml")
	if err := os.WriteFile(path, []byte(testAliases), 0o644); err != nil {
		t.Fatalf("writing alias file: %v", err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("loading alias table: %v", err)
	}
	return table
}

func TestResolve(t *testing.T) {
	table := loadTestTable(t)

	tests := []struct {
		name  string
		query string
		want  string
		ok    bool
	}{
		{"exact key", "earl-grey", "earl-grey", true},
		{"exact key mixed case", "Earl-Grey", "earl-grey", true},
		{"exact key whitespace", "  sencha  ", "sencha", true},
		{"exact alternate", "earl", "earl-grey", true},
		{"exact alternate scalar form", "camomile", "chamomile", true},
		{"alternate contains query", "bergamot", "earl-grey", true},
		{"query contains alternate", "japanese green tea", "sencha", true},
		{"unknown", "oolong", "", false},
		{"empty", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.Resolve(tt.query)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tt.query, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestResolvePrefersExactOverSubstring(t *testing.T) {
	table := loadTestTable(t)

	// "green" is an exact alternate of sencha and a substring of
	// "japanese green"; exact wins, and the result is deterministic
	got, ok := table.Resolve("green")
	if !ok || got != "sencha" {
		t.Errorf("Resolve(green) = (%q, %v), want (sencha, true)", got, ok)
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	table, err := LoadTable(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("expected no error for a missing file, got %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("expected an empty table, got %v keys", table.Len())
	}

	if _, ok := table.Resolve("anything"); ok {
		t.Error("expected no matches in an empty table")
	}
}

func TestIsImage(t *testing.T) {
	for _, name := range []string{"a.png", "b.JPG", "c.jpeg", "d.gif", "e.webp"} {
		if !IsImage(name) {
			t.Errorf("expected %v to be recognized as an image", name)
		}
	}
	for _, name := range []string{"a.txt", "README.md", "noext", "archive.zip"} {
		if IsImage(name) {
			t.Errorf("expected %v to not be recognized as an image", name)
		}
	}
}

func TestRandomImage(t *testing.T) {
	dir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(dir, "sencha"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"1.png", "2.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, "sencha", name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("picks an image", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			got, err := RandomImage(dir, "sencha")
			if err != nil {
				t.Fatalf("picking image: %v", err)
			}
			if base := filepath.Base(got); base != "1.png" && base != "2.jpg" {
				t.Errorf("picked non-image file %v", got)
			}
		}
	})

	t.Run("missing key", func(t *testing.T) {
		if _, err := RandomImage(dir, "oolong"); err != ErrNoImages {
			t.Errorf("expected ErrNoImages, got %v", err)
		}
	})

	t.Run("no images", func(t *testing.T) {
		if err := os.MkdirAll(filepath.Join(dir, "empty"), 0o755); err != nil {
			t.Fatal(err)
		}
		if _, err := RandomImage(dir, "empty"); err != ErrNoImages {
			t.Errorf("expected ErrNoImages, got %v", err)
		}
	})
}
