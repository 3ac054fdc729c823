package authors

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultDirectory(t *testing.T) {
	d := DefaultDirectory()
	if d.Len() != 1 {
		t.Fatalf("Len = %d, want 1", d.Len())
	}
	a, ok := d.Lookup("mat")
	if !ok || a.Name != "Mateusz Tymek" {
		t.Errorf("Lookup(mat) = %+v, %v", a, ok)
	}
}

func TestNewDirectoryCopiesInput(t *testing.T) {
	entries := map[string]Author{"ann": {Name: "Ann"}}
	d, err := NewDirectory(entries)
	if err != nil {
		t.Fatalf("NewDirectory failed: %v", err)
	}
	entries["bob"] = Author{Name: "Bob"}
	delete(entries, "ann")
	if _, ok := d.Lookup("bob"); ok {
		t.Error("directory should not see entries added after construction")
	}
	if _, ok := d.Lookup("ann"); !ok {
		t.Error("directory should keep entries deleted from the source map")
	}
}

func TestNewDirectoryRejectsInvalid(t *testing.T) {
	tests := []map[string]Author{
		{"": {Name: "No Id"}},
		{"blank": {Name: ""}},
		{"badurl": {Name: "Bad", URL: "not a url"}},
	}
	for _, entries := range tests {
		if _, err := NewDirectory(entries); err == nil {
			t.Errorf("NewDirectory(%v) should fail", entries)
		}
	}
}

func TestWithLeavesBaseUntouched(t *testing.T) {
	base := DefaultDirectory()
	next, err := base.With(map[string]Author{"ann": {Name: "Ann"}})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}
	if base.Len() != 1 || next.Len() != 2 {
		t.Errorf("Len base=%d next=%d, want 1 and 2", base.Len(), next.Len())
	}
	if !reflect.DeepEqual(next.IDs(), []string{"ann", "mat"}) {
		t.Errorf("IDs = %v", next.IDs())
	}
}

func TestLoadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authors.yaml")
	data := "ann:\n  name: Ann Smith\n  url: https://example.com/ann\nmat:\n  name: Mat Override\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := LoadDirectory(path, DefaultDirectory())
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	if a, _ := d.Lookup("ann"); a.URL != "https://example.com/ann" {
		t.Errorf("ann URL = %q", a.URL)
	}
	if a, _ := d.Lookup("mat"); a.Name != "Mat Override" {
		t.Errorf("mat Name = %q, want override", a.Name)
	}
}

func TestLoadDirectoryInvalidEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authors.yaml")
	if err := os.WriteFile(path, []byte("ann:\n  title: No Name\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDirectory(path, Directory{}); err == nil {
		t.Fatal("expected error for author without name")
	}
}

func TestAuthorValidate(t *testing.T) {
	if issues := (Author{Name: "Ok", URL: "https://example.com"}).Validate(); issues != nil {
		t.Errorf("unexpected issues: %v", issues)
	}
	issues := (Author{URL: "::"}).Validate()
	if len(issues) != 2 {
		t.Fatalf("issues = %v, want 2", issues)
	}
	if issues[0].Field != "name" || issues[1].Field != "url" {
		t.Errorf("fields = %q, %q; want name, url", issues[0].Field, issues[1].Field)
	}
}
