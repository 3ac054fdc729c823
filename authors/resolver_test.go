package authors

import (
	"reflect"
	"testing"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	dir, err := NewDirectory(map[string]Author{
		"mat": {Name: "Mateusz Tymek", Title: "CTO & Co-founder at Cleeng", URL: "https://github.com/mtymek"},
		"ann": {Name: "Ann Smith"},
	})
	if err != nil {
		t.Fatalf("NewDirectory failed: %v", err)
	}
	return NewResolver(dir)
}

func TestResolveOneAbsent(t *testing.T) {
	r := testResolver(t)
	if _, ok := r.ResolveOne(Absent{}); ok {
		t.Error("ResolveOne(Absent) should not resolve")
	}
	if _, ok := r.ResolveOne(nil); ok {
		t.Error("ResolveOne(nil) should not resolve")
	}
}

func TestResolveOneIdentifier(t *testing.T) {
	r := NewResolver(DefaultDirectory())
	got, ok := r.ResolveOne(Identifier("mat"))
	if !ok {
		t.Fatal("expected mat to resolve")
	}
	want := Author{Name: "Mateusz Tymek", Title: "CTO & Co-founder at Cleeng", URL: "https://github.com/mtymek"}
	if got != want {
		t.Errorf("ResolveOne(mat) = %+v, want %+v", got, want)
	}
}

func TestResolveOneUnknownIdentifierIsSilent(t *testing.T) {
	r := testResolver(t)
	got, ok := r.ResolveOne(Identifier("nonexistent-id"))
	if ok {
		t.Errorf("ResolveOne(nonexistent-id) = %+v, want no author", got)
	}
}

func TestResolveOneInlineUnchanged(t *testing.T) {
	r := testResolver(t)
	in := Author{Name: "Jane Doe", Picture: "/jane.png"}
	got, ok := r.ResolveOne(Inline(in))
	if !ok || got != in {
		t.Errorf("ResolveOne(Inline) = %+v, %v; want %+v, true", got, ok, in)
	}
}

func TestResolveManyList(t *testing.T) {
	r := NewResolver(DefaultDirectory())
	got := r.ResolveMany(List{
		Identifier("mat"),
		Identifier("nonexistent-id"),
		Inline{Name: "Jane Doe"},
	})
	if len(got) != 2 {
		t.Fatalf("ResolveMany count = %d, want 2", len(got))
	}
	if got[0].Name != "Mateusz Tymek" {
		t.Errorf("first author = %q, want %q", got[0].Name, "Mateusz Tymek")
	}
	if got[1] != (Author{Name: "Jane Doe"}) {
		t.Errorf("second author = %+v, want Jane Doe only", got[1])
	}
}

func TestResolveManyAbsent(t *testing.T) {
	r := testResolver(t)
	got := r.ResolveMany(Absent{})
	if got == nil || len(got) != 0 {
		t.Errorf("ResolveMany(Absent) = %#v, want empty slice", got)
	}
	if got := r.ResolveMany(nil); len(got) != 0 {
		t.Errorf("ResolveMany(nil) = %#v, want empty slice", got)
	}
}

func TestResolveManySingleValues(t *testing.T) {
	r := testResolver(t)
	if got := r.ResolveMany(Identifier("ann")); len(got) != 1 || got[0].Name != "Ann Smith" {
		t.Errorf("ResolveMany(Identifier) = %+v", got)
	}
	if got := r.ResolveMany(Inline{Name: "Solo"}); len(got) != 1 || got[0].Name != "Solo" {
		t.Errorf("ResolveMany(Inline) = %+v", got)
	}
	if got := r.ResolveMany(Identifier("ghost")); len(got) != 0 {
		t.Errorf("ResolveMany(unknown Identifier) = %+v, want empty", got)
	}
}

func TestResolveManyKeepsOrderAndDuplicates(t *testing.T) {
	r := testResolver(t)
	got := r.ResolveMany(List{Identifier("ann"), Identifier("mat"), Identifier("ann")})
	var names []string
	for _, a := range got {
		names = append(names, a.Name)
	}
	want := []string{"Ann Smith", "Mateusz Tymek", "Ann Smith"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestResolveManyFullyUnresolved(t *testing.T) {
	r := testResolver(t)
	got := r.ResolveMany(List{Identifier("x"), Identifier("y")})
	if len(got) != 0 {
		t.Errorf("ResolveMany = %+v, want empty", got)
	}
}

func TestUnresolved(t *testing.T) {
	r := testResolver(t)
	got := r.Unresolved(List{Identifier("mat"), Identifier("ghost"), Inline{Name: "X"}, Identifier("nobody")})
	want := []Identifier{"ghost", "nobody"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unresolved = %v, want %v", got, want)
	}
	if got := r.Unresolved(Absent{}); got != nil {
		t.Errorf("Unresolved(Absent) = %v, want nil", got)
	}
}
