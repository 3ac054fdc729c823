package authors

// Resolver turns references into authors using an injected Directory.
// Identifiers missing from the directory are dropped without error.
type Resolver struct {
	dir Directory
}

// NewResolver creates a Resolver backed by dir.
func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Directory returns the directory the resolver reads from.
func (r *Resolver) Directory() Directory {
	return r.dir
}

// ResolveOne returns the author named by ref, or false when ref is Absent or
// an Identifier the directory does not know.
func (r *Resolver) ResolveOne(ref Single) (Author, bool) {
	switch v := ref.(type) {
	case Identifier:
		return r.dir.Lookup(string(v))
	case Inline:
		return Author(v), true
	default:
		return Author{}, false
	}
}

// ResolveMany returns the authors named by ref in their original order.
// Unresolvable entries are skipped and duplicates are kept. The result is
// never nil.
func (r *Resolver) ResolveMany(ref Reference) []Author {
	entries := Entries(ref)
	out := make([]Author, 0, len(entries))
	for _, e := range entries {
		if a, ok := r.ResolveOne(e); ok {
			out = append(out, a)
		}
	}
	return out
}

// Unresolved returns the identifiers in ref that ResolveMany would drop.
func (r *Resolver) Unresolved(ref Reference) []Identifier {
	var missing []Identifier
	for _, e := range Entries(ref) {
		id, ok := e.(Identifier)
		if !ok {
			continue
		}
		if _, found := r.dir.Lookup(string(id)); !found {
			missing = append(missing, id)
		}
	}
	return missing
}
