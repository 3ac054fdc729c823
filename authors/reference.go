package authors

// Reference is the author value found in a content item's frontmatter. It is
// exactly one of Absent, Identifier, Inline or List.
type Reference interface {
	isReference()
}

// Single is a Reference that names at most one author: Absent, Identifier
// or Inline.
type Single interface {
	Reference
	isSingle()
}

// Entry is an element of a List: Identifier or Inline.
type Entry interface {
	Single
	isEntry()
}

// Absent means the frontmatter carries no authors.
type Absent struct{}

// Identifier is a short key into a Directory.
type Identifier string

// Inline is an author written out in full in the frontmatter.
type Inline Author

// List is a sequence mixing identifiers and inline authors.
type List []Entry

func (Absent) isReference() {}
func (Absent) isSingle()    {}

func (Identifier) isReference() {}
func (Identifier) isSingle()    {}
func (Identifier) isEntry()     {}

func (Inline) isReference() {}
func (Inline) isSingle()    {}
func (Inline) isEntry()     {}

func (List) isReference() {}

// Entries flattens ref into the list form. Absent and nil yield nil; a lone
// Identifier or Inline yields a one-element slice.
func Entries(ref Reference) []Entry {
	switch v := ref.(type) {
	case Identifier:
		return []Entry{v}
	case Inline:
		return []Entry{v}
	case List:
		return v
	default:
		return nil
	}
}
