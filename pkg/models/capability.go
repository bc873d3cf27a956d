package models

import "sort"

// Capability is a named permission grant, e.g. "catalog.can_mark_returned".
type Capability string

const (
	CapabilityMarkReturned = Capability("catalog.can_mark_returned")

	CapabilityAddAuthor    = Capability("catalog.add_author")
	CapabilityChangeAuthor = Capability("catalog.change_author")
	CapabilityDeleteAuthor = Capability("catalog.delete_author")

	CapabilityAddBook    = Capability("catalog.add_book")
	CapabilityChangeBook = Capability("catalog.change_book")
	CapabilityDeleteBook = Capability("catalog.delete_book")

	CapabilityAddBookInstance    = Capability("catalog.add_bookinstance")
	CapabilityChangeBookInstance = Capability("catalog.change_bookinstance")

	CapabilityAddGenre    = Capability("catalog.add_genre")
	CapabilityChangeGenre = Capability("catalog.change_genre")
	CapabilityDeleteGenre = Capability("catalog.delete_genre")

	CapabilityAddLanguage    = Capability("catalog.add_language")
	CapabilityChangeLanguage = Capability("catalog.change_language")
	CapabilityDeleteLanguage = Capability("catalog.delete_language")

	CapabilityManageUsers = Capability("auth.manage_users")
)

// AllCapabilities lists every capability the librarian role is seeded with.
var AllCapabilities = []Capability{
	CapabilityMarkReturned,
	CapabilityAddAuthor, CapabilityChangeAuthor, CapabilityDeleteAuthor,
	CapabilityAddBook, CapabilityChangeBook, CapabilityDeleteBook,
	CapabilityAddBookInstance, CapabilityChangeBookInstance,
	CapabilityAddGenre, CapabilityChangeGenre, CapabilityDeleteGenre,
	CapabilityAddLanguage, CapabilityChangeLanguage, CapabilityDeleteLanguage,
	CapabilityManageUsers,
}

// CapabilitySet is the set of capabilities a caller holds.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from the given capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// Sorted returns the capabilities as sorted strings.
func (s CapabilitySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, string(c))
	}
	sort.Strings(out)
	return out
}

// Caller is the identity on whose behalf an operation runs.
type Caller struct {
	UserID       int
	Capabilities CapabilitySet
}

// Can reports whether the caller holds the capability.
func (c Caller) Can(capability Capability) bool {
	return c.Capabilities.Has(capability)
}
