package order

import "fmt"

// Selector picks one item out of a pending collection.
// The zero value selects the most recently added item.
type Selector struct {
	Position int    // 1-based; 0 means unset
	ID       string // identity; empty means unset
}

// Last selects the tail of the collection ("undo last entry").
func Last() Selector { return Selector{} }

// AtPosition selects by 1-based position.
func AtPosition(n int) Selector { return Selector{Position: n} }

// ByID selects by identity.
func ByID(id string) Selector { return Selector{ID: id} }

// IsLast reports whether the selector is the tail-pop default.
func (s Selector) IsLast() bool {
	return s.Position == 0 && s.ID == ""
}

func (s Selector) String() string {
	switch {
	case s.IsLast():
		return "last"
	case s.ID != "":
		return "id " + s.ID
	default:
		return fmt.Sprintf("position %d", s.Position)
	}
}
