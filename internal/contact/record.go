package contact

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Record is one address book entry: a name and its phone numbers.
type Record struct {
	ID     uuid.UUID
	Name   Name
	Phones []PhoneNumber
}

// NewRecord creates a Record with a fresh ID. A non-nil phone, valid or
// draft, becomes the first entry of Phones; nil leaves Phones empty.
func NewRecord(name Name, phone *PhoneNumber) Record {
	r := Record{ID: uuid.New(), Name: name}
	if phone != nil {
		r.Phones = append(r.Phones, *phone)
	}
	return r
}

// FirstPhone returns the first phone, if any.
func (r Record) FirstPhone() (PhoneNumber, bool) {
	if len(r.Phones) == 0 {
		return PhoneNumber{}, false
	}
	return r.Phones[0], true
}

// SetPhone replaces the phone at index i, or appends when i == len(Phones).
func (r *Record) SetPhone(i int, p PhoneNumber) error {
	switch {
	case i >= 0 && i < len(r.Phones):
		r.Phones[i] = p
	case i == len(r.Phones):
		r.Phones = append(r.Phones, p)
	default:
		return fmt.Errorf("contact: phone index %d out of range [0, %d]", i, len(r.Phones))
	}
	return nil
}

// Matches reports whether query is a substring of the first, last, or middle
// name. Matching is case-sensitive; an empty query matches every record.
func (r Record) Matches(query string) bool {
	return strings.Contains(r.Name.First, query) ||
		strings.Contains(r.Name.Last, query) ||
		strings.Contains(r.Name.Middle, query)
}

// String renders "<name>: <first phone>", leaving the phone blank when absent.
func (r Record) String() string {
	p, _ := r.FirstPhone()
	return fmt.Sprintf("%s: %s", r.Name, p)
}

// Clone returns a copy of r that shares no slices with it.
func (r Record) Clone() Record {
	c := r
	if r.Phones != nil {
		c.Phones = make([]PhoneNumber, len(r.Phones))
		copy(c.Phones, r.Phones)
	}
	return c
}
