// Package book holds the in-memory address book and its persistence operations.
package book

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/smileynet/contacts/internal/contact"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrNoMatches      = errors.New("book: no matches")
	ErrRecordNotFound = errors.New("book: record not found")
)

// Audit entries written by Save and Load.
const (
	ActionSaved   = "Addressbook has been saved!"
	ActionLoaded  = "Addressbook has been loaded!"
	ActionCreated = "Addressbook has been created!"
)

// Store reads and writes whole-book snapshots.
type Store interface {
	Write(path string, records []contact.Record) error
	Read(path string) (records []contact.Record, found bool, err error)
}

// Auditor records that a persistence action happened.
type Auditor interface {
	Log(action string) error
}

// AddressBook is an ordered collection of records. Insertion order is the
// display and search order. Duplicate names and phones are allowed.
type AddressBook struct {
	records []contact.Record
	store   Store
	audit   Auditor
}

// New creates an empty AddressBook backed by store. audit may be nil.
func New(store Store, audit Auditor) *AddressBook {
	return &AddressBook{store: store, audit: audit}
}

// Add appends r to the book.
func (b *AddressBook) Add(r contact.Record) {
	b.records = append(b.records, r.Clone())
}

// Len returns the number of records.
func (b *AddressBook) Len() int {
	return len(b.records)
}

// Records returns a copy of all records in insertion order.
func (b *AddressBook) Records() []contact.Record {
	out := make([]contact.Record, len(b.records))
	for i, r := range b.records {
		out[i] = r.Clone()
	}
	return out
}

// Find returns the records whose first, last, or middle name contains query,
// in insertion order. Matching is case-sensitive and an empty query matches
// every record. When nothing matches it returns ErrNoMatches.
func (b *AddressBook) Find(query string) ([]contact.Record, error) {
	var matches []contact.Record
	for _, r := range b.records {
		if r.Matches(query) {
			matches = append(matches, r.Clone())
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w for the request:'%s'", ErrNoMatches, query)
	}
	return matches, nil
}

// Get returns the record with the given ID.
func (b *AddressBook) Get(id uuid.UUID) (contact.Record, error) {
	i, err := b.index(id)
	if err != nil {
		return contact.Record{}, err
	}
	return b.records[i].Clone(), nil
}

// Update replaces the stored record that has r's ID.
func (b *AddressBook) Update(r contact.Record) error {
	i, err := b.index(r.ID)
	if err != nil {
		return err
	}
	b.records[i] = r.Clone()
	return nil
}

// Remove deletes the record with the given ID, keeping the order of the rest.
func (b *AddressBook) Remove(id uuid.UUID) error {
	i, err := b.index(id)
	if err != nil {
		return err
	}
	b.records = append(b.records[:i], b.records[i+1:]...)
	return nil
}

func (b *AddressBook) index(id uuid.UUID) (int, error) {
	for i, r := range b.records {
		if r.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
}

// Save writes every record to path, replacing its previous contents, then
// appends ActionSaved to the audit log.
func (b *AddressBook) Save(path string) error {
	if err := b.store.Write(path, b.records); err != nil {
		return fmt.Errorf("book: saving %s: %w", path, err)
	}
	return b.log(ActionSaved)
}

// Load replaces the records with the snapshot at path. A missing or empty
// snapshot is a first run: the book is reset to empty and ActionCreated is
// logged. Otherwise ActionLoaded is logged. On error the records are unchanged.
func (b *AddressBook) Load(path string) error {
	records, found, err := b.store.Read(path)
	if err != nil {
		return fmt.Errorf("book: loading %s: %w", path, err)
	}
	if !found {
		b.records = nil
		return b.log(ActionCreated)
	}
	b.records = records
	return b.log(ActionLoaded)
}

func (b *AddressBook) log(action string) error {
	if b.audit == nil {
		return nil
	}
	if err := b.audit.Log(action); err != nil {
		return fmt.Errorf("book: audit: %w", err)
	}
	return nil
}
