package contact

import "fmt"

// PhoneKind distinguishes a validated number from a retained draft.
type PhoneKind string

const (
	PhoneValid PhoneKind = "valid" // Passed IsValidPhone.
	PhoneDraft PhoneKind = "draft" // Raw input kept for later correction.
)

// PhoneNumber holds either a validated number or the raw input that failed
// validation. Invalid input is never dropped: it degrades to a draft.
type PhoneNumber struct {
	kind  PhoneKind
	value string
}

// NewPhoneNumber validates raw and returns a valid phone or a draft.
// Empty input (a skipped phone) becomes an empty draft.
func NewPhoneNumber(raw string) PhoneNumber {
	if IsValidPhone(raw) {
		return PhoneNumber{kind: PhoneValid, value: raw}
	}
	return PhoneNumber{kind: PhoneDraft, value: raw}
}

// RestorePhoneNumber rebuilds a PhoneNumber from persisted parts.
// A valid kind whose value no longer validates is rejected.
func RestorePhoneNumber(kind PhoneKind, value string) (PhoneNumber, error) {
	switch kind {
	case PhoneValid:
		if !IsValidPhone(value) {
			return PhoneNumber{}, &FieldError{Field: "phone_number", Value: value, Err: ErrInvalidFieldValue}
		}
	case PhoneDraft:
	default:
		return PhoneNumber{}, fmt.Errorf("contact: unknown phone kind %q", kind)
	}
	return PhoneNumber{kind: kind, value: value}, nil
}

// Kind returns PhoneValid or PhoneDraft.
func (p PhoneNumber) Kind() PhoneKind {
	if p.kind == "" {
		return PhoneDraft
	}
	return p.kind
}

// IsDraft reports whether p holds unvalidated input.
func (p PhoneNumber) IsDraft() bool { return p.Kind() == PhoneDraft }

// Number returns the validated number, or "" for a draft.
func (p PhoneNumber) Number() string {
	if p.IsDraft() {
		return ""
	}
	return p.value
}

// Draft returns the retained raw input, or "" for a valid number.
func (p PhoneNumber) Draft() string {
	if p.IsDraft() {
		return p.value
	}
	return ""
}

// String returns the validated number; drafts render as "".
func (p PhoneNumber) String() string { return p.Number() }
