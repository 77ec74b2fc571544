package contact

import "fmt"

// DefaultNameRetries is the repair budget used when no WithRetries option is given.
const DefaultNameRetries = 5

// Prompter asks the user for a replacement value.
// It is only called while repairing an invalid first name.
type Prompter interface {
	Prompt(message string) (string, error)
}

// PromptFunc adapts a plain function to the Prompter interface.
type PromptFunc func(message string) (string, error)

// Prompt calls f(message).
func (f PromptFunc) Prompt(message string) (string, error) { return f(message) }

// firstNamePrompt is shown before every repair attempt.
const firstNamePrompt = "Please note, the first name is mandatory, and should be at least one character long\nPlease provide First name:"

// Name is a person's name. First is always a valid name component.
type Name struct {
	First  string
	Last   string
	Middle string
}

type nameOptions struct {
	prompter Prompter
	retries  int
	rejected func(first string)
}

// NameOption configures NewName.
type NameOption func(*nameOptions)

// WithPrompter sets the prompter used to repair an invalid first name.
// Without one, an invalid first name fails immediately.
func WithPrompter(p Prompter) NameOption {
	return func(o *nameOptions) { o.prompter = p }
}

// WithRetries sets how many times the prompter is asked before giving up.
// Negative values are treated as zero.
func WithRetries(n int) NameOption {
	return func(o *nameOptions) {
		if n < 0 {
			n = 0
		}
		o.retries = n
	}
}

// WithRejectedFunc registers a callback invoked once with the original first
// name when it fails validation, before any repair attempt.
func WithRejectedFunc(fn func(first string)) NameOption {
	return func(o *nameOptions) { o.rejected = fn }
}

// NewName builds a Name. Last and middle names are stored verbatim.
// An invalid first name triggers the repair loop; if no attempt validates,
// the returned error matches ErrMissingRequiredField.
func NewName(first, last, middle string, opts ...NameOption) (Name, error) {
	o := nameOptions{retries: DefaultNameRetries}
	for _, opt := range opts {
		opt(&o)
	}

	if !IsValidNameComponent(first) {
		if o.rejected != nil {
			o.rejected(first)
		}
		repaired, err := repairFirstName(o)
		if err != nil {
			return Name{}, err
		}
		first = repaired
	}

	return Name{First: first, Last: last, Middle: middle}, nil
}

// repairFirstName asks the prompter for a valid first name, at most o.retries times.
func repairFirstName(o nameOptions) (string, error) {
	missing := &FieldError{Field: "first_name", Err: ErrMissingRequiredField}
	if o.prompter == nil {
		return "", missing
	}

	for attempt := 1; attempt <= o.retries; attempt++ {
		v, err := o.prompter.Prompt(firstNamePrompt)
		if err != nil {
			return "", fmt.Errorf("%w (attempt %d/%d): %w", missing, attempt, o.retries, err)
		}
		if IsValidNameComponent(v) {
			return v, nil
		}
	}
	return "", missing
}

// WithLast returns a copy of n with its last name replaced.
// The value is not validated, matching how last names are stored on creation.
func (n Name) WithLast(last string) Name {
	n.Last = last
	return n
}

// Validate checks the first-name invariant. It is used on decoded data,
// which does not pass through NewName.
func (n Name) Validate() error {
	if !IsValidNameComponent(n.First) {
		if n.First == "" {
			return &FieldError{Field: "first_name", Err: ErrMissingRequiredField}
		}
		return &FieldError{Field: "first_name", Value: n.First, Err: ErrInvalidFieldValue}
	}
	return nil
}

// String renders the name for display.
// With both middle and last names: "Last First Middle"; with only a last
// name: "First Last"; otherwise just "First".
func (n Name) String() string {
	switch {
	case n.Middle != "" && n.Last != "":
		return n.Last + " " + n.First + " " + n.Middle
	case n.Last != "":
		return n.First + " " + n.Last
	default:
		return n.First
	}
}
