// Package contact validates the contact form and builds the mailto link
// it submits to.
package contact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidEmail is returned for an address that does not look like
	// name@host.tld.
	ErrInvalidEmail = errors.New("please enter a valid email address")
	// ErrMissingField is returned when name or message is empty.
	ErrMissingField = errors.New("name and message are required")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form is a submitted contact form.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Validate checks the form fields.
func (f Form) Validate() error {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Message) == "" {
		return ErrMissingField
	}
	if !emailPattern.MatchString(f.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// Subject returns the mail subject for the form.
func (f Form) Subject() string {
	return "Portfolio Contact from " + f.Name
}

// Body returns the mail body for the form.
func (f Form) Body() string {
	return fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s", f.Name, f.Email, f.Message)
}

// Mailto validates f and returns the mailto URL addressed to to.
func Mailto(to string, f Form) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	if !emailPattern.MatchString(to) {
		return "", fmt.Errorf("recipient %q: %w", to, ErrInvalidEmail)
	}
	return "mailto:" + to + "?subject=" + EncodeComponent(f.Subject()) + "&body=" + EncodeComponent(f.Body()), nil
}

// EncodeComponent percent-encodes s the way browsers encode a URI
// component: everything except A-Z a-z 0-9 and -_.!~*'() is escaped.
func EncodeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
