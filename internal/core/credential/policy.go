package credential

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ecomrating/store-rating/internal/core/domain"
)

// Field limits for account and store data.
const (
	NameMinLen       = 20
	NameMaxLen       = 60
	PasswordMinLen   = 8
	PasswordMaxLen   = 16
	AddressMaxLen    = 400
	passwordSpecials = `!@#$%^&*(),.?":{}|<>`
)

// Policy messages, shared by the service layer and the request validator.
const (
	MsgName     = "name must be between 20 and 60 characters"
	MsgEmail    = "invalid email format"
	MsgPassword = "password must be 8-16 characters with at least one uppercase letter and one special character"
	MsgAddress  = "address must be 400 characters or less"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidateName(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= NameMinLen && n <= NameMaxLen
}

// ValidateEmail accepts the local@domain.tld shape only; it is not RFC 5322.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func ValidatePassword(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < PasswordMinLen || n > PasswordMaxLen {
		return false
	}
	hasUpper := strings.ContainsFunc(s, func(r rune) bool { return r >= 'A' && r <= 'Z' })
	return hasUpper && strings.ContainsAny(s, passwordSpecials)
}

func ValidateAddress(s string) bool {
	return utf8.RuneCountInString(s) <= AddressMaxLen
}

// AccountFields is the set of user-supplied fields checked on account
// creation. Empty optional fields are skipped by CheckPartial.
type AccountFields struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// Check requires every field and applies each policy, returning the first
// violation as a *domain.ValidationError.
func (f AccountFields) Check() error {
	if f.Name == "" || f.Email == "" || f.Password == "" || f.Address == "" {
		return domain.NewValidationError("", "all fields are required")
	}
	return f.CheckPartial()
}

// CheckPartial applies the policy of every non-empty field.
func (f AccountFields) CheckPartial() error {
	switch {
	case f.Name != "" && !ValidateName(f.Name):
		return domain.NewValidationError("name", MsgName)
	case f.Email != "" && !ValidateEmail(f.Email):
		return domain.NewValidationError("email", MsgEmail)
	case f.Password != "" && !ValidatePassword(f.Password):
		return domain.NewValidationError("password", MsgPassword)
	case f.Address != "" && !ValidateAddress(f.Address):
		return domain.NewValidationError("address", MsgAddress)
	}
	return nil
}
