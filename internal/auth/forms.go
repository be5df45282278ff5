package auth

import (
	"fmt"          // Length message
	"strings"      // Whitespace trimming
	"unicode/utf8" // Lengths in characters

	"vegetable_inventory/internal/domain" // Column limits
)

// Field validation messages
const (
	RequiredMessage        = "This field is required."
	PasswordLengthMessage  = "Field must be at least 6 characters long."
	PasswordTooLongMessage = "Field cannot be longer than 72 bytes."
	PasswordMatchMessage   = "Field must be equal to password."
)

// UsernameTooLongMessage is shown for usernames longer than the name column
var UsernameTooLongMessage = fmt.Sprintf("Field cannot be longer than %d characters.", domain.MaxNameLength)

// MinPasswordLength is the shortest accepted password, in characters
const MinPasswordLength = 6

// maxPasswordBytes is the longest input bcrypt accepts
const maxPasswordBytes = 72

// FieldErrors maps a form field name to its validation messages
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// RegistrationForm is the submitted registration form
type RegistrationForm struct {
	Username        string `form:"username"`         // Requested username
	Password        string `form:"password"`         // Plain password
	ConfirmPassword string `form:"confirm_password"` // Must equal Password
}

// Validate checks the form, returning nil when it is valid
func (f RegistrationForm) Validate() FieldErrors {
	errs := FieldErrors{}
	validateUsername(errs, f.Username)
	switch {
	case f.Password == "":
		errs.add("password", RequiredMessage)
	case utf8.RuneCountInString(f.Password) < MinPasswordLength:
		errs.add("password", PasswordLengthMessage)
	case len(f.Password) > maxPasswordBytes:
		errs.add("password", PasswordTooLongMessage) // bcrypt rejects longer input
	}
	switch {
	case f.ConfirmPassword == "":
		errs.add("confirm_password", RequiredMessage)
	case f.ConfirmPassword != f.Password:
		errs.add("confirm_password", PasswordMatchMessage)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// LoginForm is the submitted login form
type LoginForm struct {
	Username string `form:"username"` // Account name
	Password string `form:"password"` // Plain password
}

// Validate checks that both fields were given
func (f LoginForm) Validate() FieldErrors {
	errs := FieldErrors{}
	validateUsername(errs, f.Username)
	if f.Password == "" {
		errs.add("password", RequiredMessage)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateUsername(errs FieldErrors, username string) {
	switch {
	case isBlank(username):
		errs.add("username", RequiredMessage)
	case utf8.RuneCountInString(username) > domain.MaxNameLength:
		errs.add("username", UsernameTooLongMessage) // Would not fit the users.name column
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
