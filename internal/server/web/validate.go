package web

import (
	"net/mail"
	"strings"
)

const minPasswordLength = 8

// normalizeEmail trims whitespace and lowercases the address so lookups and
// the UNIQUE constraint see one canonical form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

func validateCredentials(email, password string, errs []apiError) []apiError {
	if !validEmail(email) {
		errs = append(errs, apiError{Type: "field", Msg: "email is not valid", Path: "email"})
	}
	if password == "" {
		errs = append(errs, apiError{Type: "field", Msg: "password is required", Path: "password"})
	} else if len(password) < minPasswordLength {
		errs = append(errs, apiError{Type: "field", Msg: "password must be at least 8 characters", Path: "password"})
	}
	return errs
}

func validateName(firstName, lastName string, errs []apiError) []apiError {
	if strings.TrimSpace(firstName) == "" {
		errs = append(errs, apiError{Type: "field", Msg: "first name is required", Path: "firstName"})
	}
	if strings.TrimSpace(lastName) == "" {
		errs = append(errs, apiError{Type: "field", Msg: "last name is required", Path: "lastName"})
	}
	return errs
}
