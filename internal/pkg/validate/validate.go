package validate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

func init() {
	_ = v.RegisterValidation("password", validPassword)
	_ = v.RegisterValidation("personname", validPersonName)
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error string or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, message(fe))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// message maps a failed field to the text shown to the user. Validation
// errors block submission before any collaborator is called, so each rule
// needs its own distinct message.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == "AcceptTerms" {
			return "please accept the terms of service and privacy policy"
		}
		return fmt.Sprintf("%s is required", fieldName(fe))
	case "email":
		return "please enter a valid email address"
	case "password":
		return "password must be at least 8 characters with one uppercase letter and one digit or symbol"
	case "personname":
		return "please enter your full name (letters and spaces, at least 2 characters)"
	case "eqfield":
		return "passwords do not match"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fieldName(fe), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fieldName(fe), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fieldName(fe))
	default:
		return fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag())
	}
}

func fieldName(fe validator.FieldError) string {
	var b strings.Builder
	for i, r := range fe.Field() {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// validPassword enforces the canonical policy: at least 8 characters, one
// uppercase letter, and one digit or symbol.
func validPassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < 8 {
		return false
	}
	var upper, extra bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r), unicode.IsPunct(r), unicode.IsSymbol(r):
			extra = true
		}
	}
	return upper && extra
}

// validPersonName accepts names of at least 2 characters made of letters and
// spaces only.
func validPersonName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	if len([]rune(name)) < 2 {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}
