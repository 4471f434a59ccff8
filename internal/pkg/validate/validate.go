package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Custom campus rules are registered in init() before
// the first call to Struct or Var.
var v = validator.New()

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

func init() {
	mustRegister("campus_username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	mustRegister("campus_password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	mustRegister("has_at", func(fl validator.FieldLevel) bool {
		return strings.Contains(fl.Field().String(), "@")
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// StrongPassword reports whether p has at least 6 characters, an ASCII letter and a digit.
func StrongPassword(p string) bool {
	if utf8.RuneCountInString(p) < 6 {
		return false
	}
	var letter, digit bool
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return letter && digit
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
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// Var validates a single value against tag, e.g. Var(name, "campus_username").
func Var(field interface{}, tag string) error {
	return v.Var(field, tag)
}
