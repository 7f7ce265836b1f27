// Package validation holds the input predicates applied to user-supplied text
// before anything reaches the store, and their go-playground/validator bindings.
package validation

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// MinPasswordLength is the shortest password IsValidPassword accepts.
const MinPasswordLength = 6

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passwordRe = regexp.MustCompile(`^[a-zA-Z0-9!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]+$`)
	safeRe     = regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)

	strictPolicy = bluemonday.StrictPolicy()
)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidPassword(password string) bool {
	return len(password) >= MinPasswordLength && passwordRe.MatchString(password)
}

// IsSafeString accepts ASCII letters, digits and whitespace only.
// It is an input contract for names, not an escaping mechanism.
func IsSafeString(s string) bool {
	return safeRe.MatchString(s)
}

// Text strips every HTML tag from free text and trims the result.
// The result is plain text: entities the policy escapes are decoded again,
// escaping happens where the text is rendered.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// validator tag names
const (
	TagEmail    = "campus_email"
	TagPassword = "campus_password"
	TagSafe     = "safe_string"
)

// Register 將自訂規則註冊到 validator 實例
func Register(v *validator.Validate) error {
	rules := map[string]func(string) bool{
		TagEmail:    IsValidEmail,
		TagPassword: IsValidPassword,
		TagSafe:     IsSafeString,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		}); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// New 回傳已註冊自訂規則的 validator，並以 json 欄位名稱回報錯誤
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

// Message turns the first validator failure into a field-specific message.
// Errors that are not validator errors are returned as-is.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_with":
		return fmt.Sprintf("%s is required", field)
	case TagEmail:
		return "invalid email"
	case TagPassword:
		return fmt.Sprintf("password must be at least %d characters of letters, digits or symbols", MinPasswordLength)
	case TagSafe:
		return fmt.Sprintf("%s may only contain letters, digits and spaces", field)
	case "gt", "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// EchoValidator adapts a validator instance to echo's Validator interface.
type EchoValidator struct {
	V *validator.Validate
}

func (ev EchoValidator) Validate(i any) error {
	return ev.V.Struct(i)
}
