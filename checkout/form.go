package checkout

import (
	"errors"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// Form is the checkout contact form.
type Form struct {
	Mpesa string `form:"mpesa" json:"mpesa" binding:"required,kephone"`
	Phone string `form:"phone" json:"phone" binding:"required,kephone"`
	Email string `form:"email" json:"email" binding:"required,email"`
}

var registerOnce sync.Once

// RegisterValidators adds the "kephone" tag to gin's validator. Safe to call
// more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("kephone", func(fl validator.FieldLevel) bool {
				_, err := NormalizePhone(fl.Field().String())
				return err == nil
			})
		}
	})
}

// NormalizePhone accepts Kenyan mobile numbers in the usual spellings
// (0712 345 678, +254712345678, 712345678) and returns the 2547XXXXXXXX
// form M-Pesa expects. 01XX numbers are mobile too.
func NormalizePhone(s string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return "", ErrInvalidPhone
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10 && digits[0] == '0':
		digits = "254" + digits[1:]
	case len(digits) == 9:
		digits = "254" + digits
	}
	if len(digits) != 12 || !strings.HasPrefix(digits, "254") {
		return "", ErrInvalidPhone
	}
	if digits[3] != '7' && digits[3] != '1' {
		return "", ErrInvalidPhone
	}
	return digits, nil
}

var fieldMessages = map[string]string{
	"required": "is required",
	"kephone":  "must be a valid Kenyan mobile number",
	"email":    "must be a valid email address",
}

// FieldErrors maps binding validation errors to form field names. It
// returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		label := fieldLabel(field)
		out[field] = label + " " + msg
	}
	return out
}

func fieldLabel(field string) string {
	switch field {
	case "mpesa":
		return "M-Pesa number"
	case "phone":
		return "Contact number"
	case "email":
		return "Email"
	}
	return field
}
