package security

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Validation patterns
var (
	// Ticker pattern: exchange symbols plus index carets, share-class dots and dashes
	tickerPattern = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.\-=]{0,14}$`)

	// Account id pattern: alphanumeric with limited special chars
	accountIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.@-]{1,64}$`)
)

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// ValidateTicker validates a ticker symbol after upper-casing it.
func ValidateTicker(ticker string) error {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))

	if ticker == "" {
		return &ValidationError{Field: "ticker", Value: ticker, Message: "ticker cannot be empty"}
	}
	if !tickerPattern.MatchString(ticker) {
		return &ValidationError{Field: "ticker", Value: ticker, Message: "invalid ticker format"}
	}
	return nil
}

// ValidateAccountID validates a local account id.
func ValidateAccountID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "account_id", Value: id, Message: "account id cannot be empty"}
	}
	if !accountIDPattern.MatchString(id) {
		return &ValidationError{Field: "account_id", Value: id, Message: "account id may only contain letters, digits and _ . @ -"}
	}
	return nil
}

// ValidatePassword rejects empty passwords.
func ValidatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: "password cannot be empty"}
	}
	return nil
}

// ValidateDate validates an optional YYYY-MM-DD date.
func ValidateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return &ValidationError{Field: field, Value: value, Message: "expected YYYY-MM-DD"}
	}
	return nil
}

// MaskCredential keeps the first and last two characters of a secret.
func MaskCredential(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

// RedactURL hides any password embedded in a URL before it is logged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
