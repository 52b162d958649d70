// Package widget gives the terminal front-end the same input rules the
// browser widgets enforce for each input type.
package widget

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"formchat/internal/classifier"
)

var (
	ErrInvalidEmail  = errors.New("widget: not a valid email address")
	ErrInvalidNumber = errors.New("widget: not a non-negative number")
	ErrInvalidPhone  = errors.New("widget: not a valid phone number")
	ErrInvalidDate   = errors.New("widget: date must look like 2006-01-31")

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	phoneNumber     = regexp.MustCompile(`^\+?\d{6,15}$`)
)

// Normalize checks raw against the rules of widget t and returns the value to
// send. Text, textarea and select values pass through unchanged.
func Normalize(t classifier.InputType, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	switch t {
	case classifier.InputEmail:
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v {
			return "", ErrInvalidEmail
		}
		return v, nil
	case classifier.InputNumber:
		n, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
		if err != nil || n < 0 {
			return "", ErrInvalidNumber
		}
		return v, nil
	case classifier.InputTel:
		p := phoneSeparators.Replace(v)
		if !phoneNumber.MatchString(p) {
			return "", ErrInvalidPhone
		}
		return p, nil
	case classifier.InputDate:
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			return "", ErrInvalidDate
		}
		return v, nil
	default:
		return raw, nil
	}
}

// ResolveOption maps what the user typed to one of options, either by its
// 1-based position or by label, ignoring case.
func ResolveOption(options []string, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(v); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		return "", fmt.Errorf("widget: choose a number between 1 and %d", len(options))
	}
	for _, o := range options {
		if strings.EqualFold(o, v) {
			return o, nil
		}
	}
	return "", fmt.Errorf("widget: %q is not one of the options", v)
}
