// Package emuerr implements the curated-error convention used across the
// core. Call sites build errors with Errorf against a fixed category
// constant rather than ad-hoc fmt.Errorf strings, so that frontends can
// switch on Is()/Head() instead of string-matching.
package emuerr

import (
	"fmt"
	"strings"
)

// Values holds the formatting arguments for a curated error.
type Values []interface{}

// curated is an error tagged with one of the Category constants. It exists
// alongside the standard error interface so existing error-wrapping code
// (errors.Is, fmt.Errorf %w) keeps working against it.
type curated struct {
	message string
	values  Values
}

// Errorf creates a curated error from a message template (normally one of
// the Category string constants) and its formatting arguments.
func Errorf(message string, values ...interface{}) error {
	return curated{message: message, values: values}
}

// Error implements the error interface. Adjacent duplicate message segments
// are collapsed, which happens naturally when a curated error wraps another
// curated error built from the same template.
func (e curated) Error() string {
	s := fmt.Errorf(e.message, e.values...).Error()

	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}
	return strings.Join(p, ": ")
}

// Head returns the leading message template of err, or err.Error() if err
// was not built with Errorf.
func Head(err error) string {
	if e, ok := err.(curated); ok {
		return e.message
	}
	return err.Error()
}

// IsAny reports whether err was built by this package.
func IsAny(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(curated)
	return ok
}

// Is reports whether err's template equals head.
func Is(err error, head string) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(curated); ok {
		return e.message == head
	}
	return false
}

// Has reports whether head appears anywhere in err's wrap chain.
func Has(err error, head string) bool {
	if err == nil || !IsAny(err) {
		return false
	}
	if Is(err, head) {
		return true
	}
	for _, v := range err.(curated).values {
		if e, ok := v.(curated); ok {
			if Has(e, head) {
				return true
			}
		}
	}
	return false
}
