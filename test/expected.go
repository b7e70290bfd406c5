// Package test provides small assertion helpers shared by every package's
// unit tests. It deliberately avoids a third-party assertion library; the
// helpers here are the one convention used throughout the module.
package test

import (
	"math"
	"reflect"
	"testing"
)

// ExpectFailure checks that v represents a failure. Accepted shapes are a
// bool (false is a failure) or an error (non-nil is a failure).
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if v {
			t.Errorf("expected failure, got success")
		}
	case error:
		if v == nil {
			t.Errorf("expected failure, got nil error")
		}
	default:
		t.Errorf("unsupported type in ExpectFailure: %T", v)
	}
}

// ExpectSuccess checks that v represents a success. Accepted shapes are a
// bool (true is a success) or an error (nil is a success).
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if !v {
			t.Errorf("expected success, got failure")
		}
	case error:
		if v != nil {
			t.Errorf("expected success, got error: %v", v)
		}
	case nil:
		// a literal nil passed as interface{} - treat as success
	default:
		t.Errorf("unsupported type in ExpectSuccess: %T", v)
	}
}

// ExpectEquality checks that a and b are equal via reflect.DeepEqual.
func ExpectEquality(t *testing.T, a, b interface{}) {
	t.Helper()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected equality: %v != %v", a, b)
	}
}

// Equate is an alias of ExpectEquality, matching call sites that prefer the
// shorter spelling.
func Equate(t *testing.T, a, b interface{}) {
	t.Helper()
	ExpectEquality(t, a, b)
}

// ExpectInequality checks that a and b are not equal.
func ExpectInequality(t *testing.T, a, b interface{}) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		t.Errorf("expected inequality: %v == %v", a, b)
	}
}

// ExpectApproximate checks that a and b differ by no more than tolerance,
// coercing both to float64.
func ExpectApproximate(t *testing.T, a, b interface{}, tolerance float64) {
	t.Helper()

	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		t.Errorf("ExpectApproximate: unsupported types %T, %T", a, b)
		return
	}

	if math.Abs(af-bf) > tolerance {
		t.Errorf("expected %v to be within %v of %v", a, tolerance, b)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
