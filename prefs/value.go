// Package prefs implements the on-disk configuration convention used for
// the per-console Config (enforce_sprite_limits, emulate_non_linear_dac,
// deinterlace, forced_region, enable_ram_cartridge). Each field is
// registered against a Disk so it can be loaded/saved as a simple
// "key :: value" text file, independent of any particular console.
package prefs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is the string representation of a preference as it appears on
// disk; concrete pref types convert to/from this.
type Value interface{}

// Preference is implemented by every concrete preference type (Bool,
// String, Float, Int, Generic).
type Preference interface {
	Set(Value) error
	String() string
}

// Bool is a boolean preference. The zero value is false.
type Bool struct {
	value bool
}

// Set accepts a bool, or a string parseable by strconv.ParseBool.
func (b *Bool) Set(v Value) error {
	switch v := v.(type) {
	case bool:
		b.value = v
	case string:
		p, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("prefs: cannot parse bool: %w", err)
		}
		b.value = p
	default:
		return fmt.Errorf("prefs: unsupported value type for Bool: %T", v)
	}
	return nil
}

// Get returns the current value.
func (b *Bool) Get() bool { return b.value }

func (b *Bool) String() string {
	return strconv.FormatBool(b.value)
}

// String is a string preference, optionally capped to a maximum length.
type String struct {
	value  string
	maxLen int
}

// Set accepts any value and stores its string form, cropped to the
// current maximum length (if any).
func (s *String) Set(v Value) error {
	str, ok := v.(string)
	if !ok {
		str = fmt.Sprintf("%v", v)
	}
	s.value = str
	s.crop()
	return nil
}

// SetMaxLen sets the maximum string length, cropping the current value
// immediately. A zero length disables cropping for future Set() calls but
// does not restore any previously cropped content.
func (s *String) SetMaxLen(n int) {
	s.maxLen = n
	s.crop()
}

func (s *String) crop() {
	if s.maxLen > 0 && len(s.value) > s.maxLen {
		s.value = s.value[:s.maxLen]
	}
}

// Get returns the current value.
func (s *String) Get() string { return s.value }

func (s *String) String() string { return s.value }

// Float is a floating-point preference.
type Float struct {
	value float64
}

// Set accepts a float64, float32, or int; any other type (including a
// string) is a format error, matching the teacher convention that numeric
// prefs don't auto-parse strings the way Bool/Int do.
func (f *Float) Set(v Value) error {
	switch v := v.(type) {
	case float64:
		f.value = v
	case float32:
		f.value = float64(v)
	case int:
		f.value = float64(v)
	default:
		return fmt.Errorf("prefs: unsupported value type for Float: %T", v)
	}
	return nil
}

// Get returns the current value.
func (f *Float) Get() float64 { return f.value }

func (f *Float) String() string {
	return strconv.FormatFloat(f.value, 'g', -1, 64)
}

// Int is an integer preference.
type Int struct {
	value int
}

// Set accepts an int, or a string parseable by strconv.Atoi.
func (i *Int) Set(v Value) error {
	switch v := v.(type) {
	case int:
		i.value = v
	case string:
		p, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("prefs: cannot parse int: %w", err)
		}
		i.value = p
	default:
		return fmt.Errorf("prefs: unsupported value type for Int: %T", v)
	}
	return nil
}

// Get returns the current value.
func (i *Int) Get() int { return i.value }

func (i *Int) String() string {
	return strconv.Itoa(i.value)
}

// Generic wraps arbitrary set/get funcs so that values not covered by the
// concrete types above (structured values, multi-field settings) can still
// be registered with a Disk.
type Generic struct {
	set func(Value) error
	get func() Value
}

// NewGeneric creates a Generic preference from a setter and getter pair.
func NewGeneric(set func(Value) error, get func() Value) *Generic {
	return &Generic{set: set, get: get}
}

// Set delegates to the wrapped setter.
func (g *Generic) Set(v Value) error {
	return g.set(v)
}

func (g *Generic) String() string {
	v := g.get()
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// sortedKeys returns m's keys in ascending order, used so Disk.Save output
// is stable across runs.
func sortedKeys(m map[string]Preference) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
