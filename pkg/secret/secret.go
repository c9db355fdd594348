// Package secret provides a string wrapper that refuses to print its value.
// The wrapped value is only reachable through Expose, which should be called
// at the last possible moment (e.g. when setting an HTTP header).
package secret

const redacted = "[REDACTED]"

// String holds a sensitive value such as an API token.
type String struct {
	value string
}

// New wraps s.
func New(s string) String {
	return String{value: s}
}

// Expose returns the underlying value.
func (s String) Expose() string {
	return s.value
}

// IsEmpty reports whether no value is held.
func (s String) IsEmpty() bool {
	return s.value == ""
}

func (s String) String() string {
	return redacted
}

func (s String) GoString() string {
	return "secret.String(" + redacted + ")"
}

func (s String) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

func (s String) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}
