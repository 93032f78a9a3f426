package models

// Text is a string field that may be absent from its source.
// The zero value is absent.
type Text struct {
	value string
	valid bool
}

// Present returns a Text holding s.
func Present(s string) Text {
	return Text{value: s, valid: true}
}

// Absent returns a Text with no value.
func Absent() Text {
	return Text{}
}

// Valid reports whether the source carried a value for the field.
func (t Text) Valid() bool {
	return t.valid
}

// String returns the value, or "" when absent.
func (t Text) String() string {
	return t.value
}
