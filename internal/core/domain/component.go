package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Attribute is a single attribute-value pair of a Component.
type Attribute struct {
	// Name is the lowercase canonical attribute name (e.g. "lithology").
	Name string

	// Value is the attribute value (e.g. "sand").
	Value string
}

// Component is an ordered mapping from attribute name to value.
//
// Components are content-addressed: two components with the same pairs in the
// same order share a Description and are considered equal. Once committed a
// component is never modified; the registry stores it once under ID.
type Component struct {
	// ID is the surrogate identifier assigned by the registry.
	ID int

	// Attributes holds the pairs in insertion order.
	Attributes []Attribute
}

// NewComponent creates a single-attribute component.
func NewComponent(name, value string) Component {
	return Component{
		Attributes: []Attribute{{Name: CanonicalAttributeName(name), Value: value}},
	}
}

// CanonicalAttributeName lowercases and trims an attribute name.
func CanonicalAttributeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Get returns the value of the attribute, matching the name case-insensitively.
func (c Component) Get(name string) (string, bool) {
	for _, a := range c.Attributes {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the component carries the attribute.
func (c Component) HasAttribute(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// IsEmpty reports whether the component has no non-empty value.
func (c Component) IsEmpty() bool {
	for _, a := range c.Attributes {
		if strings.TrimSpace(a.Value) != "" {
			return false
		}
	}
	return true
}

// Description returns the canonical JSON representation, keys in order,
// e.g. {"lithology": "sand"}. It is the registry key.
func (c Component) Description() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, a := range c.Attributes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteJSON(a.Name))
		b.WriteString(": ")
		b.WriteString(quoteJSON(a.Value))
	}
	b.WriteByte('}')
	return b.String()
}

// Equal compares components by content, ignoring IDs.
func (c Component) Equal(other Component) bool {
	return c.Description() == other.Description()
}

// Clone returns a deep copy.
func (c Component) Clone() Component {
	attrs := make([]Attribute, len(c.Attributes))
	copy(attrs, c.Attributes)
	return Component{ID: c.ID, Attributes: attrs}
}

// String implements fmt.Stringer.
func (c Component) String() string {
	return c.Description()
}

// ParseComponentDescription rebuilds a component from its Description,
// preserving key order.
func ParseComponentDescription(desc string) (Component, error) {
	dec := json.NewDecoder(strings.NewReader(desc))
	tok, err := dec.Token()
	if err != nil {
		return Component{}, fmt.Errorf("%w: component description: %v", ErrInvalidInput, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Component{}, fmt.Errorf("%w: component description must be an object", ErrInvalidInput)
	}

	var c Component
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Component{}, fmt.Errorf("%w: component key: %v", ErrInvalidInput, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Component{}, fmt.Errorf("%w: component key must be a string", ErrInvalidInput)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return Component{}, fmt.Errorf("%w: component value: %v", ErrInvalidInput, err)
		}
		c.Attributes = append(c.Attributes, Attribute{
			Name:  CanonicalAttributeName(key),
			Value: fmt.Sprint(value),
		})
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return Component{}, fmt.Errorf("%w: component description: %v", ErrInvalidInput, err)
	}
	return c, nil
}

// JoinDescriptions joins component descriptions with ", " as stored in
// Interval.Description.
func JoinDescriptions(components []Component) string {
	parts := make([]string, 0, len(components))
	for _, c := range components {
		parts = append(parts, c.Description())
	}
	return strings.Join(parts, ", ")
}

func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
