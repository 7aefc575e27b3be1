package domain

import "strings"

// Well-known attribute names and sentinel values.
const (
	// AttributeLithology is the lithology attribute.
	AttributeLithology = "lithology"

	// AttributeBoreholeType is the attribute of the single interval spanning
	// a borehole created from a type description.
	AttributeBoreholeType = "borehole_type"

	// DefaultAttributeValue is carried by sentinel components filling
	// intervals that lack the requested attribute.
	DefaultAttributeValue = "Inconnu"

	// UnknownLevel is the contamination level of pollutants without thresholds.
	UnknownLevel = "Inconnu"
)

// AttributeKind selects the normalisation strategy of an attribute.
type AttributeKind string

// Available attribute kinds.
const (
	// AttributeKindLithology values are looked up in a lithology lexicon.
	AttributeKindLithology AttributeKind = "lithology"

	// AttributeKindSample values are looked up in a sample lexicon.
	AttributeKindSample AttributeKind = "sample"

	// AttributeKindPollutant values are concentrations classified into levels.
	AttributeKindPollutant AttributeKind = "pollutant"
)

// IsValid returns true if the attribute kind is recognised.
func (k AttributeKind) IsValid() bool {
	switch k {
	case AttributeKindLithology, AttributeKindSample, AttributeKindPollutant:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k AttributeKind) String() string {
	return string(k)
}

// keepsTrailingS lists tokens whose trailing "s" is not a plural mark.
// Comparison is case-insensitive.
var keepsTrailingS = map[string]struct{}{
	"gneiss":   {},
	"silex":    {},
	"vs":       {},
	"grès":     {},
	"gres":     {},
	"remblais": {},
	"as":       {},
}

// KeepsTrailingS reports whether token is on the keeps-trailing-s whitelist.
func KeepsTrailingS(token string) bool {
	_, ok := keepsTrailingS[strings.ToLower(strings.TrimSpace(token))]
	return ok
}

// NormaliseValue trims value and strips one trailing "s" unless the token is
// whitelisted. The operation is lossy on purpose: "sands" and "sand" collapse.
func NormaliseValue(value string) string {
	v := strings.TrimSpace(value)
	if len(v) < 2 || KeepsTrailingS(v) {
		return v
	}
	if last := v[len(v)-1]; last == 's' || last == 'S' {
		return v[:len(v)-1]
	}
	return v
}
