package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent_Description(t *testing.T) {
	c := Component{Attributes: []Attribute{
		{Name: "lithology", Value: "sand"},
		{Name: "colour", Value: `grey "dark"`},
	}}
	assert.Equal(t, `{"lithology": "sand", "colour": "grey \"dark\""}`, c.Description())
	assert.Equal(t, c.Description(), c.String())
}

func TestComponent_DescriptionKeepsOrder(t *testing.T) {
	a := Component{Attributes: []Attribute{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}}
	b := Component{Attributes: []Attribute{{Name: "b", Value: "2"}, {Name: "a", Value: "1"}}}
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a.Clone()))
}

func TestNewComponent(t *testing.T) {
	c := NewComponent("  Lithology ", "sand")
	assert.Equal(t, `{"lithology": "sand"}`, c.Description())

	v, ok := c.Get("LITHOLOGY")
	assert.True(t, ok)
	assert.Equal(t, "sand", v)
	assert.True(t, c.HasAttribute("lithology"))
	assert.False(t, c.HasAttribute("colour"))
}

func TestComponent_IsEmpty(t *testing.T) {
	assert.True(t, Component{}.IsEmpty())
	assert.True(t, NewComponent("lithology", "  ").IsEmpty())
	assert.False(t, NewComponent("lithology", "sand").IsEmpty())
}

func TestComponent_CloneIsIndependent(t *testing.T) {
	c := NewComponent("lithology", "sand")
	c.ID = 4
	clone := c.Clone()
	clone.Attributes[0].Value = "clay"

	assert.Equal(t, 4, clone.ID)
	assert.Equal(t, "sand", c.Attributes[0].Value)
}

func TestParseComponentDescription(t *testing.T) {
	c, err := ParseComponentDescription(`{"Lithology": "sand", "as": "VI"}`)
	require.NoError(t, err)
	assert.Equal(t, []Attribute{{Name: "lithology", Value: "sand"}, {Name: "as", Value: "VI"}}, c.Attributes)

	round, err := ParseComponentDescription(c.Description())
	require.NoError(t, err)
	assert.True(t, c.Equal(round))
}

func TestParseComponentDescription_Invalid(t *testing.T) {
	for _, desc := range []string{"", "[]", `{1: "a"}`, `{"a": }`} {
		_, err := ParseComponentDescription(desc)
		assert.ErrorIs(t, err, ErrInvalidInput, desc)
	}
}

func TestJoinDescriptions(t *testing.T) {
	joined := JoinDescriptions([]Component{NewComponent("lithology", "sand"), NewComponent("as", "VR")})
	assert.Equal(t, `{"lithology": "sand"}, {"as": "VR"}`, joined)
	assert.Empty(t, JoinDescriptions(nil))
}
