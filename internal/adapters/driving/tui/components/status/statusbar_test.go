package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBar_Defaults(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, 80, bar.Width())
	assert.Contains(t, bar.View(), "Ready")
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(b *Bar)
		contains []string
	}{
		{
			name:     "loading",
			setup:    func(b *Bar) { b.SetState(StateLoading) },
			contains: []string{"Loading..."},
		},
		{
			name: "error with message",
			setup: func(b *Bar) {
				b.SetState(StateError)
				b.SetMessage("store closed")
			},
			contains: []string{"Error: store closed"},
		},
		{
			name: "count and attribute",
			setup: func(b *Bar) {
				b.SetCount(3)
				b.SetAttribute("lithology")
			},
			contains: []string{"3 borehole(s)", "lithology", "tab: next attribute"},
		},
		{
			name:     "detail hints",
			setup:    func(b *Bar) { b.SetState(StateDetail) },
			contains: []string{"esc: back"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(160)
			tt.setup(bar)

			view := bar.View()
			for _, s := range tt.contains {
				assert.Contains(t, view, s)
			}
		})
	}
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetCount(2)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, 2, bar.Count())
}
