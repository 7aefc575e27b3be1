package legends

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

const lithologyLegend = "colour;width;component lithology\n#FFFF00;3;sand\n#aaaaaa;2,5;clay\n#884400;;silt\n"

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoader_LoadFile(t *testing.T) {
	path := write(t, t.TempDir(), "lithology.csv", lithologyLegend)

	attr, legend, err := NewLoader().LoadFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "lithology", attr)
	assert.Equal(t, domain.Legend{
		{Value: "sand", Colour: "#ffff00", Width: 3},
		{Value: "clay", Colour: "#aaaaaa", Width: 2.5},
		{Value: "silt", Colour: "#884400", Width: domain.DefaultLegendWidth},
	}, legend)
}

func TestLoader_LoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no component column", "colour,width,value\n#ffffff,1,sand\n"},
		{"bad colour", "colour,width,component lithology\nyellow,1,sand\n"},
		{"bad width", "colour,width,component lithology\n#ffffff,wide,sand\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, t.TempDir(), "legend.csv", tt.content)
			_, _, err := NewLoader().LoadFile(context.Background(), path)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLoader_LoadDir(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a_lithology.csv", lithologyLegend)
	write(t, dir, "b_types.csv", "color,width,component Borehole_Type\n#0000ff,1,piezometer\n")
	write(t, dir, "c_lithology.csv", "colour,width,component lithology\n#000000,1,sand\n")
	write(t, dir, "notes.txt", "ignored")

	dict, err := NewLoader().LoadDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"borehole_type", "lithology"}, dict.Attributes())
	assert.Equal(t, "#ffff00", dict["lithology"].Legend[0].Colour)
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "lithology.csv", lithologyLegend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var reloads []domain.LegendDict
	done := make(chan error, 1)
	w := NewWatcher(NewLoader(), dir)
	w.debounce = 10 * time.Millisecond
	go func() {
		done <- w.Run(ctx, func(dict domain.LegendDict, err error) {
			if err != nil {
				return
			}
			mu.Lock()
			reloads = append(reloads, dict)
			mu.Unlock()
		})
	}()

	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(reloads)
	}
	require.Eventually(t, func() bool { return count() == 1 }, 2*time.Second, 10*time.Millisecond)

	write(t, dir, "types.csv", "colour,width,component borehole_type\n#0000ff,1,core\n")
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		_, ok := reloads[len(reloads)-1]["borehole_type"]
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	w := NewWatcher(NewLoader(), filepath.Join(t.TempDir(), "missing"))
	err := w.Run(context.Background(), func(domain.LegendDict, error) {})
	assert.Error(t, err)
}
