package frames

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadCSV_Delimiters(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"semicolon", "ID;Top;Base;Lithology\nB1;0;2,5;sand\n"},
		{"comma", "ID,Top,Base,Lithology\nB1,0,\"2,5\",sand\n"},
		{"tab", "ID\tTop\tBase\tLithology\nB1\t0\t2,5\tsand\n"},
		{"bom and crlf", "\ufeffID;Top;Base;Lithology\r\nB1;0;2,5;sand\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := ReadCSV(strings.NewReader(tt.content))
			require.NoError(t, err)
			assert.Equal(t, []string{"ID", "Top", "Base", "Lithology"}, frame.Columns)
			require.Equal(t, 1, frame.Len())
			assert.Equal(t, "2,5", frame.Cell(0, 2))
		})
	}
}

func TestReadCSV_SkipsBlankRows(t *testing.T) {
	frame, err := ReadCSV(strings.NewReader("ID;Top\nB1;0\n;\nB2;1\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, frame.Len())
	assert.Equal(t, "B2", frame.Cell(1, 0))
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrSchemaViolation)
}

func TestCSVReader_KindFromFileName(t *testing.T) {
	path := writeFile(t, "lithology.csv", "ID;Top;Base;Lithology\nB1;0;2;sand\n")
	reader := NewCSVReader()

	assert.True(t, reader.Supports(path))
	assert.False(t, reader.Supports("data.xlsx"))

	frames, err := reader.Read(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, "lithology", frames[0].Kind)
	assert.Equal(t, path, frames[0].Source)
}

func TestCSVReader_MissingFile(t *testing.T) {
	_, err := NewCSVReader().Read(context.Background(), filepath.Join(t.TempDir(), "none.csv"))
	assert.Error(t, err)
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Lithology"))
	require.NoError(t, f.SetSheetRow("Lithology", "A1", &[]any{"ID", "Top", "Base", "Lithology"}))
	require.NoError(t, f.SetSheetRow("Lithology", "A2", &[]any{"B1", 0, 2, "sand"}))
	require.NoError(t, f.SetSheetRow("Lithology", "A3", &[]any{"B1", 2, 5, "clay"}))

	_, err := f.NewSheet("Samples")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Samples", "A1", &[]any{"ID", "Top", "Base", "As"}))
	require.NoError(t, f.SetSheetRow("Samples", "A2", &[]any{"B1", 0, 1, 30}))

	_, err = f.NewSheet("Notes")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "boreholes.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestXLSXReader_OneFramePerSheet(t *testing.T) {
	path := writeWorkbook(t)
	reader := NewXLSXReader()
	require.True(t, reader.Supports(path))

	frames, err := reader.Read(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t, "Lithology", frames[0].Kind)
	assert.Equal(t, 2, frames[0].Len())
	assert.Equal(t, "clay", frames[0].Cell(1, 3))

	assert.Equal(t, "Samples", frames[1].Kind)
	assert.Equal(t, "30", frames[1].Cell(0, 3))
}

func TestXLSXReader_NoDataSheet(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := NewXLSXReader().Read(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrSchemaViolation)
}

func TestReader_Dispatch(t *testing.T) {
	csvPath := writeFile(t, "samples.csv", "ID;Top;Base;As\nB1;0;1;5\n")
	xlsxPath := writeWorkbook(t)
	reader := NewDefaultReader()

	frames, err := reader.ReadAll(context.Background(), []string{xlsxPath, csvPath})
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, "samples", frames[2].Kind)

	assert.False(t, reader.Supports("notes.docx"))
	_, err = reader.Read(context.Background(), "notes.docx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
