package frequency

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sentorder/internal/core/domain"
)

// row builds a 16-column NyLLex row with count in the last column.
func row(lemma, tag, count string) string {
	cols := make([]string, 16)
	cols[0] = lemma
	cols[1] = tag
	for i := 2; i < 15; i++ {
		cols[i] = "0"
	}
	cols[15] = count
	return strings.Join(cols, ",")
}

func TestRead(t *testing.T) {
	input := strings.Join([]string{
		"lemma,pos,c2,c3,c4,c5,c6,c7,c8,c9,c10,c11,c12,c13,c14,count",
		row("hund", "NN", "120"),
		row("stor", "JJ", "40"),
		row("stor", "PC", "2"),
		row("och", "KN", "900"),
		row("xyz", "MAD", "5"),
		row("hund", "VB", "1"),
	}, "\n")

	table, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 120, table.Frequency("hund", "NOUN"))
	assert.Equal(t, 1, table.Frequency("hund", "VERB"))
	assert.Equal(t, 42, table.Frequency("stor", "ADJ"))
	assert.Equal(t, 900, table.Frequency("och", "CCONJ"))
	assert.Zero(t, table.Frequency("xyz", "PUNCT"))
	assert.Zero(t, table.Frequency("katt", "NOUN"))
	assert.Equal(t, 4, table.Len())
}

func TestRead_Errors(t *testing.T) {
	header := "lemma,pos\n"
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"short row", header + "hund,NN,1\n"},
		{"bad count", header + row("hund", "NN", "many")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRead_ShortRowWithUnknownTagIsSkipped(t *testing.T) {
	table, err := Read(strings.NewReader("lemma,pos\n.,MAD\n"))
	require.NoError(t, err)
	assert.Zero(t, table.Len())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nyllex.csv")
	require.NoError(t, os.WriteFile(path, []byte("h\n"+row("katt", "NN", "7")+"\n"), 0600))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, table.Frequency("katt", "NOUN"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestNewTable(t *testing.T) {
	table := NewTable(map[[2]string]int{{"hund", "NOUN"}: 3})
	assert.Equal(t, 3, table.Frequency("hund", "NOUN"))
	assert.Equal(t, 1, table.Len())
}
