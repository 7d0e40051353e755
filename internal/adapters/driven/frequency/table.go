// Package frequency loads corpus word frequency tables.
//
// The expected format is the NyLLex token table: a header line, then one row
// per (lemma, SUC tag) variant with the absolute count in column 16. Counts
// are summed per lemma and universal tag, so several SUC tags that map to the
// same universal tag share one entry. Rows with unknown tags are ignored.
package frequency

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/sentorder/internal/core/domain"
	"github.com/custodia-labs/sentorder/internal/core/ports/driven"
)

// Ensure Table implements the interface.
var _ driven.FrequencyTable = (*Table)(nil)

// Column layout of the NyLLex table.
const (
	lemmaColumn = 0
	tagColumn   = 1
	countColumn = 15
)

// SUCToUPOS maps SUC part-of-speech tags to universal tags.
var SUCToUPOS = map[string]string{
	"AB": "ADV",
	"DT": "DET",
	"HA": "ADJ",
	"HD": "ADJ",
	"HP": "PRON",
	"HS": "ADJ",
	"IE": "PART",
	"IN": "INTJ",
	"JJ": "ADJ",
	"KN": "CCONJ",
	"NN": "NOUN",
	"PC": "ADJ",
	"PL": "PART",
	"PM": "PROPN",
	"PN": "PRON",
	"PP": "ADP",
	"PS": "ADJ",
	"RG": "NUM",
	"RO": "NUM",
	"SN": "SCONJ",
	"UO": "X",
	"VB": "VERB",
}

type entryKey struct {
	lemma string
	upos  string
}

// Table is an immutable lemma frequency table.
type Table struct {
	counts map[entryKey]int
}

// NewTable builds a table from explicit counts keyed by lemma and UPOS.
func NewTable(counts map[[2]string]int) *Table {
	t := &Table{counts: make(map[entryKey]int, len(counts))}
	for k, v := range counts {
		t.counts[entryKey{k[0], k[1]}] += v
	}
	return t
}

// Load reads a NyLLex CSV file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frequency table: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("frequency table %s: %w", path, err)
	}
	return t, nil
}

// Read parses a NyLLex CSV stream. The first line is a header.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header: %w", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{counts: make(map[entryKey]int)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		if len(record) <= tagColumn {
			continue
		}
		upos, ok := SUCToUPOS[strings.TrimSpace(record[tagColumn])]
		if !ok {
			continue
		}
		if len(record) <= countColumn {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected at least %d columns: %w",
				line, countColumn+1, domain.ErrInvalidInput)
		}
		count, err := strconv.Atoi(strings.TrimSpace(record[countColumn]))
		if err != nil {
			line, _ := reader.FieldPos(countColumn)
			return nil, fmt.Errorf("line %d: invalid count %q: %w", line, record[countColumn], domain.ErrInvalidInput)
		}
		t.counts[entryKey{record[lemmaColumn], upos}] += count
	}
	return t, nil
}

// Frequency returns the summed count for lemma with the given universal tag.
func (t *Table) Frequency(lemma, upos string) int {
	return t.counts[entryKey{lemma, upos}]
}

// Len returns the number of distinct (lemma, UPOS) entries.
func (t *Table) Len() int {
	return len(t.counts)
}
