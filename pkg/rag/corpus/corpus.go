package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Passage is one FAQ answer candidate.
type Passage struct {
	DocID string `json:"docid"`
	Text  string `json:"text"`
}

// Corpus is the read-only passage collection loaded at startup. Order is stable
// so batching is deterministic.
type Corpus struct {
	passages []Passage
}

func New(passages []Passage) *Corpus {
	cp := make([]Passage, len(passages))
	copy(cp, passages)
	return &Corpus{passages: cp}
}

// Load reads a headerless TSV file of `docid<TAB>text` rows. Blank rows are
// skipped; a row with fewer than two columns fails the load.
func Load(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

func Read(r io.Reader) (*Corpus, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var passages []Passage
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("corpus row %d: %w", line, err)
		}
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("corpus row %d: each row must have docid and passage text", line)
		}
		passages = append(passages, Passage{
			DocID: strings.TrimSpace(row[0]),
			Text:  strings.TrimSpace(row[1]),
		})
	}
	return &Corpus{passages: passages}, nil
}

func (c *Corpus) Len() int {
	return len(c.passages)
}

// Prefix returns at most n passages from the head of the corpus. n <= 0 means all.
// The returned slice shares storage with the corpus and must not be modified.
func (c *Corpus) Prefix(n int) []Passage {
	if n <= 0 || n > len(c.passages) {
		return c.passages
	}
	return c.passages[:n]
}
