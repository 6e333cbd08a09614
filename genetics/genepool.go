package genetics

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/gocarina/gocsv"
)

// GenePool holds a bounded set of DNA sequences used to seed new agents.
// Once full, new entries overwrite the oldest.
type GenePool struct {
	pool     []Dna
	capacity int
	next     int
}

// geneRecord is one row of a gene pool CSV file.
type geneRecord struct {
	Dna string `csv:"dna"`
}

// NewGenePool creates a pool from base64-encoded sequences.
// A non-positive capacity means the pool never grows past its initial size.
func NewGenePool(encoded []string, capacity int) (*GenePool, error) {
	p := &GenePool{capacity: capacity}
	for _, s := range encoded {
		d, err := ParseDna(s)
		if err != nil {
			return nil, err
		}
		p.pool = append(p.pool, d)
	}
	if p.capacity < len(p.pool) {
		p.capacity = len(p.pool)
	}
	return p, nil
}

// Len returns the number of sequences in the pool.
func (p *GenePool) Len() int { return len(p.pool) }

// Next returns a copy of a randomly chosen sequence, or nil for an empty pool.
func (p *GenePool) Next(rng *rand.Rand) Dna {
	if len(p.pool) == 0 {
		return nil
	}
	return p.pool[rng.Intn(len(p.pool))].Clone()
}

// Add stores a copy of dna, replacing the oldest entry when full.
func (p *GenePool) Add(dna Dna) {
	if p.capacity <= 0 {
		return
	}
	if len(p.pool) < p.capacity {
		p.pool = append(p.pool, dna.Clone())
		return
	}
	p.pool[p.next] = dna.Clone()
	p.next = (p.next + 1) % p.capacity
}

// Encoded returns the pool as base64 strings.
func (p *GenePool) Encoded() []string {
	out := make([]string, len(p.pool))
	for i, d := range p.pool {
		out[i] = d.String()
	}
	return out
}

// LoadGenePool reads a pool from a CSV file with a "dna" column.
func LoadGenePool(path string, capacity int) (*GenePool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening gene pool: %w", err)
	}
	defer f.Close()

	var records []geneRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parsing gene pool %s: %w", path, err)
	}

	encoded := make([]string, len(records))
	for i, r := range records {
		encoded[i] = r.Dna
	}
	return NewGenePool(encoded, capacity)
}

// Save writes the pool to path as CSV.
func (p *GenePool) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating gene pool file: %w", err)
	}
	return writeRecords(f, p.records())
}

func (p *GenePool) records() []geneRecord {
	records := make([]geneRecord, len(p.pool))
	for i, d := range p.pool {
		records[i] = geneRecord{Dna: d.String()}
	}
	return records
}

// writeRecords marshals records to w and closes it, reporting the first error.
func writeRecords(w io.WriteCloser, records []geneRecord) error {
	if err := gocsv.Marshal(records, w); err != nil {
		w.Close()
		return fmt.Errorf("writing gene pool: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing gene pool file: %w", err)
	}
	return nil
}
