package genetics

// Genome reads phenotype values from DNA as a stream of bits, MSB first.
// The stream wraps around when exhausted so every read is defined.
type Genome struct {
	dna Dna
	bit int
}

// NewGenome creates a reader positioned at the start of dna.
func NewGenome(dna Dna) *Genome {
	return &Genome{dna: dna}
}

// Dna returns the underlying sequence.
func (g *Genome) Dna() Dna { return g.dna }

// Gender returns the mating type of the genome.
func (g *Genome) Gender() Gender { return GenderOf(g.dna) }

func (g *Genome) nextBits(n int) uint64 {
	if len(g.dna) == 0 {
		return 0
	}
	total := len(g.dna) * 8
	var v uint64
	for i := 0; i < n; i++ {
		pos := g.bit % total
		b := (g.dna[pos/8] >> (7 - uint(pos%8))) & 1
		v = v<<1 | uint64(b)
		g.bit++
	}
	return v
}

// NextBool reads one bit.
func (g *Genome) NextBool() bool {
	return g.nextBits(1) == 1
}

// NextInteger reads an integer in [min, max].
func (g *Genome) NextInteger(min, max int) int {
	if max <= min {
		return min
	}
	span := uint64(max - min + 1)
	return min + int(g.nextBits(8)%span)
}

// NextFloat reads a float in [min, max] with 8 bits of resolution.
func (g *Genome) NextFloat(min, max float64) float64 {
	return min + (max-min)*float64(g.nextBits(8))/255
}
