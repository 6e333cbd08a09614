package genetics

import "math/rand"

// Crossover combines own with foreign into one offspring sequence.
//
// A nil foreign returns a copy of own. Otherwise a contiguous span chosen by
// seed is taken from foreign and the remainder from own. The output has the
// length of own and every byte comes from one of the parents, so the same
// seed and inputs always produce the same offspring.
func Crossover(seed int64, own, foreign Dna) Dna {
	if foreign == nil || len(own) == 0 || len(foreign) == 0 {
		return own.Clone()
	}

	rng := rand.New(rand.NewSource(seed))
	n := len(own)
	start := rng.Intn(n)
	end := start + 1 + rng.Intn(n-start)

	out := own.Clone()
	for i := start; i < end; i++ {
		out[i] = foreign[i%len(foreign)]
	}
	return out
}

// Mutate flips one random bit in each byte with probability rate.
// A zero rate returns an unchanged copy.
func Mutate(rng *rand.Rand, dna Dna, rate float64) Dna {
	out := dna.Clone()
	if rate <= 0 {
		return out
	}
	for i := range out {
		if rng.Float64() < rate {
			out[i] ^= 1 << uint(rng.Intn(8))
		}
	}
	return out
}
