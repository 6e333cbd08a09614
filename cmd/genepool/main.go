// Gene pool tool - inspect, seed and harvest minion gene pool CSV files.
//
// Usage:
//
//	go run ./cmd/genepool -in minion_gene_pool.csv
//	go run ./cmd/genepool -seed-config -out minion_gene_pool.csv
//	go run ./cmd/genepool -from-snapshot snapshots/snapshot_6000.json -out minion_gene_pool.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/genetics"
	"github.com/pthm-cable/oids/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	in := flag.String("in", "", "Gene pool CSV to print")
	out := flag.String("out", "", "Gene pool CSV to write")
	seedConfig := flag.Bool("seed-config", false, "Write the config's seed genomes to -out")
	fromSnapshot := flag.String("from-snapshot", "", "Harvest minion and spore DNA from a snapshot into -out")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var pool *genetics.GenePool
	switch {
	case *in != "":
		pool, err = genetics.LoadGenePool(*in, cfg.GenePool.Capacity)
	case *seedConfig:
		pool, err = genetics.NewGenePool(cfg.GenePool.Minion, cfg.GenePool.Capacity)
	case *fromSnapshot != "":
		pool, err = harvest(*fromSnapshot, cfg.GenePool.Capacity)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}

	printPool(os.Stdout, pool)

	if *out != "" {
		if err := pool.Save(*out); err != nil {
			log.Fatalf("failed to save gene pool: %v", err)
		}
		fmt.Printf("wrote %d genomes to %s\n", pool.Len(), *out)
	}
}

// harvest builds a pool from the DNA of every living minion and spore in a snapshot.
func harvest(path string, capacity int) (*genetics.GenePool, error) {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return nil, err
	}
	var encoded []string
	for _, a := range snap.Agents {
		if !a.Active || a.Dna == "" || (a.Type != "minion" && a.Type != "spore") {
			continue
		}
		encoded = append(encoded, a.Dna)
	}
	if len(encoded) == 0 {
		encoded = snap.GenePool
	}
	if capacity < len(encoded) {
		// Keep the most recent genomes.
		encoded = encoded[len(encoded)-capacity:]
	}
	return genetics.NewGenePool(encoded, capacity)
}

// printPool writes one line per genome with its gender and length.
func printPool(w io.Writer, pool *genetics.GenePool) {
	for i, s := range pool.Encoded() {
		dna := genetics.MustParseDna(s)
		fmt.Fprintf(w, "%3d  %s  gender=%s  bytes=%d\n", i, s, genetics.GenderOf(dna), len(dna))
	}
	fmt.Fprintf(w, "%d genomes\n", pool.Len())
}
