// Command indexer rebuilds the per-ELO-group history indices from the
// historical match corpus: one pass over the matches, three sqlite
// files out. Runs offline; the serving side loads whatever files the
// last rebuild produced.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"draftsage/internal/corpus"
	"draftsage/internal/history"
	"draftsage/internal/rank"
)

var (
	corpusPath = flag.String("corpus", "", "JSONL corpus file (empty = load from DATABASE_URL)")
	outputDir  = flag.String("output-dir", "./history", "Directory for the per-group index files")
	patch      = flag.String("patch", "", "Only aggregate matches from this patch (Postgres source)")
)

func main() {
	flag.Parse()

	for _, path := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(path); err == nil {
			fmt.Printf("Loaded .env from: %s\n", path)
			break
		}
	}

	matches, err := loadMatches()
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}
	if len(matches) == 0 {
		fmt.Println("No matches in corpus, nothing to build")
		return
	}
	fmt.Printf("Loaded %d matches\n", len(matches))

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Bucket the corpus by ELO group before aggregating.
	byGroup := make(map[rank.Group][]corpus.Match, len(rank.Groups))
	for _, m := range matches {
		group := rank.GroupForTier(m.Tier)
		byGroup[group] = append(byGroup[group], m)
	}

	for _, group := range rank.Groups {
		ix := history.Build(group, byGroup[group])
		champions, pairs, counters := ix.Size()
		fmt.Printf("[%s] %d matches -> %d champions, %d pairs, %d counters\n",
			group, len(byGroup[group]), champions, pairs, counters)

		path := filepath.Join(*outputDir, string(group)+".db")
		if err := ix.Save(path); err != nil {
			log.Fatalf("Failed to save %s index: %v", group, err)
		}
		fmt.Printf("[%s] saved to %s\n", group, path)
	}

	fmt.Println("=== Indexer Complete ===")
}

func loadMatches() ([]corpus.Match, error) {
	if *corpusPath != "" {
		fmt.Printf("Reading corpus from: %s\n", *corpusPath)
		return corpus.ReadJSONLFile(*corpusPath)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("no -corpus file and DATABASE_URL not set")
	}

	fmt.Println("Reading corpus from Postgres")
	ctx := context.Background()
	store, err := corpus.NewStore(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Matches(ctx, *patch)
}
