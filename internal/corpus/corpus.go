// Package corpus reads the historical match corpus the history index is
// built from. Matches come either from JSONL exports or from Postgres;
// both paths produce the same record shape.
package corpus

import (
	"bufio"
	"encoding/json"
	"io"
	"log"
	"os"

	"github.com/bits-and-blooms/bloom/v3"
)

// Match is one historical game: the two five-champion pick lists, the
// raw ban lists, and who won. Tier is the average ranked tier of the
// lobby and decides which ELO group's index the match feeds.
type Match struct {
	MatchID   string `json:"matchId"`
	Patch     string `json:"patch"`
	Tier      string `json:"tier"`
	BluePicks []int  `json:"bluePicks"`
	RedPicks  []int  `json:"redPicks"`
	BlueBans  []int  `json:"blueBans"`
	RedBans   []int  `json:"redBans"`
	BlueWin   bool   `json:"blueWin"`
}

// expectedMatches sizes the dedup filter; at 0.1% false positives the
// cost of an occasional dropped duplicate-looking match is negligible
// against the aggregate counts.
const expectedMatches = 1_000_000

// ReadJSONL streams matches from a JSONL reader. Duplicate match ids are
// dropped with a bloom filter, malformed lines are logged and skipped so
// one bad row cannot sink a rebuild.
func ReadJSONL(r io.Reader) ([]Match, error) {
	seen := bloom.NewWithEstimates(expectedMatches, 0.001)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var matches []Match
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var m Match
		if err := json.Unmarshal(line, &m); err != nil {
			log.Printf("[Corpus] skipping line %d: %v", lineNum, err)
			continue
		}
		if len(m.BluePicks) != 5 || len(m.RedPicks) != 5 {
			log.Printf("[Corpus] skipping line %d: incomplete pick lists", lineNum)
			continue
		}
		if m.MatchID != "" && seen.TestAndAddString(m.MatchID) {
			continue
		}
		matches = append(matches, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// ReadJSONLFile reads a JSONL corpus file from disk.
func ReadJSONLFile(path string) ([]Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSONL(f)
}
