// Package history builds and queries the per-ELO-group win-rate tables:
// individual champions, teammate pairs, and opponent pairs. An Index is
// built in one pass over the match corpus, is immutable afterwards, and
// exposes a win rate only once its sample-size gate is met; entries
// below the gate are absent, not zero.
package history

import (
	"time"

	"github.com/montanaflynn/stats"

	"draftsage/internal/corpus"
	"draftsage/internal/rank"
)

// Sample-size gates. Below these, an estimate is noise and the entry is
// treated as missing.
const (
	champGate   = 5
	pairGate    = 3
	counterGate = 3
)

type tally struct {
	Wins  int
	Games int
}

func (t tally) rate() float64 {
	return float64(t.Wins) / float64(t.Games)
}

// Index holds the three win-rate tables for one ELO group.
type Index struct {
	Group   rank.Group
	BuiltAt time.Time

	champ   map[int]tally   // champion id -> record
	pair    map[int64]tally // unordered teammate pair -> record
	counter map[int64]tally // ordered opponent pair (subject, enemy) -> subject's record
	total   tally           // every champion appearance, for the group average
}

// pairKey packs an unordered champion pair into one integer key. Order
// within the pair is normalized so (a,b) and (b,a) collide.
func pairKey(a, b int) int64 {
	if a > b {
		a, b = b, a
	}
	return int64(a)<<32 | int64(b)
}

// orderedKey packs an ordered (subject, enemy) pair.
func orderedKey(subject, enemy int) int64 {
	return int64(subject)<<32 | int64(enemy)
}

// Build aggregates a match corpus into an Index for one ELO group. The
// caller is expected to have filtered matches to that group already.
func Build(group rank.Group, matches []corpus.Match) *Index {
	ix := &Index{
		Group:   group,
		BuiltAt: time.Now().UTC().Truncate(time.Second),
		champ:   make(map[int]tally),
		pair:    make(map[int64]tally),
		counter: make(map[int64]tally),
	}

	for _, m := range matches {
		blue := resolvedPicks(m.BluePicks)
		red := resolvedPicks(m.RedPicks)

		ix.addTeam(blue, m.BlueWin)
		ix.addTeam(red, !m.BlueWin)

		for _, b := range blue {
			for _, r := range red {
				ix.bump(ix.counter, orderedKey(b, r), m.BlueWin)
				ix.bump(ix.counter, orderedKey(r, b), !m.BlueWin)
			}
		}
	}
	return ix
}

func resolvedPicks(picks []int) []int {
	out := make([]int, 0, len(picks))
	for _, id := range picks {
		if id > 0 {
			out = append(out, id)
		}
	}
	return out
}

func (ix *Index) addTeam(team []int, won bool) {
	for i, id := range team {
		t := ix.champ[id]
		t.Games++
		ix.total.Games++
		if won {
			t.Wins++
			ix.total.Wins++
		}
		ix.champ[id] = t

		for _, mate := range team[i+1:] {
			ix.bump(ix.pair, pairKey(id, mate), won)
		}
	}
}

func (ix *Index) bump(table map[int64]tally, key int64, won bool) {
	t := table[key]
	t.Games++
	if won {
		t.Wins++
	}
	table[key] = t
}

// ChampionWinRate returns the gated individual win rate for a champion.
// ok is false below the 5-game gate.
func (ix *Index) ChampionWinRate(id int) (float64, bool) {
	t, found := ix.champ[id]
	if !found || t.Games < champGate {
		return 0, false
	}
	return t.rate(), true
}

// PairWinRate returns the gated win rate for two teammates.
func (ix *Index) PairWinRate(a, b int) (float64, bool) {
	t, found := ix.pair[pairKey(a, b)]
	if !found || t.Games < pairGate {
		return 0, false
	}
	return t.rate(), true
}

// CounterWinRate returns the gated win rate of subject when facing enemy
// on the opposite team.
func (ix *Index) CounterWinRate(subject, enemy int) (float64, bool) {
	t, found := ix.counter[orderedKey(subject, enemy)]
	if !found || t.Games < counterGate {
		return 0, false
	}
	return t.rate(), true
}

// GroupAverage is the mean win rate across all champion appearances in
// this group, used as the expected rate for champions with no gated
// individual data. 0.5 when the index is empty.
func (ix *Index) GroupAverage() float64 {
	if ix.total.Games == 0 {
		return 0.5
	}
	return ix.total.rate()
}

// Synergy scores how much better a team's gated pairs perform than their
// individual rates suggest. For every teammate pair with a gated entry
// it takes observed_pair_wr - expected_wr, where expected is the mean of
// the two individual gated rates (group average standing in for missing
// individuals), and returns the mean delta. 0.0 when no pair qualifies.
// Order of champions within the team does not matter.
func (ix *Index) Synergy(team []int) float64 {
	if ix == nil {
		return 0
	}
	var deltas []float64
	for i, a := range team {
		if a <= 0 {
			continue
		}
		for _, b := range team[i+1:] {
			if b <= 0 {
				continue
			}
			observed, ok := ix.PairWinRate(a, b)
			if !ok {
				continue
			}
			deltas = append(deltas, observed-ix.expectedPair(a, b))
		}
	}
	return meanOrZero(deltas)
}

func (ix *Index) expectedPair(a, b int) float64 {
	wa, ok := ix.ChampionWinRate(a)
	if !ok {
		wa = ix.GroupAverage()
	}
	wb, ok := ix.ChampionWinRate(b)
	if !ok {
		wb = ix.GroupAverage()
	}
	return (wa + wb) / 2
}

// Counter scores blue's lane/matchup advantage: the mean of
// observed_wr - 0.5 over every gated (blue champion, red champion)
// ordered pair. Positive favors blue; 0.0 when nothing qualifies.
func (ix *Index) Counter(blue, red []int) float64 {
	if ix == nil {
		return 0
	}
	var deltas []float64
	for _, b := range blue {
		if b <= 0 {
			continue
		}
		for _, r := range red {
			if r <= 0 {
				continue
			}
			if wr, ok := ix.CounterWinRate(b, r); ok {
				deltas = append(deltas, wr-0.5)
			}
		}
	}
	return meanOrZero(deltas)
}

func meanOrZero(deltas []float64) float64 {
	if len(deltas) == 0 {
		return 0
	}
	mean, err := stats.Mean(deltas)
	if err != nil {
		return 0
	}
	return mean
}

// Size returns the entry counts of the three tables, mostly for rebuild
// logging.
func (ix *Index) Size() (champions, pairs, counters int) {
	return len(ix.champ), len(ix.pair), len(ix.counter)
}
