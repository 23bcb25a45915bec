// Package recommend ranks pick and ban suggestions by simulating every
// legal candidate through the inference engine and measuring the win
// probability it would move.
package recommend

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"draftsage/internal/champion"
	"draftsage/internal/draft"
	"draftsage/internal/model"
	"draftsage/internal/rank"
)

// Defaults for the candidate caps and the result cache. The caps bound
// a single request's wall-clock cost; bans evaluate fewer because they
// run defensively on every enemy turn.
const (
	DefaultMaxPickCandidates = 100
	DefaultMaxBanCandidates  = 80
	defaultCacheSize         = 256
)

// Predictor is the slice of the inference engine the recommender needs.
type Predictor interface {
	Predict(ctx context.Context, d *draft.State, group rank.Group, patch string) (*model.Prediction, error)
}

// Entry is one ranked recommendation.
type Entry struct {
	ChampionID int      `json:"championId"`
	Champion   string   `json:"champion"`
	WinGain    float64  `json:"winGain"`    // skill-cap adjusted, the ranking key
	RawWinGain float64  `json:"rawWinGain"` // unadjusted probability delta
	Reasons    []string `json:"reasons,omitempty"`

	index int // dense champion index, the tie-breaker
}

// Result is the full outcome of one recommendation request.
type Result struct {
	BaselineWinRate    float64 `json:"baselineWinRate"`
	Entries            []Entry `json:"entries"`
	EvaluatedChampions int     `json:"evaluatedChampions"`
	ModelVersion       string  `json:"modelVersion"`
}

// Options tune the engine. Zero values take the defaults above.
type Options struct {
	MaxPickCandidates int
	MaxBanCandidates  int
	CacheSize         int
}

// Engine enumerates, simulates and ranks candidates. Candidate
// evaluation shares no mutable state, so one Engine serves concurrent
// requests; only the result cache is synchronized.
type Engine struct {
	champs    *champion.Map
	predictor Predictor
	maxPicks  int
	maxBans   int
	cache     *resultCache
}

// NewEngine builds a recommendation engine over the loaded champion map
// and a predictor.
func NewEngine(champs *champion.Map, predictor Predictor, opts Options) *Engine {
	if opts.MaxPickCandidates <= 0 {
		opts.MaxPickCandidates = DefaultMaxPickCandidates
	}
	if opts.MaxBanCandidates <= 0 {
		opts.MaxBanCandidates = DefaultMaxBanCandidates
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	return &Engine{
		champs:    champs,
		predictor: predictor,
		maxPicks:  opts.MaxPickCandidates,
		maxBans:   opts.MaxBanCandidates,
		cache:     newResultCache(opts.CacheSize),
	}
}

// NextPick ranks the best champions to put into (side, role). The
// returned result is always valid; an exhausted champion pool just
// produces zero entries. A cancelled context returns the partial result
// together with the context error.
func (e *Engine) NextPick(ctx context.Context, group rank.Group, side draft.Side, d *draft.State, role draft.Role, patch string, topN int) (*Result, error) {
	key := fmt.Sprintf("pick|%s|%s|%s|%s", group, side, role, d.Hash())
	if full, ok := e.cache.get(key); ok {
		return topSlice(full, topN), nil
	}

	baseline, version, err := e.baseline(ctx, d, group, patch)
	if err != nil {
		return nil, err
	}

	full := &Result{BaselineWinRate: requesterRate(baseline, side), ModelVersion: version}

	candidates := e.available(d)
	if len(candidates) > e.maxPicks {
		candidates = candidates[:e.maxPicks]
	}

	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			sortEntries(full.Entries)
			return topSlice(full, topN), err
		}

		hyp := d.WithPick(side, role, cand.id)
		newBlue, v, err := e.simulate(ctx, hyp, side.Opponent(), group, patch)
		if err != nil {
			log.Printf("[Recommend] skipping champion %d: %v", cand.id, err)
			continue
		}
		if v != "" {
			full.ModelVersion = v
		}

		gain := newBlue - baseline
		if side == draft.Red {
			gain = -gain
		}
		info := e.champs.Get(cand.id)
		adjusted := gain + rank.SkillCapWeight(group)*info.SkillCap/3.0

		full.Entries = append(full.Entries, Entry{
			ChampionID: cand.id,
			Champion:   info.Name,
			WinGain:    adjusted,
			RawWinGain: gain,
			Reasons:    pickReasons(info),
			index:      cand.index,
		})
		full.EvaluatedChampions++
	}

	sortEntries(full.Entries)
	e.cache.put(key, full)
	return topSlice(full, topN), nil
}

// Bans ranks the enemy champions most worth removing. Each candidate is
// simulated in the first still-open role on the opposing side (mid when
// the opponent is fully drafted) and scored by how much the requester
// would lose if the enemy got it.
func (e *Engine) Bans(ctx context.Context, group rank.Group, side draft.Side, d *draft.State, patch string, topN int) (*Result, error) {
	enemy := side.Opponent()
	simRole, open := d.FirstOpenRole(enemy)
	if !open {
		simRole = draft.Mid
	}

	key := fmt.Sprintf("ban|%s|%s|%s|%s", group, side, simRole, d.Hash())
	if full, ok := e.cache.get(key); ok {
		return topSlice(full, topN), nil
	}

	baseline, version, err := e.baseline(ctx, d, group, patch)
	if err != nil {
		return nil, err
	}

	full := &Result{BaselineWinRate: requesterRate(baseline, side), ModelVersion: version}

	candidates := e.available(d)
	if len(candidates) > e.maxBans {
		candidates = candidates[:e.maxBans]
	}

	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			sortEntries(full.Entries)
			return topSlice(full, topN), err
		}

		hyp := d.WithPick(enemy, simRole, cand.id)
		newBlue, v, err := e.simulate(ctx, hyp, side, group, patch)
		if err != nil {
			log.Printf("[Recommend] skipping champion %d: %v", cand.id, err)
			continue
		}
		if v != "" {
			full.ModelVersion = v
		}

		threat := baseline - newBlue
		if side == draft.Red {
			threat = -threat
		}
		info := e.champs.Get(cand.id)
		adjusted := threat + rank.SkillCapWeight(group)*info.SkillCap/3.0

		full.Entries = append(full.Entries, Entry{
			ChampionID: cand.id,
			Champion:   info.Name,
			WinGain:    adjusted,
			RawWinGain: threat,
			Reasons:    banReasons(info),
			index:      cand.index,
		})
		full.EvaluatedChampions++
	}

	sortEntries(full.Entries)
	e.cache.put(key, full)
	return topSlice(full, topN), nil
}

type candidate struct {
	id    int
	index int
}

// available returns every champion that is neither picked nor banned,
// in ascending dense-index order. The enumeration order is part of the
// contract: with the candidate cap it decides who gets evaluated.
func (e *Engine) available(d *draft.State) []candidate {
	picked := d.Picked()
	banned := d.Banned()

	out := make([]candidate, 0, e.champs.Count())
	for idx := 0; idx < e.champs.Count(); idx++ {
		id, ok := e.champs.IDAt(idx)
		if !ok || picked[id] || banned[id] {
			continue
		}
		out = append(out, candidate{id: id, index: idx})
	}
	return out
}

// baseline returns the blue win probability of the draft as it stands.
// While either side is incomplete the baseline is exactly 0.5 and the
// model is not consulted.
func (e *Engine) baseline(ctx context.Context, d *draft.State, group rank.Group, patch string) (float64, string, error) {
	if !d.Complete() {
		return 0.5, "", nil
	}
	pred, err := e.predictor.Predict(ctx, d, group, patch)
	if err != nil {
		return 0, "", err
	}
	return pred.BlueWinProb, pred.ModelVersion, nil
}

// simulate scores a hypothetical draft, treating it as a coin flip while
// mustBeComplete (the side opposite the inserted candidate) still has
// open slots.
func (e *Engine) simulate(ctx context.Context, hyp *draft.State, mustBeComplete draft.Side, group rank.Group, patch string) (float64, string, error) {
	if !hyp.SideComplete(mustBeComplete) {
		return 0.5, "", nil
	}
	pred, err := e.predictor.Predict(ctx, hyp, group, patch)
	if err != nil {
		return 0, "", err
	}
	return pred.BlueWinProb, pred.ModelVersion, nil
}

func requesterRate(blueRate float64, side draft.Side) float64 {
	if side == draft.Red {
		return 1 - blueRate
	}
	return blueRate
}

// sortEntries orders by adjusted gain descending, ties broken by
// ascending dense champion index so repeated calls rank identically.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].WinGain != entries[j].WinGain {
			return entries[i].WinGain > entries[j].WinGain
		}
		return entries[i].index < entries[j].index
	})
}

// topSlice copies the ranked head of a full result. The full result
// stays cached untouched.
func topSlice(full *Result, topN int) *Result {
	out := &Result{
		BaselineWinRate:    full.BaselineWinRate,
		EvaluatedChampions: full.EvaluatedChampions,
		ModelVersion:       full.ModelVersion,
	}
	if topN <= 0 || topN > len(full.Entries) {
		topN = len(full.Entries)
	}
	out.Entries = append(out.Entries, full.Entries[:topN]...)
	return out
}

// reasonThreshold marks an attribute as defining on the 0-3 scale.
const reasonThreshold = 2.0

func pickReasons(info *champion.Info) []string {
	var reasons []string
	add := func(v float64, label string) {
		if v >= reasonThreshold {
			reasons = append(reasons, "+"+label)
		}
	}
	add(info.Engage, "Engage")
	add(info.HardCC, "Crowd Control")
	add(info.Poke, "Poke")
	add(info.Frontline, "Frontline")
	add(info.Splitpush, "Splitpush")
	add(info.Late, "Late-game scaling")
	return reasons
}

// banReasons relabels pick reasons from the enemy's perspective.
func banReasons(info *champion.Info) []string {
	reasons := pickReasons(info)
	for i, r := range reasons {
		reasons[i] = "Enemy " + strings.TrimPrefix(r, "+")
	}
	return reasons
}
