// Package features turns a draft state into the fixed-length numeric
// vector the frozen classifiers were trained on. The concatenation
// order below is the contract with the trained weights: role one-hots,
// ban one-hots, composition aggregates, patch encoding, tier one-hot,
// history triple, objective placeholders. Any change to the order or
// the normalization constants invalidates every shipped model.
package features

import (
	"strconv"
	"strings"

	"draftsage/internal/champion"
	"draftsage/internal/draft"
	"draftsage/internal/fault"
	"draftsage/internal/history"
	"draftsage/internal/rank"
)

// Fixed block sizes that do not depend on the roster size N.
const (
	compFeatures      = 30
	patchFeatures     = 2
	tierFeatures      = 10
	historyFeatures   = 3
	objectiveFeatures = 4
)

// VectorLength returns the assembled length for a roster of n champions:
// 10n role one-hots + 10n ban one-hots + the fixed tail.
func VectorLength(n int) int {
	return 20*n + compFeatures + patchFeatures + tierFeatures + historyFeatures + objectiveFeatures
}

// Breakdown is the auditable side channel of named intermediate
// features. It feeds explanations and debugging only; the model sees
// the vector, never this map.
type Breakdown map[string]float64

// teamComp holds one side's aggregate features in vector order.
type teamComp struct {
	apRatio      float64
	engage       float64
	hardCC       float64
	poke         float64
	splitpush    float64
	frontline    float64
	early        float64
	mid          float64
	late         float64
	skillCap     float64
	roleCoverage float64
}

func (tc teamComp) values() []float64 {
	return []float64{
		tc.apRatio, tc.engage, tc.hardCC, tc.poke, tc.splitpush, tc.frontline,
		tc.early, tc.mid, tc.late, tc.skillCap, tc.roleCoverage,
	}
}

// Assemble builds the feature vector and its named breakdown for one
// draft. hist may be nil, in which case the history triple is zero.
// Calling twice with identical inputs yields identical vectors.
func Assemble(d *draft.State, group rank.Group, champs *champion.Map, hist *history.Index, patch string) ([]float64, Breakdown, error) {
	if champs == nil || champs.Count() == 0 {
		return nil, nil, fault.Configurationf("champion reference is empty")
	}

	n := champs.Count()
	vec := make([]float64, 0, VectorLength(n))
	named := make(Breakdown, 64)

	// Role one-hot block: 2 teams x 5 roles x N. Exactly one 1.0 per
	// resolved (team, role) slot; unresolved slots contribute nothing.
	for _, side := range []draft.Side{draft.Blue, draft.Red} {
		for _, role := range draft.Roles {
			block := make([]float64, n)
			if id := d.Pick(side, role); id != draft.NoPick {
				if idx, ok := champs.Index(id); ok {
					block[idx] = 1.0
				}
			}
			vec = append(vec, block...)
		}
	}

	// Ban one-hot block: 2 teams x 5 ban slots x N. Bans are deduped and
	// truncated to five; unknown ids leave their slot empty.
	for _, side := range []draft.Side{draft.Blue, draft.Red} {
		bans := d.Bans(side)
		for slot := 0; slot < draft.MaxBans; slot++ {
			block := make([]float64, n)
			if slot < len(bans) {
				if idx, ok := champs.Index(bans[slot]); ok {
					block[idx] = 1.0
				}
			}
			vec = append(vec, block...)
		}
	}

	// Composition aggregates: 11 per team, then 8 blue-red diffs.
	blue := compForTeam(d, draft.Blue, champs)
	red := compForTeam(d, draft.Red, champs)
	vec = append(vec, blue.values()...)
	vec = append(vec, red.values()...)

	diffs := []struct {
		name string
		v    float64
	}{
		{"engage_diff", blue.engage - red.engage},
		{"cc_diff", blue.hardCC - red.hardCC},
		{"poke_diff", blue.poke - red.poke},
		{"splitpush_diff", blue.splitpush - red.splitpush},
		{"frontline_diff", blue.frontline - red.frontline},
		{"early_diff", blue.early - red.early},
		{"mid_diff", blue.mid - red.mid},
		{"late_diff", blue.late - red.late},
	}
	for _, diff := range diffs {
		vec = append(vec, diff.v)
		named[diff.name] = diff.v
	}
	nameComp(named, "blue", blue)
	nameComp(named, "red", red)

	// Patch encoding. Malformed patches degrade to [0, 0].
	seasonNorm, minorNorm := ParsePatch(patch)
	vec = append(vec, seasonNorm, minorNorm)
	named["season_norm"] = seasonNorm
	named["minor_norm"] = minorNorm

	// Rank-tier one-hot over the ten canonical tiers. Requests carry an
	// ELO group, so its representative tier is marked.
	tierBlock := make([]float64, tierFeatures)
	if order, ok := rank.TierOrder[rank.RepresentativeTier(group)]; ok {
		tierBlock[order] = 1.0
	}
	vec = append(vec, tierBlock...)

	// History triple: blue synergy, red synergy, counter score.
	blueSynergy := hist.Synergy(d.Picks[draft.Blue][:])
	redSynergy := hist.Synergy(d.Picks[draft.Red][:])
	counter := hist.Counter(d.Picks[draft.Blue][:], d.Picks[draft.Red][:])
	vec = append(vec, blueSynergy, redSynergy, counter)
	named["blue_synergy"] = blueSynergy
	named["red_synergy"] = redSynergy
	named["counter_score"] = counter

	// Objective placeholders, zero until pre-game objective modeling
	// exists. The slots are part of the trained layout and must stay.
	for i := 0; i < objectiveFeatures; i++ {
		vec = append(vec, 0)
	}

	return vec, named, nil
}

func nameComp(named Breakdown, prefix string, tc teamComp) {
	named[prefix+"_ap_ratio"] = tc.apRatio
	named[prefix+"_engage"] = tc.engage
	named[prefix+"_hard_cc"] = tc.hardCC
	named[prefix+"_poke"] = tc.poke
	named[prefix+"_splitpush"] = tc.splitpush
	named[prefix+"_frontline"] = tc.frontline
	named[prefix+"_early"] = tc.early
	named[prefix+"_mid"] = tc.mid
	named[prefix+"_late"] = tc.late
	named[prefix+"_skill_cap"] = tc.skillCap
	named[prefix+"_role_coverage"] = tc.roleCoverage
}

// compForTeam aggregates over a team's resolved picks only; unresolved
// slots are excluded from the averages, not zero-filled.
func compForTeam(d *draft.State, side draft.Side, champs *champion.Map) teamComp {
	var tc teamComp
	var resolved []*champion.Info
	for _, role := range draft.Roles {
		id := d.Pick(side, role)
		if id == draft.NoPick {
			continue
		}
		if info := champs.Get(id); info != nil {
			resolved = append(resolved, info)
		}
	}

	if len(resolved) == 0 {
		tc.apRatio = 0.5
		return tc
	}

	var apScore, adScore float64
	var engage, hardCC, poke, splitpush, frontline, early, mid, late, skillCap float64
	covered := make(map[string]bool, 5)

	for _, c := range resolved {
		apScore += c.APWeight()
		adScore += c.ADWeight()
		engage += c.Engage
		hardCC += c.HardCC
		poke += c.Poke
		splitpush += c.Splitpush
		frontline += c.Frontline
		early += c.Early
		mid += c.Mid
		late += c.Late
		skillCap += c.SkillCap
		for _, role := range c.Roles {
			if r, err := draft.RoleFromString(role); err == nil {
				covered[r.String()] = true
			}
		}
	}

	if apScore+adScore > 0 {
		tc.apRatio = apScore / (apScore + adScore)
	} else {
		tc.apRatio = 0.5
	}

	// The 3x divisor is baked into the trained weights; attributes are on
	// a 0-3 scale, so this normalizes each average into [0, 1]. Do not
	// "simplify" to a plain mean without retraining every model.
	norm := 3.0 * float64(len(resolved))
	tc.engage = engage / norm
	tc.hardCC = hardCC / norm
	tc.poke = poke / norm
	tc.splitpush = splitpush / norm
	tc.frontline = frontline / norm
	tc.early = early / norm
	tc.mid = mid / norm
	tc.late = late / norm
	tc.skillCap = skillCap / norm

	tc.roleCoverage = float64(len(covered)) / 5.0
	return tc
}

// ParsePatch converts a patch string like "15.10" into the two patch
// features: (season-14)/10 and minor/24. Malformed strings return (0, 0)
// rather than failing a prediction.
func ParsePatch(patch string) (seasonNorm, minorNorm float64) {
	parts := strings.Split(patch, ".")
	if len(parts) < 2 {
		return 0, 0
	}
	season, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0
	}
	if season < 0 || minor < 0 {
		return 0, 0
	}
	return float64(season-14) / 10.0, float64(minor) / 24.0
}
