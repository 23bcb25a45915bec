package model

import (
	"context"
	"fmt"
	"math"

	"draftsage/internal/champion"
	"draftsage/internal/draft"
	"draftsage/internal/fault"
	"draftsage/internal/features"
	"draftsage/internal/history"
	"draftsage/internal/rank"
)

// Prediction is the calibrated output for one draft.
type Prediction struct {
	BlueWinProb  float64  `json:"blueWinProb"`
	RedWinProb   float64  `json:"redWinProb"`
	RawProb      float64  `json:"rawProb"`
	Confidence   float64  `json:"confidence"`
	ModelVersion string   `json:"modelVersion"`
	Notes        []string `json:"notes,omitempty"`
}

// Predictor scores drafts against the frozen per-group artifacts. All
// referenced state is immutable after construction, so a Predictor is
// safe for concurrent use.
type Predictor struct {
	Champions *champion.Map
	History   map[rank.Group]*history.Index
	Models    *Cache
}

// NewPredictor wires a predictor over loaded state. history entries may
// be missing for groups with no rebuilt index yet.
func NewPredictor(champs *champion.Map, hist map[rank.Group]*history.Index, models *Cache) *Predictor {
	return &Predictor{Champions: champs, History: hist, Models: models}
}

// Predict assembles features for the draft, scores them with the
// group's frozen classifier and maps the raw probability through its
// calibrator. Returns ModelNotFound when the group has no artifact and
// FeatureMismatch when the assembled length disagrees with the
// modelcard.
func (p *Predictor) Predict(ctx context.Context, d *draft.State, group rank.Group, patch string) (*Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	artifact, err := p.Models.Get(group)
	if err != nil {
		return nil, err
	}

	vec, named, err := features.Assemble(d, group, p.Champions, p.History[group], patch)
	if err != nil {
		return nil, err
	}
	if len(vec) != artifact.Card.Features {
		return nil, &fault.FeatureMismatch{Got: len(vec), Want: artifact.Card.Features}
	}

	raw := artifact.Raw(vec)
	calibrated := clamp01(artifact.Calibrator.Apply(raw))

	return &Prediction{
		BlueWinProb:  calibrated,
		RedWinProb:   1 - calibrated,
		RawProb:      raw,
		Confidence:   Confidence(calibrated),
		ModelVersion: artifact.Card.Version,
		Notes:        explain(named),
	}, nil
}

// Confidence maps a probability to 1 - H(p)/H_max, where H is the
// binary entropy in bits: 0 at p=0.5, 1 at p in {0, 1}.
func Confidence(p float64) float64 {
	h := binaryEntropy(p)
	c := 1 - h
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func binaryEntropy(p float64) float64 {
	return -plogp(p) - plogp(1-p)
}

func plogp(p float64) float64 {
	if p <= 0 {
		return 0
	}
	return p * math.Log2(p)
}

// explainThreshold is how lopsided a composition diff must be before it
// is worth mentioning.
const explainThreshold = 0.2

// explain emits short tagged notes for lopsided composition diffs.
// Best-effort: an empty or partial breakdown just yields fewer notes.
func explain(named features.Breakdown) []string {
	checks := []struct {
		key   string
		label string
	}{
		{"engage_diff", "engage"},
		{"cc_diff", "crowd control"},
		{"poke_diff", "poke"},
		{"splitpush_diff", "splitpush"},
		{"frontline_diff", "frontline"},
		{"late_diff", "late-game scaling"},
	}

	var notes []string
	for _, check := range checks {
		v, ok := named[check.key]
		if !ok || math.Abs(v) <= explainThreshold {
			continue
		}
		side := "blue"
		if v < 0 {
			side = "red"
		}
		notes = append(notes, fmt.Sprintf("%s: %s advantage (%+.2f)", check.label, side, v))
	}
	return notes
}
