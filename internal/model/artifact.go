// Package model loads the frozen per-ELO-group classifier artifacts and
// produces calibrated win probabilities from assembled feature vectors.
// Artifacts are opaque outputs of the offline training pipeline; this
// package only scores with them.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/floats"

	"draftsage/internal/fault"
	"draftsage/internal/rank"
)

// Card is the metadata shipped next to a frozen model. Features is the
// exact vector length the weights were trained on; scoring anything of
// a different length is model/code skew, never a padding problem.
type Card struct {
	Version   string `json:"version"`
	EloGroup  string `json:"eloGroup"`
	Features  int    `json:"features"`
	TrainedAt string `json:"trainedAt"`
	Samples   int    `json:"samples"`
	Mode      struct {
		Bans    bool `json:"bans"`
		History bool `json:"history"`
	} `json:"mode"`
}

// classifier is the frozen linear model: one weight per feature plus a
// bias, squashed through a sigmoid for the raw probability.
type classifier struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// CalPoint is one knot of a piecewise-linear calibration curve.
type CalPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Calibrator maps the classifier's raw probability onto a calibrated
// one. Identity passes through, platt applies sigmoid(a*logit(p)+b),
// piecewise interpolates a monotone curve fit offline.
type Calibrator struct {
	Method string     `json:"method"`
	A      float64    `json:"a"`
	B      float64    `json:"b"`
	Points []CalPoint `json:"points,omitempty"`
}

// Apply calibrates a raw probability. The result is always in [0, 1].
func (c *Calibrator) Apply(p float64) float64 {
	var out float64
	switch c.Method {
	case "platt":
		out = sigmoid(c.A*logit(p) + c.B)
	case "piecewise":
		out = c.interpolate(p)
	default:
		out = p
	}
	return clamp01(out)
}

func (c *Calibrator) interpolate(p float64) float64 {
	pts := c.Points
	if len(pts) == 0 {
		return p
	}
	if p <= pts[0].X {
		return pts[0].Y
	}
	if p >= pts[len(pts)-1].X {
		return pts[len(pts)-1].Y
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].X >= p })
	lo, hi := pts[i-1], pts[i]
	if hi.X == lo.X {
		return lo.Y
	}
	t := (p - lo.X) / (hi.X - lo.X)
	return lo.Y + t*(hi.Y-lo.Y)
}

// Artifact is the loaded triple for one ELO group.
type Artifact struct {
	Card       Card
	Calibrator Calibrator
	weights    []float64
	bias       float64
}

// Raw scores a feature vector into the classifier's uncalibrated
// probability. The caller must have validated the vector length.
func (a *Artifact) Raw(vec []float64) float64 {
	return sigmoid(floats.Dot(a.weights, vec) + a.bias)
}

// LoadArtifact reads the model/calibrator/modelcard triple from
// dir/<group>/. A missing directory means no model was trained for that
// group; corrupt contents are a configuration failure.
func LoadArtifact(dir string, group rank.Group) (*Artifact, error) {
	groupDir := filepath.Join(dir, string(group))
	if _, err := os.Stat(groupDir); err != nil {
		return nil, &fault.ModelNotFound{Group: string(group)}
	}

	var card Card
	if err := readJSON(filepath.Join(groupDir, "modelcard.json"), &card); err != nil {
		return nil, fault.Configuration("modelcard", err)
	}

	var cls classifier
	if err := readJSON(filepath.Join(groupDir, "model.json"), &cls); err != nil {
		return nil, fault.Configuration("model", err)
	}
	if len(cls.Weights) != card.Features {
		return nil, fault.Configurationf("model for %s has %d weights, modelcard says %d features", group, len(cls.Weights), card.Features)
	}

	var cal Calibrator
	if err := readJSON(filepath.Join(groupDir, "calibrator.json"), &cal); err != nil {
		return nil, fault.Configuration("calibrator", err)
	}

	return &Artifact{
		Card:       card,
		Calibrator: cal,
		weights:    cls.Weights,
		bias:       cls.Bias,
	}, nil
}

func readJSON(path string, dst interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func sigmoid(z float64) float64 {
	if z > 20 {
		return 1.0
	}
	if z < -20 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

func logit(p float64) float64 {
	const eps = 1e-9
	p = math.Min(math.Max(p, eps), 1-eps)
	return math.Log(p / (1 - p))
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
