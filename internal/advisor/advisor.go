// Package advisor owns the loaded state the engines work over: the
// champion reference, the per-group history indices, the model cache
// and the recommendation engine. Everything is injected explicitly; no
// package-level singletons, so tests and embedders can run isolated
// instances side by side.
package advisor

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"draftsage/internal/champion"
	"draftsage/internal/draft"
	"draftsage/internal/history"
	"draftsage/internal/model"
	"draftsage/internal/rank"
	"draftsage/internal/recommend"
)

// Config locates the static assets.
type Config struct {
	ChampionsPath string // champion reference document
	ModelDir      string // per-group artifact directories
	HistoryDir    string // per-group <group>.db index files, optional
	Recommend     recommend.Options
}

// ConfigFromEnv loads .env if present and reads the DRAFTSAGE_* vars.
func ConfigFromEnv() Config {
	for _, path := range []string{".env", "../.env"} {
		if err := godotenv.Load(path); err == nil {
			fmt.Printf("Loaded .env from: %s\n", path)
			break
		}
	}
	return Config{
		ChampionsPath: os.Getenv("DRAFTSAGE_CHAMPIONS"),
		ModelDir:      os.Getenv("DRAFTSAGE_MODELS"),
		HistoryDir:    os.Getenv("DRAFTSAGE_HISTORY"),
	}
}

// Advisor is the assembled context.
type Advisor struct {
	Champions *champion.Map
	History   map[rank.Group]*history.Index
	Models    *model.Cache

	predictor   *model.Predictor
	recommender *recommend.Engine
}

// New loads the champion reference and whatever history indices exist,
// and wires the engines. Model artifacts load lazily on first use. A
// missing history index only zeroes the history features, so it is
// logged, not fatal; a missing champion reference is fatal.
func New(cfg Config) (*Advisor, error) {
	champs, err := champion.Load(cfg.ChampionsPath)
	if err != nil {
		return nil, err
	}

	hist := make(map[rank.Group]*history.Index, len(rank.Groups))
	for _, group := range rank.Groups {
		path := filepath.Join(cfg.HistoryDir, string(group)+".db")
		if _, statErr := os.Stat(path); statErr != nil {
			log.Printf("[Advisor] no history index for %s (%s)", group, path)
			continue
		}
		ix, err := history.Load(path)
		if err != nil {
			return nil, err
		}
		hist[group] = ix
	}

	models := model.NewCache(cfg.ModelDir)
	predictor := model.NewPredictor(champs, hist, models)

	return &Advisor{
		Champions:   champs,
		History:     hist,
		Models:      models,
		predictor:   predictor,
		recommender: recommend.NewEngine(champs, predictor, cfg.Recommend),
	}, nil
}

// Predict returns the calibrated win probability for a draft.
func (a *Advisor) Predict(ctx context.Context, d *draft.State, group rank.Group, patch string) (*model.Prediction, error) {
	return a.predictor.Predict(ctx, d, group, patch)
}

// NextPick ranks pick suggestions for (side, role).
func (a *Advisor) NextPick(ctx context.Context, group rank.Group, side draft.Side, d *draft.State, role draft.Role, patch string, topN int) (*recommend.Result, error) {
	return a.recommender.NextPick(ctx, group, side, d, role, patch, topN)
}

// Bans ranks ban suggestions for side.
func (a *Advisor) Bans(ctx context.Context, group rank.Group, side draft.Side, d *draft.State, patch string, topN int) (*recommend.Result, error) {
	return a.recommender.Bans(ctx, group, side, d, patch, topN)
}
