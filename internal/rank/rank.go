// Package rank maps the ten ranked tiers onto the three ELO groups used
// for model selection. Tiers are one-hot encoded in the feature vector;
// groups pick which frozen artifact answers a request.
package rank

// Group is one of the three coarse ELO buckets.
type Group string

const (
	GroupLow  Group = "low"
	GroupMid  Group = "mid"
	GroupHigh Group = "high"
)

// Tiers lists the canonical ranked tiers, lowest first. The order is
// load-bearing: the tier one-hot block in the feature vector uses these
// indices.
var Tiers = []string{
	"IRON", "BRONZE", "SILVER", "GOLD", "PLATINUM",
	"EMERALD", "DIAMOND", "MASTER", "GRANDMASTER", "CHALLENGER",
}

// TierOrder maps tier name to its index in Tiers.
var TierOrder = map[string]int{
	"IRON":        0,
	"BRONZE":      1,
	"SILVER":      2,
	"GOLD":        3,
	"PLATINUM":    4,
	"EMERALD":     5,
	"DIAMOND":     6,
	"MASTER":      7,
	"GRANDMASTER": 8,
	"CHALLENGER":  9,
}

// Groups lists the groups in ascending skill order.
var Groups = []Group{GroupLow, GroupMid, GroupHigh}

// GroupForTier buckets a tier into its ELO group. Unknown tiers land in
// the mid group rather than failing; corpus rows with garbage tiers are
// rare and mid is the least distorting home for them.
func GroupForTier(tier string) Group {
	order, ok := TierOrder[tier]
	if !ok {
		return GroupMid
	}
	switch {
	case order <= TierOrder["GOLD"]:
		return GroupLow
	case order <= TierOrder["DIAMOND"]:
		return GroupMid
	default:
		return GroupHigh
	}
}

// RepresentativeTier returns the tier marked in the one-hot block when a
// request carries only an ELO group. Prediction requests do not name a
// tier, so each group is encoded as its most populated tier.
func RepresentativeTier(g Group) string {
	switch g {
	case GroupLow:
		return "SILVER"
	case GroupHigh:
		return "GRANDMASTER"
	default:
		return "EMERALD"
	}
}

// Valid reports whether g is one of the three known groups.
func (g Group) Valid() bool {
	return g == GroupLow || g == GroupMid || g == GroupHigh
}

// SkillCapWeight is the per-group bias applied to a candidate's skill
// cap when ranking recommendations: low ELO penalizes mechanically
// demanding champions, high ELO rewards them.
func SkillCapWeight(g Group) float64 {
	switch g {
	case GroupLow:
		return -0.3
	case GroupHigh:
		return 0.2
	default:
		return 0.0
	}
}
