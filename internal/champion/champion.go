// Package champion loads the static champion reference document and
// exposes the id <-> dense index bijection plus per-champion attribute
// tags. The map is loaded once and is read-only afterwards, so it is
// safe for unsynchronized concurrent reads.
package champion

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"draftsage/internal/fault"
)

// minChampions guards against a truncated or placeholder reference
// document; the live roster is around 170.
const minChampions = 50

// Info is the fixed-field attribute record for one champion. Numeric
// tags are on a 0-3 scale; missing fields decode to zero, which the
// assembler treats as "none of this trait".
type Info struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Damage    string   `json:"damage"` // "AP", "AD", "AP/AD", "Tank", ...
	Engage    float64  `json:"engage"`
	HardCC    float64  `json:"hardCC"`
	Poke      float64  `json:"poke"`
	Splitpush float64  `json:"splitpush"`
	Frontline float64  `json:"frontline"`
	Early     float64  `json:"early"`
	Mid       float64  `json:"mid"`
	Late      float64  `json:"late"`
	SkillCap  float64  `json:"skillCap"`
	Roles     []string `json:"roles"`
}

// APWeight returns this champion's contribution to the AP side of the
// damage split. Mixed profiles count half toward each side.
func (c *Info) APWeight() float64 {
	return damageWeight(c.Damage, "AP")
}

// ADWeight returns the AD-side contribution.
func (c *Info) ADWeight() float64 {
	return damageWeight(c.Damage, "AD")
}

func damageWeight(damage, side string) float64 {
	hasAP := strings.Contains(damage, "AP")
	hasAD := strings.Contains(damage, "AD")
	switch {
	case hasAP && hasAD:
		return 0.5
	case side == "AP" && hasAP:
		return 1.0
	case side == "AD" && hasAD:
		return 1.0
	default:
		return 0.0
	}
}

// Map is the loaded champion reference: every known champion plus the
// dense-index bijection used by the one-hot blocks.
type Map struct {
	byID    map[int]*Info
	ids     []int       // dense index -> champion id, ascending id order
	indexOf map[int]int // champion id -> dense index
}

// referenceDoc is the on-disk shape of the champion reference.
type referenceDoc struct {
	Version   string `json:"version"`
	Champions []Info `json:"champions"`
}

// Load reads and validates the champion reference document.
func Load(path string) (*Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Configuration("champion reference", err)
	}

	var doc referenceDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fault.Configuration("champion reference", fmt.Errorf("parse %s: %w", path, err))
	}

	if len(doc.Champions) < minChampions {
		return nil, fault.Configurationf("champion reference %s has %d champions, expected at least %d", path, len(doc.Champions), minChampions)
	}

	m, err := NewMap(doc.Champions)
	if err != nil {
		return nil, fault.Configuration("champion reference", err)
	}
	return m, nil
}

// NewMap builds a Map from already-decoded records. Used by Load and by
// tests that need small fixtures; NewMap does not apply the roster-size
// plausibility check.
func NewMap(champions []Info) (*Map, error) {
	m := &Map{
		byID:    make(map[int]*Info, len(champions)),
		indexOf: make(map[int]int, len(champions)),
	}

	for i := range champions {
		c := champions[i]
		if c.ID <= 0 {
			return nil, fmt.Errorf("champion %q has invalid id %d", c.Name, c.ID)
		}
		if _, dup := m.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate champion id %d", c.ID)
		}
		m.byID[c.ID] = &c
		m.ids = append(m.ids, c.ID)
	}

	// Dense indices are assigned in ascending id order so the layout is
	// stable across loads of the same document.
	sort.Ints(m.ids)
	for idx, id := range m.ids {
		m.indexOf[id] = idx
	}
	return m, nil
}

// Count returns the number of known champions (N in the vector layout).
func (m *Map) Count() int { return len(m.ids) }

// Get returns the record for a champion id, or nil for unknown ids.
func (m *Map) Get(id int) *Info {
	return m.byID[id]
}

// Index returns the dense index for a champion id. Unknown ids return
// (0, false) and are excluded from encoding rather than failing.
func (m *Map) Index(id int) (int, bool) {
	idx, ok := m.indexOf[id]
	return idx, ok
}

// IDAt returns the champion id at a dense index.
func (m *Map) IDAt(index int) (int, bool) {
	if index < 0 || index >= len(m.ids) {
		return 0, false
	}
	return m.ids[index], true
}

// Name returns the champion name for an id, or "" if unknown.
func (m *Map) Name(id int) string {
	if c := m.byID[id]; c != nil {
		return c.Name
	}
	return ""
}
