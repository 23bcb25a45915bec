// Package draft models a two-team pick/ban draft in progress.
package draft

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// NoPick is the sentinel for an unresolved pick slot.
const NoPick = -1

// Side identifies one of the two teams.
type Side int

const (
	Blue Side = iota
	Red
)

// String returns "blue" or "red".
func (s Side) String() string {
	if s == Blue {
		return "blue"
	}
	return "red"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Blue {
		return Red
	}
	return Blue
}

// SideFromString parses "blue"/"red". Anything else is not a side.
func SideFromString(v string) (Side, error) {
	switch v {
	case "blue":
		return Blue, nil
	case "red":
		return Red, nil
	}
	return Blue, fmt.Errorf("unknown side %q", v)
}

// Role is one of the five draft positions.
type Role int

const (
	Top Role = iota
	Jungle
	Mid
	ADC
	Support
)

// Roles lists the positions in slot order. This order defines the
// per-role layout of the one-hot blocks and the "first open role" scan.
var Roles = []Role{Top, Jungle, Mid, ADC, Support}

var roleNames = []string{"top", "jungle", "mid", "adc", "support"}

// String returns the lowercase role name.
func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

// RoleFromString parses a role name, accepting the common aliases the
// client uses for mid/adc/support.
func RoleFromString(v string) (Role, error) {
	switch v {
	case "top":
		return Top, nil
	case "jungle":
		return Jungle, nil
	case "mid", "middle":
		return Mid, nil
	case "adc", "bottom", "bot":
		return ADC, nil
	case "support", "utility":
		return Support, nil
	}
	return Top, fmt.Errorf("unknown role %q", v)
}

// MaxBans is the number of ban slots encoded per side. Extra raw bans
// are truncated, never an error.
const MaxBans = 5

// State is a possibly-partial draft: five role slots per side plus the
// raw ban lists. Raw bans may contain duplicates; consumers go through
// Bans() which dedupes and truncates.
type State struct {
	Picks   [2][5]int
	RawBans [2][]int
}

// NewState returns a draft with every pick slot unresolved.
func NewState() *State {
	s := &State{}
	for side := range s.Picks {
		for role := range s.Picks[side] {
			s.Picks[side][role] = NoPick
		}
	}
	return s
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := &State{Picks: s.Picks}
	for side := range s.RawBans {
		c.RawBans[side] = append([]int(nil), s.RawBans[side]...)
	}
	return c
}

// WithPick returns a copy of the draft with champ inserted at (side, role).
func (s *State) WithPick(side Side, role Role, champ int) *State {
	c := s.Clone()
	c.Picks[side][role] = champ
	return c
}

// Pick returns the champion at (side, role), NoPick if unresolved.
func (s *State) Pick(side Side, role Role) int {
	return s.Picks[side][role]
}

// Bans returns the effective ban list for a side: deduplicated in first
// appearance order, truncated to MaxBans, sentinels dropped.
func (s *State) Bans(side Side) []int {
	seen := make(map[int]bool, MaxBans)
	var out []int
	for _, id := range s.RawBans[side] {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		if len(out) == MaxBans {
			break
		}
	}
	return out
}

// SideComplete reports whether every role slot on a side is resolved.
func (s *State) SideComplete(side Side) bool {
	for _, id := range s.Picks[side] {
		if id == NoPick {
			return false
		}
	}
	return true
}

// Complete reports whether both sides are fully resolved.
func (s *State) Complete() bool {
	return s.SideComplete(Blue) && s.SideComplete(Red)
}

// FirstOpenRole returns the first unresolved role on a side in slot
// order, or (0, false) when the side is fully drafted.
func (s *State) FirstOpenRole(side Side) (Role, bool) {
	for _, role := range Roles {
		if s.Picks[side][role] == NoPick {
			return role, true
		}
	}
	return 0, false
}

// Picked returns the set of champion ids occupying any pick slot.
func (s *State) Picked() map[int]bool {
	out := make(map[int]bool, 10)
	for side := range s.Picks {
		for _, id := range s.Picks[side] {
			if id != NoPick {
				out[id] = true
			}
		}
	}
	return out
}

// Banned returns the set of champion ids banned on either side.
func (s *State) Banned() map[int]bool {
	out := make(map[int]bool, 2*MaxBans)
	for _, side := range []Side{Blue, Red} {
		for _, id := range s.Bans(side) {
			out[id] = true
		}
	}
	return out
}

// Hash returns a content hash of the draft state. Equal drafts hash
// equal regardless of raw-ban duplicate noise.
func (s *State) Hash() string {
	h := sha256.New()
	for side := range s.Picks {
		for _, id := range s.Picks[side] {
			fmt.Fprintf(h, "p%d,", id)
		}
		fmt.Fprintf(h, "|")
		for _, id := range s.Bans(Side(side)) {
			fmt.Fprintf(h, "b%d,", id)
		}
		fmt.Fprintf(h, ";")
	}
	return hex.EncodeToString(h.Sum(nil))
}

// stateDoc is the JSON wire shape used by the CLI and the live feed.
type stateDoc struct {
	BluePicks []int `json:"bluePicks"`
	RedPicks  []int `json:"redPicks"`
	BlueBans  []int `json:"blueBans"`
	RedBans   []int `json:"redBans"`
}

// Parse decodes a draft from its JSON document form. Pick lists shorter
// than five slots are padded with the unresolved sentinel.
func Parse(raw []byte) (*State, error) {
	var doc stateDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse draft: %w", err)
	}

	s := NewState()
	for i, id := range doc.BluePicks {
		if i >= len(Roles) {
			break
		}
		s.Picks[Blue][i] = id
	}
	for i, id := range doc.RedPicks {
		if i >= len(Roles) {
			break
		}
		s.Picks[Red][i] = id
	}
	s.RawBans[Blue] = append([]int(nil), doc.BlueBans...)
	s.RawBans[Red] = append([]int(nil), doc.RedBans...)
	return s, nil
}

// MarshalJSON encodes the draft in its document form.
func (s *State) MarshalJSON() ([]byte, error) {
	doc := stateDoc{
		BluePicks: append([]int(nil), s.Picks[Blue][:]...),
		RedPicks:  append([]int(nil), s.Picks[Red][:]...),
		BlueBans:  append([]int(nil), s.RawBans[Blue]...),
		RedBans:   append([]int(nil), s.RawBans[Red]...),
	}
	return json.Marshal(doc)
}
