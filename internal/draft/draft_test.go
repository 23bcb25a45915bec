package draft

import "testing"

func TestBansDedupAndTruncate(t *testing.T) {
	tests := []struct {
		name string
		raw  []int
		want []int
	}{
		{"empty", nil, nil},
		{"simple", []int{1, 2, 3}, []int{1, 2, 3}},
		{"duplicates keep first appearance", []int{5, 1, 5, 2, 1}, []int{5, 1, 2}},
		{"sentinels dropped", []int{0, -1, 3, 0, 4}, []int{3, 4}},
		{"truncated to five", []int{1, 2, 3, 4, 5, 6, 7}, []int{1, 2, 3, 4, 5}},
		{"dedup before truncation", []int{1, 1, 2, 3, 4, 5, 6}, []int{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.RawBans[Blue] = tt.raw
			got := s.Bans(Blue)
			if len(got) != len(tt.want) {
				t.Fatalf("Bans() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Bans()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCompleteness(t *testing.T) {
	s := NewState()
	if s.Complete() || s.SideComplete(Blue) {
		t.Error("Fresh draft should not be complete")
	}

	for i, role := range Roles {
		s.Picks[Blue][role] = 100 + i
	}
	if !s.SideComplete(Blue) {
		t.Error("Blue should be complete after five picks")
	}
	if s.Complete() {
		t.Error("Draft should not be complete with red unpicked")
	}

	for i, role := range Roles {
		s.Picks[Red][role] = 200 + i
	}
	if !s.Complete() {
		t.Error("Draft should be complete with both sides picked")
	}
}

func TestFirstOpenRole(t *testing.T) {
	s := NewState()
	role, open := s.FirstOpenRole(Red)
	if !open || role != Top {
		t.Errorf("FirstOpenRole on fresh draft = (%v, %v), want (top, true)", role, open)
	}

	s.Picks[Red][Top] = 1
	s.Picks[Red][Jungle] = 2
	role, open = s.FirstOpenRole(Red)
	if !open || role != Mid {
		t.Errorf("FirstOpenRole = (%v, %v), want (mid, true)", role, open)
	}

	for _, r := range Roles {
		s.Picks[Red][r] = 10 + int(r)
	}
	if _, open := s.FirstOpenRole(Red); open {
		t.Error("FirstOpenRole should report closed on a full side")
	}
}

func TestWithPickDoesNotMutate(t *testing.T) {
	s := NewState()
	s.RawBans[Blue] = []int{7}

	h := s.WithPick(Blue, Mid, 42)
	if s.Pick(Blue, Mid) != NoPick {
		t.Error("WithPick mutated the original draft")
	}
	if h.Pick(Blue, Mid) != 42 {
		t.Error("WithPick did not set the pick on the copy")
	}

	h.RawBans[Blue] = append(h.RawBans[Blue], 8)
	if len(s.RawBans[Blue]) != 1 {
		t.Error("Copy shares the raw ban slice with the original")
	}
}

func TestHash(t *testing.T) {
	a := NewState()
	a.Picks[Blue][Top] = 1
	a.RawBans[Blue] = []int{5, 6}

	b := NewState()
	b.Picks[Blue][Top] = 1
	b.RawBans[Blue] = []int{5, 5, 6, 0}

	if a.Hash() != a.Hash() {
		t.Error("Hash is not deterministic")
	}
	// Duplicate and sentinel ban noise must not change the hash.
	if a.Hash() != b.Hash() {
		t.Error("Equal effective drafts hash differently")
	}

	c := a.WithPick(Red, Top, 9)
	if a.Hash() == c.Hash() {
		t.Error("Different drafts hash equal")
	}
}

func TestParse(t *testing.T) {
	raw := []byte(`{"bluePicks":[1,2],"redPicks":[10,20,30,40,50],"blueBans":[7,7,8],"redBans":[]}`)
	s, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if s.Pick(Blue, Top) != 1 || s.Pick(Blue, Jungle) != 2 {
		t.Error("Blue picks not placed in slot order")
	}
	// Short pick lists pad with the unresolved sentinel.
	if s.Pick(Blue, Mid) != NoPick {
		t.Errorf("Unlisted blue slot = %d, want NoPick", s.Pick(Blue, Mid))
	}
	if !s.SideComplete(Red) {
		t.Error("Red should be complete")
	}
	if got := s.Bans(Blue); len(got) != 2 || got[0] != 7 || got[1] != 8 {
		t.Errorf("Blue bans = %v, want [7 8]", got)
	}

	if _, err := Parse([]byte("not json")); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestSideAndRoleParsing(t *testing.T) {
	if s, err := SideFromString("red"); err != nil || s != Red {
		t.Errorf("SideFromString(red) = (%v, %v)", s, err)
	}
	if _, err := SideFromString("purple"); err == nil {
		t.Error("Expected error for unknown side")
	}

	aliases := map[string]Role{
		"top": Top, "jungle": Jungle,
		"mid": Mid, "middle": Mid,
		"adc": ADC, "bottom": ADC, "bot": ADC,
		"support": Support, "utility": Support,
	}
	for name, want := range aliases {
		got, err := RoleFromString(name)
		if err != nil || got != want {
			t.Errorf("RoleFromString(%q) = (%v, %v), want %v", name, got, err, want)
		}
	}
	if _, err := RoleFromString("feeder"); err == nil {
		t.Error("Expected error for unknown role")
	}
}
