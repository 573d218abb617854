package data

import "testing"

func TestCostFormula(t *testing.T) {
	for _, skillID := range SkillIDs() {
		node := GetSkillNode(skillID)
		for level := MinSkillLevel; level < node.MaxLevel; level++ {
			want := node.BaseCost + level
			if got := node.Cost(level); got != want {
				t.Errorf("%s.Cost(%d) = %d, want %d", skillID, level, got, want)
			}
		}
	}
}

func TestCostAtMaxLevelIsZero(t *testing.T) {
	for _, skillID := range SkillIDs() {
		node := GetSkillNode(skillID)
		if got := node.Cost(node.MaxLevel); got != 0 {
			t.Errorf("%s.Cost(max) = %d, want 0", skillID, got)
		}
		if got := node.Cost(node.MaxLevel + 5); got != 0 {
			t.Errorf("%s.Cost(max+5) = %d, want 0", skillID, got)
		}
	}
}

func TestCostStrictlyIncreases(t *testing.T) {
	for _, skillID := range SkillIDs() {
		node := GetSkillNode(skillID)
		for level := MinSkillLevel; level < node.MaxLevel-1; level++ {
			if node.Cost(level+1) <= node.Cost(level) {
				t.Errorf("%s cost not increasing: Cost(%d)=%d, Cost(%d)=%d",
					skillID, level, node.Cost(level), level+1, node.Cost(level+1))
			}
		}
	}
}

func TestTotalCostToMax(t *testing.T) {
	tests := []struct {
		skillID string
		want    int // sum of base_cost+L for L=1..9
	}{
		{"luck_1", 63},     // 3+4+5+6+7+8+9+10+11
		{"charisma_1", 63},
		{"endurance_1", 72}, // 4+5+6+7+8+9+10+11+12
		{"business_2", 72},
	}

	for _, tt := range tests {
		if got := GetSkillNode(tt.skillID).TotalCostToMax(); got != tt.want {
			t.Errorf("TotalCostToMax(%s) = %d, want %d", tt.skillID, got, tt.want)
		}
	}
}

func TestCatalogShape(t *testing.T) {
	ids := SkillIDs()
	if len(ids) != 10 {
		t.Fatalf("catalog has %d skills, want 10", len(ids))
	}

	basic := map[Branch]bool{BranchLuck: true, BranchCharisma: true, BranchIntelligence: true}
	for _, skillID := range ids {
		node := GetSkillNode(skillID)
		if node.MaxLevel != MaxSkillLevel {
			t.Errorf("%s max level = %d, want %d", skillID, node.MaxLevel, MaxSkillLevel)
		}
		wantCost := BaseCostAdvanced
		if basic[node.Branch] {
			wantCost = BaseCostBasic
		}
		if node.BaseCost != wantCost {
			t.Errorf("%s base cost = %d, want %d", skillID, node.BaseCost, wantCost)
		}
	}
}

func TestTierTwoPrerequisites(t *testing.T) {
	tests := []struct {
		skillID string
		prereq  string
	}{
		{"luck_2", "luck_1"},
		{"charisma_2", "charisma_1"},
		{"intelligence_2", "intelligence_1"},
		{"endurance_2", "endurance_1"},
		{"business_2", "business_1"},
	}

	for _, tt := range tests {
		node := GetSkillNode(tt.skillID)
		if len(node.Prerequisites) != 1 {
			t.Fatalf("%s has %d prerequisites, want 1", tt.skillID, len(node.Prerequisites))
		}
		edge := node.Prerequisites[0]
		if edge.SkillID != tt.prereq {
			t.Errorf("%s prerequisite = %s, want %s", tt.skillID, edge.SkillID, tt.prereq)
		}
		if edge.RequiredLevel != 3 {
			t.Errorf("%s required level = %d, want 3", tt.skillID, edge.RequiredLevel)
		}
	}
}

func TestTierOneHasNoPrerequisites(t *testing.T) {
	for _, skillID := range []string{"luck_1", "charisma_1", "intelligence_1", "endurance_1", "business_1"} {
		if n := len(GetSkillNode(skillID).Prerequisites); n != 0 {
			t.Errorf("%s has %d prerequisites, want 0", skillID, n)
		}
	}
}

func TestDefaultSkillLevels(t *testing.T) {
	skills := DefaultSkillLevels()
	if len(skills) != len(SkillIDs()) {
		t.Fatalf("defaults have %d skills, want %d", len(skills), len(SkillIDs()))
	}
	for skillID, level := range skills {
		if level != MinSkillLevel {
			t.Errorf("default level of %s = %d, want %d", skillID, level, MinSkillLevel)
		}
	}
}

func TestSkillsByBranch(t *testing.T) {
	for branch, info := range Branches() {
		nodes := SkillsByBranch(branch)
		if len(nodes) != 2 {
			t.Errorf("branch %s has %d skills, want 2", branch, len(nodes))
		}
		for _, node := range nodes {
			if node.Branch != branch {
				t.Errorf("SkillsByBranch(%s) returned %s of branch %s", branch, node.ID, node.Branch)
			}
		}
		if info.Name == "" {
			t.Errorf("branch %s has no display name", branch)
		}
	}
}

func TestEveryCatalogSkillHasEffect(t *testing.T) {
	for _, skillID := range SkillIDs() {
		eff, ok := GetSkillEffect(skillID)
		if !ok {
			t.Errorf("no effect defined for %s", skillID)
			continue
		}
		if eff.BonusPerLevel <= 0 {
			t.Errorf("%s bonus per level = %v, want > 0", skillID, eff.BonusPerLevel)
		}
	}
}

func TestValidSkillLevel(t *testing.T) {
	tests := []struct {
		level int
		want  bool
	}{
		{0, false},
		{1, true},
		{5, true},
		{10, true},
		{11, false},
		{-3, false},
	}

	for _, tt := range tests {
		if got := ValidSkillLevel(tt.level); got != tt.want {
			t.Errorf("ValidSkillLevel(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
