package feasibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/hangar/core/model"
	"github.com/kilianp07/hangar/core/rules"
)

func hangar() *model.Hangar {
	return &model.Hangar{
		Name:  "H1",
		Doors: []model.HangarDoor{{Name: "D1", Width: 40, Height: 15}, {Name: "D2", Width: 20, Height: 15}},
		Bays: []model.HangarBay{
			{Name: "B1", Width: 20, Depth: 40, Height: 15, Adjacent: []string{"B2"}},
			{Name: "B2", Width: 20, Depth: 40, Height: 15},
			{Name: "B3", Width: 40, Depth: 40, Height: 15},
		},
	}
}

func bays(h *model.Hangar, names ...string) []model.HangarBay {
	var out []model.HangarBay
	for _, n := range names {
		b, _ := h.Bay(n)
		out = append(out, b)
	}
	return out
}

var a320 = model.AircraftType{Name: "A320", Wingspan: 35.8, Length: 37.6, Height: 11.8}

func rulesOf(rs []rules.Result) []rules.RuleID {
	var out []rules.RuleID
	for _, r := range rs {
		out = append(out, r.Rule)
	}
	return out
}

func TestValidateInductionOrder(t *testing.T) {
	h := hangar()
	door, _ := h.Door("D1")
	rs := ValidateInduction(Placement{Aircraft: a320, Hangar: h, Bays: bays(h, "B1", "B2"), Door: &door})
	assert.Equal(t, []rules.RuleID{
		rules.RuleDoorFit, rules.RuleBaySetFit, rules.RuleContiguity,
		rules.RuleOwnership, rules.RuleOwnership, rules.RuleOwnership,
	}, rulesOf(rs))
	assert.True(t, rules.AllOK(rs))
}

func TestValidateInductionSingleBaySkipsContiguity(t *testing.T) {
	h := hangar()
	rs := ValidateInduction(Placement{Aircraft: a320, Hangar: h, Bays: bays(h, "B3")})
	assert.Equal(t, []rules.RuleID{rules.RuleBaySetFit, rules.RuleOwnership}, rulesOf(rs))
	assert.True(t, rules.AllOK(rs))
}

func TestValidateInductionReportsEveryFailure(t *testing.T) {
	h := hangar()
	door, _ := h.Door("D2")
	foreign := model.HangarBay{Name: "X1", Width: 1, Depth: 40, Height: 15}
	rs := ValidateInduction(Placement{
		Aircraft: a320,
		Hangar:   h,
		Bays:     append(bays(h, "B1"), foreign),
		Door:     &door,
		Owners:   map[string]string{"X1": "H2"},
	})
	failed := rules.Failures(rs)
	require.Len(t, failed, 4)
	assert.Equal(t, []rules.RuleID{rules.RuleDoorFit, rules.RuleBaySetFit, rules.RuleContiguity, rules.RuleOwnership}, rulesOf(failed))
	assert.Contains(t, failed[3].Message, "H2")
}

func TestFindSuitableBays(t *testing.T) {
	h := hangar()
	got := FindSuitableBays(a320, h, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "B3", got[0].Name)

	wide := &model.ClearanceEnvelope{Name: "wide", LateralMargin: 5}
	assert.Empty(t, FindSuitableBays(a320, h, wide))
}

func TestValidateInductionFailsUndeclaredReferences(t *testing.T) {
	h := hangar()
	rs := ValidateInduction(Placement{
		Aircraft:       a320,
		Hangar:         h,
		Bays:           bays(h, "B3"),
		UnresolvedBays: []string{"ghost"},
		UnresolvedDoor: "nowhere",
	})
	failed := rules.Failures(rs)
	require.Len(t, failed, 2)
	assert.Equal(t, rules.RuleOwnership, failed[0].Rule)
	assert.Equal(t, "bay ghost does not belong to hangar H1", failed[0].Message)
	assert.Equal(t, rules.RuleOwnership, failed[1].Rule)
	assert.Equal(t, "door nowhere does not belong to hangar H1", failed[1].Message)
}
