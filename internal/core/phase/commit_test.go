package phase

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/example/fundplan/internal/core/effects"
)

var phaseCmp = cmp.Options{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Date) bool { return a.Equal(b) }),
}

func saved(p Phase, id string, version int) Phase {
	p.ID = id
	p.Version = version
	return p
}

type plannedOp struct {
	Op     string
	Key    string
	Number int
}

func opsOf(plan CommitPlan) []plannedOp {
	var ops []plannedOp
	for _, e := range plan.Effects() {
		pe := e.(effects.PersistEffect)
		c := pe.Data.(Change)
		ops = append(ops, plannedOp{Op: pe.Operation, Key: c.Key, Number: c.Phase.Number})
	}
	return ops
}

func TestPlanCommit(t *testing.T) {
	p1 := saved(ph("a", 1, "2024-06-03", 30, "5000"), "PHASE-001", 1)
	p2 := saved(ph("b", 2, "2024-07-03", 14, "3000"), "PHASE-002", 1)
	p3 := saved(ph("c", 3, "2024-07-17", 14, "2000"), "PHASE-003", 1)

	tests := []struct {
		name     string
		baseline []Phase
		draft    []Phase
		want     []plannedOp
	}{
		{
			name:     "unchanged draft is empty",
			baseline: []Phase{p1, p2},
			draft:    []Phase{p1, p2},
			want:     nil,
		},
		{
			name:  "fresh draft creates in number order",
			draft: []Phase{ph("x", 1, "2024-06-03", 30, "5000"), ph("y", 2, "2024-07-03", 14, "1")},
			want: []plannedOp{
				{Op: effects.OpCreate, Key: "x", Number: 1},
				{Op: effects.OpCreate, Key: "y", Number: 2},
			},
		},
		{
			name:     "edited goal becomes an update",
			baseline: []Phase{p1, p2},
			draft: []Phase{
				func() Phase { p := p1; p.FundingGoal = goal("4000"); return p }(),
				p2,
			},
			want: []plannedOp{{Op: effects.OpUpdate, Key: "a", Number: 1}},
		},
		{
			name:     "delete then renumber then create",
			baseline: []Phase{p1, p2, p3},
			draft: []Phase{
				func() Phase { p := p2; p.Number = 1; return p }(),
				func() Phase { p := p3; p.Number = 2; return p }(),
				ph("n", 3, "2024-08-01", 14, "10"),
			},
			want: []plannedOp{
				{Op: effects.OpDelete, Key: "a", Number: 1},
				{Op: effects.OpUpdate, Key: "b", Number: 1},
				{Op: effects.OpUpdate, Key: "c", Number: 2},
				{Op: effects.OpCreate, Key: "n", Number: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanCommit(tt.baseline, tt.draft)
			got := opsOf(plan)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("planned ops mismatch (-want +got):\n%s", diff)
			}
			if plan.Empty() != (len(tt.want) == 0) {
				t.Errorf("Empty = %v, want %v", plan.Empty(), len(tt.want) == 0)
			}
		})
	}
}

func TestPlanCommit_UpdateCarriesPrevious(t *testing.T) {
	prev := saved(ph("a", 1, "2024-06-03", 30, "5000"), "PHASE-001", 3)
	next := prev
	next.DurationDays = 40

	plan := PlanCommit([]Phase{prev}, []Phase{next})
	if len(plan.Updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(plan.Updates))
	}
	change := plan.Updates[0].Data.(Change)
	if change.Previous == nil {
		t.Fatal("expected previous values on update")
	}
	if diff := cmp.Diff(prev, *change.Previous, phaseCmp); diff != "" {
		t.Errorf("previous mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(next, change.Phase, phaseCmp); diff != "" {
		t.Errorf("phase mismatch (-want +got):\n%s", diff)
	}
}
