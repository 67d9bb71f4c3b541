package phase

import (
	"sort"

	"github.com/example/fundplan/internal/core/effects"
)

// EntityPhase is the effect entity name for phases.
const EntityPhase = "phase"

// Change is the payload of a phase persist effect.
type Change struct {
	Key   string
	Phase Phase
	// Previous holds the committed values for updates and deletes.
	Previous *Phase
}

// CommitPlan is the ordered set of persist effects needed to move the store
// from the committed baseline to a draft snapshot.
type CommitPlan struct {
	Deletes []effects.PersistEffect
	Updates []effects.PersistEffect
	Creates []effects.PersistEffect
}

// Empty reports whether the draft matches the baseline.
func (p CommitPlan) Empty() bool {
	return len(p.Deletes) == 0 && len(p.Updates) == 0 && len(p.Creates) == 0
}

// Effects returns all effects in execution order: deletes, updates, creates.
// Deletes free phase numbers before renumbered updates claim them, and updates
// run in ascending number for the same reason.
func (p CommitPlan) Effects() []effects.Effect {
	result := make([]effects.Effect, 0, len(p.Deletes)+len(p.Updates)+len(p.Creates))
	for _, e := range p.Deletes {
		result = append(result, e)
	}
	for _, e := range p.Updates {
		result = append(result, e)
	}
	for _, e := range p.Creates {
		result = append(result, e)
	}
	return result
}

// PlanCommit diffs the committed baseline against a draft snapshot.
// This is a pure function; phases are matched by ID, unsaved phases are creates.
func PlanCommit(baseline, draft []Phase) CommitPlan {
	var plan CommitPlan

	committed := make(map[string]Phase, len(baseline))
	for _, p := range baseline {
		if p.Saved() {
			committed[p.ID] = p
		}
	}

	kept := make(map[string]bool, len(draft))
	for _, p := range draft {
		if !p.Saved() {
			plan.Creates = append(plan.Creates, persist(effects.OpCreate, p, nil))
			continue
		}
		kept[p.ID] = true
		prev, ok := committed[p.ID]
		if !ok {
			// Saved in the store but unknown to the baseline; write it through.
			plan.Updates = append(plan.Updates, persist(effects.OpUpdate, p, nil))
			continue
		}
		if !prev.SameFields(p) {
			prevCopy := prev
			plan.Updates = append(plan.Updates, persist(effects.OpUpdate, p, &prevCopy))
		}
	}

	for _, p := range baseline {
		if p.Saved() && !kept[p.ID] {
			prevCopy := p
			plan.Deletes = append(plan.Deletes, persist(effects.OpDelete, p, &prevCopy))
		}
	}

	sort.SliceStable(plan.Updates, func(i, j int) bool {
		return changeOf(plan.Updates[i]).Phase.Number < changeOf(plan.Updates[j]).Phase.Number
	})
	sort.SliceStable(plan.Creates, func(i, j int) bool {
		return changeOf(plan.Creates[i]).Phase.Number < changeOf(plan.Creates[j]).Phase.Number
	})

	return plan
}

func persist(op string, p Phase, prev *Phase) effects.PersistEffect {
	return effects.PersistEffect{
		Entity:    EntityPhase,
		Operation: op,
		Data:      Change{Key: p.Key, Phase: p, Previous: prev},
	}
}

func changeOf(e effects.PersistEffect) Change {
	c, _ := e.Data.(Change)
	return c
}
