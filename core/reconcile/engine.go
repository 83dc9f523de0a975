package reconcile

import (
	"strings"

	"quiz-manager/core/domain"
)

// Reconcile diffs a variant's baseline against the desired item names and
// returns the minimal create/delete plan. It performs no I/O.
//
// Names are compared as multisets: a name that appears n times in the
// baseline and m times in desired yields max(m-n, 0) creates and
// max(n-m, 0) deletes, so legitimate duplicates survive and balanced names
// keep their ids. An empty desired list deletes the whole baseline.
func Reconcile(original []domain.Item, desired []string) *Plan {
	wanted := make(map[string]int, len(desired))
	for _, name := range desired {
		wanted[normalizeName(name)]++
	}

	plan := &Plan{
		ToCreate: []string{},
		ToDelete: []domain.Item{},
		Kept:     []domain.Item{},
	}

	// Walk the baseline in order: the first occurrences of a name are kept,
	// later surplus occurrences are deleted.
	have := make(map[string]int, len(original))
	for _, item := range original {
		name := normalizeName(item.Name)
		if wanted[name] > 0 {
			wanted[name]--
			have[name]++
			plan.Kept = append(plan.Kept, item)
			continue
		}
		plan.ToDelete = append(plan.ToDelete, item)
	}

	// Desired occurrences not matched by a kept baseline item are created.
	for _, name := range desired {
		key := normalizeName(name)
		if have[key] > 0 {
			have[key]--
			continue
		}
		plan.ToCreate = append(plan.ToCreate, key)
	}

	plan.Summary = PlanSummary{
		Original: len(original),
		Desired:  len(desired),
		Kept:     len(plan.Kept),
		Creates:  len(plan.ToCreate),
		Deletes:  len(plan.ToDelete),
	}
	return plan
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
