package tracker

import "strings"

// statusVariations lists the transition targets accepted for a requested status.
var statusVariations = map[string][]string{
	"done":        {"done", "closed", "resolved", "complete"},
	"in progress": {"in progress", "in development", "in work"},
	"to do":       {"to do", "open", "backlog"},
}

// FindTransition picks the transition that leads to target. It tries an
// exact case-insensitive match on the destination status, then the known
// variations, then falls back to the first transition. exact is false on
// fallback. ok is false only when transitions is empty.
func FindTransition(transitions []Transition, target string) (t Transition, exact, ok bool) {
	if len(transitions) == 0 {
		return Transition{}, false, false
	}
	want := strings.ToLower(strings.TrimSpace(target))

	for _, tr := range transitions {
		if strings.ToLower(tr.To.Name) == want {
			return tr, true, true
		}
	}
	for _, variant := range statusVariations[want] {
		for _, tr := range transitions {
			if strings.ToLower(tr.To.Name) == variant {
				return tr, true, true
			}
		}
	}
	return transitions[0], false, true
}
