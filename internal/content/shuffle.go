package content

import "math/rand/v2"

// ShuffleItems randomizes the presentation order of a question's items in
// place. This is gameplay variety only, never a security-relevant operation;
// callers inject the source so tests can seed it.
func ShuffleItems(items []AssessmentItem, r *rand.Rand) {
	if r == nil || len(items) < 2 {
		return
	}
	r.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
