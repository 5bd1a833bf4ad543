package scheduler

import "sort"

// sortEntries orders due tasks first, then by next review, then by key
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Rated != b.Rated {
			return a.Rated
		}
		if a.Due != b.Due {
			return a.Due
		}
		if !a.NextDueAt.Equal(b.NextDueAt) {
			return a.NextDueAt.Before(b.NextDueAt)
		}
		return a.Key < b.Key
	})
}
