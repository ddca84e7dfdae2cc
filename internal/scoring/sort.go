package scoring

import (
	"sort"

	"EarningsSentinel/internal/model"
)

// SortOpportunities orders opportunities by descending score, with entries
// lacking a score sorted last. The sort is stable so repeated runs over
// identical inputs produce identical output.
func SortOpportunities(opps []model.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		si, sj := opps[i].Score, opps[j].Score
		switch {
		case si != nil && sj == nil:
			return true
		case si == nil:
			return false
		}
		return *si > *sj
	})
}
