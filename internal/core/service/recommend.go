package service

import (
	"sort"
	"time"

	"github.com/elianismedina/partfinder/internal/core/domain"
)

// A Recommender matches a data-driven rule set against vehicle attributes.
type Recommender struct {
	rules []domain.Rule
}

func NewRecommender(rules []domain.Rule) Recommender {
	return Recommender{rules}
}

// For returns the recommendations applicable to the vehicle, ordered by
// priority (high, medium, low) and, within a priority, by rule
// declaration order. A nil vehicle means no selection and yields an
// empty result; that is not an error condition.
func (r Recommender) For(v *domain.Vehicle) []domain.Recommendation {
	if v == nil {
		return nil
	}

	now := time.Now()

	var recs []domain.Recommendation
	for _, rule := range r.rules {
		if rule.When.Matches(*v, now) {
			recs = append(recs, rule.Recommendation)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
	return recs
}
