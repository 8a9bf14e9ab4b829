package domain

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for sorting, high first. Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

type RecommendationCategory string

const (
	CategoryMaintenance RecommendationCategory = "maintenance"
	CategoryRepair      RecommendationCategory = "repair"
	CategoryUpgrade     RecommendationCategory = "upgrade"
)

// A Recommendation is a maintenance advice entry scoped to one vehicle.
type Recommendation struct {
	RecommendationID string
	Title            string
	Description      string
	Priority         Priority
	Category         RecommendationCategory
	EstimatedCost    string
	DueDate          string
}

type (
	// A Rule binds a recommendation to the vehicles it applies to.
	// Rules are data, so new maintenance intervals require no code change.
	Rule struct {
		Recommendation Recommendation
		When           RuleCondition
	}

	// A RuleCondition is a predicate over vehicle attributes.
	// Zero-valued fields are unconstrained.
	RuleCondition struct {
		MinMileage  int
		MinAgeYears int
		Makes       []string
		VINPrefix   string
	}
)

// Matches reports whether the condition holds for the vehicle.
func (c RuleCondition) Matches(v Vehicle, now time.Time) bool {
	if c.MinMileage > 0 && v.Mileage < c.MinMileage {
		return false
	}

	if c.MinAgeYears > 0 && v.Age(now) < c.MinAgeYears {
		return false
	}

	if len(c.Makes) != 0 && !containsFold(c.Makes, v.Make) {
		return false
	}

	if c.VINPrefix != "" && !strings.HasPrefix(v.VIN, c.VINPrefix) {
		return false
	}

	return true
}

func containsFold(vs []string, s string) bool {
	for _, v := range vs {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
