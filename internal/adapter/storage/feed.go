package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/elianismedina/partfinder/internal/core/domain"
)

type (
	partFeedItem struct {
		ID            string   `json:"id"`
		Name          string   `json:"name"`
		Category      string   `json:"category"`
		Price         float64  `json:"price"`
		Currency      string   `json:"currency"`
		Rating        float64  `json:"rating"`
		Reviews       int      `json:"reviews"`
		ImageURL      string   `json:"image_url"`
		InStock       bool     `json:"in_stock"`
		Compatibility []string `json:"compatibility"`
	}

	providerFeedItem struct {
		ID       string   `json:"id"`
		Name     string   `json:"name"`
		Type     string   `json:"type"`
		Rating   float64  `json:"rating"`
		Reviews  int      `json:"reviews"`
		Distance string   `json:"distance"`
		Address  string   `json:"address"`
		Phone    string   `json:"phone"`
		ImageURL string   `json:"image_url"`
		OpenNow  bool     `json:"open_now"`
		Services []string `json:"services"`
	}

	ruleFeedItem struct {
		ID            string        `json:"id"`
		Title         string        `json:"title"`
		Description   string        `json:"description"`
		Priority      string        `json:"priority"`
		Category      string        `json:"category"`
		EstimatedCost string        `json:"estimated_cost"`
		DueDate       string        `json:"due_date"`
		When          ruleCondition `json:"when"`
	}

	ruleCondition struct {
		MinMileage  int      `json:"min_mileage"`
		MinAgeYears int      `json:"min_age_years"`
		Makes       []string `json:"makes"`
		VINPrefix   string   `json:"vin_prefix"`
	}
)

// LoadParts reads the parts catalog feed. The catalog order in the file
// is the canonical presentation order.
func LoadParts(path string) ([]domain.Part, error) {
	const op = "LoadParts"

	var items []partFeedItem
	if err := loadFeed(path, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps := make([]domain.Part, len(items))
	for i, v := range items {
		ps[i] = domain.Part{
			PartID:        v.ID,
			Name:          v.Name,
			Category:      v.Category,
			Price:         domain.PartPrice{Amount: v.Price, Currency: v.Currency},
			Rating:        v.Rating,
			Reviews:       v.Reviews,
			ImageURL:      v.ImageURL,
			InStock:       v.InStock,
			Compatibility: v.Compatibility,
		}
	}
	return ps, nil
}

// LoadProviders reads the service providers feed.
func LoadProviders(path string) ([]domain.ServiceProvider, error) {
	const op = "LoadProviders"

	var items []providerFeedItem
	if err := loadFeed(path, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps := make([]domain.ServiceProvider, len(items))
	for i, v := range items {
		ps[i] = domain.ServiceProvider{
			ProviderID: v.ID,
			Name:       v.Name,
			Type:       v.Type,
			Rating:     v.Rating,
			Reviews:    v.Reviews,
			Distance:   v.Distance,
			Address:    v.Address,
			Phone:      v.Phone,
			ImageURL:   v.ImageURL,
			OpenNow:    v.OpenNow,
			Services:   v.Services,
		}
	}
	return ps, nil
}

// LoadRules reads the recommendation rules feed. Declaration order is
// preserved, ties between equal priorities resolve by it.
func LoadRules(path string) ([]domain.Rule, error) {
	const op = "LoadRules"

	var items []ruleFeedItem
	if err := loadFeed(path, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rs := make([]domain.Rule, len(items))
	for i, v := range items {
		rs[i] = domain.Rule{
			Recommendation: domain.Recommendation{
				RecommendationID: v.ID,
				Title:            v.Title,
				Description:      v.Description,
				Priority:         domain.Priority(v.Priority),
				Category:         domain.RecommendationCategory(v.Category),
				EstimatedCost:    v.EstimatedCost,
				DueDate:          v.DueDate,
			},
			When: domain.RuleCondition{
				MinMileage:  v.When.MinMileage,
				MinAgeYears: v.When.MinAgeYears,
				Makes:       v.When.Makes,
				VINPrefix:   v.When.VINPrefix,
			},
		}
	}
	return rs, nil
}

func loadFeed(path string, dst any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read feed: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}
	return nil
}
