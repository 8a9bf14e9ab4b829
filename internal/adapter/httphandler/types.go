package httphandler

import (
	"time"

	"github.com/elianismedina/partfinder/internal/core/domain"
)

type (
	Vehicle struct {
		ID        string    `json:"id"`
		UserID    string    `json:"user_id,omitempty"`
		Make      string    `json:"make"`
		Model     string    `json:"model"`
		Year      int       `json:"year"`
		Mileage   int       `json:"mileage"`
		VIN       string    `json:"vin,omitempty"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	VehicleDraft struct {
		Make    string `json:"make"`
		Model   string `json:"model"`
		Year    int    `json:"year"`
		Mileage int    `json:"mileage"`
		VIN     string `json:"vin,omitempty"`
	}

	GarageSnapshot struct {
		Vehicles   []Vehicle `json:"vehicles"`
		SelectedID string    `json:"selected_id,omitempty"`
	}

	Recommendation struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		Description   string `json:"description"`
		Priority      string `json:"priority"`
		Category      string `json:"category"`
		EstimatedCost string `json:"estimated_cost,omitempty"`
		DueDate       string `json:"due_date,omitempty"`
	}

	Part struct {
		ID            string   `json:"id"`
		Name          string   `json:"name"`
		Category      string   `json:"category"`
		Price         float64  `json:"price"`
		Currency      string   `json:"currency,omitempty"`
		Rating        float64  `json:"rating"`
		Reviews       int      `json:"reviews"`
		ImageURL      string   `json:"image_url,omitempty"`
		InStock       bool     `json:"in_stock"`
		Compatibility []string `json:"compatibility,omitempty"`
	}

	ServiceProvider struct {
		ID       string   `json:"id"`
		Name     string   `json:"name"`
		Type     string   `json:"type"`
		Rating   float64  `json:"rating"`
		Reviews  int      `json:"reviews"`
		Distance string   `json:"distance,omitempty"`
		Address  string   `json:"address,omitempty"`
		Phone    string   `json:"phone,omitempty"`
		ImageURL string   `json:"image_url,omitempty"`
		OpenNow  bool     `json:"open_now"`
		Services []string `json:"services,omitempty"`
	}

	CartAdd struct {
		PartID string `json:"part_id,omitempty"`
	}

	CartState struct {
		Count int64 `json:"count"`
	}

	PartPopularity struct {
		PartID   string `json:"part_id"`
		CartAdds int64  `json:"cart_adds"`
	}

	SessionActivity struct {
		SessionID string `json:"session_id"`
		Events    int    `json:"events"`
	}
)

func vehicleToWire(v domain.Vehicle) Vehicle {
	return Vehicle{
		ID:        v.ID,
		UserID:    v.UserID,
		Make:      v.Make,
		Model:     v.Model,
		Year:      v.Year,
		Mileage:   v.Mileage,
		VIN:       v.VIN,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func vehiclesToWire(vs []domain.Vehicle) []Vehicle {
	out := make([]Vehicle, len(vs))
	for i, v := range vs {
		out[i] = vehicleToWire(v)
	}
	return out
}

func (d VehicleDraft) toDomain() domain.VehicleDraft {
	return domain.VehicleDraft{
		Make:    d.Make,
		Model:   d.Model,
		Year:    d.Year,
		Mileage: d.Mileage,
		VIN:     d.VIN,
	}
}

func recommendationsToWire(rs []domain.Recommendation) []Recommendation {
	out := make([]Recommendation, len(rs))
	for i, r := range rs {
		out[i] = Recommendation{
			ID:            r.RecommendationID,
			Title:         r.Title,
			Description:   r.Description,
			Priority:      string(r.Priority),
			Category:      string(r.Category),
			EstimatedCost: r.EstimatedCost,
			DueDate:       r.DueDate,
		}
	}
	return out
}

func partsToWire(ps []domain.Part) []Part {
	out := make([]Part, len(ps))
	for i, p := range ps {
		out[i] = Part{
			ID:            p.PartID,
			Name:          p.Name,
			Category:      p.Category,
			Price:         p.Price.Amount,
			Currency:      p.Price.Currency,
			Rating:        p.Rating,
			Reviews:       p.Reviews,
			ImageURL:      p.ImageURL,
			InStock:       p.InStock,
			Compatibility: p.Compatibility,
		}
	}
	return out
}

func providersToWire(ps []domain.ServiceProvider) []ServiceProvider {
	out := make([]ServiceProvider, len(ps))
	for i, p := range ps {
		out[i] = ServiceProvider{
			ID:       p.ProviderID,
			Name:     p.Name,
			Type:     p.Type,
			Rating:   p.Rating,
			Reviews:  p.Reviews,
			Distance: p.Distance,
			Address:  p.Address,
			Phone:    p.Phone,
			ImageURL: p.ImageURL,
			OpenNow:  p.OpenNow,
			Services: p.Services,
		}
	}
	return out
}
