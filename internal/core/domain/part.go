package domain

type (
	// A Part is a read-only catalog entry.
	Part struct {
		PartID        string
		Name          string
		Category      string
		Price         PartPrice
		Rating        float64
		Reviews       int
		ImageURL      string
		InStock       bool
		Compatibility []string
	}

	PartPrice struct {
		Amount   float64
		Currency string
	}
)

// A ServiceProvider is a read-only entry of the nearby providers feed.
type ServiceProvider struct {
	ProviderID string
	Name       string
	Type       string
	Rating     float64
	Reviews    int
	Distance   string
	Address    string
	Phone      string
	ImageURL   string
	OpenNow    bool
	Services   []string
}
