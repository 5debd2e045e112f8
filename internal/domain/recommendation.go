package domain

// RecommendationItem is one flower line in a generated bouquet.
type RecommendationItem struct {
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`
	Color     string  `json:"color,omitempty" bson:"color,omitempty"`
	LineTotal float64 `json:"line_total" bson:"line_total"`
}

// Recommendation is an ephemeral AI-generated bouquet. It is produced fresh
// on each wizard step or modification and superseded, never updated in place.
type Recommendation struct {
	Items       []RecommendationItem `json:"items" bson:"items"`
	FlowersCost float64              `json:"flowers_cost" bson:"flowers_cost"`
	DesignFee   float64              `json:"design_fee" bson:"design_fee"`
	TotalPrice  float64              `json:"total_price" bson:"total_price"`
	Message     string               `json:"message" bson:"message"`
	ImageURL    string               `json:"image_url,omitempty" bson:"image_url,omitempty"`
}
