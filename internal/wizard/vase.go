package wizard

// VaseTier is a container size selected by budget bracket. The vase is an
// extra line item priced on top of the allocated flowers.
type VaseTier struct {
	Size  string  `json:"size" bson:"size"`
	Price float64 `json:"price" bson:"price"`
}

// VaseForBudget picks the vase tier for a budget. Budgets above the top
// bracket clamp to the large tier.
func VaseForBudget(budget float64) VaseTier {
	switch {
	case budget <= 150:
		return VaseTier{Size: "small", Price: 20}
	case budget <= 250:
		return VaseTier{Size: "medium", Price: 30}
	default:
		return VaseTier{Size: "large", Price: 40}
	}
}
