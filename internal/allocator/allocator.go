// Package allocator turns an untrusted AI-proposed flower list into a bouquet
// that is realizable from the shop's live inventory and affordable within the
// customer's budget.
package allocator

import (
	"math"

	"go.uber.org/zap"
)

const (
	// DesignFeeRate is the flat digital design fee applied to the flower
	// subtotal after allocation.
	DesignFeeRate = 0.05

	// budgetStopRatio stops the greedy loop once accumulated cost reaches
	// this share of the flower budget.
	budgetStopRatio = 0.95
)

// ProposedItem is one line of a generator proposal. It is untrusted input:
// names may not exist in inventory and quantities may exceed stock.
type ProposedItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Color    string `json:"color,omitempty"`
}

// InventoryItem is a snapshot of one in-stock inventory line at call time.
type InventoryItem struct {
	Name     string
	Color    string
	Price    float64
	Quantity int
	Boosted  bool
}

// LineItem is a validated, budget-clamped bouquet line.
type LineItem struct {
	Name      string
	Quantity  int
	UnitPrice float64
	Color     string
	LineTotal float64
}

// Result is the allocated bouquet. An empty Items slice is not an error;
// callers decide how to handle an empty bouquet.
type Result struct {
	Items       []LineItem
	FlowersCost float64
	DesignFee   float64
	TotalPrice  float64
}

type Allocator struct {
	log *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Allocator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Allocator{log: log}
}

// Allocate walks the proposed items in generator order (proposal order is a
// priority signal, so first-listed items win scarce budget) and produces a
// bouquet that never references unknown or out-of-stock flowers, never exceeds
// on-hand quantities, and keeps the total within budget.
//
// budget is the total the customer agreed to pay, inclusive of the design fee,
// so the amount available for flowers is budget / (1 + DesignFeeRate).
func (a *Allocator) Allocate(proposed []ProposedItem, inventory []InventoryItem, budget float64) Result {
	byName := make(map[string]InventoryItem, len(inventory))
	for _, inv := range inventory {
		if inv.Quantity <= 0 {
			continue
		}
		if _, exists := byName[inv.Name]; !exists {
			byName[inv.Name] = inv
		}
	}

	flowerBudget := budget / (1 + DesignFeeRate)

	var items []LineItem
	cost := 0.0

	for _, p := range proposed {
		inv, ok := byName[p.Name]
		if !ok {
			a.log.Infow("dropping proposed flower not in inventory", "name", p.Name)
			continue
		}

		qty := p.Quantity
		if qty > inv.Quantity {
			qty = inv.Quantity
		}

		remaining := flowerBudget - cost
		if float64(qty)*inv.Price > remaining {
			affordable := int(remaining / inv.Price)
			if affordable < qty {
				qty = affordable
			}
		}

		if qty <= 0 {
			a.log.Infow("dropping proposed flower, no affordable quantity",
				"name", p.Name, "remaining_budget", remaining)
			continue
		}

		color := p.Color
		if color == "" {
			color = inv.Color
		}

		lineTotal := float64(qty) * inv.Price
		cost += lineTotal
		items = append(items, LineItem{
			Name:      inv.Name,
			Quantity:  qty,
			UnitPrice: inv.Price,
			Color:     color,
			LineTotal: lineTotal,
		})

		if cost >= flowerBudget*budgetStopRatio {
			break
		}
	}

	fee := math.Round(cost * DesignFeeRate)
	return Result{
		Items:       items,
		FlowersCost: cost,
		DesignFee:   fee,
		TotalPrice:  cost + fee,
	}
}
