package allocator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInventory() []InventoryItem {
	return []InventoryItem{
		{Name: "Red Rose", Color: "red", Price: 12, Quantity: 50},
		{Name: "White Lily", Color: "white", Price: 18, Quantity: 20},
		{Name: "Tulip", Color: "yellow", Price: 8, Quantity: 30, Boosted: true},
		{Name: "Orchid", Color: "purple", Price: 45, Quantity: 5},
		{Name: "Sunflower", Color: "yellow", Price: 10, Quantity: 0}, // out of stock
	}
}

func TestAllocate_BudgetNeverExceeded(t *testing.T) {
	a := New(nil)
	proposals := [][]ProposedItem{
		{{Name: "Red Rose", Quantity: 100}, {Name: "Orchid", Quantity: 10}},
		{{Name: "Orchid", Quantity: 5}, {Name: "White Lily", Quantity: 20}, {Name: "Tulip", Quantity: 30}},
		{{Name: "Tulip", Quantity: 1}},
	}
	budgets := []float64{70, 150, 300, 1000}

	for _, proposed := range proposals {
		for _, budget := range budgets {
			result := a.Allocate(proposed, testInventory(), budget)

			// Total may exceed the budget only by fee-rounding slack.
			assert.LessOrEqual(t, result.TotalPrice, budget+0.5,
				"budget %v proposed %v", budget, proposed)
			assert.Equal(t, result.FlowersCost+result.DesignFee, result.TotalPrice)
			assert.Equal(t, math.Round(result.FlowersCost*DesignFeeRate), result.DesignFee)
		}
	}
}

func TestAllocate_StockNeverExceeded(t *testing.T) {
	a := New(nil)
	proposed := []ProposedItem{
		{Name: "Red Rose", Quantity: 999},
		{Name: "Orchid", Quantity: 999},
	}

	result := a.Allocate(proposed, testInventory(), 10000)

	stock := map[string]int{}
	for _, inv := range testInventory() {
		stock[inv.Name] = inv.Quantity
	}
	for _, item := range result.Items {
		assert.LessOrEqual(t, item.Quantity, stock[item.Name], item.Name)
	}
}

func TestAllocate_UnknownFlowersDropped(t *testing.T) {
	a := New(nil)
	proposed := []ProposedItem{
		{Name: "Moonpetal", Quantity: 3}, // invented by the generator
		{Name: "Red Rose", Quantity: 5},
	}

	result := a.Allocate(proposed, testInventory(), 200)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "Red Rose", result.Items[0].Name)
}

func TestAllocate_OutOfStockDropped(t *testing.T) {
	a := New(nil)
	proposed := []ProposedItem{{Name: "Sunflower", Quantity: 5}}

	result := a.Allocate(proposed, testInventory(), 200)

	assert.Empty(t, result.Items)
	assert.Zero(t, result.TotalPrice)
}

func TestAllocate_AllUnknown_EmptyBouquet(t *testing.T) {
	a := New(nil)
	proposed := []ProposedItem{
		{Name: "Moonpetal", Quantity: 3},
		{Name: "Starbloom", Quantity: 2},
	}

	result := a.Allocate(proposed, testInventory(), 200)

	assert.Empty(t, result.Items)
	assert.Zero(t, result.FlowersCost)
	assert.Zero(t, result.DesignFee)
	assert.Zero(t, result.TotalPrice)
}

func TestAllocate_QuantityClampedToBudget(t *testing.T) {
	a := New(nil)
	// 10 lilies at 18 = 180, but flower budget is 105/1.05 = 100.
	proposed := []ProposedItem{{Name: "White Lily", Quantity: 10}}

	result := a.Allocate(proposed, testInventory(), 105)

	require.Len(t, result.Items, 1)
	assert.Equal(t, 5, result.Items[0].Quantity) // floor(100 / 18)
	assert.Equal(t, 90.0, result.Items[0].LineTotal)
}

func TestAllocate_ProposedOrderIsPriority(t *testing.T) {
	a := New(nil)
	// Orchids listed first eat most of the budget before roses are considered.
	proposed := []ProposedItem{
		{Name: "Orchid", Quantity: 5},
		{Name: "Red Rose", Quantity: 50},
	}

	result := a.Allocate(proposed, testInventory(), 252) // flower budget 240

	require.NotEmpty(t, result.Items)
	assert.Equal(t, "Orchid", result.Items[0].Name)
	assert.Equal(t, 5, result.Items[0].Quantity)
}

func TestAllocate_EarlyStopAtThreshold(t *testing.T) {
	a := New(nil)
	// First line alone reaches >=95% of the flower budget; later lines skipped.
	proposed := []ProposedItem{
		{Name: "Red Rose", Quantity: 8}, // 96 of a 100 flower budget
		{Name: "Tulip", Quantity: 1},
	}

	result := a.Allocate(proposed, testInventory(), 105)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "Red Rose", result.Items[0].Name)
}

func TestAllocate_Idempotent(t *testing.T) {
	a := New(nil)
	proposed := []ProposedItem{
		{Name: "Red Rose", Quantity: 100},
		{Name: "White Lily", Quantity: 4},
		{Name: "Moonpetal", Quantity: 2},
		{Name: "Tulip", Quantity: 10},
	}
	budget := 250.0

	first := a.Allocate(proposed, testInventory(), budget)

	// Feed the output back in as the new proposal.
	reproposed := make([]ProposedItem, len(first.Items))
	for i, item := range first.Items {
		reproposed[i] = ProposedItem{Name: item.Name, Quantity: item.Quantity, Color: item.Color}
	}

	second := a.Allocate(reproposed, testInventory(), budget)
	assert.Equal(t, first, second)
}

func TestAllocate_ColorFallsBackToInventory(t *testing.T) {
	a := New(nil)
	proposed := []ProposedItem{
		{Name: "Red Rose", Quantity: 1, Color: "crimson"},
		{Name: "Tulip", Quantity: 1},
	}

	result := a.Allocate(proposed, testInventory(), 200)

	require.Len(t, result.Items, 2)
	assert.Equal(t, "crimson", result.Items[0].Color)
	assert.Equal(t, "yellow", result.Items[1].Color)
}
