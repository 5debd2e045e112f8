package gen

import (
	"fmt"
	"strings"
)

func buildProposalPrompt(req ProposalRequest) string {
	var b strings.Builder

	b.WriteString("You are an expert florist assembling a bouquet for a customer.\n\n")
	b.WriteString(fmt.Sprintf("SHOP: %s\n\n", req.ShopName))

	b.WriteString("AVAILABLE INVENTORY (only these flowers exist, do not invent others):\n")
	for _, inv := range req.Inventory {
		line := fmt.Sprintf("- %s", inv.Name)
		if inv.Color != "" {
			line += fmt.Sprintf(" (%s)", inv.Color)
		}
		line += fmt.Sprintf(": %.2f ILS each, %d in stock", inv.Price, inv.Quantity)
		if inv.Boosted {
			line += ", shop favourite - prefer including it"
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("BUDGET: %.2f ILS total, including a 5%% design fee.\n\n", req.Budget))

	b.WriteString("CUSTOMER PREFERENCES:\n")
	p := req.Preferences
	if p.Recipient != "" {
		b.WriteString(fmt.Sprintf("- For: %s\n", p.Recipient))
	}
	if p.Occasion != "" {
		b.WriteString(fmt.Sprintf("- Occasion: %s\n", p.Occasion))
	}
	if p.Colors != "" {
		b.WriteString(fmt.Sprintf("- Preferred colors: %s\n", p.Colors))
	}
	if p.Style != "" {
		b.WriteString(fmt.Sprintf("- Style: %s\n", p.Style))
	}
	if p.Notes != "" {
		b.WriteString(fmt.Sprintf("- Notes: %s\n", p.Notes))
	}
	if p.Wrapping != "" {
		b.WriteString(fmt.Sprintf("- Wrapping: %s\n", p.Wrapping))
	}
	b.WriteString("\n")

	b.WriteString("Respond with ONLY a JSON object, no markdown, of the form:\n")
	b.WriteString(`{"message": "a warm sentence describing the bouquet", "flowers": [{"name": "exact inventory name", "quantity": 3, "color": "red"}]}` + "\n")
	b.WriteString("List the most important flowers first.\n")

	return b.String()
}

func buildModifyPrompt(req ModifyRequest) string {
	var b strings.Builder

	b.WriteString("You are an expert florist adjusting an existing bouquet.\n\n")

	b.WriteString("CURRENT BOUQUET:\n")
	for _, item := range req.Current.Items {
		b.WriteString(fmt.Sprintf("- %d x %s at %.2f ILS\n", item.Quantity, item.Name, item.UnitPrice))
	}
	b.WriteString(fmt.Sprintf("Current total: %.2f ILS\n\n", req.Current.TotalPrice))

	b.WriteString("AVAILABLE INVENTORY (only these flowers exist, do not invent others):\n")
	for _, inv := range req.Inventory {
		b.WriteString(fmt.Sprintf("- %s: %.2f ILS each, %d in stock\n", inv.Name, inv.Price, inv.Quantity))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("BUDGET: %.2f ILS total, including a 5%% design fee.\n", req.Budget))
	b.WriteString(fmt.Sprintf("CUSTOMER REQUEST: %s\n\n", req.Instruction))

	b.WriteString("Respond with ONLY a JSON object, no markdown, of the form:\n")
	b.WriteString(`{"message": "a warm sentence describing the change", "flowers": [{"name": "exact inventory name", "quantity": 3, "color": "red"}]}` + "\n")

	return b.String()
}

func buildImagePrompt(items []string) string {
	return fmt.Sprintf(
		"A professional product photograph of a fresh flower bouquet containing %s, soft studio lighting, plain background.",
		strings.Join(items, ", "))
}
