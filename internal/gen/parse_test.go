package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProposal_BareJSON(t *testing.T) {
	raw := `{"message": "A romantic mix.", "flowers": [{"name": "Red Rose", "quantity": 10, "color": "red"}]}`

	p, err := ParseProposal(raw)
	require.NoError(t, err)

	assert.Equal(t, "A romantic mix.", p.Message)
	require.Len(t, p.Flowers, 1)
	assert.Equal(t, "Red Rose", p.Flowers[0].Name)
	assert.Equal(t, 10, p.Flowers[0].Quantity)
}

func TestParseProposal_FencedJSON(t *testing.T) {
	raw := "Here is your bouquet:\n```json\n{\"message\": \"Lovely!\", \"flowers\": [{\"name\": \"Tulip\", \"quantity\": 5}]}\n```\nEnjoy!"

	p, err := ParseProposal(raw)
	require.NoError(t, err)

	assert.Equal(t, "Lovely!", p.Message)
	require.Len(t, p.Flowers, 1)
	assert.Equal(t, "Tulip", p.Flowers[0].Name)
}

func TestParseProposal_FenceWithoutLanguageTag(t *testing.T) {
	raw := "```\n{\"message\": \"ok\", \"flowers\": []}\n```"

	p, err := ParseProposal(raw)
	require.NoError(t, err)
	assert.Empty(t, p.Flowers)
}

func TestParseProposal_EmbeddedObject(t *testing.T) {
	raw := `Sure! {"message": "done", "flowers": [{"name": "Lily", "quantity": 2}]} hope you like it`

	p, err := ParseProposal(raw)
	require.NoError(t, err)
	require.Len(t, p.Flowers, 1)
	assert.Equal(t, "Lily", p.Flowers[0].Name)
}

func TestParseProposal_DropsNamelessEntries(t *testing.T) {
	raw := `{"message": "m", "flowers": [{"name": "  ", "quantity": 2}, {"name": "Rose", "quantity": 1}]}`

	p, err := ParseProposal(raw)
	require.NoError(t, err)
	require.Len(t, p.Flowers, 1)
	assert.Equal(t, "Rose", p.Flowers[0].Name)
}

func TestParseProposal_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain prose", "I cannot help with that."},
		{"broken json", `{"message": "x", "flowers": [`},
		{"missing flowers", `{"message": "x"}`},
		{"negative quantity", `{"message": "x", "flowers": [{"name": "Rose", "quantity": -2}]}`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProposal(tt.raw)
			assert.ErrorIs(t, err, ErrMalformedGeneratorOutput)
		})
	}
}
