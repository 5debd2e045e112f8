package gen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/allocator"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewGeminiClient(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)
	return client
}

func textResponse(text string) geminiResponse {
	var resp geminiResponse
	resp.Candidates = []struct {
		Content geminiContent `json:"content"`
	}{
		{Content: geminiContent{Role: "model", Parts: []geminiPart{{Text: text}}}},
	}
	return resp
}

func TestProposeBouquet_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "generateContent")

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		prompt := req.Contents[0].Parts[0].Text
		assert.Contains(t, prompt, "Red Rose")
		assert.Contains(t, prompt, "120.00 ILS")

		json.NewEncoder(w).Encode(textResponse(
			`{"message": "A classic dozen.", "flowers": [{"name": "Red Rose", "quantity": 12, "color": "red"}]}`))
	})

	p, err := client.ProposeBouquet(context.Background(), ProposalRequest{
		ShopName:  "Petal Pushers",
		Inventory: []allocator.InventoryItem{{Name: "Red Rose", Color: "red", Price: 9, Quantity: 40}},
		Budget:    120,
	})
	require.NoError(t, err)

	assert.Equal(t, "A classic dozen.", p.Message)
	require.Len(t, p.Flowers, 1)
	assert.Equal(t, 12, p.Flowers[0].Quantity)
}

func TestProposeBouquet_MalformedOutput(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(textResponse("sorry, I cannot do that"))
	})

	_, err := client.ProposeBouquet(context.Background(), ProposalRequest{ShopName: "s", Budget: 100})
	assert.ErrorIs(t, err, ErrMalformedGeneratorOutput)
}

func TestProposeBouquet_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ProposeBouquet(context.Background(), ProposalRequest{ShopName: "s", Budget: 100})
	assert.Error(t, err)
}

func TestGenerateImage_ReturnsDataURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var resp geminiResponse
		resp.Candidates = []struct {
			Content geminiContent `json:"content"`
		}{
			{Content: geminiContent{Parts: []geminiPart{
				{InlineData: &inlineData{MimeType: "image/png", Data: "aGVsbG8="}},
			}}},
		}
		json.NewEncoder(w).Encode(resp)
	})

	url, err := client.GenerateImage(context.Background(), []domain.RecommendationItem{
		{Name: "Red Rose", Quantity: 12},
	})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", url)
}

func TestGenerateImage_NoImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(textResponse("no image for you"))
	})

	url, err := client.GenerateImage(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, url)
}
