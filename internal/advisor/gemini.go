package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/adibratta/my-pos/internal/domain"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"

// Gemini calls the Google generative-language REST API. Prompts are in
// Indonesian, matching the store's locale.
type Gemini struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewGemini(apiKey string) *Gemini {
	return &Gemini{
		apiKey:   strings.TrimSpace(apiKey),
		endpoint: defaultGeminiEndpoint,
		client:   &http.Client{Timeout: 20 * time.Second},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) DraftDescription(ctx context.Context, name string, productType domain.ProductType) (string, error) {
	kind := "ready"
	if productType == domain.TypePreOrder {
		kind = "pre-order"
	}
	prompt := fmt.Sprintf(
		"Tulis deskripsi produk yang singkat dan menarik (maksimal 20 kata) untuk produk bernama %q yang dijual sebagai stok %s. Gunakan Bahasa Indonesia.",
		name, kind,
	)
	return g.generate(ctx, prompt)
}

func (g *Gemini) SummarizeSales(ctx context.Context, summaries []domain.TransactionSummary, period string) (string, error) {
	payload, err := json.Marshal(summaries)
	if err != nil {
		return "", ErrUnavailable
	}
	prompt := fmt.Sprintf(
		"Bertindaklah sebagai konsultan bisnis. Berikut adalah data transaksi toko untuk periode %s: %s. Berikan analisa singkat 3 poin tentang performa penjualan dan 1 saran strategis untuk meningkatkan omset. Gunakan Bahasa Indonesia.",
		period, payload,
	)
	return g.generate(ctx, prompt)
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", ErrUnavailable
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", ErrUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", ErrUnavailable
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", ErrUnavailable
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", ErrUnavailable
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrUnavailable
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrUnavailable
	}
	return text, nil
}
