package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/BTreeMap/MoodPipe/internal/models"
)

// DefaultPublicEndpoint is the keyless public translation endpoint.
const DefaultPublicEndpoint = "https://translate.googleapis.com/translate_a/single"

// DefaultPublicTimeout bounds one public-service request.
const DefaultPublicTimeout = 10 * time.Second

// maxPublicResponseBytes caps how much of a response body is read.
const maxPublicResponseBytes = 1 << 20

// ErrEmptyTranslation is returned when a tier produced no text.
var ErrEmptyTranslation = errors.New("empty translation")

// PublicService is the non-AI translation tier.
type PublicService interface {
	Translate(ctx context.Context, text string, from, to models.Language) (string, error)
}

// PublicClient calls the public translation endpoint, which answers with nested JSON arrays
// whose first element lists [translated, original, ...] segments.
type PublicClient struct {
	endpoint string
	http     *http.Client
}

var _ PublicService = (*PublicClient)(nil)

// NewPublicClient creates a PublicClient. An empty endpoint selects DefaultPublicEndpoint and a
// nil httpClient gets a client with DefaultPublicTimeout.
func NewPublicClient(endpoint string, httpClient *http.Client) *PublicClient {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultPublicEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultPublicTimeout}
	}
	return &PublicClient{endpoint: endpoint, http: httpClient}
}

// Translate requests a translation of text from one language to the other.
func (p *PublicClient) Translate(ctx context.Context, text string, from, to models.Language) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", from.BaseCode())
	q.Set("tl", to.BaseCode())
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build translation request: %w", err)
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation API returned %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPublicResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read translation response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("translation response is not valid JSON")
	}

	var b strings.Builder
	for _, segment := range gjson.GetBytes(body, "0.#.0").Array() {
		b.WriteString(segment.String())
	}
	out := b.String()
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyTranslation
	}
	slog.Debug("PublicClient.Translate: translated", "from", from, "to", to, "chars", len(out))
	return out, nil
}
