package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hassaaali/research-chatbot/internal/models"
)

const googleSearchEndpoint = "https://www.googleapis.com/customsearch/v1"

// Google API caps num at 10 per request.
const googleMaxResults = 10

// GoogleClient is a Searcher backed by the Google Custom Search JSON API.
type GoogleClient struct {
	apiKey     string
	cseID      string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// GoogleOption configures a GoogleClient.
type GoogleOption func(*GoogleClient)

// WithLogger sets a logger for search events.
func WithLogger(l *zap.Logger) GoogleOption {
	return func(c *GoogleClient) { c.logger = l }
}

// WithEndpoint overrides the API endpoint. Used in tests.
func WithEndpoint(endpoint string) GoogleOption {
	return func(c *GoogleClient) { c.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) GoogleOption {
	return func(c *GoogleClient) { c.httpClient = hc }
}

// NewGoogleClient creates a client for the Google Custom Search JSON API.
func NewGoogleClient(apiKey, cseID string, opts ...GoogleOption) (*GoogleClient, error) {
	if apiKey == "" || cseID == "" {
		return nil, fmt.Errorf("google search: api key and cse id are required")
	}
	c := &GoogleClient{
		apiKey:     apiKey,
		cseID:      cseID,
		endpoint:   googleSearchEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search queries the API and returns scored results sorted descending by
// relevance.
func (c *GoogleClient) Search(ctx context.Context, query string, numResults int, academicOnly bool) ([]models.WebResult, error) {
	if numResults <= 0 {
		numResults = 3
	}
	if numResults > googleMaxResults {
		numResults = googleMaxResults
	}
	if academicOnly {
		query = AcademicQuery(query)
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.cseID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(numResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("google search: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google search: status %d", resp.StatusCode)
	}

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("google search: decode response: %w", err)
	}

	results := make([]models.WebResult, 0, len(body.Items))
	for _, item := range body.Items {
		r := models.WebResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		}
		r.RelevanceScore = RelevanceScore(r)
		results = append(results, r)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	c.logger.Debug("web search completed",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)
	return results, nil
}
