// Package news fetches top headlines from GNews and periodically posts them,
// with commentary, into every chat the bot knows.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	apiKey   string
	lang     string
	country  string
	maxCount int
}

type headlinesResponse struct {
	TotalArticles int       `json:"totalArticles"`
	Articles      []Article `json:"articles"`
}

type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      Source `json:"source"`
}

type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func NewClient(apiKey, lang, country string, maxCount int) *Client {
	return &Client{
		BaseURL: "https://gnews.io/api/v4",
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:   apiKey,
		lang:     lang,
		country:  country,
		maxCount: maxCount,
	}
}

// TopHeadlines fetches today's top stories, skipping entries the provider has
// redacted and normalizing titles.
func (c *Client) TopHeadlines(ctx context.Context) ([]Article, error) {
	u, err := url.Parse(c.BaseURL + "/top-headlines")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("lang", c.lang)
	params.Set("country", c.country)
	params.Set("max", fmt.Sprintf("%d", c.maxCount))
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("error building headlines request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching headlines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("headlines request returned status %d", resp.StatusCode)
	}

	var payload headlinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("error decoding headlines response: %w", err)
	}

	articles := make([]Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		a.Title = cleanTitle(a.Title)
		if a.Title == "" || strings.EqualFold(a.Title, "[Removed]") {
			continue
		}
		articles = append(articles, a)
		if len(articles) == c.maxCount {
			break
		}
	}
	return articles, nil
}

// cleanTitle drops the " - Source Name" suffix aggregators append.
func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	if i := strings.LastIndex(title, " - "); i > 0 {
		title = title[:i]
	}
	return strings.TrimSpace(title)
}
