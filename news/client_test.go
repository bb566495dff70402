package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopHeadlines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/top-headlines", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("apikey"))
		assert.Equal(t, "en", q.Get("lang"))
		assert.Equal(t, "us", q.Get("country"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"totalArticles": 4,
			"articles": [
				{"title": "Big Thing Happens - Some Wire", "description": "details", "url": "https://example.com/1", "source": {"name": "Some Wire"}},
				{"title": "[Removed]", "description": "", "url": "https://example.com/2", "source": {"name": "Gone"}},
				{"title": "Second Big Thing", "description": "more", "url": "https://example.com/3", "source": {"name": "Other Wire"}}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "en", "us", 3)
	client.BaseURL = server.URL

	articles, err := client.TopHeadlines(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2, "redacted entries are dropped")
	assert.Equal(t, "Big Thing Happens", articles[0].Title, "source suffix is trimmed")
	assert.Equal(t, "Second Big Thing", articles[1].Title)
}

func TestTopHeadlinesCapsAtMax(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"articles": [
			{"title": "One"}, {"title": "Two"}, {"title": "Three"}, {"title": "Four"}
		]}`))
	}))
	defer server.Close()

	client := NewClient("k", "en", "us", 2)
	client.BaseURL = server.URL

	articles, err := client.TopHeadlines(context.Background())
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestTopHeadlinesErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient("bad-key", "en", "us", 3)
	client.BaseURL = server.URL

	_, err := client.TopHeadlines(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Plain Title", cleanTitle("Plain Title"))
	assert.Equal(t, "Title", cleanTitle("Title - The Daily Yell"))
	assert.Equal(t, "", cleanTitle("   "))
}
