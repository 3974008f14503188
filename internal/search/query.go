package search

import (
	"context"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query    string   // User's search query
	Statuses []string // Filter by task status (empty = all)

	// Pagination
	Limit  int
	Offset int

	// Options
	Highlight bool // Include match highlighting
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:     50,
		Highlight: true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	OwnerID    string            `json:"owner_id"`
	Status     string            `json:"status"`
	Priority   string            `json:"priority"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a search query over task titles and descriptions.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if params.Limit <= 0 {
		params.Limit = 50
	}

	searchQuery := buildSearchQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	searchRequest.Fields = []string{"id", "title", "owner_id", "status", "priority"}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("description")
	}

	searchResults, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResults.Total,
		TookMs: searchResults.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResults.Hits)),
	}

	for _, hit := range searchResults.Hits {
		searchHit := SearchHit{
			ID:       hit.ID,
			Score:    hit.Score,
			Title:    fieldString(hit.Fields, "title"),
			OwnerID:  fieldString(hit.Fields, "owner_id"),
			Status:   fieldString(hit.Fields, "status"),
			Priority: fieldString(hit.Fields, "priority"),
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string, len(hit.Fragments))
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery constructs the bleve query for the given params.
func buildSearchQuery(params SearchParams) query.Query {
	queryText := strings.TrimSpace(params.Query)

	var textQuery query.Query
	if queryText == "" {
		textQuery = bleve.NewMatchAllQuery()
	} else {
		titleMatch := bleve.NewMatchQuery(queryText)
		titleMatch.SetField("title")
		titleMatch.SetBoost(2.0)

		descMatch := bleve.NewMatchQuery(queryText)
		descMatch.SetField("description")

		// Prefix match helps with partially typed words.
		titlePrefix := bleve.NewPrefixQuery(strings.ToLower(queryText))
		titlePrefix.SetField("title")

		textQuery = bleve.NewDisjunctionQuery(titleMatch, descMatch, titlePrefix)
	}

	if len(params.Statuses) == 0 {
		return textQuery
	}

	statusQueries := make([]query.Query, 0, len(params.Statuses))
	for _, status := range params.Statuses {
		tq := bleve.NewTermQuery(status)
		tq.SetField("status")
		statusQueries = append(statusQueries, tq)
	}

	combined := bleve.NewConjunctionQuery(textQuery, bleve.NewDisjunctionQuery(statusQueries...))
	return combined
}

func fieldString(fields map[string]any, name string) string {
	if value, ok := fields[name].(string); ok {
		return value
	}
	return ""
}
