package search

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures an artist search.
type SearchParams struct {
	Query string // free-text match against name

	// Filters
	Styles    []string // any-of style slugs
	City      string
	Country   string
	Pricing   string
	MinRating float64

	// Pagination
	Limit  int
	Offset int
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{Limit: 20}
}

// SearchHit is a single matching artist.
type SearchHit struct {
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
	Name   string  `json:"name"`
	Handle string  `json:"handle"`
	City   string  `json:"city"`
	Rating float64 `json:"rating"`
}

// SearchResult carries one page of hits.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// Search runs a filtered artist query against the index.
func (s *Index) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	var must []query.Query
	if params.Query != "" {
		mq := bleve.NewMatchQuery(params.Query)
		mq.SetField("name")
		must = append(must, mq)
	} else {
		must = append(must, bleve.NewMatchAllQuery())
	}

	if len(params.Styles) > 0 {
		var styleQueries []query.Query
		for _, slug := range params.Styles {
			tq := bleve.NewTermQuery(slug)
			tq.SetField("styles")
			styleQueries = append(styleQueries, tq)
		}
		must = append(must, bleve.NewDisjunctionQuery(styleQueries...))
	}
	if params.City != "" {
		tq := bleve.NewTermQuery(params.City)
		tq.SetField("city")
		must = append(must, tq)
	}
	if params.Country != "" {
		tq := bleve.NewTermQuery(params.Country)
		tq.SetField("country")
		must = append(must, tq)
	}
	if params.Pricing != "" {
		tq := bleve.NewTermQuery(params.Pricing)
		tq.SetField("pricing")
		must = append(must, tq)
	}
	if params.MinRating > 0 {
		minRating := params.MinRating
		inclusive := true
		rq := bleve.NewNumericRangeInclusiveQuery(&minRating, nil, &inclusive, nil)
		rq.SetField("rating")
		must = append(must, rq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(must...), params.Limit, params.Offset, false)
	req.Fields = []string{"name", "handle", "city", "rating"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		sh := SearchHit{ID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["name"].(string); ok {
			sh.Name = v
		}
		if v, ok := hit.Fields["handle"].(string); ok {
			sh.Handle = v
		}
		if v, ok := hit.Fields["city"].(string); ok {
			sh.City = v
		}
		if v, ok := hit.Fields["rating"].(float64); ok {
			sh.Rating = v
		}
		result.Hits = append(result.Hits, sh)
	}
	return result, nil
}
