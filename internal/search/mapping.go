package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for artist documents.
//
// Priorities:
//  1. Full-text search on artist names with English stemming
//  2. Exact keyword matching for handle, styles, city, country, pricing
//  3. Numeric range queries on rating
//  4. A single geopoint field for distance queries
//
// Fields consumed by cross-store reconciliation (name, handle, styles,
// rating) are stored so match-all enumeration can return their values.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields ---

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = en.AnalyzerName
	nameFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	handleFieldMapping := bleve.NewTextFieldMapping()
	handleFieldMapping.Analyzer = keyword.Name
	handleFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("handle", handleFieldMapping)

	stylesFieldMapping := bleve.NewTextFieldMapping()
	stylesFieldMapping.Analyzer = keyword.Name
	stylesFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("styles", stylesFieldMapping)

	cityFieldMapping := bleve.NewTextFieldMapping()
	cityFieldMapping.Analyzer = keyword.Name
	cityFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("city", cityFieldMapping)

	countryFieldMapping := bleve.NewTextFieldMapping()
	countryFieldMapping.Analyzer = keyword.Name
	countryFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("country", countryFieldMapping)

	pricingFieldMapping := bleve.NewTextFieldMapping()
	pricingFieldMapping.Analyzer = keyword.Name
	pricingFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("pricing", pricingFieldMapping)

	geohashFieldMapping := bleve.NewTextFieldMapping()
	geohashFieldMapping.Analyzer = keyword.Name
	geohashFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("geohash", geohashFieldMapping)

	// --- Numeric fields ---

	ratingFieldMapping := bleve.NewNumericFieldMapping()
	ratingFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("rating", ratingFieldMapping)

	reviewCountFieldMapping := bleve.NewNumericFieldMapping()
	reviewCountFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("review_count", reviewCountFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	// --- Geo ---

	locationFieldMapping := bleve.NewGeoPointFieldMapping()
	docMapping.AddFieldMappingsAt("location", locationFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
