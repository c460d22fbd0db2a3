package services

import (
	"errors"
	"math"
	"sort"

	"kirana-price-api/pkg/models"

	"github.com/google/uuid"
)

// ErrInvalidQuery indicates the query is missing a required field.
var ErrInvalidQuery = errors.New("productName and category are required")

const (
	// similarityThreshold excludes weak matches. Strictly greater-than:
	// a score of exactly 0.3 is not a candidate.
	similarityThreshold = 0.3
	// maxCandidates caps the ranked candidate list.
	maxCandidates = 10
	// topSimilarProducts is how many candidates are echoed back in the
	// result for explainability.
	topSimilarProducts = 3
)

// Default prediction used when neither candidates nor category
// statistics are available.
const (
	defaultSalePrice  = 100
	defaultMRP        = 120
	defaultConfidence = 0.1
)

// PricePredictorService recommends prices for new products by
// comparing them against the reference catalog.
type PricePredictorService struct {
	catalog *CatalogService
}

// NewPricePredictorService creates a predictor over the given catalog.
func NewPricePredictorService(catalog *CatalogService) *PricePredictorService {
	return &PricePredictorService{catalog: catalog}
}

// GetCatalog returns the reference catalog behind this predictor.
func (s *PricePredictorService) GetCatalog() *CatalogService {
	return s.catalog
}

// FindSimilarProducts scores every catalog record against the query,
// filters by the similarity threshold and returns up to limit
// candidates ranked by score descending. Ties keep catalog order.
func (s *PricePredictorService) FindSimilarProducts(query models.PriceQuery, limit int) []models.CandidateMatch {
	records := s.catalog.AllRecords()

	var matches []models.CandidateMatch
	for i := range records {
		similarity := scoreRecord(query, &records[i])
		if similarity > similarityThreshold {
			matches = append(matches, models.CandidateMatch{
				Record:     &records[i],
				Similarity: similarity,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Predict returns a price prediction for the query.
//
// The fallback chain is a strict ordered sequence: a similarity-based
// weighted average over ranked candidates, then the query category's
// average prices, then fixed defaults.
func (s *PricePredictorService) Predict(query models.PriceQuery) (*models.PredictionResult, error) {
	if query.ProductName == "" || query.Category == "" {
		return nil, ErrInvalidQuery
	}
	if !s.catalog.IsReady() {
		return nil, ErrCatalogNotReady
	}

	candidates := s.FindSimilarProducts(query, maxCandidates)
	if len(candidates) == 0 {
		return s.fallbackPrediction(query), nil
	}

	var totalWeight, weightedSalePrice, weightedMRP float64
	for _, c := range candidates {
		totalWeight += c.Similarity
		weightedSalePrice += c.Record.SalePrice * c.Similarity
		weightedMRP += c.Record.MarketPrice * c.Similarity
	}

	top := candidates
	if len(top) > topSimilarProducts {
		top = top[:topSimilarProducts]
	}
	similarProducts := make([]models.SimilarProduct, 0, len(top))
	for _, c := range top {
		similarProducts = append(similarProducts, models.SimilarProduct{
			Name:       c.Record.Product,
			SalePrice:  c.Record.SalePrice,
			MRP:        c.Record.MarketPrice,
			Similarity: c.Similarity,
		})
	}

	return &models.PredictionResult{
		PredictionID:         uuid.New().String(),
		PredictedSalePrice:   int(math.Round(weightedSalePrice / totalWeight)),
		PredictedMRP:         int(math.Round(weightedMRP / totalWeight)),
		Confidence:           math.Min(0.9, 0.5+0.1*float64(len(candidates))),
		Method:               models.MethodSimilarityBased,
		SimilarProductsCount: len(candidates),
		SimilarProducts:      similarProducts,
	}, nil
}

// fallbackPrediction handles the zero-candidate case: category average
// when the query category is known, fixed defaults otherwise.
func (s *PricePredictorService) fallbackPrediction(query models.PriceQuery) *models.PredictionResult {
	if stats, ok := s.catalog.CategoryStats(query.Category); ok {
		return &models.PredictionResult{
			PredictionID:       uuid.New().String(),
			PredictedSalePrice: int(math.Round(stats.AvgSalePrice)),
			PredictedMRP:       int(math.Round(stats.AvgMarketPrice)),
			Confidence:         0.3,
			Method:             models.MethodCategoryAverage,
		}
	}

	return &models.PredictionResult{
		PredictionID:       uuid.New().String(),
		PredictedSalePrice: defaultSalePrice,
		PredictedMRP:       defaultMRP,
		Confidence:         defaultConfidence,
		Method:             models.MethodDefault,
	}
}

// ApplyPricingRule applies the deterministic post-prediction discount:
// when the MRP exceeds the sale price by at least 5, the final selling
// price is the sale price minus 2; otherwise it is unchanged.
func (s *PricePredictorService) ApplyPricingRule(salePrice, mrp int) int {
	if mrp-salePrice >= 5 {
		return salePrice - 2
	}
	return salePrice
}
