package services

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"kirana-price-api/pkg/models"
)

func newReadyPredictor(records []models.CatalogRecord) *PricePredictorService {
	catalog := NewCatalogService("")
	catalog.BuildFromRecords(records)
	return NewPricePredictorService(catalog)
}

func TestPredictRequiresReadyCatalog(t *testing.T) {
	predictor := NewPricePredictorService(NewCatalogService(""))

	_, err := predictor.Predict(models.PriceQuery{ProductName: "milk", Category: "dairy"})
	if !errors.Is(err, ErrCatalogNotReady) {
		t.Errorf("expected ErrCatalogNotReady, got %v", err)
	}
}

func TestPredictValidatesQuery(t *testing.T) {
	predictor := newReadyPredictor(testRecords())

	testCases := []models.PriceQuery{
		{ProductName: "", Category: "dairy"},
		{ProductName: "milk", Category: ""},
		{},
	}

	for _, query := range testCases {
		if _, err := predictor.Predict(query); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("Predict(%+v): expected ErrInvalidQuery, got %v", query, err)
		}
	}
}

func TestPredictWeightedAverage(t *testing.T) {
	records := []models.CatalogRecord{
		{
			Product:     "amul gold milk",
			Category:    "groceries",
			Brand:       "amul",
			SalePrice:   100,
			MarketPrice: 110,
			Description: "full cream milk",
		},
		{
			Product:     "basmati rice",
			Category:    "groceries",
			Brand:       "india gate",
			SalePrice:   120,
			MarketPrice: 130,
		},
	}
	predictor := newReadyPredictor(records)

	// First record scores 1.0 (category + brand + name + description),
	// second scores 0.4 (category only).
	result, err := predictor.Predict(models.PriceQuery{
		ProductName: "amul gold milk",
		Category:    "groceries",
		Brand:       "amul",
		Description: "full cream milk",
	})
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}

	if result.Method != models.MethodSimilarityBased {
		t.Errorf("Method = %q, expected %q", result.Method, models.MethodSimilarityBased)
	}
	// round((100*1.0 + 120*0.4) / 1.4) = round(105.71) = 106
	if result.PredictedSalePrice != 106 {
		t.Errorf("PredictedSalePrice = %d, expected 106", result.PredictedSalePrice)
	}
	// round((110*1.0 + 130*0.4) / 1.4) = round(115.71) = 116
	if result.PredictedMRP != 116 {
		t.Errorf("PredictedMRP = %d, expected 116", result.PredictedMRP)
	}
	if math.Abs(result.Confidence-0.7) > 1e-9 {
		t.Errorf("Confidence = %v, expected 0.7", result.Confidence)
	}
	if result.SimilarProductsCount != 2 {
		t.Errorf("SimilarProductsCount = %d, expected 2", result.SimilarProductsCount)
	}
	if len(result.SimilarProducts) != 2 || result.SimilarProducts[0].Name != "amul gold milk" {
		t.Errorf("unexpected top candidates: %+v", result.SimilarProducts)
	}
	if result.PredictionID == "" {
		t.Error("expected a non-empty prediction ID")
	}
}

func TestPredictDefaultFallback(t *testing.T) {
	predictor := newReadyPredictor(testRecords())

	result, err := predictor.Predict(models.PriceQuery{
		ProductName: "bluetooth speaker",
		Category:    "electronics",
	})
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}

	if result.Method != models.MethodDefault {
		t.Errorf("Method = %q, expected %q", result.Method, models.MethodDefault)
	}
	if result.PredictedSalePrice != 100 || result.PredictedMRP != 120 {
		t.Errorf("prediction = %d/%d, expected defaults 100/120",
			result.PredictedSalePrice, result.PredictedMRP)
	}
	if math.Abs(result.Confidence-0.1) > 1e-9 {
		t.Errorf("Confidence = %v, expected 0.1", result.Confidence)
	}
	if result.SimilarProductsCount != 0 {
		t.Errorf("SimilarProductsCount = %d, expected 0", result.SimilarProductsCount)
	}
}

func TestCategoryAverageFallback(t *testing.T) {
	records := []models.CatalogRecord{
		{Product: "amul gold milk", Category: "dairy", SalePrice: 50, MarketPrice: 55},
		{Product: "nestle curd", Category: "dairy", SalePrice: 60, MarketPrice: 65},
	}
	predictor := newReadyPredictor(records)

	// The category-match weight (0.4) already clears the candidate
	// threshold, so this tier only fires for queries whose category is
	// a known stats key yet matched no candidate; exercise the branch
	// directly.
	result := predictor.fallbackPrediction(models.PriceQuery{
		ProductName: "unknown thing",
		Category:    "dairy",
	})

	if result.Method != models.MethodCategoryAverage {
		t.Errorf("Method = %q, expected %q", result.Method, models.MethodCategoryAverage)
	}
	if result.PredictedSalePrice != 55 {
		t.Errorf("PredictedSalePrice = %d, expected 55", result.PredictedSalePrice)
	}
	if result.PredictedMRP != 60 {
		t.Errorf("PredictedMRP = %d, expected 60", result.PredictedMRP)
	}
	if math.Abs(result.Confidence-0.3) > 1e-9 {
		t.Errorf("Confidence = %v, expected 0.3", result.Confidence)
	}
}

func TestFallbackPrefersCategoryAverageOverDefault(t *testing.T) {
	predictor := newReadyPredictor(testRecords())

	known := predictor.fallbackPrediction(models.PriceQuery{ProductName: "x", Category: "dairy"})
	if known.Method != models.MethodCategoryAverage {
		t.Errorf("known category: Method = %q, expected %q", known.Method, models.MethodCategoryAverage)
	}

	unknown := predictor.fallbackPrediction(models.PriceQuery{ProductName: "x", Category: "electronics"})
	if unknown.Method != models.MethodDefault {
		t.Errorf("unknown category: Method = %q, expected %q", unknown.Method, models.MethodDefault)
	}
}

func TestSimilarityThresholdIsStrict(t *testing.T) {
	records := []models.CatalogRecord{
		// Brand-only match scores exactly 0.3 and must be excluded.
		{Product: "aaa bbb ccc ddd eee", Category: "snacks", Brand: "tasty", SalePrice: 10, MarketPrice: 12},
	}
	predictor := newReadyPredictor(records)

	exactly := predictor.FindSimilarProducts(models.PriceQuery{
		ProductName: "zzz",
		Category:    "beverages",
		Brand:       "tasty",
	}, maxCandidates)
	if len(exactly) != 0 {
		t.Errorf("score of exactly 0.3 must be excluded, got %d candidates", len(exactly))
	}

	// Adding the slightest name overlap (1 word of 5 => 0.2*0.2 = 0.04)
	// pushes the score to 0.34, which must be included.
	slightlyAbove := predictor.FindSimilarProducts(models.PriceQuery{
		ProductName: "aaa",
		Category:    "beverages",
		Brand:       "tasty",
	}, maxCandidates)
	if len(slightlyAbove) != 1 {
		t.Fatalf("score above 0.3 must be included, got %d candidates", len(slightlyAbove))
	}
	if math.Abs(slightlyAbove[0].Similarity-0.34) > 1e-9 {
		t.Errorf("Similarity = %v, expected 0.34", slightlyAbove[0].Similarity)
	}
}

func TestFindSimilarProductsRankingAndCap(t *testing.T) {
	var records []models.CatalogRecord
	for i := 0; i < 15; i++ {
		records = append(records, models.CatalogRecord{
			Index:       i,
			Product:     fmt.Sprintf("item %03d", i),
			Category:    "groceries",
			SalePrice:   100,
			MarketPrice: 110,
		})
	}
	// One stronger match that must rank first.
	records = append(records, models.CatalogRecord{
		Index:       99,
		Product:     "special masala blend",
		Category:    "groceries",
		SalePrice:   200,
		MarketPrice: 220,
	})
	predictor := newReadyPredictor(records)

	matches := predictor.FindSimilarProducts(models.PriceQuery{
		ProductName: "special masala blend",
		Category:    "groceries",
	}, maxCandidates)

	if len(matches) != maxCandidates {
		t.Fatalf("got %d candidates, expected cap of %d", len(matches), maxCandidates)
	}
	if matches[0].Record.Index != 99 {
		t.Errorf("strongest match should rank first, got index %d", matches[0].Record.Index)
	}
	// Equal-score candidates keep their catalog order (stable sort).
	for i := 1; i < len(matches)-1; i++ {
		if matches[i].Record.Index > matches[i+1].Record.Index {
			t.Errorf("tie order broken at position %d: %d before %d",
				i, matches[i].Record.Index, matches[i+1].Record.Index)
		}
	}
}

func TestPredictConfidenceIsCapped(t *testing.T) {
	var records []models.CatalogRecord
	for i := 0; i < 15; i++ {
		records = append(records, models.CatalogRecord{
			Product:     fmt.Sprintf("item %03d", i),
			Category:    "groceries",
			SalePrice:   100,
			MarketPrice: 110,
		})
	}
	predictor := newReadyPredictor(records)

	result, err := predictor.Predict(models.PriceQuery{
		ProductName: "anything",
		Category:    "groceries",
	})
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}

	if result.SimilarProductsCount != maxCandidates {
		t.Errorf("SimilarProductsCount = %d, expected %d", result.SimilarProductsCount, maxCandidates)
	}
	if math.Abs(result.Confidence-0.9) > 1e-9 {
		t.Errorf("Confidence = %v, expected cap of 0.9", result.Confidence)
	}
	if len(result.SimilarProducts) != topSimilarProducts {
		t.Errorf("SimilarProducts length = %d, expected %d", len(result.SimilarProducts), topSimilarProducts)
	}
}

func TestApplyPricingRule(t *testing.T) {
	predictor := NewPricePredictorService(NewCatalogService(""))

	testCases := []struct {
		salePrice int
		mrp       int
		expected  int
	}{
		{100, 105, 98},  // difference of exactly 5: reduction applies
		{100, 104, 100}, // difference of 4: unchanged
		{100, 100, 100}, // no gap: unchanged
		{100, 120, 98},  // large gap: flat reduction, not proportional
	}

	for _, tc := range testCases {
		if got := predictor.ApplyPricingRule(tc.salePrice, tc.mrp); got != tc.expected {
			t.Errorf("ApplyPricingRule(%d, %d) = %d, expected %d",
				tc.salePrice, tc.mrp, got, tc.expected)
		}
	}
}
