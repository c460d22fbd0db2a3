package models

// CatalogRecord represents one validated reference product observation.
// Records are created once at catalog-build time and never mutated.
type CatalogRecord struct {
	Index       int     `json:"index"`
	Product     string  `json:"product"`
	Category    string  `json:"category"`
	SubCategory string  `json:"sub_category,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	SalePrice   float64 `json:"sale_price"`
	MarketPrice float64 `json:"market_price"`
	Type        string  `json:"type,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Description string  `json:"description,omitempty"`
}

// PriceStats holds aggregate price statistics for one category or brand.
// Averages are computed once over the full set of valid records, right
// after the catalog is built.
type PriceStats struct {
	Count          int     `json:"count"`
	AvgSalePrice   float64 `json:"avgSalePrice"`
	AvgMarketPrice float64 `json:"avgMarketPrice"`
	AvgDiscount    float64 `json:"avgDiscount"`

	// Records backing the averages. Kept for recomputation and
	// diagnostics but excluded from JSON responses, which would
	// otherwise embed thousands of products per key.
	Records []CatalogRecord `json:"-"`
}

// PriceQuery is the caller-supplied input for one prediction call.
type PriceQuery struct {
	ProductName string `json:"productName" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Brand       string `json:"brand,omitempty"`
	Description string `json:"description,omitempty"`
}

// CandidateMatch pairs a catalog record with its similarity score
// against a query. Lives only within a single prediction call.
type CandidateMatch struct {
	Record     *CatalogRecord `json:"record"`
	Similarity float64        `json:"similarity"`
}

// Prediction methods, in fallback order.
const (
	MethodSimilarityBased = "similarity_based"
	MethodCategoryAverage = "category_average"
	MethodDefault         = "default"
)

// SimilarProduct is one top contributing candidate, included in the
// detailed prediction result for explainability.
type SimilarProduct struct {
	Name       string  `json:"name"`
	SalePrice  float64 `json:"salePrice"`
	MRP        float64 `json:"mrp"`
	Similarity float64 `json:"similarity"`
}

// PredictionResult is the raw output of the price predictor, before the
// pricing rule is applied.
type PredictionResult struct {
	PredictionID         string           `json:"prediction_id"`
	PredictedSalePrice   int              `json:"predictedSalePrice"`
	PredictedMRP         int              `json:"predictedMRP"`
	Confidence           float64          `json:"confidence"`
	Method               string           `json:"method"`
	SimilarProductsCount int              `json:"similarProductsCount"`
	SimilarProducts      []SimilarProduct `json:"similarProducts,omitempty"`
}

// PriceRecommendation is the final output of a prediction-and-policy
// call, as returned to the vendor.
type PriceRecommendation struct {
	MRP          int `json:"mrp"`
	SellingPrice int `json:"sellingPrice"`
}

// CatalogInfo summarizes the loaded reference catalog.
type CatalogInfo struct {
	TotalProducts int  `json:"totalProducts"`
	Categories    int  `json:"categories"`
	Brands        int  `json:"brands"`
	Loaded        bool `json:"loaded"`
}
