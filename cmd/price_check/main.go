package main

import (
	"flag"
	"fmt"
	"log"

	"kirana-price-api/pkg/models"
	"kirana-price-api/pkg/services"
)

// Small utility to run one price prediction against a dataset from the
// command line, without starting the API server.
func main() {
	var (
		dataset     = flag.String("dataset", "data/bigbasket_products.csv", "Path to the reference dataset (.csv or .xlsx)")
		name        = flag.String("name", "", "Product name (required)")
		category    = flag.String("category", "", "Product category (required)")
		brand       = flag.String("brand", "", "Product brand (optional)")
		description = flag.String("description", "", "Product description (optional)")
	)
	flag.Parse()

	if *name == "" || *category == "" {
		flag.Usage()
		log.Fatal("both -name and -category are required")
	}

	catalog := services.NewCatalogService(*dataset)
	if err := catalog.Build(); err != nil {
		log.Fatalf("Failed to build reference catalog: %v", err)
	}

	info := catalog.Info()
	fmt.Printf("Catalog: %d products, %d categories, %d brands\n",
		info.TotalProducts, info.Categories, info.Brands)

	predictor := services.NewPricePredictorService(catalog)
	prediction, err := predictor.Predict(models.PriceQuery{
		ProductName: *name,
		Category:    *category,
		Brand:       *brand,
		Description: *description,
	})
	if err != nil {
		log.Fatalf("Prediction failed: %v", err)
	}

	finalPrice := predictor.ApplyPricingRule(prediction.PredictedSalePrice, prediction.PredictedMRP)

	fmt.Printf("\nMethod:       %s (confidence %.2f)\n", prediction.Method, prediction.Confidence)
	fmt.Printf("MRP:          %d\n", prediction.PredictedMRP)
	fmt.Printf("SellingPrice: %d\n", finalPrice)

	if len(prediction.SimilarProducts) > 0 {
		fmt.Printf("\nTop matches (%d candidates used):\n", prediction.SimilarProductsCount)
		for _, sp := range prediction.SimilarProducts {
			fmt.Printf("  %.3f  %-50s  sale=%.2f mrp=%.2f\n", sp.Similarity, sp.Name, sp.SalePrice, sp.MRP)
		}
	}
}
