package services

import (
	"strings"

	"kirana-price-api/pkg/models"
)

// Similarity signal weights. The four signals sum to at most 1.0.
const (
	categoryMatchWeight = 0.4
	brandMatchWeight    = 0.3
	nameSimWeight       = 0.2
	descriptionWeight   = 0.1
)

// scoreRecord computes the similarity between a query and one catalog
// record by summing four independently weighted signals: exact category
// match, exact brand match, name text similarity and description text
// similarity.
func scoreRecord(query models.PriceQuery, record *models.CatalogRecord) float64 {
	var similarity float64

	if record.Category == query.Category {
		similarity += categoryMatchWeight
	}

	if query.Brand != "" && record.Brand == query.Brand {
		similarity += brandMatchWeight
	}

	similarity += nameSimWeight * textSimilarity(
		strings.ToLower(query.ProductName),
		strings.ToLower(record.Product),
	)

	if query.Description != "" && record.Description != "" {
		similarity += descriptionWeight * textSimilarity(
			strings.ToLower(query.Description),
			strings.ToLower(record.Description),
		)
	}

	return similarity
}

// textSimilarity is a containment-style word overlap ratio: the number
// of words from a that appear in b and are longer than 2 characters,
// divided by the larger of the two word counts. Short tokens ("a",
// "of", unit abbreviations) never count as matches.
func textSimilarity(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)

	maxLen := len(wordsA)
	if len(wordsB) > maxLen {
		maxLen = len(wordsB)
	}
	if maxLen == 0 {
		return 0
	}

	wordSetB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		wordSetB[w] = struct{}{}
	}

	common := 0
	for _, w := range wordsA {
		if len(w) <= 2 {
			continue
		}
		if _, ok := wordSetB[w]; ok {
			common++
		}
	}

	return float64(common) / float64(maxLen)
}
