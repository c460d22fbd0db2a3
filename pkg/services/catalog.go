package services

import (
	"errors"
	"log"
	"sync"

	"kirana-price-api/pkg/models"
)

// ErrCatalogNotReady indicates a prediction or stats lookup was made
// before the reference catalog was built successfully.
var ErrCatalogNotReady = errors.New("reference catalog not ready")

// CatalogService holds the immutable in-memory reference catalog plus
// derived per-category and per-brand aggregate statistics.
//
// Build serializes concurrent callers behind the mutex: only one load
// actually executes, later callers observe the ready catalog and
// return immediately. After the catalog is ready all read methods are
// lock-free in spirit (guarded reads over data that never mutates).
type CatalogService struct {
	mu            sync.RWMutex
	loader        *DatasetLoader
	records       []models.CatalogRecord
	categoryStats map[string]*models.PriceStats
	brandStats    map[string]*models.PriceStats
	ready         bool
}

// NewCatalogService creates a catalog backed by the dataset at path.
// The catalog starts unready; call Build or BuildFromSource first.
func NewCatalogService(datasetPath string) *CatalogService {
	return &CatalogService{
		loader:        NewDatasetLoader(datasetPath),
		categoryStats: make(map[string]*models.PriceStats),
		brandStats:    make(map[string]*models.PriceStats),
	}
}

// Build loads the reference dataset and computes aggregate statistics.
// Calling Build on an already-ready catalog is a no-op, so redundant
// or concurrent triggers never re-parse the dataset.
func (s *CatalogService) Build() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	records, err := s.loader.Load()
	if err != nil {
		return err
	}

	s.populate(records)
	log.Printf("Loaded %d products from reference dataset", len(s.records))
	return nil
}

// BuildFromRecords builds the catalog from an in-memory record
// sequence instead of the configured dataset file. Same idempotency
// guarantee as Build.
func (s *CatalogService) BuildFromRecords(records []models.CatalogRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return
	}
	s.populate(records)
}

// Reload re-reads the dataset and swaps in a fresh snapshot, bypassing
// the idempotency guard. On load failure the previous catalog is kept.
func (s *CatalogService) Reload() error {
	records, err := s.loader.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.populate(records)
	log.Printf("Reloaded reference catalog: %d products", len(s.records))
	return nil
}

// populate retains valid records, computes stats and marks the catalog
// ready. Caller must hold the write lock.
func (s *CatalogService) populate(records []models.CatalogRecord) {
	retained := make([]models.CatalogRecord, 0, len(records))
	for _, r := range records {
		if r.SalePrice > 0 && r.MarketPrice > 0 {
			retained = append(retained, r)
		}
	}

	s.records = retained
	s.categoryStats = make(map[string]*models.PriceStats)
	s.brandStats = make(map[string]*models.PriceStats)

	for i := range s.records {
		r := s.records[i]

		cs, ok := s.categoryStats[r.Category]
		if !ok {
			cs = &models.PriceStats{}
			s.categoryStats[r.Category] = cs
		}
		cs.Records = append(cs.Records, r)
		cs.Count++

		if r.Brand != "" {
			bs, ok := s.brandStats[r.Brand]
			if !ok {
				bs = &models.PriceStats{}
				s.brandStats[r.Brand] = bs
			}
			bs.Records = append(bs.Records, r)
			bs.Count++
		}
	}

	finalizeStats(s.categoryStats)
	finalizeStats(s.brandStats)
	s.ready = true
}

// finalizeStats computes the averages for each stats entry.
func finalizeStats(stats map[string]*models.PriceStats) {
	for _, st := range stats {
		var sumSale, sumMarket float64
		for _, r := range st.Records {
			sumSale += r.SalePrice
			sumMarket += r.MarketPrice
		}
		st.AvgSalePrice = sumSale / float64(st.Count)
		st.AvgMarketPrice = sumMarket / float64(st.Count)
		st.AvgDiscount = st.AvgMarketPrice - st.AvgSalePrice
	}
}

// IsReady reports whether the catalog has been built successfully.
func (s *CatalogService) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// AllRecords returns the full set of validated records.
func (s *CatalogService) AllRecords() []models.CatalogRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// CategoryStats returns the aggregate statistics for an exact category
// name. Keys are the literal category strings from the dataset; no
// case folding is applied.
func (s *CatalogService) CategoryStats(category string) (*models.PriceStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.categoryStats[category]
	return st, ok
}

// BrandStats returns the aggregate statistics for an exact brand name.
func (s *CatalogService) BrandStats(brand string) (*models.PriceStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.brandStats[brand]
	return st, ok
}

// AllCategoryStats returns the full per-category stats map.
func (s *CatalogService) AllCategoryStats() map[string]*models.PriceStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categoryStats
}

// AllBrandStats returns the full per-brand stats map.
func (s *CatalogService) AllBrandStats() map[string]*models.PriceStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.brandStats
}

// TotalCount returns the number of validated records.
func (s *CatalogService) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// CategoryCount returns the number of distinct categories.
func (s *CatalogService) CategoryCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.categoryStats)
}

// BrandCount returns the number of distinct brands.
func (s *CatalogService) BrandCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.brandStats)
}

// Info returns a summary of the loaded catalog.
func (s *CatalogService) Info() models.CatalogInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CatalogInfo{
		TotalProducts: len(s.records),
		Categories:    len(s.categoryStats),
		Brands:        len(s.brandStats),
		Loaded:        s.ready,
	}
}
