// Package memory provides mutex-guarded in-memory implementations of every
// repository interface, for tests and local runs without external stores.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/example/ec-shop-core/internal/domain/catalog"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]catalog.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]catalog.Product)}
}

func (r *ProductRepository) matching(filter catalog.Filter) []catalog.Product {
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, p)
	}
	// Newest first, id as tiebreaker for stable pages.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *ProductRepository) FindAll(_ context.Context, filter catalog.Filter, offset, limit int) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.matching(filter)
	if offset >= len(items) {
		return nil, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], nil
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepository) Create(_ context.Context, p catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[p.ID] = p
	return nil
}

func (r *ProductRepository) Update(_ context.Context, p catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[p.ID] = p
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, id)
	return nil
}

func (r *ProductRepository) Count(_ context.Context, filter catalog.Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.matching(filter)), nil
}
