// Package catalog owns the product model and the catalog usecases.
package catalog

import (
	"context"
	"time"
)

// Status is the product lifecycle state. Buyers only ever observe published
// products.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Statuses lists every valid product status, in lifecycle order.
var Statuses = []Status{StatusDraft, StatusPublished, StatusArchived}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       int       `json:"price"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter narrows catalog listings. Zero values mean "no constraint".
type Filter struct {
	Status Status
	Query  string // substring match on name
}

// Repository is the only storage contact point for products. FindByID returns
// (nil, nil) when the product does not exist; raising NotFound is the
// usecase's job.
type Repository interface {
	FindAll(ctx context.Context, filter Filter, offset, limit int) ([]Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter Filter) (int, error)
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// List is the paged listing result.
type List struct {
	Items      []Product  `json:"items"`
	Pagination Pagination `json:"pagination"`
}
