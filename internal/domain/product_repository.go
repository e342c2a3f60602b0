package domain

import "context"

//go:generate mockgen -source=product_repository.go -destination=product_repository_mock.go -package=domain

// ProductRepository is the product store boundary. The service is the only
// writer; last-writer-wins semantics are acceptable at that scale.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, code string) (*Product, error)
	Save(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	// Rename changes a product's code as one atomic operation. A crash must
	// never leave the store with neither code present.
	Rename(ctx context.Context, oldCode, newCode string) error
	MarkSold(ctx context.Context, code string) error
	Delete(ctx context.Context, code string) error
}
