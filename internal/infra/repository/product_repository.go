package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelfwatch/shelfwatch/internal/domain"
)

const (
	productKeyPrefix = "shelfwatch:product:"
	productIndexKey  = "shelfwatch:products"
)

type productRecord struct {
	Code           string      `json:"code"`
	Description    string      `json:"description"`
	Quantity       int         `json:"quantity"`
	ExpirationDate domain.Date `json:"expiration_date"`
	IsSold         bool        `json:"is_sold"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type productRepository struct {
	client *redis.Client
}

func NewProductRepository(client *redis.Client) domain.ProductRepository {
	return &productRepository{
		client: client,
	}
}

func (r *productRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	codes, err := r.client.SMembers(ctx, productIndexKey).Result()
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(codes))
	for _, code := range codes {
		product, err := r.Get(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				// Index entry without a record; skip rather than fail the scan.
				continue
			}
			return nil, err
		}
		products = append(products, *product)
	}

	return products, nil
}

func (r *productRepository) Get(ctx context.Context, code string) (*domain.Product, error) {
	data, err := r.client.Get(ctx, productKeyPrefix+code).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	var record productRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidProductData
	}

	product := recordToProduct(record)
	return &product, nil
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return ErrInvalidProductData
	}

	exists, err := r.client.SIsMember(ctx, productIndexKey, product.Code).Result()
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicateCode
	}

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	data, err := json.Marshal(productToRecord(product))
	if err != nil {
		return ErrInvalidProductData
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, productKeyPrefix+product.Code, data, 0)
	pipe.SAdd(ctx, productIndexKey, product.Code)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return ErrInvalidProductData
	}

	current, err := r.Get(ctx, product.Code)
	if err != nil {
		return err
	}

	product.CreatedAt = current.CreatedAt
	product.UpdatedAt = time.Now()

	data, err := json.Marshal(productToRecord(product))
	if err != nil {
		return ErrInvalidProductData
	}

	return r.client.Set(ctx, productKeyPrefix+product.Code, data, 0).Err()
}

func (r *productRepository) Rename(ctx context.Context, oldCode, newCode string) error {
	if oldCode == newCode {
		return nil
	}

	exists, err := r.client.SIsMember(ctx, productIndexKey, newCode).Result()
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicateCode
	}

	product, err := r.Get(ctx, oldCode)
	if err != nil {
		return err
	}

	product.Code = newCode
	product.UpdatedAt = time.Now()

	data, err := json.Marshal(productToRecord(product))
	if err != nil {
		return ErrInvalidProductData
	}

	// One transaction: the store never holds neither code.
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, productKeyPrefix+newCode, data, 0)
	pipe.SAdd(ctx, productIndexKey, newCode)
	pipe.Del(ctx, productKeyPrefix+oldCode)
	pipe.SRem(ctx, productIndexKey, oldCode)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *productRepository) MarkSold(ctx context.Context, code string) error {
	product, err := r.Get(ctx, code)
	if err != nil {
		return err
	}

	product.IsSold = true
	product.UpdatedAt = time.Now()

	data, err := json.Marshal(productToRecord(product))
	if err != nil {
		return ErrInvalidProductData
	}

	return r.client.Set(ctx, productKeyPrefix+code, data, 0).Err()
}

func (r *productRepository) Delete(ctx context.Context, code string) error {
	exists, err := r.client.SIsMember(ctx, productIndexKey, code).Result()
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrProductNotFound
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, productKeyPrefix+code)
	pipe.SRem(ctx, productIndexKey, code)

	_, err = pipe.Exec(ctx)
	return err
}

func productToRecord(p *domain.Product) productRecord {
	return productRecord{
		Code:           p.Code,
		Description:    p.Description,
		Quantity:       p.Quantity,
		ExpirationDate: p.ExpirationDate,
		IsSold:         p.IsSold,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func recordToProduct(r productRecord) domain.Product {
	return domain.Product{
		Code:           r.Code,
		Description:    r.Description,
		Quantity:       r.Quantity,
		ExpirationDate: r.ExpirationDate,
		IsSold:         r.IsSold,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
