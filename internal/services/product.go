package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/happygreeting/billing-app/internal/models"
)

// ProductService is CRUD over the catalog. It keeps no derived state; the
// invoice editor reads it through the ProductFinder interface.
type ProductService struct {
	DB *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService { return &ProductService{DB: db} }

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.DB.WithContext(ctx).Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductService) Add(ctx context.Context, p *models.Product) error {
	if p.Type == "" {
		p.Type = models.ProductReadymade
	}
	return s.DB.WithContext(ctx).Create(p).Error
}

// Update replaces the stored product by id. An unknown id is a silent no-op:
// callers are expected to pass ids taken from List.
func (s *ProductService) Update(ctx context.Context, p models.Product) error {
	return s.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":        p.Name,
			"type":        p.Type,
			"price":       p.Price,
			"description": p.Description,
		}).Error
}

// Remove deletes the product. Line items already copied from it keep their
// values; only the weak back-reference goes stale.
func (s *ProductService) Remove(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.Product{}, id).Error
}

func (s *ProductService) Find(ctx context.Context, id uint) (models.Product, bool) {
	var p models.Product
	err := s.DB.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, false
	}
	if err != nil {
		return models.Product{}, false
	}
	return p, true
}
