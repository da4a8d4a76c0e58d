package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/devops-summer22-promotions/promotions/internal/model"
)

// GormStore implements PromotionStore on top of a GORM connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, promo *model.Promotion) error {
	// id must be zero so the database assigns the next primary key
	promo.ID = 0
	return s.db.WithContext(ctx).Create(promo).Error
}

func (s *GormStore) Update(ctx context.Context, promo *model.Promotion) error {
	if promo.ID == 0 {
		return model.NewValidationError("update called with empty id field")
	}
	// Save writes every column so a full-payload update can null out
	// discount and customer
	return s.db.WithContext(ctx).Save(promo).Error
}

func (s *GormStore) Delete(ctx context.Context, promo *model.Promotion) error {
	return s.db.WithContext(ctx).Delete(&model.Promotion{}, promo.ID).Error
}

func (s *GormStore) Find(ctx context.Context, id int64) (*model.Promotion, error) {
	var promo model.Promotion
	err := s.db.WithContext(ctx).First(&promo, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (s *GormStore) All(ctx context.Context) ([]model.Promotion, error) {
	var promos []model.Promotion
	err := s.db.WithContext(ctx).Order("id ASC").Find(&promos).Error
	return promos, err
}

func (s *GormStore) FindByName(ctx context.Context, name string) ([]model.Promotion, error) {
	var promos []model.Promotion
	err := s.db.WithContext(ctx).
		Where("name LIKE ?", "%"+name+"%").
		Find(&promos).Error
	return promos, err
}

func (s *GormStore) FindByType(ctx context.Context, t model.PromoType) ([]model.Promotion, error) {
	var promos []model.Promotion
	err := s.db.WithContext(ctx).Where("type = ?", t).Find(&promos).Error
	return promos, err
}

func (s *GormStore) FindByDiscount(ctx context.Context, discount int) ([]model.Promotion, error) {
	var promos []model.Promotion
	err := s.db.WithContext(ctx).Where("discount = ?", discount).Find(&promos).Error
	return promos, err
}

func (s *GormStore) FindByCustomer(ctx context.Context, customer int) ([]model.Promotion, error) {
	var promos []model.Promotion
	err := s.db.WithContext(ctx).Where("customer = ?", customer).Find(&promos).Error
	return promos, err
}

func (s *GormStore) FindByStartDate(ctx context.Context, date time.Time) ([]model.Promotion, error) {
	var promos []model.Promotion
	err := s.db.WithContext(ctx).
		Where("start_date = ?", date.Format(model.DateLayout)).
		Find(&promos).Error
	return promos, err
}

func (s *GormStore) FindByEndDate(ctx context.Context, date time.Time) ([]model.Promotion, error) {
	var promos []model.Promotion
	err := s.db.WithContext(ctx).
		Where("end_date = ?", date.Format(model.DateLayout)).
		Find(&promos).Error
	return promos, err
}

func (s *GormStore) ExistsByNameAndType(ctx context.Context, name string, t model.PromoType) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Promotion{}).
		Where("name = ? AND type = ?", name, t).
		Count(&count).Error
	return count > 0, err
}
