package store

import (
	"context"
	"time"

	"github.com/devops-summer22-promotions/promotions/internal/model"
)

// PromotionStore is the persistence gateway for promotions. It owns all
// storage access; the entity itself carries no storage awareness.
//
// Find returns (nil, nil) when the id is absent. Delete of an absent
// record is a no-op. FindByName matches by substring; the remaining
// finders match exactly.
type PromotionStore interface {
	Create(ctx context.Context, promo *model.Promotion) error
	Update(ctx context.Context, promo *model.Promotion) error
	Delete(ctx context.Context, promo *model.Promotion) error
	Find(ctx context.Context, id int64) (*model.Promotion, error)
	All(ctx context.Context) ([]model.Promotion, error)
	FindByName(ctx context.Context, name string) ([]model.Promotion, error)
	FindByType(ctx context.Context, t model.PromoType) ([]model.Promotion, error)
	FindByDiscount(ctx context.Context, discount int) ([]model.Promotion, error)
	FindByCustomer(ctx context.Context, customer int) ([]model.Promotion, error)
	FindByStartDate(ctx context.Context, date time.Time) ([]model.Promotion, error)
	FindByEndDate(ctx context.Context, date time.Time) ([]model.Promotion, error)
	ExistsByNameAndType(ctx context.Context, name string, t model.PromoType) (bool, error)
}
