package service

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/devops-summer22-promotions/promotions/internal/store"
)

// Registry aggregates the business services handed to the handlers.
type Registry struct {
	Promotion *PromotionService
}

// NewRegistry wires the services against a GORM-backed gateway.
func NewRegistry(db *gorm.DB, log *zap.Logger) *Registry {
	return &Registry{
		Promotion: NewPromotionService(store.NewGormStore(db), log),
	}
}
