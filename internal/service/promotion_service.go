package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/devops-summer22-promotions/promotions/internal/model"
	"github.com/devops-summer22-promotions/promotions/internal/store"
)

var (
	ErrNotFound  = errors.New("promotion not found")
	ErrConflict  = errors.New("a promotion with this name and type already exists")
	ErrNoResults = errors.New("no promotions matched the given filters")
)

// BadFilterError reports an unsupported listing filter key.
type BadFilterError struct {
	Key string
}

func (e *BadFilterError) Error() string {
	return fmt.Sprintf("unsupported filter %q", e.Key)
}

// filterKeys are the recognized listing filters, in the order they are
// applied.
var filterKeys = []string{"name", "type", "discount", "customer", "start_date", "end_date"}

// PromotionService implements the promotion operations on top of a
// persistence gateway.
type PromotionService struct {
	store store.PromotionStore
	log   *zap.Logger
}

func NewPromotionService(st store.PromotionStore, log *zap.Logger) *PromotionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PromotionService{store: st, log: log}
}

// Create persists a new promotion. Two promotions sharing both name and
// type are duplicates, regardless of their other fields.
func (s *PromotionService) Create(ctx context.Context, promo *model.Promotion) error {
	dup, err := s.store.ExistsByNameAndType(ctx, promo.Name, promo.Type)
	if err != nil {
		return err
	}
	if dup {
		return ErrConflict
	}
	if err := s.store.Create(ctx, promo); err != nil {
		return err
	}
	s.log.Info("created promotion",
		zap.Int64("id", promo.ID),
		zap.String("name", promo.Name),
		zap.String("type", promo.Type.String()),
	)
	return nil
}

func (s *PromotionService) Get(ctx context.Context, id int64) (*model.Promotion, error) {
	promo, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrNotFound
	}
	return promo, nil
}

func (s *PromotionService) Update(ctx context.Context, promo *model.Promotion) error {
	if err := s.store.Update(ctx, promo); err != nil {
		return err
	}
	s.log.Info("updated promotion", zap.Int64("id", promo.ID))
	return nil
}

// Cancel terminates a promotion early by setting its end date to its
// start date. Canceling an already-canceled promotion is a no-op.
func (s *PromotionService) Cancel(ctx context.Context, id int64) (*model.Promotion, error) {
	promo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if promo.Canceled() {
		return promo, nil
	}
	promo.EndDate = promo.StartDate
	if err := s.store.Update(ctx, promo); err != nil {
		return nil, err
	}
	s.log.Info("canceled promotion", zap.Int64("id", promo.ID))
	return promo, nil
}

// Delete removes a promotion. Deleting an absent id succeeds.
func (s *PromotionService) Delete(ctx context.Context, id int64) error {
	promo, err := s.store.Find(ctx, id)
	if err != nil {
		return err
	}
	if promo == nil {
		return nil
	}
	if err := s.store.Delete(ctx, promo); err != nil {
		return err
	}
	s.log.Info("deleted promotion", zap.Int64("id", id))
	return nil
}

// List composes the listing result set. Each recognized filter key present
// in params selects its own match set; the sets are unioned (not
// intersected) and de-duplicated by id. With at least one filter applied
// an empty union is ErrNoResults; with no filters the full collection is
// returned and an empty store is an empty list.
func (s *PromotionService) List(ctx context.Context, params url.Values) ([]model.Promotion, error) {
	for key := range params {
		if !supportedFilter(key) {
			return nil, &BadFilterError{Key: key}
		}
	}
	if len(params) == 0 {
		promos, err := s.store.All(ctx)
		if err != nil {
			return nil, err
		}
		if promos == nil {
			promos = []model.Promotion{}
		}
		return promos, nil
	}

	seen := make(map[int64]struct{})
	union := make([]model.Promotion, 0)
	for _, key := range filterKeys {
		if !params.Has(key) {
			continue
		}
		matches, err := s.matchFilter(ctx, key, params.Get(key))
		if err != nil {
			return nil, err
		}
		for _, promo := range matches {
			if _, ok := seen[promo.ID]; ok {
				continue
			}
			seen[promo.ID] = struct{}{}
			union = append(union, promo)
		}
	}
	if len(union) == 0 {
		return nil, ErrNoResults
	}
	return union, nil
}

func supportedFilter(key string) bool {
	for _, k := range filterKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (s *PromotionService) matchFilter(ctx context.Context, key, value string) ([]model.Promotion, error) {
	switch key {
	case "name":
		return s.store.FindByName(ctx, value)
	case "type":
		t, err := model.ParsePromoType(value)
		if err != nil {
			// an unrecognized type name cannot match any stored promotion
			return nil, nil
		}
		return s.store.FindByType(ctx, t)
	case "discount", "customer":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, model.NewValidationError(key + " must be an integer")
		}
		if key == "discount" {
			return s.store.FindByDiscount(ctx, n)
		}
		return s.store.FindByCustomer(ctx, n)
	case "start_date", "end_date":
		d, err := time.Parse(model.DateLayout, value)
		if err != nil {
			return nil, model.NewValidationError(key + " must be a YYYY-MM-DD date")
		}
		if key == "start_date" {
			return s.store.FindByStartDate(ctx, d)
		}
		return s.store.FindByEndDate(ctx, d)
	}
	return nil, &BadFilterError{Key: key}
}
