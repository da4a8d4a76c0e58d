package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/devops-summer22-promotions/promotions/internal/model"
)

// MemoryStore implements PromotionStore in process memory. It backs the
// test suites and local runs that have no database available.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	promos map[int64]model.Promotion
	order  []int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{promos: make(map[int64]model.Promotion)}
}

func (s *MemoryStore) Create(_ context.Context, promo *model.Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	promo.ID = s.nextID
	s.promos[promo.ID] = *promo
	s.order = append(s.order, promo.ID)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, promo *model.Promotion) error {
	if promo.ID == 0 {
		return model.NewValidationError("update called with empty id field")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.promos[promo.ID]; !ok {
		s.order = append(s.order, promo.ID)
	}
	s.promos[promo.ID] = *promo
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, promo *model.Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.promos[promo.ID]; !ok {
		return nil
	}
	delete(s.promos, promo.ID)
	for i, id := range s.order {
		if id == promo.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Find(_ context.Context, id int64) (*model.Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	promo, ok := s.promos[id]
	if !ok {
		return nil, nil
	}
	return &promo, nil
}

func (s *MemoryStore) All(_ context.Context) ([]model.Promotion, error) {
	return s.match(func(model.Promotion) bool { return true }), nil
}

func (s *MemoryStore) FindByName(_ context.Context, name string) ([]model.Promotion, error) {
	return s.match(func(p model.Promotion) bool {
		return strings.Contains(p.Name, name)
	}), nil
}

func (s *MemoryStore) FindByType(_ context.Context, t model.PromoType) ([]model.Promotion, error) {
	return s.match(func(p model.Promotion) bool { return p.Type == t }), nil
}

func (s *MemoryStore) FindByDiscount(_ context.Context, discount int) ([]model.Promotion, error) {
	return s.match(func(p model.Promotion) bool {
		return p.Discount != nil && *p.Discount == discount
	}), nil
}

func (s *MemoryStore) FindByCustomer(_ context.Context, customer int) ([]model.Promotion, error) {
	return s.match(func(p model.Promotion) bool {
		return p.Customer != nil && *p.Customer == customer
	}), nil
}

func (s *MemoryStore) FindByStartDate(_ context.Context, date time.Time) ([]model.Promotion, error) {
	return s.match(func(p model.Promotion) bool { return p.StartDate.Equal(date) }), nil
}

func (s *MemoryStore) FindByEndDate(_ context.Context, date time.Time) ([]model.Promotion, error) {
	return s.match(func(p model.Promotion) bool { return p.EndDate.Equal(date) }), nil
}

func (s *MemoryStore) ExistsByNameAndType(_ context.Context, name string, t model.PromoType) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, promo := range s.promos {
		if promo.Name == name && promo.Type == t {
			return true, nil
		}
	}
	return false, nil
}

// match snapshots the promotions that satisfy pred, in insertion order.
func (s *MemoryStore) match(pred func(model.Promotion) bool) []model.Promotion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Promotion, 0)
	for _, id := range s.order {
		if promo := s.promos[id]; pred(promo) {
			res = append(res, promo)
		}
	}
	return res
}
