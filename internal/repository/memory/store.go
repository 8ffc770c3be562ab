package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Alturino/storefront/internal/repository"
)

type cartKey struct {
	sessionID string
	productID string
}

// Store keeps every collection in process memory. It backs the memory
// driver and the service tests.
type Store struct {
	mu         sync.RWMutex
	categories map[string]repository.Category
	products   map[string]repository.Product
	cartItems  map[cartKey]repository.CartItem
	ttl        time.Duration
	now        repository.Clock
}

var _ repository.Store = (*Store)(nil)

func NewStore(ttl time.Duration, clock repository.Clock) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		categories: map[string]repository.Category{},
		products:   map[string]repository.Product{},
		cartItems:  map[cartKey]repository.CartItem{},
		ttl:        ttl,
		now:        clock,
	}
}

func (s *Store) isLive(item repository.CartItem, now time.Time) bool {
	return item.AddedAt.After(repository.Cutoff(now, s.ttl))
}

func (s *Store) UpsertCartItem(
	c context.Context,
	param repository.UpsertCartItemParams,
) (repository.CartItem, error) {
	if err := c.Err(); err != nil {
		return repository.CartItem{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	key := cartKey{sessionID: param.SessionID, productID: param.ProductID}
	item, ok := s.cartItems[key]
	if ok && s.isLive(item, now) {
		item.Quantity += param.Quantity
		item.UpdatedAt = now
	} else {
		item = repository.CartItem{
			ID:        uuid.NewString(),
			SessionID: param.SessionID,
			ProductID: param.ProductID,
			Quantity:  param.Quantity,
			AddedAt:   now,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	s.cartItems[key] = item
	return item, nil
}

func (s *Store) liveCartItems(sessionID string) []repository.CartItem {
	now := s.now()
	items := []repository.CartItem{}
	for key, item := range s.cartItems {
		if key.sessionID == sessionID && s.isLive(item, now) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].AddedAt.Before(items[j].AddedAt)
	})
	return items
}

func (s *Store) FindCartItems(
	c context.Context,
	param repository.FindCartItemsParams,
) ([]repository.CartItemWithProduct, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.liveCartItems(param.SessionID)
	start := min(max(param.Offset, 0), int64(len(items)))
	end := int64(len(items))
	if param.Limit > 0 {
		end = start + min(param.Limit, end-start)
	}

	result := make([]repository.CartItemWithProduct, 0, end-start)
	for _, item := range items[start:end] {
		joined := repository.CartItemWithProduct{CartItem: item}
		if product, ok := s.products[item.ProductID]; ok {
			product = s.withCategory(product)
			joined.Product = &product
		}
		result = append(result, joined)
	}
	return result, nil
}

func (s *Store) CountCartItems(c context.Context, sessionID string) (int64, error) {
	if err := c.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.liveCartItems(sessionID))), nil
}

func (s *Store) SumCartQuantity(c context.Context, sessionID string) (int64, error) {
	if err := c.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum int64
	for _, item := range s.liveCartItems(sessionID) {
		sum += int64(item.Quantity)
	}
	return sum, nil
}

func (s *Store) DeleteCartItems(c context.Context, sessionID string) (int64, error) {
	if err := c.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for key := range s.cartItems {
		if key.sessionID == sessionID {
			delete(s.cartItems, key)
			deleted++
		}
	}
	return deleted, nil
}
