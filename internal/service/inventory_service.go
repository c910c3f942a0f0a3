package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sweetshop/backend/internal/inventory"
	"sweetshop/backend/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SweetStore is the slice of the persistence layer the engine needs. All
// durable state lives behind it; the engine keeps nothing between calls.
type SweetStore interface {
	GetSweet(ctx context.Context, id string) (model.Sweet, error)
	ListSweets(ctx context.Context) ([]model.Sweet, error)
	SearchSweets(ctx context.Context, f model.SweetFilter) ([]model.Sweet, error)
	InsertSweet(ctx context.Context, s model.Sweet) error
	UpdateSweet(ctx context.Context, id string, upd model.SweetUpdate) (model.Sweet, error)
	DeleteSweet(ctx context.Context, id string) error
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)
	IncrementStock(ctx context.Context, id string, qty int) (model.Sweet, error)
	InsertPurchase(ctx context.Context, p model.Purchase) error
}

type InventoryService struct {
	store  SweetStore
	logger zerolog.Logger
}

func NewInventoryService(store SweetStore, logger zerolog.Logger) *InventoryService {
	return &InventoryService{store: store, logger: logger}
}

// Purchase deducts qty units of a sweet's stock and records the purchase.
//
// The store has no multi-row transaction, so the two writes are
// independent: the stock decrement goes first, and a failed purchase
// insert is compensated by restoring the deducted quantity. If the
// compensation itself fails, stock is left decremented with no purchase
// record; that is surfaced as ErrDegradedState and logged for manual
// reconciliation rather than swallowed.
func (s *InventoryService) Purchase(ctx context.Context, sweetID string, qty int, userID string) (model.Purchase, error) {
	if qty <= 0 {
		return model.Purchase{}, fmt.Errorf("%w: quantity must be greater than 0", inventory.ErrInvalidRequest)
	}

	sweet, err := s.store.GetSweet(ctx, sweetID)
	if err != nil {
		return model.Purchase{}, err
	}

	if qty > sweet.Quantity {
		return model.Purchase{}, &inventory.InsufficientStockError{Available: sweet.Quantity}
	}

	// The decrement carries its own quantity >= qty guard, so a purchase
	// that loses a race with another buyer affects zero rows instead of
	// driving the stock negative.
	ok, err := s.store.DecrementStock(ctx, sweetID, qty)
	if err != nil {
		return model.Purchase{}, fmt.Errorf("%w: %v", inventory.ErrTransactionFailed, err)
	}
	if !ok {
		available := 0
		if current, err := s.store.GetSweet(ctx, sweetID); err == nil {
			available = current.Quantity
		}
		return model.Purchase{}, &inventory.InsufficientStockError{Available: available}
	}

	purchase := model.Purchase{
		ID:          uuid.NewString(),
		UserID:      userID,
		SweetID:     sweetID,
		Quantity:    qty,
		TotalPrice:  sweet.Price.Mul(decimal.NewFromInt(int64(qty))),
		PurchasedAt: time.Now().UTC(),
	}

	if err := s.store.InsertPurchase(ctx, purchase); err != nil {
		if _, restoreErr := s.store.IncrementStock(ctx, sweetID, qty); restoreErr != nil {
			s.logger.Error().
				Str("event", "stock_compensation_failed").
				Str("sweet_id", sweetID).
				Str("user_id", userID).
				Int("quantity", qty).
				AnErr("insert_err", err).
				AnErr("restore_err", restoreErr).
				Msg("stock decremented without purchase record, manual reconciliation required")
			return model.Purchase{}, fmt.Errorf("%w: %v", inventory.ErrDegradedState, restoreErr)
		}
		return model.Purchase{}, fmt.Errorf("%w: purchase record insert rejected: %v", inventory.ErrTransactionFailed, err)
	}

	return purchase, nil
}

// Restock adds qty units to a sweet's stock. There is no upper bound.
func (s *InventoryService) Restock(ctx context.Context, sweetID string, qty int) (model.Sweet, error) {
	if qty <= 0 {
		return model.Sweet{}, fmt.Errorf("%w: quantity must be greater than 0", inventory.ErrInvalidRequest)
	}

	if _, err := s.store.GetSweet(ctx, sweetID); err != nil {
		return model.Sweet{}, err
	}

	sweet, err := s.store.IncrementStock(ctx, sweetID, qty)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			// Existed a moment ago; the write affected no row.
			return model.Sweet{}, fmt.Errorf("%w: restock failed", inventory.ErrTransactionFailed)
		}
		return model.Sweet{}, fmt.Errorf("%w: %v", inventory.ErrTransactionFailed, err)
	}
	return sweet, nil
}

// CreateSweet validates and stores a new sweet.
func (s *InventoryService) CreateSweet(ctx context.Context, sweet model.Sweet) (model.Sweet, error) {
	if strings.TrimSpace(sweet.Name) == "" {
		return model.Sweet{}, fmt.Errorf("%w: name must not be empty", inventory.ErrInvalidRequest)
	}
	if strings.TrimSpace(sweet.Category) == "" {
		return model.Sweet{}, fmt.Errorf("%w: category must not be empty", inventory.ErrInvalidRequest)
	}
	if sweet.Price.IsNegative() {
		return model.Sweet{}, fmt.Errorf("%w: price must not be negative", inventory.ErrInvalidRequest)
	}
	if sweet.Quantity < 0 {
		return model.Sweet{}, fmt.Errorf("%w: quantity must not be negative", inventory.ErrInvalidRequest)
	}

	now := time.Now().UTC()
	sweet.ID = uuid.NewString()
	sweet.CreatedAt = now
	sweet.UpdatedAt = now

	if err := s.store.InsertSweet(ctx, sweet); err != nil {
		return model.Sweet{}, fmt.Errorf("%w: %v", inventory.ErrTransactionFailed, err)
	}
	return sweet, nil
}

// UpdateSweet applies a partial update to an existing sweet.
func (s *InventoryService) UpdateSweet(ctx context.Context, id string, upd model.SweetUpdate) (model.Sweet, error) {
	if upd.IsEmpty() {
		return model.Sweet{}, fmt.Errorf("%w: no fields to update", inventory.ErrInvalidRequest)
	}
	if upd.Price != nil && upd.Price.IsNegative() {
		return model.Sweet{}, fmt.Errorf("%w: price must not be negative", inventory.ErrInvalidRequest)
	}
	if upd.Quantity != nil && *upd.Quantity < 0 {
		return model.Sweet{}, fmt.Errorf("%w: quantity must not be negative", inventory.ErrInvalidRequest)
	}
	return s.store.UpdateSweet(ctx, id, upd)
}

func (s *InventoryService) DeleteSweet(ctx context.Context, id string) error {
	return s.store.DeleteSweet(ctx, id)
}

func (s *InventoryService) ListSweets(ctx context.Context) ([]model.Sweet, error) {
	return s.store.ListSweets(ctx)
}

func (s *InventoryService) SearchSweets(ctx context.Context, f model.SweetFilter) ([]model.Sweet, error) {
	return s.store.SearchSweets(ctx, f)
}
