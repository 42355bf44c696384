package order

import (
	"context"

	"github.com/rareparfume/perfume-shop-backend/internal/product"
)

// maxNumberAttempts bounds the regenerate-and-retry loop on order number
// collisions.
const maxNumberAttempts = 3

// Service orchestrates order placement: advisory pre-validation against the
// catalog for precise error messages, then the all-or-nothing transaction in
// the repository, then best-effort display enrichment.
type Service struct {
	repo    Repository
	catalog Catalog
}

func NewService(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Place turns a validated cart payload into a persisted order. On failure
// there are zero persisted side effects.
func (s *Service) Place(ctx context.Context, input PlaceInput) (Order, error) {
	if len(input.Lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	// The pre-check below is advisory only: it buys a precise user-facing
	// message before a write transaction is opened. Stock can still move
	// before commit; the conditional decrement inside Place is what actually
	// prevents overselling.
	if err := s.preValidate(input.Lines); err != nil {
		return Order{}, err
	}

	var lastErr error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		draft := Draft{OrderNumber: GenerateOrderNumber(), Input: input}

		placed, err := s.repo.Place(ctx, draft)
		if err == ErrDuplicateOrderNumber {
			lastErr = err
			continue
		}
		if err != nil {
			return Order{}, err
		}

		// enrichment is read-only and must never fail a placed order
		if items, err := s.repo.ItemsForOrder(placed.ID); err == nil {
			placed.Items = items
		}
		return placed, nil
	}
	return Order{}, lastErr
}

func (s *Service) preValidate(lines []CartLine) error {
	ids := lineProductIDs(lines)

	found, err := s.catalog.ListByIDs(ids)
	if err != nil {
		return err
	}

	byID := make(map[int]product.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	// report every missing id at once rather than failing on the first
	missing := make([]int, 0)
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &ProductsNotFoundError{IDs: missing}
	}

	for _, line := range lines {
		prod := byID[line.ProductID]
		if !prod.IsActive {
			return &ProductUnavailableError{Name: prod.Name}
		}
		if prod.StockQuantity < line.Quantity {
			return &InsufficientStockError{Name: prod.Name, Available: prod.StockQuantity}
		}
	}
	return nil
}

func (s *Service) GetByNumber(orderNumber string) (Order, error) {
	return s.repo.GetByNumber(orderNumber)
}

func (s *Service) ListByEmail(email string) ([]Order, error) {
	return s.repo.ListByEmail(email)
}

func (s *Service) ListAll(status Status) ([]Order, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListAll(status)
}

func (s *Service) UpdateStatus(orderNumber string, status Status) (Order, error) {
	if !status.Valid() {
		return Order{}, ErrInvalidStatus
	}
	return s.repo.UpdateStatus(orderNumber, status)
}
