// Package cart holds the reconciliation engine: the persisted SKU/quantity
// lines, their enrichment against live catalog data, and the derived order
// totals.
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/narayanji/distributor-app/pkg/logger"
	"github.com/narayanji/distributor-app/pkg/storefront"
)

// MinQuantityKg is the smallest orderable amount. Mutations that would take a
// line below it remove the line instead.
const MinQuantityKg = 0.5

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrStaleLookup = errors.New("lookup superseded by a newer request")
)

// Catalog resolves SKUs against live product data.
type Catalog interface {
	LookupProduct(ctx context.Context, sku string) (*model.Product, error)
}

// OrderPlacer submits finalized line items for review.
type OrderPlacer interface {
	SubmitOrder(ctx context.Context, lines []model.CartLine) (*model.Order, error)
}

type Service interface {
	// Load reads the persisted cart and enriches every line with live catalog
	// data. Lines whose SKU no longer resolves are dropped silently; if the
	// catalog is unreachable entirely the whole load fails with
	// storefront.ErrProductFetch and no partial data is returned. Persisted
	// state is not modified.
	Load(ctx context.Context) ([]model.EnrichedLine, error)

	// AddItem merges quantityKg into an existing line for sku, or appends a
	// new line. quantityKg must be >= MinQuantityKg; the caller enforces this
	// before invoking. The persisted cart is rewritten synchronously.
	AddItem(sku string, quantityKg float64) ([]model.CartLine, error)

	// UpdateQuantity sets the line's quantity to exactly quantityKg (no merge
	// semantics). Below MinQuantityKg it removes the line instead. The
	// enriched total is recomputed from the already-resolved product.
	UpdateQuantity(sku string, quantityKg float64) ([]model.CartLine, error)

	// RemoveItem deletes the line for sku. Removing an absent SKU is a no-op.
	RemoveItem(sku string) ([]model.CartLine, error)

	// Enriched returns the current in-memory enriched snapshot.
	Enriched() []model.EnrichedLine

	// LookupProduct resolves sku through the stale-response guard: when a
	// newer lookup for the same SKU has been issued, the superseded call
	// returns ErrStaleLookup and leaves the enriched snapshot untouched. A
	// winning result is applied to the snapshot, appending the line when the
	// persisted cart holds it but the snapshot does not yet.
	LookupProduct(ctx context.Context, sku string) (*model.Product, error)

	// Submit sends the cart for review. On success both the persisted and
	// in-memory cart are cleared; on failure both are left untouched.
	Submit(ctx context.Context) (*model.Order, error)
}

type service struct {
	repo    Repository
	catalog Catalog
	orders  OrderPlacer
	lookups *lookupGuard

	mu       sync.Mutex
	enriched []model.EnrichedLine
}

func NewService(repo Repository, catalog Catalog, orders OrderPlacer) Service {
	return &service{
		repo:    repo,
		catalog: catalog,
		orders:  orders,
		lookups: newLookupGuard(),
	}
}

func (s *service) Load(ctx context.Context) ([]model.EnrichedLine, error) {
	lines, err := s.repo.LoadLines()
	if err != nil {
		return nil, err
	}

	logger.Debug("Loading cart", map[string]interface{}{
		"line_count": len(lines),
	})

	enriched := make([]model.EnrichedLine, 0, len(lines))
	for _, line := range lines {
		product, err := s.catalog.LookupProduct(ctx, line.SKU)
		if err != nil {
			if errors.Is(err, storefront.ErrProductNotFound) {
				// Best-effort merge: the SKU left the catalog, drop the line.
				logger.Warn("Dropping cart line: SKU no longer in catalog", map[string]interface{}{
					"sku": line.SKU,
				})
				continue
			}
			logger.Error("Failed to load cart: catalog unreachable", err, map[string]interface{}{
				"sku": line.SKU,
			})
			return nil, err
		}

		enriched = append(enriched, model.EnrichedLine{
			CartLine: line,
			Product:  *product,
			Total:    product.PricePerKg * line.QuantityKg,
		})
	}

	s.mu.Lock()
	s.enriched = enriched
	s.mu.Unlock()

	logger.Info("Cart loaded", map[string]interface{}{
		"persisted_lines": len(lines),
		"resolved_lines":  len(enriched),
	})
	return enriched, nil
}

func (s *service) AddItem(sku string, quantityKg float64) ([]model.CartLine, error) {
	lines, err := s.repo.LoadLines()
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range lines {
		if lines[i].SKU == sku {
			lines[i].QuantityKg += quantityKg
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, model.CartLine{SKU: sku, QuantityKg: quantityKg})
	}

	if err := s.repo.SaveLines(lines); err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.enriched {
		if s.enriched[i].SKU == sku {
			s.enriched[i].QuantityKg += quantityKg
			s.enriched[i].Total = s.enriched[i].Product.PricePerKg * s.enriched[i].QuantityKg
			break
		}
	}
	s.mu.Unlock()

	logger.Info("Item added to cart", map[string]interface{}{
		"sku":         sku,
		"quantity_kg": quantityKg,
		"merged":      merged,
	})
	return lines, nil
}

func (s *service) UpdateQuantity(sku string, quantityKg float64) ([]model.CartLine, error) {
	if quantityKg < MinQuantityKg {
		return s.RemoveItem(sku)
	}

	lines, err := s.repo.LoadLines()
	if err != nil {
		return nil, err
	}

	for i := range lines {
		if lines[i].SKU == sku {
			lines[i].QuantityKg = quantityKg
			break
		}
	}

	if err := s.repo.SaveLines(lines); err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.enriched {
		if s.enriched[i].SKU == sku {
			s.enriched[i].QuantityKg = quantityKg
			s.enriched[i].Total = s.enriched[i].Product.PricePerKg * quantityKg
			break
		}
	}
	s.mu.Unlock()

	logger.Info("Cart quantity updated", map[string]interface{}{
		"sku":         sku,
		"quantity_kg": quantityKg,
	})
	return lines, nil
}

func (s *service) RemoveItem(sku string) ([]model.CartLine, error) {
	lines, err := s.repo.LoadLines()
	if err != nil {
		return nil, err
	}

	filtered := lines[:0]
	for _, line := range lines {
		if line.SKU != sku {
			filtered = append(filtered, line)
		}
	}

	if err := s.repo.SaveLines(filtered); err != nil {
		return nil, err
	}

	s.mu.Lock()
	kept := s.enriched[:0]
	for _, line := range s.enriched {
		if line.SKU != sku {
			kept = append(kept, line)
		}
	}
	s.enriched = kept
	s.mu.Unlock()

	logger.Info("Cart line removed", map[string]interface{}{
		"sku":   sku,
		"count": len(filtered),
	})
	return filtered, nil
}

func (s *service) Enriched() []model.EnrichedLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]model.EnrichedLine, len(s.enriched))
	copy(snapshot, s.enriched)
	return snapshot
}

func (s *service) LookupProduct(ctx context.Context, sku string) (*model.Product, error) {
	gen := s.lookups.begin(sku)

	product, err := s.catalog.LookupProduct(ctx, sku)

	if !s.lookups.isCurrent(sku, gen) {
		logger.Debug("Discarding superseded lookup", map[string]interface{}{
			"sku":        sku,
			"generation": gen,
		})
		return nil, ErrStaleLookup
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	updated := false
	for i := range s.enriched {
		if s.enriched[i].SKU == sku {
			s.enriched[i].Product = *product
			s.enriched[i].Total = product.PricePerKg * s.enriched[i].QuantityKg
			updated = true
			break
		}
	}
	s.mu.Unlock()
	if updated {
		return product, nil
	}

	// The persisted cart may hold a line the snapshot has not seen yet, e.g.
	// one added before its first resolution. Append it so the snapshot stays
	// in lockstep with the persisted lines.
	lines, err := s.repo.LoadLines()
	if err != nil {
		logger.Warn("Could not reconcile lookup with persisted cart", map[string]interface{}{
			"sku":   sku,
			"error": err.Error(),
		})
		return product, nil
	}
	for _, line := range lines {
		if line.SKU != sku {
			continue
		}
		s.mu.Lock()
		exists := false
		for i := range s.enriched {
			if s.enriched[i].SKU == sku {
				s.enriched[i].Product = *product
				s.enriched[i].Total = product.PricePerKg * s.enriched[i].QuantityKg
				exists = true
				break
			}
		}
		if !exists {
			s.enriched = append(s.enriched, model.EnrichedLine{
				CartLine: line,
				Product:  *product,
				Total:    product.PricePerKg * line.QuantityKg,
			})
		}
		s.mu.Unlock()
		break
	}

	return product, nil
}

func (s *service) Submit(ctx context.Context) (*model.Order, error) {
	lines, err := s.repo.LoadLines()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		logger.Warn("Cannot submit: cart is empty", nil)
		return nil, ErrEmptyCart
	}

	order, err := s.orders.SubmitOrder(ctx, lines)
	if err != nil {
		// The cart stays untouched; the user re-triggers manually.
		logger.Error("Order submission failed", err, map[string]interface{}{
			"line_count": len(lines),
		})
		return nil, err
	}

	if err := s.repo.ClearLines(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.enriched = nil
	s.mu.Unlock()

	logger.Info("Order submitted, cart cleared", map[string]interface{}{
		"order_number": order.Number,
		"line_count":   len(lines),
	})
	return order, nil
}

// Subtotal sums the undiscounted line totals.
func Subtotal(lines []model.EnrichedLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Total
	}
	return total
}

// GST sums per-line tax: each line uses its own product's rate, not a
// blended one.
func GST(lines []model.EnrichedLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Total * line.Product.GSTPercent / 100
	}
	return total
}

// GrandTotal is subtotal plus GST. No rounding is applied here; presentation
// rounds to two decimals.
func GrandTotal(lines []model.EnrichedLine) float64 {
	return Subtotal(lines) + GST(lines)
}
