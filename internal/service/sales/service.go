// Package sales maintains the local mirror of the sales collection and
// coordinates sale recording with the raw-material stock deduction.
package sales

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/domain/errs"
	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/remote"
	"github.com/dbautista/palomitas/internal/service/inventory"
)

// Service owns the in-memory sales collection.
type Service struct {
	repo      remote.SalesRepository
	inventory *inventory.Service
	logger    *zap.Logger
	now       func() time.Time

	rawMaterialMatch string
	unitConsumption  float64

	mu    sync.RWMutex
	sales []models.Sale
}

// NewService wires a sales store. rawMaterialMatch selects the ingredient
// consumed per sale; unitConsumption is the amount deducted per unit sold.
func NewService(repo remote.SalesRepository, inv *inventory.Service, rawMaterialMatch string, unitConsumption float64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:             repo,
		inventory:        inv,
		logger:           logger,
		now:              time.Now,
		rawMaterialMatch: rawMaterialMatch,
		unitConsumption:  unitConsumption,
	}
}

// Start loads the initial snapshot and begins consuming pushed change
// events until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sales = sales
	s.mu.Unlock()

	events, err := s.repo.SubscribeSales(ctx)
	if err != nil {
		return err
	}

	go s.reconcileLoop(ctx, events)
	return nil
}

func (s *Service) reconcileLoop(ctx context.Context, events <-chan remote.SaleEvent) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				s.logger.Warn("sales subscription closed")
				return
			}
			s.mu.Lock()
			s.sales = applyEvent(s.sales, ev)
			s.mu.Unlock()
			s.logger.Debug("sale event reconciled", zap.String("type", string(ev.Type)), zap.String("id", ev.ID))
		case <-ctx.Done():
			return
		}
	}
}

// List returns a snapshot of all sales, newest first.
func (s *Service) List() []models.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Sale(nil), s.sales...)
}

// Record validates the sale, checks raw-material feasibility, then inserts
// the sale and deducts the consumed stock. The two writes cannot be made
// atomic against this backend; when the deduction fails the inserted sale is
// deleted again as compensation, and a compensation failure is logged for
// the reconciliation job to repair.
func (s *Service) Record(ctx context.Context, actor models.Actor, sale models.Sale) error {
	if err := validateSale(sale); err != nil {
		return err
	}

	item, ok := s.inventory.FindIngredient(s.rawMaterialMatch)
	if !ok {
		return &errs.ResourceNotFoundError{Resource: "raw material " + s.rawMaterialMatch}
	}

	required := float64(sale.Quantity) * s.unitConsumption
	if item.Quantity < required {
		return &errs.InsufficientStockError{Item: item.Name, Required: required, Available: item.Quantity}
	}

	sale.ID = uuid.NewString()
	sale.TotalAmount = models.FormatAmount(sale.TotalAmountRaw)
	sale.CreatedAt = s.now()
	sale.CreatedBy = actor.ID

	if err := s.repo.InsertSale(ctx, sale); err != nil {
		return err
	}

	if err := s.inventory.Deduct(ctx, actor, item.ID, required); err != nil {
		s.logger.Error("stock deduction failed after sale insert, compensating",
			zap.String("sale_id", sale.ID), zap.Error(err))
		if delErr := s.repo.DeleteSale(ctx, sale.ID); delErr != nil {
			s.logger.Error("compensation failed: sale recorded without stock deduction",
				zap.String("sale_id", sale.ID),
				zap.String("item_id", item.ID),
				zap.Float64("required", required),
				zap.Error(delErr))
		}
		return err
	}

	return nil
}

func validateSale(sale models.Sale) error {
	if sale.Flavor == "" {
		return &errs.ValidationError{Field: "flavor", Constraint: "must not be empty"}
	}
	if sale.Quantity <= 0 {
		return &errs.ValidationError{Field: "quantity", Constraint: "must be greater than zero"}
	}
	if !models.ValidBagSize(sale.BagSize) {
		return &errs.ValidationError{Field: "bag_size", Constraint: "must be small, medium or large"}
	}
	if sale.TotalAmountRaw <= 0 {
		return &errs.ValidationError{Field: "total_amount", Constraint: "must be greater than zero"}
	}
	return nil
}
