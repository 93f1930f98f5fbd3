package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbautista/palomitas/internal/domain/errs"
	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/memory"
	"github.com/dbautista/palomitas/internal/service/inventory"
)

var employee = models.Actor{ID: "emp-1", Role: models.RoleEmployee, Name: "Luis"}

type fixture struct {
	repo  *memory.Repository
	inv   *inventory.Service
	sales *Service
}

// newFixture starts inventory and sales stores over one in-memory backend,
// with maíz as the raw material consumed at 0.05 kg per unit sold.
func newFixture(t *testing.T, corn models.InventoryItem) *fixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	repo := memory.NewRepository()
	if corn.ID != "" {
		require.NoError(t, repo.InsertItem(ctx, corn))
	}

	inv := inventory.NewService(repo, nil, nil)
	require.NoError(t, inv.Start(ctx))

	svc := NewService(repo, inv, "maíz", 0.05, nil)
	require.NoError(t, svc.Start(ctx))

	return &fixture{repo: repo, inv: inv, sales: svc}
}

func cornItem(quantity, reorder float64) models.InventoryItem {
	return models.InventoryItem{
		ID:           "corn",
		Name:         "Maíz palomero",
		Category:     models.CategoryIngredient,
		Quantity:     quantity,
		Unit:         "kg",
		ReorderLevel: reorder,
	}
}

func caramelSale(quantity int, amount float64) models.Sale {
	return models.Sale{
		Flavor:         "caramelo",
		Quantity:       quantity,
		BagSize:        models.BagMedium,
		TotalAmountRaw: amount,
	}
}

func (f *fixture) waitForCorn(t *testing.T, quantity float64) {
	t.Helper()
	require.Eventually(t, func() bool {
		got, ok := f.inv.Get("corn")
		return ok && got.Quantity == quantity
	}, time.Second, 5*time.Millisecond)
}

func TestRecordDeductsRawMaterial(t *testing.T) {
	f := newFixture(t, cornItem(1.0, 0.5))

	require.NoError(t, f.sales.Record(context.Background(), employee, caramelSale(10, 150)))

	// 10 units at 0.05 kg each leave exactly the reorder threshold.
	f.waitForCorn(t, 0.5)
	corn, _ := f.inv.Get("corn")
	assert.True(t, corn.LowStock())
	assert.False(t, corn.CriticalStock())

	require.Eventually(t, func() bool {
		return len(f.sales.List()) == 1
	}, time.Second, 5*time.Millisecond)
	sale := f.sales.List()[0]
	assert.Equal(t, "$150.00", sale.TotalAmount)
	assert.Equal(t, employee.ID, sale.CreatedBy)
	assert.NotEmpty(t, sale.ID)
}

func TestRecordDrivesStockToCritical(t *testing.T) {
	f := newFixture(t, cornItem(1.0, 0.5))

	require.NoError(t, f.sales.Record(context.Background(), employee, caramelSale(10, 150)))
	f.waitForCorn(t, 0.5)

	// One more unit drops below the threshold but stays above half of it.
	require.NoError(t, f.sales.Record(context.Background(), employee, caramelSale(1, 15)))
	f.waitForCorn(t, 0.45)
	corn, _ := f.inv.Get("corn")
	assert.True(t, corn.LowStock())
	assert.False(t, corn.CriticalStock())

	require.NoError(t, f.sales.Record(context.Background(), employee, caramelSale(4, 60)))
	f.waitForCorn(t, 0.25)
	corn, _ = f.inv.Get("corn")
	assert.True(t, corn.CriticalStock())
}

func TestRecordRejectsInfeasibleSale(t *testing.T) {
	f := newFixture(t, cornItem(0.4, 0.5))

	err := f.sales.Record(context.Background(), employee, caramelSale(10, 150))

	var stockErr *errs.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0.5, stockErr.Required)
	assert.Equal(t, 0.4, stockErr.Available)
	assert.NotContains(t, f.repo.Calls(), "InsertSale")
}

func TestRecordFailsWithoutRawMaterial(t *testing.T) {
	f := newFixture(t, models.InventoryItem{})

	err := f.sales.Record(context.Background(), employee, caramelSale(1, 15))

	assert.True(t, errs.IsNotFound(err))
	assert.NotContains(t, f.repo.Calls(), "InsertSale")
}

func TestRecordValidation(t *testing.T) {
	f := newFixture(t, cornItem(5, 1))

	tests := []struct {
		name  string
		sale  models.Sale
		field string
	}{
		{"empty flavor", models.Sale{Quantity: 1, BagSize: models.BagSmall, TotalAmountRaw: 10}, "flavor"},
		{"zero quantity", models.Sale{Flavor: "natural", BagSize: models.BagSmall, TotalAmountRaw: 10}, "quantity"},
		{"unknown bag size", models.Sale{Flavor: "natural", Quantity: 1, BagSize: "jumbo", TotalAmountRaw: 10}, "bag_size"},
		{"zero amount", models.Sale{Flavor: "natural", Quantity: 1, BagSize: models.BagSmall}, "total_amount"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := f.sales.Record(context.Background(), employee, tc.sale)

			var verr *errs.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	assert.NotContains(t, f.repo.Calls(), "InsertSale")
}

func TestRecordCompensatesWhenDeductionFails(t *testing.T) {
	f := newFixture(t, cornItem(5, 1))
	f.repo.FailWith("UpdateItem", &errs.RemoteError{Op: "update inventory item", Err: context.DeadlineExceeded})

	err := f.sales.Record(context.Background(), employee, caramelSale(2, 30))

	var remoteErr *errs.RemoteError
	require.ErrorAs(t, err, &remoteErr)

	calls := f.repo.Calls()
	assert.Contains(t, calls, "InsertSale")
	assert.Contains(t, calls, "DeleteSale")

	sales, listErr := f.repo.ListSales(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, sales)
}

func TestRecordSurfacesCompensationTarget(t *testing.T) {
	f := newFixture(t, cornItem(5, 1))
	f.repo.FailWith("UpdateItem", &errs.RemoteError{Op: "update inventory item", Err: context.DeadlineExceeded})
	f.repo.FailWith("DeleteSale", &errs.RemoteError{Op: "delete sale", Err: context.DeadlineExceeded})

	err := f.sales.Record(context.Background(), employee, caramelSale(2, 30))

	// The deduction error wins even when compensation also fails; the sale
	// is left behind for the repair job.
	require.Error(t, err)
	sales, listErr := f.repo.ListSales(context.Background())
	require.NoError(t, listErr)
	assert.Len(t, sales, 1)
}
