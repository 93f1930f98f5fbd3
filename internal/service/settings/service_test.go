package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbautista/palomitas/internal/domain/errs"
	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/memory"
)

var (
	admin    = models.Actor{ID: "admin-1", Role: models.RoleAdmin, Name: "Daniela"}
	employee = models.Actor{ID: "emp-1", Role: models.RoleEmployee, Name: "Luis"}
)

func startService(t *testing.T, repo *memory.Repository) *Service {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	svc := NewService(repo, nil)
	require.NoError(t, svc.Start(ctx))
	return svc
}

func TestGetBeforeFirstWrite(t *testing.T) {
	svc := startService(t, memory.NewRepository())

	_, ok := svc.Get()
	assert.False(t, ok)
}

func TestUpdateCreatesRecordOnFirstUse(t *testing.T) {
	repo := memory.NewRepository()
	svc := startService(t, repo)

	name := "Palomitas Doña Lupita"
	price := 35.0
	err := svc.Update(context.Background(), admin, models.StoreSettingsPatch{
		StoreName:   &name,
		PriceMedium: &price,
	})
	require.NoError(t, err)
	assert.Contains(t, repo.Calls(), "InsertSettings")

	require.Eventually(t, func() bool {
		got, ok := svc.Get()
		return ok && got.StoreName == name
	}, time.Second, 5*time.Millisecond)

	got, _ := svc.Get()
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, 35.0, got.PriceMedium)
	assert.Equal(t, admin.ID, got.UpdatedBy)
}

func TestUpdateMergesIntoExistingRecord(t *testing.T) {
	repo := memory.NewRepository()
	require.NoError(t, repo.InsertSettings(context.Background(), models.StoreSettings{
		ID:        "settings-1",
		StoreName: "Palomitas",
		Currency:  "MXN",
	}))
	svc := startService(t, repo)

	price := 45.0
	require.NoError(t, svc.Update(context.Background(), admin, models.StoreSettingsPatch{PriceLarge: &price}))
	assert.Contains(t, repo.Calls(), "UpdateSettings")

	require.Eventually(t, func() bool {
		got, ok := svc.Get()
		return ok && got.PriceLarge == 45.0
	}, time.Second, 5*time.Millisecond)

	got, _ := svc.Get()
	assert.Equal(t, "Palomitas", got.StoreName)
	assert.Equal(t, "MXN", got.Currency)
}

func TestUpdateRequiresAdmin(t *testing.T) {
	repo := memory.NewRepository()
	svc := startService(t, repo)

	name := "otra tienda"
	err := svc.Update(context.Background(), employee, models.StoreSettingsPatch{StoreName: &name})

	assert.True(t, errs.IsNotAuthorized(err))
	assert.NotContains(t, repo.Calls(), "InsertSettings")
}
