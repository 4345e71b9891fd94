// FILE: internal/service/admin_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"promptpix-be/internal/entity"
	"promptpix-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_GetStats(t *testing.T) {
	uow := newFakeUow()
	svc := NewAdminService(&fakeUowFactory{uow: uow}, nopLogger{})
	ctx := context.Background()

	user := &entity.User{Id: uuid.New(), Email: "stats@example.com", Role: entity.UserRoleUser, Status: entity.UserStatusActive}
	require.NoError(t, uow.users.Create(ctx, user))

	pkg, _ := entity.CreditPackageById("package-2")
	for i, status := range []entity.TransactionStatus{
		entity.TransactionStatusCompleted,
		entity.TransactionStatusCompleted,
		entity.TransactionStatusPending,
	} {
		tx := &entity.PaymentTransaction{
			Id:            uuid.New(),
			UserId:        user.Id,
			PackageId:     pkg.Id,
			OrderId:       uuid.New().String(),
			InvoiceNumber: newInvoiceNumber(time.Now().Add(time.Duration(i) * time.Second)),
			Amount:        pkg.Price,
			Credits:       pkg.Credits,
			BonusCredits:  pkg.BonusCredits,
			Status:        status,
			CreatedAt:     time.Now(),
		}
		require.NoError(t, uow.txs.Create(ctx, tx))
	}

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(3), stats.TotalTransactions)
	assert.Equal(t, int64(2), stats.CompletedTransactions)
	assert.Equal(t, int64(1), stats.PendingTransactions)
	assert.Equal(t, int64(60000), stats.TotalRevenue)
}

func TestAdminService_UpdateUserStatus(t *testing.T) {
	uow := newFakeUow()
	svc := NewAdminService(&fakeUowFactory{uow: uow}, nopLogger{})
	ctx := context.Background()

	user := &entity.User{Id: uuid.New(), Email: "block@example.com", Role: entity.UserRoleUser, Status: entity.UserStatusActive}
	require.NoError(t, uow.users.Create(ctx, user))

	require.NoError(t, svc.UpdateUserStatus(ctx, user.Id, "blocked"))
	stored, err := uow.users.FindOne(ctx, specification.ByID{ID: user.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusBlocked, stored.Status)

	assert.ErrorIs(t, svc.UpdateUserStatus(ctx, user.Id, "banned"), ErrInvalidUserStatus)
	assert.ErrorIs(t, svc.UpdateUserStatus(ctx, uuid.New(), "active"), ErrUserNotFound)
}
