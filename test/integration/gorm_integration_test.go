package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"promptpix-be/internal/entity"
	"promptpix-be/internal/repository/contract"
	"promptpix-be/internal/repository/unitofwork"
	"promptpix-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.TransactionRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Transaction Repository", func(t *testing.T) {
		count, err := uow.TransactionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Transaction count: %d", count)
	})

	t.Run("Conditional Completion And Ledger Credit", func(t *testing.T) {
		ctx := context.Background()

		user := &entity.User{
			Id:       uuid.New(),
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
			Role:     entity.UserRoleUser,
			Status:   entity.UserStatusActive,
			Credits:  0,
		}
		require.NoError(t, uow.UserRepository().Create(ctx, user))

		pkg, ok := entity.CreditPackageById("package-2")
		require.True(t, ok)

		invoice := "INV-ITEST-" + uuid.New().String()
		tx := &entity.PaymentTransaction{
			Id:            uuid.New(),
			UserId:        user.Id,
			PackageId:     pkg.Id,
			OrderId:       "PPX-" + uuid.New().String(),
			InvoiceNumber: invoice,
			Amount:        pkg.Price,
			Credits:       pkg.Credits,
			BonusCredits:  pkg.BonusCredits,
			Status:        entity.TransactionStatusPending,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		require.NoError(t, uow.TransactionRepository().Create(ctx, tx))

		// First completion wins.
		transitioned, err := uow.TransactionRepository().CompletePending(ctx, invoice, contract.TransactionCompletion{})
		require.NoError(t, err)
		assert.True(t, transitioned)

		balance, err := uow.UserRepository().IncrementCredits(ctx, user.Id, tx.TotalCredits())
		require.NoError(t, err)
		assert.Equal(t, 40, balance)

		// Replay loses: the row has already completed.
		transitioned, err = uow.TransactionRepository().CompletePending(ctx, invoice, contract.TransactionCompletion{})
		require.NoError(t, err)
		assert.False(t, transitioned)

		// Terminal downgrade after completion is refused too.
		transitioned, err = uow.TransactionRepository().MarkTerminal(ctx, invoice, entity.TransactionStatusCancelled, nil)
		require.NoError(t, err)
		assert.False(t, transitioned)

		fresh, err := uow.TransactionRepository().FindByInvoiceNumber(ctx, invoice)
		require.NoError(t, err)
		require.NotNil(t, fresh)
		assert.Equal(t, entity.TransactionStatusCompleted, fresh.Status)

		// Cleanup
		gormDB.Exec("DELETE FROM payment_transactions WHERE invoice_number = ?", invoice)
		gormDB.Exec("DELETE FROM users WHERE id = ?", user.Id)
	})
}
