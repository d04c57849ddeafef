package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"feeportal_backend/internals/features/finance/payments/model"
	"feeportal_backend/internals/features/finance/payments/service"
	"feeportal_backend/internals/testutil"
)

func TestTransactionRepository_SumCompleted(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewTransactionRepository(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(payment_amount\), 0\) FROM "payment_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(50000))

	total, err := repo.SumCompleted(context.Background(), userID, "1st Year")
	require.NoError(t, err)
	assert.Equal(t, int64(50000), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_ProductIDExists(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		want  bool
	}{
		{name: "unused", count: 0, want: false},
		{name: "used", count: 1, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := testutil.NewMockDB(t)
			repo := NewTransactionRepository(db)

			mock.ExpectQuery(`SELECT count\(\*\) FROM "payment_transactions" WHERE payment_product_id = `).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))

			got, err := repo.ProductIDExists(context.Background(), "INV-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTransactionRepository_Create(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewTransactionRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`INSERT INTO "payment_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"payment_id"}).AddRow(id))

	tx := &model.PaymentTransaction{
		PaymentProductID:       "INV-1",
		PaymentUserID:          uuid.New(),
		PaymentYear:            "1st Year",
		PaymentAmount:          70000,
		PaymentStatus:          model.PaymentStatusPending,
		PaymentGatewayProvider: model.GatewayProviderMidtrans,
	}
	require.NoError(t, repo.Create(context.Background(), tx))
	assert.Equal(t, id, tx.PaymentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_FindByProductAndUser_NotFound(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewTransactionRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "payment_transactions" WHERE \(payment_product_id = .+ AND payment_user_id = .+\)`).
		WillReturnRows(sqlmock.NewRows([]string{"payment_id"}))

	tx, err := repo.FindByProductAndUser(context.Background(), "INV-1", uuid.New())
	assert.Nil(t, tx)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_FindByProductID(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewTransactionRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "payment_transactions" WHERE payment_product_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"payment_id", "payment_product_id", "payment_amount", "payment_status"}).
			AddRow(id, "INV-1", 70000, "PENDING"))

	tx, err := repo.FindByProductID(context.Background(), "INV-1")
	require.NoError(t, err)
	assert.Equal(t, id, tx.PaymentID)
	assert.Equal(t, int64(70000), tx.PaymentAmount)
	assert.Equal(t, model.PaymentStatusPending, tx.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_SaveStatus(t *testing.T) {
	tests := []struct {
		name      string
		affected  int64
		wantSaved bool
	}{
		{name: "stored status still matches", affected: 1, wantSaved: true},
		{name: "another writer moved the row", affected: 0, wantSaved: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := testutil.NewMockDB(t)
			repo := NewTransactionRepository(db)
			id := uuid.New()

			mock.ExpectExec(`UPDATE "payment_transactions" SET .*"payment_status"=.* WHERE \(?payment_id = .+ AND payment_status = `).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			raw := "settlement"
			saved, err := repo.SaveStatus(context.Background(), &model.PaymentTransaction{
				PaymentID:            id,
				PaymentStatus:        model.PaymentStatusComplete,
				PaymentGatewayStatus: &raw,
			}, model.PaymentStatusPending)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSaved, saved)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTransactionRepository_List(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewTransactionRepository(db)
	userID := uuid.New()
	status := model.PaymentStatusComplete

	mock.ExpectQuery(`SELECT count\(\*\) FROM "payment_transactions" WHERE payment_user_id = .+ AND payment_status = .+ AND payment_year = `).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT \* FROM "payment_transactions" WHERE .+ ORDER BY payment_created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"payment_id", "payment_product_id"}).
			AddRow(uuid.New(), "INV-1").
			AddRow(uuid.New(), "INV-2"))

	rows, total, err := repo.List(context.Background(), service.TransactionFilter{
		UserID: &userID,
		Status: &status,
		Year:   "1st Year",
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "INV-2", rows[1].PaymentProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
