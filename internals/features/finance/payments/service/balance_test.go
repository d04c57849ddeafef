package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"feeportal_backend/internals/features/finance/payments/model"
)

func tx(year string, amount int64, status model.PaymentStatus) model.PaymentTransaction {
	return model.PaymentTransaction{PaymentYear: year, PaymentAmount: amount, PaymentStatus: status}
}

func TestCalculateBalance(t *testing.T) {
	tests := []struct {
		name          string
		fee           int64
		txs           []model.PaymentTransaction
		wantPaid      int64
		wantRemaining int64
	}{
		{name: "no transactions", fee: 120000, wantPaid: 0, wantRemaining: 120000},
		{
			name: "only completed for the year count",
			fee:  120000,
			txs: []model.PaymentTransaction{
				tx("1st Year", 50000, model.PaymentStatusComplete),
				tx("1st Year", 30000, model.PaymentStatusPending),
				tx("1st Year", 20000, model.PaymentStatusFailed),
				tx("1st Year", 10000, model.PaymentStatusRefunded),
				tx("1st Year", 10000, model.PaymentStatusNeedsReview),
				tx("2nd Year", 40000, model.PaymentStatusComplete),
			},
			wantPaid:      50000,
			wantRemaining: 70000,
		},
		{
			name: "remaining is not floored",
			fee:  100,
			txs: []model.PaymentTransaction{
				tx("1st Year", 80, model.PaymentStatusComplete),
				tx("1st Year", 50, model.PaymentStatusComplete),
			},
			wantPaid:      130,
			wantRemaining: -30,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := CalculateBalance(tt.fee, tt.txs, "1st Year")
			assert.Equal(t, tt.fee, b.TotalFee)
			assert.Equal(t, tt.wantPaid, b.Paid)
			assert.Equal(t, tt.wantRemaining, b.Remaining)
		})
	}
}

func TestCalculateBalance_OrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		var txs []model.PaymentTransaction
		var want int64
		n := r.Intn(10)
		for i := 0; i < n; i++ {
			amount := int64(r.Intn(50000) + 1)
			txs = append(txs, tx("1st Year", amount, model.PaymentStatusComplete))
			want += amount
		}
		fee := int64(r.Intn(500000))
		base := CalculateBalance(fee, txs, "1st Year")
		assert.Equal(t, fee-want, base.Remaining)

		r.Shuffle(len(txs), func(i, j int) { txs[i], txs[j] = txs[j], txs[i] })
		assert.Equal(t, base, CalculateBalance(fee, txs, "1st Year"))
	}
}
