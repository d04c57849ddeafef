package service

import "feeportal_backend/internals/features/finance/payments/model"

type Balance struct {
	Year      string `json:"year"`
	TotalFee  int64  `json:"total_fee"`
	Paid      int64  `json:"paid_amount"`
	Remaining int64  `json:"remaining_amount"`
}

// SumCompleted adds the amounts of COMPLETE transactions tagged with year.
func SumCompleted(txs []model.PaymentTransaction, year string) int64 {
	var paid int64
	for i := range txs {
		if txs[i].PaymentYear == year && txs[i].PaymentStatus == model.PaymentStatusComplete {
			paid += txs[i].PaymentAmount
		}
	}
	return paid
}

// CalculateBalance derives paid and remaining for one year. Remaining is not floored at zero.
func CalculateBalance(fee int64, txs []model.PaymentTransaction, year string) Balance {
	paid := SumCompleted(txs, year)
	return Balance{
		Year:      year,
		TotalFee:  fee,
		Paid:      paid,
		Remaining: fee - paid,
	}
}
