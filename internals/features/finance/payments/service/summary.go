package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	programModel "feeportal_backend/internals/features/academics/programs/model"
	"feeportal_backend/internals/features/finance/payments/model"
	userModel "feeportal_backend/internals/features/users/user/model"
)

type FeeSummaryEntry struct {
	Year            string    `json:"year"`
	TotalFee        int64     `json:"total_fee"`
	PaidAmount      int64     `json:"paid_amount"`
	RemainingAmount int64     `json:"remaining_amount"`
	DueDate         time.Time `json:"due_date"`
}

// ResolveDueDate returns the user's explicit due date for year, otherwise the
// enrollment date advanced by (index - 1) years. index is 1-based.
func ResolveDueDate(user *userModel.UserModel, index int, year string) time.Time {
	if d, ok := user.DueDateFor(year); ok {
		return d
	}
	return user.EnrollmentDate().AddDate(index-1, 0, 0)
}

// GetFeeSummary reports one entry per program year, recomputed from stored transactions.
// A year missing from the fee table is reported with a zero fee.
func (s *PaymentService) GetFeeSummary(ctx context.Context, userID uuid.UUID) ([]FeeSummaryEntry, error) {
	acc, err := s.loadAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acc.Program == nil {
		return nil, configurationError("no program assigned")
	}
	txs, err := s.transactions.ListCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildFeeSummary(&acc.User, acc.Program, txs), nil
}

// BuildFeeSummary is the pure part of GetFeeSummary, shared with the reminder scheduler.
func BuildFeeSummary(user *userModel.UserModel, program *programModel.ProgramModel, txs []model.PaymentTransaction) []FeeSummaryEntry {
	labels := program.YearLabels()
	out := make([]FeeSummaryEntry, 0, len(labels))
	for i, year := range labels {
		fee, _ := program.FeeFor(year)
		b := CalculateBalance(fee, txs, year)
		out = append(out, FeeSummaryEntry{
			Year:            year,
			TotalFee:        b.TotalFee,
			PaidAmount:      b.Paid,
			RemainingAmount: b.Remaining,
			DueDate:         ResolveDueDate(user, i+1, year),
		})
	}
	return out
}

type StudentSummary struct {
	User    userModel.UserModel
	Entries []FeeSummaryEntry
}

// StudentSummaries builds the fee summary of every active student with an assigned program.
func (s *PaymentService) StudentSummaries(ctx context.Context) ([]StudentSummary, error) {
	accounts, err := s.accounts.ListStudentAccounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StudentSummary, 0, len(accounts))
	for i := range accounts {
		acc := &accounts[i]
		if acc.Program == nil {
			continue
		}
		txs, err := s.transactions.ListCompleted(ctx, acc.User.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, StudentSummary{
			User:    acc.User,
			Entries: BuildFeeSummary(&acc.User, acc.Program, txs),
		})
	}
	return out, nil
}
