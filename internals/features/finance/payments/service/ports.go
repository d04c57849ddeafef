package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	programModel "feeportal_backend/internals/features/academics/programs/model"
	"feeportal_backend/internals/features/finance/payments/model"
	userModel "feeportal_backend/internals/features/users/user/model"
)

// ErrLockBusy is returned by a Locker when the key stays held past the wait budget.
var ErrLockBusy = errors.New("lock busy")

// Account is a user together with the program they are enrolled in (nil when unassigned).
type Account struct {
	User    userModel.UserModel
	Program *programModel.ProgramModel
}

type AccountStore interface {
	// LoadAccount returns gorm.ErrRecordNotFound when the user does not exist.
	LoadAccount(ctx context.Context, userID uuid.UUID) (*Account, error)
	ListStudentAccounts(ctx context.Context) ([]Account, error)
}

type TransactionFilter struct {
	UserID *uuid.UUID
	Status *model.PaymentStatus
	Year   string
	Offset int
	Limit  int
}

type TransactionStore interface {
	SumCompleted(ctx context.Context, userID uuid.UUID, year string) (int64, error)
	ListCompleted(ctx context.Context, userID uuid.UUID) ([]model.PaymentTransaction, error)
	ProductIDExists(ctx context.Context, productID string) (bool, error)
	Create(ctx context.Context, tx *model.PaymentTransaction) error
	// Find* return gorm.ErrRecordNotFound when nothing matches.
	FindByProductAndUser(ctx context.Context, productID string, userID uuid.UUID) (*model.PaymentTransaction, error)
	FindByProductID(ctx context.Context, productID string) (*model.PaymentTransaction, error)
	// SaveStatus writes tx's status fields only while the stored status still equals from.
	// It reports false when another writer got there first.
	SaveStatus(ctx context.Context, tx *model.PaymentTransaction, from model.PaymentStatus) (bool, error)
	List(ctx context.Context, f TransactionFilter) ([]model.PaymentTransaction, int64, error)
}

type Customer struct {
	Name  string
	Email string
}

type InitiateRequest struct {
	ProductID string
	Amount    int64
	Year      string
	Customer  Customer
}

type InitiateResult struct {
	RedirectURL string
	Token       string
}

// StatusResult is the gateway's view of a transaction. Status is the raw gateway vocabulary.
type StatusResult struct {
	Status    string
	Reference string
	Payload   []byte
}

type Gateway interface {
	Provider() string
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	CheckStatus(ctx context.Context, amount int64, productID string) (*StatusResult, error)
}

type Locker interface {
	// Acquire blocks until key is held or the wait budget is spent (ErrLockBusy).
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Clock lets tests pin time.
type Clock func() time.Time
