package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"feeportal_backend/internals/features/finance/payments/model"
	"feeportal_backend/internals/queue"
)

var productIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const (
	maxProductIDLength     = 100
	maxStatusWriteAttempts = 3
)

// CheckoutExpiry is how long a gateway checkout stays payable; the gateway adapter sends it with every session.
const CheckoutExpiry = 24 * time.Hour

type PaymentService struct {
	accounts     AccountStore
	transactions TransactionStore
	gateway      Gateway
	locker       Locker
	publisher    queue.Publisher
	now          Clock
}

func NewPaymentService(accounts AccountStore, transactions TransactionStore, gateway Gateway, locker Locker, publisher queue.Publisher) *PaymentService {
	if locker == nil {
		locker = NewLocalLocker(0)
	}
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return &PaymentService{
		accounts:     accounts,
		transactions: transactions,
		gateway:      gateway,
		locker:       locker,
		publisher:    publisher,
		now:          time.Now,
	}
}

// WithClock replaces the time source.
func (s *PaymentService) WithClock(now Clock) *PaymentService {
	s.now = now
	return s
}

// StatusChangedEvent is published on queue.TopicPaymentStatusChanged.
type StatusChangedEvent struct {
	ProductID string              `json:"product_id"`
	UserID    uuid.UUID           `json:"user_id"`
	Year      string              `json:"year"`
	Amount    int64               `json:"amount"`
	From      model.PaymentStatus `json:"from"`
	To        model.PaymentStatus `json:"to"`
	Source    string              `json:"source"`
	At        time.Time           `json:"at"`
}

type InitiateResponse struct {
	RedirectURL string `json:"redirect_url"`
	ProductID   string `json:"product_id"`
}

func (s *PaymentService) loadAccount(ctx context.Context, userID uuid.UUID) (*Account, error) {
	acc, err := s.accounts.LoadAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("user not found")
		}
		return nil, err
	}
	return acc, nil
}

/* =========================================================
   Initiate
========================================================= */

// InitiatePayment validates the request against the user's remaining balance for year,
// opens a gateway session and records a PENDING transaction.
// Checks for the same (user, year) are serialized by the locker.
func (s *PaymentService) InitiatePayment(ctx context.Context, userID uuid.UUID, amount int64, productID, year string) (*InitiateResponse, error) {
	acc, err := s.loadAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acc.Program == nil {
		return nil, configurationError("no program assigned")
	}
	fee, ok := acc.Program.FeeFor(year)
	if !ok {
		return nil, configurationError("no fee defined for year " + year)
	}
	if amount <= 0 {
		return nil, validationError("amount must be a positive number")
	}
	if len(productID) > maxProductIDLength || !productIDPattern.MatchString(productID) {
		return nil, validationError("product_id may only contain letters, digits, hyphen and underscore")
	}

	release, err := s.locker.Acquire(ctx, paymentLockKey(userID, year))
	if err != nil {
		if errors.Is(err, ErrLockBusy) {
			return nil, conflictError("another payment for this year is in progress, retry shortly", err)
		}
		return nil, err
	}
	defer release()

	paid, err := s.transactions.SumCompleted(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	if paid >= fee {
		return nil, alreadyPaidError(year, fee, paid)
	}
	remaining := fee - paid
	if amount > remaining {
		return nil, overpaymentError(year, amount, remaining)
	}

	exists, err := s.transactions.ProductIDExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, validationError("product_id %s has already been used", productID)
	}

	session, err := s.gateway.Initiate(ctx, InitiateRequest{
		ProductID: productID,
		Amount:    amount,
		Year:      year,
		Customer: Customer{
			Name:  acc.User.DisplayName(),
			Email: acc.User.Email,
		},
	})
	if err != nil {
		return nil, gatewayError("initiate", err)
	}

	redirect := session.RedirectURL
	tx := &model.PaymentTransaction{
		PaymentProductID:       productID,
		PaymentUserID:          userID,
		PaymentYear:            year,
		PaymentAmount:          amount,
		PaymentStatus:          model.PaymentStatusPending,
		PaymentGatewayProvider: s.gateway.Provider(),
		PaymentRedirectURL:     &redirect,
	}
	if session.Token != "" {
		token := session.Token
		tx.PaymentGatewayReference = &token
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		log.WithFields(log.Fields{
			"product_id": productID,
			"user_id":    userID,
		}).WithError(err).Error("[PAYMENT] gateway session opened but transaction not stored")
		return nil, err
	}

	log.WithFields(log.Fields{
		"product_id": productID,
		"user_id":    userID,
		"year":       year,
		"amount":     amount,
	}).Info("[PAYMENT] initiated")

	return &InitiateResponse{RedirectURL: redirect, ProductID: productID}, nil
}

/* =========================================================
   Reconcile
========================================================= */

type ReconcileResponse struct {
	ProductID     string              `json:"product_id"`
	Status        model.PaymentStatus `json:"status"`
	GatewayStatus string              `json:"gateway_status"`
}

// ReconcileStatus asks the gateway for the authoritative status of the user's transaction
// and stores the mapped result. A transaction owned by someone else is reported as not found.
func (s *PaymentService) ReconcileStatus(ctx context.Context, userID uuid.UUID, productID string) (*ReconcileResponse, error) {
	tx, err := s.transactions.FindByProductAndUser(ctx, productID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("transaction %s not found", productID)
		}
		return nil, err
	}
	return s.reconcile(ctx, tx, "user")
}

// ReconcileByProductID is the webhook path: the caller has already authenticated the gateway.
func (s *PaymentService) ReconcileByProductID(ctx context.Context, productID string) (*ReconcileResponse, error) {
	tx, err := s.transactions.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("transaction %s not found", productID)
		}
		return nil, err
	}
	return s.reconcile(ctx, tx, "webhook")
}

func (s *PaymentService) reconcile(ctx context.Context, tx *model.PaymentTransaction, source string) (*ReconcileResponse, error) {
	result, err := s.gateway.CheckStatus(ctx, tx.PaymentAmount, tx.PaymentProductID)
	if err != nil {
		return nil, gatewayError("status check", err)
	}
	raw := result.Status

	for attempt := 0; attempt < maxStatusWriteAttempts; attempt++ {
		current := tx.PaymentStatus
		mapped := s.mapStatus(tx, raw)
		entry := log.WithFields(log.Fields{
			"product_id":     tx.PaymentProductID,
			"current":        current,
			"gateway_status": raw,
			"mapped":         mapped,
			"source":         source,
		})

		if current.IsTerminal() && mapped != current {
			entry.Warn("[PAYMENT] gateway reports a different status for a settled transaction, keeping stored status")
			return &ReconcileResponse{ProductID: tx.PaymentProductID, Status: current, GatewayStatus: raw}, nil
		}

		now := s.now()
		next := *tx
		next.PaymentStatus = mapped
		next.PaymentGatewayStatus = &raw
		next.PaymentReconciledAt = &now
		if result.Reference != "" {
			ref := result.Reference
			next.PaymentGatewayReference = &ref
		}
		if len(result.Payload) > 0 {
			next.PaymentGatewayPayload = datatypes.JSON(result.Payload)
		}

		saved, err := s.transactions.SaveStatus(ctx, &next, current)
		if err != nil {
			return nil, err
		}
		if saved {
			if mapped != current {
				entry.Info("[PAYMENT] status changed")
				s.publishStatusChanged(&next, current, source)
			}
			return &ReconcileResponse{ProductID: next.PaymentProductID, Status: mapped, GatewayStatus: raw}, nil
		}

		// another writer moved the row since it was read; decide again on the stored state
		entry.Info("[PAYMENT] status changed concurrently, re-reading")
		if tx, err = s.transactions.FindByProductID(ctx, tx.PaymentProductID); err != nil {
			return nil, err
		}
	}
	return nil, conflictError("transaction status keeps changing, retry shortly", nil)
}

// mapStatus treats an unknown order as still pending while its checkout window is open:
// Midtrans only creates the order once the customer picks a payment method.
func (s *PaymentService) mapStatus(tx *model.PaymentTransaction, raw string) model.PaymentStatus {
	if raw == GatewayStatusNotFound &&
		tx.PaymentStatus == model.PaymentStatusPending &&
		s.now().Sub(tx.CreatedAt) < CheckoutExpiry {
		return model.PaymentStatusPending
	}
	return MapGatewayStatus(raw)
}

/* =========================================================
   Admin override
========================================================= */

// OverrideStatus settles a PENDING or NEEDS_REVIEW transaction by hand.
func (s *PaymentService) OverrideStatus(ctx context.Context, productID string, status model.PaymentStatus, note string) (*model.PaymentTransaction, error) {
	if !status.IsTerminal() {
		return nil, validationError("status must be one of COMPLETE, FAILED, REFUNDED")
	}
	tx, err := s.transactions.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("transaction %s not found", productID)
		}
		return nil, err
	}
	if tx.PaymentStatus.IsTerminal() {
		return nil, conflictError("transaction is already "+string(tx.PaymentStatus), nil)
	}

	previous := tx.PaymentStatus
	now := s.now()
	next := *tx
	next.PaymentStatus = status
	next.PaymentReconciledAt = &now
	if n := strings.TrimSpace(note); n != "" {
		next.PaymentNote = &n
	}
	saved, err := s.transactions.SaveStatus(ctx, &next, previous)
	if err != nil {
		return nil, err
	}
	if !saved {
		stored, err := s.transactions.FindByProductID(ctx, productID)
		if err != nil {
			return nil, err
		}
		return nil, conflictError("transaction changed to "+string(stored.PaymentStatus)+" meanwhile, reload and retry", nil)
	}

	log.WithFields(log.Fields{
		"product_id": productID,
		"from":       previous,
		"to":         status,
	}).Info("[PAYMENT] status overridden by admin")
	s.publishStatusChanged(&next, previous, "admin")
	return &next, nil
}

/* =========================================================
   Listing
========================================================= */

func (s *PaymentService) ListTransactions(ctx context.Context, f TransactionFilter) ([]model.PaymentTransaction, int64, error) {
	return s.transactions.List(ctx, f)
}

func (s *PaymentService) publishStatusChanged(tx *model.PaymentTransaction, from model.PaymentStatus, source string) {
	evt := StatusChangedEvent{
		ProductID: tx.PaymentProductID,
		UserID:    tx.PaymentUserID,
		Year:      tx.PaymentYear,
		Amount:    tx.PaymentAmount,
		From:      from,
		To:        tx.PaymentStatus,
		Source:    source,
		At:        s.now(),
	}
	if err := s.publisher.Publish(queue.TopicPaymentStatusChanged, evt); err != nil {
		log.WithError(err).WithField("product_id", tx.PaymentProductID).Warn("[PAYMENT] publish status change failed")
	}
}
