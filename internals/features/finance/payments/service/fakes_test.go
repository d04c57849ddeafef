package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	programModel "feeportal_backend/internals/features/academics/programs/model"
	"feeportal_backend/internals/features/finance/payments/model"
	userModel "feeportal_backend/internals/features/users/user/model"
)

/* =========================================================
   In-memory stores
========================================================= */

type memStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]Account
	txs      []model.PaymentTransaction
	saves    int
	createFn func(tx *model.PaymentTransaction) error
	// saveHook runs before each status write, outside the store lock
	saveHook func()
}

func newMemStore() *memStore {
	return &memStore{accounts: map[uuid.UUID]Account{}}
}

func (m *memStore) LoadAccount(_ context.Context, userID uuid.UUID) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &acc, nil
}

func (m *memStore) ListStudentAccounts(context.Context) ([]Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (m *memStore) SumCompleted(_ context.Context, userID uuid.UUID, year string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, tx := range m.txs {
		if tx.PaymentUserID == userID && tx.PaymentYear == year && tx.PaymentStatus == model.PaymentStatusComplete {
			sum += tx.PaymentAmount
		}
	}
	return sum, nil
}

func (m *memStore) ListCompleted(_ context.Context, userID uuid.UUID) ([]model.PaymentTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PaymentTransaction
	for _, tx := range m.txs {
		if tx.PaymentUserID == userID && tx.PaymentStatus == model.PaymentStatusComplete {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *memStore) ProductIDExists(_ context.Context, productID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.txs {
		if tx.PaymentProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Create(_ context.Context, tx *model.PaymentTransaction) error {
	if m.createFn != nil {
		if err := m.createFn(tx); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx.PaymentID = uuid.New()
	m.txs = append(m.txs, *tx)
	return nil
}

func (m *memStore) find(match func(tx *model.PaymentTransaction) bool) (*model.PaymentTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.txs {
		if match(&m.txs[i]) {
			cp := m.txs[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) FindByProductAndUser(_ context.Context, productID string, userID uuid.UUID) (*model.PaymentTransaction, error) {
	return m.find(func(tx *model.PaymentTransaction) bool {
		return tx.PaymentProductID == productID && tx.PaymentUserID == userID
	})
}

func (m *memStore) FindByProductID(_ context.Context, productID string) (*model.PaymentTransaction, error) {
	return m.find(func(tx *model.PaymentTransaction) bool { return tx.PaymentProductID == productID })
}

func (m *memStore) SaveStatus(_ context.Context, tx *model.PaymentTransaction, from model.PaymentStatus) (bool, error) {
	if m.saveHook != nil {
		m.saveHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.txs {
		if m.txs[i].PaymentID == tx.PaymentID {
			if m.txs[i].PaymentStatus != from {
				return false, nil
			}
			m.txs[i] = *tx
			m.saves++
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) List(_ context.Context, f TransactionFilter) ([]model.PaymentTransaction, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PaymentTransaction
	for _, tx := range m.txs {
		if f.UserID != nil && tx.PaymentUserID != *f.UserID {
			continue
		}
		if f.Status != nil && tx.PaymentStatus != *f.Status {
			continue
		}
		out = append(out, tx)
	}
	return out, int64(len(out)), nil
}

func (m *memStore) transaction(productID string) model.PaymentTransaction {
	tx, _ := m.FindByProductID(context.Background(), productID)
	return *tx
}

// setStatus writes a status directly, as a concurrent writer would.
func (m *memStore) setStatus(productID string, status model.PaymentStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.txs {
		if m.txs[i].PaymentProductID == productID {
			m.txs[i].PaymentStatus = status
		}
	}
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.txs)
}

/* =========================================================
   Gateway + publisher
========================================================= */

type fakeGateway struct {
	mu          sync.Mutex
	initiateErr error
	statusErr   error
	status      string
	initiated   []InitiateRequest
	checks      int
	delay       time.Duration
	held        *heldCheck
}

// heldCheck parks the first CheckStatus call until release is closed, then answers status.
type heldCheck struct {
	entered chan struct{}
	release chan struct{}
	status  string
}

func newHeldCheck(status string) *heldCheck {
	return &heldCheck{entered: make(chan struct{}), release: make(chan struct{}), status: status}
}

func (g *fakeGateway) Provider() string { return model.GatewayProviderMidtrans }

func (g *fakeGateway) Initiate(_ context.Context, req InitiateRequest) (*InitiateResult, error) {
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.initiateErr != nil {
		return nil, g.initiateErr
	}
	g.initiated = append(g.initiated, req)
	return &InitiateResult{RedirectURL: "https://pay.example/" + req.ProductID, Token: "tok-" + req.ProductID}, nil
}

func (g *fakeGateway) CheckStatus(context.Context, int64, string) (*StatusResult, error) {
	g.mu.Lock()
	g.checks++
	if g.held != nil && g.checks == 1 {
		held := g.held
		g.mu.Unlock()
		close(held.entered)
		<-held.release
		return &StatusResult{Status: held.status, Reference: "ref-1"}, nil
	}
	defer g.mu.Unlock()
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	return &StatusResult{Status: g.status, Reference: "ref-1"}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(topic string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.topics)
}

/* =========================================================
   Fixtures
========================================================= */

var errGatewayDown = errors.New("gateway down")

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func testProgram(duration int, fees ...programModel.FeeEntry) *programModel.ProgramModel {
	return &programModel.ProgramModel{
		ProgramID:            uuid.New(),
		ProgramName:          "Computer Science",
		ProgramCode:          "CS",
		ProgramDurationYears: duration,
		ProgramFees:          programModel.FeeTable(fees),
	}
}

func fee(year string, amount int64) programModel.FeeEntry {
	return programModel.FeeEntry{Year: year, Amount: amount}
}

type harness struct {
	svc       *PaymentService
	store     *memStore
	gateway   *fakeGateway
	publisher *recordingPublisher
	userID    uuid.UUID
}

func newHarness(program *programModel.ProgramModel) *harness {
	store := newMemStore()
	userID := uuid.New()
	enrolled := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	user := userModel.UserModel{
		ID:         userID,
		UserName:   "student1",
		Email:      "student1@example.com",
		Role:       "student",
		IsActive:   true,
		EnrolledAt: &enrolled,
		CreatedAt:  enrolled,
	}
	if program != nil {
		user.ProgramID = &program.ProgramID
	}
	store.accounts[userID] = Account{User: user, Program: program}

	gw := &fakeGateway{status: "COMPLETE"}
	pub := &recordingPublisher{}
	svc := NewPaymentService(store, store, gw, NewLocalLocker(time.Second), pub).
		WithClock(func() time.Time { return fixedNow })
	return &harness{svc: svc, store: store, gateway: gw, publisher: pub, userID: userID}
}

func (h *harness) seed(productID, year string, amount int64, status model.PaymentStatus) {
	h.seedAt(productID, year, amount, status, time.Time{})
}

func (h *harness) seedAt(productID, year string, amount int64, status model.PaymentStatus, createdAt time.Time) {
	h.store.txs = append(h.store.txs, model.PaymentTransaction{
		PaymentID:        uuid.New(),
		PaymentProductID: productID,
		PaymentUserID:    h.userID,
		PaymentYear:      year,
		PaymentAmount:    amount,
		PaymentStatus:    status,
		CreatedAt:        createdAt,
	})
}
