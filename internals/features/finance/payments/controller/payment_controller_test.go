package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"feeportal_backend/internals/features/finance/payments/model"
	"feeportal_backend/internals/features/finance/payments/service"
	helper "feeportal_backend/internals/helpers"
)

/* =========================================================
   Mocks
========================================================= */

type MockPaymentUsecase struct {
	mock.Mock
}

func (m *MockPaymentUsecase) InitiatePayment(ctx context.Context, userID uuid.UUID, amount int64, productID, year string) (*service.InitiateResponse, error) {
	args := m.Called(ctx, userID, amount, productID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InitiateResponse), args.Error(1)
}

func (m *MockPaymentUsecase) ReconcileStatus(ctx context.Context, userID uuid.UUID, productID string) (*service.ReconcileResponse, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReconcileResponse), args.Error(1)
}

func (m *MockPaymentUsecase) ReconcileByProductID(ctx context.Context, productID string) (*service.ReconcileResponse, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReconcileResponse), args.Error(1)
}

func (m *MockPaymentUsecase) OverrideStatus(ctx context.Context, productID string, status model.PaymentStatus, note string) (*model.PaymentTransaction, error) {
	args := m.Called(ctx, productID, status, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentTransaction), args.Error(1)
}

func (m *MockPaymentUsecase) ListTransactions(ctx context.Context, f service.TransactionFilter) ([]model.PaymentTransaction, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.PaymentTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentUsecase) GetFeeSummary(ctx context.Context, userID uuid.UUID) ([]service.FeeSummaryEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.FeeSummaryEntry), args.Error(1)
}

type stubVerifier bool

func (v stubVerifier) VerifySignature(string, string, string, string) bool { return bool(v) }

/* =========================================================
   Helpers
========================================================= */

func newPaymentApp(svc PaymentUsecase, userID uuid.UUID, verifier SignatureVerifier) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})

	webhook := NewPaymentWebhookController(svc, verifier)
	app.Post("/public/payments/midtrans/notification", webhook.Midtrans)

	admin := NewPaymentAdminController(svc)
	app.Get("/a/payments", admin.List)
	app.Patch("/a/payments/:product_id/status", admin.OverrideStatus)

	user := NewPaymentUserController(svc)
	u := app.Group("/u", func(c *fiber.Ctx) error {
		if userID != uuid.Nil {
			c.Locals(helper.LocUserID, userID.String())
		}
		return c.Next()
	})
	u.Get("/fees/summary", user.Summary)
	u.Post("/payments", user.Initiate)
	u.Get("/payments", user.ListMine)
	u.Get("/payments/:product_id/status", user.Status)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

/* =========================================================
   User endpoints
========================================================= */

func TestPaymentUserController_Initiate(t *testing.T) {
	userID := uuid.New()
	remaining := int64(70000)

	tests := []struct {
		name       string
		body       string
		mockSetup  func(m *MockPaymentUsecase)
		wantStatus int
		assertFunc func(t *testing.T, body map[string]any)
	}{
		{
			name: "created",
			body: `{"amount":70000,"product_id":"INV-1","year":" 1st Year "}`,
			mockSetup: func(m *MockPaymentUsecase) {
				m.On("InitiatePayment", mock.Anything, userID, int64(70000), "INV-1", "1st Year").
					Return(&service.InitiateResponse{RedirectURL: "https://pay.example/x", ProductID: "INV-1"}, nil)
			},
			wantStatus: fiber.StatusCreated,
			assertFunc: func(t *testing.T, body map[string]any) {
				data := body["data"].(map[string]any)
				assert.Equal(t, "https://pay.example/x", data["redirect_url"])
			},
		},
		{
			name: "padded product id is passed through untrimmed",
			body: `{"amount":70000,"product_id":" INV-1 ","year":"1st Year"}`,
			mockSetup: func(m *MockPaymentUsecase) {
				m.On("InitiatePayment", mock.Anything, userID, int64(70000), " INV-1 ", "1st Year").
					Return(nil, &service.Error{Kind: service.KindValidation, Message: "product_id may only contain letters, digits, hyphen and underscore"})
			},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name: "overpayment reports max payable",
			body: `{"amount":80000,"product_id":"INV-1","year":"1st Year"}`,
			mockSetup: func(m *MockPaymentUsecase) {
				m.On("InitiatePayment", mock.Anything, userID, int64(80000), "INV-1", "1st Year").
					Return(nil, &service.Error{Kind: service.KindOverpayment, Message: "maximum payable is 70000", Remaining: &remaining})
			},
			wantStatus: fiber.StatusConflict,
			assertFunc: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "OVERPAYMENT", body["error_code"])
				details := body["details"].(map[string]any)
				assert.Equal(t, float64(70000), details["max_payable"])
			},
		},
		{
			name: "configuration error",
			body: `{"amount":1,"product_id":"INV-1","year":"1st Year"}`,
			mockSetup: func(m *MockPaymentUsecase) {
				m.On("InitiatePayment", mock.Anything, userID, int64(1), "INV-1", "1st Year").
					Return(nil, &service.Error{Kind: service.KindConfiguration, Message: "no program assigned"})
			},
			wantStatus: fiber.StatusUnprocessableEntity,
			assertFunc: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "CONFIGURATION_ERROR", body["error_code"])
				assert.Nil(t, body["details"])
			},
		},
		{
			name: "gateway error",
			body: `{"amount":1,"product_id":"INV-1","year":"1st Year"}`,
			mockSetup: func(m *MockPaymentUsecase) {
				m.On("InitiatePayment", mock.Anything, userID, int64(1), "INV-1", "1st Year").
					Return(nil, &service.Error{Kind: service.KindGateway, Message: "payment gateway initiate failed", Err: errors.New("boom")})
			},
			wantStatus: fiber.StatusBadGateway,
		},
		{
			name: "unexpected error",
			body: `{"amount":1,"product_id":"INV-1","year":"1st Year"}`,
			mockSetup: func(m *MockPaymentUsecase) {
				m.On("InitiatePayment", mock.Anything, userID, int64(1), "INV-1", "1st Year").
					Return(nil, errors.New("db down"))
			},
			wantStatus: fiber.StatusInternalServerError,
		},
		{
			name:       "malformed body",
			body:       `{"amount":"lots"`,
			mockSetup:  func(m *MockPaymentUsecase) {},
			wantStatus: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockPaymentUsecase)
			tt.mockSetup(m)
			app := newPaymentApp(m, userID, stubVerifier(true))

			status, body := doJSON(t, app, "POST", "/u/payments", tt.body)
			assert.Equal(t, tt.wantStatus, status)
			if tt.assertFunc != nil {
				tt.assertFunc(t, body)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestPaymentUserController_RequiresLogin(t *testing.T) {
	m := new(MockPaymentUsecase)
	app := newPaymentApp(m, uuid.Nil, stubVerifier(true))

	status, body := doJSON(t, app, "GET", "/u/fees/summary", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])
	m.AssertNotCalled(t, "GetFeeSummary", mock.Anything, mock.Anything)
}

func TestPaymentUserController_Summary(t *testing.T) {
	userID := uuid.New()
	m := new(MockPaymentUsecase)
	m.On("GetFeeSummary", mock.Anything, userID).Return([]service.FeeSummaryEntry{
		{Year: "1st Year", TotalFee: 120000, PaidAmount: 0, RemainingAmount: 120000},
	}, nil)
	app := newPaymentApp(m, userID, stubVerifier(true))

	status, body := doJSON(t, app, "GET", "/u/fees/summary", "")
	assert.Equal(t, fiber.StatusOK, status)
	rows := body["data"].([]any)
	require.Len(t, rows, 1)
	first := rows[0].(map[string]any)
	assert.Equal(t, "1st Year", first["year"])
	assert.Equal(t, float64(120000), first["remaining_amount"])
}

func TestPaymentUserController_Status(t *testing.T) {
	userID := uuid.New()

	t.Run("not found", func(t *testing.T) {
		m := new(MockPaymentUsecase)
		m.On("ReconcileStatus", mock.Anything, userID, "INV-9").
			Return(nil, &service.Error{Kind: service.KindNotFound, Message: "transaction INV-9 not found"})
		app := newPaymentApp(m, userID, stubVerifier(true))

		status, body := doJSON(t, app, "GET", "/u/payments/INV-9/status", "")
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "NOT_FOUND", body["error_code"])
	})

	t.Run("complete", func(t *testing.T) {
		m := new(MockPaymentUsecase)
		m.On("ReconcileStatus", mock.Anything, userID, "INV-1").
			Return(&service.ReconcileResponse{ProductID: "INV-1", Status: model.PaymentStatusComplete, GatewayStatus: "settlement"}, nil)
		app := newPaymentApp(m, userID, stubVerifier(true))

		status, body := doJSON(t, app, "GET", "/u/payments/INV-1/status", "")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "COMPLETE", body["data"].(map[string]any)["status"])
	})
}

func TestPaymentUserController_ListMine(t *testing.T) {
	userID := uuid.New()
	m := new(MockPaymentUsecase)
	m.On("ListTransactions", mock.Anything, mock.MatchedBy(func(f service.TransactionFilter) bool {
		return f.UserID != nil && *f.UserID == userID && f.Status != nil && *f.Status == model.PaymentStatusPending && f.Limit == 5
	})).Return([]model.PaymentTransaction{{PaymentProductID: "INV-1", PaymentStatus: model.PaymentStatusPending}}, int64(1), nil)
	app := newPaymentApp(m, userID, stubVerifier(true))

	status, body := doJSON(t, app, "GET", "/u/payments?status=pending&per_page=5", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)
	assert.Equal(t, float64(1), body["pagination"].(map[string]any)["total"])

	status, _ = doJSON(t, app, "GET", "/u/payments?status=bogus", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

/* =========================================================
   Admin endpoints
========================================================= */

func TestPaymentAdminController_OverrideStatus(t *testing.T) {
	t.Run("invalid target", func(t *testing.T) {
		m := new(MockPaymentUsecase)
		app := newPaymentApp(m, uuid.Nil, stubVerifier(true))

		status, body := doJSON(t, app, "PATCH", "/a/payments/INV-1/status", `{"status":"PENDING"}`)
		assert.Equal(t, fiber.StatusUnprocessableEntity, status)
		assert.Contains(t, body["errors"], "status")
		m.AssertNotCalled(t, "OverrideStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("settles", func(t *testing.T) {
		m := new(MockPaymentUsecase)
		m.On("OverrideStatus", mock.Anything, "INV-1", model.PaymentStatusComplete, "bank transfer").
			Return(&model.PaymentTransaction{PaymentProductID: "INV-1", PaymentStatus: model.PaymentStatusComplete}, nil)
		app := newPaymentApp(m, uuid.Nil, stubVerifier(true))

		status, body := doJSON(t, app, "PATCH", "/a/payments/INV-1/status", `{"status":"complete","note":"bank transfer"}`)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "COMPLETE", body["data"].(map[string]any)["payment_status"])
		m.AssertExpectations(t)
	})

	t.Run("already settled", func(t *testing.T) {
		m := new(MockPaymentUsecase)
		m.On("OverrideStatus", mock.Anything, "INV-1", model.PaymentStatusRefunded, "").
			Return(nil, &service.Error{Kind: service.KindConflict, Message: "transaction is already COMPLETE"})
		app := newPaymentApp(m, uuid.Nil, stubVerifier(true))

		status, _ := doJSON(t, app, "PATCH", "/a/payments/INV-1/status", `{"status":"REFUNDED"}`)
		assert.Equal(t, fiber.StatusConflict, status)
	})
}

/* =========================================================
   Webhook
========================================================= */

func TestPaymentWebhookController_Midtrans(t *testing.T) {
	payload := `{"order_id":"INV-1","status_code":"200","gross_amount":"70000.00","signature_key":"abc","transaction_status":"settlement"}`

	tests := []struct {
		name       string
		verifier   stubVerifier
		mockSetup  func(m *MockPaymentUsecase)
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "bad signature",
			verifier:   false,
			mockSetup:  func(m *MockPaymentUsecase) {},
			wantStatus: fiber.StatusUnauthorized,
			wantMsg:    "invalid signature",
		},
		{
			name:     "processed",
			verifier: true,
			mockSetup: func(m *MockPaymentUsecase) {
				m.On("ReconcileByProductID", mock.Anything, "INV-1").
					Return(&service.ReconcileResponse{ProductID: "INV-1", Status: model.PaymentStatusComplete}, nil)
			},
			wantStatus: fiber.StatusOK,
			wantMsg:    "processed",
		},
		{
			name:     "unknown order acknowledged",
			verifier: true,
			mockSetup: func(m *MockPaymentUsecase) {
				m.On("ReconcileByProductID", mock.Anything, "INV-1").
					Return(nil, &service.Error{Kind: service.KindNotFound, Message: "transaction INV-1 not found"})
			},
			wantStatus: fiber.StatusOK,
			wantMsg:    "ignored",
		},
		{
			name:     "gateway failure asks for retry",
			verifier: true,
			mockSetup: func(m *MockPaymentUsecase) {
				m.On("ReconcileByProductID", mock.Anything, "INV-1").
					Return(nil, &service.Error{Kind: service.KindGateway, Message: "payment gateway status check failed"})
			},
			wantStatus: fiber.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockPaymentUsecase)
			tt.mockSetup(m)
			app := newPaymentApp(m, uuid.Nil, tt.verifier)

			status, body := doJSON(t, app, "POST", "/public/payments/midtrans/notification", payload)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
			}
			m.AssertExpectations(t)
		})
	}
}
