package gateway

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"feeportal_backend/internals/features/finance/payments/model"
	"feeportal_backend/internals/features/finance/payments/service"
)

/* =========================================================
   Midtrans client
========================================================= */

type snapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type coreAPI interface {
	CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

type MidtransGateway struct {
	serverKey string
	finishURL string
	snap      snapAPI
	core      coreAPI
}

// NewMidtransGateway builds Snap and Core API clients for the sandbox or production environment.
func NewMidtransGateway(serverKey string, useProduction bool, finishURL string) *MidtransGateway {
	env := midtrans.Sandbox
	if useProduction {
		env = midtrans.Production
	}
	var s snap.Client
	s.New(serverKey, env)
	s.HttpClient = newHTTPClient(env)
	var c coreapi.Client
	c.New(serverKey, env)
	c.HttpClient = newHTTPClient(env)

	return &MidtransGateway{
		serverKey: serverKey,
		finishURL: finishURL,
		snap:      &s,
		core:      &c,
	}
}

// newHTTPClient replaces midtrans' shared 80s default client with one bounded by
// service.GatewayCallTimeout, which the payment lock lease is sized against.
func newHTTPClient(env midtrans.EnvironmentType) *midtrans.HttpClientImplementation {
	return &midtrans.HttpClientImplementation{
		HttpClient: &http.Client{Timeout: service.GatewayCallTimeout},
		Logger:     midtrans.GetDefaultLogger(env),
	}
}

func (g *MidtransGateway) Provider() string { return model.GatewayProviderMidtrans }

/* =========================================================
   Initiate (Snap)
========================================================= */

func (g *MidtransGateway) Initiate(ctx context.Context, req service.InitiateRequest) (*service.InitiateResult, error) {
	if req.Amount <= 0 {
		return nil, errors.New("invalid amount")
	}
	if req.ProductID == "" {
		return nil, errors.New("product id is required (used as order_id)")
	}

	first, last := splitName(req.Customer.Name)
	sreq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.ProductID,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: first,
			LName: last,
			Email: req.Customer.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       truncate(req.ProductID, 50),
				Price:    req.Amount,
				Qty:      1,
				Name:     truncate("Tuition fee "+req.Year, 50),
				Category: "TUITION",
			},
		},
		Expiry: &snap.ExpiryDetails{
			Unit:     "minute",
			Duration: int64(service.CheckoutExpiry / time.Minute),
		},
	}
	if g.finishURL != "" {
		sreq.Callbacks = &snap.Callbacks{Finish: g.finishURL}
	}

	resp, mErr := g.snap.CreateTransaction(sreq)
	if mErr != nil {
		return nil, mErr
	}
	if resp == nil || resp.RedirectURL == "" {
		return nil, errors.New("midtrans returned no redirect url")
	}
	return &service.InitiateResult{RedirectURL: resp.RedirectURL, Token: resp.Token}, nil
}

/* =========================================================
   Check status (Core API)
========================================================= */

// CheckStatus returns the Midtrans transaction_status. An unknown order maps to
// "not_found" and a gross amount that differs from the stored one to "amount_mismatch".
// Midtrans answers 404 for a Snap order until the customer picks a payment method;
// the service decides whether that is still pending.
func (g *MidtransGateway) CheckStatus(ctx context.Context, amount int64, productID string) (*service.StatusResult, error) {
	resp, mErr := g.core.CheckTransaction(productID)
	if mErr != nil {
		if mErr.StatusCode == http.StatusNotFound {
			return &service.StatusResult{Status: service.GatewayStatusNotFound}, nil
		}
		return nil, mErr
	}
	if resp == nil {
		return nil, errors.New("midtrans returned an empty status")
	}
	if resp.StatusCode == "404" {
		return &service.StatusResult{Status: service.GatewayStatusNotFound}, nil
	}

	payload, _ := json.Marshal(resp)
	result := &service.StatusResult{
		Status:    resp.TransactionStatus,
		Reference: resp.TransactionID,
		Payload:   payload,
	}

	gross, err := parseGrossAmount(resp.GrossAmount)
	if err != nil {
		return nil, err
	}
	if gross != amount {
		result.Status = service.GatewayStatusAmountMismatch
		return result, nil
	}
	// a captured card payment flagged "challenge" is still under review at Midtrans
	if strings.EqualFold(resp.TransactionStatus, "capture") && strings.EqualFold(resp.FraudStatus, "challenge") {
		result.Status = "pending"
	}
	return result, nil
}

/* =========================================================
   Webhook signature
========================================================= */

// VerifySignature checks SHA512(order_id + status_code + gross_amount + server_key).
func (g *MidtransGateway) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	return VerifySignature(g.serverKey, orderID, statusCode, grossAmount, signature)
}

func VerifySignature(serverKey, orderID, statusCode, grossAmount, signature string) bool {
	if serverKey == "" || signature == "" {
		return false
	}
	want := Signature(serverKey, orderID, statusCode, grossAmount)
	got := strings.ToLower(strings.TrimSpace(signature))
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

func Signature(serverKey, orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

/* =========================================================
   Utils
========================================================= */

// Midtrans reports gross_amount as a decimal string ("120000.00").
func parseGrossAmount(s string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid gross_amount %q: %w", s, err)
	}
	return int64(math.Round(f)), nil
}

func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if i := strings.LastIndex(name, " "); i > 0 {
		return truncate(name[:i], 255), truncate(name[i+1:], 255)
	}
	return truncate(name, 255), ""
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
