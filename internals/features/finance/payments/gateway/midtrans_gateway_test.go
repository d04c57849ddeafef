package gateway

import (
	"context"
	"net/http"
	"testing"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeportal_backend/internals/features/finance/payments/service"
)

type fakeSnap struct {
	got  *snap.Request
	resp *snap.Response
	err  *midtrans.Error
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.got = req
	return f.resp, f.err
}

type fakeCore struct {
	resp *coreapi.TransactionStatusResponse
	err  *midtrans.Error
}

func (f *fakeCore) CheckTransaction(string) (*coreapi.TransactionStatusResponse, *midtrans.Error) {
	return f.resp, f.err
}

func TestMidtransGateway_Initiate(t *testing.T) {
	s := &fakeSnap{resp: &snap.Response{Token: "tok", RedirectURL: "https://pay.example/tok"}}
	g := &MidtransGateway{serverKey: "key", finishURL: "https://app.example/finish", snap: s}

	res, err := g.Initiate(context.Background(), service.InitiateRequest{
		ProductID: "INV-1",
		Amount:    70000,
		Year:      "1st Year",
		Customer:  service.Customer{Name: "Ada Lovelace", Email: "ada@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/tok", res.RedirectURL)
	assert.Equal(t, "tok", res.Token)

	require.NotNil(t, s.got)
	assert.Equal(t, "INV-1", s.got.TransactionDetails.OrderID)
	assert.Equal(t, int64(70000), s.got.TransactionDetails.GrossAmt)
	assert.Equal(t, "Ada", s.got.CustomerDetail.FName)
	assert.Equal(t, "Lovelace", s.got.CustomerDetail.LName)
	require.NotNil(t, s.got.Callbacks)
	assert.Equal(t, "https://app.example/finish", s.got.Callbacks.Finish)
	require.NotNil(t, s.got.Expiry)
	assert.Equal(t, "minute", s.got.Expiry.Unit)
	assert.Equal(t, int64(service.CheckoutExpiry/time.Minute), s.got.Expiry.Duration)
}

func TestNewMidtransGateway_BoundsHTTPTimeout(t *testing.T) {
	g := NewMidtransGateway("key", false, "")

	timeoutOf := func(c midtrans.HttpClient) time.Duration {
		impl, ok := c.(*midtrans.HttpClientImplementation)
		require.True(t, ok, "unexpected http client %T", c)
		require.NotNil(t, impl.HttpClient)
		assert.NotSame(t, midtrans.DefaultGoHttpClient, impl.HttpClient)
		return impl.HttpClient.Timeout
	}

	sc, ok := g.snap.(*snap.Client)
	require.True(t, ok)
	cc, ok := g.core.(*coreapi.Client)
	require.True(t, ok)

	for _, d := range []time.Duration{timeoutOf(sc.HttpClient), timeoutOf(cc.HttpClient)} {
		assert.Equal(t, service.GatewayCallTimeout, d)
		assert.Less(t, d, midtrans.DefaultHttpTimeout)
	}
}

func TestMidtransGateway_InitiateError(t *testing.T) {
	s := &fakeSnap{err: &midtrans.Error{Message: "unauthorized", StatusCode: http.StatusUnauthorized}}
	g := &MidtransGateway{snap: s}

	res, err := g.Initiate(context.Background(), service.InitiateRequest{ProductID: "INV-1", Amount: 1})
	assert.Nil(t, res)
	assert.Error(t, err)
}

func TestMidtransGateway_CheckStatus(t *testing.T) {
	tests := []struct {
		name       string
		core       *fakeCore
		amount     int64
		wantStatus string
		wantErr    bool
	}{
		{
			name:       "settlement",
			core:       &fakeCore{resp: &coreapi.TransactionStatusResponse{TransactionStatus: "settlement", GrossAmount: "70000.00", StatusCode: "200", TransactionID: "trx-1"}},
			amount:     70000,
			wantStatus: "settlement",
		},
		{
			name:       "amount mismatch",
			core:       &fakeCore{resp: &coreapi.TransactionStatusResponse{TransactionStatus: "settlement", GrossAmount: "10000.00", StatusCode: "200"}},
			amount:     70000,
			wantStatus: service.GatewayStatusAmountMismatch,
		},
		{
			name:       "capture under fraud challenge",
			core:       &fakeCore{resp: &coreapi.TransactionStatusResponse{TransactionStatus: "capture", FraudStatus: "challenge", GrossAmount: "70000.00", StatusCode: "201"}},
			amount:     70000,
			wantStatus: "pending",
		},
		{
			name:       "unknown order",
			core:       &fakeCore{err: &midtrans.Error{Message: "not found", StatusCode: http.StatusNotFound}},
			amount:     70000,
			wantStatus: service.GatewayStatusNotFound,
		},
		{
			name:    "transport failure",
			core:    &fakeCore{err: &midtrans.Error{Message: "timeout", StatusCode: http.StatusBadGateway}},
			amount:  70000,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &MidtransGateway{core: tt.core}
			res, err := g.CheckStatus(context.Background(), tt.amount, "INV-1")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}

func TestVerifySignature(t *testing.T) {
	sig := Signature("server-key", "INV-1", "200", "70000.00")
	assert.Len(t, sig, 128)
	assert.True(t, VerifySignature("server-key", "INV-1", "200", "70000.00", sig))
	assert.False(t, VerifySignature("server-key", "INV-1", "200", "70001.00", sig))
	assert.False(t, VerifySignature("other-key", "INV-1", "200", "70000.00", sig))
	assert.False(t, VerifySignature("", "INV-1", "200", "70000.00", sig))
	assert.False(t, VerifySignature("server-key", "INV-1", "200", "70000.00", ""))
}
