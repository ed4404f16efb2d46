package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/lms/internal/application/dto"
	"github.com/bibbank/lms/internal/application/usecase"
	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/internal/presentation/rest"
	"github.com/bibbank/lms/pkg/auth"
)

const nationalID = "7d1b6a52-9a43-4d6e-9f1c-2b0c3a4e5f60"

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// unexpected fails the test if a use case the scenario should not reach runs.
func unexpected[Req, Resp any](t *testing.T) usecase.ExecutorFunc[Req, Resp] {
	return func(context.Context, Req) (Resp, error) {
		var zero Resp
		t.Errorf("unexpected use case call with %T", *new(Req))
		return zero, errors.New("unexpected")
	}
}

func fakeSet(t *testing.T) usecase.Set {
	return usecase.Set{
		RegisterBorrower:         unexpected[dto.RegisterBorrowerRequest, dto.BorrowerResponse](t),
		RecordAccountTransaction: unexpected[dto.RecordAccountTransactionRequest, dto.AccountTransactionResponse](t),
		ApplyLoan:                unexpected[dto.ApplyLoanRequest, dto.ApplyLoanResponse](t),
		MakePayment:              unexpected[dto.MakePaymentRequest, dto.PaymentResponse](t),
		GetLoan:                  unexpected[dto.GetLoanRequest, dto.LoanResponse](t),
		GetStatement:             unexpected[dto.GetStatementRequest, dto.StatementResponse](t),
	}
}

func newRouter(set usecase.Set, opts ...func(*rest.RouterConfig)) http.Handler {
	cfg := rest.RouterConfig{
		Handler: rest.NewHandler(set, discard()),
		Health:  rest.NewHealthHandler("lms", nil, discard()),
		Logger:  discard(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return rest.NewRouter(cfg)
}

func do(t *testing.T, h http.Handler, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) rest.ErrorResponse {
	t.Helper()
	var out rest.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestRegisterBorrower(t *testing.T) {
	t.Run("returns 201 with the borrower", func(t *testing.T) {
		set := fakeSet(t)
		var got dto.RegisterBorrowerRequest
		set.RegisterBorrower = usecase.ExecutorFunc[dto.RegisterBorrowerRequest, dto.BorrowerResponse](
			func(_ context.Context, req dto.RegisterBorrowerRequest) (dto.BorrowerResponse, error) {
				got = req
				return dto.BorrowerResponse{ID: "borrower-1", Name: req.Name, NationalID: req.NationalID}, nil
			})

		rec := do(t, newRouter(set), http.MethodPost, "/api/v1/borrowers", map[string]any{
			"name":          "Asha Rao",
			"email":         "asha@example.com",
			"national_id":   nationalID,
			"annual_income": "1200000",
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Asha Rao", got.Name)
		assert.True(t, got.AnnualIncome.Equal(decimal.NewFromInt(1_200_000)))

		var resp dto.BorrowerResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "borrower-1", resp.ID)
	})

	t.Run("rejects invalid fields with details", func(t *testing.T) {
		rec := do(t, newRouter(fakeSet(t)), http.MethodPost, "/api/v1/borrowers", map[string]any{
			"name":          "Asha Rao",
			"email":         "not-an-email",
			"national_id":   "123",
			"annual_income": 100,
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
		assert.Contains(t, body.Details, "Email")
		assert.Contains(t, body.Details, "NationalID")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		rec := do(t, newRouter(fakeSet(t)), http.MethodPost, "/api/v1/borrowers", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects sub-cent income", func(t *testing.T) {
		rec := do(t, newRouter(fakeSet(t)), http.MethodPost, "/api/v1/borrowers", map[string]any{
			"name": "Asha Rao", "email": "asha@example.com", "national_id": nationalID, "annual_income": "1200000.001",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Details, "annual_income")
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		rec := do(t, newRouter(fakeSet(t)), http.MethodPost, "/api/v1/borrowers", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "request body is required", decodeError(t, rec).Error)
	})

	t.Run("maps a duplicate national id to 400", func(t *testing.T) {
		set := fakeSet(t)
		set.RegisterBorrower = usecase.ExecutorFunc[dto.RegisterBorrowerRequest, dto.BorrowerResponse](
			func(context.Context, dto.RegisterBorrowerRequest) (dto.BorrowerResponse, error) {
				return dto.BorrowerResponse{}, fmt.Errorf("save borrower: %w", model.ErrDuplicateNationalID)
			})

		rec := do(t, newRouter(set), http.MethodPost, "/api/v1/borrowers", map[string]any{
			"name": "Asha Rao", "email": "asha@example.com", "national_id": nationalID, "annual_income": 1,
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "DUPLICATE_NATIONAL_ID", decodeError(t, rec).Code)
	})
}

func TestRecordAccountTransaction(t *testing.T) {
	set := fakeSet(t)
	var got dto.RecordAccountTransactionRequest
	set.RecordAccountTransaction = usecase.ExecutorFunc[dto.RecordAccountTransactionRequest, dto.AccountTransactionResponse](
		func(_ context.Context, req dto.RecordAccountTransactionRequest) (dto.AccountTransactionResponse, error) {
			got = req
			return dto.AccountTransactionResponse{ID: "tx-1", Type: "CREDIT"}, nil
		})

	rec := do(t, newRouter(set), http.MethodPost, "/api/v1/account-transactions", map[string]any{
		"national_id":      nationalID,
		"transaction_type": "credit",
		"amount":           "2500.50",
		"date":             "05-03-2024",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "credit", got.Type)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got.OccurredAt)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("2500.50")))

	t.Run("rejects sub-cent amounts", func(t *testing.T) {
		rec := do(t, newRouter(fakeSet(t)), http.MethodPost, "/api/v1/account-transactions", map[string]any{
			"national_id": nationalID, "transaction_type": "credit", "amount": "2500.505",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Details, "amount")
	})

	t.Run("rejects unknown transaction types", func(t *testing.T) {
		rec := do(t, newRouter(fakeSet(t)), http.MethodPost, "/api/v1/account-transactions", map[string]any{
			"national_id": nationalID, "transaction_type": "refund", "amount": 1,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Details, "Type")
	})
}

func TestApplyLoan(t *testing.T) {
	body := map[string]any{
		"borrower_id":       "borrower-1",
		"loan_type":         "personal",
		"loan_amount":       500000,
		"interest_rate":     15,
		"term_period":       12,
		"disbursement_date": "15-01-2024",
	}

	t.Run("parses the application", func(t *testing.T) {
		set := fakeSet(t)
		var got dto.ApplyLoanRequest
		set.ApplyLoan = usecase.ExecutorFunc[dto.ApplyLoanRequest, dto.ApplyLoanResponse](
			func(_ context.Context, req dto.ApplyLoanRequest) (dto.ApplyLoanResponse, error) {
				got = req
				return dto.ApplyLoanResponse{
					LoanID:     "loan-1",
					MonthlyEMI: decimal.RequireFromString("45129.16"),
					DueDates: []dto.DueDateResponse{
						{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), AmountDue: decimal.RequireFromString("45129.16")},
					},
				}, nil
			})

		rec := do(t, newRouter(set), http.MethodPost, "/api/v1/loans", body)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "personal", got.Category)
		assert.Equal(t, 12, got.TermMonths)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got.DisbursalDate)
		assert.True(t, got.Principal.Equal(decimal.NewFromInt(500_000)))

		var resp dto.ApplyLoanResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "loan-1", resp.LoanID)
		assert.Equal(t, "45129.16", resp.MonthlyEMI.StringFixed(2))
		require.Len(t, resp.DueDates, 1)
	})

	t.Run("rejects a date in the wrong layout", func(t *testing.T) {
		bad := map[string]any{}
		for k, v := range body {
			bad[k] = v
		}
		bad["disbursement_date"] = "2024-01-15"

		rec := do(t, newRouter(fakeSet(t)), http.MethodPost, "/api/v1/loans", bad)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Details, "DisbursalDate")
	})

	t.Run("rejects sub-cent principal and rate", func(t *testing.T) {
		bad := map[string]any{}
		for k, v := range body {
			bad[k] = v
		}
		bad["loan_amount"] = "500000.005"
		bad["interest_rate"] = "15.125"

		rec := do(t, newRouter(fakeSet(t)), http.MethodPost, "/api/v1/loans", bad)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		details := decodeError(t, rec).Details
		assert.Contains(t, details, "loan_amount")
		assert.Contains(t, details, "interest_rate")
	})

	t.Run("maps eligibility failures to 400 with their code", func(t *testing.T) {
		set := fakeSet(t)
		set.ApplyLoan = usecase.ExecutorFunc[dto.ApplyLoanRequest, dto.ApplyLoanResponse](
			func(context.Context, dto.ApplyLoanRequest) (dto.ApplyLoanResponse, error) {
				return dto.ApplyLoanResponse{}, fmt.Errorf("eligibility: %w", model.ErrLowCredit)
			})

		rec := do(t, newRouter(set), http.MethodPost, "/api/v1/loans", body)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "LOW_CREDIT", resp.Code)
		assert.Equal(t, model.ErrLowCredit.Error(), resp.Error)
	})

	t.Run("maps missing borrowers to 404", func(t *testing.T) {
		set := fakeSet(t)
		set.ApplyLoan = usecase.ExecutorFunc[dto.ApplyLoanRequest, dto.ApplyLoanResponse](
			func(context.Context, dto.ApplyLoanRequest) (dto.ApplyLoanResponse, error) {
				return dto.ApplyLoanResponse{}, fmt.Errorf("find borrower: %w", model.ErrBorrowerNotFound)
			})

		rec := do(t, newRouter(set), http.MethodPost, "/api/v1/loans", body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMakePayment(t *testing.T) {
	t.Run("passes loan id and payment date", func(t *testing.T) {
		set := fakeSet(t)
		var got dto.MakePaymentRequest
		set.MakePayment = usecase.ExecutorFunc[dto.MakePaymentRequest, dto.PaymentResponse](
			func(_ context.Context, req dto.MakePaymentRequest) (dto.PaymentResponse, error) {
				got = req
				return dto.PaymentResponse{LoanID: req.LoanID, InstallmentsRemaining: 11, LoanStatus: "ACTIVE"}, nil
			})

		rec := do(t, newRouter(set), http.MethodPost, "/api/v1/loans/loan-1/payments", map[string]any{
			"amount":       "45129.16",
			"payment_date": "01-02-2024",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "loan-1", got.LoanID)
		require.NotNil(t, got.PaymentDate)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *got.PaymentDate)
	})

	t.Run("omitting the date leaves it to the server", func(t *testing.T) {
		set := fakeSet(t)
		set.MakePayment = usecase.ExecutorFunc[dto.MakePaymentRequest, dto.PaymentResponse](
			func(_ context.Context, req dto.MakePaymentRequest) (dto.PaymentResponse, error) {
				assert.Nil(t, req.PaymentDate)
				return dto.PaymentResponse{}, nil
			})

		rec := do(t, newRouter(set), http.MethodPost, "/api/v1/loans/loan-1/payments", map[string]any{"amount": 1})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	for _, amount := range []string{"0.001", "100.005"} {
		t.Run("rejects sub-cent amount "+amount, func(t *testing.T) {
			rec := do(t, newRouter(fakeSet(t)), http.MethodPost, "/api/v1/loans/loan-1/payments", map[string]any{"amount": amount})

			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, "VALIDATION_ERROR", resp.Code)
			assert.Contains(t, resp.Details, "amount")
		})
	}

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"duplicate month", model.ErrDuplicatePayment, http.StatusBadRequest, "DUPLICATE_PAYMENT"},
		{"overdue", model.ErrOverdueRejection, http.StatusBadRequest, "OVERDUE"},
		{"closed loan", model.ErrLoanNotActive, http.StatusBadRequest, "LOAN_NOT_ACTIVE"},
		{"unknown loan", model.ErrLoanNotFound, http.StatusNotFound, "LOAN_NOT_FOUND"},
		{"lost update", model.ErrConcurrentUpdate, http.StatusConflict, "CONCURRENT_UPDATE"},
		{"infrastructure", errors.New("dial tcp 10.0.0.7:5432: connection refused"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := fakeSet(t)
			set.MakePayment = usecase.ExecutorFunc[dto.MakePaymentRequest, dto.PaymentResponse](
				func(context.Context, dto.MakePaymentRequest) (dto.PaymentResponse, error) {
					return dto.PaymentResponse{}, fmt.Errorf("apply payment: %w", tt.err)
				})

			rec := do(t, newRouter(set), http.MethodPost, "/api/v1/loans/loan-1/payments", map[string]any{"amount": 100})

			require.Equal(t, tt.wantCode, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantBody, resp.Code)
			assert.NotContains(t, resp.Error, "10.0.0.7")
		})
	}
}

func TestGetLoanAndStatement(t *testing.T) {
	set := fakeSet(t)
	set.GetLoan = usecase.ExecutorFunc[dto.GetLoanRequest, dto.LoanResponse](
		func(_ context.Context, req dto.GetLoanRequest) (dto.LoanResponse, error) {
			return dto.LoanResponse{ID: req.LoanID, BorrowerID: "borrower-1", Status: "ACTIVE"}, nil
		})
	var gotStatement dto.GetStatementRequest
	set.GetStatement = usecase.ExecutorFunc[dto.GetStatementRequest, dto.StatementResponse](
		func(_ context.Context, req dto.GetStatementRequest) (dto.StatementResponse, error) {
			gotStatement = req
			return dto.StatementResponse{LoanID: req.LoanID}, nil
		})
	router := newRouter(set)

	rec := do(t, router, http.MethodGet, "/api/v1/loans/loan-9", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var loan dto.LoanResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&loan))
	assert.Equal(t, "loan-9", loan.ID)

	rec = do(t, router, http.MethodGet, "/api/v1/loans/loan-9/statement?borrower_id=borrower-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.GetStatementRequest{LoanID: "loan-9", BorrowerID: "borrower-1"}, gotStatement)
}

func TestHealth(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		rec := do(t, newRouter(fakeSet(t)), http.MethodGet, "/healthz", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","service":"lms"}`, rec.Body.String())
	})

	t.Run("readiness reports failing checks", func(t *testing.T) {
		router := newRouter(fakeSet(t), func(cfg *rest.RouterConfig) {
			cfg.Health = rest.NewHealthHandler("lms", map[string]rest.ReadinessCheck{
				"postgres": func(context.Context) error { return nil },
				"redis":    func(context.Context) error { return errors.New("connection refused") },
			}, discard())
		})

		rec := do(t, router, http.MethodGet, "/readyz", nil)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"not_ready","service":"lms","checks":{"redis":"unavailable"}}`, rec.Body.String())
	})

	t.Run("metrics handler is mounted", func(t *testing.T) {
		router := newRouter(fakeSet(t), func(cfg *rest.RouterConfig) {
			cfg.Metrics = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "lms_up 1\n")
			})
		})
		rec := do(t, router, http.MethodGet, "/metrics", nil)
		assert.Equal(t, "lms_up 1\n", rec.Body.String())
	})

	t.Run("ops router serves probes without the api", func(t *testing.T) {
		router := rest.NewOpsRouter(rest.NewHealthHandler("scorerd", nil, discard()), nil, discard())

		rec := do(t, router, http.MethodGet, "/readyz", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, router, http.MethodGet, "/api/v1/loans/loan-1", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAuth(t *testing.T) {
	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "lms", Expiration: time.Hour})
	require.NoError(t, err)

	token := func(t *testing.T, borrowerID string, roles ...string) string {
		t.Helper()
		tok, err := jwtSvc.GenerateToken("user-1", borrowerID, roles)
		require.NoError(t, err)
		return "Bearer " + tok
	}

	set := fakeSet(t)
	set.GetLoan = usecase.ExecutorFunc[dto.GetLoanRequest, dto.LoanResponse](
		func(_ context.Context, req dto.GetLoanRequest) (dto.LoanResponse, error) {
			return dto.LoanResponse{ID: req.LoanID, BorrowerID: "borrower-1"}, nil
		})
	var gotStatement dto.GetStatementRequest
	set.GetStatement = usecase.ExecutorFunc[dto.GetStatementRequest, dto.StatementResponse](
		func(_ context.Context, req dto.GetStatementRequest) (dto.StatementResponse, error) {
			gotStatement = req
			return dto.StatementResponse{LoanID: req.LoanID}, nil
		})
	router := newRouter(set, func(cfg *rest.RouterConfig) {
		cfg.Auth = auth.HTTPMiddleware(jwtSvc, nil)
	})

	t.Run("health stays public", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/healthz", nil).Code)
	})

	t.Run("api requires a token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/v1/loans/loan-1", nil).Code)
	})

	t.Run("borrowers only see their own loans", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/v1/loans/loan-1", nil, "Authorization", token(t, "borrower-1", auth.RoleBorrower))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, router, http.MethodGet, "/api/v1/loans/loan-1", nil, "Authorization", token(t, "borrower-2", auth.RoleBorrower))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("borrower tokens override the statement owner", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/v1/loans/loan-1/statement?borrower_id=borrower-1", nil,
			"Authorization", token(t, "borrower-2", auth.RoleBorrower))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "borrower-2", gotStatement.BorrowerID)
	})

	t.Run("operators are unrestricted", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/v1/loans/loan-1/statement", nil, "Authorization", token(t, "", auth.RoleOperator))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, gotStatement.BorrowerID)
	})

	t.Run("borrowers cannot pay into another borrower's loan", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/v1/loans/loan-1/payments", map[string]any{"amount": 1},
			"Authorization", token(t, "borrower-2", auth.RoleBorrower))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("only staff feed account transactions", func(t *testing.T) {
		recorded := 0
		set.RecordAccountTransaction = usecase.ExecutorFunc[dto.RecordAccountTransactionRequest, dto.AccountTransactionResponse](
			func(context.Context, dto.RecordAccountTransactionRequest) (dto.AccountTransactionResponse, error) {
				recorded++
				return dto.AccountTransactionResponse{}, nil
			})
		router := newRouter(set, func(cfg *rest.RouterConfig) {
			cfg.Auth = auth.HTTPMiddleware(jwtSvc, nil)
		})
		body := map[string]any{"national_id": nationalID, "transaction_type": "credit", "amount": "1000000"}

		rec := do(t, router, http.MethodPost, "/api/v1/account-transactions", body, "Authorization", token(t, "borrower-1", auth.RoleBorrower))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Zero(t, recorded)

		rec = do(t, router, http.MethodPost, "/api/v1/account-transactions", body, "Authorization", token(t, "", auth.RoleAdmin))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 1, recorded)
	})

	t.Run("borrowers cannot apply for someone else", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/api/v1/loans", map[string]any{
			"borrower_id": "borrower-1", "loan_type": "car", "loan_amount": 1, "interest_rate": 15,
			"term_period": 12, "disbursement_date": "15-01-2024",
		}, "Authorization", token(t, "borrower-2", auth.RoleBorrower))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
