package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/bibbank/lms/internal/application/dto"
	"github.com/bibbank/lms/internal/application/usecase"
	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/pkg/auth"
)

// DateLayout is the wire format for calendar dates in request bodies.
const DateLayout = "02-01-2006"

const maxBodyBytes = 1 << 20

// ---------------------------------------------------------------------------
// Request bodies
// ---------------------------------------------------------------------------

type registerBorrowerBody struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Email        string          `json:"email" validate:"required,email"`
	NationalID   string          `json:"national_id" validate:"required,uuid"`
	AnnualIncome decimal.Decimal `json:"annual_income"`
}

type accountTransactionBody struct {
	NationalID string          `json:"national_id" validate:"required,uuid"`
	Type       string          `json:"transaction_type" validate:"required,oneof=credit debit CREDIT DEBIT"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date" validate:"omitempty,datetime=02-01-2006"`
}

type applyLoanBody struct {
	BorrowerID    string          `json:"borrower_id" validate:"required"`
	Category      string          `json:"loan_type" validate:"required"`
	Principal     decimal.Decimal `json:"loan_amount"`
	AnnualRate    decimal.Decimal `json:"interest_rate"`
	TermMonths    int             `json:"term_period" validate:"required,gt=0,lte=600"`
	DisbursalDate string          `json:"disbursement_date" validate:"required,datetime=02-01-2006"`
}

type makePaymentBody struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date" validate:"omitempty,datetime=02-01-2006"`
}

// ---------------------------------------------------------------------------
// Handler
// ---------------------------------------------------------------------------

// Handler exposes the loan service use cases over JSON/HTTP.
type Handler struct {
	uc       usecase.Set
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a REST handler over the given use cases.
func NewHandler(uc usecase.Set, logger *slog.Logger) *Handler {
	return &Handler{
		uc:       uc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Routes mounts the API under r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/borrowers", h.registerBorrower)
	r.Post("/account-transactions", h.recordAccountTransaction)
	r.Route("/loans", func(r chi.Router) {
		r.Post("/", h.applyLoan)
		r.Get("/{loanID}", h.getLoan)
		r.Post("/{loanID}/payments", h.makePayment)
		r.Get("/{loanID}/statement", h.getStatement)
	})
}

func (h *Handler) registerBorrower(w http.ResponseWriter, r *http.Request) {
	var body registerBorrowerBody
	if !h.decode(w, r, &body) || !checkScale(w, map[string]decimal.Decimal{"annual_income": body.AnnualIncome}) {
		return
	}

	resp, err := h.uc.RegisterBorrower.Execute(r.Context(), dto.RegisterBorrowerRequest{
		Name:         body.Name,
		Email:        body.Email,
		NationalID:   body.NationalID,
		AnnualIncome: body.AnnualIncome,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) recordAccountTransaction(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.BorrowerScope(r.Context()); ok {
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "account transactions are recorded by staff only", Code: "FORBIDDEN"})
		return
	}

	var body accountTransactionBody
	if !h.decode(w, r, &body) || !checkScale(w, map[string]decimal.Decimal{"amount": body.Amount}) {
		return
	}

	var occurredAt time.Time
	if body.Date != "" {
		occurredAt, _ = time.Parse(DateLayout, body.Date)
	}

	resp, err := h.uc.RecordAccountTransaction.Execute(r.Context(), dto.RecordAccountTransactionRequest{
		NationalID: body.NationalID,
		Type:       body.Type,
		Amount:     body.Amount,
		OccurredAt: occurredAt,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) applyLoan(w http.ResponseWriter, r *http.Request) {
	var body applyLoanBody
	if !h.decode(w, r, &body) || !checkScale(w, map[string]decimal.Decimal{
		"loan_amount":   body.Principal,
		"interest_rate": body.AnnualRate,
	}) {
		return
	}
	if scoped, ok := auth.BorrowerScope(r.Context()); ok && scoped != body.BorrowerID {
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "cannot apply on behalf of another borrower", Code: "FORBIDDEN"})
		return
	}

	// Validated by the datetime tag.
	disbursal, _ := time.Parse(DateLayout, body.DisbursalDate)

	resp, err := h.uc.ApplyLoan.Execute(r.Context(), dto.ApplyLoanRequest{
		BorrowerID:    body.BorrowerID,
		Category:      body.Category,
		Principal:     body.Principal,
		AnnualRate:    body.AnnualRate,
		TermMonths:    body.TermMonths,
		DisbursalDate: disbursal,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) makePayment(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loanID")
	if !h.ownsLoan(w, r, loanID) {
		return
	}

	var body makePaymentBody
	if !h.decode(w, r, &body) || !checkScale(w, map[string]decimal.Decimal{"amount": body.Amount}) {
		return
	}

	req := dto.MakePaymentRequest{LoanID: loanID, Amount: body.Amount}
	if body.PaymentDate != "" {
		paid, _ := time.Parse(DateLayout, body.PaymentDate)
		req.PaymentDate = &paid
	}

	resp, err := h.uc.MakePayment.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getLoan(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.GetLoan.Execute(r.Context(), dto.GetLoanRequest{LoanID: chi.URLParam(r, "loanID")})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if scoped, ok := auth.BorrowerScope(r.Context()); ok && scoped != resp.BorrowerID {
		writeError(w, r, h.logger, model.ErrLoanNotFound)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getStatement(w http.ResponseWriter, r *http.Request) {
	req := dto.GetStatementRequest{
		LoanID:     chi.URLParam(r, "loanID"),
		BorrowerID: r.URL.Query().Get("borrower_id"),
	}
	if scoped, ok := auth.BorrowerScope(r.Context()); ok {
		req.BorrowerID = scoped
	}

	resp, err := h.uc.GetStatement.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ownsLoan rejects borrower-scoped callers acting on a loan that is not theirs.
func (h *Handler) ownsLoan(w http.ResponseWriter, r *http.Request, loanID string) bool {
	scoped, ok := auth.BorrowerScope(r.Context())
	if !ok {
		return true
	}
	loan, err := h.uc.GetLoan.Execute(r.Context(), dto.GetLoanRequest{LoanID: loanID})
	if err == nil && loan.BorrowerID != scoped {
		err = model.ErrLoanNotFound
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return false
	}
	return true
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeBadRequest(w, "request body is required")
			return false
		}
		writeBadRequest(w, "malformed JSON body: "+err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}
