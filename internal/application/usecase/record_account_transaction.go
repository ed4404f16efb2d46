package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/lms/internal/application/dto"
	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/internal/domain/port"
	"github.com/bibbank/lms/internal/domain/valueobject"
)

// RecordAccountTransactionUseCase appends to the account feed used by the scorer.
type RecordAccountTransactionUseCase struct {
	txRepo port.AccountTransactionRepository
	logger *slog.Logger
}

// NewRecordAccountTransactionUseCase wires dependencies.
func NewRecordAccountTransactionUseCase(txRepo port.AccountTransactionRepository, logger *slog.Logger) *RecordAccountTransactionUseCase {
	return &RecordAccountTransactionUseCase{txRepo: txRepo, logger: logger}
}

// Execute validates and records a transaction. OccurredAt defaults to now.
func (uc *RecordAccountTransactionUseCase) Execute(ctx context.Context, req dto.RecordAccountTransactionRequest) (dto.AccountTransactionResponse, error) {
	txType, err := valueobject.NewTransactionType(req.Type)
	if err != nil {
		return dto.AccountTransactionResponse{}, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	tx, err := model.NewAccountTransaction(req.NationalID, txType, req.Amount, occurredAt)
	if err != nil {
		return dto.AccountTransactionResponse{}, fmt.Errorf("record transaction: %w", err)
	}

	if err := uc.txRepo.Record(ctx, tx); err != nil {
		return dto.AccountTransactionResponse{}, fmt.Errorf("save transaction: %w", err)
	}

	uc.logger.DebugContext(ctx, "account transaction recorded", "transaction_id", tx.ID, "type", tx.Type.String())

	return dto.AccountTransactionResponse{
		ID:         tx.ID,
		NationalID: tx.NationalID,
		Type:       tx.Type.String(),
		Amount:     tx.Amount,
		OccurredAt: tx.OccurredAt,
	}, nil
}
