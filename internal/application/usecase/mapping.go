package usecase

import (
	"github.com/bibbank/lms/internal/application/dto"
	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/internal/domain/service"
)

func toBorrowerResponse(b model.Borrower) dto.BorrowerResponse {
	return dto.BorrowerResponse{
		ID:           b.ID(),
		Name:         b.Name(),
		Email:        b.Email(),
		NationalID:   b.NationalID(),
		AnnualIncome: b.AnnualIncome(),
		CreditScore:  b.CreditScore().Ptr(),
		CreatedAt:    b.CreatedAt(),
	}
}

func toLoanResponse(l model.Loan) dto.LoanResponse {
	sched := l.Schedule()
	return dto.LoanResponse{
		ID:                    l.ID(),
		BorrowerID:            l.BorrowerID(),
		Category:              l.Category().String(),
		Principal:             l.Principal(),
		AnnualRate:            l.AnnualRate(),
		TermMonths:            l.TermMonths(),
		DisbursalDate:         l.DisbursalDate(),
		StartDate:             l.StartDate(),
		EndDate:               l.EndDate(),
		MonthlyEMI:            l.MonthlyEMI(),
		TotalRecoverable:      l.TotalRecoverable(),
		RemainingBalance:      l.RemainingBalance(),
		InstallmentsRemaining: sched.InstallmentsRemaining,
		NextDueDate:           sched.NextDueDate,
		NextDueAmount:         sched.NextDueAmount,
		LastPaymentDate:       sched.LastPaymentDate,
		Status:                l.Status().String(),
		Version:               l.Version(),
	}
}

func toStatementResponse(s service.Statement) dto.StatementResponse {
	past := make([]dto.PastTransactionResponse, 0, len(s.Past))
	for _, p := range s.Past {
		past = append(past, dto.PastTransactionResponse{
			Date:         p.Date,
			AmountPaid:   p.AmountPaid,
			InterestRate: p.InterestRate,
			Balance:      p.BalanceAfter,
		})
	}

	upcoming := make([]dto.UpcomingTransactionResponse, 0, len(s.Upcoming))
	for _, u := range s.Upcoming {
		upcoming = append(upcoming, dto.UpcomingTransactionResponse{
			Date:      u.DueDate,
			AmountDue: u.Amount,
		})
	}

	return dto.StatementResponse{
		LoanID:               s.LoanID,
		PastTransactions:     past,
		UpcomingTransactions: upcoming,
	}
}
