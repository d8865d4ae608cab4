package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wicaksana/fee-engine/internal/domain"
	customError "github.com/wicaksana/fee-engine/pkg/errors"
)

// ProcessAggregatePayment applies one incoming payment against everything a
// student owes: outstanding arrears oldest first, then the current period's
// own charge. All touched records are persisted in a single transaction; a
// failed precondition aborts before anything is written.
//
// Total due for the current period is its base fee plus the previous-arrears
// snapshot plus the fine and adjustments supplied with this payment. A caller
// declaring status "paid" has the amount forced to that total; one declaring
// "partial" must stay below it.
func (s *LedgerService) ProcessAggregatePayment(ctx context.Context, studentID string, request *domain.AggregatePaymentRequest) (*domain.AggregatePaymentResult, error) {
	now := s.now()

	if !request.PaidAmount.IsPositive() {
		return nil, customError.WrapInvalidPayment("payment amount must be greater than zero")
	}
	if !domain.ValidPaymentMethod(request.PaymentMethod) {
		return nil, customError.WrapInvalidPayment(fmt.Sprintf("unsupported payment method %q", request.PaymentMethod))
	}
	if domain.RequiresTransactionID(request.PaymentMethod) && request.TransactionID == "" {
		return nil, customError.WrapInvalidPayment(fmt.Sprintf("transaction id is required for %s payments", request.PaymentMethod))
	}

	feeType := s.feeTypeOrDefault(request.FeeType)

	current, err := s.feeRepo.GetCurrentOpen(ctx, studentID, feeType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapNoOpenRecord(studentID, feeType)
		}
		return nil, customError.WrapStorageError(err)
	}
	if current.IsSettled() {
		return nil, customError.WrapRecordAlreadyPaid(studentID)
	}

	current.AbsenceFine = request.AbsenceFine
	current.OtherAdjustments = request.OtherAdjustments
	totalDue := current.TotalDue()

	if totalDue.LessThanOrEqual(current.PaidAmount) {
		return nil, customError.WrapRecordAlreadyPaid(studentID)
	}

	paidAmount := request.PaidAmount
	switch request.Status {
	case domain.StatusPaid:
		// Declared full payment: the amount is forced to the total due so a
		// record can never be marked paid while money is still owed, or owed
		// while fully covered.
		paidAmount = totalDue.Sub(current.PaidAmount)
	case domain.StatusPartial:
		if request.PaidAmount.GreaterThanOrEqual(totalDue.Sub(current.PaidAmount)) {
			return nil, customError.WrapInvalidPayment("partial payment must be less than the total amount due")
		}
	}

	outstanding, err := s.feeRepo.ListOutstanding(ctx, studentID, now)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	// The current record may itself sit inside the arrears window when the
	// payment arrives late; it is settled by the remainder step, not the
	// allocation walk.
	arrears := make([]*domain.FeeRecord, 0, len(outstanding))
	for _, record := range outstanding {
		if record.ID != current.ID {
			arrears = append(arrears, record)
		}
	}

	updated := make([]*domain.FeeRecord, 0, len(arrears)+1)
	remaining := paidAmount

	// Oldest debt first. Each cleared arrears record also shrinks the carried
	// balance on the current record, so the snapshot tracks what is actually
	// still owed from earlier periods.
	for _, record := range arrears {
		if !remaining.IsPositive() {
			break
		}

		applied := decimal.Min(record.RemainingAmount, remaining)
		record.PaidAmount = record.PaidAmount.Add(applied)
		record.Recompute(now)
		remaining = remaining.Sub(applied)

		current.PreviousArrears = current.PreviousArrears.Sub(applied)
		if current.PreviousArrears.IsNegative() {
			current.PreviousArrears = decimal.Zero
		}

		// Arrears records keep only the cleared amount; the transaction
		// metadata belongs to the current record alone.
		updated = append(updated, record)
	}

	current.PaidAmount = current.PaidAmount.Add(remaining)
	current.PaymentMethod = request.PaymentMethod
	current.TransactionID = request.TransactionID
	current.Remarks = request.Remarks
	current.Recompute(now)
	updated = append(updated, current)

	if err := s.feeRepo.UpdateAll(ctx, updated); err != nil {
		return nil, customError.WrapStorageError(err)
	}

	s.invalidateStudent(ctx, studentID)

	return &domain.AggregatePaymentResult{
		StudentID:      studentID,
		AmountApplied:  paidAmount,
		UpdatedRecords: updated,
	}, nil
}
