package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wicaksana/fee-engine/internal/domain"
	"github.com/wicaksana/fee-engine/pkg/dates"
	customError "github.com/wicaksana/fee-engine/pkg/errors"
)

// ComputeArrears returns the total and per-period breakdown of what a student
// still owes on periods due before asOf (zero asOf means now). Entries are
// ordered oldest due date first; the payment processor's allocation walk
// relies on that order. A student with no qualifying records — including one
// the roster has never heard of — gets an empty breakdown, not an error.
func (s *LedgerService) ComputeArrears(ctx context.Context, studentID string, asOf time.Time) (*domain.ArrearsBreakdown, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}

	records, err := s.feeRepo.ListOutstanding(ctx, studentID, asOf)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	breakdown := &domain.ArrearsBreakdown{
		StudentID:    studentID,
		TotalArrears: decimal.Zero,
		Breakdown:    make([]domain.ArrearsEntry, 0, len(records)),
	}

	for _, record := range records {
		breakdown.Breakdown = append(breakdown.Breakdown, domain.ArrearsEntry{
			Month:   dates.MonthKey(record.PeriodYear, time.Month(record.PeriodMonth)),
			FeeType: record.FeeType,
			Status:  record.Status,
			Amount:  record.RemainingAmount,
		})
		breakdown.TotalArrears = breakdown.TotalArrears.Add(record.RemainingAmount)
	}

	return breakdown, nil
}

// CurrentObligation returns the named period's own charge: base fee plus the
// previous-arrears snapshot stored on that record. The payment form uses this
// so the current period is not double-counted inside the arrears window.
func (s *LedgerService) CurrentObligation(ctx context.Context, studentID, feeType string, month, year int) (*domain.CurrentObligation, error) {
	feeType = s.feeTypeOrDefault(feeType)

	record, err := s.feeRepo.GetByPeriod(ctx, studentID, feeType, month, year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapRecordNotFound(studentID, feeType, month, year)
		}
		return nil, customError.WrapStorageError(err)
	}

	return &domain.CurrentObligation{
		BaseAmount:      record.BaseAmount,
		PreviousArrears: record.PreviousArrears,
	}, nil
}

// StudentAggregate assembles the payment-form view for one period: the base
// fee, carried arrears, the month's absence fine assessment and any recorded
// adjustments. Served from cache when a fresh copy exists.
func (s *LedgerService) StudentAggregate(ctx context.Context, studentID, feeType string, month, year int) (*domain.StudentAggregate, error) {
	feeType = s.feeTypeOrDefault(feeType)

	if cached := s.cachedAggregate(ctx, studentID); cached != nil &&
		cached.FeeType == feeType && cached.PeriodMonth == month && cached.PeriodYear == year {
		return cached, nil
	}

	record, err := s.feeRepo.GetByPeriod(ctx, studentID, feeType, month, year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapRecordNotFound(studentID, feeType, month, year)
		}
		return nil, customError.WrapStorageError(err)
	}

	fine, err := s.AssessAbsenceFine(ctx, studentID, month, year)
	if err != nil {
		return nil, err
	}

	aggregate := &domain.StudentAggregate{
		StudentID:       studentID,
		FeeType:         feeType,
		PeriodMonth:     month,
		PeriodYear:      year,
		BaseAmount:      record.BaseAmount,
		PreviousArrears: record.PreviousArrears,
		AbsenceFine:     fine.Fine,
		OtherFines:      record.OtherAdjustments,
		FineDetail:      *fine,
	}

	s.storeAggregate(ctx, aggregate)

	return aggregate, nil
}

// StudentLedger returns a student's full fee history with the collapsed
// overall status the display layer shows above the table.
func (s *LedgerService) StudentLedger(ctx context.Context, studentID string) (*domain.LedgerView, error) {
	records, err := s.feeRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	return &domain.LedgerView{
		StudentID:     studentID,
		OverallStatus: domain.OverallStatus(records, s.now()),
		Records:       records,
	}, nil
}
