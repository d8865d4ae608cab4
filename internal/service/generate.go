package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wicaksana/fee-engine/internal/domain"
	"github.com/wicaksana/fee-engine/pkg/dates"
	customError "github.com/wicaksana/fee-engine/pkg/errors"
)

// GenerateMonthly creates one fee record per active student for the target
// period. Idempotent: re-running for the same period never duplicates a record
// or touches the money fields of one that already exists. Students admitted
// after the period are skipped, as are existing records that need no repair.
func (s *LedgerService) GenerateMonthly(ctx context.Context, request *domain.GenerateMonthlyRequest) (*domain.GenerateMonthlyResult, error) {
	feeType := s.feeTypeOrDefault(request.FeeType)
	month := time.Month(request.Month)

	defaultFee := request.FeeAmount
	if defaultFee.IsZero() {
		defaultFee = s.defaultFee
	}

	dueDate := dates.LastDayOfMonth(request.Year, month)
	periodStart := dates.FirstDayOfMonth(request.Year, month)
	now := s.now()

	students, err := s.studentRepo.ListActive(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	result := &domain.GenerateMonthlyResult{}

	for _, student := range students {
		if dates.IsBeforeAdmission(request.Year, month, student.AdmissionDate) {
			result.Skipped++
			continue
		}

		existing, err := s.feeRepo.GetByPeriod(ctx, student.StudentID, feeType, request.Month, request.Year)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapStorageError(err)
		}

		if existing != nil {
			// Never overwrite a record that may already carry payments; the
			// only permitted repair is a malformed due date.
			if !sameDay(existing.DueDate, dueDate) {
				if err := s.feeRepo.UpdateDueDate(ctx, existing.ID, dueDate); err != nil {
					return nil, customError.WrapStorageError(err)
				}
				result.Updated++
			} else {
				result.Skipped++
			}
			continue
		}

		arrears, err := s.outstandingTotal(ctx, student.StudentID, periodStart)
		if err != nil {
			return nil, err
		}

		record := &domain.FeeRecord{
			ID:               uuid.New(),
			StudentID:        student.StudentID,
			FeeType:          feeType,
			PeriodMonth:      request.Month,
			PeriodYear:       request.Year,
			BaseAmount:       student.FeeAmount(defaultFee),
			PreviousArrears:  arrears,
			AbsenceFine:      decimal.Zero,
			OtherAdjustments: decimal.Zero,
			PaidAmount:       decimal.Zero,
			DueDate:          dueDate,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		record.Recompute(now)

		created, err := s.feeRepo.Insert(ctx, record)
		if err != nil {
			return nil, customError.WrapStorageError(err)
		}

		if !created {
			// A concurrent generation call won the insert race. The record
			// exists, which is all this operation guarantees.
			result.Skipped++
			continue
		}

		result.Created++
		s.invalidateStudent(ctx, student.StudentID)
	}

	return result, nil
}

// outstandingTotal sums what a student still owes on periods due before the
// given time. Used for the previous-arrears snapshot at record creation.
func (s *LedgerService) outstandingTotal(ctx context.Context, studentID string, before time.Time) (decimal.Decimal, error) {
	records, err := s.feeRepo.ListOutstanding(ctx, studentID, before)
	if err != nil {
		return decimal.Zero, customError.WrapStorageError(err)
	}

	total := decimal.Zero
	for _, record := range records {
		total = total.Add(record.RemainingAmount)
	}

	return total, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
