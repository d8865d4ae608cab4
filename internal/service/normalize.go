package service

import (
	"context"
	"time"

	"github.com/wicaksana/fee-engine/internal/domain"
	"github.com/wicaksana/fee-engine/pkg/dates"
	customError "github.com/wicaksana/fee-engine/pkg/errors"
)

// NormalizeDueDates is a maintenance pass that repairs any stored due date
// not falling on its period's month-end. Touches nothing but the due date,
// and is safe to run repeatedly: once every date is correct, every record is
// skipped.
func (s *LedgerService) NormalizeDueDates(ctx context.Context) (*domain.NormalizeDueDatesResult, error) {
	records, err := s.feeRepo.ListAll(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	result := &domain.NormalizeDueDatesResult{}

	for _, record := range records {
		expected := dates.LastDayOfMonth(record.PeriodYear, time.Month(record.PeriodMonth))
		if sameDay(record.DueDate, expected) {
			result.SkippedCount++
			continue
		}

		if err := s.feeRepo.UpdateDueDate(ctx, record.ID, expected); err != nil {
			return nil, customError.WrapStorageError(err)
		}
		result.UpdatedCount++
		s.invalidateStudent(ctx, record.StudentID)
	}

	return result, nil
}

// SweepOverdue flips stored statuses that have gone stale: unpaid records
// whose due date has passed become overdue. Run nightly by the scheduler so
// the stored status and the date-derived one never disagree for long.
func (s *LedgerService) SweepOverdue(ctx context.Context) (int64, error) {
	updated, err := s.feeRepo.MarkOverdue(ctx, s.now())
	if err != nil {
		return 0, customError.WrapStorageError(err)
	}

	return updated, nil
}
