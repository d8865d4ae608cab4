package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wicaksana/fee-engine/internal/domain"
	"github.com/wicaksana/fee-engine/pkg/dates"
	customError "github.com/wicaksana/fee-engine/pkg/errors"
)

// AssessAbsenceFine derives the flat attendance fine for a student and month.
// Read-only: it never writes to the ledger — the payment processor or the
// display layer decides whether the fine is actually applied. Missing or empty
// attendance data yields a zero-valued assessment, not an error.
func (s *LedgerService) AssessAbsenceFine(ctx context.Context, studentID string, month, year int) (*domain.FineAssessment, error) {
	start, end := dates.PeriodBounds(year, time.Month(month))

	records, err := s.attendanceRepo.ListRange(ctx, studentID, start, end)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	absences := 0
	for _, record := range records {
		if record.Status == domain.AttendanceAbsent {
			absences++
		}
	}

	assessment := &domain.FineAssessment{
		Absences:        absences,
		AllowedAbsences: s.allowedAbsences,
		Fine:            decimal.Zero,
	}

	if absences > s.allowedAbsences {
		assessment.ExcessAbsences = absences - s.allowedAbsences
		assessment.Fine = s.absenceFine
	}

	return assessment, nil
}
