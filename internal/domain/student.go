package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

// Student is the roster entity. The engine only reads it; profile CRUD lives
// in the surrounding system.
type Student struct {
	StudentID     string           `json:"student_id" db:"student_id"`
	Class         string           `json:"class" db:"class"`
	Section       string           `json:"section" db:"section"`
	MonthlyFee    *decimal.Decimal `json:"monthly_fee,omitempty" db:"monthly_fee"`
	AdmissionDate time.Time        `json:"admission_date" db:"admission_date"`
	IsActive      bool             `json:"is_active" db:"is_active"`
}

// FeeAmount returns the student's per-month fee, falling back to the class
// default when no override is set.
func (s *Student) FeeAmount(defaultAmount decimal.Decimal) decimal.Decimal {
	if s.MonthlyFee != nil {
		return *s.MonthlyFee
	}
	return defaultAmount
}

// AttendanceRecord is one day's attendance mark for a student. Read-only here.
type AttendanceRecord struct {
	StudentID string    `json:"student_id" db:"student_id"`
	Date      time.Time `json:"date" db:"date"`
	Status    string    `json:"status" db:"status"`
}
