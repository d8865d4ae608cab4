package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusUnpaid  = "unpaid"
	StatusPartial = "partial"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

const (
	PaymentMethodCash     = "cash"
	PaymentMethodCheck    = "check"
	PaymentMethodOnline   = "online"
	PaymentMethodTransfer = "bank transfer"
	PaymentMethodOther    = "other"
)

// FeeTypeTuition is the default fee type for monthly generation.
const FeeTypeTuition = "tuition"

// FeeRecord is one ledger line: one student, one fee type, one calendar month.
// The (student_id, fee_type, period_month, period_year) tuple is unique in storage.
type FeeRecord struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	StudentID        string          `json:"student_id" db:"student_id"`
	FeeType          string          `json:"fee_type" db:"fee_type"`
	PeriodMonth      int             `json:"period_month" db:"period_month"`
	PeriodYear       int             `json:"period_year" db:"period_year"`
	BaseAmount       decimal.Decimal `json:"base_amount" db:"base_amount"`
	PreviousArrears  decimal.Decimal `json:"previous_arrears" db:"previous_arrears"`
	AbsenceFine      decimal.Decimal `json:"absence_fine" db:"absence_fine"`
	OtherAdjustments decimal.Decimal `json:"other_adjustments" db:"other_adjustments"`
	PaidAmount       decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	RemainingAmount  decimal.Decimal `json:"remaining_amount" db:"remaining_amount"`
	DueDate          time.Time       `json:"due_date" db:"due_date"`
	Status           string          `json:"status" db:"status"`
	PaymentMethod    string          `json:"payment_method" db:"payment_method"`
	TransactionID    string          `json:"transaction_id" db:"transaction_id"`
	Remarks          string          `json:"remarks" db:"remarks"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// TotalDue is the full amount owed on this record: base fee plus the arrears
// snapshot taken at creation plus any fine and adjustments applied since.
func (r *FeeRecord) TotalDue() decimal.Decimal {
	return r.BaseAmount.Add(r.PreviousArrears).Add(r.AbsenceFine).Add(r.OtherAdjustments)
}

// IsSettled reports whether the record carries no remaining obligation.
func (r *FeeRecord) IsSettled() bool {
	return r.Status == StatusPaid
}

// Recompute re-derives remaining_amount and status from the money fields.
// Called after every mutation so a stored status can never disagree with the
// amounts and the due date.
//
// Status rules:
//   - paid    when paid_amount >= total due
//   - partial when 0 < paid_amount < total due
//   - overdue when nothing is paid and the due date has passed
//   - unpaid  otherwise
func (r *FeeRecord) Recompute(now time.Time) {
	total := r.TotalDue()
	r.RemainingAmount = total.Sub(r.PaidAmount)
	if r.RemainingAmount.IsNegative() {
		r.RemainingAmount = decimal.Zero
	}

	switch {
	case r.PaidAmount.GreaterThanOrEqual(total):
		r.Status = StatusPaid
	case r.PaidAmount.IsPositive():
		r.Status = StatusPartial
	case r.DueDate.Before(now):
		r.Status = StatusOverdue
	default:
		r.Status = StatusUnpaid
	}
}

// OverallStatus collapses a student's ledger into the single status a fee
// history screen shows. Precedence: overdue > unpaid > partial > paid.
// Any non-settled record past due counts as overdue regardless of what its
// stored status says. An empty ledger reads as paid — nothing is owed.
func OverallStatus(records []*FeeRecord, now time.Time) string {
	overall := StatusPaid
	for _, r := range records {
		if r.Status == StatusPaid {
			continue
		}
		if r.Status == StatusOverdue || r.DueDate.Before(now) {
			return StatusOverdue
		}
		if r.Status == StatusUnpaid {
			overall = StatusUnpaid
		} else if overall == StatusPaid {
			overall = StatusPartial
		}
	}
	return overall
}

// ValidPaymentMethod reports whether method is one the ledger accepts.
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodCheck, PaymentMethodOnline, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// RequiresTransactionID reports whether the method must carry an external
// transaction reference. Cash and check are recorded without one.
func RequiresTransactionID(method string) bool {
	return method != PaymentMethodCash && method != PaymentMethodCheck
}
