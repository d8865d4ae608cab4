package domain

import (
	"github.com/shopspring/decimal"
)

// DTOs for requests and responses

type GenerateMonthlyRequest struct {
	Month     int             `json:"month" validate:"required,min=1,max=12"`
	Year      int             `json:"year" validate:"required,min=2000,max=2100"`
	FeeAmount decimal.Decimal `json:"fee_amount" validate:"decimal_gte=0"`
	FeeType   string          `json:"fee_type"`
}

type GenerateMonthlyResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// AggregatePaymentRequest is the transient input to the payment processor.
// Status is the caller's declared intent: when "paid", the amount is forced to
// the full total due; when "partial", the amount must be below it.
type AggregatePaymentRequest struct {
	PaidAmount       decimal.Decimal `json:"paid_amount" validate:"required,decimal_gt=0"`
	PaymentMethod    string          `json:"payment_method" validate:"required,oneof=cash check online 'bank transfer' other"`
	Status           string          `json:"status" validate:"omitempty,oneof=paid partial"`
	TransactionID    string          `json:"transaction_id"`
	Remarks          string          `json:"remarks"`
	FeeType          string          `json:"fee_type"`
	AbsenceFine      decimal.Decimal `json:"absence_fine" validate:"decimal_gte=0"`
	OtherAdjustments decimal.Decimal `json:"other_adjustments" validate:"decimal_gte=0"`
}

type AggregatePaymentResult struct {
	StudentID      string          `json:"student_id"`
	AmountApplied  decimal.Decimal `json:"amount_applied"`
	UpdatedRecords []*FeeRecord    `json:"updated_records"`
}

// ArrearsEntry is one past-due period in a student's breakdown, ordered oldest
// due date first. Amount is what is still owed on that period.
type ArrearsEntry struct {
	Month   string          `json:"month"`
	FeeType string          `json:"fee_type"`
	Status  string          `json:"status"`
	Amount  decimal.Decimal `json:"amount"`
}

type ArrearsBreakdown struct {
	StudentID    string          `json:"student_id"`
	TotalArrears decimal.Decimal `json:"total_arrears"`
	Breakdown    []ArrearsEntry  `json:"breakdown"`
}

// FineAssessment is the absence fine calculator's read-only output.
type FineAssessment struct {
	Absences        int             `json:"absences"`
	AllowedAbsences int             `json:"allowed_absences"`
	ExcessAbsences  int             `json:"excess_absences"`
	Fine            decimal.Decimal `json:"fine"`
}

// CurrentObligation is the current period's own charge: its base fee and the
// previous-arrears snapshot stored on that period's record.
type CurrentObligation struct {
	BaseAmount      decimal.Decimal `json:"base_amount"`
	PreviousArrears decimal.Decimal `json:"previous_arrears"`
}

// StudentAggregate feeds the payment form: everything the student owes now,
// split the way the form displays it.
type StudentAggregate struct {
	StudentID       string          `json:"student_id"`
	FeeType         string          `json:"fee_type"`
	PeriodMonth     int             `json:"period_month"`
	PeriodYear      int             `json:"period_year"`
	BaseAmount      decimal.Decimal `json:"base_amount"`
	PreviousArrears decimal.Decimal `json:"previous_arrears"`
	AbsenceFine     decimal.Decimal `json:"absence_fine"`
	OtherFines      decimal.Decimal `json:"other_fines"`
	FineDetail      FineAssessment  `json:"fine_detail"`
}

type NormalizeDueDatesResult struct {
	UpdatedCount int `json:"updated_count"`
	SkippedCount int `json:"skipped_count"`
}

// LedgerView is a student's full fee history plus the collapsed status the
// display layer shows at the top of the table.
type LedgerView struct {
	StudentID     string       `json:"student_id"`
	OverallStatus string       `json:"overall_status"`
	Records       []*FeeRecord `json:"records"`
}
