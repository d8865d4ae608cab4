package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func record(base, paid int64, due time.Time) *FeeRecord {
	return &FeeRecord{
		BaseAmount: decimal.NewFromInt(base),
		PaidAmount: decimal.NewFromInt(paid),
		DueDate:    due,
	}
}

func TestRecompute(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	future := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	past := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name              string
		rec               *FeeRecord
		expectedStatus    string
		expectedRemaining int64
	}{
		{
			name:              "untouched record before due date",
			rec:               record(1000, 0, future),
			expectedStatus:    StatusUnpaid,
			expectedRemaining: 1000,
		},
		{
			name:              "untouched record past due date",
			rec:               record(1000, 0, past),
			expectedStatus:    StatusOverdue,
			expectedRemaining: 1000,
		},
		{
			name:              "partially paid",
			rec:               record(1000, 400, future),
			expectedStatus:    StatusPartial,
			expectedRemaining: 600,
		},
		{
			name:              "partially paid past due stays partial",
			rec:               record(1000, 400, past),
			expectedStatus:    StatusPartial,
			expectedRemaining: 600,
		},
		{
			name:              "exactly covered",
			rec:               record(1000, 1000, past),
			expectedStatus:    StatusPaid,
			expectedRemaining: 0,
		},
		{
			name:              "overpaid clamps remaining at zero",
			rec:               record(1000, 1200, future),
			expectedStatus:    StatusPaid,
			expectedRemaining: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.rec.Recompute(now)
			assert.Equal(t, tt.expectedStatus, tt.rec.Status)
			assert.True(t, tt.rec.RemainingAmount.Equal(decimal.NewFromInt(tt.expectedRemaining)),
				"expected remaining %d, got %v", tt.expectedRemaining, tt.rec.RemainingAmount)
		})
	}
}

func TestRecomputeIncludesFinesAndArrears(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	rec := &FeeRecord{
		BaseAmount:       decimal.NewFromInt(1000),
		PreviousArrears:  decimal.NewFromInt(500),
		AbsenceFine:      decimal.NewFromInt(500),
		OtherAdjustments: decimal.NewFromInt(50),
		PaidAmount:       decimal.NewFromInt(2050),
		DueDate:          time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, rec.TotalDue().Equal(decimal.NewFromInt(2050)))

	rec.Recompute(now)
	assert.Equal(t, StatusPaid, rec.Status)
	assert.True(t, rec.RemainingAmount.IsZero())
}

func TestOverallStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	future := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	past := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	paid := record(1000, 1000, past)
	paid.Recompute(now)
	unpaid := record(1000, 0, future)
	unpaid.Recompute(now)
	partial := record(1000, 300, future)
	partial.Recompute(now)
	overdue := record(1000, 0, past)
	overdue.Recompute(now)

	tests := []struct {
		name     string
		records  []*FeeRecord
		expected string
	}{
		{name: "empty ledger owes nothing", records: nil, expected: StatusPaid},
		{name: "all settled", records: []*FeeRecord{paid, paid}, expected: StatusPaid},
		{name: "overdue beats everything", records: []*FeeRecord{paid, partial, unpaid, overdue}, expected: StatusOverdue},
		{name: "unpaid beats partial", records: []*FeeRecord{partial, unpaid, paid}, expected: StatusUnpaid},
		{name: "partial beats paid", records: []*FeeRecord{paid, partial}, expected: StatusPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OverallStatus(tt.records, now))
		})
	}
}

func TestOverallStatusDistrustsStaleStoredStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	// Stored status says partial, but the due date has passed and money is
	// still owed: the collapsed view must report overdue.
	stale := record(1000, 300, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))
	stale.Status = StatusPartial
	stale.RemainingAmount = decimal.NewFromInt(700)

	assert.Equal(t, StatusOverdue, OverallStatus([]*FeeRecord{stale}, now))
}

func TestPaymentMethodRules(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentMethodCash))
	assert.True(t, ValidPaymentMethod(PaymentMethodTransfer))
	assert.False(t, ValidPaymentMethod("crypto"))

	assert.False(t, RequiresTransactionID(PaymentMethodCash))
	assert.False(t, RequiresTransactionID(PaymentMethodCheck))
	assert.True(t, RequiresTransactionID(PaymentMethodOnline))
	assert.True(t, RequiresTransactionID(PaymentMethodTransfer))
	assert.True(t, RequiresTransactionID(PaymentMethodOther))
}
