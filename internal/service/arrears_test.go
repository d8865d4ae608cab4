package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wicaksana/fee-engine/internal/domain"
	customError "github.com/wicaksana/fee-engine/pkg/errors"
)

func TestComputeArrears_EmptyLedgerNeverFails(t *testing.T) {
	mockFeeRepo := &MockFeeRepository{}
	service := newTestService(mockFeeRepo, &MockStudentRepository{}, &MockAttendanceRepository{}, testNow)

	// Unknown students included: no qualifying records means no known debt.
	mockFeeRepo.On("ListOutstanding", mock.Anything, "GHOST", testNow).
		Return([]*domain.FeeRecord{}, nil)

	breakdown, err := service.ComputeArrears(context.Background(), "GHOST", time.Time{})

	assert.NoError(t, err)
	assert.True(t, breakdown.TotalArrears.IsZero())
	assert.Empty(t, breakdown.Breakdown)
}

func TestComputeArrears_OrdersOldestFirstAndSums(t *testing.T) {
	mockFeeRepo := &MockFeeRepository{}
	service := newTestService(mockFeeRepo, &MockStudentRepository{}, &MockAttendanceRepository{}, testNow)

	// Repository returns records ordered by due date ascending.
	records := []*domain.FeeRecord{
		{
			PeriodMonth: 12, PeriodYear: 2023, FeeType: "tuition",
			Status:          domain.StatusOverdue,
			RemainingAmount: decimal.NewFromInt(100),
			DueDate:         time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			PeriodMonth: 1, PeriodYear: 2024, FeeType: "tuition",
			Status:          domain.StatusPartial,
			RemainingAmount: decimal.NewFromInt(200),
			DueDate:         time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			PeriodMonth: 2, PeriodYear: 2024, FeeType: "tuition",
			Status:          domain.StatusOverdue,
			RemainingAmount: decimal.NewFromInt(50),
			DueDate:         time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
	}
	mockFeeRepo.On("ListOutstanding", mock.Anything, "STU-001", testNow).Return(records, nil)

	breakdown, err := service.ComputeArrears(context.Background(), "STU-001", testNow)

	assert.NoError(t, err)
	assert.True(t, breakdown.TotalArrears.Equal(decimal.NewFromInt(350)))
	assert.Len(t, breakdown.Breakdown, 3)
	assert.Equal(t, "2023-12", breakdown.Breakdown[0].Month)
	assert.Equal(t, "2024-01", breakdown.Breakdown[1].Month)
	assert.Equal(t, "2024-02", breakdown.Breakdown[2].Month)
	assert.True(t, breakdown.Breakdown[1].Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, domain.StatusPartial, breakdown.Breakdown[1].Status)
}

func TestCurrentObligation(t *testing.T) {
	mockFeeRepo := &MockFeeRepository{}
	service := newTestService(mockFeeRepo, &MockStudentRepository{}, &MockAttendanceRepository{}, testNow)

	record := &domain.FeeRecord{
		BaseAmount:      decimal.NewFromInt(1500),
		PreviousArrears: decimal.NewFromInt(350),
	}
	mockFeeRepo.On("GetByPeriod", mock.Anything, "STU-001", "tuition", 3, 2024).Return(record, nil)

	obligation, err := service.CurrentObligation(context.Background(), "STU-001", "", 3, 2024)

	assert.NoError(t, err)
	assert.True(t, obligation.BaseAmount.Equal(decimal.NewFromInt(1500)))
	assert.True(t, obligation.PreviousArrears.Equal(decimal.NewFromInt(350)))
}

func TestCurrentObligation_MissingPeriod(t *testing.T) {
	mockFeeRepo := &MockFeeRepository{}
	service := newTestService(mockFeeRepo, &MockStudentRepository{}, &MockAttendanceRepository{}, testNow)

	mockFeeRepo.On("GetByPeriod", mock.Anything, "STU-001", "tuition", 7, 2024).
		Return(nil, sql.ErrNoRows)

	_, err := service.CurrentObligation(context.Background(), "STU-001", "tuition", 7, 2024)

	assert.Error(t, err)
	assert.True(t, customError.IsNotFound(err))
}

func TestStudentAggregate_CombinesRecordAndFine(t *testing.T) {
	mockFeeRepo := &MockFeeRepository{}
	mockAttendanceRepo := &MockAttendanceRepository{}
	service := newTestService(mockFeeRepo, &MockStudentRepository{}, mockAttendanceRepo, testNow)

	record := &domain.FeeRecord{
		BaseAmount:       decimal.NewFromInt(1500),
		PreviousArrears:  decimal.NewFromInt(350),
		OtherAdjustments: decimal.NewFromInt(25),
	}
	mockFeeRepo.On("GetByPeriod", mock.Anything, "STU-001", "tuition", 3, 2024).Return(record, nil)

	// Five absences against an allowance of three.
	absences := make([]*domain.AttendanceRecord, 0, 5)
	for day := 4; day <= 8; day++ {
		absences = append(absences, &domain.AttendanceRecord{
			StudentID: "STU-001",
			Date:      time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
			Status:    domain.AttendanceAbsent,
		})
	}
	mockAttendanceRepo.On("ListRange", mock.Anything, "STU-001", mock.Anything, mock.Anything).
		Return(absences, nil)

	aggregate, err := service.StudentAggregate(context.Background(), "STU-001", "", 3, 2024)

	assert.NoError(t, err)
	assert.True(t, aggregate.BaseAmount.Equal(decimal.NewFromInt(1500)))
	assert.True(t, aggregate.PreviousArrears.Equal(decimal.NewFromInt(350)))
	assert.True(t, aggregate.AbsenceFine.Equal(decimal.NewFromInt(500)))
	assert.True(t, aggregate.OtherFines.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, 5, aggregate.FineDetail.Absences)
	assert.Equal(t, 2, aggregate.FineDetail.ExcessAbsences)
}

func TestStudentLedger_CollapsesOverallStatus(t *testing.T) {
	mockFeeRepo := &MockFeeRepository{}
	service := newTestService(mockFeeRepo, &MockStudentRepository{}, &MockAttendanceRepository{}, testNow)

	records := []*domain.FeeRecord{
		{
			Status:          domain.StatusPaid,
			DueDate:         time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			RemainingAmount: decimal.Zero,
		},
		{
			Status:          domain.StatusOverdue,
			DueDate:         time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			RemainingAmount: decimal.NewFromInt(1500),
		},
	}
	mockFeeRepo.On("ListByStudent", mock.Anything, "STU-001").Return(records, nil)

	view, err := service.StudentLedger(context.Background(), "STU-001")

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusOverdue, view.OverallStatus)
	assert.Len(t, view.Records, 2)
}
