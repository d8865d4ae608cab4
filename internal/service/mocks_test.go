package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/wicaksana/fee-engine/internal/domain"
)

// newTestService wires a service around mocks with fixed business knobs and a
// frozen clock. No redis client: the cache degrades to a no-op.
func newTestService(fee *MockFeeRepository, students *MockStudentRepository, attendance *MockAttendanceRepository, now time.Time) *LedgerService {
	return &LedgerService{
		feeRepo:         fee,
		studentRepo:     students,
		attendanceRepo:  attendance,
		defaultFeeType:  domain.FeeTypeTuition,
		defaultFee:      decimal.NewFromInt(1000),
		allowedAbsences: 3,
		absenceFine:     decimal.NewFromInt(500),
		cacheTTL:        time.Minute,
		now:             func() time.Time { return now },
	}
}

type MockFeeRepository struct {
	mock.Mock
}

func (m *MockFeeRepository) Insert(ctx context.Context, record *domain.FeeRecord) (bool, error) {
	args := m.Called(ctx, record)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeeRepository) GetByPeriod(ctx context.Context, studentID, feeType string, month, year int) (*domain.FeeRecord, error) {
	args := m.Called(ctx, studentID, feeType, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeRecord), args.Error(1)
}

func (m *MockFeeRepository) GetCurrentOpen(ctx context.Context, studentID, feeType string) (*domain.FeeRecord, error) {
	args := m.Called(ctx, studentID, feeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeRecord), args.Error(1)
}

func (m *MockFeeRepository) ListOutstanding(ctx context.Context, studentID string, before time.Time) ([]*domain.FeeRecord, error) {
	args := m.Called(ctx, studentID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FeeRecord), args.Error(1)
}

func (m *MockFeeRepository) ListByStudent(ctx context.Context, studentID string) ([]*domain.FeeRecord, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FeeRecord), args.Error(1)
}

func (m *MockFeeRepository) ListAll(ctx context.Context) ([]*domain.FeeRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FeeRecord), args.Error(1)
}

func (m *MockFeeRepository) UpdateDueDate(ctx context.Context, id uuid.UUID, dueDate time.Time) error {
	args := m.Called(ctx, id, dueDate)
	return args.Error(0)
}

func (m *MockFeeRepository) UpdateAll(ctx context.Context, records []*domain.FeeRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockFeeRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) ListActive(ctx context.Context) ([]*domain.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) GetByID(ctx context.Context, studentID string) (*domain.Student, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) ListRange(ctx context.Context, studentID string, from, to time.Time) ([]*domain.AttendanceRecord, error) {
	args := m.Called(ctx, studentID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AttendanceRecord), args.Error(1)
}
