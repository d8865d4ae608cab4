package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wicaksana/fee-engine/internal/domain"
)

// FeeRepository defines the interface for fee ledger data operations
type FeeRepository interface {
	// Insert creates a fee record. Returns false without error when a record
	// with the same (student, fee type, period) identity already exists, so
	// concurrent generation races degrade to a benign skip.
	Insert(ctx context.Context, record *domain.FeeRecord) (bool, error)

	// GetByPeriod retrieves the record for one student/fee type/period identity
	GetByPeriod(ctx context.Context, studentID, feeType string, month, year int) (*domain.FeeRecord, error)

	// GetCurrentOpen retrieves the most recent non-paid record for a student and fee type
	GetCurrentOpen(ctx context.Context, studentID, feeType string) (*domain.FeeRecord, error)

	// ListOutstanding retrieves non-paid records due strictly before the given
	// time, ordered oldest due date first
	ListOutstanding(ctx context.Context, studentID string, before time.Time) ([]*domain.FeeRecord, error)

	// ListByStudent retrieves a student's full ledger, oldest period first
	ListByStudent(ctx context.Context, studentID string) ([]*domain.FeeRecord, error)

	// ListAll retrieves every fee record in the ledger
	ListAll(ctx context.Context) ([]*domain.FeeRecord, error)

	// UpdateDueDate corrects the due date of a single record, touching nothing else
	UpdateDueDate(ctx context.Context, id uuid.UUID, dueDate time.Time) error

	// UpdateAll persists every given record in a single transaction
	UpdateAll(ctx context.Context, records []*domain.FeeRecord) error

	// MarkOverdue flips stale unpaid records past their due date to overdue
	// and returns how many rows changed
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// StudentRepository is the read-only roster collaborator
type StudentRepository interface {
	// ListActive retrieves all students currently enrolled
	ListActive(ctx context.Context) ([]*domain.Student, error)

	// GetByID retrieves a single student
	GetByID(ctx context.Context, studentID string) (*domain.Student, error)
}

// AttendanceRepository is the read-only attendance collaborator
type AttendanceRepository interface {
	// ListRange retrieves a student's attendance records within [from, to] inclusive
	ListRange(ctx context.Context, studentID string, from, to time.Time) ([]*domain.AttendanceRecord, error)
}
