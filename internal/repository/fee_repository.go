package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wicaksana/fee-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

const feeRecordColumns = `
	id, student_id, fee_type, period_month, period_year,
	base_amount, previous_arrears, absence_fine, other_adjustments,
	paid_amount, remaining_amount, due_date, status,
	payment_method, transaction_id, remarks, created_at, updated_at
`

type feeRepository struct {
	db *sqlx.DB
}

func NewFeeRepository(db *sqlx.DB) FeeRepository {
	return &feeRepository{db: db}
}

func (r *feeRepository) Insert(ctx context.Context, record *domain.FeeRecord) (bool, error) {
	query := `
		INSERT INTO fee_records (
			id, student_id, fee_type, period_month, period_year,
			base_amount, previous_arrears, absence_fine, other_adjustments,
			paid_amount, remaining_amount, due_date, status,
			payment_method, transaction_id, remarks, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (student_id, fee_type, period_month, period_year) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.StudentID,
		record.FeeType,
		record.PeriodMonth,
		record.PeriodYear,
		record.BaseAmount,
		record.PreviousArrears,
		record.AbsenceFine,
		record.OtherAdjustments,
		record.PaidAmount,
		record.RemainingAmount,
		record.DueDate,
		record.Status,
		record.PaymentMethod,
		record.TransactionID,
		record.Remarks,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *feeRepository) GetByPeriod(ctx context.Context, studentID, feeType string, month, year int) (*domain.FeeRecord, error) {
	query := `
		SELECT ` + feeRecordColumns + `
		FROM fee_records
		WHERE student_id = $1 AND fee_type = $2 AND period_month = $3 AND period_year = $4
	`

	var record domain.FeeRecord
	if err := r.db.GetContext(ctx, &record, query, studentID, feeType, month, year); err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *feeRepository) GetCurrentOpen(ctx context.Context, studentID, feeType string) (*domain.FeeRecord, error) {
	query := `
		SELECT ` + feeRecordColumns + `
		FROM fee_records
		WHERE student_id = $1 AND fee_type = $2 AND status <> 'paid'
		ORDER BY period_year DESC, period_month DESC
		LIMIT 1
	`

	var record domain.FeeRecord
	if err := r.db.GetContext(ctx, &record, query, studentID, feeType); err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *feeRepository) ListOutstanding(ctx context.Context, studentID string, before time.Time) ([]*domain.FeeRecord, error) {
	// Oldest due date first: the payment processor's allocation walk depends
	// on this ordering.
	query := `
		SELECT ` + feeRecordColumns + `
		FROM fee_records
		WHERE student_id = $1 AND status <> 'paid' AND due_date < $2
		ORDER BY due_date ASC
	`

	var records []*domain.FeeRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID, before); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *feeRepository) ListByStudent(ctx context.Context, studentID string) ([]*domain.FeeRecord, error) {
	query := `
		SELECT ` + feeRecordColumns + `
		FROM fee_records
		WHERE student_id = $1
		ORDER BY period_year ASC, period_month ASC
	`

	var records []*domain.FeeRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *feeRepository) ListAll(ctx context.Context) ([]*domain.FeeRecord, error) {
	query := `
		SELECT ` + feeRecordColumns + `
		FROM fee_records
		ORDER BY period_year ASC, period_month ASC
	`

	var records []*domain.FeeRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *feeRepository) UpdateDueDate(ctx context.Context, id uuid.UUID, dueDate time.Time) error {
	query := `
		UPDATE fee_records
		SET due_date = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, dueDate, time.Now())
	return err
}

func (r *feeRepository) UpdateAll(ctx context.Context, records []*domain.FeeRecord) error {
	// One payment may settle several periods; the writes commit together or
	// not at all.
	query := `
		UPDATE fee_records
		SET previous_arrears = $2, absence_fine = $3, other_adjustments = $4,
			paid_amount = $5, remaining_amount = $6, status = $7,
			payment_method = $8, transaction_id = $9, remarks = $10,
			updated_at = $11
		WHERE id = $1
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for _, record := range records {
		_, err = tx.ExecContext(ctx, query,
			record.ID,
			record.PreviousArrears,
			record.AbsenceFine,
			record.OtherAdjustments,
			record.PaidAmount,
			record.RemainingAmount,
			record.Status,
			record.PaymentMethod,
			record.TransactionID,
			record.Remarks,
			now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *feeRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		UPDATE fee_records
		SET status = 'overdue', updated_at = $2
		WHERE status = 'unpaid' AND paid_amount = 0 AND due_date < $1
	`

	result, err := r.db.ExecContext(ctx, query, asOf, time.Now())
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
