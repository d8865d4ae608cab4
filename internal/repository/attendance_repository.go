package repository

import (
	"context"
	"time"

	"github.com/wicaksana/fee-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type attendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) ListRange(ctx context.Context, studentID string, from, to time.Time) ([]*domain.AttendanceRecord, error) {
	query := `
		SELECT student_id, date, status
		FROM attendance_records
		WHERE student_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	var records []*domain.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID, from, to); err != nil {
		return nil, err
	}

	return records, nil
}
