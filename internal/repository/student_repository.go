package repository

import (
	"context"

	"github.com/wicaksana/fee-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) ListActive(ctx context.Context) ([]*domain.Student, error) {
	query := `
		SELECT student_id, class, section, monthly_fee, admission_date, is_active
		FROM students
		WHERE is_active = TRUE
		ORDER BY class, section, student_id
	`

	var students []*domain.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) GetByID(ctx context.Context, studentID string) (*domain.Student, error) {
	query := `
		SELECT student_id, class, section, monthly_fee, admission_date, is_active
		FROM students
		WHERE student_id = $1
	`

	var student domain.Student
	if err := r.db.GetContext(ctx, &student, query, studentID); err != nil {
		return nil, err
	}

	return &student, nil
}
