package postgres

import (
	"context"
	"fmt"

	"classroom-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Roster reads the teachers table.
type Roster struct {
	pool *pgxpool.Pool
}

func NewRoster(pool *pgxpool.Pool) *Roster {
	return &Roster{pool: pool}
}

func (r *Roster) ListTeachers(ctx context.Context) ([]domain.Teacher, error) {
	rows, err := r.pool.Query(ctx, `SELECT first_name, last_name FROM teachers ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()

	var teachers []domain.Teacher
	for rows.Next() {
		var t domain.Teacher
		if err := rows.Scan(&t.FirstName, &t.LastName); err != nil {
			return nil, fmt.Errorf("scan teacher: %w", err)
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

// AddTeacher inserts a roster entry, ignoring case-insensitive duplicates.
func (r *Roster) AddTeacher(ctx context.Context, t domain.Teacher) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO teachers (first_name, last_name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		t.FirstName, t.LastName,
	)
	if err != nil {
		return fmt.Errorf("add teacher: %w", err)
	}
	return nil
}
