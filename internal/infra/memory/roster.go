package memory

import (
	"context"

	"classroom-quiz-service/internal/domain"
)

// StaticRoster is a teacher roster fixed at startup, typically from config.
type StaticRoster struct {
	teachers []domain.Teacher
}

func NewStaticRoster(teachers []domain.Teacher) *StaticRoster {
	return &StaticRoster{teachers: append([]domain.Teacher(nil), teachers...)}
}

func (r *StaticRoster) ListTeachers(context.Context) ([]domain.Teacher, error) {
	return append([]domain.Teacher(nil), r.teachers...), nil
}
