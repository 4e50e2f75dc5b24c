package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"classroom-quiz-service/internal/domain"
)

// SignIn resolves a name pair to a user, creating one on first sign-in.
// The role is decided against the teacher roster only at creation time.
func (s *QuizService) SignIn(ctx context.Context, firstName, lastName string) (domain.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return domain.User{}, fmt.Errorf("%w: first name and last name are required", domain.ErrValidation)
	}

	existing, err := s.users.FindByName(ctx, firstName, lastName)
	if err == nil {
		return s.users.Register(ctx, existing)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	role, err := s.roleFor(ctx, firstName, lastName)
	if err != nil {
		return domain.User{}, err
	}
	return s.users.Register(ctx, domain.User{
		ID:        s.newToken(),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		CreatedAt: s.now().UTC(),
	})
}

// Lookup resolves a bearer token.
func (s *QuizService) Lookup(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, fmt.Errorf("%w: token is required", domain.ErrValidation)
	}
	user, err := s.users.FindByToken(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: unknown token", domain.ErrUnauthorized)
	}
	return user, err
}

func (s *QuizService) requireTeacher(ctx context.Context, token string) (domain.User, error) {
	user, err := s.Lookup(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	if user.Role != domain.RoleTeacher {
		return domain.User{}, fmt.Errorf("%w: teacher role required", domain.ErrUnauthorized)
	}
	return user, nil
}

func (s *QuizService) roleFor(ctx context.Context, firstName, lastName string) (domain.Role, error) {
	if s.teachers == nil {
		return domain.RoleStudent, nil
	}
	teachers, err := s.teachers.ListTeachers(ctx)
	if err != nil {
		return "", fmt.Errorf("load teacher roster: %w", err)
	}
	for _, t := range teachers {
		if domain.SameName(t.FirstName, t.LastName, firstName, lastName) {
			return domain.RoleTeacher, nil
		}
	}
	return domain.RoleStudent, nil
}
