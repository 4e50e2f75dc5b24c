package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"classroom-quiz-service/internal/app"
	"classroom-quiz-service/internal/domain"
	"classroom-quiz-service/internal/infra/kv"
)

var _ app.UserRepository = (*Users)(nil)

// Users stores users keyed by name and a token index pointing back at them.
type Users struct {
	store kv.Store
}

func NewUsers(store kv.Store) *Users {
	return &Users{store: store}
}

type tokenRef struct {
	NameKey string `json:"nameKey"`
}

func (u *Users) FindByName(ctx context.Context, firstName, lastName string) (domain.User, error) {
	return u.byNameKey(ctx, domain.NameKey(firstName, lastName))
}

func (u *Users) FindByToken(ctx context.Context, token string) (domain.User, error) {
	entry, err := u.store.Get(ctx, collectionTokens, token)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup token: %w", err)
	}
	ref, err := decode[tokenRef](entry)
	if err != nil {
		return domain.User{}, err
	}
	user, err := u.byNameKey(ctx, ref.NameKey)
	if err != nil {
		return domain.User{}, err
	}
	if user.ID != token {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (u *Users) Register(ctx context.Context, user domain.User) (domain.User, error) {
	nameKey := domain.NameKey(user.FirstName, user.LastName)
	value, err := json.Marshal(user)
	if err != nil {
		return domain.User{}, err
	}

	stored := user
	_, err = u.store.Insert(ctx, collectionUsers, nameKey, value)
	switch {
	case errors.Is(err, kv.ErrExists):
		// Someone with this name signed in first; theirs is the record that counts.
		stored, err = u.byNameKey(ctx, nameKey)
		if err != nil {
			return domain.User{}, err
		}
	case err != nil:
		return domain.User{}, fmt.Errorf("register user: %w", err)
	}

	if err := u.indexToken(ctx, stored.ID, nameKey); err != nil {
		return domain.User{}, err
	}
	return stored, nil
}

func (u *Users) indexToken(ctx context.Context, token, nameKey string) error {
	value, err := json.Marshal(tokenRef{NameKey: nameKey})
	if err != nil {
		return err
	}
	_, err = u.store.Insert(ctx, collectionTokens, token, value)
	if err != nil && !errors.Is(err, kv.ErrExists) {
		return fmt.Errorf("index token: %w", err)
	}
	return nil
}

func (u *Users) byNameKey(ctx context.Context, nameKey string) (domain.User, error) {
	entry, err := u.store.Get(ctx, collectionUsers, nameKey)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return decode[domain.User](entry)
}
