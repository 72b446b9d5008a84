package service

import (
	"context"
	"fmt"
	"time"

	"trivia-service/internal/models"
)

// UserService maintains the profile document kept alongside the identity
// provider's account. Authentication itself happens upstream; this service
// only sees the opaque user id.
type UserService struct {
	store UserStore
	now   func() time.Time
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store, now: time.Now}
}

func (u *UserService) Profile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	profile, err := u.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading profile: %v", ErrLoadFailed, err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// Register creates the profile document for a freshly signed-up account.
func (u *UserService) Register(ctx context.Context, userID, email, username string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	profile := &models.UserProfile{
		UserID:    userID,
		Email:     email,
		Username:  username,
		CreatedAt: u.now(),
	}
	if err := u.store.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("%w: saving profile: %v", ErrPersistFailed, err)
	}
	return profile, nil
}

func (u *UserService) UpdateUsername(ctx context.Context, userID, username string) error {
	if userID == "" {
		return ErrAuthRequired
	}
	if err := u.store.UpdateUsername(ctx, userID, username); err != nil {
		return fmt.Errorf("%w: updating profile: %v", ErrPersistFailed, err)
	}
	return nil
}

// Delete removes the profile document after the identity provider deletes
// the account.
func (u *UserService) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrAuthRequired
	}
	if err := u.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("%w: deleting profile: %v", ErrPersistFailed, err)
	}
	return nil
}
