package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-energy/internal/models"
)

// Store persists sessions in the database with explicit create, lookup and
// destroy operations.
type Store struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewStore(db *gorm.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create opens a session for userID and returns its token.
func (s *Store) Create(ctx context.Context, userID uint) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}
	sess := models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return "", err
	}
	return token, nil
}

// Lookup resolves a token to a user id. An unknown or expired token, or a
// session whose user no longer exists, yields no identity.
func (s *Store) Lookup(ctx context.Context, token string) (uint, bool) {
	if token == "" {
		return 0, false
	}
	var sess models.Session
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&sess).Error
	if err != nil {
		return 0, false
	}
	if time.Now().After(sess.ExpiresAt) {
		// Expired sessions are reaped lazily on lookup.
		s.db.WithContext(ctx).Delete(&sess)
		return 0, false
	}
	var count int64
	s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", sess.UserID).Count(&count)
	if count == 0 {
		return 0, false
	}
	return sess.UserID, true
}

// Destroy removes the session for the given token. Destroying an unknown
// token is not an error.
func (s *Store) Destroy(ctx context.Context, token string) error {
	err := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// DestroyAllForUser removes every session of a user, e.g. on account
// deletion.
func (s *Store) DestroyAllForUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{}).Error
}
