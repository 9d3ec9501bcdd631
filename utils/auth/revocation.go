package auth

import (
	"context"
	"time"

	"github.com/rjoshi/todo-manager/model"
	"gorm.io/gorm"
)

// RevocationService handles session revocation
type RevocationService struct {
	db *gorm.DB
}

// NewRevocationService creates a new revocation service
func NewRevocationService(db *gorm.DB) *RevocationService {
	return &RevocationService{db: db}
}

// Revoke marks a session ID as invalid until it would have expired anyway
func (s *RevocationService) Revoke(ctx context.Context, sessionID string, userID uint, expiresAt time.Time, reason string) error {
	revoked := model.RevokedSession{
		SessionID: sessionID,
		UserID:    userID,
		Reason:    reason,
		ExpiresAt: expiresAt,
	}

	return s.db.WithContext(ctx).Create(&revoked).Error
}

// IsRevoked checks if a session ID has been revoked
func (s *RevocationService) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.RevokedSession{}).
		Where("session_id = ? AND expires_at > ?", sessionID, time.Now()).
		Count(&count).
		Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// CleanupExpired removes revocation rows whose sessions have expired on
// their own. Called opportunistically on logout; there are no background
// jobs in this service.
func (s *RevocationService) CleanupExpired(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&model.RevokedSession{}).
		Error
}
