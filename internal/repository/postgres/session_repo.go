package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/domain"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	var session domain.Session
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *domain.Session) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *sessionRepository) ListValidByUserID(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Session, error) {
	var sessions []*domain.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND revoked = false AND expires_at > ?", userID, now).
		Order("last_used_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) ListActive(ctx context.Context) ([]*domain.Session, error) {
	var sessions []*domain.Session
	err := r.db.WithContext(ctx).
		Where("revoked = false").
		Order("last_used_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) Touch(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", id).
		Update("last_used_at", usedAt).Error
}

func (r *sessionRepository) Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ? AND revoked = false", id).
		Updates(map[string]interface{}{"revoked": true, "revoked_at": revokedAt}).Error
}

func (r *sessionRepository) RevokeAllByUserID(ctx context.Context, userID uuid.UUID, revokedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("user_id = ? AND revoked = false", userID).
		Updates(map[string]interface{}{"revoked": true, "revoked_at": revokedAt}).Error
}

func (r *sessionRepository) DeleteDefunct(ctx context.Context, now, staleBefore time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR (revoked = true AND revoked_at < ?)", now, staleBefore).
		Delete(&domain.Session{})
	return res.RowsAffected, res.Error
}

func (r *sessionRepository) UserIDsWithValidSessions(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("revoked = false AND expires_at > ?", now).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}
