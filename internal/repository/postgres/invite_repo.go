package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/domain"
	"gorm.io/gorm"
)

type inviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *inviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(ctx context.Context, invite *domain.Invite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *inviteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invite, error) {
	var invite domain.Invite
	err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Inviter").
		First(&invite, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) GetPendingByGroupAndEmail(ctx context.Context, groupID uuid.UUID, email string) (*domain.Invite, error) {
	var invite domain.Invite
	err := r.db.WithContext(ctx).
		First(&invite, "group_id = ? AND email = ? AND status = ?",
			groupID, domain.NormalizeEmail(email), domain.InviteStatusPending).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]*domain.Invite, error) {
	var invites []*domain.Invite
	err := r.db.WithContext(ctx).
		Preload("Inviter").
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}

func (r *inviteRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Invite, error) {
	var invites []*domain.Invite
	err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Inviter").
		Where("email = ?", domain.NormalizeEmail(email)).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}

func (r *inviteRepository) Update(ctx context.Context, invite *domain.Invite) error {
	return r.db.WithContext(ctx).Omit("Group", "Inviter").Save(invite).Error
}

func (r *inviteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Invite{}, "id = ?", id).Error
}
