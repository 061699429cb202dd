package domain_test

import (
	"testing"
	"time"

	"github.com/splitbook/splitbook/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestInvite_LazyExpiry(t *testing.T) {
	now := time.Now()

	t.Run("pending and unexpired", func(t *testing.T) {
		invite := domain.Invite{Status: domain.InviteStatusPending, ExpiresAt: now.Add(time.Hour)}
		assert.False(t, invite.IsExpired(now))
		assert.True(t, invite.CanAccept(now))
	})

	t.Run("pending past expiry", func(t *testing.T) {
		invite := domain.Invite{Status: domain.InviteStatusPending, ExpiresAt: now.Add(-time.Minute)}
		assert.True(t, invite.IsExpired(now))
		assert.False(t, invite.CanAccept(now))
	})

	t.Run("terminal states never report expired", func(t *testing.T) {
		for _, status := range []domain.InviteStatus{
			domain.InviteStatusAccepted,
			domain.InviteStatusDeclined,
			domain.InviteStatusExpired,
		} {
			invite := domain.Invite{Status: status, ExpiresAt: now.Add(-time.Hour)}
			assert.False(t, invite.IsExpired(now), "status %s", status)
			assert.False(t, invite.CanAccept(now), "status %s", status)
		}
	})
}
