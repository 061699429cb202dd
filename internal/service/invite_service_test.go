package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/splitbook/splitbook/internal/domain"
	"github.com/splitbook/splitbook/internal/repository/postgres"
	"github.com/splitbook/splitbook/internal/service"
	"github.com/splitbook/splitbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteService_CreateInvite(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	inviteService := service.NewInviteService(repos.Invite, repos.Group, repos.GroupMember, repos.User, cfg)
	ctx := context.Background()

	t.Run("creator invites an email", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)

		invite, err := inviteService.CreateInvite(ctx, group.ID, creator.ID, "Friend@Example.com", domain.MemberRoleMember)
		require.NoError(t, err)
		assert.Equal(t, "friend@example.com", invite.Email, "email is stored normalized")
		assert.Equal(t, domain.InviteStatusPending, invite.Status)
		assert.WithinDuration(t, time.Now().Add(cfg.InviteTTL), invite.ExpiresAt, time.Minute)
	})

	t.Run("non-creator cannot invite", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		member, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).WithMember(member.ID, domain.MemberRoleMember).Build(t, testDB.DB)

		_, err := inviteService.CreateInvite(ctx, group.ID, member.ID, "friend@example.com", domain.MemberRoleMember)
		assert.ErrorIs(t, err, service.ErrNotGroupCreator)
	})

	t.Run("duplicate pending invite conflicts", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)
		testutil.NewInviteBuilder(group.ID, creator.ID, "friend@example.com").Build(t, testDB.DB)

		_, err := inviteService.CreateInvite(ctx, group.ID, creator.ID, "friend@example.com", domain.MemberRoleMember)
		assert.ErrorIs(t, err, service.ErrDuplicateInvite)
	})

	t.Run("expired pending invite frees the pair", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)
		old := testutil.NewInviteBuilder(group.ID, creator.ID, "friend@example.com").
			ExpiresAt(time.Now().Add(-time.Hour)).
			Build(t, testDB.DB)

		invite, err := inviteService.CreateInvite(ctx, group.ID, creator.ID, "friend@example.com", domain.MemberRoleMember)
		require.NoError(t, err)
		assert.NotEqual(t, old.ID, invite.ID)

		// The stale invite was persisted as expired on the way through.
		stale, err := repos.Invite.GetByID(ctx, old.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.InviteStatusExpired, stale.Status)
	})

	t.Run("declined invite frees the pair", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)
		testutil.NewInviteBuilder(group.ID, creator.ID, "friend@example.com").
			WithStatus(domain.InviteStatusDeclined).
			Build(t, testDB.DB)

		_, err := inviteService.CreateInvite(ctx, group.ID, creator.ID, "friend@example.com", domain.MemberRoleMember)
		require.NoError(t, err)
	})

	t.Run("inviting a current member conflicts", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		member, _ := testutil.NewUserBuilder().WithEmail("member@example.com").Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).WithMember(member.ID, domain.MemberRoleMember).Build(t, testDB.DB)

		_, err := inviteService.CreateInvite(ctx, group.ID, creator.ID, "member@example.com", domain.MemberRoleMember)
		assert.ErrorIs(t, err, domain.ErrAlreadyMember)
	})
}

func TestInviteService_Accept(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	inviteService := service.NewInviteService(repos.Invite, repos.Group, repos.GroupMember, repos.User, cfg)
	groupService := service.NewGroupService(repos.Group, repos.GroupMember, repos.User)
	ctx := context.Background()

	t.Run("accept adds actor to the roster", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		invitee, _ := testutil.NewUserBuilder().WithEmail("invitee@example.com").Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)
		invite := testutil.NewInviteBuilder(group.ID, creator.ID, "invitee@example.com").Build(t, testDB.DB)

		accepted, err := inviteService.Accept(ctx, invite.ID, invitee)
		require.NoError(t, err)
		assert.Equal(t, domain.InviteStatusAccepted, accepted.Status)
		require.NotNil(t, accepted.RespondedAt)

		fresh, err := groupService.GetGroup(ctx, group.ID, invitee.ID)
		require.NoError(t, err)
		member := fresh.Member(invitee.ID)
		require.NotNil(t, member)
		assert.Equal(t, domain.MemberRoleMember, member.Role)
	})

	t.Run("wrong email is forbidden", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		stranger, _ := testutil.NewUserBuilder().WithEmail("stranger@example.com").Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)
		invite := testutil.NewInviteBuilder(group.ID, creator.ID, "invitee@example.com").Build(t, testDB.DB)

		_, err := inviteService.Accept(ctx, invite.ID, stranger)
		assert.ErrorIs(t, err, service.ErrInviteForbidden)
	})

	t.Run("expired invite is not actionable and is persisted", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		invitee, _ := testutil.NewUserBuilder().WithEmail("invitee@example.com").Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)
		invite := testutil.NewInviteBuilder(group.ID, creator.ID, "invitee@example.com").
			ExpiresAt(time.Now().Add(-time.Hour)).
			Build(t, testDB.DB)

		_, err := inviteService.Accept(ctx, invite.ID, invitee)
		assert.ErrorIs(t, err, service.ErrInviteNotActionable)

		stored, err := repos.Invite.GetByID(ctx, invite.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.InviteStatusExpired, stored.Status)
	})

	t.Run("declined invite cannot be accepted", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		invitee, _ := testutil.NewUserBuilder().WithEmail("invitee@example.com").Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)
		invite := testutil.NewInviteBuilder(group.ID, creator.ID, "invitee@example.com").
			WithStatus(domain.InviteStatusDeclined).
			Build(t, testDB.DB)

		_, err := inviteService.Accept(ctx, invite.ID, invitee)
		assert.ErrorIs(t, err, service.ErrInviteNotActionable)
	})

	t.Run("accepting while already a member only flips status", func(t *testing.T) {
		testDB.Truncate(t)
		creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		invitee, _ := testutil.NewUserBuilder().WithEmail("invitee@example.com").Build(t, testDB.DB)
		group := testutil.NewGroupBuilder(creator.ID).WithMember(invitee.ID, domain.MemberRoleMember).Build(t, testDB.DB)
		invite := testutil.NewInviteBuilder(group.ID, creator.ID, "invitee@example.com").Build(t, testDB.DB)

		accepted, err := inviteService.Accept(ctx, invite.ID, invitee)
		require.NoError(t, err)
		assert.Equal(t, domain.InviteStatusAccepted, accepted.Status)

		fresh, err := groupService.GetGroup(ctx, group.ID, creator.ID)
		require.NoError(t, err)
		count := 0
		for _, m := range fresh.Members {
			if m.UserID == invitee.ID {
				count++
			}
		}
		assert.Equal(t, 1, count, "no duplicate roster entry")
	})
}

func TestInviteService_Decline(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	inviteService := service.NewInviteService(repos.Invite, repos.Group, repos.GroupMember, repos.User, cfg)
	ctx := context.Background()

	testDB.Truncate(t)
	creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	invitee, _ := testutil.NewUserBuilder().WithEmail("invitee@example.com").Build(t, testDB.DB)
	group := testutil.NewGroupBuilder(creator.ID).Build(t, testDB.DB)
	invite := testutil.NewInviteBuilder(group.ID, creator.ID, "invitee@example.com").Build(t, testDB.DB)

	declined, err := inviteService.Decline(ctx, invite.ID, invitee)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteStatusDeclined, declined.Status)
	assert.NotNil(t, declined.RespondedAt)

	// Terminal states stay terminal.
	_, err = inviteService.Accept(ctx, invite.ID, invitee)
	assert.ErrorIs(t, err, service.ErrInviteNotActionable)
}

func TestInviteService_Cancel(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	inviteService := service.NewInviteService(repos.Invite, repos.Group, repos.GroupMember, repos.User, cfg)
	ctx := context.Background()

	testDB.Truncate(t)
	creator, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	member, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	group := testutil.NewGroupBuilder(creator.ID).WithMember(member.ID, domain.MemberRoleMember).Build(t, testDB.DB)
	invite := testutil.NewInviteBuilder(group.ID, creator.ID, "invitee@example.com").Build(t, testDB.DB)

	err := inviteService.Cancel(ctx, invite.ID, member.ID)
	assert.ErrorIs(t, err, service.ErrNotGroupCreator)

	require.NoError(t, inviteService.Cancel(ctx, invite.ID, creator.ID))

	_, err = repos.Invite.GetByID(ctx, invite.ID)
	assert.Error(t, err, "cancelled invites are deleted, not soft-closed")
}
