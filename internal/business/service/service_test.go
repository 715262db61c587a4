package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voozea/voozea/internal/business/domain"
	"github.com/voozea/voozea/internal/business/repository"
	"github.com/voozea/voozea/internal/cache"
	"github.com/voozea/voozea/internal/clock"
	entitydomain "github.com/voozea/voozea/internal/entity/domain"
	notificationdomain "github.com/voozea/voozea/internal/notification/domain"
	profiledomain "github.com/voozea/voozea/internal/profile/domain"
	profilerepository "github.com/voozea/voozea/internal/profile/repository"
	"github.com/voozea/voozea/pkg/db"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fakeNotifier struct {
	notificationdomain.Service
	emitted []notificationdomain.EmitRequest
}

func (f *fakeNotifier) Emit(_ context.Context, req notificationdomain.EmitRequest) error {
	f.emitted = append(f.emitted, req)
	return nil
}

type testEnv struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	notifier *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&domain.Business{},
		&domain.Membership{},
		&domain.Claim{},
		&domain.Follow{},
		&profiledomain.Profile{},
		&entitydomain.EntityRecord{},
	))

	node, err := snowflake.NewNode(5)
	require.NoError(t, err)

	notifier := &fakeNotifier{}
	clk := clock.NewFakeClock(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:            dbConn,
		Log:           zaptest.NewLogger(t),
		GenID:         node,
		Repo:          repository.New(dbConn),
		ProfileRepo:   profilerepository.New(dbConn),
		Clock:         clk,
		Notifications: notifier,
		Projections:   cache.NewEntityProjectionCache(),
	})
	return &testEnv{svc: svc, db: dbConn, node: node, clock: clk, notifier: notifier}
}

func (e *testEnv) createUser(t *testing.T, username string) snowflake.ID {
	t.Helper()
	id := e.node.Generate()
	require.NoError(t, e.db.Create(&profiledomain.Profile{
		ID:          id,
		Username:    username,
		DisplayName: username,
	}).Error)
	require.NoError(t, e.db.Create(&entitydomain.EntityRecord{
		ID:         id,
		EntityType: entitydomain.EntityTypeUser,
	}).Error)
	return id
}

func (e *testEnv) createUnclaimedBusiness(t *testing.T, name string) snowflake.ID {
	t.Helper()
	id := e.node.Generate()
	require.NoError(t, e.db.Create(&domain.Business{
		ID:   id,
		Name: name,
		Slug: "biz-" + id.String(),
	}).Error)
	require.NoError(t, e.db.Create(&entitydomain.EntityRecord{
		ID:         id,
		EntityType: entitydomain.EntityTypeBusiness,
	}).Error)
	return id
}

func (e *testEnv) ownerFlag(t *testing.T, userID snowflake.ID) bool {
	t.Helper()
	var profile profiledomain.Profile
	require.NoError(t, e.db.Where("id = ?", userID).First(&profile).Error)
	return profile.IsBusinessOwner
}

func TestCreateBusinessMakesCreatorOwner(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "alice")

	business, err := env.svc.Create(context.Background(), domain.CreateBusinessRequest{
		CreatorID: creator,
		Name:      "Blue Bottle Cafe",
	})
	require.NoError(t, err)

	assert.Equal(t, "blue-bottle-cafe", business.Slug)
	require.NotNil(t, business.OwnerID)
	assert.Equal(t, creator, *business.OwnerID)
	assert.True(t, business.IsClaimed)
	assert.True(t, env.ownerFlag(t, creator))

	var record entitydomain.EntityRecord
	require.NoError(t, env.db.Where("id = ?", business.ID).First(&record).Error)
	assert.Equal(t, entitydomain.EntityTypeBusiness, record.EntityType)
}

func TestCreateBusinessSlugCollisionGetsSuffix(t *testing.T) {
	env := newTestEnv(t)
	creator := env.createUser(t, "alice")

	first, err := env.svc.Create(context.Background(), domain.CreateBusinessRequest{
		CreatorID: creator, Name: "Corner Shop",
	})
	require.NoError(t, err)
	second, err := env.svc.Create(context.Background(), domain.CreateBusinessRequest{
		CreatorID: creator, Name: "Corner Shop",
	})
	require.NoError(t, err)

	assert.Equal(t, "corner-shop", first.Slug)
	assert.Equal(t, "corner-shop-2", second.Slug)
}

func TestUpdateBusinessOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "alice")
	outsider := env.createUser(t, "bob")

	business, err := env.svc.Create(context.Background(), domain.CreateBusinessRequest{
		CreatorID: owner, Name: "Corner Shop",
	})
	require.NoError(t, err)

	name := "Corner Shop & Deli"
	_, err = env.svc.Update(context.Background(), domain.UpdateBusinessRequest{
		BusinessID: business.ID, ActorID: outsider, Name: &name,
	})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	updated, err := env.svc.Update(context.Background(), domain.UpdateBusinessRequest{
		BusinessID: business.ID, ActorID: owner, Name: &name,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
}

func TestUpdateBusinessSlugValidation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "alice")

	first, err := env.svc.Create(context.Background(), domain.CreateBusinessRequest{
		CreatorID: owner, Name: "First Place",
	})
	require.NoError(t, err)
	second, err := env.svc.Create(context.Background(), domain.CreateBusinessRequest{
		CreatorID: owner, Name: "Second Place",
	})
	require.NoError(t, err)

	short := "ab"
	_, err = env.svc.Update(context.Background(), domain.UpdateBusinessRequest{
		BusinessID: second.ID, ActorID: owner, Slug: &short,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSlug)

	taken := first.Slug
	_, err = env.svc.Update(context.Background(), domain.UpdateBusinessRequest{
		BusinessID: second.ID, ActorID: owner, Slug: &taken,
	})
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestSetVerified(t *testing.T) {
	env := newTestEnv(t)
	bizID := env.createUnclaimedBusiness(t, "Verified Cafe")

	require.NoError(t, env.svc.SetVerified(context.Background(), bizID, true))
	biz, err := env.svc.Get(context.Background(), bizID)
	require.NoError(t, err)
	assert.True(t, biz.IsVerified)

	require.NoError(t, env.svc.SetVerified(context.Background(), bizID, false))
	biz, err = env.svc.Get(context.Background(), bizID)
	require.NoError(t, err)
	assert.False(t, biz.IsVerified)

	err = env.svc.SetVerified(context.Background(), env.node.Generate(), true)
	assert.ErrorIs(t, err, domain.ErrBusinessNotFound)
}

func TestRoleOf(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "alice")
	manager := env.createUser(t, "bob")
	pending := env.createUser(t, "carol")
	outsider := env.createUser(t, "dave")

	business, err := env.svc.Create(context.Background(), domain.CreateBusinessRequest{
		CreatorID: owner, Name: "Corner Shop",
	})
	require.NoError(t, err)

	require.NoError(t, env.db.Create(&domain.Membership{
		ID: env.node.Generate(), BusinessID: business.ID, UserID: manager,
		Role: domain.RoleManager, Status: domain.MembershipActive,
	}).Error)
	require.NoError(t, env.db.Create(&domain.Membership{
		ID: env.node.Generate(), BusinessID: business.ID, UserID: pending,
		Role: domain.RoleManager, Status: domain.MembershipPending,
	}).Error)

	cases := []struct {
		name string
		user snowflake.ID
		want domain.Role
	}{
		{"owner", owner, domain.RoleOwner},
		{"active manager", manager, domain.RoleManager},
		{"pending manager", pending, domain.RoleNone},
		{"outsider", outsider, domain.RoleNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			role, err := env.svc.RoleOf(context.Background(), business.ID, tc.user)
			require.NoError(t, err)
			assert.Equal(t, tc.want, role)
		})
	}
}

func TestSubmitClaimValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	unclaimed := env.createUnclaimedBusiness(t, "Ghost Cafe")

	_, err := env.svc.SubmitClaim(context.Background(), domain.SubmitClaimRequest{
		BusinessID: unclaimed, UserID: user, Reason: "too short",
	})
	assert.ErrorIs(t, err, domain.ErrClaimReasonTooShort)

	claimed, err := env.svc.Create(context.Background(), domain.CreateBusinessRequest{
		CreatorID: env.createUser(t, "bob"), Name: "Owned Cafe",
	})
	require.NoError(t, err)

	_, err = env.svc.SubmitClaim(context.Background(), domain.SubmitClaimRequest{
		BusinessID: claimed.ID, UserID: user, Reason: "I am the real owner of this place",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyClaimed)
}

func TestSubmitClaimReplacesRejected(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	admin := env.createUser(t, "root")
	business := env.createUnclaimedBusiness(t, "Ghost Cafe")

	first, err := env.svc.SubmitClaim(context.Background(), domain.SubmitClaimRequest{
		BusinessID: business, UserID: user, Reason: "I am the real owner of this place",
	})
	require.NoError(t, err)

	_, err = env.svc.SubmitClaim(context.Background(), domain.SubmitClaimRequest{
		BusinessID: business, UserID: user, Reason: "I am the real owner of this place",
	})
	assert.ErrorIs(t, err, domain.ErrClaimExists)

	require.NoError(t, env.svc.RejectClaim(context.Background(), admin, first.ID, "insufficient proof"))

	second, err := env.svc.SubmitClaim(context.Background(), domain.SubmitClaimRequest{
		BusinessID: business, UserID: user, Reason: "Here is the business registration document",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	var count int64
	require.NoError(t, env.db.Model(&domain.Claim{}).
		Where("business_id = ? AND user_id = ?", business, user).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApproveClaimAssignsOwnership(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	admin := env.createUser(t, "root")
	business := env.createUnclaimedBusiness(t, "Ghost Cafe")

	claim, err := env.svc.SubmitClaim(context.Background(), domain.SubmitClaimRequest{
		BusinessID: business, UserID: user, Reason: "I am the real owner of this place",
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.ApproveClaim(context.Background(), admin, claim.ID))

	got, err := env.svc.Get(context.Background(), business)
	require.NoError(t, err)
	require.NotNil(t, got.OwnerID)
	assert.Equal(t, user, *got.OwnerID)
	assert.True(t, got.IsClaimed)
	assert.True(t, env.ownerFlag(t, user))

	stored, err := env.svc.ListClaims(context.Background(), domain.ClaimApproved)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].ReviewedBy)
	assert.Equal(t, admin, *stored[0].ReviewedBy)

	require.Len(t, env.notifier.emitted, 1)
	assert.Equal(t, notificationdomain.TypeClaimApproved, env.notifier.emitted[0].Type)
	assert.Equal(t, user, env.notifier.emitted[0].RecipientID)

	// Double approval is rejected, as is approving a competing claim.
	err = env.svc.ApproveClaim(context.Background(), admin, claim.ID)
	assert.ErrorIs(t, err, domain.ErrClaimNotPending)
}

func TestCancelClaimOwnPendingOnly(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	other := env.createUser(t, "bob")
	business := env.createUnclaimedBusiness(t, "Ghost Cafe")

	claim, err := env.svc.SubmitClaim(context.Background(), domain.SubmitClaimRequest{
		BusinessID: business, UserID: user, Reason: "I am the real owner of this place",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, env.svc.CancelClaim(context.Background(), other, claim.ID), domain.ErrClaimNotFound)
	require.NoError(t, env.svc.CancelClaim(context.Background(), user, claim.ID))
	assert.ErrorIs(t, env.svc.CancelClaim(context.Background(), user, claim.ID), domain.ErrClaimNotFound)
}

func TestInviteLifecycle(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "alice")
	invitee := env.createUser(t, "bob")

	business, err := env.svc.Create(context.Background(), domain.CreateBusinessRequest{
		CreatorID: owner, Name: "Corner Shop",
	})
	require.NoError(t, err)

	_, err = env.svc.InviteManager(context.Background(), domain.InviteManagerRequest{
		BusinessID: business.ID, OwnerID: owner, Username: "alice",
	})
	assert.ErrorIs(t, err, domain.ErrCannotInviteSelf)

	_, err = env.svc.InviteManager(context.Background(), domain.InviteManagerRequest{
		BusinessID: business.ID, OwnerID: invitee, Username: "alice",
	})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	membership, err := env.svc.InviteManager(context.Background(), domain.InviteManagerRequest{
		BusinessID: business.ID, OwnerID: owner, Username: "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipPending, membership.Status)

	_, err = env.svc.InviteManager(context.Background(), domain.InviteManagerRequest{
		BusinessID: business.ID, OwnerID: owner, Username: "bob",
	})
	assert.ErrorIs(t, err, domain.ErrMembershipExists)

	require.NoError(t, env.svc.AcceptInvite(context.Background(), invitee, membership.ID))

	role, err := env.svc.RoleOf(context.Background(), business.ID, invitee)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, role)

	assert.ErrorIs(t, env.svc.AcceptInvite(context.Background(), invitee, membership.ID), domain.ErrInviteNotPending)

	var types []notificationdomain.NotificationType
	for _, e := range env.notifier.emitted {
		types = append(types, e.Type)
	}
	assert.Equal(t, []notificationdomain.NotificationType{
		notificationdomain.TypeManagerInvite,
		notificationdomain.TypeManagerAdded,
	}, types)
}

func TestReinviteRemovedManagerResetsRow(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "alice")
	invitee := env.createUser(t, "bob")

	business, err := env.svc.Create(context.Background(), domain.CreateBusinessRequest{
		CreatorID: owner, Name: "Corner Shop",
	})
	require.NoError(t, err)

	membership, err := env.svc.InviteManager(context.Background(), domain.InviteManagerRequest{
		BusinessID: business.ID, OwnerID: owner, Username: "bob",
	})
	require.NoError(t, err)
	require.NoError(t, env.svc.AcceptInvite(context.Background(), invitee, membership.ID))
	require.NoError(t, env.svc.RemoveManager(context.Background(), domain.RemoveManagerRequest{
		BusinessID: business.ID, OwnerID: owner, UserID: invitee,
	}))

	again, err := env.svc.InviteManager(context.Background(), domain.InviteManagerRequest{
		BusinessID: business.ID, OwnerID: owner, Username: "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, membership.ID, again.ID)
	assert.Equal(t, domain.MembershipPending, again.Status)
}

func TestDeclineInviteDeletesRow(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "alice")
	invitee := env.createUser(t, "bob")

	business, err := env.svc.Create(context.Background(), domain.CreateBusinessRequest{
		CreatorID: owner, Name: "Corner Shop",
	})
	require.NoError(t, err)

	membership, err := env.svc.InviteManager(context.Background(), domain.InviteManagerRequest{
		BusinessID: business.ID, OwnerID: owner, Username: "bob",
	})
	require.NoError(t, err)
	require.NoError(t, env.svc.DeclineInvite(context.Background(), invitee, membership.ID))

	team, err := env.svc.ListTeam(context.Background(), business.ID)
	require.NoError(t, err)
	assert.Empty(t, team)
}

func TestTransferOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "alice")
	manager := env.createUser(t, "bob")
	outsider := env.createUser(t, "carol")

	business, err := env.svc.Create(context.Background(), domain.CreateBusinessRequest{
		CreatorID: owner, Name: "Corner Shop",
	})
	require.NoError(t, err)

	membership, err := env.svc.InviteManager(context.Background(), domain.InviteManagerRequest{
		BusinessID: business.ID, OwnerID: owner, Username: "bob",
	})
	require.NoError(t, err)
	require.NoError(t, env.svc.AcceptInvite(context.Background(), manager, membership.ID))

	err = env.svc.TransferOwnership(context.Background(), domain.TransferOwnershipRequest{
		BusinessID: business.ID, OwnerID: owner, NewOwnerID: outsider,
	})
	assert.ErrorIs(t, err, domain.ErrNotActiveManager)

	err = env.svc.TransferOwnership(context.Background(), domain.TransferOwnershipRequest{
		BusinessID: business.ID, OwnerID: manager, NewOwnerID: manager,
	})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	require.NoError(t, env.svc.TransferOwnership(context.Background(), domain.TransferOwnershipRequest{
		BusinessID: business.ID, OwnerID: owner, NewOwnerID: manager,
	}))

	got, err := env.svc.Get(context.Background(), business.ID)
	require.NoError(t, err)
	require.NotNil(t, got.OwnerID)
	assert.Equal(t, manager, *got.OwnerID)

	// The new owner has no membership row; the old owner rejoined as a manager.
	newOwnerRole, err := env.svc.RoleOf(context.Background(), business.ID, manager)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, newOwnerRole)

	oldOwnerRole, err := env.svc.RoleOf(context.Background(), business.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, oldOwnerRole)

	team, err := env.svc.ListTeam(context.Background(), business.ID)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, owner, team[0].UserID)
	assert.Equal(t, domain.MembershipActive, team[0].Status)
	assert.True(t, env.ownerFlag(t, manager))

	last := env.notifier.emitted[len(env.notifier.emitted)-1]
	assert.Equal(t, notificationdomain.TypeOwnershipTransfer, last.Type)
	assert.Equal(t, manager, last.RecipientID)
}

func TestFollowBusiness(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "alice")
	follower := env.createUser(t, "bob")

	business, err := env.svc.Create(context.Background(), domain.CreateBusinessRequest{
		CreatorID: owner, Name: "Corner Shop",
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.FollowBusiness(context.Background(), business.ID, follower))
	assert.ErrorIs(t, env.svc.FollowBusiness(context.Background(), business.ID, follower), domain.ErrAlreadyFollowing)

	got, err := env.svc.Get(context.Background(), business.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.FollowersCount)

	require.Len(t, env.notifier.emitted, 1)
	assert.Equal(t, notificationdomain.TypeBusinessFollow, env.notifier.emitted[0].Type)
	assert.Equal(t, owner, env.notifier.emitted[0].RecipientID)

	// Unfollow is idempotent; the counter only moves for a real edge.
	require.NoError(t, env.svc.UnfollowBusiness(context.Background(), business.ID, follower))
	require.NoError(t, env.svc.UnfollowBusiness(context.Background(), business.ID, follower))

	got, err = env.svc.Get(context.Background(), business.ID)
	require.NoError(t, err)
	assert.Zero(t, got.FollowersCount)
}

func TestOwnerFollowDoesNotNotifySelf(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "alice")

	business, err := env.svc.Create(context.Background(), domain.CreateBusinessRequest{
		CreatorID: owner, Name: "Corner Shop",
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.FollowBusiness(context.Background(), business.ID, owner))
	assert.Empty(t, env.notifier.emitted)
}
