package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voozea/voozea/internal/cache"
	"github.com/voozea/voozea/internal/clock"
	entitydomain "github.com/voozea/voozea/internal/entity/domain"
	"github.com/voozea/voozea/internal/profile/domain"
	"github.com/voozea/voozea/internal/profile/repository"
	"github.com/voozea/voozea/pkg/db"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type testEnv struct {
	svc   domain.Service
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.Profile{}, &entitydomain.EntityFollow{}))
	require.NoError(t, dbConn.Exec(
		`CREATE TABLE ratings (
			id INTEGER PRIMARY KEY,
			product_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			score REAL NOT NULL,
			created_at DATETIME NOT NULL
		)`,
	).Error)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:          dbConn,
		Log:         zaptest.NewLogger(t),
		Repo:        repository.New(dbConn),
		Clock:       clk,
		Projections: cache.NewEntityProjectionCache(),
	})

	return &testEnv{svc: svc, db: dbConn, node: node, clock: clk}
}

func (e *testEnv) createProfile(t *testing.T, username string, followers int64) snowflake.ID {
	t.Helper()
	id := e.node.Generate()
	require.NoError(t, e.db.Create(&domain.Profile{
		ID:             id,
		Username:       username,
		DisplayName:    username,
		FollowersCount: followers,
	}).Error)
	return id
}

func TestUpdateNormalizesUsername(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProfile(t, "original", 0)

	raw := "New Name!"
	updated, err := env.svc.Update(context.Background(), domain.UpdateProfileRequest{
		UserID:   id,
		Username: &raw,
	})
	require.NoError(t, err)
	assert.Equal(t, "new_name", updated.Username)
}

func TestUpdateRejectsTakenUsername(t *testing.T) {
	env := newTestEnv(t)
	env.createProfile(t, "taken", 0)
	id := env.createProfile(t, "mine", 0)

	raw := "Taken"
	_, err := env.svc.Update(context.Background(), domain.UpdateProfileRequest{
		UserID:   id,
		Username: &raw,
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestUpdateKeepsOwnUsername(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProfile(t, "stable", 0)

	raw := "STABLE"
	updated, err := env.svc.Update(context.Background(), domain.UpdateProfileRequest{
		UserID:   id,
		Username: &raw,
	})
	require.NoError(t, err)
	assert.Equal(t, "stable", updated.Username)
}

func TestOnboardingFlags(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProfile(t, "onboardee", 0)

	require.NoError(t, env.svc.SkipOnboarding(context.Background(), id))
	profile, err := env.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, profile.OnboardingSkipped)
	assert.False(t, profile.OnboardingCompleted)

	require.NoError(t, env.svc.CompleteOnboarding(context.Background(), id))
	profile, err = env.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, profile.OnboardingCompleted)
	assert.False(t, profile.OnboardingSkipped)
}

func TestSuggestedUsersScoringAndExclusions(t *testing.T) {
	env := newTestEnv(t)
	me := env.createProfile(t, "viewer", 0)
	popular := env.createProfile(t, "popular", 100)
	active := env.createProfile(t, "active", 0)
	followed := env.createProfile(t, "followed", 1000)
	quiet := env.createProfile(t, "quiet", 1)

	// viewer already follows "followed", so it must not be suggested.
	require.NoError(t, env.db.Create(&entitydomain.EntityFollow{
		ID:          env.node.Generate(),
		FollowerID:  me,
		FollowingID: followed,
	}).Error)

	now := env.clock.Now()
	require.NoError(t, env.db.Exec(
		`INSERT INTO ratings (id, product_id, user_id, score, created_at) VALUES (?, ?, ?, ?, ?)`,
		int64(env.node.Generate()), 1, int64(active), 8.0, now.Add(-time.Hour),
	).Error)

	suggestions, err := env.svc.SuggestedUsers(context.Background(), domain.SuggestedUsersRequest{UserID: me, Limit: 10})
	require.NoError(t, err)

	ids := make([]snowflake.ID, 0, len(suggestions))
	for _, s := range suggestions {
		ids = append(ids, s.Profile.ID)
		assert.NotEqual(t, me, s.Profile.ID)
		assert.NotEqual(t, followed, s.Profile.ID)
	}
	require.Len(t, ids, 3)

	// popular: 100*2=200; active: 1*1.5+3=4.5; quiet: 1*2=2.
	assert.Equal(t, popular, ids[0])
	assert.Equal(t, active, ids[1])
	assert.Equal(t, quiet, ids[2])
}
