package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voozea/voozea/internal/clock"
	entitydomain "github.com/voozea/voozea/internal/entity/domain"
	"github.com/voozea/voozea/internal/notification/domain"
	"github.com/voozea/voozea/internal/notification/repository"
	"github.com/voozea/voozea/internal/observability/metrics"
	"github.com/voozea/voozea/pkg/db"
	"go.uber.org/zap/zaptest"
)

type fakeEntityService struct {
	entitydomain.Service
	entities map[snowflake.ID]*entitydomain.Entity
}

func (f *fakeEntityService) Resolve(_ context.Context, id snowflake.ID) (*entitydomain.Entity, error) {
	return f.entities[id], nil
}

func newTestService(t *testing.T) (domain.Service, *fakeEntityService, *snowflake.Node) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.Notification{}))

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	entities := &fakeEntityService{entities: map[snowflake.ID]*entitydomain.Entity{}}
	svc := New(Params{
		DB:       dbConn,
		Log:      zaptest.NewLogger(t),
		GenID:    node,
		Repo:     repository.New(dbConn),
		Clock:    clock.NewFakeClock(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)),
		Entities: entities,
		Metrics:  metrics.New(),
	})
	return svc, entities, node
}

func TestEmitSkipsSelfNotification(t *testing.T) {
	svc, _, node := newTestService(t)
	user := node.Generate()

	require.NoError(t, svc.Emit(context.Background(), domain.EmitRequest{
		RecipientID: user,
		Type:        domain.TypeLike,
		ActorID:     &user,
	}))

	count, err := svc.UnreadCount(context.Background(), user)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListNewestFirstWithActorProjection(t *testing.T) {
	svc, entities, node := newTestService(t)
	recipient := node.Generate()
	actor := node.Generate()
	ghost := node.Generate()

	entities.entities[actor] = &entitydomain.Entity{
		ID:   actor,
		Type: entitydomain.EntityTypeUser,
		Name: "Actor",
	}

	require.NoError(t, svc.Emit(context.Background(), domain.EmitRequest{
		RecipientID:   recipient,
		Type:          domain.TypeFollow,
		ActorID:       &actor,
		ActorEntityID: &actor,
	}))
	require.NoError(t, svc.Emit(context.Background(), domain.EmitRequest{
		RecipientID:   recipient,
		Type:          domain.TypeBusinessFollow,
		ActorID:       &ghost,
		ActorEntityID: &ghost,
	}))

	resp, err := svc.List(context.Background(), domain.ListRequest{UserID: recipient})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 2)

	// Same created_at, so ordering falls back to id desc: last emitted first.
	assert.Equal(t, domain.TypeBusinessFollow, resp.Notifications[0].Notification.Type)
	assert.Nil(t, resp.Notifications[0].Actor)
	assert.Equal(t, domain.TypeFollow, resp.Notifications[1].Notification.Type)
	require.NotNil(t, resp.Notifications[1].Actor)
	assert.Equal(t, "Actor", resp.Notifications[1].Actor.Name)
}

func TestMarkReadOwnership(t *testing.T) {
	svc, _, node := newTestService(t)
	recipient := node.Generate()
	stranger := node.Generate()
	actor := node.Generate()

	require.NoError(t, svc.Emit(context.Background(), domain.EmitRequest{
		RecipientID: recipient,
		Type:        domain.TypeComment,
		ActorID:     &actor,
	}))

	resp, err := svc.List(context.Background(), domain.ListRequest{UserID: recipient})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	id := resp.Notifications[0].Notification.ID

	assert.ErrorIs(t, svc.MarkRead(context.Background(), stranger, id), domain.ErrNotRecipient)
	require.NoError(t, svc.MarkRead(context.Background(), recipient, id))

	count, err := svc.UnreadCount(context.Background(), recipient)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkAllRead(t *testing.T) {
	svc, _, node := newTestService(t)
	recipient := node.Generate()
	actor := node.Generate()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Emit(context.Background(), domain.EmitRequest{
			RecipientID: recipient,
			Type:        domain.TypeLike,
			ActorID:     &actor,
		}))
	}

	count, err := svc.UnreadCount(context.Background(), recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, svc.MarkAllRead(context.Background(), recipient))
	count, err = svc.UnreadCount(context.Background(), recipient)
	require.NoError(t, err)
	assert.Zero(t, count)
}
