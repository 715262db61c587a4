package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voozea/voozea/pkg/db"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.Exec(
		`CREATE TABLE businesses (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL,
			avatar_url TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			followers_count INTEGER NOT NULL DEFAULT 0
		)`,
	).Error)
	require.NoError(t, dbConn.Exec(
		`CREATE TABLE products (
			id INTEGER PRIMARY KEY,
			business_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			slug TEXT NOT NULL,
			photo_url TEXT NOT NULL DEFAULT '',
			total_ratings INTEGER NOT NULL DEFAULT 0
		)`,
	).Error)
	require.NoError(t, dbConn.Exec(
		`CREATE TABLE profiles (
			id INTEGER PRIMARY KEY,
			username TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			followers_count INTEGER NOT NULL DEFAULT 0
		)`,
	).Error)

	svc := New(Params{DB: dbConn, Log: zaptest.NewLogger(t)}).(*Service)
	return svc, dbConn
}

func TestSearchQueryFloor(t *testing.T) {
	svc, dbConn := newTestService(t)
	require.NoError(t, dbConn.Exec(
		`INSERT INTO businesses (id, name, slug) VALUES (1, 'A Cafe', 'a-cafe')`,
	).Error)

	for _, query := range []string{"", "a", " a "} {
		result, err := svc.Search(context.Background(), query)
		require.NoError(t, err)
		assert.Empty(t, result.Businesses)
		assert.Empty(t, result.Products)
		assert.Empty(t, result.Users)
	}
}

func TestSearchSpansAllKinds(t *testing.T) {
	svc, dbConn := newTestService(t)
	require.NoError(t, dbConn.Exec(
		`INSERT INTO businesses (id, name, slug, city) VALUES (1, 'Blue Bottle', 'blue-bottle', 'Oakland')`,
	).Error)
	require.NoError(t, dbConn.Exec(
		`INSERT INTO products (id, business_id, name, slug) VALUES (2, 1, 'Blue Label Blend', 'blue-label-blend')`,
	).Error)
	require.NoError(t, dbConn.Exec(
		`INSERT INTO profiles (id, username, display_name) VALUES (3, 'bluesfan', 'Blue Fan')`,
	).Error)

	result, err := svc.Search(context.Background(), "blue")
	require.NoError(t, err)

	require.Len(t, result.Businesses, 1)
	assert.Equal(t, "blue-bottle", result.Businesses[0].Slug)

	require.Len(t, result.Products, 1)
	assert.Equal(t, "Blue Bottle", result.Products[0].BusinessName)
	assert.Equal(t, "blue-bottle", result.Products[0].BusinessSlug)

	require.Len(t, result.Users, 1)
	assert.Equal(t, "bluesfan", result.Users[0].Username)
}

func TestSearchCapsPerKind(t *testing.T) {
	svc, dbConn := newTestService(t)
	for i := 1; i <= 8; i++ {
		require.NoError(t, dbConn.Exec(
			`INSERT INTO businesses (id, name, slug, followers_count) VALUES (?, ?, ?, ?)`,
			i, "Coffee Shop", "coffee-shop", i,
		).Error)
	}

	result, err := svc.Search(context.Background(), "coffee")
	require.NoError(t, err)
	require.Len(t, result.Businesses, 5)
	// Most-followed first.
	assert.EqualValues(t, 8, result.Businesses[0].ID)
}

func TestSearchEscapesWildcards(t *testing.T) {
	svc, dbConn := newTestService(t)
	require.NoError(t, dbConn.Exec(
		`INSERT INTO businesses (id, name, slug) VALUES (1, '100% Juice', '100-juice')`,
	).Error)
	require.NoError(t, dbConn.Exec(
		`INSERT INTO businesses (id, name, slug) VALUES (2, '100 Proof Bar', '100-proof-bar')`,
	).Error)

	result, err := svc.Search(context.Background(), "100%")
	require.NoError(t, err)
	require.Len(t, result.Businesses, 1)
	assert.Equal(t, "100-juice", result.Businesses[0].Slug)
}
