package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/voozea/voozea/internal/auth"
	authdomain "github.com/voozea/voozea/internal/auth/domain"
	"github.com/voozea/voozea/internal/auth/session"
	"github.com/voozea/voozea/internal/business"
	businessdomain "github.com/voozea/voozea/internal/business/domain"
	"github.com/voozea/voozea/internal/cache"
	"github.com/voozea/voozea/internal/category"
	categorydomain "github.com/voozea/voozea/internal/category/domain"
	"github.com/voozea/voozea/internal/clock"
	"github.com/voozea/voozea/internal/config"
	"github.com/voozea/voozea/internal/entity"
	entitydomain "github.com/voozea/voozea/internal/entity/domain"
	"github.com/voozea/voozea/internal/notification"
	notificationdomain "github.com/voozea/voozea/internal/notification/domain"
	"github.com/voozea/voozea/internal/observability"
	"github.com/voozea/voozea/internal/product"
	productdomain "github.com/voozea/voozea/internal/product/domain"
	"github.com/voozea/voozea/internal/profile"
	profiledomain "github.com/voozea/voozea/internal/profile/domain"
	"github.com/voozea/voozea/internal/ratelimit"
	"github.com/voozea/voozea/internal/rating"
	ratingdomain "github.com/voozea/voozea/internal/rating/domain"
	"github.com/voozea/voozea/internal/search"
	"github.com/voozea/voozea/internal/seed"
	"github.com/voozea/voozea/internal/server"
	"github.com/voozea/voozea/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type testEnv struct {
	app     *fx.App
	server  *server.Server
	db      *gorm.DB
	baseURL string
	httpSrv *httptest.Server
}

var env *testEnv

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	setDefaultEnv()

	var err error
	env, err = startEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start test environment:", err)
		os.Exit(1)
	}

	code := m.Run()
	env.shutdown()
	os.Exit(code)
}

func startEnv() (*testEnv, error) {
	var (
		srv    *server.Server
		dbConn *gorm.DB
	)

	app := fx.New(
		config.Module,
		observability.Module,
		clock.Module,
		cache.Module,
		fx.Provide(func() (*gorm.DB, error) {
			return db.NewTest()
		}),
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		auth.Module,
		session.Module,
		profile.Module,
		entity.Module,
		business.Module,
		category.Module,
		product.Module,
		rating.Module,
		notification.Module,
		search.Module,
		ratelimit.Module,
		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Populate(&srv, &dbConn),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return nil, err
	}

	if err := dbConn.AutoMigrate(
		&authdomain.User{},
		&authdomain.Session{},
		&profiledomain.Profile{},
		&entitydomain.EntityRecord{},
		&entitydomain.EntityFollow{},
		&businessdomain.Business{},
		&businessdomain.Membership{},
		&businessdomain.Claim{},
		&businessdomain.Follow{},
		&categorydomain.Category{},
		&productdomain.Product{},
		&ratingdomain.Rating{},
		&ratingdomain.RatingPhoto{},
		&ratingdomain.RatingLike{},
		&ratingdomain.RatingComment{},
		&notificationdomain.Notification{},
	); err != nil {
		_ = app.Stop(context.Background())
		return nil, err
	}

	httpSrv := httptest.NewServer(srv.Engine())

	return &testEnv{
		app:     app,
		server:  srv,
		db:      dbConn,
		baseURL: httpSrv.URL,
		httpSrv: httpSrv,
	}, nil
}

func (e *testEnv) shutdown() {
	if e == nil {
		return
	}
	if e.httpSrv != nil {
		e.httpSrv.Close()
	}
	if e.app != nil {
		_ = e.app.Stop(context.Background())
	}
}

func setDefaultEnv() {
	setEnvIfEmpty("ENVIRONMENT", "test")
	setEnvIfEmpty("AUTH_COOKIE_SECURE", "false")
	setEnvIfEmpty("LOG_LEVEL", "error")
	setEnvIfEmpty("OTEL_ENABLED", "false")
}

func setEnvIfEmpty(key, value string) {
	if strings.TrimSpace(os.Getenv(key)) != "" {
		return
	}
	_ = os.Setenv(key, value)
}

var cleanupTables = []string{
	"rating_photos",
	"rating_likes",
	"rating_comments",
	"ratings",
	"products",
	"business_memberships",
	"business_claims",
	"business_follows",
	"entity_follows",
	"notifications",
	"sessions",
	"entities",
	"businesses",
	"categories",
	"profiles",
	"users",
}

func resetDatabase(t *testing.T, dbConn *gorm.DB) {
	t.Helper()
	for _, table := range cleanupTables {
		if err := dbConn.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clear %s: %v", table, err)
		}
	}
	if err := seed.EnsureDefaultCategories(dbConn); err != nil {
		t.Fatalf("seed categories: %v", err)
	}
	if err := seed.EnsureDefaultAdmin(dbConn); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
}

func newHTTPClient() *http.Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

func doJSON(t *testing.T, client *http.Client, method, reqURL string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, reqURL, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, reqURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, raw
}

func decodeData(t *testing.T, raw []byte, out any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode envelope: %v: %s", err, string(raw))
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v: %s", err, string(envelope.Data))
	}
}

func signupUser(t *testing.T, username string) *http.Client {
	t.Helper()
	client := newHTTPClient()

	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/auth/signup", map[string]any{
		"email":        username + "@example.com",
		"username":     username,
		"password":     "correct horse battery",
		"display_name": username,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup %s failed: %d: %s", username, resp.StatusCode, string(body))
	}
	return client
}

func loginAdmin(t *testing.T) *http.Client {
	t.Helper()
	client := newHTTPClient()

	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/auth/login", map[string]any{
		"email":    "admin@voozea.local",
		"password": "admin",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login failed: %d: %s", resp.StatusCode, string(body))
	}
	return client
}

func createBusiness(t *testing.T, client *http.Client, name string) businessdomain.Business {
	t.Helper()

	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/api/businesses", map[string]any{
		"name": name,
		"city": "Oakland",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create business failed: %d: %s", resp.StatusCode, string(body))
	}

	var business businessdomain.Business
	decodeData(t, body, &business)
	return business
}

func createProduct(t *testing.T, client *http.Client, businessID snowflake.ID, name string) productdomain.Product {
	t.Helper()

	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/api/products", map[string]any{
		"business_id": businessID.String(),
		"name":        name,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create product failed: %d: %s", resp.StatusCode, string(body))
	}

	var created productdomain.Product
	decodeData(t, body, &created)
	return created
}

func TestE2E_HealthCheck(t *testing.T) {
	resetDatabase(t, env.db)

	resp, err := http.Get(env.baseURL + "/healthz")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestE2E_SignupAndProfile(t *testing.T) {
	resetDatabase(t, env.db)

	client := signupUser(t, "alice")

	resp, body := doJSON(t, client, http.MethodGet, env.baseURL+"/auth/me", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me failed: %d: %s", resp.StatusCode, string(body))
	}
	var me profiledomain.Profile
	decodeData(t, body, &me)
	if me.Username != "alice" {
		t.Fatalf("expected username alice, got %s", me.Username)
	}

	resp, body = doJSON(t, client, http.MethodPatch, env.baseURL+"/api/profile", map[string]any{
		"bio": "coffee person",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update profile failed: %d: %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, client, http.MethodPost, env.baseURL+"/api/profile/onboarding/complete", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete onboarding failed: %d: %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, client, http.MethodGet, env.baseURL+"/auth/me", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me after update failed: %d", resp.StatusCode)
	}
	decodeData(t, body, &me)
	if me.Bio != "coffee person" || !me.OnboardingCompleted {
		t.Fatalf("profile not updated: %+v", me)
	}

	// Duplicate username is rejected.
	dup := newHTTPClient()
	resp, _ = doJSON(t, dup, http.MethodPost, env.baseURL+"/auth/signup", map[string]any{
		"email":    "alice2@example.com",
		"username": "alice",
		"password": "correct horse battery",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate username, got %d", resp.StatusCode)
	}
}

func TestE2E_BusinessAndRatingFlow(t *testing.T) {
	resetDatabase(t, env.db)

	owner := signupUser(t, "owner")
	rater := signupUser(t, "rater")

	created := createBusiness(t, owner, "Blue Bottle")
	if created.OwnerID == nil || !created.IsClaimed {
		t.Fatalf("creator should own the business: %+v", created)
	}

	productCreated := createProduct(t, owner, created.ID, "Espresso")

	// Only the team can add products.
	resp, body := doJSON(t, rater, http.MethodPost, env.baseURL+"/api/products", map[string]any{
		"business_id": created.ID.String(),
		"name":        "Intruder Latte",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for outsider product create, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, rater, http.MethodPost, env.baseURL+"/api/ratings", map[string]any{
		"product_id": productCreated.ID.String(),
		"score":      8.5,
		"comment":    "bright and clean",
		"photos":     []string{"https://cdn.example.com/espresso.jpg"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("rate failed: %d: %s", resp.StatusCode, string(body))
	}
	var rated ratingdomain.Rating
	decodeData(t, body, &rated)

	resp, body = doJSON(t, rater, http.MethodGet, env.baseURL+"/api/products/"+productCreated.ID.String(), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get product failed: %d", resp.StatusCode)
	}
	var productAfter productdomain.Product
	decodeData(t, body, &productAfter)
	if productAfter.TotalRatings != 1 || productAfter.AverageRating != 8.5 {
		t.Fatalf("product aggregates not updated: %+v", productAfter)
	}

	// Re-rating the same product updates in place.
	resp, body = doJSON(t, rater, http.MethodPost, env.baseURL+"/api/ratings", map[string]any{
		"product_id": productCreated.ID.String(),
		"score":      6.0,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("re-rate failed: %d: %s", resp.StatusCode, string(body))
	}
	resp, body = doJSON(t, rater, http.MethodGet, env.baseURL+"/api/products/"+productCreated.ID.String(), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get product after re-rate failed: %d", resp.StatusCode)
	}
	decodeData(t, body, &productAfter)
	if productAfter.TotalRatings != 1 || productAfter.AverageRating != 6.0 {
		t.Fatalf("re-rate should replace the score: %+v", productAfter)
	}

	// Owner likes the rating; the rating author is notified.
	resp, body = doJSON(t, owner, http.MethodPost, env.baseURL+"/api/ratings/"+rated.ID.String()+"/like", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("like failed: %d: %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, rater, http.MethodGet, env.baseURL+"/api/notifications/unread-count", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unread count failed: %d", resp.StatusCode)
	}
	var count struct {
		Count int64 `json:"count"`
	}
	decodeData(t, body, &count)
	if count.Count != 1 {
		t.Fatalf("expected 1 unread notification, got %d", count.Count)
	}

	// Follower count moves with business follows, and the owner hears about it.
	resp, body = doJSON(t, rater, http.MethodPost, env.baseURL+"/api/businesses/"+created.ID.String()+"/follow", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("follow business failed: %d: %s", resp.StatusCode, string(body))
	}
	resp, body = doJSON(t, rater, http.MethodGet, env.baseURL+"/api/businesses/"+created.ID.String(), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get business failed: %d", resp.StatusCode)
	}
	var businessAfter businessdomain.Business
	decodeData(t, body, &businessAfter)
	if businessAfter.FollowersCount != 1 {
		t.Fatalf("expected followers_count 1, got %d", businessAfter.FollowersCount)
	}

	resp, body = doJSON(t, owner, http.MethodGet, env.baseURL+"/api/notifications", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner notifications failed: %d", resp.StatusCode)
	}
	var list notificationdomain.ListResponse
	decodeData(t, body, &list)
	if len(list.Notifications) != 1 || list.Notifications[0].Notification.Type != notificationdomain.TypeBusinessFollow {
		t.Fatalf("expected one business_follow notification, got %+v", list.Notifications)
	}
}

func TestE2E_ClaimLifecycle(t *testing.T) {
	resetDatabase(t, env.db)

	// Unclaimed businesses enter the catalog through imports, not the API.
	businessID := snowflake.ID(987654321)
	if err := env.db.Exec(
		`INSERT INTO businesses (id, slug, name, is_claimed, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		businessID, "corner-cafe", "Corner Cafe", false, time.Now().UTC(), time.Now().UTC(),
	).Error; err != nil {
		t.Fatalf("insert unclaimed business: %v", err)
	}
	if err := env.db.Exec(
		`INSERT INTO entities (id, entity_type, created_at) VALUES (?, ?, ?)`,
		businessID, "business", time.Now().UTC(),
	).Error; err != nil {
		t.Fatalf("insert entity row: %v", err)
	}

	claimant := signupUser(t, "claimant")

	// Too-short reasons are rejected up front.
	resp, body := doJSON(t, claimant, http.MethodPost, env.baseURL+"/api/businesses/"+businessID.String()+"/claims", map[string]any{
		"reason": "mine",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for short reason, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, claimant, http.MethodPost, env.baseURL+"/api/businesses/"+businessID.String()+"/claims", map[string]any{
		"reason": "I have run this cafe since 2019",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit claim failed: %d: %s", resp.StatusCode, string(body))
	}
	var claim businessdomain.Claim
	decodeData(t, body, &claim)

	// Claim review is admin-only.
	resp, _ = doJSON(t, claimant, http.MethodPost, env.baseURL+"/admin/claims/"+claim.ID.String()+"/approve", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin approve, got %d", resp.StatusCode)
	}

	admin := loginAdmin(t)

	resp, body = doJSON(t, admin, http.MethodGet, env.baseURL+"/admin/claims", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list claims failed: %d: %s", resp.StatusCode, string(body))
	}
	var pending []businessdomain.Claim
	decodeData(t, body, &pending)
	if len(pending) != 1 {
		t.Fatalf("expected one pending claim, got %d", len(pending))
	}

	resp, body = doJSON(t, admin, http.MethodPost, env.baseURL+"/admin/claims/"+claim.ID.String()+"/approve", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve claim failed: %d: %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, claimant, http.MethodGet, env.baseURL+"/api/businesses/"+businessID.String(), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get business failed: %d", resp.StatusCode)
	}
	var claimed businessdomain.Business
	decodeData(t, body, &claimed)
	if !claimed.IsClaimed || claimed.OwnerID == nil {
		t.Fatalf("business should be claimed: %+v", claimed)
	}

	resp, body = doJSON(t, claimant, http.MethodGet, env.baseURL+"/auth/me", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me failed: %d", resp.StatusCode)
	}
	var me profiledomain.Profile
	decodeData(t, body, &me)
	if !me.IsBusinessOwner {
		t.Fatalf("claimant should be flagged as business owner")
	}

	resp, body = doJSON(t, claimant, http.MethodGet, env.baseURL+"/api/notifications", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("claimant notifications failed: %d", resp.StatusCode)
	}
	var list notificationdomain.ListResponse
	decodeData(t, body, &list)
	if len(list.Notifications) != 1 || list.Notifications[0].Notification.Type != notificationdomain.TypeClaimApproved {
		t.Fatalf("expected claim_approved notification, got %+v", list.Notifications)
	}

	// Approving twice is a conflict.
	resp, _ = doJSON(t, admin, http.MethodPost, env.baseURL+"/admin/claims/"+claim.ID.String()+"/approve", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for double approve, got %d", resp.StatusCode)
	}
}

func TestE2E_TeamInvites(t *testing.T) {
	resetDatabase(t, env.db)

	owner := signupUser(t, "teamowner")
	manager := signupUser(t, "newmanager")

	created := createBusiness(t, owner, "Team Cafe")

	resp, body := doJSON(t, owner, http.MethodPost, env.baseURL+"/api/businesses/"+created.ID.String()+"/team/invites", map[string]any{
		"username": "newmanager",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("invite failed: %d: %s", resp.StatusCode, string(body))
	}
	var invite businessdomain.Membership
	decodeData(t, body, &invite)
	if invite.Status != businessdomain.MembershipPending {
		t.Fatalf("expected pending invite, got %s", invite.Status)
	}

	resp, body = doJSON(t, manager, http.MethodPost, env.baseURL+"/api/team/invites/"+invite.ID.String()+"/accept", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("accept invite failed: %d: %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, manager, http.MethodGet, env.baseURL+"/api/businesses/"+created.ID.String()+"/role", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("role lookup failed: %d", resp.StatusCode)
	}
	var role struct {
		Role businessdomain.Role `json:"role"`
	}
	decodeData(t, body, &role)
	if role.Role != businessdomain.RoleManager {
		t.Fatalf("expected manager role, got %s", role.Role)
	}

	// Active managers can add products.
	createProduct(t, manager, created.ID, "Manager Special")
}

func TestE2E_GlobalSearch(t *testing.T) {
	resetDatabase(t, env.db)

	owner := signupUser(t, "bluesfan")
	created := createBusiness(t, owner, "Blue Bottle")
	createProduct(t, owner, created.ID, "Blue Label Blend")

	client := newHTTPClient()
	resp, body := doJSON(t, client, http.MethodGet, env.baseURL+"/api/search?q=blue", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search failed: %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Businesses []struct {
			Slug string `json:"slug"`
		} `json:"businesses"`
		Products []struct {
			BusinessSlug string `json:"business_slug"`
		} `json:"products"`
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
	}
	decodeData(t, body, &result)

	if len(result.Businesses) != 1 || result.Businesses[0].Slug != "blue-bottle" {
		t.Fatalf("expected blue-bottle business hit: %+v", result.Businesses)
	}
	if len(result.Products) != 1 || result.Products[0].BusinessSlug != "blue-bottle" {
		t.Fatalf("expected product hit joined to business: %+v", result.Products)
	}
	if len(result.Users) != 1 || result.Users[0].Username != "bluesfan" {
		t.Fatalf("expected user hit: %+v", result.Users)
	}
}
