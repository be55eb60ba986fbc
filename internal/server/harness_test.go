package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"communityapi/internal/config"
	"communityapi/internal/database"
	"communityapi/internal/middleware"
	"communityapi/internal/repository"
	"communityapi/internal/service"
	"communityapi/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer wires a Server over in-memory SQLite and a temp-dir media
// store, with routes mounted on a bare Fiber app. The Prometheus middleware
// is left out so repeated test servers do not re-register collectors.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:       "test-secret-0123456789-0123456789",
		JWTCookieExpiry: 7,
		UploadDir:       t.TempDir(),
		Env:             "test",
		Policy:          config.NewAuthorizationPolicy("root@example.com"),
	}
	middleware.InitMiddleware(cfg)

	media := storage.NewLocalMediaStore(cfg.UploadDir)

	s := &Server{
		config:         cfg,
		db:             db,
		media:          media,
		mediaRoot:      media.Root(),
		customerRepo:   repository.NewCustomerRepository(db),
		postRepo:       repository.NewPostRepository(db),
		reactionRepo:   repository.NewReactionRepository(db),
		membershipRepo: repository.NewMembershipRepository(db),
		communityRepo:  repository.NewCommunityRepository(db),
	}
	s.customerService = service.NewCustomerService(s.customerRepo, s.postRepo, s.reactionRepo, s.membershipRepo, media)
	s.communityService = service.NewCommunityService(s.communityRepo, s.membershipRepo)
	s.postService = service.NewPostService(s.postRepo, s.reactionRepo, s.membershipRepo, s.communityRepo, media)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// doJSON issues a JSON request, optionally with a bearer token, and decodes
// the JSON response body into a generic map.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

var signupSeq int

// signupCustomer registers a fresh account through the API and returns its
// token and customer ID.
func signupCustomer(t *testing.T, app *fiber.App, email string) (string, uint) {
	t.Helper()

	if email == "" {
		signupSeq++
		email = fmt.Sprintf("customer%d@example.com", signupSeq)
	}
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"name":     "Test Customer",
		"email":    email,
		"password": "Sup3rSecret",
	})
	require.Equal(t, http.StatusCreated, status, "signup body: %v", body)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	customer, _ := body["customer"].(map[string]any)
	require.NotNil(t, customer)
	id, _ := customer["id"].(float64)
	return token, uint(id)
}

// createCommunity creates a community through the API and returns its ID.
func createCommunity(t *testing.T, app *fiber.App, token, title string) uint {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/communities", token, map[string]any{
		"title": title,
		"image": "/public/communities/c.png",
	})
	require.Equal(t, http.StatusCreated, status, "create community body: %v", body)
	community, _ := body["community"].(map[string]any)
	require.NotNil(t, community)
	id, _ := community["id"].(float64)
	return uint(id)
}

// joinCommunity joins through the API.
func joinCommunity(t *testing.T, app *fiber.App, token string, communityID uint) {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/communities/%d/join", communityID), token, nil)
	require.Equal(t, http.StatusCreated, status, "join body: %v", body)
}

// createPost publishes a post through the API and returns its ID.
func createPost(t *testing.T, app *fiber.App, token string, communityID uint, text string) uint {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"community_id": communityID,
		"text":         text,
	})
	require.Equal(t, http.StatusCreated, status, "create post body: %v", body)
	post, _ := body["post"].(map[string]any)
	require.NotNil(t, post)
	id, _ := post["id"].(float64)
	return uint(id)
}
