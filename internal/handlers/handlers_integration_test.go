package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"blog/internal/config"
	"blog/internal/database/dbtest"
	"blog/internal/models"
	"blog/internal/schemas"
	"blog/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestMain silences application logging during tests.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// setupApp builds the full application over a private in-memory store.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	app := server.New(config.Config{MediaDir: t.TempDir()}, db, nil)
	return app, db
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func createUser(t *testing.T, app *fiber.App, username, email string) schemas.UserResponse {
	t.Helper()
	resp, body := doRequest(t, app, http.MethodPost, "/api/users", map[string]string{
		"username": username,
		"email":    email,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var user schemas.UserResponse
	require.NoError(t, json.Unmarshal(body, &user))
	return user
}

func createPost(t *testing.T, app *fiber.App, title, content string, userID uint) schemas.PostResponse {
	t.Helper()
	resp, body := doRequest(t, app, http.MethodPost, "/api/posts", map[string]any{
		"title":   title,
		"content": content,
		"user_id": userID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var post schemas.PostResponse
	require.NoError(t, json.Unmarshal(body, &post))
	return post
}

func detailOf(t *testing.T, body []byte) any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload), string(body))
	require.Contains(t, payload, "detail")
	return payload["detail"]
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreateUserAndPost_ExampleScenario(t *testing.T) {
	app, _ := setupApp(t)

	user := createUser(t, app, "alice", "alice@example.com")
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Nil(t, user.ImageFile)
	assert.Equal(t, "/static/profile_pics/default.jpg", user.ImagePath)

	before := time.Now()
	post := createPost(t, app, "Hi", "Hello world", user.ID)
	assert.NotZero(t, post.ID)
	assert.Equal(t, user.ID, post.UserID)
	assert.Equal(t, "alice", post.Author.Username)
	assert.WithinDuration(t, before, post.DatePosted, time.Minute)
}

func TestCreateUser_Conflicts(t *testing.T) {
	app, db := setupApp(t)
	createUser(t, app, "alice", "alice@example.com")

	resp, body := doRequest(t, app, http.MethodPost, "/api/users", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username already exists.", detailOf(t, body))

	resp, body = doRequest(t, app, http.MethodPost, "/api/users", map[string]string{
		"username": "bob",
		"email":    "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already registered.", detailOf(t, body))

	assert.Equal(t, int64(1), countRows(t, db, &models.User{}))
}

func TestCreateUser_ValidationFailure(t *testing.T) {
	app, db := setupApp(t)

	resp, body := doRequest(t, app, http.MethodPost, "/api/users", map[string]string{
		"username": "",
		"email":    "not-an-email",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	violations, ok := detailOf(t, body).([]any)
	require.True(t, ok, string(body))
	require.Len(t, violations, 2)
	assert.Equal(t, []any{"body", "username"}, violations[0].(map[string]any)["loc"])
	assert.Equal(t, []any{"body", "email"}, violations[1].(map[string]any)["loc"])
	assert.Equal(t, int64(0), countRows(t, db, &models.User{}))

	resp, _ = doRequest(t, app, http.MethodPost, "/api/users", `{"username": "alice",`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCreatePost_WrongFieldType(t *testing.T) {
	app, db := setupApp(t)

	resp, body := doRequest(t, app, http.MethodPost, "/api/posts", map[string]any{
		"title":   "x",
		"content": "y",
		"user_id": -3,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.NotContains(t, string(body), "Go struct")

	violations, ok := detailOf(t, body).([]any)
	require.True(t, ok, string(body))
	require.Len(t, violations, 1)
	assert.Equal(t, []any{"body", "user_id"}, violations[0].(map[string]any)["loc"])
	assert.Equal(t, "int_type", violations[0].(map[string]any)["type"])
	assert.Equal(t, int64(0), countRows(t, db, &models.Post{}))
}

func TestCreatePost_UnknownUser(t *testing.T) {
	app, db := setupApp(t)

	resp, body := doRequest(t, app, http.MethodPost, "/api/posts", map[string]any{
		"title":   "Orphan",
		"content": "nobody wrote this",
		"user_id": 999,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found.", detailOf(t, body))
	assert.Equal(t, int64(0), countRows(t, db, &models.Post{}))
}

func TestCreatePost_EmptyContent(t *testing.T) {
	app, db := setupApp(t)
	user := createUser(t, app, "alice", "alice@example.com")

	resp, body := doRequest(t, app, http.MethodPost, "/api/posts", map[string]any{
		"title":   "Empty",
		"content": "",
		"user_id": user.ID,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	violations, ok := detailOf(t, body).([]any)
	require.True(t, ok, string(body))
	require.Len(t, violations, 1)
	assert.Equal(t, []any{"body", "content"}, violations[0].(map[string]any)["loc"])
	assert.Equal(t, int64(0), countRows(t, db, &models.Post{}))
}

func TestPost_RoundTripAndIdempotentReads(t *testing.T) {
	app, _ := setupApp(t)
	user := createUser(t, app, "alice", "alice@example.com")
	created := createPost(t, app, "Round trip", "There and back again", user.ID)

	resp, first := doRequest(t, app, http.MethodGet, fmtPath("/api/posts/", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched schemas.PostResponse
	require.NoError(t, json.Unmarshal(first, &fetched))

	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, created.Content, fetched.Content)
	assert.Equal(t, created.UserID, fetched.UserID)
	assert.Equal(t, created.Author, fetched.Author)
	assert.True(t, created.DatePosted.Equal(fetched.DatePosted))

	_, second := doRequest(t, app, http.MethodGet, fmtPath("/api/posts/", created.ID), nil)
	assert.Equal(t, string(first), string(second))
}

func TestGetEndpoints(t *testing.T) {
	app, _ := setupApp(t)
	alice := createUser(t, app, "alice", "alice@example.com")
	bob := createUser(t, app, "bob", "bob@example.com")
	createPost(t, app, "First", "one", alice.ID)
	createPost(t, app, "Second", "two", bob.ID)
	createPost(t, app, "Third", "three", alice.ID)

	resp, body := doRequest(t, app, http.MethodGet, fmtPath("/api/users/", alice.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user schemas.UserResponse
	require.NoError(t, json.Unmarshal(body, &user))
	assert.Equal(t, alice, user)

	resp, body = doRequest(t, app, http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []schemas.PostResponse
	require.NoError(t, json.Unmarshal(body, &all))
	require.Len(t, all, 3)
	// Unmodified table in the embedded store: ascending primary key.
	assert.Equal(t, "First", all[0].Title)
	assert.Equal(t, "bob", all[1].Author.Username)
	assert.Equal(t, "Third", all[2].Title)

	resp, body = doRequest(t, app, http.MethodGet, fmtPath("/api/users/", alice.ID)+"/posts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []schemas.PostResponse
	require.NoError(t, json.Unmarshal(body, &mine))
	require.Len(t, mine, 2)
	for _, p := range mine {
		assert.Equal(t, alice.ID, p.UserID)
	}

	carol := createUser(t, app, "carol", "carol@example.com")
	resp, body = doRequest(t, app, http.MethodGet, fmtPath("/api/users/", carol.ID)+"/posts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestErrorNegotiation_ByPath(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/api/users/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"detail": "User not found."}`, string(body))

	resp, body = doRequest(t, app, http.MethodGet, "/api/users/999/posts", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"detail": "User not found."}`, string(body))

	resp, body = doRequest(t, app, http.MethodGet, "/api/posts/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"detail": "Post not found."}`, string(body))

	resp, body = doRequest(t, app, http.MethodGet, "/users/999/posts", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "<h1>404</h1>")
	assert.Contains(t, string(body), "User not found.")
	assert.NotContains(t, string(body), `"detail"`)

	resp, body = doRequest(t, app, http.MethodGet, "/posts/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "Post not found.")
}

func TestErrorNegotiation_InvalidPathParams(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/api/posts/abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	violations, ok := detailOf(t, body).([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"path", "post_id"}, violations[0].(map[string]any)["loc"])

	// HTML pages never show the violation list.
	resp, body = doRequest(t, app, http.MethodGet, "/posts/abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "The resource you are looking for does not exist.")
	assert.NotContains(t, string(body), "post_id")
}

func TestErrorNegotiation_UnknownRoutes(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"detail": "Not Found"}`, string(body))

	resp, body = doRequest(t, app, http.MethodGet, "/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "<title>Blog - 404</title>")
}

func TestPages(t *testing.T) {
	app, _ := setupApp(t)
	alice := createUser(t, app, "alice", "alice@example.com")
	longTitle := strings.Repeat("A", 60)
	post := createPost(t, app, longTitle, "A rather long post body", alice.ID)
	createPost(t, app, "Short", "tiny", alice.ID)

	for _, path := range []string{"/", "/posts"} {
		resp, body := doRequest(t, app, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Contains(t, string(body), "<title>Blog - Home</title>")
		assert.Contains(t, string(body), "Short")
		assert.Contains(t, string(body), "alice")
		assert.Contains(t, string(body), "/static/profile_pics/default.jpg")
	}

	resp, body := doRequest(t, app, http.MethodGet, fmtPath("/posts/", post.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "<title>Blog - "+strings.Repeat("A", 50)+"</title>")
	assert.Contains(t, string(body), "A rather long post body")

	resp, body = doRequest(t, app, http.MethodGet, fmtPath("/users/", alice.ID)+"/posts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "<title>Blog - Posts by alice</title>")
	assert.Contains(t, string(body), "Short")
}

func TestStaticAndHealth(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doRequest(t, app, http.MethodGet, "/static/profile_pics/default.jpg", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doRequest(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"healthy"`)

	resp, body = doRequest(t, app, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `blog_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func fmtPath(prefix string, id uint) string {
	return prefix + strconv.FormatUint(uint64(id), 10)
}
