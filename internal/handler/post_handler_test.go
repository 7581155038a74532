package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/mysite/internal/db"
	"github.com/mysite/internal/view"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	api    *API
	engine *gin.Engine
	user   db.User
	cookie string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared&_foreign_keys=on", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	if _, err := db.EnsureUserIn(gdb, "tester", "secret"); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	var user db.User
	if err := gdb.Where("username = ?", "tester").First(&user).Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	api := NewAPI(gdb, Options{SiteName: "Test Blog"})

	r := gin.New()
	r.Use(RequestID())
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.SetHTMLTemplate(view.MustTemplates())

	r.GET("/", api.ShowPostList)
	r.GET("/post/:id", api.ShowPostDetail)
	r.GET("/login", api.ShowLoginPage)
	r.POST("/login", api.Login)
	r.GET("/logout", api.Logout)
	r.GET("/api/posts", api.GetPublishedPosts)
	r.GET("/api/posts/:id", api.GetPublishedPost)

	auth := r.Group("")
	auth.Use(AuthRequired(api.LoginPath()))
	auth.GET("/drafts", api.ShowDrafts)
	auth.GET("/post/new", api.ShowPostCreate)
	auth.POST("/post/new", api.CreatePost)
	auth.POST("/post/:id/edit", api.UpdatePost)
	auth.GET("/post/:id/remove", api.ShowPostDelete)
	auth.POST("/post/:id/remove", api.DeletePost)
	auth.POST("/post/:id/publish", api.PublishPost)
	auth.GET("/post/:id/comment", api.ShowCommentForm)
	auth.POST("/post/:id/comment", api.AddComment)
	auth.GET("/comment/:id/approve", api.ApproveComment)
	auth.GET("/comment/:id/remove", api.RemoveComment)

	return &testEnv{api: api, engine: r, user: user}
}

func (e *testEnv) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if e.cookie != "" {
		req.Header.Set("Cookie", e.cookie)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/login", url.Values{"username": {"tester"}, "password": {"secret"}})
	if w.Code != http.StatusFound {
		t.Fatalf("expected login redirect, got %d: %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie after login")
	}
	e.cookie = cookies[0].Name + "=" + cookies[0].Value
}

func (e *testEnv) createPost(t *testing.T, title, body string, publish bool) db.Post {
	t.Helper()

	post, err := e.api.posts.Create(postInput(title, body, e.user.ID))
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if publish {
		if _, err := e.api.posts.Publish(post.ID); err != nil {
			t.Fatalf("publish post: %v", err)
		}
	}
	return *post
}

func TestShowPostListOnlyPublished(t *testing.T) {
	env := setupTestEnv(t)
	env.createPost(t, "Visible post", "body", true)
	env.createPost(t, "Hidden draft", "body", false)

	w := env.do(t, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Visible post") {
		t.Fatalf("expected published post in list")
	}
	if strings.Contains(body, "Hidden draft") {
		t.Fatalf("expected draft to be hidden from list")
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestShowPostDetailRendersMarkdownAndHidesPending(t *testing.T) {
	env := setupTestEnv(t)
	post := env.createPost(t, "Markdown", "**bold** <script>alert(1)</script>", true)

	pending, err := env.api.comments.Add(post.ID, commentInput("anon", "pending words"))
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	approved, err := env.api.comments.Add(post.ID, commentInput("anon", "approved words"))
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if _, err := env.api.comments.Approve(approved.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	w := env.do(t, http.MethodGet, fmt.Sprintf("/post/%d", post.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<strong>bold</strong>") {
		t.Fatalf("expected rendered markdown, got %s", body)
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("expected script tag to be sanitized")
	}
	if !strings.Contains(body, "approved words") || strings.Contains(body, "pending words") {
		t.Fatalf("expected only approved comment for anonymous viewer")
	}

	env.login(t)
	w = env.do(t, http.MethodGet, fmt.Sprintf("/post/%d", post.ID), nil)
	if !strings.Contains(w.Body.String(), "pending words") {
		t.Fatalf("expected logged in viewer to see pending comment %d", pending.ID)
	}
}

func TestShowPostDetailNotFound(t *testing.T) {
	env := setupTestEnv(t)

	for _, target := range []string{"/post/999", "/post/abc"} {
		w := env.do(t, http.MethodGet, target, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected status 404, got %d", target, w.Code)
		}
	}
}

func TestAnonymousMutationsRedirectToLogin(t *testing.T) {
	env := setupTestEnv(t)
	post := env.createPost(t, "Keep me", "body", true)

	tests := []struct {
		method string
		target string
	}{
		{http.MethodPost, fmt.Sprintf("/post/%d/remove", post.ID)},
		{http.MethodPost, "/post/new"},
		{http.MethodGet, "/drafts"},
		{http.MethodPost, fmt.Sprintf("/post/%d/publish", post.ID)},
		{http.MethodGet, fmt.Sprintf("/post/%d/comment", post.ID)},
	}

	for _, tt := range tests {
		w := env.do(t, tt.method, tt.target, url.Values{})
		if w.Code != http.StatusFound {
			t.Fatalf("%s %s: expected redirect, got %d", tt.method, tt.target, w.Code)
		}
		want := "/login?next=" + url.QueryEscape(tt.target)
		if got := w.Header().Get("Location"); got != want {
			t.Fatalf("%s %s: expected location %q, got %q", tt.method, tt.target, want, got)
		}
	}

	if _, err := env.api.posts.Get(post.ID); err != nil {
		t.Fatalf("expected post to survive anonymous delete: %v", err)
	}
}

func TestCreatePostRedirectsToDetail(t *testing.T) {
	env := setupTestEnv(t)
	env.login(t)

	w := env.do(t, http.MethodPost, "/post/new", url.Values{"title": {"Hello"}, "body": {"World"}})
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d: %s", w.Code, w.Body.String())
	}

	var created db.Post
	if err := env.api.DB().First(&created).Error; err != nil {
		t.Fatalf("failed to load created post: %v", err)
	}
	if created.Title != "Hello" || created.Body != "World" {
		t.Fatalf("unexpected post %+v", created)
	}
	if created.PublishedDate != nil {
		t.Fatalf("expected created post to be a draft")
	}
	if created.AuthorID != env.user.ID {
		t.Fatalf("expected author %d, got %d", env.user.ID, created.AuthorID)
	}
	if got := w.Header().Get("Location"); got != fmt.Sprintf("/post/%d", created.ID) {
		t.Fatalf("unexpected redirect %q", got)
	}
}

func TestCreatePostValidationRerendersForm(t *testing.T) {
	env := setupTestEnv(t)
	env.login(t)

	w := env.do(t, http.MethodPost, "/post/new", url.Values{"title": {""}, "body": {"kept body"}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "This field is required.") || !strings.Contains(body, "kept body") {
		t.Fatalf("expected form with errors and submitted body, got %s", body)
	}

	var count int64
	env.api.DB().Model(&db.Post{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no post persisted, got %d", count)
	}
}

func TestUpdatePostNotFound(t *testing.T) {
	env := setupTestEnv(t)
	env.login(t)

	w := env.do(t, http.MethodPost, "/post/42/edit", url.Values{"title": {"t"}, "body": {"b"}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestPublishAndDeleteFlow(t *testing.T) {
	env := setupTestEnv(t)
	env.login(t)
	post := env.createPost(t, "Lifecycle", "body", false)

	w := env.do(t, http.MethodGet, "/drafts", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Lifecycle") {
		t.Fatalf("expected draft listed, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, fmt.Sprintf("/post/%d", post.ID), nil)
	if !strings.Contains(w.Body.String(), `class="draft"`) ||
		!strings.Contains(w.Body.String(), fmt.Sprintf(`action="/post/%d/publish"`, post.ID)) {
		t.Fatalf("expected draft marker and publish button: %s", w.Body.String())
	}

	w = env.do(t, http.MethodPost, fmt.Sprintf("/post/%d/publish", post.ID), url.Values{})
	if w.Code != http.StatusFound || w.Header().Get("Location") != fmt.Sprintf("/post/%d", post.ID) {
		t.Fatalf("expected redirect to detail, got %d %q", w.Code, w.Header().Get("Location"))
	}

	w = env.do(t, http.MethodGet, fmt.Sprintf("/post/%d", post.ID), nil)
	if strings.Contains(w.Body.String(), `class="draft"`) ||
		strings.Contains(w.Body.String(), fmt.Sprintf(`action="/post/%d/publish"`, post.ID)) {
		t.Fatalf("expected published detail without draft controls: %s", w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/", nil)
	if !strings.Contains(w.Body.String(), "Lifecycle") {
		t.Fatalf("expected published post in public list")
	}

	w = env.do(t, http.MethodGet, fmt.Sprintf("/post/%d/remove", post.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected confirmation page, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, fmt.Sprintf("/post/%d/remove", post.ID), url.Values{})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to list, got %d %q", w.Code, w.Header().Get("Location"))
	}

	w = env.do(t, http.MethodGet, fmt.Sprintf("/post/%d", post.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected deleted post to 404, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, fmt.Sprintf("/post/%d/publish", post.ID), url.Values{})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected publish of deleted post to 404, got %d", w.Code)
	}
}

func TestPublishedJSONHidesDrafts(t *testing.T) {
	env := setupTestEnv(t)
	published := env.createPost(t, "Public", "body", true)
	draft := env.createPost(t, "Private", "body", false)

	w := env.do(t, http.MethodGet, "/api/posts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"title":"Public"`) || strings.Contains(w.Body.String(), "Private") {
		t.Fatalf("unexpected list payload %s", w.Body.String())
	}

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", published.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", draft.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected draft to 404, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/posts/nope", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected invalid id to 400, got %d", w.Code)
	}
}
