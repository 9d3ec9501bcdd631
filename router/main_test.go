package router

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rjoshi/todo-manager/database"
)

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *errorDetail    `json:"error"`
}

type sessionData struct {
	User struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
	SessionToken string `json:"session_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type todoItem struct {
	ID       uint   `json:"id"`
	UserID   uint   `json:"user_id"`
	Text     string `json:"text"`
	Complete bool   `json:"complete"`
}

type todoList struct {
	Incomplete []todoItem `json:"incomplete"`
	Completed  []todoItem `json:"completed"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	t.Setenv("GO_ENV", "test")
	t.Setenv("JWT_SECRET", "router-test-secret")

	store, err := database.OpenGORM(filepath.Join(t.TempDir(), "todo-test.db"), "test")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Init(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	app := fiber.New()
	SetupRoutes(app, store)
	return app
}

// request performs one round-trip against the app. An empty token sends
// an unauthenticated request.
func request(t *testing.T, app *fiber.App, method, path, body, token string) (*http.Response, envelope) {
	t.Helper()

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	resp.Body.Close()

	var env envelope
	if len(raw) > 0 {
		// Redirect responses carry no JSON body; ignore parse failures there
		_ = json.Unmarshal(raw, &env)
	}
	return resp, env
}

func registerUser(t *testing.T, app *fiber.App, email, name, password string) sessionData {
	t.Helper()

	body := fmt.Sprintf(`{"email":%q,"name":%q,"password":%q}`, email, name, password)
	resp, env := request(t, app, "POST", "/api/v1/auth/register", body, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%+v)", email, resp.StatusCode, env.Error)
	}

	var session sessionData
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatalf("failed to decode session data: %v", err)
	}
	if session.SessionToken == "" {
		t.Fatal("registration did not establish a session")
	}
	return session
}

func listTodos(t *testing.T, app *fiber.App, token string) todoList {
	t.Helper()

	resp, env := request(t, app, "GET", "/api/v1/todos", "", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list todos: expected 200, got %d", resp.StatusCode)
	}

	var list todoList
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("failed to decode todo list: %v", err)
	}
	return list
}

func TestRegisterLoginAddCompleteFlow(t *testing.T) {
	app := newTestApp(t)

	registerUser(t, app, "a@x.com", "Alice", "pw123")

	// Login with the registered credentials
	resp, env := request(t, app, "POST", "/api/v1/auth/login",
		`{"email":"a@x.com","password":"pw123"}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%+v)", resp.StatusCode, env.Error)
	}
	var session sessionData
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatalf("failed to decode session data: %v", err)
	}

	// The login response also binds the session to the browser
	foundCookie := false
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "todo_session" && cookie.Value != "" {
			foundCookie = true
			if !cookie.HttpOnly {
				t.Error("session cookie is not HTTP-only")
			}
		}
	}
	if !foundCookie {
		t.Error("login did not set the session cookie")
	}

	// Add an item
	resp, env = request(t, app, "POST", "/api/v1/todos", `{"text":"buy milk"}`, session.SessionToken)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add todo: expected 201, got %d (%+v)", resp.StatusCode, env.Error)
	}
	var created todoItem
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("failed to decode created item: %v", err)
	}

	list := listTodos(t, app, session.SessionToken)
	if len(list.Incomplete) != 1 || list.Incomplete[0].Text != "buy milk" || list.Incomplete[0].Complete {
		t.Fatalf("unexpected incomplete list: %+v", list.Incomplete)
	}
	if len(list.Completed) != 0 {
		t.Fatalf("expected empty completed list, got %+v", list.Completed)
	}

	// Complete it
	resp, env = request(t, app, "POST", fmt.Sprintf("/api/v1/todos/%d/complete", created.ID), "", session.SessionToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d (%+v)", resp.StatusCode, env.Error)
	}

	list = listTodos(t, app, session.SessionToken)
	if len(list.Incomplete) != 0 {
		t.Errorf("incomplete list should be empty, got %+v", list.Incomplete)
	}
	if len(list.Completed) != 1 || list.Completed[0].ID != created.ID {
		t.Errorf("completed list missing the item: %+v", list.Completed)
	}
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	app := newTestApp(t)

	registerUser(t, app, "a@x.com", "Alice", "pw123")

	resp, env := request(t, app, "POST", "/api/v1/auth/register",
		`{"email":"a@x.com","name":"Other","password":"pw456"}`, "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "CONFLICT" {
		t.Errorf("expected CONFLICT error, got %+v", env.Error)
	}
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	app := newTestApp(t)

	registerUser(t, app, "a@x.com", "Alice", "pw123")

	respWrongPassword, envWrongPassword := request(t, app, "POST", "/api/v1/auth/login",
		`{"email":"a@x.com","password":"wrong"}`, "")
	respUnknownEmail, envUnknownEmail := request(t, app, "POST", "/api/v1/auth/login",
		`{"email":"nobody@x.com","password":"pw123"}`, "")

	if respWrongPassword.StatusCode != http.StatusUnauthorized || respUnknownEmail.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both failures, got %d and %d",
			respWrongPassword.StatusCode, respUnknownEmail.StatusCode)
	}

	// Neither response reveals whether the email is registered
	if envWrongPassword.Error == nil || envUnknownEmail.Error == nil ||
		envWrongPassword.Error.Message != envUnknownEmail.Error.Message {
		t.Errorf("login failures leak information: %+v vs %+v",
			envWrongPassword.Error, envUnknownEmail.Error)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	app := newTestApp(t)

	paths := []struct {
		method string
		path   string
		body   string
	}{
		{"GET", "/api/v1/todos", ""},
		{"POST", "/api/v1/todos", `{"text":"sneaky"}`},
		{"POST", "/api/v1/todos/1/complete", ""},
		{"POST", "/completed", `{"item_id":1}`},
		{"POST", "/api/v1/auth/logout", ""},
		{"GET", "/api/v1/profile", ""},
	}

	for _, p := range paths {
		resp, _ := request(t, app, p.method, p.path, p.body, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.path, resp.StatusCode)
		}
	}

	// Nothing reached the store
	alice := registerUser(t, app, "a@x.com", "Alice", "pw123")
	list := listTodos(t, app, alice.SessionToken)
	if len(list.Incomplete) != 0 || len(list.Completed) != 0 {
		t.Errorf("unauthenticated request created items: %+v", list)
	}
}

func TestCompleteOtherUsersItemForbidden(t *testing.T) {
	app := newTestApp(t)

	alice := registerUser(t, app, "a@x.com", "Alice", "pw123")
	bob := registerUser(t, app, "b@x.com", "Bob", "pw456")

	resp, env := request(t, app, "POST", "/api/v1/todos", `{"text":"alice's errand"}`, alice.SessionToken)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add todo: expected 201, got %d", resp.StatusCode)
	}
	var item todoItem
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("failed to decode created item: %v", err)
	}

	resp, _ = request(t, app, "POST", fmt.Sprintf("/api/v1/todos/%d/complete", item.ID), "", bob.SessionToken)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}

	// Alice's item is unchanged and invisible to Bob
	aliceList := listTodos(t, app, alice.SessionToken)
	if len(aliceList.Incomplete) != 1 || aliceList.Incomplete[0].Complete {
		t.Errorf("forbidden completion mutated the item: %+v", aliceList)
	}
	bobList := listTodos(t, app, bob.SessionToken)
	if len(bobList.Incomplete) != 0 || len(bobList.Completed) != 0 {
		t.Errorf("alice's items leaked into bob's list: %+v", bobList)
	}
}

func TestCompletedBodyEndpoint(t *testing.T) {
	app := newTestApp(t)

	alice := registerUser(t, app, "a@x.com", "Alice", "pw123")

	resp, env := request(t, app, "POST", "/api/v1/todos", `{"text":"buy milk"}`, alice.SessionToken)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add todo: expected 201, got %d", resp.StatusCode)
	}
	var item todoItem
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("failed to decode created item: %v", err)
	}

	resp, _ = request(t, app, "POST", "/completed",
		fmt.Sprintf(`{"item_id":%d}`, item.ID), alice.SessionToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("completed endpoint: expected 200, got %d", resp.StatusCode)
	}

	// Missing item
	resp, env = request(t, app, "POST", "/completed", `{"item_id":9999}`, alice.SessionToken)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing item, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Message != "Item not found" {
		t.Errorf("expected 'Item not found' message, got %+v", env.Error)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	app := newTestApp(t)

	alice := registerUser(t, app, "a@x.com", "Alice", "pw123")

	resp, _ := request(t, app, "POST", "/api/v1/auth/logout", "", alice.SessionToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}

	// The revoked session no longer opens the todo list
	resp, _ = request(t, app, "GET", "/api/v1/todos", "", alice.SessionToken)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("revoked session still accepted: got %d", resp.StatusCode)
	}
}

func TestHomeRedirects(t *testing.T) {
	app := newTestApp(t)

	// Unauthenticated visitors are sent to the login entry point
	resp, _ := request(t, app, "GET", "/", "", "")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/api/v1/auth/login" {
		t.Errorf("expected redirect to login, got %q", loc)
	}

	// Authenticated visitors go straight to their list
	alice := registerUser(t, app, "a@x.com", "Alice", "pw123")
	resp, _ = request(t, app, "GET", "/", "", alice.SessionToken)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/api/v1/todos" {
		t.Errorf("expected redirect to todos, got %q", loc)
	}
}

func TestTooLongTodoRejected(t *testing.T) {
	app := newTestApp(t)

	alice := registerUser(t, app, "a@x.com", "Alice", "pw123")

	body := fmt.Sprintf(`{"text":%q}`, strings.Repeat("x", 251))
	resp, _ := request(t, app, "POST", "/api/v1/todos", body, alice.SessionToken)
	if resp.StatusCode != http.StatusUnprocessableEntity && resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected validation rejection, got %d", resp.StatusCode)
	}

	list := listTodos(t, app, alice.SessionToken)
	if len(list.Incomplete) != 0 {
		t.Errorf("over-long item was stored: %+v", list.Incomplete)
	}
}

func TestPing(t *testing.T) {
	app := newTestApp(t)

	resp, _ := request(t, app, "GET", "/ping", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
