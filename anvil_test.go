package anvil_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrymomot/anvil"
)

// testController exercises the controller contract through the public API.
type testController struct {
	message string
}

func (ctrl *testController) Actions() map[string]anvil.Action {
	return map[string]anvil.Action{
		"index": ctrl.index,
		"show":  ctrl.show,
		"ping":  ctrl.ping,
	}
}

func (ctrl *testController) index(c *anvil.Context, _ ...string) (any, error) {
	return ctrl.message, nil
}

func (ctrl *testController) show(c *anvil.Context, params ...string) (any, error) {
	return anvil.D{"id": params[0]}, nil
}

func (ctrl *testController) ping(c *anvil.Context, _ ...string) (any, error) {
	return anvil.TextResponse(http.StatusOK, "pong"), nil
}

// tagMiddleware stamps responses so tests can observe the chain ran.
func tagMiddleware(name, value string) anvil.Middleware {
	return anvil.MiddlewareFunc(func(c *anvil.Context, next anvil.Next) *anvil.Response {
		c.SetHeader(name, value)
		return next(c)
	})
}

func newTestApp() *anvil.App {
	return anvil.New(
		anvil.WithController("Test", &testController{message: "hello"}),
		anvil.WithMiddleware("tag", tagMiddleware("X-Tag", "on")),
		anvil.WithRoutes(func(r *anvil.Router) {
			r.Get("/", "Test@index").Name("home")
			r.Get("/users/{id}", "Test@show").Name("users.show")
			r.Get("/count", func(c *anvil.Context, _ ...string) (any, error) {
				n := anvil.QueryDefault(c, "n", 1)
				return anvil.D{"count": n}, nil
			})
			r.Get("/locked", func(c *anvil.Context, _ ...string) (any, error) {
				return nil, anvil.Terminate(anvil.RedirectResponse(http.StatusFound, "/login"))
			})
			r.Group(anvil.GroupAttrs{Prefix: "api", Middleware: []string{"tag"}}, func(r *anvil.Router) {
				r.Get("/ping", "Test@ping")
			})
		}),
	)
}

func serve(app *anvil.App, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestNew(t *testing.T) {
	app := anvil.New()
	if app == nil {
		t.Fatal("New() returned nil")
	}
}

func TestAppRouting(t *testing.T) {
	app := newTestApp()

	rec := serve(app, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "hello" {
		t.Errorf("GET / body = %q, want %q", got, "hello")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("GET / content type = %q, want text/html", ct)
	}
}

func TestAppRouteParams(t *testing.T) {
	app := newTestApp()

	rec := serve(app, http.MethodGet, "/users/42")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if payload["id"] != "42" {
		t.Errorf("id = %q, want %q", payload["id"], "42")
	}
}

func TestAppQueryHelpers(t *testing.T) {
	app := newTestApp()

	rec := serve(app, http.MethodGet, "/count?n=7")
	if want := `{"count":7}`; rec.Body.String() != want {
		t.Errorf("body = %q, want %q", rec.Body.String(), want)
	}

	rec = serve(app, http.MethodGet, "/count")
	if want := `{"count":1}`; rec.Body.String() != want {
		t.Errorf("default body = %q, want %q", rec.Body.String(), want)
	}
}

func TestAppGroupMiddleware(t *testing.T) {
	app := newTestApp()

	rec := serve(app, http.MethodGet, "/api/ping")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "pong" {
		t.Errorf("body = %q, want %q", got, "pong")
	}
	if rec.Header().Get("X-Tag") != "on" {
		t.Error("middleware header missing")
	}
}

func TestAppTerminate(t *testing.T) {
	app := newTestApp()

	rec := serve(app, http.MethodGet, "/locked")
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("location = %q, want /login", loc)
	}
}

func TestAppNotFound(t *testing.T) {
	app := newTestApp()

	rec := serve(app, http.MethodGet, "/missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not Found") {
		t.Error("body missing standard error page text")
	}
}

func TestReverseRouting(t *testing.T) {
	app := newTestApp()

	url, err := app.Router().URL("users.show", anvil.D{"id": 42})
	if err != nil {
		t.Fatalf("URL() error: %v", err)
	}
	if url != "/users/42" {
		t.Errorf("url = %q, want /users/42", url)
	}

	if _, err := app.Router().URL("nope", nil); err == nil {
		t.Error("expected error for unknown route name")
	}
}

func TestResponseConstructors(t *testing.T) {
	app := anvil.New(
		anvil.WithRoutes(func(r *anvil.Router) {
			r.Get("/html", func(c *anvil.Context, _ ...string) (any, error) {
				return anvil.HTMLResponse(http.StatusOK, "<p>hi</p>"), nil
			})
			r.Get("/json", func(c *anvil.Context, _ ...string) (any, error) {
				return anvil.JSONResponse(http.StatusCreated, anvil.D{"ok": true})
			})
			r.Get("/empty", func(c *anvil.Context, _ ...string) (any, error) {
				return anvil.NoContentResponse(), nil
			})
			r.Get("/denied", func(c *anvil.Context, _ ...string) (any, error) {
				return anvil.ErrorResponse(http.StatusForbidden), nil
			})
			r.Get("/expired", func(c *anvil.Context, _ ...string) (any, error) {
				return anvil.PageExpiredResponse(), nil
			})
		}),
	)

	cases := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/html", http.StatusOK, "<p>hi</p>"},
		{"/json", http.StatusCreated, `{"ok":true}`},
		{"/empty", http.StatusNoContent, ""},
		{"/denied", http.StatusForbidden, "Forbidden"},
		{"/expired", anvil.StatusPageExpired, "Page Expired"},
	}
	for _, tc := range cases {
		rec := serve(app, http.MethodGet, tc.path)
		if rec.Code != tc.wantStatus {
			t.Errorf("%s status = %d, want %d", tc.path, rec.Code, tc.wantStatus)
		}
		if tc.wantBody != "" && !strings.Contains(rec.Body.String(), tc.wantBody) {
			t.Errorf("%s body = %q, want it to contain %q", tc.path, rec.Body.String(), tc.wantBody)
		}
	}
}
