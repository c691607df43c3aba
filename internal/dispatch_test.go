package internal_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/internal"
)

func dispatchRequest(t *testing.T, router *internal.Router, method, target string) *internal.Response {
	t.Helper()
	resp, err := router.Dispatch(internal.NewContext(httptest.NewRequest(method, target, nil)))
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

func recordingMiddleware(log *[]string, name string) internal.Middleware {
	return internal.MiddlewareFunc(func(c *internal.Context, _ internal.Next) *internal.Response {
		*log = append(*log, name)
		return nil
	})
}

func TestDispatchAction(t *testing.T) {
	t.Parallel()

	router := internal.NewRouter()
	router.Get("/hello", func(c *internal.Context, _ ...string) (any, error) {
		return "hello there", nil
	})

	resp := dispatchRequest(t, router, http.MethodGet, "/hello")
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "text/html; charset=utf-8", resp.Header().Get("Content-Type"))
	assert.Equal(t, "hello there", string(resp.Body()))
}

func TestDispatchNotFound(t *testing.T) {
	t.Parallel()

	router := internal.NewRouter()
	router.Post("/submit", func(c *internal.Context, _ ...string) (any, error) {
		return "ok", nil
	})

	t.Run("unknown path", func(t *testing.T) {
		t.Parallel()
		resp := dispatchRequest(t, router, http.MethodGet, "/nowhere")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
		assert.Contains(t, string(resp.Body()), "404")
		assert.Contains(t, string(resp.Body()), "Not Found")
	})

	t.Run("method not allowed on a known path", func(t *testing.T) {
		t.Parallel()
		resp := dispatchRequest(t, router, http.MethodGet, "/submit")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	})
}

func TestDispatchMiddlewareOrder(t *testing.T) {
	t.Parallel()

	var log []string
	router := internal.NewRouter()
	router.RegisterMiddleware("first", recordingMiddleware(&log, "first"))
	router.RegisterMiddleware("second", recordingMiddleware(&log, "second"))
	router.RegisterMiddleware("stamp", internal.MiddlewareFunc(func(c *internal.Context, _ internal.Next) *internal.Response {
		c.Set(ctxKey{}, "from middleware")
		return nil
	}))
	router.Get("/guarded", func(c *internal.Context, _ ...string) (any, error) {
		log = append(log, "action")
		return internal.ContextValue[string](c, ctxKey{}), nil
	}).Middleware("first", "second", "stamp")

	resp := dispatchRequest(t, router, http.MethodGet, "/guarded")
	assert.Equal(t, []string{"first", "second", "action"}, log)
	assert.Equal(t, "from middleware", string(resp.Body()),
		"middleware and action should share the same context")
}

func TestDispatchMiddlewareShortCircuit(t *testing.T) {
	t.Parallel()

	var log []string
	router := internal.NewRouter()
	router.RegisterMiddleware("open", recordingMiddleware(&log, "open"))
	router.RegisterMiddleware("deny", internal.MiddlewareFunc(func(c *internal.Context, _ internal.Next) *internal.Response {
		log = append(log, "deny")
		return internal.ErrorResponse(http.StatusForbidden)
	}))
	router.RegisterMiddleware("after", recordingMiddleware(&log, "after"))
	router.Get("/guarded", func(c *internal.Context, _ ...string) (any, error) {
		log = append(log, "action")
		return "ok", nil
	}).Middleware("open", "deny", "after")

	resp := dispatchRequest(t, router, http.MethodGet, "/guarded")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())
	assert.Equal(t, []string{"open", "deny"}, log,
		"middleware after the short-circuit and the action should not run")
}

func TestDispatchMiddlewareNotFound(t *testing.T) {
	t.Parallel()

	router := internal.NewRouter()
	router.Get("/guarded", func(c *internal.Context, _ ...string) (any, error) {
		return "ok", nil
	}).Middleware("ghost")

	resp, err := router.Dispatch(internal.NewContext(httptest.NewRequest(http.MethodGet, "/guarded", nil)))
	require.ErrorIs(t, err, internal.ErrMiddlewareNotFound)
	assert.Contains(t, err.Error(), `"ghost"`)
	assert.Nil(t, resp)
}

func TestDispatchActionError(t *testing.T) {
	t.Parallel()

	t.Run("production shows a plain 500", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter()
		router.Get("/boom", func(c *internal.Context, _ ...string) (any, error) {
			return nil, errors.New("database exploded")
		})

		resp := dispatchRequest(t, router, http.MethodGet, "/boom")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
		assert.Contains(t, string(resp.Body()), "Internal Server Error")
		assert.NotContains(t, string(resp.Body()), "database exploded")
	})

	t.Run("debug shows the error", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter(internal.WithRouterDebug(true))
		router.Get("/boom", func(c *internal.Context, _ ...string) (any, error) {
			return nil, errors.New("database exploded")
		})

		resp := dispatchRequest(t, router, http.MethodGet, "/boom")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
		assert.Contains(t, string(resp.Body()), "database exploded")
	})
}

func TestDispatchPanic(t *testing.T) {
	t.Parallel()

	t.Run("action panic becomes a 500", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter()
		router.Get("/panic", func(c *internal.Context, _ ...string) (any, error) {
			panic("kaboom")
		})

		resp := dispatchRequest(t, router, http.MethodGet, "/panic")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
		assert.NotContains(t, string(resp.Body()), "kaboom")
	})

	t.Run("middleware panic becomes a 500", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter()
		router.RegisterMiddleware("explosive", internal.MiddlewareFunc(func(c *internal.Context, _ internal.Next) *internal.Response {
			panic("kaboom")
		}))
		router.Get("/panic", func(c *internal.Context, _ ...string) (any, error) {
			return "unreachable", nil
		}).Middleware("explosive")

		resp := dispatchRequest(t, router, http.MethodGet, "/panic")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
	})

	t.Run("debug shows the panic value", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter(internal.WithRouterDebug(true))
		router.Get("/panic", func(c *internal.Context, _ ...string) (any, error) {
			panic("kaboom")
		})

		resp := dispatchRequest(t, router, http.MethodGet, "/panic")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
		assert.Contains(t, string(resp.Body()), "panic: kaboom")
	})
}

func TestDispatchTerminated(t *testing.T) {
	t.Parallel()

	t.Run("carried response is sent as-is", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter()
		router.Get("/stop", func(c *internal.Context, _ ...string) (any, error) {
			return nil, internal.Terminate(internal.TextResponse(http.StatusTeapot, "short and stout"))
		})

		resp := dispatchRequest(t, router, http.MethodGet, "/stop")
		assert.Equal(t, http.StatusTeapot, resp.StatusCode())
		assert.Equal(t, "short and stout", string(resp.Body()))
	})

	t.Run("wrapped termination still unwraps", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter()
		router.Get("/stop", func(c *internal.Context, _ ...string) (any, error) {
			inner := internal.Terminate(internal.RedirectResponse(http.StatusFound, "/login"))
			return nil, errors.Join(inner)
		})

		resp := dispatchRequest(t, router, http.MethodGet, "/stop")
		assert.Equal(t, http.StatusFound, resp.StatusCode())
		assert.Equal(t, "/login", resp.Header().Get("Location"))
	})

	t.Run("nil response falls back to an empty 200", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter()
		router.Get("/stop", func(c *internal.Context, _ ...string) (any, error) {
			return nil, internal.Terminate(nil)
		})

		resp := dispatchRequest(t, router, http.MethodGet, "/stop")
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Empty(t, resp.Body())
	})
}

// Staged headers must reach the client no matter which path produced the
// response: normal actions, short-circuits, error pages, or the 404 page.
func TestDispatchStagedHeaders(t *testing.T) {
	t.Parallel()

	tagging := internal.MiddlewareFunc(func(c *internal.Context, _ internal.Next) *internal.Response {
		c.SetHeader("X-Request-Tag", "tagged")
		return nil
	})

	t.Run("on the action response", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter()
		router.RegisterMiddleware("tag", tagging)
		router.Get("/ok", func(c *internal.Context, _ ...string) (any, error) {
			return "ok", nil
		}).Middleware("tag")

		resp := dispatchRequest(t, router, http.MethodGet, "/ok")
		assert.Equal(t, "tagged", resp.Header().Get("X-Request-Tag"))
	})

	t.Run("on a short-circuit response", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter()
		router.RegisterMiddleware("tag", tagging)
		router.RegisterMiddleware("deny", internal.MiddlewareFunc(func(c *internal.Context, _ internal.Next) *internal.Response {
			return internal.ErrorResponse(http.StatusForbidden)
		}))
		router.Get("/ok", func(c *internal.Context, _ ...string) (any, error) {
			return "ok", nil
		}).Middleware("tag", "deny")

		resp := dispatchRequest(t, router, http.MethodGet, "/ok")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode())
		assert.Equal(t, "tagged", resp.Header().Get("X-Request-Tag"))
	})

	t.Run("on an error page", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter()
		router.RegisterMiddleware("tag", tagging)
		router.Get("/boom", func(c *internal.Context, _ ...string) (any, error) {
			return nil, errors.New("nope")
		}).Middleware("tag")

		resp := dispatchRequest(t, router, http.MethodGet, "/boom")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
		assert.Equal(t, "tagged", resp.Header().Get("X-Request-Tag"))
	})

	t.Run("on the not-found page", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter()

		c := internal.NewContext(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
		c.SetHeader("X-Request-Tag", "tagged")
		resp, err := router.Dispatch(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
		assert.Equal(t, "tagged", resp.Header().Get("X-Request-Tag"))
	})

	t.Run("on a terminated response", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter()
		router.RegisterMiddleware("tag", tagging)
		router.Get("/stop", func(c *internal.Context, _ ...string) (any, error) {
			return nil, internal.Terminate(internal.RedirectResponse(http.StatusFound, "/login"))
		}).Middleware("tag")

		resp := dispatchRequest(t, router, http.MethodGet, "/stop")
		assert.Equal(t, http.StatusFound, resp.StatusCode())
		assert.Equal(t, "tagged", resp.Header().Get("X-Request-Tag"))
	})
}

func TestDispatchNormalize(t *testing.T) {
	t.Parallel()

	type payload struct {
		Title string `json:"title"`
		Views int    `json:"views"`
	}

	prepared := internal.TextResponse(http.StatusAccepted, "queued")

	tests := []struct {
		name        string
		result      any
		wantStatus  int
		wantType    string
		wantBody    string
		sameAs      *internal.Response
		jsonCompare bool
	}{
		{
			name:       "nil becomes an empty page",
			result:     nil,
			wantStatus: http.StatusOK,
			wantType:   "text/html; charset=utf-8",
			wantBody:   "",
		},
		{
			name:       "response passes through unchanged",
			result:     prepared,
			wantStatus: http.StatusAccepted,
			wantBody:   "queued",
			sameAs:     prepared,
		},
		{
			name:       "typed nil response becomes an empty page",
			result:     (*internal.Response)(nil),
			wantStatus: http.StatusOK,
			wantBody:   "",
		},
		{
			name:       "string becomes html",
			result:     "<p>hi</p>",
			wantStatus: http.StatusOK,
			wantType:   "text/html; charset=utf-8",
			wantBody:   "<p>hi</p>",
		},
		{
			name:       "bytes become html not json",
			result:     []byte("<p>raw</p>"),
			wantStatus: http.StatusOK,
			wantType:   "text/html; charset=utf-8",
			wantBody:   "<p>raw</p>",
		},
		{
			name:        "map becomes json",
			result:      map[string]string{"lang": "go"},
			wantStatus:  http.StatusOK,
			wantType:    "application/json",
			wantBody:    `{"lang":"go"}`,
			jsonCompare: true,
		},
		{
			name:        "struct becomes json",
			result:      payload{Title: "Anvil", Views: 3},
			wantStatus:  http.StatusOK,
			wantType:    "application/json",
			wantBody:    `{"title":"Anvil","views":3}`,
			jsonCompare: true,
		},
		{
			name:        "pointer to struct becomes json",
			result:      &payload{Title: "Anvil", Views: 3},
			wantStatus:  http.StatusOK,
			wantType:    "application/json",
			wantBody:    `{"title":"Anvil","views":3}`,
			jsonCompare: true,
		},
		{
			name:        "slice becomes json",
			result:      []int{1, 2, 3},
			wantStatus:  http.StatusOK,
			wantType:    "application/json",
			wantBody:    `[1,2,3]`,
			jsonCompare: true,
		},
		{
			name:       "nil struct pointer becomes an empty page",
			result:     (*payload)(nil),
			wantStatus: http.StatusOK,
			wantBody:   "",
		},
		{
			name:        "struct stringer still encodes as json",
			result:      stringerStruct{ID: "a1"},
			wantStatus:  http.StatusOK,
			wantType:    "application/json",
			wantBody:    `{"ID":"a1"}`,
			jsonCompare: true,
		},
		{
			name:       "scalar stringer renders its string",
			result:     mood(2),
			wantStatus: http.StatusOK,
			wantType:   "text/html; charset=utf-8",
			wantBody:   "cheerful",
		},
		{
			name:       "plain value prints",
			result:     42,
			wantStatus: http.StatusOK,
			wantType:   "text/html; charset=utf-8",
			wantBody:   "42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			router := internal.NewRouter()
			router.Get("/out", func(c *internal.Context, _ ...string) (any, error) {
				return tt.result, nil
			})

			resp := dispatchRequest(t, router, http.MethodGet, "/out")
			assert.Equal(t, tt.wantStatus, resp.StatusCode())
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, resp.Header().Get("Content-Type"))
			}
			switch {
			case tt.jsonCompare:
				assert.JSONEq(t, tt.wantBody, string(resp.Body()))
			default:
				assert.Equal(t, tt.wantBody, string(resp.Body()))
			}
			if tt.sameAs != nil {
				assert.Same(t, tt.sameAs, resp)
			}
		})
	}
}

func TestDispatchRendersComponent(t *testing.T) {
	t.Parallel()

	t.Run("component renders to html", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter()
		router.Get("/page", func(c *internal.Context, _ ...string) (any, error) {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				_, err := io.WriteString(w, "<h1>Welcome</h1>")
				return err
			}), nil
		})

		resp := dispatchRequest(t, router, http.MethodGet, "/page")
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Equal(t, "text/html; charset=utf-8", resp.Header().Get("Content-Type"))
		assert.Equal(t, "<h1>Welcome</h1>", string(resp.Body()))
	})

	t.Run("render failure becomes a 500", func(t *testing.T) {
		t.Parallel()
		router := internal.NewRouter()
		router.Get("/page", func(c *internal.Context, _ ...string) (any, error) {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				return errors.New("template blew up")
			}), nil
		})

		resp := dispatchRequest(t, router, http.MethodGet, "/page")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
	})
}

type ctxKey struct{}

type stringerStruct struct{ ID string }

func (s stringerStruct) String() string { return "stringer-" + s.ID }

type mood int

func (m mood) String() string { return "cheerful" }
