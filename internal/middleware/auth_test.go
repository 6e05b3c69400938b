package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/coffeepulse/internal/session"
)

func newAuthRouter(store session.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	whoami := func(c *gin.Context) { c.String(http.StatusOK, Username(c)) }
	r.GET("/report", RequireSessionPage(store), whoami)
	r.GET("/api", RequireSessionAPI(store), whoami)
	return r
}

func TestRequireSession(t *testing.T) {
	store := session.NewMemoryStore(session.DefaultTimeout)
	s, err := store.Create(context.Background(), "admin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cases := []struct {
		name     string
		store    session.Store
		path     string
		cookie   string
		wantCode int
		wantBody string
	}{
		{name: "page without cookie", store: store, path: "/report", wantCode: http.StatusFound},
		{name: "page unknown session", store: store, path: "/report", cookie: "nope", wantCode: http.StatusFound},
		{name: "page valid session", store: store, path: "/report", cookie: s.ID, wantCode: http.StatusOK, wantBody: "admin"},
		{name: "api without cookie", store: store, path: "/api", wantCode: http.StatusUnauthorized},
		{name: "api valid session", store: store, path: "/api", cookie: s.ID, wantCode: http.StatusOK, wantBody: "admin"},
		{name: "login disabled", store: nil, path: "/api", wantCode: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newAuthRouter(tc.store)
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.wantCode {
				t.Fatalf("code=%d, want %d", w.Code, tc.wantCode)
			}
			if tc.wantCode == http.StatusFound && w.Header().Get("Location") != "/login" {
				t.Fatalf("location=%q", w.Header().Get("Location"))
			}
			if tc.wantBody != "" && w.Body.String() != tc.wantBody {
				t.Fatalf("body=%q", w.Body.String())
			}
		})
	}
}
