package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vegetable_inventory/internal/api"
	"vegetable_inventory/internal/auth"
	"vegetable_inventory/internal/inventory"
	"vegetable_inventory/internal/session"
	"vegetable_inventory/internal/testutil"
)

type testApp struct {
	t          *testing.T
	db         *gorm.DB
	vegetables inventory.Repository
	users      auth.UserRepository
	auth       *auth.Service
	store      *session.Store
	router     *gin.Engine
	cookie     *http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.OpenInMemoryDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	app := &testApp{
		t:          t,
		db:         db,
		vegetables: inventory.NewRepository(db),
		users:      auth.NewUserRepository(db),
		store:      session.NewStore("test-secret", time.Hour, false),
	}
	app.auth = auth.NewService(app.users, bcrypt.MinCost)
	r, err := api.NewRouter(api.Dependencies{
		DB:         db,
		Vegetables: app.vegetables,
		Auth:       app.auth,
		Sessions:   app.store,
		Log:        log,
	})
	require.NoError(t, err)
	app.router = r
	return app
}

// do sends a request carrying the current session cookie and keeps any new one
func (a *testApp) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	a.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			a.cookie = c
		}
	}
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(http.MethodGet, path, nil)
}

func (a *testApp) post(path string, form url.Values) *httptest.ResponseRecorder {
	return a.do(http.MethodPost, path, form)
}

// follow asserts a 302 and fetches its target
func (a *testApp) follow(w *httptest.ResponseRecorder, location string) *httptest.ResponseRecorder {
	a.t.Helper()
	require.Equal(a.t, http.StatusFound, w.Code)
	require.Equal(a.t, location, w.Header().Get("Location"))
	return a.get(location)
}

// session decodes the client's current session cookie
func (a *testApp) session() *session.Session {
	a.t.Helper()
	require.NotNil(a.t, a.cookie, "no session cookie")
	sess, err := a.store.Decode(a.cookie.Value)
	require.NoError(a.t, err)
	return sess
}

func vegetableForm(name, quantity, price string) url.Values {
	return url.Values{"name": {name}, "quantity": {quantity}, "price": {price}}
}
