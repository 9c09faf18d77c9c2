package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/config"
	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/handlers"
	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/middleware"
	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/models"
	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/routes"
	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/store"
)

const frontend = "http://localhost:3000"

func newRouter(t *testing.T, st handlers.TaskStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop().Sugar()

	r := gin.New()
	middleware.Setup(r, []string{frontend}, log)
	routes.RegisterRoutes(r, handlers.NewTaskHandler(st, log))
	return r
}

func newSQLiteRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := config.Config{
		Environment: "test",
		DBDriver:    "sqlite",
		DBPath:      filepath.Join(t.TempDir(), "tasks.db"),
	}
	st, err := store.Open(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.EnsureSchema(context.Background()))
	return newRouter(t, st)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTaskLifecycle(t *testing.T) {
	r := newSQLiteRouter(t)

	w := do(r, http.MethodPost, "/tasks", `{"title":"Buy milk","description":"2%","completed":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"Buy milk","description":"2%","completed":false}`, w.Body.String())

	w = do(r, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"title":"Buy milk","description":"2%","completed":false}]`, w.Body.String())

	w = do(r, http.MethodPut, "/tasks/1", `{"title":"Buy milk","description":"whole","completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Task updated"}`, w.Body.String())

	w = do(r, http.MethodGet, "/tasks", "")
	assert.JSONEq(t, `[{"id":1,"title":"Buy milk","description":"whole","completed":true}]`, w.Body.String())

	w = do(r, http.MethodDelete, "/tasks/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Task deleted"}`, w.Body.String())

	w = do(r, http.MethodGet, "/tasks", "")
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(r, http.MethodDelete, "/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Task not found"}`, w.Body.String())

	w = do(r, http.MethodPut, "/tasks/1", `{"title":"a","description":"b"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateIgnoresIDAndDefaultsCompleted(t *testing.T) {
	r := newSQLiteRouter(t)

	w := do(r, http.MethodPost, "/tasks", `{"id":50,"title":"t","description":""}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"t","description":"","completed":false}`, w.Body.String())
}

func TestUpdateIsFullReplacement(t *testing.T) {
	r := newSQLiteRouter(t)

	w := do(r, http.MethodPost, "/tasks", `{"title":"t","description":"d","completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	// completed is omitted, so it falls back to false rather than keeping true
	w = do(r, http.MethodPut, "/tasks/1", `{"id":9,"title":"t2","description":"d2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/tasks", "")
	assert.JSONEq(t, `[{"id":1,"title":"t2","description":"d2","completed":false}]`, w.Body.String())
}

func TestValidationFailures(t *testing.T) {
	r := newSQLiteRouter(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/tasks", `{"title":"t","description":"d"}`).Code)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"create missing title", http.MethodPost, "/tasks", `{"description":"d"}`},
		{"create null description", http.MethodPost, "/tasks", `{"title":"t","description":null}`},
		{"create wrong type", http.MethodPost, "/tasks", `{"title":5,"description":"d"}`},
		{"create malformed json", http.MethodPost, "/tasks", `{"title":`},
		{"create empty body", http.MethodPost, "/tasks", ""},
		{"update missing description", http.MethodPut, "/tasks/1", `{"title":"t"}`},
		{"update completed not bool", http.MethodPut, "/tasks/1", `{"title":"t","description":"d","completed":"yes"}`},
		{"update bad id", http.MethodPut, "/tasks/abc", `{"title":"t","description":"d"}`},
		{"delete bad id", http.MethodDelete, "/tasks/1.5", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, w.Body.String(), `"detail"`)
		})
	}

	// nothing above may have changed the stored task
	w := do(r, http.MethodGet, "/tasks", "")
	assert.JSONEq(t, `[{"id":1,"title":"t","description":"d","completed":false}]`, w.Body.String())
}

func TestExportEndpoint(t *testing.T) {
	r := newSQLiteRouter(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/tasks", `{"title":"t","description":"d"}`).Code)

	w := do(r, http.MethodGet, "/tasks/export?format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=tasks.csv", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "id,title,description,completed\n1,t,d,false\n", w.Body.String())

	w = do(r, http.MethodGet, "/tasks/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"title":"t","description":"d","completed":false}]`, w.Body.String())

	w = do(r, http.MethodGet, "/tasks/export?format=docx", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	w := do(newSQLiteRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

// brokenStore fails every call, as a database that went away would.
type brokenStore struct{}

var errDown = errors.New("disk I/O error")

func (brokenStore) CreateTask(context.Context, models.Task) (models.Task, error) {
	return models.Task{}, errDown
}
func (brokenStore) ListTasks(context.Context) ([]models.Task, error) { return nil, errDown }
func (brokenStore) UpdateTask(context.Context, int64, models.Task) error {
	return errDown
}
func (brokenStore) DeleteTask(context.Context, int64) error { return errDown }
func (brokenStore) Ping(context.Context) error              { return errDown }

func TestStoreFailuresAreServerErrors(t *testing.T) {
	r := newRouter(t, brokenStore{})

	for _, req := range []struct{ method, path, body string }{
		{http.MethodPost, "/tasks", `{"title":"t","description":"d"}`},
		{http.MethodGet, "/tasks", ""},
		{http.MethodPut, "/tasks/1", `{"title":"t","description":"d"}`},
		{http.MethodDelete, "/tasks/1", ""},
		{http.MethodGet, "/tasks/export?format=csv", ""},
	} {
		w := do(r, req.method, req.path, req.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, "%s %s", req.method, req.path)
		assert.JSONEq(t, `{"detail":"Internal server error"}`, w.Body.String())
		assert.NotContains(t, w.Body.String(), errDown.Error())
	}

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSForFrontend(t *testing.T) {
	r := newSQLiteRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/tasks/1", nil)
	req.Header.Set("Origin", frontend)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, frontend, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")

	req = httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Origin", frontend)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, frontend, w.Header().Get("Access-Control-Allow-Origin"))
}
