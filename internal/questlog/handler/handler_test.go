package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/questlog/questlog/internal/questlog"
	"github.com/questlog/questlog/internal/questlog/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*gin.Engine, *service.Service, string) {
	t.Helper()
	public := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(public, "index.html"), []byte("<html>quests</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(public, "app.js"), []byte("console.log('quests')"), 0o644))

	svc := service.NewMemoryService()
	r := gin.New()
	NewHandler(svc, public).Register(r)
	return r, svc, public
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestSaveThenGet(t *testing.T) {
	r, _, _ := newRouter(t)

	w := do(r, http.MethodPost, "/api/save", `{"log":{"id":"q1","name":"Test","quests":[]}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.JSONEq(t, `{"success":true}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/log/q1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"log":{"id":"q1","name":"Test","quests":[]}}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/logs", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"logs":[{"id":"q1","name":"Test","quests":[],"created":"","updated":""}]}`, w.Body.String())
}

func TestGetMissingLog(t *testing.T) {
	r, _, _ := newRouter(t)
	w := do(r, http.MethodGet, "/api/log/does-not-exist", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, decode(t, w), "error")
}

func TestSaveRejectsBadInput(t *testing.T) {
	r, _, _ := newRouter(t)

	for name, body := range map[string]string{
		"malformed json": `{"log": {`,
		"missing log":    `{}`,
		"missing name":   `{"log":{"id":"x","quests":[]}}`,
		"missing id":     `{"log":{"name":"x","quests":[]}}`,
	} {
		w := do(r, http.MethodPost, "/api/save", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
		assert.Contains(t, w.Body.String(), "error", name)
	}

	w := do(r, http.MethodGet, "/api/logs", "")
	require.JSONEq(t, `{"logs":[]}`, w.Body.String())
}

func TestUnsafeIDIsBadRequest(t *testing.T) {
	r, _, _ := newRouter(t)
	w := do(r, http.MethodGet, "/api/log/bad%5Cid", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteThenGet(t *testing.T) {
	r, _, _ := newRouter(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/save", `{"log":{"id":"d1","name":"Doomed","quests":[]}}`).Code)

	w := do(r, http.MethodDelete, "/api/delete/d1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true}`, w.Body.String())

	require.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/log/d1", "").Code)
	require.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/delete/d1", "").Code)
}

func TestTemplatesAndImport(t *testing.T) {
	r, svc, _ := newRouter(t)

	w := do(r, http.MethodGet, "/api/templates", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"templates":[]}`, w.Body.String())

	_, err := svc.SeedTemplates(context.Background())
	require.NoError(t, err)

	w = do(r, http.MethodGet, "/api/templates", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Templates []questlog.TemplateSummary `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Templates, 6)

	w = do(r, http.MethodGet, "/api/import-template/daily-tasks", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var imported struct {
		Success bool               `json:"success"`
		Log     *questlog.QuestLog `json:"log"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &imported))
	require.True(t, imported.Success)
	require.NotEqual(t, "daily-tasks", imported.Log.ID)
	require.Equal(t, "Daily Tasks", imported.Log.Name)

	w = do(r, http.MethodGet, "/api/log/"+imported.Log.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/import-template/nonexistent", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	w = do(r, http.MethodGet, "/api/logs", "")
	var logs struct {
		Logs []questlog.LogSummary `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs.Logs, 1)
}

func TestStaticFallback(t *testing.T) {
	r, _, _ := newRouter(t)

	w := do(r, http.MethodGet, "/app.js", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "console.log('quests')", w.Body.String())

	w = do(r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "quests")

	require.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/missing.css", "").Code)
}

func TestImportAcceptsExportedFileAsIs(t *testing.T) {
	r, _, _ := newRouter(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/save", `{"log":{"id":"b1","name":"Backlog","quests":[]}}`).Code)

	exported := do(r, http.MethodGet, "/api/export/b1", "").Body.String()
	w := do(r, http.MethodPost, "/api/import", exported)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var imported struct {
		Log *questlog.QuestLog `json:"log"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &imported))
	require.NotEqual(t, "b1", imported.Log.ID)
	require.Equal(t, "Backlog (Imported)", imported.Log.Name)

	w = do(r, http.MethodPost, "/api/import", `{"id":"fresh","name":"Fresh","quests":[]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/log/fresh", "").Code)
}

func TestHiddenFilesAreNotServed(t *testing.T) {
	r, _, public := newRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(public, ".env"), []byte("MINIO_SECRET_KEY=supersecret\n"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(public, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(public, ".git", "config"), []byte("[core]\n"), 0o644))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/.env"},
		{http.MethodHead, "/.env"},
		{http.MethodGet, "/.git/config"},
		{http.MethodGet, "/%2eenv"},
		{http.MethodGet, "/assets/../.env"},
	} {
		w := do(r, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, tc.method+" "+tc.path)
		assert.NotContains(t, w.Body.String(), "supersecret", tc.path)
	}

	w := do(r, http.MethodGet, "/app.js", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "console.log('quests')", w.Body.String())
}

func TestHiddenPath(t *testing.T) {
	for p, want := range map[string]bool{
		"/.env":            true,
		"/.git/HEAD":       true,
		"/css/.hidden":     true,
		"/app.js":          false,
		"/":                false,
		"/css/site.v2.css": false,
	} {
		assert.Equal(t, want, hiddenPath(p), p)
	}
}

func TestUnknownWriteRoutesAreNotFound(t *testing.T) {
	r, _, _ := newRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/unknown"},
		{http.MethodPost, "/app.js"},
		{http.MethodDelete, "/api/logs"},
		{http.MethodPost, "/api/logs"},
	} {
		w := do(r, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, tc.method+" "+tc.path)
		assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
	}
}

func TestExportAndImportLog(t *testing.T) {
	r, _, _ := newRouter(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/save", `{"log":{"id":"e1","name":"Weekly Plan","quests":[]}}`).Code)

	w := do(r, http.MethodGet, "/api/export/e1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `attachment; filename="Weekly_Plan.quest"`, w.Header().Get("Content-Disposition"))
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.JSONEq(t, `{"id":"e1","name":"Weekly Plan","quests":[]}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/import", `{"log":`+w.Body.String()+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var imported struct {
		Log *questlog.QuestLog `json:"log"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &imported))
	require.NotEqual(t, "e1", imported.Log.ID)
	require.Equal(t, "Weekly Plan (Imported)", imported.Log.Name)

	require.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/import", `{"log":{"id":"x","name":"no quests"}}`).Code)
	require.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/import", `{"log":null}`).Code)
	require.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/import", `[1,2]`).Code)
	require.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/export/missing", "").Code)
}

type fakeBackuper struct {
	count int
	err   error
	logs  map[string]*questlog.QuestLog
}

func (f *fakeBackuper) Run(context.Context) (int, error) { return f.count, f.err }

func (f *fakeBackuper) Restore(_ context.Context, id string) (*questlog.QuestLog, error) {
	if l, ok := f.logs[id]; ok {
		return l, nil
	}
	return nil, questlog.ErrNotFound
}

func TestBackupRoutes(t *testing.T) {
	b := &fakeBackuper{count: 3, logs: map[string]*questlog.QuestLog{"r1": {ID: "r1", Name: "Restored", Quests: []questlog.Quest{}}}}
	r := gin.New()
	RegisterBackup(r, b)

	w := do(r, http.MethodPost, "/api/backup", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true,"count":3}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/restore/r1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true,"log":{"id":"r1","name":"Restored","quests":[]}}`, w.Body.String())

	require.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/restore/nope", "").Code)

	b.err = errors.New("bucket unreachable")
	w = do(r, http.MethodPost, "/api/backup", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"bucket unreachable"}`, w.Body.String())
}
