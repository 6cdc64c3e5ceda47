package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genius/internal/domain/models"
	"genius/internal/tools"
	"genius/internal/web"
)

func newPagesHandler(t *testing.T, usage *fakeUsage) *PagesHandler {
	t.Helper()
	registry, err := tools.NewRegistry()
	require.NoError(t, err)
	renderer, err := web.NewRenderer(web.LayoutConfig{Tools: registry.List()})
	require.NoError(t, err)
	return NewPagesHandler(renderer, registry, usage, testLogger(nil))
}

func TestPages_ToolPage(t *testing.T) {
	h := newPagesHandler(t, &fakeUsage{})

	rec := httptest.NewRecorder()
	h.Tool(tools.ToolCode)(rec, httptest.NewRequest(http.MethodGet, "/code", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `data-route="/api/code"`)
	assert.Contains(t, rec.Body.String(), "Code Generation")
	assert.Contains(t, rec.Body.String(), "Simple toggle button using react hooks.")
}

func TestPages_UnknownTool(t *testing.T) {
	h := newPagesHandler(t, &fakeUsage{})

	rec := httptest.NewRecorder()
	h.Tool("image")(rec, httptest.NewRequest(http.MethodGet, "/image", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPages_SettingsAnonymous(t *testing.T) {
	h := newPagesHandler(t, &fakeUsage{})

	rec := httptest.NewRecorder()
	h.Settings(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign in")
	assert.NotContains(t, rec.Body.String(), "You are currently on")
}

func TestPages_SettingsPro(t *testing.T) {
	h := newPagesHandler(t, &fakeUsage{usage: &models.Usage{IsPro: true}})

	rec := httptest.NewRecorder()
	h.Settings(rec, withUser(httptest.NewRequest(http.MethodGet, "/settings", nil), "user_1", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You are currently on a Pro plan.")
	assert.Contains(t, rec.Body.String(), "Manage Subscription")
}

func TestPages_SettingsUsageFailureRendersFree(t *testing.T) {
	h := newPagesHandler(t, &fakeUsage{err: errors.New("db down")})

	rec := httptest.NewRecorder()
	h.Settings(rec, withUser(httptest.NewRequest(http.MethodGet, "/settings", nil), "user_1", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You are currently on a free plan.")
	assert.Contains(t, rec.Body.String(), ">Upgrade</button>")
}

func TestPages_Dashboard(t *testing.T) {
	h := newPagesHandler(t, &fakeUsage{usage: &models.Usage{Count: 1, MaxFreeCounts: 5}})

	rec := httptest.NewRecorder()
	h.Dashboard(rec, withUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "user_1", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Home page")
	assert.Contains(t, rec.Body.String(), "1 / 5 Free Generations")
}

func TestPages_Landing(t *testing.T) {
	h := newPagesHandler(t, &fakeUsage{})

	rec := httptest.NewRecorder()
	h.Landing(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Genius</title>")
}
