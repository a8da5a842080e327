package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mckayc/task-donegeon-sub006/internal/handlers"
	"github.com/mckayc/task-donegeon-sub006/internal/models"
	"github.com/mckayc/task-donegeon-sub006/internal/repository"
	"github.com/mckayc/task-donegeon-sub006/internal/services"
	"github.com/mckayc/task-donegeon-sub006/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminHandlerFixture struct {
	userRepo      *repository.SQLiteUserRepository
	settingsRepo  *repository.SQLiteSettingsRepository
	router        *chi.Mux
	notifications *int
}

func newAdminHandlerFixture(t *testing.T) adminHandlerFixture {
	t.Helper()
	db := testutil.NewTestDatabase(t)

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewAPITokenRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	notifications := 0
	notifier := services.NotifierFunc(func() { notifications++ })
	handler := handlers.NewAdminHandler(userRepo, tokenRepo, settingsRepo, notifier)

	router := chi.NewRouter()
	router.Post("/api/users/{id}/role", handler.UpdateUserRole)
	router.Post("/api/settings", handler.UpdateSettings)

	return adminHandlerFixture{
		userRepo:      userRepo,
		settingsRepo:  settingsRepo,
		router:        router,
		notifications: &notifications,
	}
}

func (fixture adminHandlerFixture) post(t *testing.T, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	fixture.router.ServeHTTP(recorder, request)
	return recorder
}

func TestUpdateUserRoleNotifies(t *testing.T) {
	fixture := newAdminHandlerFixture(t)
	ctx := context.Background()

	user, err := fixture.userRepo.Create(ctx, models.User{GameName: "Explorer"})
	require.NoError(t, err)

	recorder := fixture.post(t, "/api/users/"+user.ID+"/role", map[string]string{"role": "gatekeeper"})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, *fixture.notifications)

	updated, err := fixture.userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGatekeeper, updated.Role)

	bad := fixture.post(t, "/api/users/"+user.ID+"/role", map[string]string{"role": "archmage"})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, 1, *fixture.notifications)
}

func TestUpdateSettingsNotifies(t *testing.T) {
	fixture := newAdminHandlerFixture(t)
	ctx := context.Background()

	recorder := fixture.post(t, "/api/settings", map[string]string{"donegeon_name": "The Keep"})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, *fixture.notifications)

	value, err := fixture.settingsRepo.Get(ctx, "donegeon_name")
	require.NoError(t, err)
	assert.Equal(t, "The Keep", value)

	// An empty payload changes nothing and wakes nobody.
	empty := fixture.post(t, "/api/settings", map[string]string{})
	require.Equal(t, http.StatusOK, empty.Code)
	assert.Equal(t, 1, *fixture.notifications)
}
