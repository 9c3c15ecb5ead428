package guard

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceldesk/courier-client/internal/domain"
	"github.com/parceldesk/courier-client/internal/session"
)

func newTestApp(t *testing.T, store *session.Store) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/customer/booking", Middleware(store, Require(domain.RoleCustomer)), func(c *fiber.Ctx) error {
		return c.SendString("booking form")
	})
	app.Get("/officer", Middleware(store, Require(domain.RoleOfficer)), func(c *fiber.Ctx) error {
		return c.SendString("officer dashboard")
	})
	return app
}

func newSessionStore(t *testing.T) *session.Store {
	t.Helper()
	persistence, err := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	store, err := session.NewStore(context.Background(), persistence, nil)
	require.NoError(t, err)
	return store
}

func TestMiddlewareRedirectsUnauthenticatedToLogin(t *testing.T) {
	store := newSessionStore(t)
	app := newTestApp(t, store)

	resp, err := app.Test(httptest.NewRequest("GET", "/customer/booking", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, LoginPath, resp.Header.Get("Location"))
}

func TestMiddlewareRedirectsWrongRoleToOwnDashboard(t *testing.T) {
	store := newSessionStore(t)
	require.NoError(t, store.SetSession(context.Background(), "tok", domain.Principal{
		CustomerID: "CUST0001",
		Role:       domain.RoleCustomer,
	}))
	app := newTestApp(t, store)

	resp, err := app.Test(httptest.NewRequest("GET", "/officer", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, CustomerDashboardPath, resp.Header.Get("Location"))
}

func TestMiddlewareAllowsMatchingRole(t *testing.T) {
	store := newSessionStore(t)
	require.NoError(t, store.SetSession(context.Background(), "tok", domain.Principal{
		CustomerID: "CUST0001",
		Role:       domain.RoleCustomer,
	}))
	app := newTestApp(t, store)

	resp, err := app.Test(httptest.NewRequest("GET", "/customer/booking", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
