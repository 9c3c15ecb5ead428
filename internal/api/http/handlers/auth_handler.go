package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/parceldesk/courier-client/internal/api/dto"
	"github.com/parceldesk/courier-client/internal/backend"
	"github.com/parceldesk/courier-client/internal/domain"
	"github.com/parceldesk/courier-client/internal/guard"
	"github.com/parceldesk/courier-client/internal/session"
)

// AuthHandler drives login, logout and registration views.
type AuthHandler struct {
	api   *backend.Client
	store *session.Store
}

// NewAuthHandler constructs handler.
func NewAuthHandler(api *backend.Client, store *session.Store) *AuthHandler {
	return &AuthHandler{api: api, store: store}
}

// Login handles POST /login: authenticate against the backend, store the
// session, and land on the role's dashboard.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if form.CustomerID == "" || form.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "customer id and password required")
	}

	data, err := h.api.Login(c.UserContext(), form.CustomerID, form.Password)
	if err != nil {
		if _, ok := err.(*backend.APIError); ok {
			return fiber.NewError(http.StatusUnauthorized, "invalid customer id or password")
		}
		return err
	}

	if err := h.store.SetSession(c.UserContext(), data.Token, data.Principal()); err != nil {
		// Malformed login data never reaches the user beyond a re-login.
		return fiber.NewError(http.StatusUnauthorized, "login response was invalid, please try again")
	}

	return c.Redirect(dashboardFor(data.Role), fiber.StatusFound)
}

// Logout handles POST /logout: clear the session and return to login.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.store.ClearSession(c.UserContext())
	return c.Redirect(guard.LoginPath, fiber.StatusFound)
}

// Register handles POST /register for customer accounts.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	return h.register(c, false)
}

// RegisterOfficer handles POST /register-officer.
func (h *AuthHandler) RegisterOfficer(c *fiber.Ctx) error {
	return h.register(c, true)
}

func (h *AuthHandler) register(c *fiber.Ctx, officer bool) error {
	var form dto.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if form.Password != form.ConfirmPassword {
		return fiber.NewError(http.StatusBadRequest, "password and confirm password do not match")
	}

	req := backend.RegistrationRequest{
		CustomerName:    form.CustomerName,
		Email:           form.Email,
		CountryCode:     form.CountryCode,
		MobileNumber:    form.MobileNumber,
		Address:         form.Address,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
		Preferences:     form.Preferences,
	}

	var err error
	if officer {
		err = h.api.RegisterOfficer(c.UserContext(), req)
	} else {
		err = h.api.Register(c.UserContext(), req)
	}
	if err != nil {
		return err
	}

	return c.Redirect(guard.LoginPath, fiber.StatusFound)
}

// Session handles GET /session: the current principal, for view chrome.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	resp := dto.SessionResponse{Authenticated: h.store.IsAuthenticated()}
	if p, ok := h.store.CurrentPrincipal(); ok {
		resp.Principal = &p
	}
	return c.JSON(resp)
}

// Home handles GET /: land on the dashboard for the active session, or on
// login when there is none.
func (h *AuthHandler) Home(c *fiber.Ctx) error {
	p, ok := h.store.CurrentPrincipal()
	if !ok {
		return c.Redirect(guard.LoginPath, fiber.StatusFound)
	}
	return c.Redirect(dashboardFor(p.Role), fiber.StatusFound)
}

func dashboardFor(role domain.Role) string {
	if role == domain.RoleOfficer {
		return guard.OfficerDashboardPath
	}
	return guard.CustomerDashboardPath
}
