package stubapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/parceldesk/courier-client/internal/backend"
	"github.com/parceldesk/courier-client/internal/booking"
	"github.com/parceldesk/courier-client/internal/domain"
	"github.com/parceldesk/courier-client/internal/lifecycle"
)

var errEmailTaken = errors.New("email is already registered")

// Server is a development stand-in for the booking backend. It honors the
// same endpoints, envelopes and lifecycle rules so the client can be run
// and exercised without the real service.
type Server struct {
	store  *memoryStore
	tokens *TokenManager
	policy booking.Policy
	cost   int // bcrypt cost
	logger *zap.Logger
}

// NewServer builds a stub server.
func NewServer(jwtSecret string, tokenTTLMinutes, bcryptCost int, policy booking.Policy, logger *zap.Logger) *Server {
	if bcryptCost <= 0 {
		bcryptCost = 10
	}
	return &Server{
		store:  newMemoryStore(),
		tokens: NewTokenManager(jwtSecret, tokenTTLMinutes),
		policy: policy,
		cost:   bcryptCost,
		logger: logger,
	}
}

// Register wires the stub's routes onto a fiber app.
func (s *Server) Register(app *fiber.App) {
	app.Post("/api/auth/register", s.registerHandler(domain.RoleCustomer))
	app.Post("/api/auth/register-officer", s.registerHandler(domain.RoleOfficer))
	app.Post("/api/auth/login", s.login)

	app.Post("/api/customer/bookings", s.requireRole(domain.RoleCustomer), s.createBooking)
	app.Get("/api/customer/bookings", s.requireRole(domain.RoleCustomer), s.listOwnBookings)
	app.Post("/api/customer/bookings/:id/cancel", s.requireRole(domain.RoleCustomer), s.cancelBooking)
	app.Post("/api/customer/bookings/:id/pay", s.requireRole(domain.RoleCustomer), s.confirmPayment)

	app.Post("/api/officer/bookings", s.requireRole(domain.RoleOfficer), s.createBooking)
	app.Get("/api/officer/bookings", s.requireRole(domain.RoleOfficer), s.listAllBookings)
	app.Post("/api/officer/bookings/:id/cancel", s.requireRole(domain.RoleOfficer), s.cancelBooking)
	app.Put("/api/officer/bookings/:id/status", s.requireRole(domain.RoleOfficer), s.updateStatus)
	app.Put("/api/officer/bookings/:id/schedule", s.requireRole(domain.RoleOfficer), s.updateSchedule)

	app.Get("/api/common/bookings/:id", s.requireAuth, s.getBooking)
	app.Post("/api/common/bookings/cost", s.requireAuth, s.quoteCost)
}

const claimsKey = "stub_claims"

// authenticate parses the bearer token without advancing the chain.
func (s *Server) authenticate(c *fiber.Ctx) (*Claims, error) {
	header := c.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("missing or invalid authorization header")
	}
	claims, err := s.tokens.ParseToken(parts[1])
	if err != nil {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *Server) requireAuth(c *fiber.Ctx) error {
	claims, err := s.authenticate(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, err.Error())
	}
	c.Locals(claimsKey, claims)
	return c.Next()
}

func (s *Server) requireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := s.authenticate(c)
		if err != nil {
			return fail(c, http.StatusUnauthorized, err.Error())
		}
		if claims.Role != role {
			return fail(c, http.StatusForbidden, "insufficient role")
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

func (s *Server) registerHandler(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req backend.RegistrationRequest
		if err := c.BodyParser(&req); err != nil {
			return fail(c, http.StatusBadRequest, "invalid payload")
		}
		if req.Password != req.ConfirmPassword {
			return fail(c, http.StatusBadRequest, "password and confirm password do not match")
		}
		if req.CustomerName == "" || req.Email == "" || req.Password == "" {
			return fail(c, http.StatusBadRequest, "name, email and password required")
		}

		hash, err := HashPassword(req.Password, s.cost)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "registration failed")
		}

		user, err := s.store.createAccount(domain.User{
			CustomerName: req.CustomerName,
			Email:        req.Email,
			CountryCode:  req.CountryCode,
			MobileNumber: req.MobileNumber,
			Address:      req.Address,
			Preferences:  req.Preferences,
			Role:         role,
		}, hash)
		if err != nil {
			return fail(c, http.StatusConflict, err.Error())
		}

		s.logger.Info("account registered",
			zap.String("customer_id", user.CustomerID),
			zap.String("role", string(role)),
		)
		return ok(c, http.StatusCreated, "registration successful", fiber.Map{
			"customerId": user.CustomerID,
		})
	}
}

func (s *Server) login(c *fiber.Ctx) error {
	var req backend.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}

	acc, found := s.store.findAccount(req.CustomerID)
	if !found || ComparePassword(acc.passwordHash, req.Password) != nil {
		return fail(c, http.StatusUnauthorized, "invalid customer id or password")
	}

	token, err := s.tokens.GenerateToken(acc.user.CustomerID, acc.user.Role)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "login failed")
	}

	return ok(c, http.StatusOK, "login successful", backend.AuthData{
		Token:        token,
		CustomerID:   acc.user.CustomerID,
		CustomerName: acc.user.CustomerName,
		Email:        acc.user.Email,
		Role:         acc.user.Role,
	})
}

func (s *Server) createBooking(c *fiber.Ctx) error {
	claims := c.Locals(claimsKey).(*Claims)
	asOfficer := claims.Role == domain.RoleOfficer

	var req booking.Request
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	normalized, err := booking.Validate(req, s.policy, asOfficer)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	owner := claims.CustomerID
	if asOfficer {
		acc, found := s.store.findAccount(normalized.CustomerID)
		if !found || acc.user.Role != domain.RoleCustomer {
			return fail(c, http.StatusNotFound, "customer not found: "+normalized.CustomerID)
		}
		owner = acc.user.CustomerID
	}

	cost := CalculateCost(normalized, asOfficer)
	created := s.store.createBooking(domain.Booking{
		CustomerID:                owner,
		ReceiverName:              normalized.ReceiverName,
		ReceiverAddress:           normalized.ReceiverAddress,
		ReceiverPin:               normalized.ReceiverPin,
		ReceiverMobile:            normalized.ReceiverMobile,
		ParcelWeightInGram:        normalized.ParcelWeightInGram,
		ParcelContentsDescription: normalized.ParcelContentsDescription,
		ParcelDeliveryType:        normalized.ParcelDeliveryType,
		ParcelPackingPreference:   normalized.ParcelPackingPreference,
		ParcelPickupTime:          normalized.ParcelPickupTime,
		ParcelDropoffTime:         normalized.ParcelDropoffTime,
		ParcelServiceCost:         cost.TotalCost,
		Status:                    domain.BookingStatusNew,
		BookedByOfficer:           asOfficer,
	})

	return ok(c, http.StatusCreated, "booking created successfully", created)
}

func (s *Server) getBooking(c *fiber.Ctx) error {
	claims := c.Locals(claimsKey).(*Claims)
	b, found := s.store.getBooking(c.Params("id"))
	if !found {
		return fail(c, http.StatusNotFound, "booking not found")
	}
	// Customers may only see their own bookings.
	if claims.Role == domain.RoleCustomer && b.CustomerID != claims.CustomerID {
		return fail(c, http.StatusNotFound, "booking not found")
	}
	return ok(c, http.StatusOK, "booking found", b)
}

func (s *Server) listOwnBookings(c *fiber.Ctx) error {
	claims := c.Locals(claimsKey).(*Claims)
	all := s.store.listBookings(bookingFilter{
		owner:     claims.CustomerID,
		bookingID: c.Query("bookingId"),
		status:    domain.BookingStatus(c.Query("status")),
	})
	return ok(c, http.StatusOK, "bookings retrieved successfully", paginate(all, c.QueryInt("page", 0), c.QueryInt("size", 10)))
}

func (s *Server) listAllBookings(c *fiber.Ctx) error {
	all := s.store.listBookings(bookingFilter{
		customerID: c.Query("customerId"),
		bookingID:  c.Query("bookingId"),
		status:     domain.BookingStatus(c.Query("status")),
	})
	return ok(c, http.StatusOK, "bookings retrieved successfully", paginate(all, c.QueryInt("page", 0), c.QueryInt("size", 10)))
}

func (s *Server) cancelBooking(c *fiber.Ctx) error {
	claims := c.Locals(claimsKey).(*Claims)
	bookingID := c.Params("id")

	b, found := s.store.getBooking(bookingID)
	if !found {
		return fail(c, http.StatusNotFound, "booking not found")
	}
	if claims.Role == domain.RoleCustomer && b.CustomerID != claims.CustomerID {
		return fail(c, http.StatusForbidden, "you can only cancel your own bookings")
	}

	next, err := lifecycle.Transition(b.Status, lifecycle.ActionCancel, lifecycle.ActorForRole(claims.Role))
	if err != nil {
		return fail(c, http.StatusConflict, err.Error())
	}

	updated, _ := s.store.updateBooking(bookingID, func(b *domain.Booking) {
		b.Status = next
	})
	return ok(c, http.StatusOK, "booking cancelled successfully", updated)
}

func (s *Server) updateStatus(c *fiber.Ctx) error {
	bookingID := c.Params("id")
	// The query value is only valid for the lifetime of the request;
	// copy before it is persisted into the store.
	target := domain.BookingStatus(utils.CopyString(c.Query("status")))
	if !target.Valid() {
		return fail(c, http.StatusBadRequest, "unknown status")
	}

	b, found := s.store.getBooking(bookingID)
	if !found {
		return fail(c, http.StatusNotFound, "booking not found")
	}

	if _, err := lifecycle.TransitionTo(b.Status, target, lifecycle.ActorOfficer); err != nil {
		return fail(c, http.StatusConflict, err.Error())
	}

	updated, _ := s.store.updateBooking(bookingID, func(b *domain.Booking) {
		b.Status = target
		if target == domain.BookingStatusBooked {
			now := time.Now()
			b.ParcelPaymentTime = &now
		}
	})
	return ok(c, http.StatusOK, "booking status updated successfully", updated)
}

func (s *Server) confirmPayment(c *fiber.Ctx) error {
	claims := c.Locals(claimsKey).(*Claims)
	bookingID := c.Params("id")

	b, found := s.store.getBooking(bookingID)
	if !found {
		return fail(c, http.StatusNotFound, "booking not found")
	}
	if b.CustomerID != claims.CustomerID {
		return fail(c, http.StatusForbidden, "you can only pay for your own bookings")
	}

	next, err := lifecycle.Transition(b.Status, lifecycle.ActionConfirmPayment, lifecycle.ActorCustomer)
	if err != nil {
		return fail(c, http.StatusConflict, err.Error())
	}

	updated, _ := s.store.updateBooking(bookingID, func(b *domain.Booking) {
		b.Status = next
		now := time.Now()
		b.ParcelPaymentTime = &now
	})
	return ok(c, http.StatusOK, "payment confirmed successfully", updated)
}

func (s *Server) updateSchedule(c *fiber.Ctx) error {
	bookingID := c.Params("id")

	var req backend.ScheduleUpdate
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	pickup, err := time.Parse(time.RFC3339, req.ParcelPickupTime)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid pickup time")
	}
	dropoff, err := time.Parse(time.RFC3339, req.ParcelDropoffTime)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid dropoff time")
	}
	if dropoff.Before(pickup) {
		return fail(c, http.StatusBadRequest, "dropoff time cannot precede pickup time")
	}

	b, found := s.store.getBooking(bookingID)
	if !found {
		return fail(c, http.StatusNotFound, "booking not found")
	}

	next, err := lifecycle.Transition(b.Status, lifecycle.ActionSchedule, lifecycle.ActorSystem)
	if err != nil {
		return fail(c, http.StatusConflict, err.Error())
	}

	updated, _ := s.store.updateBooking(bookingID, func(b *domain.Booking) {
		b.ParcelPickupTime = &pickup
		b.ParcelDropoffTime = &dropoff
		b.Status = next
	})
	return ok(c, http.StatusOK, "booking scheduled successfully", updated)
}

func (s *Server) quoteCost(c *fiber.Ctx) error {
	claims := c.Locals(claimsKey).(*Claims)

	var req booking.Request
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	asOfficer := claims.Role == domain.RoleOfficer
	normalized, err := booking.Validate(req, s.policy, asOfficer)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	return ok(c, http.StatusOK, "cost calculated", CalculateCost(normalized, asOfficer))
}

// ok writes a success envelope.
func ok(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success":   true,
		"message":   message,
		"data":      data,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// fail writes a failure envelope.
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success":   false,
		"message":   message,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// paginate slices bookings into the page envelope list endpoints use.
func paginate(all []domain.Booking, page, size int) backend.Page[domain.Booking] {
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}

	total := len(all)
	totalPages := (total + size - 1) / size
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	content := all[start:end]
	if content == nil {
		content = []domain.Booking{}
	}
	return backend.Page[domain.Booking]{
		Content:       content,
		TotalElements: int64(total),
		TotalPages:    totalPages,
		Size:          size,
		Number:        page,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}
