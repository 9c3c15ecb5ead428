package stubapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parceldesk/courier-client/internal/domain"
)

// account is a registered user with its password hash.
type account struct {
	user         domain.User
	passwordHash string
}

// memoryStore keeps accounts and bookings in memory. The stub stands in
// for the real backend during development; persistence belongs to the
// real service.
type memoryStore struct {
	mu       sync.Mutex
	accounts map[string]*account // keyed by customer id
	bookings map[string]*domain.Booking
	nextID   int64
	seq      int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts: make(map[string]*account),
		bookings: make(map[string]*domain.Booking),
	}
}

func (m *memoryStore) createAccount(user domain.User, passwordHash string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, acc := range m.accounts {
		if strings.EqualFold(acc.user.Email, user.Email) {
			return domain.User{}, errEmailTaken
		}
	}

	m.seq++
	prefix := "CUST"
	if user.Role == domain.RoleOfficer {
		prefix = "OFF"
	}
	user.CustomerID = fmt.Sprintf("%s%04d", prefix, m.seq)
	user.CreatedAt = time.Now()

	m.accounts[user.CustomerID] = &account{user: user, passwordHash: passwordHash}
	return user, nil
}

func (m *memoryStore) findAccount(customerID string) (*account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[customerID]
	return acc, ok
}

func (m *memoryStore) createBooking(b domain.Booking) domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	b.ID = m.nextID
	b.BookingID = generateBookingID()
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	stored := b
	m.bookings[b.BookingID] = &stored
	return stored
}

func (m *memoryStore) getBooking(bookingID string) (domain.Booking, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return domain.Booking{}, false
	}
	return *b, true
}

func (m *memoryStore) updateBooking(bookingID string, mutate func(*domain.Booking)) (domain.Booking, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return domain.Booking{}, false
	}
	mutate(b)
	b.UpdatedAt = time.Now()
	return *b, true
}

// bookingFilter narrows listings; empty fields match everything.
type bookingFilter struct {
	customerID string
	owner      string // restrict to an owner regardless of filter
	bookingID  string
	status     domain.BookingStatus
}

func (m *memoryStore) listBookings(filter bookingFilter) []domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Booking
	for _, b := range m.bookings {
		if filter.owner != "" && b.CustomerID != filter.owner {
			continue
		}
		if filter.customerID != "" && b.CustomerID != filter.customerID {
			continue
		}
		if filter.bookingID != "" && b.BookingID != filter.bookingID {
			continue
		}
		if filter.status != "" && b.Status != filter.status {
			continue
		}
		out = append(out, *b)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// generateBookingID produces a short public id like BK3F9A21C4.
func generateBookingID() string {
	return "BK" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
