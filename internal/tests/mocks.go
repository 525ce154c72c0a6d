package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"coursepay/internal/domain"
	"coursepay/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
// It enforces the gateway payment id uniqueness the schema does.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters for verification
	CreateCallCount            int32
	UpdateGatewayDataCallCount int32

	// Error injection
	CreateError            error
	GetByIDError           error
	GetByGatewayIDError    error
	UpdateGatewayDataError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
}

// Get returns a copy of a stored payment, or nil (for test assertions).
func (m *MockPaymentRepository) Get(id string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	if !ok {
		return nil
	}
	copy := *p
	return &copy
}

// Count returns the number of stored payments.
func (m *MockPaymentRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// Writes returns the number of write calls made.
func (m *MockPaymentRepository) Writes() int32 {
	return atomic.LoadInt32(&m.CreateCallCount) + atomic.LoadInt32(&m.UpdateGatewayDataCallCount)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.payments[payment.ID]; exists {
		return repository.ErrDuplicate
	}
	copy := *payment
	m.payments[payment.ID] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	if p := m.Get(id); p != nil {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentRepository) GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error) {
	if m.GetByGatewayIDError != nil {
		return nil, m.GetByGatewayIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.GatewayPaymentID != nil && *p.GatewayPaymentID == gatewayPaymentID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepository) UpdateGatewayData(ctx context.Context, id string, update domain.GatewayUpdate) error {
	atomic.AddInt32(&m.UpdateGatewayDataCallCount, 1)
	if m.UpdateGatewayDataError != nil {
		return m.UpdateGatewayDataError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	for otherID, other := range m.payments {
		if otherID != id && other.GatewayPaymentID != nil && *other.GatewayPaymentID == update.GatewayPaymentID {
			return repository.ErrDuplicate
		}
	}

	gatewayID := update.GatewayPaymentID
	gatewayStatus := update.GatewayStatus
	processedAt := update.ProcessedAt
	p.Status = update.Status
	p.GatewayPaymentID = &gatewayID
	p.GatewayReference = update.GatewayReference
	p.GatewayStatus = &gatewayStatus
	p.RawPayload = update.RawPayload
	p.ProcessedAt = &processedAt
	p.UpdatedAt = time.Now()
	return nil
}

func (m *MockPaymentRepository) ListByInvoiceID(ctx context.Context, invoiceID string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if p.InvoiceID == invoiceID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK INVOICE REPOSITORY
// ──────────────────────────────────────────────

// MockInvoiceRepository is a mock implementation of InvoiceRepository.
type MockInvoiceRepository struct {
	mu       sync.RWMutex
	invoices map[string]*domain.Invoice

	// Counters for verification
	UpdateStatusCallCount int32
	GetByIDCallCount      int32

	// Error injection
	GetByIDError      error
	UpdateStatusError error
}

// NewMockInvoiceRepository creates a new mock invoice repository.
func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{
		invoices: make(map[string]*domain.Invoice),
	}
}

// AddInvoice adds an invoice to the mock repository.
func (m *MockInvoiceRepository) AddInvoice(invoice *domain.Invoice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices[invoice.ID] = invoice
}

// Get returns a copy of a stored invoice, or nil (for test assertions).
func (m *MockInvoiceRepository) Get(id string) *domain.Invoice {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil
	}
	return copyInvoice(inv)
}

func copyInvoice(inv *domain.Invoice) *domain.Invoice {
	copy := *inv
	copy.Items = append([]domain.InvoiceItem(nil), inv.Items...)
	return &copy
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.invoices[invoice.ID]; exists {
		return repository.ErrDuplicate
	}
	copy := *invoice
	m.invoices[invoice.ID] = &copy
	return nil
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	if inv := m.Get(id); inv != nil {
		return inv, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockInvoiceRepository) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, inv := range m.invoices {
		if inv.InvoiceNumber == number {
			return copyInvoice(inv), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockInvoiceRepository) UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus, paidAt *time.Time) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return repository.ErrNotFound
	}
	inv.Status = status
	if paidAt != nil {
		t := *paidAt
		inv.PaidAt = &t
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK ENROLLMENT REPOSITORY
// ──────────────────────────────────────────────

// MockEnrollmentRepository is a mock implementation of EnrollmentRepository.
type MockEnrollmentRepository struct {
	mu          sync.RWMutex
	enrollments map[string]*domain.Enrollment

	// Counters for verification
	UpsertCallCount int32

	// Error injection, keyed by course id
	UpsertErrors map[string]error

	// Panic injection, keyed by course id
	UpsertPanics map[string]bool
}

// NewMockEnrollmentRepository creates a new mock enrollment repository.
func NewMockEnrollmentRepository() *MockEnrollmentRepository {
	return &MockEnrollmentRepository{
		enrollments:  make(map[string]*domain.Enrollment),
		UpsertErrors: make(map[string]error),
		UpsertPanics: make(map[string]bool),
	}
}

func enrollmentKey(userID, courseID string) string {
	return userID + "|" + courseID
}

// Count returns the number of stored enrollments.
func (m *MockEnrollmentRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.enrollments)
}

func (m *MockEnrollmentRepository) UpsertActive(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertPanics[courseID] {
		panic("enrollment store unavailable")
	}
	if err := m.UpsertErrors[courseID]; err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	key := enrollmentKey(userID, courseID)
	e, ok := m.enrollments[key]
	if !ok {
		e = &domain.Enrollment{
			ID:        "enr-" + key,
			UserID:    userID,
			CourseID:  courseID,
			CreatedAt: now,
		}
		m.enrollments[key] = e
	}
	e.Status = domain.EnrollmentStatusActive
	e.EnrolledAt = &now
	e.UpdatedAt = now

	copy := *e
	return &copy, nil
}

func (m *MockEnrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.enrollments[enrollmentKey(userID, courseID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *e
	return &copy, nil
}

func (m *MockEnrollmentRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Enrollment
	for _, e := range m.enrollments {
		if e.UserID == userID {
			copy := *e
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireNotificationLock(ctx context.Context, gatewayPaymentID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:itn:" + gatewayPaymentID
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseNotificationLock(ctx context.Context, gatewayPaymentID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:itn:"+gatewayPaymentID)
	return nil
}

// IsLocked checks if a gateway payment id is claimed (for test assertions).
func (m *MockLockStore) IsLocked(gatewayPaymentID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:itn:"+gatewayPaymentID]
	return exists && time.Now().Before(expiry)
}
