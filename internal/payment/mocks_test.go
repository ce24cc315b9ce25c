package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"marketpay/internal/gateway"
	"marketpay/internal/order"
	"marketpay/internal/paymethod"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) GetByID(ctx context.Context, orderID uint) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepo) GetByIDs(ctx context.Context, orderIDs []uint) ([]*order.Order, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepo) GetByGroup(ctx context.Context, groupID uuid.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, orderID uint, status order.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type MockMethodRepo struct {
	mock.Mock
}

func (m *MockMethodRepo) FindByOrder(ctx context.Context, orderID uint) (*paymethod.Method, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymethod.Method), args.Error(1)
}

// --- In-memory transaction store ---

// fakeTxStore enforces the same unique (method, order, remote-id) semantics
// as the Postgres repository, which is what the idempotency tests exercise.
type fakeTxStore struct {
	nextID int64
	rows   map[string]*Transaction
}

func newFakeTxStore() *fakeTxStore {
	return &fakeTxStore{rows: make(map[string]*Transaction)}
}

func txKey(method string, orderID uint, remoteID string) string {
	return fmt.Sprintf("%s/%d/%s", method, orderID, remoteID)
}

func (s *fakeTxStore) FindByOrderAndRemoteID(_ context.Context, method string, orderID uint, remoteID string) (*Transaction, error) {
	if tx, ok := s.rows[txKey(method, orderID, remoteID)]; ok {
		cp := *tx
		return &cp, nil
	}
	return nil, nil
}

func (s *fakeTxStore) Upsert(_ context.Context, tx *Transaction) error {
	key := txKey(tx.PaymentMethod, tx.OrderID, tx.RemoteID)
	if existing, ok := s.rows[key]; ok {
		tx.ID = existing.ID
	} else {
		s.nextID++
		tx.ID = s.nextID
	}
	cp := *tx
	s.rows[key] = &cp
	return nil
}

func (s *fakeTxStore) count() int {
	return len(s.rows)
}

// --- Recording checkout flow ---

type recordingFlow struct {
	advanced  []uint
	retreated []uint
}

func (f *recordingFlow) Advance(_ context.Context, o *order.Order) error {
	f.advanced = append(f.advanced, o.ID)
	return nil
}

func (f *recordingFlow) Retreat(_ context.Context, o *order.Order) error {
	f.retreated = append(f.retreated, o.ID)
	return nil
}

// --- Stub gateway ---

// stubGateway authenticates any feedback whose Signature is "good" and maps
// the handful of status codes the tests use.
type stubGateway struct{}

func (stubGateway) Code() string { return "OGONE" }

func (stubGateway) ParseFeedback(values url.Values) (*gateway.Feedback, error) {
	return nil, errors.New("not used")
}

func (stubGateway) VerifySignature(o *order.Order, m *paymethod.Method, fb *gateway.Feedback) error {
	if fb.Signature != "good" {
		return gateway.ErrBadSignature
	}
	return nil
}

func (stubGateway) BuildPaymentRequest(reference string, amount float64, currency string) url.Values {
	return url.Values{"ORDERID": {reference}}
}

func (stubGateway) StatusOf(code int) (gateway.Status, string) {
	switch code {
	case 9:
		return gateway.StatusPaid, "payment requested"
	case 2:
		return gateway.StatusFailed, "authorization refused"
	case 91:
		return gateway.StatusPending, "payment processing"
	default:
		return gateway.StatusUnknown, "unhandled status"
	}
}
