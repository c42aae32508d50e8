package orders

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-inventory-orders/internal/users"
)

// mockDirectory implements UserDirectory for testing
type mockDirectory struct {
	users map[string]*users.User
	err   error
}

func (m *mockDirectory) FindByID(_ context.Context, id string) (*users.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return u, nil
}

// mockStore implements Store for testing
type mockStore struct {
	createCalls    int
	createdUserID  string // captures userID passed to CreateOrder
	createdLines   []ItemInput
	createOrder    *Order
	createReserved []ReservedLine
	createErr      error

	byID   map[string]*Order
	byUser map[string][]Order
	all    []Order
	err    error
}

func (m *mockStore) CreateOrder(_ context.Context, userID string, lines []ItemInput) (*Order, []ReservedLine, error) {
	m.createCalls++
	m.createdUserID = userID
	m.createdLines = lines
	if m.createErr != nil {
		return nil, nil, m.createErr
	}
	return m.createOrder, m.createReserved, nil
}

func (m *mockStore) FindByID(_ context.Context, id string) (*Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (m *mockStore) FindByUser(_ context.Context, userID string) ([]Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byUser[userID], nil
}

func (m *mockStore) FindAll(_ context.Context) ([]Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.all, nil
}

// mockPublisher records published envelopes
type mockPublisher struct {
	envelopes []Envelope
}

func (m *mockPublisher) Publish(_, value []byte, _ ...kafkago.Header) {
	var env Envelope
	if err := json.Unmarshal(value, &env); err == nil {
		m.envelopes = append(m.envelopes, env)
	}
}
