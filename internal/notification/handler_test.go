package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/abc-retail-cloud/internal/domain/user"
	"github.com/example/abc-retail-cloud/internal/email"
	"github.com/example/abc-retail-cloud/internal/events"
	"github.com/example/abc-retail-cloud/internal/infrastructure/store/mocks"
)

// ============================================================
// Test doubles
// ============================================================

type sentMail struct {
	To      string
	OrderID int64
	Total   int64
	Items   []email.OrderItem
}

type recordingMailer struct {
	sent    []sentMail
	sendErr error
}

func (m *recordingMailer) SendOrderConfirmation(to string, orderID int64, total int64, items []email.OrderItem) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{To: to, OrderID: orderID, Total: total, Items: items})
	return nil
}

func newTestHandler() (*Handler, *recordingMailer, *user.Service) {
	mailer := &recordingMailer{}
	users := user.NewService(mocks.NewMockUserStore())
	return NewHandler(mailer, users), mailer, users
}

func orderPlacedPayload(t *testing.T, e events.OrderPlaced) []byte {
	t.Helper()
	env, err := events.Wrap(events.TypeOrderPlaced, e)
	require.NoError(t, err)
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	return raw
}

// ============================================================
// HandleEvent
// ============================================================

func TestHandleEvent_SendsConfirmationEmail(t *testing.T) {
	handler, mailer, _ := newTestHandler()

	raw := orderPlacedPayload(t, events.OrderPlaced{
		OrderID: 42,
		UserID:  7,
		Email:   "ada@example.com",
		Total:   2500,
		Items: []events.OrderLine{
			{ProductID: "prod-1", ProductName: "Keyboard", Quantity: 2, UnitPrice: 1000},
			{ProductID: "prod-2", ProductName: "Mouse", Quantity: 1, UnitPrice: 500},
		},
	})

	err := handler.HandleEvent(context.Background(), []byte("42"), raw)
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	mail := mailer.sent[0]
	assert.Equal(t, "ada@example.com", mail.To)
	assert.Equal(t, int64(42), mail.OrderID)
	assert.Equal(t, int64(2500), mail.Total)
	require.Len(t, mail.Items, 2)
	assert.Equal(t, "Keyboard", mail.Items[0].Name)
	assert.Equal(t, int64(1000), mail.Items[0].UnitPrice)
}

func TestHandleEvent_ResolvesEmailFromUserStore(t *testing.T) {
	handler, mailer, users := newTestHandler()

	u, err := users.Register(context.Background(), "grace@example.com", "password123", "Grace", "Hopper", "")
	require.NoError(t, err)

	raw := orderPlacedPayload(t, events.OrderPlaced{
		OrderID: 9,
		UserID:  u.ID,
		Total:   1000,
		Items:   []events.OrderLine{{ProductID: "prod-1", ProductName: "Keyboard", Quantity: 1, UnitPrice: 1000}},
	})

	require.NoError(t, handler.HandleEvent(context.Background(), []byte("9"), raw))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "grace@example.com", mailer.sent[0].To)
}

func TestHandleEvent_UnknownUserDropsEvent(t *testing.T) {
	handler, mailer, _ := newTestHandler()

	raw := orderPlacedPayload(t, events.OrderPlaced{OrderID: 9, UserID: 999, Total: 1000})

	// An unresolvable recipient is not retryable, so the event is dropped.
	require.NoError(t, handler.HandleEvent(context.Background(), []byte("9"), raw))
	assert.Empty(t, mailer.sent)
}

func TestHandleEvent_IgnoresOtherEventTypes(t *testing.T) {
	handler, mailer, _ := newTestHandler()

	env, err := events.Wrap(events.TypeInventoryAdjusted, events.InventoryAdjusted{ProductID: "prod-1"})
	require.NoError(t, err)
	raw, err := json.Marshal(env)
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), []byte("prod-1"), raw))
	assert.Empty(t, mailer.sent)
}

func TestHandleEvent_MalformedEnvelope(t *testing.T) {
	handler, mailer, _ := newTestHandler()

	err := handler.HandleEvent(context.Background(), nil, []byte("not json"))
	assert.Error(t, err)
	assert.Empty(t, mailer.sent)
}

func TestHandleEvent_MailerFailurePropagates(t *testing.T) {
	handler, mailer, _ := newTestHandler()
	mailer.sendErr = errors.New("smtp down")

	raw := orderPlacedPayload(t, events.OrderPlaced{
		OrderID: 1,
		UserID:  7,
		Email:   "ada@example.com",
		Total:   500,
	})

	err := handler.HandleEvent(context.Background(), []byte("1"), raw)
	assert.Error(t, err)
	assert.Empty(t, mailer.sent)
}
