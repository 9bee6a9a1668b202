package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bistro/internal/models"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type telegramStub struct {
	mu       sync.Mutex
	paths    []string
	messages []telegramMessage
}

func newTelegramStub(t *testing.T) (*TelegramService, *telegramStub) {
	t.Helper()
	stub := &telegramStub{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var msg telegramMessage
		_ = json.Unmarshal(body, &msg)

		stub.mu.Lock()
		stub.paths = append(stub.paths, r.URL.Path)
		stub.messages = append(stub.messages, msg)
		stub.mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	svc := NewTelegramService("bot-token", "-100123")
	svc.baseURL = server.URL
	svc.client = server.Client()
	return svc, stub
}

func TestKafkaPublisherWritesKeyedMessage(t *testing.T) {
	writer := &fakeWriter{}
	pub := &KafkaPublisher{writer: writer, prefix: "bistro"}

	err := pub.Publish(context.Background(), Event{Entity: "orders", Action: "created", ResourceID: "abc"})
	require.NoError(t, err)
	require.NoError(t, pub.Close())

	require.Len(t, writer.msgs, 1)
	msg := writer.msgs[0]
	assert.Equal(t, "bistro.orders", msg.Topic)
	assert.Equal(t, []byte("abc"), msg.Key)
	assert.True(t, writer.closed)

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "created", decoded.Action)
	assert.Equal(t, "bistro.orders", decoded.Topic)
	assert.False(t, decoded.Timestamp.IsZero())
}

func TestTelegramNotifyNewOrderEscapesHTML(t *testing.T) {
	svc, stub := newTelegramStub(t)

	err := svc.NotifyNewOrder(context.Background(), OrderNotification{
		OrderNumber:  "ORD-1",
		Items:        []OrderItemNotification{{Name: "Mac & Cheese", Quantity: 2, Price: 4.5}},
		Total:        9,
		CustomerName: "<Ann>",
	})
	require.NoError(t, err)

	require.Len(t, stub.messages, 1)
	assert.Equal(t, "/botbot-token/sendMessage", stub.paths[0])
	msg := stub.messages[0]
	assert.Equal(t, "-100123", msg.ChatID)
	assert.Equal(t, "HTML", msg.ParseMode)
	assert.Contains(t, msg.Text, "Mac &amp; Cheese")
	assert.Contains(t, msg.Text, "&lt;Ann&gt;")
	assert.Contains(t, msg.Text, "$9.00")
}

func TestTelegramDisabledIsNoop(t *testing.T) {
	svc := NewTelegramService("", "")
	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.SendToAdmin(context.Background(), "hello"))
	assert.False(t, (*TelegramService)(nil).Enabled())
}

func TestDispatcherFansOut(t *testing.T) {
	telegram, stub := newTelegramStub(t)
	events := &recordingPublisher{}
	d := NewDispatcher(telegram, events)

	order := models.Order{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		OrderNumber: "ORD-20260101-ABCDEF",
		Status:      models.OrderPending,
		Items:       []models.OrderItem{{Name: "Soup", Quantity: 1, Price: 5}},
		Total:       11.39,
	}
	d.OrderCreated(order)
	order.Status = models.OrderReady
	d.OrderStatusChanged(order, models.OrderPending, uuid.New())
	d.BookingCreated(models.Booking{Name: "Ann", Date: "2026-05-01", Time: "19:30", Guests: 2})
	d.Wait()

	actions := make([]string, 0, len(events.events))
	for _, e := range events.events {
		actions = append(actions, e.Entity+"."+e.Action)
	}
	assert.ElementsMatch(t, []string{"orders.created", "orders.status_changed", "bookings.created"}, actions)

	require.Len(t, stub.messages, 2)
	texts := stub.messages[0].Text + stub.messages[1].Text
	assert.True(t, strings.Contains(texts, "ORD-20260101-ABCDEF"))
	assert.True(t, strings.Contains(texts, "New booking"))
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.OrderCreated(models.Order{})
	d.OrderStatusChanged(models.Order{}, models.OrderPending, uuid.Nil)
	d.BookingCreated(models.Booking{})
	d.Wait()
}
