package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const telegramAPI = "https://api.telegram.org"

// TelegramService sends admin notifications to a Telegram chat.
type TelegramService struct {
	botToken    string
	adminChatID string
	baseURL     string
	client      *http.Client
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		baseURL:     telegramAPI,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether both the bot token and the admin chat are configured.
func (s *TelegramService) Enabled() bool {
	return s != nil && s.botToken != "" && s.adminChatID != ""
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendToAdmin sends an HTML formatted message to the admin chat.
func (s *TelegramService) SendToAdmin(ctx context.Context, text string) error {
	if !s.Enabled() {
		return nil
	}

	body, err := json.Marshal(telegramMessage{
		ChatID:    s.adminChatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("telegram unexpected status", slog.Int("status", resp.StatusCode))
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// OrderNotification contains order data for the admin chat.
type OrderNotification struct {
	OrderNumber   string
	Items         []OrderItemNotification
	Total         float64
	CustomerName  string
	CustomerPhone string
	PaymentMethod string
	Address       string
}

type OrderItemNotification struct {
	Name     string
	Quantity int
	Price    float64
}

// FormatPrice renders an amount with two decimals and a dollar sign.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// NotifyNewOrder sends a summary of a freshly placed order.
func (s *TelegramService) NotifyNewOrder(ctx context.Context, order OrderNotification) error {
	var items strings.Builder
	for i, item := range order.Items {
		fmt.Fprintf(&items, "%d. <b>%s</b>\n   %d x %s = %s\n",
			i+1,
			html.EscapeString(item.Name),
			item.Quantity,
			FormatPrice(item.Price),
			FormatPrice(item.Price*float64(item.Quantity)),
		)
	}

	message := fmt.Sprintf(`<b>New order %s</b>
<b>Customer:</b> %s
<b>Phone:</b> %s
<b>Address:</b> %s
<b>Items:</b>
%s
<b>Total:</b> %s
<b>Payment:</b> %s`,
		html.EscapeString(order.OrderNumber),
		html.EscapeString(order.CustomerName),
		html.EscapeString(order.CustomerPhone),
		html.EscapeString(order.Address),
		items.String(),
		FormatPrice(order.Total),
		html.EscapeString(order.PaymentMethod),
	)

	return s.SendToAdmin(ctx, strings.TrimSpace(message))
}

// BookingNotification contains booking data for the admin chat.
type BookingNotification struct {
	Name     string
	Phone    string
	Date     string
	Time     string
	Guests   int
	Requests string
}

// NotifyNewBooking sends a summary of a table booking request.
func (s *TelegramService) NotifyNewBooking(ctx context.Context, b BookingNotification) error {
	message := fmt.Sprintf(`<b>New booking</b>
<b>Name:</b> %s
<b>Phone:</b> %s
<b>When:</b> %s %s
<b>Guests:</b> %d`,
		html.EscapeString(b.Name),
		html.EscapeString(b.Phone),
		html.EscapeString(b.Date),
		html.EscapeString(b.Time),
		b.Guests,
	)
	if b.Requests != "" {
		message += "\n<b>Requests:</b> " + html.EscapeString(b.Requests)
	}
	return s.SendToAdmin(ctx, message)
}
