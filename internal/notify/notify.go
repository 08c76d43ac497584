// Package notify provides notification delivery for coaching events.
package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"equiverse/internal/config"
	"equiverse/internal/models"
	"equiverse/pkg/utils"
)

// Notifier defines the interface for sending notifications.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	SendIntervention(ctx context.Context, iv models.Intervention) error
	SendXPAward(ctx context.Context, action string, earned, total int) error
	SendTrade(ctx context.Context, tx *models.Transaction) error
	SendError(ctx context.Context, err error, errContext string) error
}

// Channel defines the interface for a notification channel.
type Channel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
	IsEnabled() bool
}

// Notification represents a notification message.
type Notification struct {
	Type      NotificationType
	Title     string
	Message   string
	Data      map[string]interface{}
	Timestamp time.Time
}

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationIntervention NotificationType = "intervention"
	NotificationXP           NotificationType = "xp"
	NotificationTrade        NotificationType = "trade"
	NotificationError        NotificationType = "error"
)

// MultiNotifier fans notifications out to all enabled channels.
type MultiNotifier struct {
	channels []Channel
	mu       sync.RWMutex
}

// NewMultiNotifier creates a notifier from the notification config.
func NewMultiNotifier(cfg config.NotifyConfig, out io.Writer) *MultiNotifier {
	mn := &MultiNotifier{}

	if !cfg.Enabled {
		return mn
	}
	if cfg.Terminal {
		mn.channels = append(mn.channels, NewTerminalChannel(out))
	}
	if cfg.Webhook.Enabled {
		mn.channels = append(mn.channels, NewWebhookChannel(cfg.Webhook))
	}

	return mn
}

// AddChannel adds a notification channel.
func (mn *MultiNotifier) AddChannel(ch Channel) {
	mn.mu.Lock()
	defer mn.mu.Unlock()
	mn.channels = append(mn.channels, ch)
}

// Send delivers a notification to all enabled channels.
func (mn *MultiNotifier) Send(ctx context.Context, n Notification) error {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	mn.mu.RLock()
	channels := mn.channels
	mn.mu.RUnlock()

	var errs []string
	for _, ch := range channels {
		if ch.IsEnabled() {
			if err := ch.Send(ctx, n); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", ch.Name(), err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SendIntervention delivers a coaching intervention.
func (mn *MultiNotifier) SendIntervention(ctx context.Context, iv models.Intervention) error {
	var emoji string
	switch iv.Severity {
	case models.SeverityHigh:
		emoji = "🔴"
	case models.SeverityMedium:
		emoji = "🟡"
	default:
		emoji = "🔵"
	}

	return mn.Send(ctx, Notification{
		Type:    NotificationIntervention,
		Title:   fmt.Sprintf("%s %s", emoji, iv.Title),
		Message: iv.Message,
		Data: map[string]interface{}{
			"type":     iv.Type,
			"severity": iv.Severity,
		},
	})
}

// SendXPAward delivers an XP award notification.
func (mn *MultiNotifier) SendXPAward(ctx context.Context, action string, earned, total int) error {
	return mn.Send(ctx, Notification{
		Type:    NotificationXP,
		Title:   fmt.Sprintf("✨ +%d XP", earned),
		Message: fmt.Sprintf("Action: %s\nTotal XP: %d", action, total),
		Data: map[string]interface{}{
			"action": action,
			"earned": earned,
			"total":  total,
		},
	})
}

// SendTrade delivers an executed-trade notification.
func (mn *MultiNotifier) SendTrade(ctx context.Context, tx *models.Transaction) error {
	var emoji string
	if tx.Type == models.TradeActionBuy {
		emoji = "✅"
	} else {
		emoji = "💰"
	}

	title := fmt.Sprintf("%s Trade Executed: %s %s", emoji, tx.Type, tx.Symbol)
	message := fmt.Sprintf("Symbol: %s\nAction: %s\nQuantity: %d\nPrice: %s\nTotal: %s",
		tx.Symbol, tx.Type, tx.Quantity,
		utils.FormatCurrency(tx.Price), utils.FormatCurrency(tx.Total))

	data := map[string]interface{}{
		"symbol":   tx.Symbol,
		"type":     tx.Type,
		"quantity": tx.Quantity,
		"price":    tx.Price,
		"total":    tx.Total,
	}

	if tx.Profit != nil {
		sign := "+"
		if *tx.Profit < 0 {
			sign = ""
		}
		message += fmt.Sprintf("\nP&L: %s%s", sign, utils.FormatCurrency(*tx.Profit))
		data["profit"] = *tx.Profit
	}

	return mn.Send(ctx, Notification{
		Type:    NotificationTrade,
		Title:   title,
		Message: message,
		Data:    data,
	})
}

// SendError delivers an error notification.
func (mn *MultiNotifier) SendError(ctx context.Context, err error, errContext string) error {
	return mn.Send(ctx, Notification{
		Type:    NotificationError,
		Title:   "❌ Error Occurred",
		Message: fmt.Sprintf("Context: %s\nError: %v", errContext, err),
		Data: map[string]interface{}{
			"context": errContext,
			"error":   err.Error(),
		},
	})
}

// TerminalChannel prints notifications to a writer.
type TerminalChannel struct {
	out io.Writer
}

// NewTerminalChannel creates a terminal notification channel.
func NewTerminalChannel(out io.Writer) *TerminalChannel {
	return &TerminalChannel{out: out}
}

// Name returns the name of the channel.
func (t *TerminalChannel) Name() string {
	return "terminal"
}

// IsEnabled returns whether the channel is enabled.
func (t *TerminalChannel) IsEnabled() bool {
	return t.out != nil
}

// Send prints the notification.
func (t *TerminalChannel) Send(ctx context.Context, n Notification) error {
	_, err := fmt.Fprintf(t.out, "\n%s\n%s\n", n.Title, n.Message)
	return err
}

// WebhookChannel delivers notifications via HTTP webhook.
type WebhookChannel struct {
	url     string
	enabled bool
	client  *resty.Client
}

// NewWebhookChannel creates a webhook notification channel.
func NewWebhookChannel(cfg config.WebhookConfig) *WebhookChannel {
	return &WebhookChannel{
		url:     cfg.URL,
		enabled: cfg.Enabled && cfg.URL != "",
		client: resty.New().
			SetTimeout(10 * time.Second).
			SetHeader("User-Agent", "EquiVerse/1.0"),
	}
}

// Name returns the name of the channel.
func (w *WebhookChannel) Name() string {
	return "webhook"
}

// IsEnabled returns whether the channel is enabled.
func (w *WebhookChannel) IsEnabled() bool {
	return w.enabled
}

// Send posts the notification as JSON.
func (w *WebhookChannel) Send(ctx context.Context, n Notification) error {
	if !w.enabled {
		return nil
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"type":      n.Type,
			"title":     n.Title,
			"message":   n.Message,
			"data":      n.Data,
			"timestamp": n.Timestamp.Format(time.RFC3339),
		}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}

// NoOpNotifier discards all notifications.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a notifier that does nothing.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Send does nothing.
func (n *NoOpNotifier) Send(ctx context.Context, notif Notification) error {
	return nil
}

// SendIntervention does nothing.
func (n *NoOpNotifier) SendIntervention(ctx context.Context, iv models.Intervention) error {
	return nil
}

// SendXPAward does nothing.
func (n *NoOpNotifier) SendXPAward(ctx context.Context, action string, earned, total int) error {
	return nil
}

// SendTrade does nothing.
func (n *NoOpNotifier) SendTrade(ctx context.Context, tx *models.Transaction) error {
	return nil
}

// SendError does nothing.
func (n *NoOpNotifier) SendError(ctx context.Context, err error, context string) error {
	return nil
}

var (
	_ Notifier = (*MultiNotifier)(nil)
	_ Notifier = (*NoOpNotifier)(nil)
)
