package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"spotscout/internal/spot"
)

// Notification describes a spot price that crossed the alert threshold.
type Notification struct {
	At            time.Time
	InstanceTypes []string
	Price         decimal.Decimal
	Zone          string
	Threshold     decimal.Decimal
	Simulated     bool
}

// Notifier delivers alerts.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// Breached reports whether minimum is at or below threshold and, if so,
// returns the notification to send. A non-positive threshold never fires.
func Breached(at time.Time, instanceTypes []string, minimum spot.Minimum, threshold decimal.Decimal) (Notification, bool) {
	if !minimum.Found || !threshold.IsPositive() {
		return Notification{}, false
	}
	if minimum.Price.GreaterThan(threshold) {
		return Notification{}, false
	}
	return Notification{
		At:            at,
		InstanceTypes: instanceTypes,
		Price:         minimum.Price,
		Zone:          minimum.Zone,
		Threshold:     threshold,
	}, true
}

// TelegramNotifier pushes messages through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs a Telegram notifier.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify calls sendMessage with the rendered alert text.
func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    renderMessage(note),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && !result.OK {
		return fmt.Errorf("telegram rejected message: %s", result.Description)
	}

	n.logger.Info().
		Str("zone", note.Zone).
		Str("price", note.Price.String()).
		Bool("simulated", note.Simulated).
		Msg("alert sent")
	return nil
}

func renderMessage(note Notification) string {
	var b strings.Builder
	if note.Simulated {
		b.WriteString("[Spot Price Alert - simulated]\n")
	} else {
		b.WriteString("[Spot Price Alert]\n")
	}
	fmt.Fprintf(&b, "Time: %s UTC\n", note.At.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Instance types: %s\n", strings.Join(note.InstanceTypes, ", "))
	fmt.Fprintf(&b, "Cheapest: $%s/h in %s\n", note.Price.String(), note.Zone)
	fmt.Fprintf(&b, "Threshold: $%s/h\n", note.Threshold.String())
	return b.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
