package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cuemby/oretrace/pkg/validate"
)

// DefaultTelegramAPI is the Bot API base URL
const DefaultTelegramAPI = "https://api.telegram.org"

// maxSummaryCritical is how many critical messages a summary lists
const maxSummaryCritical = 5

var levelEmoji = map[validate.Level]string{
	validate.LevelCritical: "🚨",
	validate.LevelWarning:  "⚠️",
	validate.LevelInfo:     "ℹ️",
}

var levelTitle = map[validate.Level]string{
	validate.LevelCritical: "Critical",
	validate.LevelWarning:  "Warning",
	validate.LevelInfo:     "Info",
}

// TelegramNotifier buffers alerts and posts one summary message per batch
type TelegramNotifier struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client

	mu     sync.Mutex
	buffer []validate.Alert
}

// NewTelegramNotifier creates a notifier. Without both a token and a chat id
// the notifier is disabled and every call is a no-op.
func NewTelegramNotifier(token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		token:   token,
		chatID:  chatID,
		baseURL: DefaultTelegramAPI,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithBaseURL points the notifier at a different Bot API server
func (n *TelegramNotifier) WithBaseURL(url string) *TelegramNotifier {
	n.baseURL = strings.TrimRight(url, "/")
	return n
}

// WithTimeout sets the HTTP request timeout
func (n *TelegramNotifier) WithTimeout(timeout time.Duration) *TelegramNotifier {
	n.client.Timeout = timeout
	return n
}

func (n *TelegramNotifier) Name() string { return "telegram" }

// Enabled reports whether credentials are configured
func (n *TelegramNotifier) Enabled() bool {
	return n.token != "" && n.chatID != ""
}

// APIURL returns the sendMessage endpoint
func (n *TelegramNotifier) APIURL() string {
	return fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
}

// ProbeURL returns the getMe endpoint, which answers 200 for a valid token
func (n *TelegramNotifier) ProbeURL() string {
	return fmt.Sprintf("%s/bot%s/getMe", n.baseURL, n.token)
}

// Send buffers a for the next summary
func (n *TelegramNotifier) Send(ctx context.Context, a validate.Alert) error {
	if !n.Enabled() {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.buffer = append(n.buffer, a)
	return nil
}

// Buffered returns a copy of the alerts waiting for the next summary
func (n *TelegramNotifier) Buffered() []validate.Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]validate.Alert(nil), n.buffer...)
}

// SendSummary posts the buffered alerts as one Markdown message. The buffer
// is cleared whether or not the post succeeds.
func (n *TelegramNotifier) SendSummary(ctx context.Context) error {
	if !n.Enabled() {
		return nil
	}

	n.mu.Lock()
	alerts := n.buffer
	n.buffer = nil
	n.mu.Unlock()

	if len(alerts) == 0 {
		return nil
	}
	return n.post(ctx, FormatTelegramSummary(alerts))
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func (n *TelegramNotifier) post(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: n.chatID, Text: text, ParseMode: "Markdown"})
	if err != nil {
		return fmt.Errorf("failed to encode telegram message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.APIURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		// Drop the request URL, it contains the bot token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// FormatTelegramSummary renders the batch summary message
func FormatTelegramSummary(alerts []validate.Alert) string {
	counts := map[validate.Level]int{}
	var critical []string
	for _, a := range alerts {
		counts[a.Level]++
		if a.Level == validate.LevelCritical {
			critical = append(critical, a.Message)
		}
	}

	var b strings.Builder
	b.WriteString("📊 *Mining Operations Alert Summary*\n\n")
	fmt.Fprintf(&b, "Total alerts: %d\n", len(alerts))
	for _, level := range validate.Levels() {
		if counts[level] > 0 {
			fmt.Fprintf(&b, "%s %s: *%d*\n", levelEmoji[level], levelTitle[level], counts[level])
		}
	}

	if len(critical) > 0 {
		b.WriteString("\n*Critical alerts:*\n")
		for i, msg := range critical {
			if i == maxSummaryCritical {
				fmt.Fprintf(&b, "_...and %d more_\n", len(critical)-maxSummaryCritical)
				break
			}
			fmt.Fprintf(&b, "• %s\n", escapeMarkdown(msg))
		}
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
