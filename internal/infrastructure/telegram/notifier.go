package telegram

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/infrastructure/report"
	"LectureIndexer/internal/ports"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	// maxMessageLen is the Bot API limit for one message, in characters.
	maxMessageLen = 4096
)

// Notifier posts the run summary to a Telegram chat via the bot API.
type Notifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ ports.ReportWriter = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// WithAPIBase points the notifier at another Bot API host.
func (n *Notifier) WithAPIBase(base string) *Notifier {
	n.apiBase = strings.TrimRight(base, "/")
	return n
}

// Write renders the console summary and publishes it.
func (n *Notifier) Write(ctx context.Context, rep domain.Report) error {
	var buf bytes.Buffer
	if err := report.NewSummaryWriter(&buf).Write(ctx, rep); err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	return n.Publish(ctx, buf.String())
}

// Publish posts a plain-text message, cut to the Bot API length limit.
func (n *Notifier) Publish(ctx context.Context, text string) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	if runes := []rune(text); len(runes) > maxMessageLen {
		text = string(runes[:maxMessageLen-1]) + "…"
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}
