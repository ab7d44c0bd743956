package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"sync"

	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/validate"
)

var levelColor = map[validate.Level]string{
	validate.LevelCritical: "#dc3545",
	validate.LevelWarning:  "#ffc107",
	validate.LevelInfo:     "#17a2b8",
}

var alertTemplate = template.Must(template.New("alert").Funcs(template.FuncMap{
	"upper": func(l validate.Level) string { return strings.ToUpper(string(l)) },
}).Parse(`<html>
<body>
<div style="font-family: Arial, sans-serif;">
<h2 style="color: {{.Color}};">{{upper .Alert.Level}} Alert</h2>
<p><strong>Rule:</strong> {{.Alert.Rule}}</p>
<p><strong>Message:</strong> {{.Alert.Message}}</p>
<h3>Details:</h3>
<ul>
{{- range $k, $v := .Alert.Data}}
<li><strong>{{$k}}:</strong> {{$v}}</li>
{{- end}}
</ul>
</div>
</body>
</html>
`))

var digestTemplate = template.Must(template.New("digest").Parse(`<html>
<body style="font-family: Arial, sans-serif;">
<h1>Mining Operations Digest</h1>
{{- range .}}
<h2>{{.Title}} ({{len .Alerts}})</h2>
<ul>
{{- range .Alerts}}
<li><strong>{{.Rule}}:</strong> {{.Message}}</li>
{{- end}}
</ul>
{{- end}}
</body>
</html>
`))

type digestGroup struct {
	Title  string
	Alerts []validate.Alert
}

// SendMailFunc matches smtp.SendMail
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier mails critical alerts as they arrive. With the digest
// enabled it also mails every alert of the batch when summarized.
type EmailNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string
	digest   bool
	sendMail SendMailFunc

	mu      sync.Mutex
	pending []validate.Alert
}

// NewEmailNotifier creates a notifier from SMTP settings. It is disabled
// unless username, password, sender and at least one recipient are set.
func NewEmailNotifier(cfg config.Notify) *EmailNotifier {
	return &EmailNotifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
		to:       cfg.EmailTo,
		digest:   cfg.EmailDigest,
		sendMail: smtp.SendMail,
	}
}

// WithSendMail replaces the SMTP transport
func (n *EmailNotifier) WithSendMail(fn SendMailFunc) *EmailNotifier {
	n.sendMail = fn
	return n
}

func (n *EmailNotifier) Name() string { return "email" }

// Enabled reports whether SMTP is fully configured
func (n *EmailNotifier) Enabled() bool {
	return n.username != "" && n.password != "" && n.from != "" && len(n.to) > 0 && n.to[0] != ""
}

// ServerAddr returns the SMTP host:port
func (n *EmailNotifier) ServerAddr() string {
	return net.JoinHostPort(n.host, strconv.Itoa(n.port))
}

// Send mails a immediately when critical and records it for the digest
// when one is enabled
func (n *EmailNotifier) Send(ctx context.Context, a validate.Alert) error {
	if !n.Enabled() {
		return nil
	}

	if n.digest {
		n.mu.Lock()
		n.pending = append(n.pending, a)
		n.mu.Unlock()
	}

	if a.Level != validate.LevelCritical {
		return nil
	}

	var body bytes.Buffer
	err := alertTemplate.Execute(&body, struct {
		Color string
		Alert validate.Alert
	}{levelColor[a.Level], a})
	if err != nil {
		return fmt.Errorf("failed to render alert email: %w", err)
	}
	subject := fmt.Sprintf("[%s] Mining Operations Alert - %s", strings.ToUpper(string(a.Level)), a.Rule)
	return n.send(ctx, subject, body.String())
}

// SendSummary mails one digest of the alerts seen since the last digest,
// grouped by level, and clears them. It is a no-op unless the digest is enabled.
func (n *EmailNotifier) SendSummary(ctx context.Context) error {
	if !n.Enabled() || !n.digest {
		return nil
	}

	n.mu.Lock()
	alerts := n.pending
	n.pending = nil
	n.mu.Unlock()

	if len(alerts) == 0 {
		return nil
	}

	var body bytes.Buffer
	if err := digestTemplate.Execute(&body, groupByLevel(alerts)); err != nil {
		return fmt.Errorf("failed to render digest email: %w", err)
	}
	subject := fmt.Sprintf("Mining Operations Digest - %d alerts", len(alerts))
	return n.send(ctx, subject, body.String())
}

func groupByLevel(alerts []validate.Alert) []digestGroup {
	var groups []digestGroup
	for _, level := range validate.Levels() {
		g := digestGroup{Title: strings.ToUpper(string(level))}
		for _, a := range alerts {
			if a.Level == level {
				g.Alerts = append(g.Alerts, a)
			}
		}
		if len(g.Alerts) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

func (n *EmailNotifier) send(ctx context.Context, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", n.from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(n.to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(html)

	addr := n.ServerAddr()
	auth := smtp.PlainAuth("", n.username, n.password, n.host)
	if err := n.sendMail(addr, auth, n.from, n.to, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
