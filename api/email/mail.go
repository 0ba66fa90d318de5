package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/smtp"
	"os"
	"sort"
	"strings"

	"github.com/Adedunmol/stresspulse/config"
)

//go:embed templates/*.html
var embedded embed.FS

type Email struct {
	ToAddr   string `json:"to_addr"`
	Subject  string `json:"subject"`
	Template string `json:"template"`
	Vars     any    `json:"vars"`
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	cfg       config.Mail
	templates fs.FS
	send      SendFunc
}

// NewMailer reads templates from cfg.TemplatesDir when it exists and from the
// copies built into the binary otherwise.
func NewMailer(cfg config.Mail) *Mailer {
	var templates fs.FS
	if info, err := os.Stat(cfg.TemplatesDir); cfg.TemplatesDir != "" && err == nil && info.IsDir() {
		templates = os.DirFS(cfg.TemplatesDir)
	} else {
		templates, _ = fs.Sub(embedded, "templates")
	}
	return &Mailer{cfg: cfg, templates: templates, send: smtp.SendMail}
}

// WithSender replaces the SMTP transport.
func (m *Mailer) WithSender(send SendFunc) *Mailer {
	m.send = send
	return m
}

func (m *Mailer) SendHTMLEmail(to []string, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", m.cfg.FromEmail, m.cfg.FromPassword, m.cfg.SMTPAddr)

	headers := map[string]string{
		"From":         m.cfg.FromEmail,
		"To":           strings.Join(to, ", "),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"UTF-8\"",
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var msg strings.Builder
	for _, k := range keys {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, headers[k]))
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	return m.send(m.cfg.SMTPAddr+":"+m.cfg.SMTPPort, auth, m.cfg.FromEmail, to, []byte(msg.String()))
}

func (m *Mailer) parseTemplate(data Email) (bytes.Buffer, error) {
	tmpl, err := template.ParseFS(m.templates, data.Template+".html")
	if err != nil {
		return bytes.Buffer{}, fmt.Errorf("error parsing template: %w", err)
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data.Vars); err != nil {
		return bytes.Buffer{}, fmt.Errorf("error executing template: %w", err)
	}

	return rendered, nil
}

func (m *Mailer) SendTemplateEmail(e Email) error {
	var to []string
	for _, addr := range strings.Split(e.ToAddr, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		return fmt.Errorf("no recipient for %q", e.Subject)
	}

	rendered, err := m.parseTemplate(e)
	if err != nil {
		return err
	}

	return m.SendHTMLEmail(to, e.Subject, rendered.String())
}
