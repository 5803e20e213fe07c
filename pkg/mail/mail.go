// Package mail provides a fluent SMTP mailer for Bazaar.
//
// Usage:
//
//	mail.To("customer@example.com").
//	    Subject("Your order is confirmed").
//	    Body("<h1>Thanks for shopping with us</h1>").
//	    Text("Thanks for shopping with us").
//	    Send()
//
//	// With template
//	mail.To("customer@example.com").
//	    Subject("Order BAZ-20260829-A1B2C3").
//	    Template("order_confirmation.html", data).
//	    Send()
package mail

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"

	"github.com/shashiranjanraj/bazaar/config"
)

// ------------------- Config -------------------

// SMTP holds connection credentials (populated from env/config).
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

func defaultSMTP() SMTP {
	return SMTP{
		Host:     config.Get("MAIL_HOST", "smtp.mailtrap.io"),
		Port:     config.Get("MAIL_PORT", "587"),
		Username: config.Get("MAIL_USERNAME", ""),
		Password: config.Get("MAIL_PASSWORD", ""),
		From:     config.Get("MAIL_FROM", "orders@bazaar.shop"),
		FromName: config.Get("MAIL_FROM_NAME", "Bazaar"),
	}
}

// ------------------- Message -------------------

// Message is a fluent builder for an email. A message may carry an HTML
// body, a plain-text body, or both; with both it is sent as
// multipart/alternative so the client picks the richest part it supports.
type Message struct {
	to          []string
	cc          []string
	bcc         []string
	subject     string
	html        string
	text        string
	attachments []attachment
	smtpCfg     SMTP
}

type attachment struct {
	name    string
	content []byte
}

// To sets the primary recipients.
func To(addresses ...string) *Message {
	return &Message{
		to:      addresses,
		smtpCfg: defaultSMTP(),
	}
}

// CC adds CC recipients.
func (m *Message) CC(addresses ...string) *Message {
	m.cc = append(m.cc, addresses...)
	return m
}

// BCC adds BCC recipients.
func (m *Message) BCC(addresses ...string) *Message {
	m.bcc = append(m.bcc, addresses...)
	return m
}

// Subject sets the email subject.
func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Body sets the HTML body.
func (m *Message) Body(html string) *Message {
	m.html = html
	return m
}

// Text sets the plain-text body.
func (m *Message) Text(text string) *Message {
	m.text = text
	return m
}

// Template renders an html/template file with data and sets it as the HTML
// body. templatePath is relative to your templates directory.
func (m *Message) Template(templatePath string, data interface{}) *Message {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		m.html = fmt.Sprintf("<!-- template error: %v -->", err)
		return m
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		m.html = fmt.Sprintf("<!-- render error: %v -->", err)
		return m
	}
	m.html = buf.String()
	return m
}

// Attach adds a file attachment (in-memory).
func (m *Message) Attach(name string, content []byte) *Message {
	m.attachments = append(m.attachments, attachment{name: name, content: content})
	return m
}

// UseConfig overrides the SMTP settings for this message.
func (m *Message) UseConfig(cfg SMTP) *Message {
	m.smtpCfg = cfg
	return m
}

// ------------------- Sending -------------------

// Send delivers the email via SMTP.
func (m *Message) Send() error {
	cfg := m.smtpCfg
	if cfg.Username == "" {
		return fmt.Errorf("mail: MAIL_USERNAME not configured")
	}

	from := fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	allTo := append(m.to, append(m.cc, m.bcc...)...)

	raw := m.buildRaw(from)

	addr := cfg.Host + ":" + cfg.Port
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)

	// Use TLS for port 465, STARTTLS for 587/25.
	if cfg.Port == "465" {
		return m.sendTLS(addr, auth, cfg.From, allTo, raw, cfg.Host)
	}
	return smtp.SendMail(addr, auth, cfg.From, allTo, raw)
}

func (m *Message) sendTLS(addr string, auth smtp.Auth, from string, to []string, raw []byte, host string) error {
	tlsCfg := &tls.Config{ServerName: host}
	conn, err := tls.Dial("tcp", addr, tlsCfg)
	if err != nil {
		return fmt.Errorf("mail: TLS dial: %w", err)
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = w.Write(raw)
	return err
}

// ------------------- MIME assembly -------------------

const (
	altBoundary   = "bazaar-alt-7f3a9c"
	mixedBoundary = "bazaar-mix-2e81d4"
)

func (m *Message) buildRaw(from string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(m.to, ", ") + "\r\n")
	if len(m.cc) > 0 {
		b.WriteString("Cc: " + strings.Join(m.cc, ", ") + "\r\n")
	}
	b.WriteString("Subject: " + mime.QEncoding.Encode("UTF-8", m.subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if len(m.attachments) > 0 {
		b.WriteString("Content-Type: multipart/mixed; boundary=\"" + mixedBoundary + "\"\r\n\r\n")
		b.WriteString("--" + mixedBoundary + "\r\n")
		m.writeBody(&b)
		for _, a := range m.attachments {
			b.WriteString("\r\n--" + mixedBoundary + "\r\n")
			b.WriteString("Content-Type: application/octet-stream; name=\"" + a.name + "\"\r\n")
			b.WriteString("Content-Disposition: attachment; filename=\"" + a.name + "\"\r\n")
			b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
			writeBase64(&b, a.content)
		}
		b.WriteString("\r\n--" + mixedBoundary + "--\r\n")
		return []byte(b.String())
	}

	m.writeBody(&b)
	return []byte(b.String())
}

// writeBody emits the body headers and content: a single part when only one
// of HTML/text is set, multipart/alternative when both are.
func (m *Message) writeBody(b *strings.Builder) {
	switch {
	case m.html != "" && m.text != "":
		b.WriteString("Content-Type: multipart/alternative; boundary=\"" + altBoundary + "\"\r\n\r\n")
		b.WriteString("--" + altBoundary + "\r\n")
		writePart(b, "text/plain", m.text)
		b.WriteString("\r\n--" + altBoundary + "\r\n")
		writePart(b, "text/html", m.html)
		b.WriteString("\r\n--" + altBoundary + "--\r\n")
	case m.html != "":
		writePart(b, "text/html", m.html)
	default:
		writePart(b, "text/plain", m.text)
	}
}

func writePart(b *strings.Builder, contentType, content string) {
	b.WriteString(fmt.Sprintf("Content-Type: %s; charset=\"UTF-8\"\r\n\r\n", contentType))
	b.WriteString(content)
	b.WriteString("\r\n")
}

func writeBase64(b *strings.Builder, content []byte) {
	encoded := base64.StdEncoding.EncodeToString(content)
	// RFC 2045 caps encoded lines at 76 characters.
	for len(encoded) > 76 {
		b.WriteString(encoded[:76] + "\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded + "\r\n")
}
