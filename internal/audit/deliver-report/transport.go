// internal/audit/deliver-report/transport.go
package deliverreport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"promptprofit-audit/internal/common/aws"
	"promptprofit-audit/internal/common/config"
)

// Transport hands a composed message to a mail service.
type Transport interface {
	Send(ctx context.Context, from string, to []string, msg []byte) error
	Name() string
}

type SMTPTransport struct {
	config config.SMTPConfig
}

func NewSMTPTransport(cfg config.SMTPConfig) *SMTPTransport {
	return &SMTPTransport{config: cfg}
}

func (t *SMTPTransport) Name() string { return TransportSMTP }

// Send uses implicit TLS when the server is marked secure and upgrades with
// STARTTLS otherwise when the server offers it.
func (t *SMTPTransport) Send(ctx context.Context, from string, to []string, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	addr := net.JoinHostPort(t.config.Host, strconv.Itoa(t.config.Port))
	tlsConfig := &tls.Config{ServerName: t.config.Host}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	if t.config.Secure {
		conn = tls.Client(conn, tlsConfig)
	}

	client, err := smtp.NewClient(conn, t.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open SMTP session: %w", err)
	}
	defer client.Close()

	if !t.config.Secure {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err = client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}

	if t.config.Username != "" && t.config.Password != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", t.config.Username, t.config.Password, t.config.Host)
			if err = client.Auth(auth); err != nil {
				return fmt.Errorf("SMTP authentication failed: %w", err)
			}
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

type SESTransport struct {
	client *aws.SESClient
}

func NewSESTransport(client *aws.SESClient) *SESTransport {
	return &SESTransport{client: client}
}

func (t *SESTransport) Name() string { return TransportSES }

func (t *SESTransport) Send(ctx context.Context, from string, to []string, msg []byte) error {
	if _, err := t.client.SendRaw(ctx, from, to, msg); err != nil {
		return fmt.Errorf("ses send raw email: %w", err)
	}
	return nil
}
