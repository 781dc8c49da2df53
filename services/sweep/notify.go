package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"soce-backend/services/sweep/db"

	"github.com/jordan-wright/email"
)

// notifyCompletion mails the final counters to the configured address. A
// missing smtp block disables it; send failures are logged, never fatal, the
// sweep itself already completed.
func (s *Service) notifyCompletion(ctx context.Context, process db.Process, sweep db.Sweep) {
	cfg := s.options.Smtp
	if cfg.Server == "" || cfg.NotifyAddress == "" {
		return
	}

	name := process.Name
	if name == "" {
		name = process.Code
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("SOCE Backend <%s>", cfg.EmailAddress)
	mail.To = []string{cfg.NotifyAddress}
	mail.Subject = fmt.Sprintf("Sweep finished: %s", name)
	mail.Text = []byte(fmt.Sprintf(
		`The sweep for process %s has finished.

Providers:   %d
With offers: %d
Sin datos:   %d
Errors:      %d`,
		name, sweep.TotalProviders, sweep.Succeeded, sweep.NoData, sweep.Errored,
	))

	addr := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)
	err := mail.Send(addr, smtp.PlainAuth("", cfg.EmailAddress, cfg.Password, cfg.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to send sweep completion email", "sweep", sweep.ID, "err", err)
	}
}
