package cmd

import (
	"time"

	"soce-backend/lib/amount"
	"soce-backend/lib/scrapers/soce"
	"soce-backend/services/sweep"
)

type PortalConfig struct {
	// defaults to the public compraspublicas portal
	BaseUrl        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// separator names per field: "auto", "dot" or "comma"
type AmountsConfig struct {
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
	Total     string `json:"total"`
}

type SmtpConfig struct {
	Server        string `json:"server"`
	Port          int    `json:"port"`
	EmailAddress  string `json:"email_address"`
	Password      string `json:"password"`
	NotifyAddress string `json:"notify_address"`
}

type Config struct {
	Database               string        `json:"database"`
	Portal                 PortalConfig  `json:"portal"`
	ProviderTimeoutSeconds int           `json:"provider_timeout_seconds"`
	PacingSeconds          int           `json:"pacing_seconds"`
	Amounts                AmountsConfig `json:"amounts"`
	Smtp                   SmtpConfig    `json:"smtp"`
	ServePort              int           `json:"serve_port"`
}

func (c Config) amountFormat() (soce.AmountFormat, error) {
	var format soce.AmountFormat
	var err error
	if format.Quantity, err = amount.ParseSeparator(c.Amounts.Quantity); err != nil {
		return format, err
	}
	if format.UnitPrice, err = amount.ParseSeparator(c.Amounts.UnitPrice); err != nil {
		return format, err
	}
	if format.LineTotal, err = amount.ParseSeparator(c.Amounts.LineTotal); err != nil {
		return format, err
	}
	if format.Total, err = amount.ParseSeparator(c.Amounts.Total); err != nil {
		return format, err
	}
	return format, nil
}

func (c Config) sweepOptions() (sweep.Options, error) {
	format, err := c.amountFormat()
	if err != nil {
		return sweep.Options{}, err
	}
	return sweep.Options{
		ProviderTimeout: time.Duration(c.ProviderTimeoutSeconds) * time.Second,
		Pacing:          time.Duration(c.PacingSeconds) * time.Second,
		Format:          format,
		Smtp: sweep.SmtpConfig{
			Server:        c.Smtp.Server,
			Port:          c.Smtp.Port,
			EmailAddress:  c.Smtp.EmailAddress,
			Password:      c.Smtp.Password,
			NotifyAddress: c.Smtp.NotifyAddress,
		},
	}, nil
}
