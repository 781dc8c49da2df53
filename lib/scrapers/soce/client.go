package soce

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"soce-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/soce")

const DefaultBaseUrl = "https://www.compraspublicas.gob.ec"

// registered-proforma form, parameterized by process code and provider ruc
const proformaPath = "/ProcesoContratacion/compras/NCO/FrmNCOProformaRegistrada.cpe"

// Snapshot is one provider's rendered proforma page.
type Snapshot struct {
	// final url after redirects, attachment references resolve against it
	URL         *url.URL
	Doc         *goquery.Document
	ProcessCode string
	Ruc         string
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// per-request client timeout, defaults to 30s
	Timeout time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "scrapers/soce/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// Fetch loads the registered-proforma page for one (process, provider) pair.
// A deadline expiry, whether from ctx or the client timeout, comes back as an
// ExtractError of KindTimeout so the caller can classify it without peeking
// at transport internals.
func (c *Client) Fetch(ctx context.Context, processCode, ruc string) (Snapshot, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("process", processCode),
		attribute.String("ruc", ruc),
	)

	// operators paste process codes with trailing commas
	code := strings.TrimRight(strings.TrimSpace(processCode), ",")

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id":  code,
			"ruc": ruc,
		}).
		Get(proformaPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch proforma page")
		if errors.Is(err, context.DeadlineExceeded) {
			return Snapshot{}, &ExtractError{Kind: KindTimeout, Err: err}
		}
		return Snapshot{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse proforma page html")
		return Snapshot{}, fmt.Errorf("parse proforma page: %w", err)
	}

	final := c.BaseUrl.JoinPath(proformaPath)
	if res.RawResponse != nil && res.RawResponse.Request != nil && res.RawResponse.Request.URL != nil {
		final = res.RawResponse.Request.URL
	}

	return Snapshot{
		URL:         final,
		Doc:         doc,
		ProcessCode: code,
		Ruc:         ruc,
	}, nil
}
