// Package edbo talks to the public admission endpoints of the education
// registry and turns their payloads into model records.
//
// Every request goes through one pacing limiter, so a Client never issues more
// than one request per RequestInterval no matter how many goroutines use it.
package edbo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"time"

	"edbo-scraper/internal/components/assert"
	"edbo-scraper/internal/components/telemetry"
	"edbo-scraper/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const (
	MainURL     = "https://vstup.edbo.gov.ua"
	RegistryURL = "https://registry.edbo.gov.ua/api"

	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36 OPR/120.0.0.0"

	RequestInterval   = 1115 * time.Millisecond
	RateLimitCooldown = 60 * time.Second
	// MaxCooldowns is how many times the same request is retried after a rate
	// limit answer before giving up with ErrRateLimitExhausted.
	MaxCooldowns = 10

	rateLimitError = "Перевищено ліміт запитів. Спробуйте пізніше!"
)

const (
	report_client_list_institutions        = "client.list-institutions"
	report_client_list_offers_universities = "client.list-offers-universities"
	report_client_get_offer_page           = "client.get-offer-page"
	report_client_list_applications        = "client.list-applications"
	report_client_rate_limit               = "client.rate-limit"
)

var (
	ErrTransport          = errors.New("edbo: transport failure")
	ErrUnexpectedResponse = errors.New("edbo: unexpected response")
	ErrRateLimitExhausted = errors.New("edbo: rate limit cooldowns exhausted")

	errRateLimited = errors.New("rate limited")
)

type Options struct {
	// MainURL and RegistryURL default to the production hosts.
	MainURL     string
	RegistryURL string
	// Interval and Cooldown default to RequestInterval and RateLimitCooldown.
	Interval time.Duration
	Cooldown time.Duration
	// DumpOutput receives every exchange when set.
	DumpOutput restyutil.InstrumentOutput
}

type Client struct {
	http        *resty.Client
	mainURL     string
	registryURL string
	cooldown    time.Duration

	tel telemetry.API
}

func NewClient(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("edbo", tel)

	if opts.MainURL == "" {
		opts.MainURL = MainURL
	}
	if opts.RegistryURL == "" {
		opts.RegistryURL = RegistryURL
	}
	if opts.Interval == 0 {
		opts.Interval = RequestInterval
	}
	if opts.Cooldown == 0 {
		opts.Cooldown = RateLimitCooldown
	}
	assert.Positive("interval", opts.Interval)
	assert.Positive("cooldown", opts.Cooldown)

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetHeader("User-Agent", UserAgent)
	httpClient.SetTimeout(time.Minute)

	// one request per interval, the first one goes out immediately
	limiter := rate.NewLimiter(rate.Every(opts.Interval), 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)
	restyutil.InstrumentClient(httpClient, otel.Tracer("edbo"), opts.DumpOutput)

	return &Client{
		http:        httpClient,
		mainURL:     opts.MainURL,
		registryURL: opts.RegistryURL,
		cooldown:    opts.Cooldown,
		tel:         tel,
	}, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// checkErrorResponse reports whether body is the rate limit answer. Any other
// `{error, message}` object is an unexpected response.
func checkErrorResponse(body []byte) (limited bool, err error) {
	var res errorResponse
	if json.Unmarshal(body, &res) != nil || res.Error == "" {
		return false, nil
	}
	if res.Error == rateLimitError {
		return true, nil
	}
	return false, fmt.Errorf("%w: %s: %s", ErrUnexpectedResponse, res.Error, res.Message)
}

// fetch sends the request built by send and returns the body. A rate limit
// answer is waited out for one cooldown and the same request is sent again, at
// most MaxCooldowns times. Cancelling ctx aborts the pacing wait, the request
// and the cooldown.
func (c *Client) fetch(ctx context.Context, report string, send func(req *resty.Request) (*resty.Response, error)) ([]byte, error) {
	var body []byte
	operation := func() error {
		res, err := send(c.http.R().SetContext(ctx))
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			c.tel.ReportBroken(report, err)
			return backoff.Permanent(fmt.Errorf("%w: %w", ErrTransport, err))
		}

		limited, err := checkErrorResponse(res.Body())
		if err != nil {
			c.tel.ReportBroken(report, err)
			return backoff.Permanent(err)
		}
		if limited {
			c.tel.ReportWarning(report_client_rate_limit, report, c.cooldown.String())
			return errRateLimited
		}
		if res.IsError() {
			err := fmt.Errorf("%w: status %s", ErrUnexpectedResponse, res.Status())
			c.tel.ReportBroken(report, err)
			return backoff.Permanent(err)
		}

		body = res.Body()
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.cooldown), MaxCooldowns),
		ctx,
	)
	err := backoff.Retry(operation, policy)
	if errors.Is(err, errRateLimited) {
		c.tel.ReportBroken(report, ErrRateLimitExhausted)
		return nil, fmt.Errorf("%s: %w", report, ErrRateLimitExhausted)
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}
