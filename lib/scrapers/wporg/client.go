package wporg

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/Summix-io/wp-plugin-review/lib/restyutil"
	"github.com/Summix-io/wp-plugin-review/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const (
	baseUrl    = "https://wordpress.org"
	apiBaseUrl = "https://api.wordpress.org"

	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// ErrPluginNotFound is returned when neither the plugin info API nor the
// plugin directory page yields a usable record for a slug.
var ErrPluginNotFound = fmt.Errorf("plugin not found on wordpress.org")

// StatusError is a non-2xx answer from wordpress.org. Transport errors are
// returned as-is from resty.
type StatusError struct {
	Status int
	Url    string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("http %d fetching %s", e.Status, e.Url)
}

type Client struct {
	Http    *resty.Client
	apiBase string
}

type ClientOptions struct {
	// overrides the https://wordpress.org base, used by tests
	BaseUrl string
	// overrides https://api.wordpress.org, used by tests
	ApiBaseUrl string
}

func NewClient(opts ClientOptions) (*Client, error) {
	base := opts.BaseUrl
	if base == "" {
		base = baseUrl
	}
	if _, err := url.Parse(base); err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(base)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept", acceptHeader)
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/wporg/http")
	restyutil.InstrumentClient(client, lazyInstrumentOutput{})

	c := &Client{Http: client}
	c.apiBase = opts.ApiBaseUrl
	if c.apiBase == "" {
		c.apiBase = apiBaseUrl
	}
	return c, nil
}

// getPage fetches a path relative to the client base and returns the raw
// markup. A non-success status comes back as StatusError.
func (c *Client) getPage(ctx context.Context, path string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:getPage")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return "", err
	}
	if !res.IsSuccess() {
		err := StatusError{Status: res.StatusCode(), Url: res.Request.URL}
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return res.String(), nil
}

// FetchReviewPage retrieves one page of the review listing for a plugin.
// Page 1 is the bare listing url, later pages append a /page/N/ segment.
func (c *Client) FetchReviewPage(ctx context.Context, slug string, page int) (string, error) {
	path := fmt.Sprintf("/plugins/%s/reviews/", slug)
	if page > 1 {
		path = fmt.Sprintf("/plugins/%s/reviews/page/%d/", slug, page)
	}
	return c.getPage(ctx, path)
}

// FetchPluginPage retrieves the plugin directory page markup for a slug.
func (c *Client) FetchPluginPage(ctx context.Context, slug string) (string, error) {
	return c.getPage(ctx, fmt.Sprintf("/plugins/%s/", slug))
}
