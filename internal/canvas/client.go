// Package canvas reads courses and submissions from the Canvas LMS REST API.
package canvas

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gradebook/internal/telemetry"
	"gradebook/lib/restyutil"
	libtelemetry "gradebook/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("gradebook/internal/canvas")

const (
	report_client_request = "client.request"
	report_client_page    = "client.page"
)

type ClientOptions struct {
	BaseUrl string
	Token   string
	// PerPage is the page size requested from list endpoints, defaults to 100.
	PerPage int
	// DumpDir, when set, receives a file per HTTP exchange.
	DumpDir string
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	perPage int
	tel     telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("canvas base url %q must be absolute", opts.BaseUrl)
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(opts.BaseUrl, "/"))
	client.SetHeader("Accept", "application/json")
	if opts.Token != "" {
		client.SetAuthToken(opts.Token)
	}
	libtelemetry.InstrumentResty(client, "canvas/http")
	if opts.DumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(opts.DumpDir)
		if err != nil {
			return nil, fmt.Errorf("canvas dump dir: %w", err)
		}
		restyutil.DumpExchanges(client, output)
	}

	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 100
	}

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
		perPage: perPage,
		tel:     telemetry.NewScopedAPI("canvas", tel),
	}, nil
}

// nextLink extracts the rel="next" url of a Link header, canvas paginates
// every list endpoint this way.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		target := strings.TrimSpace(segments[0])
		for _, param := range segments[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return strings.TrimSuffix(strings.TrimPrefix(target, "<"), ">")
			}
		}
	}
	return ""
}

// getAll fetches every page of a list endpoint.
func getAll[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	ctx, span := tracer.Start(ctx, "client:getAll")
	defer span.End()

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("per_page", strconv.Itoa(c.perPage))

	var out []T
	target := path
	for page := 1; target != ""; page++ {
		var items []T
		req := c.Http.R().
			SetContext(ctx).
			SetResult(&items)
		if page == 1 {
			req.SetQueryParamsFromValues(query)
		}

		res, err := req.Get(target)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			c.tel.ReportBroken(report_client_request, err, path)
			return nil, fmt.Errorf("canvas %s: %w", path, err)
		}
		if res.IsError() {
			span.SetStatus(codes.Error, res.Status())
			c.tel.ReportBroken(report_client_request, res.Status(), path)
			return nil, fmt.Errorf("canvas %s: %s", path, res.Status())
		}

		out = append(out, items...)
		c.tel.ReportDebug(report_client_page, "path", path, "page", page, "items", len(items))
		target = nextLink(res.Header().Get("Link"))
	}
	return out, nil
}
