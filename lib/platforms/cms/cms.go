package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cmsdata/internal/components/telemetry"
	"cmsdata/lib/restyutil"
	"cmsdata/lib/table"
	otelresty "cmsdata/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("platforms/cms")

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrUnknownShape     = errors.New("response body is neither a record array nor a result object")
)

const (
	DefaultPageSize   = 5000
	DefaultMaxRecords = 5000
	DefaultTimeout    = time.Second * 15
)

const report_fetch = "cms.fetch"

type ClientOptions struct {
	// Timeout applies to each page request, defaults to DefaultTimeout.
	Timeout time.Duration
	// UserAgent is sent with every request when set.
	UserAgent string
	// Dump receives every raw request/response pair when set.
	Dump restyutil.DumpOutput
}

type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(tel telemetry.API, opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("accept", "application/json")
	if opts.UserAgent != "" {
		client.SetHeader("user-agent", opts.UserAgent)
	}

	otelresty.InstrumentResty(client, "platforms/cms/http")
	telemetry.InstrumentResty(client, telemetry.NewScopedAPI("cms", tel))
	restyutil.DumpMessages(client, opts.Dump)

	return &Client{http: client, tel: tel}
}

type PageOptions struct {
	// PageSize is sent as `limit`, defaults to DefaultPageSize.
	PageSize int
	// MaxRecords caps the records returned, 0 or less means no cap.
	MaxRecords int
}

// Fetch requests pages of `endpoint` at increasing offsets until a page comes
// back empty or MaxRecords records have been collected.
// Any failed request aborts the whole fetch.
func (c *Client) Fetch(ctx context.Context, endpoint string, opts PageOptions) (table.Table, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	span.SetAttributes(
		attribute.String("endpoint", endpoint),
		attribute.Int("page_size", pageSize),
		attribute.Int("max_records", opts.MaxRecords),
	)

	var records []map[string]any
	offset := 0
	for {
		batch, err := c.fetchPage(ctx, endpoint, pageSize, offset)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.tel.ReportBroken(report_fetch, err, endpoint, offset)
			return table.Table{}, err
		}
		if len(batch) == 0 {
			break
		}

		records = append(records, batch...)
		offset += pageSize

		if opts.MaxRecords > 0 && len(records) >= opts.MaxRecords {
			records = records[:opts.MaxRecords]
			break
		}
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	return table.FromRecords(records), nil
}

func (c *Client) fetchPage(ctx context.Context, endpoint string, limit, offset int) ([]map[string]any, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetQueryParam("offset", strconv.Itoa(offset)).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("get %s (offset %d): %w", endpoint, offset, err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf(
			"%w: %s from %s (offset %d)",
			ErrUnexpectedStatus, res.Status(), endpoint, offset,
		)
	}

	batch, err := DecodeBatch(res.Body())
	if err != nil {
		return nil, fmt.Errorf("decode %s (offset %d): %w", endpoint, offset, err)
	}
	c.tel.ReportDebug("page fetched", endpoint, offset, len(batch))
	return batch, nil
}

// resultKeys are the object fields known to hold the records of a page.
var resultKeys = []string{"results", "data"}

// DecodeBatch reads the records out of a page body, which is either a JSON
// array of records or an object holding them under one of resultKeys.
// Numbers are kept as json.Number so large ids survive unchanged.
func DecodeBatch(body []byte) ([]map[string]any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	switch body[0] {
	case '[':
		return decodeRecords(body)
	case '{':
		var object map[string]json.RawMessage
		err := json.Unmarshal(body, &object)
		if err != nil {
			return nil, err
		}
		for _, key := range resultKeys {
			raw, ok := object[key]
			if !ok {
				continue
			}
			records, err := decodeRecords(raw)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			return records, nil
		}
		return nil, ErrUnknownShape
	}
	return nil, ErrUnknownShape
}

func decodeRecords(raw []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var records []map[string]any
	err := dec.Decode(&records)
	if err != nil {
		return nil, err
	}
	return records, nil
}
