package loginshield

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cryptium/loginshield-go/httpclient"
	"github.com/cryptium/loginshield-go/logger"
	"github.com/cryptium/loginshield-go/observability"
)

// executor performs the round trips for both client variants.
type executor struct {
	settings
	http *httpclient.Client
	log  *logger.Logger
}

func newExecutor(s settings, opts []Option) (*executor, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get(serviceName)
	}

	hc, err := httpclient.New(httpclient.Config{
		Timeout: s.timeout,
		TLS:     s.tls,
	}, o.httpClient...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &executor{settings: s, http: hc, log: o.log}, nil
}

type call struct {
	op     string
	method string
	path   string
	query  map[string]string
	body   any
}

// exchange records one request and, when one arrived, its response.
type exchange struct {
	method  string
	url     string
	headers map[string]string
	body    []byte
	resp    *Response
}

// begin tags ctx with a fresh request id, starts the operation span and
// returns the operation logger. The caller ends the span.
func (e *executor) begin(ctx context.Context, op string) (context.Context, *logger.Logger, trace.Span) {
	ctx = logger.ContextWithRequestID(ctx, uuid.NewString())
	ctx, span := observability.StartSpan(ctx, serviceName+"."+op, trace.WithAttributes(
		attribute.String(observability.AttrOperation, op),
		attribute.String(observability.AttrRealmID, e.realmID),
	))
	log := e.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldOperation, op,
		logger.FieldRealmID, e.realmID,
	))
	return ctx, log, span
}

// do sends one request. The returned exchange is never nil; its resp is set
// whenever the service answered, including non-2xx answers.
func (e *executor) do(ctx context.Context, log *logger.Logger, c call) (*exchange, error) {
	x := &exchange{method: c.method, url: e.requestURL(c.path)}

	headers, err := composeHeaders(ctx, x.url, e.authorization, e.requestHeaders)
	if err != nil {
		log.WithError(err).Warn("request headers failed")
		return x, err
	}
	x.headers = headers

	req := httpclient.Request{
		Method:  c.method,
		Path:    x.url,
		Headers: headers,
		Query:   c.query,
	}
	if c.body != nil {
		x.body, err = json.Marshal(c.body)
		if err != nil {
			return x, fmt.Errorf("loginshield: encode %s request: %w", c.op, err)
		}
		req.Body = x.body
	}

	log.Debug("request", logger.Fields(
		logger.FieldMethod, x.method,
		logger.FieldURL, x.url,
		logger.FieldHeaders, logger.RedactHeaders(x.headers),
		logger.FieldData, string(x.body),
	))

	start := time.Now()
	resp, err := e.http.Do(ctx, req)
	elapsed := time.Since(start)

	x.resp = newResponse(resp)
	if x.resp != nil {
		log.Debug("response", logger.DurationFields(elapsed,
			logger.FieldStatus, x.resp.Status,
			logger.FieldStatusText, x.resp.StatusText,
			logger.FieldHeaders, logger.RedactHeaders(x.resp.Headers),
			logger.FieldData, string(x.resp.Data),
		))
	}
	if err != nil {
		fields := logger.ErrorFields(err, logger.FieldDuration, elapsed.Milliseconds())
		if x.resp != nil {
			fields[logger.FieldStatus] = x.resp.Status
		}
		log.Warn("request failed", fields)
		return x, err
	}
	return x, nil
}

// diagnostics describes the whole exchange for failure logs.
func (x *exchange) diagnostics() map[string]interface{} {
	fields := logger.Fields(
		"request_method", x.method,
		"request_url", x.url,
		"request_data", string(x.body),
		"request_headers", logger.RedactHeaders(x.headers),
	)
	if x.resp != nil {
		fields["response_status"] = x.resp.Status
		fields["response_status_text"] = x.resp.StatusText
		fields["response_data"] = string(x.resp.Data)
		fields["response_headers"] = logger.RedactHeaders(x.resp.Headers)
	}
	return fields
}
