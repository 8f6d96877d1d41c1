package tracing

import (
	"net/http"

	"github.com/opentracing/opentracing-go"
	trace_log "github.com/opentracing/opentracing-go/log"
)

// Transport is an http.RoundTripper that propagates the span found in the
// request context to the backend and tags it with the outcome of the exchange.
// Requests without a span pass through untouched.
type Transport struct {
	Next http.RoundTripper
}

func (t *Transport) next() http.RoundTripper {
	if t.Next == nil {
		return http.DefaultTransport
	}

	return t.Next
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	span := opentracing.SpanFromContext(req.Context())

	if span == nil {
		return t.next().RoundTrip(req)
	}

	// a RoundTripper must not modify the caller's request
	req = req.Clone(req.Context())

	span.SetTag("span.kind", "client")
	span.SetTag("http.method", req.Method)
	span.SetTag("http.url", req.URL.String())

	span.Tracer().Inject(
		span.Context(),
		opentracing.HTTPHeaders,
		opentracing.HTTPHeadersCarrier(req.Header))

	resp, err := t.next().RoundTrip(req)

	if err != nil {
		span.SetTag("error", true)
		span.LogFields(
			trace_log.String("event", "error"),
			trace_log.Error(err),
		)

		return nil, err
	}

	span.SetTag("http.status_code", resp.StatusCode)

	if resp.StatusCode >= http.StatusInternalServerError {
		span.SetTag("error", true)
	}

	return resp, nil
}
