package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"fdo-conformance-client/httputil"
	edge_log "fdo-conformance-client/log"
	"fdo-conformance-client/metrics"
	"fdo-conformance-client/routes"
	"fdo-conformance-client/tracing"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	trace_log "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

const (
	SessionCookieName = "session"
	sessionCookiePath = "/api/"
	contentTypeJSON   = "application/json"
)

// Client sends requests to the conformance backend. It is embedded by every
// endpoint family and is safe for concurrent use.
type Client struct {
	Client    *http.Client
	Logger    *zap.Logger
	BaseURL   *url.URL
	Routes    *routes.Table
	UserAgent string
}

// NewHTTPClient returns an http.Client that keeps the session cookie set by
// the backend and propagates tracing spans.
func NewHTTPClient() (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	if err != nil {
		return nil, errors.Wrap(err, "create cookie jar")
	}

	return &http.Client{
		Jar:       jar,
		Transport: &tracing.Transport{},
	}, nil
}

// NewClient builds a Client for the backend at baseURL
func NewClient(baseURL string, logger *zap.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))

	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", baseURL)
	}

	httpClient, err := NewHTTPClient()

	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		Client:  httpClient,
		Logger:  logger,
		BaseURL: parsed,
		Routes:  routes.New(),
	}, nil
}

// SetSession stores a session token in the cookie jar so that subsequent
// requests are authenticated without calling Login.
func (client *Client) SetSession(token string) error {
	if client.Client.Jar == nil {
		return errors.New("http client has no cookie jar")
	}

	client.Client.Jar.SetCookies(client.BaseURL, []*http.Cookie{{
		Name:     SessionCookieName,
		Value:    token,
		Path:     sessionCookiePath,
		HttpOnly: true,
	}})

	return nil
}

// Session returns the session token currently held in the cookie jar
func (client *Client) Session() string {
	if client.Client.Jar == nil {
		return ""
	}

	apiURL := client.BaseURL.ResolveReference(&url.URL{Path: sessionCookiePath})

	for _, cookie := range client.Client.Jar.Cookies(apiURL) {
		if cookie.Name == SessionCookieName {
			return cookie.Value
		}
	}

	return ""
}

// response is a backend answer before any status interpretation
type response struct {
	ok          bool
	statusCode  int
	reason      string
	body        []byte
	envelope    httputil.Envelope
	envelopeErr error
}

// transportError builds the error for a response whose status is not 200.
// errorMessage from the body wins over the HTTP reason phrase.
func (resp *response) transportError() *TransportError {
	message := resp.reason

	if resp.envelope != nil {
		if errorMessage, ok := resp.envelope.ErrorMessage(); ok {
			message = errorMessage
		}
	}

	return &TransportError{
		StatusCode: resp.statusCode,
		Message:    message,
	}
}

// doRequest sends one request to the named route. body, when not nil, is
// sent as JSON. Only failures to obtain a response are returned as errors.
func (client *Client) doRequest(ctx context.Context, route string, pairs []string, body interface{}) (*response, error) {
	family := routes.Family(route)

	method, path, err := client.Routes.Path(route, pairs...)

	if err != nil {
		return nil, client.reject(route, &ValidationError{
			Message: MsgMissingRequiredField,
			Fields:  routeVariables(pairs),
		})
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "Client.doRequest()")
	defer span.Finish()

	requestID := uuid.NewString()
	ctx = httputil.WithRequestID(ctx, requestID)

	urlStr := client.BaseURL.ResolveReference(&url.URL{Path: path}).String()

	logger := edge_log.WithContext(ctx, client.Logger).With(zap.String("function", "doRequest()")).With(zap.String("request_id", requestID))
	logger = logger.With(zap.String("route", route), zap.String("method", method), zap.String("url", urlStr))

	span.SetTag("route", route)
	span.SetTag("request_id", requestID)

	timer := metrics.ObserveRequest(family, method)
	defer timer.ObserveDuration()

	var bodyReader io.Reader = http.NoBody
	var bodyBytes []byte

	if body != nil {
		bodyBytes, err = json.Marshal(body)

		if err != nil {
			logger.Error("could not encode request body", zap.Error(err))

			return nil, client.reject(route, newTransportError(0, err, "Could not encode request body: %s", err))
		}

		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, bodyReader)

	if err != nil {
		logger.Error("could not create request", zap.Error(err))

		return nil, client.reject(route, newTransportError(0, err, "Could not create request: %s", err))
	}

	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(httputil.HeaderRequestID, requestID)

	if client.UserAgent != "" {
		req.Header.Set("User-Agent", client.UserAgent)
	}

	resp, err := client.Client.Do(req)

	if err != nil {
		logger.Error("could not make request", zap.Error(err))

		span.LogFields(
			trace_log.String("event", "error"),
			trace_log.Error(err),
		)

		return nil, client.reject(route, newTransportError(0, err, "%s", err))
	}

	defer resp.Body.Close()
	logger = logger.With(zap.Int("status_code", resp.StatusCode))

	respBody, err := ioutil.ReadAll(resp.Body)

	if err != nil {
		logger.Error("unable to read response body", zap.Error(err))

		return nil, client.reject(route, newTransportError(resp.StatusCode, err, "Unable to read response body: %s", err))
	}

	logger.Debug("Read response body", zap.ByteString("response_body", respBody))

	result := &response{
		ok:         httputil.IsOKResponse(resp),
		statusCode: resp.StatusCode,
		reason:     httputil.ReasonPhrase(resp),
		body:       respBody,
	}

	result.envelope, result.envelopeErr = httputil.DecodeEnvelope(respBody)

	return result, nil
}

// call sends the request and applies the transport tier: any status other
// than 200, or a 200 body that is not a JSON object, is an error.
func (client *Client) call(ctx context.Context, route string, pairs []string, body interface{}) (httputil.Envelope, error) {
	resp, err := client.doRequest(ctx, route, pairs, body)

	if err != nil {
		return nil, err
	}

	if !resp.ok {
		return nil, client.reject(route, resp.transportError())
	}

	if resp.envelopeErr != nil {
		return nil, client.reject(route, newTransportError(resp.statusCode, resp.envelopeErr, "Unable to decode response body: %s", resp.envelopeErr))
	}

	return resp.envelope, nil
}

// probe sends the request and reports whether the backend answered 200.
// Non-200 answers are not errors, whatever their body.
func (client *Client) probe(ctx context.Context, route string) (bool, error) {
	resp, err := client.doRequest(ctx, route, nil, nil)

	if err != nil {
		return false, err
	}

	if !resp.ok {
		return false, nil
	}

	if resp.envelopeErr != nil {
		return false, client.reject(route, newTransportError(resp.statusCode, resp.envelopeErr, "Unable to decode response body: %s", resp.envelopeErr))
	}

	return true, nil
}

// fetch sends the request and returns the raw body of a 200 answer. Error
// answers are still decoded as JSON envelopes.
func (client *Client) fetch(ctx context.Context, route string, pairs []string) ([]byte, error) {
	resp, err := client.doRequest(ctx, route, pairs, nil)

	if err != nil {
		return nil, err
	}

	if !resp.ok {
		return nil, client.reject(route, resp.transportError())
	}

	return resp.body, nil
}

// requireOK applies the logical tier: the body status must be "ok"
func (client *Client) requireOK(route string, envelope httputil.Envelope) error {
	if status := envelope.Status(); status != httputil.StatusOK {
		return client.reject(route, &LogicalError{Status: string(status)})
	}

	return nil
}

// decodeField decodes a payload field of a 200 answer into out
func (client *Client) decodeField(route string, envelope httputil.Envelope, field string, out interface{}) error {
	if err := envelope.Field(field, out); err != nil {
		return client.reject(route, newTransportError(http.StatusOK, err, "Unable to decode response body: %s", err))
	}

	return nil
}

// reject records a failed call and returns err unchanged
func (client *Client) reject(route string, err error) error {
	metrics.CountError(routes.Family(route), TierOf(err).String())

	return err
}

func routeVariables(pairs []string) []string {
	names := make([]string, 0, len(pairs)/2)

	for i := 0; i < len(pairs); i += 2 {
		names = append(names, pairs[i])
	}

	return names
}

// callField sends the request and decodes the named payload field into out
func (client *Client) callField(ctx context.Context, route string, pairs []string, body interface{}, field string, out interface{}) error {
	envelope, err := client.call(ctx, route, pairs, body)

	if err != nil {
		return err
	}

	return client.decodeField(route, envelope, field, out)
}
