package services

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"fdo-conformance-client/routes"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordedRequest is what the fake backend saw for one request
type recordedRequest struct {
	Method  string
	Path    string
	Header  http.Header
	Body    []byte
	Cookies []*http.Cookie
}

// fakeBackend serves the route table with canned handlers and records
// every request it receives, routed or not.
type fakeBackend struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeBackend(t *testing.T, handlers map[string]http.HandlerFunc) *fakeBackend {
	t.Helper()

	router := mux.NewRouter()
	routes.Attach(router, handlers)

	backend := &fakeBackend{}
	backend.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := ioutil.ReadAll(r.Body)

		backend.mu.Lock()
		backend.requests = append(backend.requests, recordedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Header:  r.Header.Clone(),
			Body:    body,
			Cookies: r.Cookies(),
		})
		backend.mu.Unlock()

		r.Body = ioutil.NopCloser(bytes.NewReader(body))
		router.ServeHTTP(w, r)
	}))

	t.Cleanup(backend.server.Close)

	return backend
}

func (backend *fakeBackend) hits() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()

	return len(backend.requests)
}

func (backend *fakeBackend) last(t *testing.T) recordedRequest {
	t.Helper()

	backend.mu.Lock()
	defer backend.mu.Unlock()

	require.NotEmpty(t, backend.requests, "no request reached the backend")

	return backend.requests[len(backend.requests)-1]
}

func (backend *fakeBackend) client(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(backend.server.URL, zap.NewNop())
	require.NoError(t, err)

	return client
}

func (backend *fakeBackend) api(t *testing.T) *API {
	t.Helper()

	return NewAPI(backend.client(t))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respond(status int, v interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, v)
	}
}

func respondRaw(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func statusOK(extra map[string]interface{}) map[string]interface{} {
	body := map[string]interface{}{"status": "ok"}

	for k, v := range extra {
		body[k] = v
	}

	return body
}

func statusFailed(message string) map[string]interface{} {
	return map[string]interface{}{"status": "failed", "errorMessage": message}
}

func decodeBody(t *testing.T, req recordedRequest) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body, &body))

	return body
}
