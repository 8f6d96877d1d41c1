package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportInjectsSpanAndTagsStatus(t *testing.T) {
	var injected bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for name := range r.Header {
			if strings.HasPrefix(name, "Mockpfx-Ids-") {
				injected = true
			}
		}

		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	tracer := mocktracer.New()
	span := tracer.StartSpan("test")
	ctx := opentracing.ContextWithSpan(context.Background(), span)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/user/loggedin", nil)
	require.NoError(t, err)

	client := &http.Client{Transport: &Transport{}}
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	span.Finish()

	assert.True(t, injected)
	assert.Empty(t, req.Header.Get("Mockpfx-Ids-Traceid"))

	finished := tracer.FinishedSpans()
	require.Len(t, finished, 1)
	assert.Equal(t, http.StatusBadGateway, finished[0].Tag("http.status_code"))
	assert.Equal(t, "client", finished[0].Tag("span.kind"))
	assert.Equal(t, true, finished[0].Tag("error"))
}

func TestTransportWithoutSpanPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &http.Client{Transport: &Transport{Next: http.DefaultTransport}}
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
