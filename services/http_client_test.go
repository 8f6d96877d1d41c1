package services

import (
	"context"
	"net/http"
	"testing"

	"fdo-conformance-client/httputil"
	"fdo-conformance-client/metrics"
	"fdo-conformance-client/routes"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := NewClient("/api", zap.NewNop())
	assert.Error(t, err)

	_, err = NewClient("http://backend.local:8080", nil)
	assert.NoError(t, err)
}

func TestRequestHeaders(t *testing.T) {
	backend := newFakeBackend(t, map[string]http.HandlerFunc{
		routes.UserLogin: respond(http.StatusOK, statusOK(nil)),
	})
	client := backend.client(t)
	client.UserAgent = "fdoconf-test"

	require.NoError(t, (&UsersImpl{client}).Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"}))

	req := backend.last(t)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "fdoconf-test", req.Header.Get("User-Agent"))

	_, err := uuid.Parse(req.Header.Get(httputil.HeaderRequestID))
	assert.NoError(t, err)
}

func TestRequestIDsAreUnique(t *testing.T) {
	backend := newFakeBackend(t, map[string]http.HandlerFunc{
		routes.UserLoggedIn: respond(http.StatusOK, statusOK(nil)),
	})
	users := backend.api(t).Users

	_, err := users.IsLoggedIn(context.Background())
	require.NoError(t, err)
	first := backend.last(t).Header.Get(httputil.HeaderRequestID)

	_, err = users.IsLoggedIn(context.Background())
	require.NoError(t, err)
	second := backend.last(t).Header.Get(httputil.HeaderRequestID)

	assert.NotEqual(t, first, second)
}

func TestTransportErrorPrefersErrorMessage(t *testing.T) {
	backend := newFakeBackend(t, map[string]http.HandlerFunc{
		routes.UserLogin: respond(http.StatusUnauthorized, statusFailed("Invalid credentials")),
	})

	err := backend.api(t).Users.Login(context.Background(), Credentials{Email: "a@b.c", Password: "bad"})

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusUnauthorized, transportErr.StatusCode)
	assert.Equal(t, "Error sending request: Invalid credentials", err.Error())
	assert.Equal(t, TierTransport, TierOf(err))
}

func TestTransportErrorFallsBackToReasonPhrase(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"json without errorMessage": respond(http.StatusInternalServerError, map[string]interface{}{"status": "failed"}),
		"body is not json":          respondRaw(http.StatusInternalServerError, "<html>oops</html>"),
		"empty body":                respondRaw(http.StatusInternalServerError, ""),
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			backend := newFakeBackend(t, map[string]http.HandlerFunc{
				routes.UserLoginOnprem: handler,
			})

			err := backend.api(t).Users.LoginOnprem(context.Background())

			require.Error(t, err)
			assert.Equal(t, "Error sending request: Internal Server Error", err.Error())
		})
	}
}

func TestEmptyErrorMessageIsKept(t *testing.T) {
	backend := newFakeBackend(t, map[string]http.HandlerFunc{
		routes.UserLoginOnprem: respond(http.StatusForbidden, statusFailed("")),
	})

	err := backend.api(t).Users.LoginOnprem(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Error sending request: ", err.Error())
}

func TestUndecodableSuccessBodyIsTransportError(t *testing.T) {
	backend := newFakeBackend(t, map[string]http.HandlerFunc{
		routes.DOTTestRuns: respondRaw(http.StatusOK, "not json"),
	})

	_, err := backend.api(t).DOTests.GetDOTsList(context.Background())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusOK, transportErr.StatusCode)
	assert.Error(t, transportErr.Unwrap())
}

func TestNetworkFailureIsTransportError(t *testing.T) {
	backend := newFakeBackend(t, nil)
	api := backend.api(t)
	backend.server.Close()

	err := api.Users.LoginOnprem(context.Background())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, 0, transportErr.StatusCode)
	assert.Contains(t, err.Error(), "Error sending request: ")
}

func TestSessionCookieIsReplayed(t *testing.T) {
	backend := newFakeBackend(t, map[string]http.HandlerFunc{
		routes.UserLogin: func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "s3cr3t", Path: "/api/"})
			writeJSON(w, http.StatusOK, statusOK(nil))
		},
		routes.UserLoggedIn: func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)

			if err != nil || cookie.Value != "s3cr3t" {
				writeJSON(w, http.StatusUnauthorized, statusFailed("Unauthorized"))
				return
			}

			writeJSON(w, http.StatusOK, statusOK(nil))
		},
	})
	client := backend.client(t)
	users := &UsersImpl{client}

	loggedIn, err := users.IsLoggedIn(context.Background())
	require.NoError(t, err)
	assert.False(t, loggedIn)

	require.NoError(t, users.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"}))
	assert.Equal(t, "s3cr3t", client.Session())

	loggedIn, err = users.IsLoggedIn(context.Background())
	require.NoError(t, err)
	assert.True(t, loggedIn)
}

func TestSetSessionSeedsCookieJar(t *testing.T) {
	backend := newFakeBackend(t, map[string]http.HandlerFunc{
		routes.UserConfig: respond(http.StatusOK, statusOK(map[string]interface{}{"mode": "online"})),
	})
	client := backend.client(t)

	require.NoError(t, client.SetSession("seeded"))
	_, err := (&UsersImpl{client}).GetConfig(context.Background())
	require.NoError(t, err)

	req := backend.last(t)
	require.Len(t, req.Cookies, 1)
	assert.Equal(t, SessionCookieName, req.Cookies[0].Name)
	assert.Equal(t, "seeded", req.Cookies[0].Value)
}

func TestErrorsAreCountedByFamilyAndTier(t *testing.T) {
	backend := newFakeBackend(t, map[string]http.HandlerFunc{
		routes.RVTCreate: respond(http.StatusBadRequest, statusFailed("bad url")),
	})
	rvt := backend.api(t).RVTests

	transport := metrics.PrometheusRequestErrorCounter.WithLabelValues(routes.FamilyRVT, metrics.TierTransport)
	validation := metrics.PrometheusRequestErrorCounter.WithLabelValues(routes.FamilyRVT, metrics.TierValidation)
	transportBefore := testutil.ToFloat64(transport)
	validationBefore := testutil.ToFloat64(validation)

	_, err := rvt.AddNewRv(context.Background(), "http://rv.example.com")
	require.Error(t, err)

	_, err = rvt.AddNewRv(context.Background(), "")
	require.Error(t, err)

	assert.Equal(t, transportBefore+1, testutil.ToFloat64(transport))
	assert.Equal(t, validationBefore+1, testutil.ToFloat64(validation))
}

func TestRequestDurationIsObserved(t *testing.T) {
	backend := newFakeBackend(t, map[string]http.HandlerFunc{
		routes.UserLogout: respond(http.StatusOK, statusOK(nil)),
	})

	_, err := backend.api(t).Users.Logout(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.PrometheusRequestDurations), 1)
}

func TestTierOf(t *testing.T) {
	assert.Equal(t, TierNone, TierOf(nil))
	assert.Equal(t, TierValidation, TierOf(&ValidationError{Message: MsgMissingRequiredField}))
	assert.Equal(t, TierTransport, TierOf(&TransportError{Message: "x"}))
	assert.Equal(t, TierLogical, TierOf(&LogicalError{Status: "failed"}))
	assert.Equal(t, TierUnknown, TierOf(assert.AnError))
	assert.Equal(t, "Unexpected error", (&LogicalError{}).Error())
}
