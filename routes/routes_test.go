package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathBuildsTemplates(t *testing.T) {
	table := New()

	cases := []struct {
		name   string
		pairs  []string
		method string
		path   string
	}{
		{UserLogin, nil, http.MethodPost, "/api/user/login"},
		{UserLoggedIn, nil, http.MethodGet, "/api/user/loggedin"},
		{OAuth2Init, []string{VarProvider, "github"}, http.MethodGet, "/api/oauth2/github/init"},
		{DeviceStartTestRun, []string{VarToProtocol, "0", VarID, "abcd"}, http.MethodPost, "/api/device/testruns/0/abcd"},
		{DeviceDeleteTestRun, []string{VarToProtocol, "2", VarID, "abcd", VarTestRunID, "run-1"}, http.MethodDelete, "/api/device/testruns/2/abcd/run-1"},
		{DOTDeleteTestRun, []string{VarID, "abcd", VarTestRunID, "run-1"}, http.MethodDelete, "/api/dot/testruns/abcd/run-1"},
		{DOTVouchers, []string{VarID, "abcd"}, http.MethodGet, "/api/dot/vouchers/abcd"},
		{RVTTestRuns, nil, http.MethodGet, "/api/rvt/testruns"},
		{RVTDeleteTestRun, []string{VarID, "abcd", VarTestRunID, "run-1"}, http.MethodDelete, "/api/rvt/testruns/abcd/run-1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			method, path, err := table.Path(tc.name, tc.pairs...)
			require.NoError(t, err)
			assert.Equal(t, tc.method, method)
			assert.Equal(t, tc.path, path)
		})
	}
}

func TestPathRejectsBadVariables(t *testing.T) {
	table := New()

	_, _, err := table.Path(DOTDeleteTestRun, VarID, "abcd", VarTestRunID, "")
	assert.Error(t, err)

	_, _, err = table.Path(DOTDeleteTestRun, VarID, "abcd")
	assert.Error(t, err)

	_, _, err = table.Path(DOTVouchers, VarID, "a/b")
	assert.Error(t, err)

	_, _, err = table.Path("user.nope")
	assert.Error(t, err)
}

func TestEveryRouteHasAFamily(t *testing.T) {
	known := map[string]bool{FamilyUser: true, FamilyOAuth2: true, FamilyDevice: true, FamilyDOT: true, FamilyRVT: true}

	for _, route := range All() {
		assert.True(t, known[Family(route.Name)], route.Name)
	}

	assert.Equal(t, "plain", Family("plain"))
}

func TestAttachServesTemplates(t *testing.T) {
	router := mux.NewRouter()

	Attach(router, map[string]http.HandlerFunc{
		DeviceDeleteTestRun: func(w http.ResponseWriter, r *http.Request) {
			vars := mux.Vars(r)
			w.Write([]byte(vars[VarToProtocol] + ":" + vars[VarID] + ":" + vars[VarTestRunID]))
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/device/testruns/0/abcd/run-1", nil))
	assert.Equal(t, "0:abcd:run-1", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/device/testruns/0/abcd/run-1", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/loggedin", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
