// Package routes holds the table of conformance backend endpoints the client talks to.
// Routes are named gorilla/mux routes so that the same templates can build request paths
// on the client side and serve them in test backends.
package routes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

const (
	FamilyUser   = "user"
	FamilyOAuth2 = "oauth2"
	FamilyDevice = "device"
	FamilyDOT    = "dot"
	FamilyRVT    = "rvt"
)

// Path variables
const (
	VarProvider   = "provider"
	VarToProtocol = "toprotocol"
	VarID         = "id"
	VarTestRunID  = "testrunid"
)

// Route names. The prefix up to the first dot is the endpoint family.
const (
	UserLogin              = "user.login"
	UserLoginOnprem        = "user.login.onprem"
	UserLoggedIn           = "user.loggedin"
	UserLogout             = "user.logout"
	UserPurgeTests         = "user.purgetests"
	UserConfig             = "user.config"
	UserRegister           = "user.register"
	UserRegisterAdditional = "user.register.additionalinfo"
	UserResendVerification = "user.email.resendverification"
	UserPasswordResetInit  = "user.password.reset.init"
	UserPasswordResetApply = "user.password.reset"
	OAuth2Init             = "oauth2.init"
	DeviceTestRuns         = "device.testruns"
	DeviceCreate           = "device.create"
	DeviceStartTestRun     = "device.testruns.start"
	DeviceDeleteTestRun    = "device.testruns.delete"
	DOTTestRuns            = "dot.testruns"
	DOTCreate              = "dot.create"
	DOTExecute             = "dot.execute"
	DOTDeleteTestRun       = "dot.testruns.delete"
	DOTVouchers            = "dot.vouchers"
	RVTTestRuns            = "rvt.testruns"
	RVTCreate              = "rvt.create"
	RVTExecute             = "rvt.execute"
	RVTDeleteTestRun       = "rvt.testruns.delete"
)

// Route describes one backend endpoint
type Route struct {
	Name     string
	Method   string
	Template string
}

var table = []Route{
	{UserLogin, http.MethodPost, "/api/user/login"},
	{UserLoginOnprem, http.MethodPost, "/api/user/login/onprem"},
	{UserLoggedIn, http.MethodGet, "/api/user/loggedin"},
	{UserLogout, http.MethodPost, "/api/user/logout"},
	{UserPurgeTests, http.MethodPost, "/api/user/purgetests"},
	{UserConfig, http.MethodGet, "/api/user/config"},
	{UserRegister, http.MethodPost, "/api/user/register"},
	{UserRegisterAdditional, http.MethodPost, "/api/user/register/additionalinfo"},
	{UserResendVerification, http.MethodPost, "/api/user/email/resendverification"},
	{UserPasswordResetInit, http.MethodPost, "/api/user/password/reset/init"},
	{UserPasswordResetApply, http.MethodPost, "/api/user/password/reset"},
	{OAuth2Init, http.MethodGet, "/api/oauth2/{provider}/init"},
	{DeviceTestRuns, http.MethodGet, "/api/device/testruns"},
	{DeviceCreate, http.MethodPost, "/api/device/create"},
	{DeviceStartTestRun, http.MethodPost, "/api/device/testruns/{toprotocol}/{id}"},
	{DeviceDeleteTestRun, http.MethodDelete, "/api/device/testruns/{toprotocol}/{id}/{testrunid}"},
	{DOTTestRuns, http.MethodGet, "/api/dot/testruns"},
	{DOTCreate, http.MethodPost, "/api/dot/create"},
	{DOTExecute, http.MethodPost, "/api/dot/execute"},
	{DOTDeleteTestRun, http.MethodDelete, "/api/dot/testruns/{id}/{testrunid}"},
	{DOTVouchers, http.MethodGet, "/api/dot/vouchers/{id}"},
	{RVTTestRuns, http.MethodGet, "/api/rvt/testruns"},
	{RVTCreate, http.MethodPost, "/api/rvt/create"},
	{RVTExecute, http.MethodPost, "/api/rvt/execute"},
	{RVTDeleteTestRun, http.MethodDelete, "/api/rvt/testruns/{id}/{testrunid}"},
}

// All returns a copy of the route table
func All() []Route {
	return append([]Route{}, table...)
}

// Family returns the endpoint family of a route name
func Family(name string) string {
	if i := strings.Index(name, "."); i >= 0 {
		return name[:i]
	}

	return name
}

// Table resolves route names into request methods and paths
type Table struct {
	router *mux.Router
}

// New builds the route table
func New() *Table {
	router := mux.NewRouter()

	for _, route := range table {
		router.NewRoute().Name(route.Name).Path(route.Template).Methods(route.Method)
	}

	return &Table{router: router}
}

// Path returns the method and concrete path of the named route. pairs are
// variable name/value pairs; every variable of the template must be given a
// non-empty value containing no slash.
func (t *Table) Path(name string, pairs ...string) (string, string, error) {
	route := t.router.Get(name)

	if route == nil {
		return "", "", fmt.Errorf("unknown route %q", name)
	}

	for i := 1; i < len(pairs); i += 2 {
		if pairs[i] == "" {
			return "", "", fmt.Errorf("route %q: empty value for %q", name, pairs[i-1])
		}
	}

	u, err := route.URLPath(pairs...)

	if err != nil {
		return "", "", fmt.Errorf("route %q: %s", name, err)
	}

	methods, err := route.GetMethods()

	if err != nil || len(methods) == 0 {
		return "", "", fmt.Errorf("route %q has no method", name)
	}

	return methods[0], u.Path, nil
}

// Attach mounts handlers on the route templates, keyed by route name.
// Routes without a handler are not mounted.
func Attach(router *mux.Router, handlers map[string]http.HandlerFunc) {
	for _, route := range table {
		handler, ok := handlers[route.Name]

		if !ok {
			continue
		}

		router.HandleFunc(route.Template, handler).Methods(route.Method).Name(route.Name)
	}
}
