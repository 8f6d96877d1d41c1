package services

import (
	"context"

	"fdo-conformance-client/httputil"
	"fdo-conformance-client/routes"

	"github.com/opentracing/opentracing-go"
)

const (
	OAuth2ProviderGithub = "github"
	OAuth2ProviderGoogle = "google"
)

// The Users interface covers the account and session endpoints of the backend
type Users interface {
	Login(ctx context.Context, credentials Credentials) error
	LoginOnprem(ctx context.Context) error
	IsLoggedIn(ctx context.Context) (bool, error)
	EnsureUserIsLoggedIn(ctx context.Context, nav Navigator) error
	Logout(ctx context.Context) (bool, error)
	PurgeTests(ctx context.Context) (bool, error)
	GetConfig(ctx context.Context) (UserConfig, error)
	Register(ctx context.Context, info RegistrationInfo) error
	RequestNewEmailValidationEmail(ctx context.Context) error
	CompleteOAuth2Reg(ctx context.Context, info AdditionalInfo) error
	ResetPasswordInit(ctx context.Context, email string) error
	ResetPasswordApply(ctx context.Context, reset PasswordReset) error
	GetOAuth2RedirectURL(ctx context.Context, provider string) (string, error)
	GetGithubRedirectURL(ctx context.Context) (string, error)
	GetGoogleRedirectURL(ctx context.Context) (string, error)
}

type UsersImpl struct {
	*Client
}

func (users *UsersImpl) Login(ctx context.Context, credentials Credentials) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Users.Login()")
	defer span.Finish()

	if err := validateArgs(credentials, MsgMissingEmailOrPassword); err != nil {
		return users.reject(routes.UserLogin, err)
	}

	_, err := users.call(ctx, routes.UserLogin, nil, credentials)

	return err
}

func (users *UsersImpl) LoginOnprem(ctx context.Context) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Users.LoginOnprem()")
	defer span.Finish()

	_, err := users.call(ctx, routes.UserLoginOnprem, nil, nil)

	return err
}

// IsLoggedIn reports whether the backend accepts the current session
func (users *UsersImpl) IsLoggedIn(ctx context.Context) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Users.IsLoggedIn()")
	defer span.Finish()

	return users.probe(ctx, routes.UserLoggedIn)
}

// EnsureUserIsLoggedIn sends the caller home when there is no valid session
func (users *UsersImpl) EnsureUserIsLoggedIn(ctx context.Context, nav Navigator) error {
	loggedIn, err := users.IsLoggedIn(ctx)

	if err != nil {
		return err
	}

	if !loggedIn {
		nav.Navigate(ctx, HomePath)
	}

	return nil
}

func (users *UsersImpl) Logout(ctx context.Context) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Users.Logout()")
	defer span.Finish()

	return users.probe(ctx, routes.UserLogout)
}

func (users *UsersImpl) PurgeTests(ctx context.Context) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Users.PurgeTests()")
	defer span.Finish()

	return users.probe(ctx, routes.UserPurgeTests)
}

// GetConfig returns the public backend configuration
func (users *UsersImpl) GetConfig(ctx context.Context) (UserConfig, error) {
	var config UserConfig

	span, ctx := opentracing.StartSpanFromContext(ctx, "Users.GetConfig()")
	defer span.Finish()

	envelope, err := users.call(ctx, routes.UserConfig, nil, nil)

	if err != nil {
		return UserConfig{}, err
	}

	if err := users.decodeField(routes.UserConfig, envelope, httputil.FieldMode, &config.Mode); err != nil {
		return UserConfig{}, err
	}

	return config, nil
}

func (users *UsersImpl) Register(ctx context.Context, info RegistrationInfo) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Users.Register()")
	defer span.Finish()

	if err := validateArgs(info, MsgMissingRequiredField); err != nil {
		return users.reject(routes.UserRegister, err)
	}

	return users.callOK(ctx, routes.UserRegister, info)
}

func (users *UsersImpl) RequestNewEmailValidationEmail(ctx context.Context) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Users.RequestNewEmailValidationEmail()")
	defer span.Finish()

	return users.callOK(ctx, routes.UserResendVerification, nil)
}

func (users *UsersImpl) CompleteOAuth2Reg(ctx context.Context, info AdditionalInfo) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Users.CompleteOAuth2Reg()")
	defer span.Finish()

	if err := validateArgs(info, MsgMissingRequiredField); err != nil {
		return users.reject(routes.UserRegisterAdditional, err)
	}

	return users.callOK(ctx, routes.UserRegisterAdditional, info)
}

func (users *UsersImpl) ResetPasswordInit(ctx context.Context, email string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Users.ResetPasswordInit()")
	defer span.Finish()

	if err := requireValue("email", email); err != nil {
		return users.reject(routes.UserPasswordResetInit, err)
	}

	return users.callOK(ctx, routes.UserPasswordResetInit, struct {
		Email string `json:"email"`
	}{email})
}

func (users *UsersImpl) ResetPasswordApply(ctx context.Context, reset PasswordReset) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "Users.ResetPasswordApply()")
	defer span.Finish()

	if err := validateArgs(reset, MsgMissingRequiredField); err != nil {
		return users.reject(routes.UserPasswordResetApply, err)
	}

	return users.callOK(ctx, routes.UserPasswordResetApply, struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}{reset.Password, reset.Password})
}

// GetOAuth2RedirectURL returns the provider login page the user must visit
func (users *UsersImpl) GetOAuth2RedirectURL(ctx context.Context, provider string) (string, error) {
	var redirectURL string

	span, ctx := opentracing.StartSpanFromContext(ctx, "Users.GetOAuth2RedirectURL()")
	defer span.Finish()

	span.SetTag("provider", provider)

	envelope, err := users.call(ctx, routes.OAuth2Init, []string{routes.VarProvider, provider}, nil)

	if err != nil {
		return "", err
	}

	if err := users.requireOK(routes.OAuth2Init, envelope); err != nil {
		return "", err
	}

	if err := users.decodeField(routes.OAuth2Init, envelope, httputil.FieldRedirectURL, &redirectURL); err != nil {
		return "", err
	}

	return redirectURL, nil
}

func (users *UsersImpl) GetGithubRedirectURL(ctx context.Context) (string, error) {
	return users.GetOAuth2RedirectURL(ctx, OAuth2ProviderGithub)
}

func (users *UsersImpl) GetGoogleRedirectURL(ctx context.Context) (string, error) {
	return users.GetOAuth2RedirectURL(ctx, OAuth2ProviderGoogle)
}

func (users *UsersImpl) callOK(ctx context.Context, route string, body interface{}) error {
	envelope, err := users.call(ctx, route, nil, body)

	if err != nil {
		return err
	}

	return users.requireOK(route, envelope)
}
