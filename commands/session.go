package commands

import (
	"context"

	"fdo-conformance-client/services"
)

type loginCommand struct {
	rt       *Runtime
	Email    string `long:"email" description:"Account email"`
	Password string `long:"password" description:"Account password"`
}

func (c *loginCommand) Execute(args []string) error {
	err := c.rt.API.Users.Login(context.Background(), services.Credentials{
		Email:    c.Email,
		Password: c.Password,
	})

	if err != nil {
		return err
	}

	return c.rt.printStatus()
}

type loginOnpremCommand struct {
	rt *Runtime
}

func (c *loginOnpremCommand) Execute(args []string) error {
	if err := c.rt.API.Users.LoginOnprem(context.Background()); err != nil {
		return err
	}

	return c.rt.printStatus()
}

type logoutCommand struct {
	rt *Runtime
}

func (c *logoutCommand) Execute(args []string) error {
	ok, err := c.rt.API.Users.Logout(context.Background())

	if err != nil {
		return err
	}

	return c.rt.printJSON(map[string]bool{"loggedOut": ok})
}

type statusCommand struct {
	rt *Runtime
}

// Execute reports whether the session is valid and where a browser would
// have been sent otherwise
func (c *statusCommand) Execute(args []string) error {
	var redirect string

	err := c.rt.API.Users.EnsureUserIsLoggedIn(context.Background(), services.NavigatorFunc(func(ctx context.Context, path string) {
		redirect = path
	}))

	if err != nil {
		return err
	}

	return c.rt.printJSON(struct {
		LoggedIn bool   `json:"loggedIn"`
		Redirect string `json:"redirect,omitempty"`
	}{redirect == "", redirect})
}

type purgeTestsCommand struct {
	rt *Runtime
}

func (c *purgeTestsCommand) Execute(args []string) error {
	ok, err := c.rt.API.Users.PurgeTests(context.Background())

	if err != nil {
		return err
	}

	return c.rt.printJSON(map[string]bool{"purged": ok})
}

type configCommand struct {
	rt *Runtime
}

func (c *configCommand) Execute(args []string) error {
	cfg, err := c.rt.API.Users.GetConfig(context.Background())

	if err != nil {
		return err
	}

	return c.rt.printJSON(cfg)
}

type registerCommand struct {
	rt             *Runtime
	Email          string `long:"email" description:"Account email"`
	Password       string `long:"password" description:"Account password"`
	PasswordRepeat string `long:"password-repeat" description:"Account password, again"`
	Company        string `long:"company" description:"Company name"`
	Name           string `long:"name" description:"Full name"`
	Phone          string `long:"phone" description:"Phone number"`
}

func (c *registerCommand) Execute(args []string) error {
	err := c.rt.API.Users.Register(context.Background(), services.RegistrationInfo{
		Email:          c.Email,
		Password:       c.Password,
		PasswordRepeat: c.PasswordRepeat,
		Company:        c.Company,
		Name:           c.Name,
		Phone:          c.Phone,
	})

	if err != nil {
		return err
	}

	return c.rt.printStatus()
}

type resendVerificationCommand struct {
	rt *Runtime
}

func (c *resendVerificationCommand) Execute(args []string) error {
	if err := c.rt.API.Users.RequestNewEmailValidationEmail(context.Background()); err != nil {
		return err
	}

	return c.rt.printStatus()
}

type completeRegistrationCommand struct {
	rt      *Runtime
	Company string `long:"company" description:"Company name"`
	Name    string `long:"name" description:"Full name"`
	Phone   string `long:"phone" description:"Phone number"`
}

func (c *completeRegistrationCommand) Execute(args []string) error {
	err := c.rt.API.Users.CompleteOAuth2Reg(context.Background(), services.AdditionalInfo{
		Company: c.Company,
		Name:    c.Name,
		Phone:   c.Phone,
	})

	if err != nil {
		return err
	}

	return c.rt.printStatus()
}

type resetPasswordInitCommand struct {
	rt    *Runtime
	Email string `long:"email" description:"Account email"`
}

func (c *resetPasswordInitCommand) Execute(args []string) error {
	if err := c.rt.API.Users.ResetPasswordInit(context.Background(), c.Email); err != nil {
		return err
	}

	return c.rt.printStatus()
}

type resetPasswordCommand struct {
	rt             *Runtime
	Password       string `long:"password" description:"New password"`
	PasswordRepeat string `long:"password-repeat" description:"New password, again"`
}

func (c *resetPasswordCommand) Execute(args []string) error {
	err := c.rt.API.Users.ResetPasswordApply(context.Background(), services.PasswordReset{
		Password:       c.Password,
		PasswordRepeat: c.PasswordRepeat,
	})

	if err != nil {
		return err
	}

	return c.rt.printStatus()
}

type oauth2URLCommand struct {
	rt       *Runtime
	Provider string `long:"provider" description:"OAuth2 provider" choice:"github" choice:"google" default:"github"`
}

func (c *oauth2URLCommand) Execute(args []string) error {
	redirectURL, err := c.rt.API.Users.GetOAuth2RedirectURL(context.Background(), c.Provider)

	if err != nil {
		return err
	}

	return c.rt.printJSON(map[string]string{"redirect_url": redirectURL})
}

func sessionCommands(rt *Runtime) []command {
	return []command{
		{"login", "Log in with email and password", "", &loginCommand{rt: rt}},
		{"login-onprem", "Log in to an on-premise backend", "", &loginOnpremCommand{rt: rt}},
		{"logout", "End the session", "", &logoutCommand{rt: rt}},
		{"status", "Report whether the session is valid", "", &statusCommand{rt: rt}},
		{"purge-tests", "Delete every test of the account", "", &purgeTestsCommand{rt: rt}},
		{"config", "Show the backend configuration", "", &configCommand{rt: rt}},
		{"register", "Create an account", "", &registerCommand{rt: rt}},
		{"resend-verification", "Send the email verification link again", "", &resendVerificationCommand{rt: rt}},
		{"complete-registration", "Complete an account created through OAuth2", "", &completeRegistrationCommand{rt: rt}},
		{"reset-password-init", "Request a password reset email", "", &resetPasswordInitCommand{rt: rt}},
		{"reset-password", "Set a new password", "", &resetPasswordCommand{rt: rt}},
		{"oauth2-url", "Print the OAuth2 login URL of a provider", "", &oauth2URLCommand{rt: rt}},
	}
}
