package services

import (
	"strconv"
)

// ToProtocol identifies an FDO transfer ownership protocol. It is rendered
// in decimal when used as a path segment.
type ToProtocol int

const (
	To0 ToProtocol = 0
	To1 ToProtocol = 1
	To2 ToProtocol = 2
)

func (p ToProtocol) String() string {
	return strconv.Itoa(int(p))
}

// ConfigMode is the deployment mode reported by the backend
type ConfigMode string

const (
	ConfigModeOnprem ConfigMode = "onprem"
	ConfigModeOnline ConfigMode = "online"
)

// Credentials are used to log in
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegistrationInfo is the account registration form. PasswordRepeat is only
// checked locally and never sent.
type RegistrationInfo struct {
	Email          string `json:"email" validate:"required"`
	Password       string `json:"password" validate:"required"`
	PasswordRepeat string `json:"-" validate:"required,eqfield=Password"`
	Company        string `json:"company" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
}

// AdditionalInfo completes a registration started through an OAuth2 provider
type AdditionalInfo struct {
	Company string `json:"company" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// PasswordReset sets a new password after a reset was initiated
type PasswordReset struct {
	Password       string `json:"password" validate:"required"`
	PasswordRepeat string `json:"-" validate:"required,eqfield=Password"`
}

// Device registers a device under test. Voucher holds the PEM encoded
// ownership voucher followed by the device private key.
type Device struct {
	Name    string `json:"name" validate:"required"`
	Voucher string `json:"voucher" validate:"required"`
}

// TestRunReference addresses one test run of a test entity
type TestRunReference struct {
	ID        string `json:"id"`
	TestRunID string `json:"testRunId"`
}

// UserConfig is the public backend configuration
type UserConfig struct {
	Mode ConfigMode `json:"mode"`
}

// TestState is the outcome of one conformance test
type TestState struct {
	Passed bool   `json:"passed"`
	Error  string `json:"error"`
	TestID string `json:"testId"`
}

// ListenerTestRun is a run of the tests executed while the backend listens
// for a device
type ListenerTestRun struct {
	UUID      string      `json:"uuid"`
	Timestamp int64       `json:"timestamp"`
	Tests     []TestState `json:"tests"`
	Protocol  ToProtocol  `json:"protocol"`
	Completed bool        `json:"completed"`
}

// RequestTestRun is a run of the tests the backend executes against a
// remote server. Tests are keyed by test id.
type RequestTestRun struct {
	UUID      string               `json:"uuid"`
	Timestamp int64                `json:"timestamp"`
	Tests     map[string]TestState `json:"tests"`
	Protocol  ToProtocol           `json:"protocol"`
}

// PassingAllTests reports whether every test of the run passed
func (r RequestTestRun) PassingAllTests() bool {
	for _, state := range r.Tests {
		if !state.Passed {
			return false
		}
	}

	return true
}

// InstInfo describes a test instance for one protocol. Runs are ordered
// newest first.
type InstInfo struct {
	ID         string           `json:"id"`
	Runs       []RequestTestRun `json:"runs"`
	InProgress bool             `json:"inprogress"`
	Protocol   ToProtocol       `json:"protocol"`
}

// IsPassing reports whether the latest finished run passed all tests
func (i InstInfo) IsPassing() bool {
	if len(i.Runs) == 0 || i.InProgress {
		return false
	}

	return i.Runs[0].PassingAllTests()
}

// DeviceItem is a registered device with its listener test runs
type DeviceItem struct {
	ID   string            `json:"id"`
	Name string            `json:"name"`
	To0  []ListenerTestRun `json:"to0"`
	To2  []ListenerTestRun `json:"to2"`
}

// Runs returns the listener runs recorded for the protocol
func (d DeviceItem) Runs(protocol ToProtocol) []ListenerTestRun {
	switch protocol {
	case To0:
		return d.To0
	case To2:
		return d.To2
	default:
		return nil
	}
}

// DOTItem is a device onboarding test entity. The backend serialises the
// TO2 instance under the "to0" key.
type DOTItem struct {
	ID  string   `json:"id"`
	URL string   `json:"url"`
	To2 InstInfo `json:"to0"`
}

// RVTItem is a rendezvous test entity with one instance per protocol
type RVTItem struct {
	ID      string   `json:"id"`
	URL     string   `json:"url"`
	To0     InstInfo `json:"to0"`
	To1     InstInfo `json:"to1"`
	Success bool     `json:"success"`
}

// Inst returns the instance for the protocol. Only TO0 and TO1 exist on a
// rendezvous test.
func (r RVTItem) Inst(protocol ToProtocol) (InstInfo, bool) {
	switch protocol {
	case To0:
		return r.To0, true
	case To1:
		return r.To1, true
	default:
		return InstInfo{}, false
	}
}

// IsPassing reports whether both rendezvous instances pass
func (r RVTItem) IsPassing() bool {
	return r.To0.IsPassing() && r.To1.IsPassing()
}
