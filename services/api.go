package services

// API groups the endpoint families of one backend. All families share the
// same Client and therefore the same session.
type API struct {
	Users       Users
	DeviceTests DeviceTests
	DOTests     DOTests
	RVTests     RVTests
}

// NewAPI wires every endpoint family to client
func NewAPI(client *Client) *API {
	return &API{
		Users:       &UsersImpl{Client: client},
		DeviceTests: &DeviceTestsImpl{Client: client},
		DOTests:     &DOTestsImpl{Client: client},
		RVTests:     &RVTestsImpl{Client: client},
	}
}
