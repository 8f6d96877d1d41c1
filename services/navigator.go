package services

import "context"

// HomePath is where a visitor without a session is sent
const HomePath = "/"

// Navigator moves the caller's front end to another location
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc adapts a plain function to the Navigator interface
type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) {
	f(ctx, path)
}
