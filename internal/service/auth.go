package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/mealplanner/internal/server"
)

// AuthService configures the Clerk SDK. Without a secret key the API runs
// unauthenticated and the SDK is left unset.
type AuthService struct {
	server  *server.Server
	enabled bool
}

// NewAuthService configures the Clerk SDK key when one is set.
func NewAuthService(s *server.Server) *AuthService {
	enabled := s.Config.Auth.Enabled()
	if enabled {
		clerk.SetKey(s.Config.Auth.SecretKey)
	}
	return &AuthService{
		server:  s,
		enabled: enabled,
	}
}

// Enabled reports whether requests must carry a Clerk session token.
func (a *AuthService) Enabled() bool {
	return a.enabled
}
