package auth

import (
	"crypto/subtle"
	"time"

	"statgate/internal/core/apperror"
)

// Client is a statically configured API client.
type Client struct {
	ID     string
	Secret string
	Scopes []string
}

// Service issues access tokens for configured clients. Clients are static
// configuration, not stored records: the catalog itself holds no accounts.
type Service struct {
	clients map[string]Client
	jwt     *JWTService
}

// NewService creates an auth service over a fixed client list.
func NewService(clients []Client, jwt *JWTService) *Service {
	byID := make(map[string]Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}
	return &Service{clients: byID, jwt: jwt}
}

// IssueToken validates client credentials and returns a signed access token
// with its expiry.
func (s *Service) IssueToken(clientID, clientSecret string) (string, time.Time, error) {
	client, ok := s.clients[clientID]
	if !ok || subtle.ConstantTimeCompare([]byte(client.Secret), []byte(clientSecret)) != 1 {
		return "", time.Time{}, apperror.NewUnauthorized("invalid client credentials")
	}
	return s.jwt.GenerateAccessToken(client.ID, client.Scopes)
}
