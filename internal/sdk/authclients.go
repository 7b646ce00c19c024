package sdk

import (
	"context"

	"console/api/internal/gateway"
	"console/api/internal/sdk/backend"
)

// AuthClient is an OAuth client registered against the stack's auth service.
type AuthClient struct {
	ID                     string             `json:"id"`
	Name                   string             `json:"name"`
	Description            string             `json:"description,omitempty"`
	Public                 bool               `json:"public"`
	Trusted                bool               `json:"trusted"`
	RedirectURIs           []string           `json:"redirectUris,omitempty"`
	PostLogoutRedirectURIs []string           `json:"postLogoutRedirectUris,omitempty"`
	Scopes                 []string           `json:"scopes,omitempty"`
	Secrets                []AuthClientSecret `json:"secrets,omitempty"`
}

// AuthClientSecret holds the non-sensitive part of a client secret. Clear
// is only set on the create response and never stored.
type AuthClientSecret struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LastDigits string `json:"lastDigits,omitempty"`
	Clear      string `json:"clear,omitempty"`
}

type CreateAuthClientRequest struct {
	Name                   string   `json:"name"`
	Description            string   `json:"description,omitempty"`
	Public                 bool     `json:"public,omitempty"`
	Trusted                bool     `json:"trusted,omitempty"`
	RedirectURIs           []string `json:"redirectUris,omitempty"`
	PostLogoutRedirectURIs []string `json:"postLogoutRedirectUris,omitempty"`
	Scopes                 []string `json:"scopes,omitempty"`
}

type authBackend interface {
	ListClients(ctx context.Context, opts ...backend.RequestOption) (Cursor[AuthClient], error)
	GetClient(ctx context.Context, id string, opts ...backend.RequestOption) (AuthClient, error)
	CreateClient(ctx context.Context, req CreateAuthClientRequest, opts ...backend.RequestOption) (AuthClient, error)
	DeleteClient(ctx context.Context, id string, opts ...backend.RequestOption) error
	CreateClientSecret(ctx context.Context, clientID, name string, opts ...backend.RequestOption) (AuthClientSecret, error)
	DeleteClientSecret(ctx context.Context, clientID, secretID string, opts ...backend.RequestOption) error
}

// AuthClientsClient is the normalized client for the auth service's OAuth
// client registry.
type AuthClientsClient struct {
	version gateway.Version
	backend authBackend
}

func NewAuthClients(client *backend.Client, version gateway.Version) *AuthClientsClient {
	legacy := &authV1{client: client}
	strategies := map[gateway.Version]authBackend{
		gateway.V1: legacy,
		gateway.V2: legacy,
		gateway.V3: legacy,
	}
	strategy, ok := strategies[version]
	if !ok {
		strategy = legacy
	}
	return &AuthClientsClient{version: version, backend: strategy}
}

func (a *AuthClientsClient) Version() gateway.Version {
	return a.version
}

func (a *AuthClientsClient) ListClients(ctx context.Context, opts ...backend.RequestOption) (Cursor[AuthClient], error) {
	return a.backend.ListClients(ctx, opts...)
}

func (a *AuthClientsClient) GetClient(ctx context.Context, id string, opts ...backend.RequestOption) (AuthClient, error) {
	return a.backend.GetClient(ctx, id, opts...)
}

func (a *AuthClientsClient) CreateClient(ctx context.Context, req CreateAuthClientRequest, opts ...backend.RequestOption) (AuthClient, error) {
	return a.backend.CreateClient(ctx, req, opts...)
}

func (a *AuthClientsClient) DeleteClient(ctx context.Context, id string, opts ...backend.RequestOption) error {
	return a.backend.DeleteClient(ctx, id, opts...)
}

func (a *AuthClientsClient) CreateClientSecret(ctx context.Context, clientID, name string, opts ...backend.RequestOption) (AuthClientSecret, error) {
	return a.backend.CreateClientSecret(ctx, clientID, name, opts...)
}

func (a *AuthClientsClient) DeleteClientSecret(ctx context.Context, clientID, secretID string, opts ...backend.RequestOption) error {
	return a.backend.DeleteClientSecret(ctx, clientID, secretID, opts...)
}

type authV1 struct {
	client *backend.Client
}

// ListClients wraps the flat array the auth service returns; it does not
// paginate, so MockCursor keeps the shape uniform with the other domains.
func (b *authV1) ListClients(ctx context.Context, opts ...backend.RequestOption) (Cursor[AuthClient], error) {
	var resp dataEnvelope[[]AuthClient]
	if err := b.client.Get(ctx, "/api/auth/clients", nil, &resp, opts...); err != nil {
		return Cursor[AuthClient]{}, err
	}
	return MockCursor(resp.Data), nil
}

func (b *authV1) GetClient(ctx context.Context, id string, opts ...backend.RequestOption) (AuthClient, error) {
	var resp dataEnvelope[AuthClient]
	if err := b.client.Get(ctx, "/api/auth/clients/"+id, nil, &resp, opts...); err != nil {
		return AuthClient{}, err
	}
	return resp.Data, nil
}

func (b *authV1) CreateClient(ctx context.Context, req CreateAuthClientRequest, opts ...backend.RequestOption) (AuthClient, error) {
	var resp dataEnvelope[AuthClient]
	if err := b.client.Post(ctx, "/api/auth/clients", req, &resp, opts...); err != nil {
		return AuthClient{}, err
	}
	return resp.Data, nil
}

func (b *authV1) DeleteClient(ctx context.Context, id string, opts ...backend.RequestOption) error {
	return b.client.Delete(ctx, "/api/auth/clients/"+id, opts...)
}

func (b *authV1) CreateClientSecret(ctx context.Context, clientID, name string, opts ...backend.RequestOption) (AuthClientSecret, error) {
	var resp dataEnvelope[AuthClientSecret]
	body := map[string]string{"name": name}
	if err := b.client.Post(ctx, "/api/auth/clients/"+clientID+"/secrets", body, &resp, opts...); err != nil {
		return AuthClientSecret{}, err
	}
	return resp.Data, nil
}

func (b *authV1) DeleteClientSecret(ctx context.Context, clientID, secretID string, opts ...backend.RequestOption) error {
	return b.client.Delete(ctx, "/api/auth/clients/"+clientID+"/secrets/"+secretID, opts...)
}
