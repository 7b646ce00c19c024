package sdk

import (
	"context"
	"time"

	"console/api/internal/gateway"
	"console/api/internal/sdk/backend"
)

// WebhookConfig is an event subscription: which event types get delivered
// to which endpoint, signed with which secret.
type WebhookConfig struct {
	ID         string    `json:"id"`
	Endpoint   string    `json:"endpoint"`
	Secret     string    `json:"secret,omitempty"`
	EventTypes []string  `json:"eventTypes"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CreateWebhookConfigRequest struct {
	Endpoint   string   `json:"endpoint"`
	Secret     string   `json:"secret,omitempty"`
	EventTypes []string `json:"eventTypes"`
}

type webhooksBackend interface {
	ListConfigs(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[WebhookConfig], error)
	CreateConfig(ctx context.Context, req CreateWebhookConfigRequest, opts ...backend.RequestOption) (WebhookConfig, error)
	DeleteConfig(ctx context.Context, id string, opts ...backend.RequestOption) error
	ActivateConfig(ctx context.Context, id string, opts ...backend.RequestOption) (WebhookConfig, error)
	DeactivateConfig(ctx context.Context, id string, opts ...backend.RequestOption) (WebhookConfig, error)
	ChangeSecret(ctx context.Context, id, secret string, opts ...backend.RequestOption) (WebhookConfig, error)
}

// WebhooksClient is the normalized webhooks client.
type WebhooksClient struct {
	version gateway.Version
	backend webhooksBackend
}

func NewWebhooks(client *backend.Client, version gateway.Version) *WebhooksClient {
	legacy := &webhooksV1{client: client}
	strategies := map[gateway.Version]webhooksBackend{
		gateway.V1: legacy,
		gateway.V2: legacy,
		gateway.V3: legacy,
	}
	strategy, ok := strategies[version]
	if !ok {
		strategy = legacy
	}
	return &WebhooksClient{version: version, backend: strategy}
}

func (w *WebhooksClient) Version() gateway.Version {
	return w.version
}

func (w *WebhooksClient) ListConfigs(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[WebhookConfig], error) {
	return w.backend.ListConfigs(ctx, req, opts...)
}

func (w *WebhooksClient) CreateConfig(ctx context.Context, req CreateWebhookConfigRequest, opts ...backend.RequestOption) (WebhookConfig, error) {
	return w.backend.CreateConfig(ctx, req, opts...)
}

func (w *WebhooksClient) DeleteConfig(ctx context.Context, id string, opts ...backend.RequestOption) error {
	return w.backend.DeleteConfig(ctx, id, opts...)
}

func (w *WebhooksClient) ActivateConfig(ctx context.Context, id string, opts ...backend.RequestOption) (WebhookConfig, error) {
	return w.backend.ActivateConfig(ctx, id, opts...)
}

func (w *WebhooksClient) DeactivateConfig(ctx context.Context, id string, opts ...backend.RequestOption) (WebhookConfig, error) {
	return w.backend.DeactivateConfig(ctx, id, opts...)
}

func (w *WebhooksClient) ChangeSecret(ctx context.Context, id, secret string, opts ...backend.RequestOption) (WebhookConfig, error) {
	return w.backend.ChangeSecret(ctx, id, secret, opts...)
}

type webhooksV1 struct {
	client *backend.Client
}

func (b *webhooksV1) ListConfigs(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[WebhookConfig], error) {
	var resp cursorEnvelope[WebhookConfig]
	if err := b.client.Get(ctx, "/api/webhooks/configs", cursorListParams(req), &resp, opts...); err != nil {
		return Cursor[WebhookConfig]{}, err
	}
	return resp.Cursor, nil
}

func (b *webhooksV1) CreateConfig(ctx context.Context, req CreateWebhookConfigRequest, opts ...backend.RequestOption) (WebhookConfig, error) {
	var resp dataEnvelope[WebhookConfig]
	if err := b.client.Post(ctx, "/api/webhooks/configs", req, &resp, opts...); err != nil {
		return WebhookConfig{}, err
	}
	return resp.Data, nil
}

func (b *webhooksV1) DeleteConfig(ctx context.Context, id string, opts ...backend.RequestOption) error {
	return b.client.Delete(ctx, "/api/webhooks/configs/"+id, opts...)
}

func (b *webhooksV1) ActivateConfig(ctx context.Context, id string, opts ...backend.RequestOption) (WebhookConfig, error) {
	var resp dataEnvelope[WebhookConfig]
	if err := b.client.Put(ctx, "/api/webhooks/configs/"+id+"/activate", struct{}{}, &resp, opts...); err != nil {
		return WebhookConfig{}, err
	}
	return resp.Data, nil
}

func (b *webhooksV1) DeactivateConfig(ctx context.Context, id string, opts ...backend.RequestOption) (WebhookConfig, error) {
	var resp dataEnvelope[WebhookConfig]
	if err := b.client.Put(ctx, "/api/webhooks/configs/"+id+"/deactivate", struct{}{}, &resp, opts...); err != nil {
		return WebhookConfig{}, err
	}
	return resp.Data, nil
}

func (b *webhooksV1) ChangeSecret(ctx context.Context, id, secret string, opts ...backend.RequestOption) (WebhookConfig, error) {
	var resp dataEnvelope[WebhookConfig]
	body := map[string]string{"secret": secret}
	if err := b.client.Put(ctx, "/api/webhooks/configs/"+id+"/secret/change", body, &resp, opts...); err != nil {
		return WebhookConfig{}, err
	}
	return resp.Data, nil
}
