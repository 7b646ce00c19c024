package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"console/api/internal/auth"
	"console/api/internal/config"
	"console/api/internal/gateway"
	"console/api/internal/rbac"
	"console/api/internal/sdk"
	"console/api/internal/sdk/backend"
	"console/api/internal/session"
	"console/api/internal/util"
)

// Session is an authenticated operator pinned to one tenant stack.
type Session struct {
	Token        string
	RefreshToken string
	OperatorID   string
	OperatorName string
	Role         string
	Organization string
	Stack        string
	Region       string
	JTI          string
	ExpiresAt    time.Time
}

type LoginInput struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	Organization string `json:"organization"`
	Stack        string `json:"stack"`
}

type manifestSource interface {
	Versions(ctx context.Context, organizationID, stackID string) (gateway.Manifest, error)
}

type Service struct {
	cfg       config.Config
	manifests manifestSource
	resolver  *gateway.Resolver
	sessions  session.Store
}

func New(cfg config.Config, manifests manifestSource, sessions session.Store) *Service {
	return &Service{
		cfg:       cfg,
		manifests: manifests,
		resolver:  gateway.NewResolver(cfg.DefaultVersions, cfg.DisabledServices),
		sessions:  sessions,
	}
}

// Login opens an operator session against one stack. The gateway must know
// the stack; its manifest also supplies the region recorded in the session.
func (s *Service) Login(ctx context.Context, input LoginInput) (Session, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "Operator"
	}
	organization := strings.TrimSpace(input.Organization)
	stack := strings.TrimSpace(input.Stack)
	if organization == "" || stack == "" {
		return Session{}, domainError(422, "VALIDATION_ERROR", "organization and stack are required", nil)
	}

	manifest, err := s.manifests.Versions(ctx, organization, stack)
	if err != nil {
		return Session{}, domainError(502, "STACK_UNREACHABLE", "could not resolve stack versions", nil)
	}

	op := session.Operator{
		ID:           operatorID(organization, name),
		Name:         name,
		Role:         string(rbac.Normalize(input.Role)),
		Organization: organization,
		Stack:        stack,
		Region:       manifest.Region,
	}
	return s.issueSession(ctx, op)
}

// Refresh rotates a refresh token: the old session is revoked and a new
// access/refresh pair issued for the same operator and stack.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	op, err := s.sessions.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, op)
}

func (s *Service) issueSession(ctx context.Context, op session.Operator) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.TokenSecret), auth.Claims{
		Sub:          op.ID,
		Name:         op.Name,
		Role:         op.Role,
		Organization: op.Organization,
		Stack:        op.Stack,
		Region:       op.Region,
		JTI:          jti,
		Exp:          expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	refreshExpires := now.Add(s.cfg.RefreshTTL)
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), op, refreshExpires); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		OperatorID:   op.ID,
		OperatorName: op.Name,
		Role:         op.Role,
		Organization: op.Organization,
		Stack:        op.Stack,
		Region:       op.Region,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.TokenSecret), token)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:        token,
		OperatorID:   claims.Sub,
		OperatorName: claims.Name,
		Role:         string(rbac.Normalize(claims.Role)),
		Organization: claims.Organization,
		Stack:        claims.Stack,
		Region:       claims.Region,
		JTI:          claims.JTI,
		ExpiresAt:    time.Unix(claims.Exp, 0),
	}, nil
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		return s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

func (s *Service) Can(role string, action rbac.Action) bool {
	return rbac.Can(rbac.Normalize(role), action)
}

// Ping reports backend reachability for the readiness probe. Stores without
// a health check are assumed healthy.
func (s *Service) Ping(ctx context.Context) error {
	if pinger, ok := s.sessions.(interface{ Ping(context.Context) error }); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// Console is the per-request bundle of normalized domain clients, each
// constructed for the version resolved from the session's stack manifest.
type Console struct {
	Region         string
	Versions       map[gateway.Service]gateway.Version
	Payments       *sdk.Payments
	Reconciliation *sdk.ReconciliationClient
	Ledger         *sdk.LedgerClient
	Flows          *sdk.FlowsClient
	Wallets        *sdk.WalletsClient
	Webhooks       *sdk.WebhooksClient
	AuthClients    *sdk.AuthClientsClient

	manifest gateway.Manifest
	resolver *gateway.Resolver
}

// Enabled reports whether a service should be served for this stack.
func (c *Console) Enabled(svc gateway.Service) bool {
	return c.resolver.Enabled(c.manifest, svc)
}

// Console builds the client bundle for the session's stack. The manifest
// fetch goes through the cache, so per-request cost is a map lookup in the
// common case.
func (s *Service) Console(ctx context.Context, sess Session) (*Console, error) {
	manifest, err := s.manifests.Versions(ctx, sess.Organization, sess.Stack)
	if err != nil {
		return nil, domainError(502, "STACK_UNREACHABLE", "could not resolve stack versions", nil)
	}

	versions := s.resolver.ResolveAll(manifest)
	client := backend.New(s.cfg.StackURL(sess.Organization, sess.Stack), s.cfg.StackToken)

	return &Console{
		Region:         manifest.Region,
		Versions:       versions,
		Payments:       sdk.NewPayments(client, versions[gateway.ServicePayments]),
		Reconciliation: sdk.NewReconciliation(client, versions[gateway.ServiceReconciliation]),
		Ledger:         sdk.NewLedger(client, versions[gateway.ServiceLedger]),
		Flows:          sdk.NewFlows(client, versions[gateway.ServiceFlows]),
		Wallets:        sdk.NewWallets(client, versions[gateway.ServiceWallets]),
		Webhooks:       sdk.NewWebhooks(client, versions[gateway.ServiceWebhooks]),
		AuthClients:    sdk.NewAuthClients(client, versions[gateway.ServiceAuth]),
		manifest:       manifest,
		resolver:       s.resolver,
	}, nil
}

// VersionsPayload reports what the gateway knows about the session's stack:
// the raw report, the resolved tag, and whether the console serves it.
func (s *Service) VersionsPayload(ctx context.Context, sess Session) (map[string]any, error) {
	manifest, err := s.manifests.Versions(ctx, sess.Organization, sess.Stack)
	if err != nil {
		return nil, domainError(502, "STACK_UNREACHABLE", "could not resolve stack versions", nil)
	}

	services := make([]map[string]any, 0, len(gateway.Services))
	for _, svc := range gateway.Services {
		reported, _ := manifest.Lookup(svc)
		services = append(services, map[string]any{
			"name":     string(svc),
			"reported": reported,
			"version":  string(s.resolver.Resolve(manifest, svc)),
			"enabled":  s.resolver.Enabled(manifest, svc),
		})
	}
	return map[string]any{
		"region":   manifest.Region,
		"services": services,
	}, nil
}

// operatorID derives a stable operator id from the organization and name so
// that re-login keeps the same identity.
func operatorID(organization, name string) string {
	sum := sha1.Sum([]byte(organization + "/" + strings.ToLower(name)))
	return "op_" + hex.EncodeToString(sum[:8])
}
