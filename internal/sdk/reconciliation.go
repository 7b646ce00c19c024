package sdk

import (
	"context"
	"time"

	"console/api/internal/gateway"
	"console/api/internal/sdk/backend"
)

// Policy pairs a ledger query with a payments pool for reconciliation runs.
type Policy struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	LedgerName     string         `json:"ledgerName"`
	LedgerQuery    map[string]any `json:"ledgerQuery,omitempty"`
	PaymentsPoolID string         `json:"paymentsPoolID"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// CreatePolicyRequest creates a reconciliation policy.
type CreatePolicyRequest struct {
	Name           string         `json:"name"`
	LedgerName     string         `json:"ledgerName"`
	LedgerQuery    map[string]any `json:"ledgerQuery,omitempty"`
	PaymentsPoolID string         `json:"paymentsPoolID"`
}

// Reconciliation is one run of a policy, with balances on each side and the
// computed drift. All amounts are integers per asset.
type Reconciliation struct {
	ID                   string            `json:"id"`
	PolicyID             string            `json:"policyID"`
	Status               string            `json:"status"`
	ReconciledAtLedger   time.Time         `json:"reconciledAtLedger"`
	ReconciledAtPayments time.Time         `json:"reconciledAtPayments"`
	LedgerBalances       map[string]BigInt `json:"ledgerBalances,omitempty"`
	PaymentsBalances     map[string]BigInt `json:"paymentsBalances,omitempty"`
	DriftBalances        map[string]BigInt `json:"driftBalances,omitempty"`
	Error                string            `json:"error,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
}

// ReconcileRequest bounds a reconciliation run in time.
type ReconcileRequest struct {
	ReconciledAtLedger   time.Time `json:"reconciledAtLedger"`
	ReconciledAtPayments time.Time `json:"reconciledAtPayments"`
}

type reconciliationBackend interface {
	ListPolicies(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Policy], error)
	GetPolicy(ctx context.Context, policyID string, opts ...backend.RequestOption) (Policy, error)
	CreatePolicy(ctx context.Context, req CreatePolicyRequest, opts ...backend.RequestOption) (Policy, error)
	DeletePolicy(ctx context.Context, policyID string, opts ...backend.RequestOption) error
	ListReconciliations(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Reconciliation], error)
	GetReconciliation(ctx context.Context, reconciliationID string, opts ...backend.RequestOption) (Reconciliation, error)
	Reconcile(ctx context.Context, policyID string, req ReconcileRequest, opts ...backend.RequestOption) (Reconciliation, error)
}

// Reconciliation domain client. Only one backend major version exists today;
// the strategy seam matches the other domains so a second version slots in
// without touching callers.
type ReconciliationClient struct {
	version gateway.Version
	backend reconciliationBackend
}

func NewReconciliation(client *backend.Client, version gateway.Version) *ReconciliationClient {
	return &ReconciliationClient{
		version: version,
		backend: &reconciliationV1{client: client},
	}
}

func (r *ReconciliationClient) Version() gateway.Version {
	return r.version
}

func (r *ReconciliationClient) ListPolicies(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Policy], error) {
	return r.backend.ListPolicies(ctx, req, opts...)
}

func (r *ReconciliationClient) GetPolicy(ctx context.Context, policyID string, opts ...backend.RequestOption) (Policy, error) {
	return r.backend.GetPolicy(ctx, policyID, opts...)
}

func (r *ReconciliationClient) CreatePolicy(ctx context.Context, req CreatePolicyRequest, opts ...backend.RequestOption) (Policy, error) {
	return r.backend.CreatePolicy(ctx, req, opts...)
}

func (r *ReconciliationClient) DeletePolicy(ctx context.Context, policyID string, opts ...backend.RequestOption) error {
	return r.backend.DeletePolicy(ctx, policyID, opts...)
}

func (r *ReconciliationClient) ListReconciliations(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Reconciliation], error) {
	return r.backend.ListReconciliations(ctx, req, opts...)
}

func (r *ReconciliationClient) GetReconciliation(ctx context.Context, reconciliationID string, opts ...backend.RequestOption) (Reconciliation, error) {
	return r.backend.GetReconciliation(ctx, reconciliationID, opts...)
}

func (r *ReconciliationClient) Reconcile(ctx context.Context, policyID string, req ReconcileRequest, opts ...backend.RequestOption) (Reconciliation, error) {
	return r.backend.Reconcile(ctx, policyID, req, opts...)
}

// reconciliationV1 talks to the v1 reconciliation API, which already
// paginates with cursors.
type reconciliationV1 struct {
	client *backend.Client
}

func (b *reconciliationV1) ListPolicies(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Policy], error) {
	var resp cursorEnvelope[Policy]
	if err := b.client.Get(ctx, "/api/reconciliation/policies", legacyListParams(req), &resp, opts...); err != nil {
		return Cursor[Policy]{}, err
	}
	return resp.Cursor, nil
}

func (b *reconciliationV1) GetPolicy(ctx context.Context, policyID string, opts ...backend.RequestOption) (Policy, error) {
	var resp dataEnvelope[Policy]
	if err := b.client.Get(ctx, "/api/reconciliation/policies/"+policyID, nil, &resp, opts...); err != nil {
		return Policy{}, err
	}
	return resp.Data, nil
}

func (b *reconciliationV1) CreatePolicy(ctx context.Context, req CreatePolicyRequest, opts ...backend.RequestOption) (Policy, error) {
	var resp dataEnvelope[Policy]
	if err := b.client.Post(ctx, "/api/reconciliation/policies", req, &resp, opts...); err != nil {
		return Policy{}, err
	}
	return resp.Data, nil
}

func (b *reconciliationV1) DeletePolicy(ctx context.Context, policyID string, opts ...backend.RequestOption) error {
	return b.client.Delete(ctx, "/api/reconciliation/policies/"+policyID, opts...)
}

func (b *reconciliationV1) ListReconciliations(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Reconciliation], error) {
	var resp cursorEnvelope[Reconciliation]
	if err := b.client.Get(ctx, "/api/reconciliation/reconciliations", legacyListParams(req), &resp, opts...); err != nil {
		return Cursor[Reconciliation]{}, err
	}
	return resp.Cursor, nil
}

func (b *reconciliationV1) GetReconciliation(ctx context.Context, reconciliationID string, opts ...backend.RequestOption) (Reconciliation, error) {
	var resp dataEnvelope[Reconciliation]
	if err := b.client.Get(ctx, "/api/reconciliation/reconciliations/"+reconciliationID, nil, &resp, opts...); err != nil {
		return Reconciliation{}, err
	}
	return resp.Data, nil
}

func (b *reconciliationV1) Reconcile(ctx context.Context, policyID string, req ReconcileRequest, opts ...backend.RequestOption) (Reconciliation, error) {
	var resp dataEnvelope[Reconciliation]
	if err := b.client.Post(ctx, "/api/reconciliation/policies/"+policyID+"/reconciliation", req, &resp, opts...); err != nil {
		return Reconciliation{}, err
	}
	return resp.Data, nil
}
