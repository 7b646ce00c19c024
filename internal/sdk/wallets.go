package sdk

import (
	"context"
	"time"

	"console/api/internal/gateway"
	"console/api/internal/sdk/backend"
)

// Wallet is a managed balance container scoped to one ledger.
type Wallet struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Ledger    string            `json:"ledger"`
	CreatedAt time.Time         `json:"createdAt"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// WalletBalance is a named balance of a wallet, amounts keyed by asset.
type WalletBalance struct {
	Name      string            `json:"name"`
	Assets    map[string]BigInt `json:"assets,omitempty"`
	ExpiresAt *time.Time        `json:"expiresAt,omitempty"`
	Priority  int64             `json:"priority,omitempty"`
}

// Monetary is an asset-qualified integer amount.
type Monetary struct {
	Asset  string `json:"asset"`
	Amount BigInt `json:"amount"`
}

type CreditWalletRequest struct {
	Amount   Monetary          `json:"amount"`
	Balance  string            `json:"balance,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Sources  []map[string]any  `json:"sources,omitempty"`
}

type DebitWalletRequest struct {
	Amount      Monetary          `json:"amount"`
	Pending     bool              `json:"pending,omitempty"`
	Balances    []string          `json:"balances,omitempty"`
	Destination map[string]any    `json:"destination,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Hold is a pending debit awaiting confirmation or void.
type Hold struct {
	ID          string            `json:"id"`
	WalletID    string            `json:"walletID"`
	Description string            `json:"description,omitempty"`
	Asset       string            `json:"asset"`
	Remaining   BigInt            `json:"remaining"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type walletsBackend interface {
	ListWallets(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Wallet], error)
	GetWallet(ctx context.Context, id string, opts ...backend.RequestOption) (Wallet, error)
	ListBalances(ctx context.Context, walletID string, req ListRequest, opts ...backend.RequestOption) (Cursor[WalletBalance], error)
	CreditWallet(ctx context.Context, walletID string, req CreditWalletRequest, opts ...backend.RequestOption) error
	DebitWallet(ctx context.Context, walletID string, req DebitWalletRequest, opts ...backend.RequestOption) (*Hold, error)
	ListHolds(ctx context.Context, walletID string, req ListRequest, opts ...backend.RequestOption) (Cursor[Hold], error)
	GetHold(ctx context.Context, holdID string, opts ...backend.RequestOption) (Hold, error)
	ConfirmHold(ctx context.Context, holdID string, opts ...backend.RequestOption) error
	VoidHold(ctx context.Context, holdID string, opts ...backend.RequestOption) error
}

// WalletsClient is the normalized wallets client.
type WalletsClient struct {
	version gateway.Version
	backend walletsBackend
}

func NewWallets(client *backend.Client, version gateway.Version) *WalletsClient {
	legacy := &walletsV1{client: client}
	strategies := map[gateway.Version]walletsBackend{
		gateway.V1: legacy,
		gateway.V2: legacy,
		gateway.V3: legacy,
	}
	strategy, ok := strategies[version]
	if !ok {
		strategy = legacy
	}
	return &WalletsClient{version: version, backend: strategy}
}

func (w *WalletsClient) Version() gateway.Version {
	return w.version
}

func (w *WalletsClient) ListWallets(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Wallet], error) {
	return w.backend.ListWallets(ctx, req, opts...)
}

func (w *WalletsClient) GetWallet(ctx context.Context, id string, opts ...backend.RequestOption) (Wallet, error) {
	return w.backend.GetWallet(ctx, id, opts...)
}

func (w *WalletsClient) ListBalances(ctx context.Context, walletID string, req ListRequest, opts ...backend.RequestOption) (Cursor[WalletBalance], error) {
	return w.backend.ListBalances(ctx, walletID, req, opts...)
}

func (w *WalletsClient) CreditWallet(ctx context.Context, walletID string, req CreditWalletRequest, opts ...backend.RequestOption) error {
	return w.backend.CreditWallet(ctx, walletID, req, opts...)
}

func (w *WalletsClient) DebitWallet(ctx context.Context, walletID string, req DebitWalletRequest, opts ...backend.RequestOption) (*Hold, error) {
	return w.backend.DebitWallet(ctx, walletID, req, opts...)
}

func (w *WalletsClient) ListHolds(ctx context.Context, walletID string, req ListRequest, opts ...backend.RequestOption) (Cursor[Hold], error) {
	return w.backend.ListHolds(ctx, walletID, req, opts...)
}

func (w *WalletsClient) GetHold(ctx context.Context, holdID string, opts ...backend.RequestOption) (Hold, error) {
	return w.backend.GetHold(ctx, holdID, opts...)
}

func (w *WalletsClient) ConfirmHold(ctx context.Context, holdID string, opts ...backend.RequestOption) error {
	return w.backend.ConfirmHold(ctx, holdID, opts...)
}

func (w *WalletsClient) VoidHold(ctx context.Context, holdID string, opts ...backend.RequestOption) error {
	return w.backend.VoidHold(ctx, holdID, opts...)
}

type walletsV1 struct {
	client *backend.Client
}

func (b *walletsV1) ListWallets(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Wallet], error) {
	var resp cursorEnvelope[Wallet]
	if err := b.client.Get(ctx, "/api/wallets/wallets", cursorListParams(req), &resp, opts...); err != nil {
		return Cursor[Wallet]{}, err
	}
	return resp.Cursor, nil
}

func (b *walletsV1) GetWallet(ctx context.Context, id string, opts ...backend.RequestOption) (Wallet, error) {
	var resp dataEnvelope[Wallet]
	if err := b.client.Get(ctx, "/api/wallets/wallets/"+id, nil, &resp, opts...); err != nil {
		return Wallet{}, err
	}
	return resp.Data, nil
}

func (b *walletsV1) ListBalances(ctx context.Context, walletID string, req ListRequest, opts ...backend.RequestOption) (Cursor[WalletBalance], error) {
	var resp cursorEnvelope[WalletBalance]
	if err := b.client.Get(ctx, "/api/wallets/wallets/"+walletID+"/balances", cursorListParams(req), &resp, opts...); err != nil {
		return Cursor[WalletBalance]{}, err
	}
	return resp.Cursor, nil
}

func (b *walletsV1) CreditWallet(ctx context.Context, walletID string, req CreditWalletRequest, opts ...backend.RequestOption) error {
	return b.client.Post(ctx, "/api/wallets/wallets/"+walletID+"/credit", req, nil, opts...)
}

// DebitWallet returns the created hold when the debit is pending, nil when
// it settled immediately.
func (b *walletsV1) DebitWallet(ctx context.Context, walletID string, req DebitWalletRequest, opts ...backend.RequestOption) (*Hold, error) {
	if !req.Pending {
		if err := b.client.Post(ctx, "/api/wallets/wallets/"+walletID+"/debit", req, nil, opts...); err != nil {
			return nil, err
		}
		return nil, nil
	}
	var resp dataEnvelope[Hold]
	if err := b.client.Post(ctx, "/api/wallets/wallets/"+walletID+"/debit", req, &resp, opts...); err != nil {
		return nil, err
	}
	hold := resp.Data
	return &hold, nil
}

func (b *walletsV1) ListHolds(ctx context.Context, walletID string, req ListRequest, opts ...backend.RequestOption) (Cursor[Hold], error) {
	params := cursorListParams(req)
	params.Set("walletID", walletID)
	var resp cursorEnvelope[Hold]
	if err := b.client.Get(ctx, "/api/wallets/holds", params, &resp, opts...); err != nil {
		return Cursor[Hold]{}, err
	}
	return resp.Cursor, nil
}

func (b *walletsV1) GetHold(ctx context.Context, holdID string, opts ...backend.RequestOption) (Hold, error) {
	var resp dataEnvelope[Hold]
	if err := b.client.Get(ctx, "/api/wallets/holds/"+holdID, nil, &resp, opts...); err != nil {
		return Hold{}, err
	}
	return resp.Data, nil
}

func (b *walletsV1) ConfirmHold(ctx context.Context, holdID string, opts ...backend.RequestOption) error {
	return b.client.Post(ctx, "/api/wallets/holds/"+holdID+"/confirm", struct{}{}, nil, opts...)
}

func (b *walletsV1) VoidHold(ctx context.Context, holdID string, opts ...backend.RequestOption) error {
	return b.client.Post(ctx, "/api/wallets/holds/"+holdID+"/void", struct{}{}, nil, opts...)
}
