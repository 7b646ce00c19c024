package sdk

import (
	"context"
	"strconv"
	"time"

	"console/api/internal/gateway"
	"console/api/internal/sdk/backend"
)

// Ledger is a named ledger. v1 stacks expose only names; bucket and
// metadata arrive on v2 and later.
type Ledger struct {
	Name     string            `json:"name"`
	Bucket   string            `json:"bucket,omitempty"`
	AddedAt  time.Time         `json:"addedAt,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// LedgerAccount is an account within a ledger.
type LedgerAccount struct {
	Address  string            `json:"address"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Posting moves an integer amount of one asset between two accounts.
type Posting struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Amount      BigInt `json:"amount"`
	Asset       string `json:"asset"`
}

// Transaction is a committed ledger transaction.
type Transaction struct {
	ID        int64             `json:"id"`
	Reference string            `json:"reference,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Postings  []Posting         `json:"postings"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Reverted  bool              `json:"reverted"`
}

// LedgerLog is one entry of a ledger's append-only log.
type LedgerLog struct {
	ID   int64          `json:"id"`
	Type string         `json:"type"`
	Date time.Time      `json:"date"`
	Data map[string]any `json:"data,omitempty"`
}

type ledgerBackend interface {
	ListLedgers(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Ledger], error)
	GetLedger(ctx context.Context, name string, opts ...backend.RequestOption) (Ledger, error)
	ListAccounts(ctx context.Context, ledgerName string, req ListRequest, opts ...backend.RequestOption) (Cursor[LedgerAccount], error)
	GetAccount(ctx context.Context, ledgerName, address string, opts ...backend.RequestOption) (LedgerAccount, error)
	ListTransactions(ctx context.Context, ledgerName string, req ListRequest, opts ...backend.RequestOption) (Cursor[Transaction], error)
	GetTransaction(ctx context.Context, ledgerName string, transactionID int64, opts ...backend.RequestOption) (Transaction, error)
	ListLogs(ctx context.Context, ledgerName string, req ListRequest, opts ...backend.RequestOption) (Cursor[LedgerLog], error)
	GetBalancesAggregated(ctx context.Context, ledgerName string, opts ...backend.RequestOption) (map[string]BigInt, error)
}

// LedgerClient is the normalized ledger client.
type LedgerClient struct {
	version gateway.Version
	backend ledgerBackend
}

func NewLedger(client *backend.Client, version gateway.Version) *LedgerClient {
	legacy := &ledgerV1{client: client}
	strategies := map[gateway.Version]ledgerBackend{
		gateway.V1: legacy,
		gateway.V2: &ledgerV2{client: client},
		gateway.V3: &ledgerV2{client: client},
	}
	strategy, ok := strategies[version]
	if !ok {
		strategy = legacy
	}
	return &LedgerClient{version: version, backend: strategy}
}

func (l *LedgerClient) Version() gateway.Version {
	return l.version
}

func (l *LedgerClient) ListLedgers(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Ledger], error) {
	return l.backend.ListLedgers(ctx, req, opts...)
}

func (l *LedgerClient) GetLedger(ctx context.Context, name string, opts ...backend.RequestOption) (Ledger, error) {
	return l.backend.GetLedger(ctx, name, opts...)
}

func (l *LedgerClient) ListAccounts(ctx context.Context, ledgerName string, req ListRequest, opts ...backend.RequestOption) (Cursor[LedgerAccount], error) {
	return l.backend.ListAccounts(ctx, ledgerName, req, opts...)
}

func (l *LedgerClient) GetAccount(ctx context.Context, ledgerName, address string, opts ...backend.RequestOption) (LedgerAccount, error) {
	return l.backend.GetAccount(ctx, ledgerName, address, opts...)
}

func (l *LedgerClient) ListTransactions(ctx context.Context, ledgerName string, req ListRequest, opts ...backend.RequestOption) (Cursor[Transaction], error) {
	return l.backend.ListTransactions(ctx, ledgerName, req, opts...)
}

func (l *LedgerClient) GetTransaction(ctx context.Context, ledgerName string, transactionID int64, opts ...backend.RequestOption) (Transaction, error) {
	return l.backend.GetTransaction(ctx, ledgerName, transactionID, opts...)
}

func (l *LedgerClient) ListLogs(ctx context.Context, ledgerName string, req ListRequest, opts ...backend.RequestOption) (Cursor[LedgerLog], error) {
	return l.backend.ListLogs(ctx, ledgerName, req, opts...)
}

func (l *LedgerClient) GetBalancesAggregated(ctx context.Context, ledgerName string, opts ...backend.RequestOption) (map[string]BigInt, error) {
	return l.backend.GetBalancesAggregated(ctx, ledgerName, opts...)
}

// ledgerV1 serves the original ledger API: one implicit ledger namespace,
// flat list responses, transaction ids under "txid".
type ledgerV1 struct {
	client *backend.Client
}

type rawLedgerInfoV1 struct {
	Data struct {
		Config struct {
			Storage struct {
				Ledgers []string `json:"ledgers"`
			} `json:"storage"`
		} `json:"config"`
	} `json:"data"`
}

type rawTransactionV1 struct {
	TxID      int64             `json:"txid"`
	Reference string            `json:"reference"`
	Timestamp time.Time         `json:"timestamp"`
	Postings  []Posting         `json:"postings"`
	Metadata  map[string]string `json:"metadata"`
	Reverted  bool              `json:"reverted"`
}

func transactionFromV1(raw rawTransactionV1) Transaction {
	return Transaction{
		ID:        raw.TxID,
		Reference: raw.Reference,
		Timestamp: raw.Timestamp,
		Postings:  raw.Postings,
		Metadata:  raw.Metadata,
		Reverted:  raw.Reverted,
	}
}

// ListLedgers reads the storage config from the info endpoint; the
// pre-v2 ledger has no list endpoint, so the names are wrapped via
// MockCursor.
func (b *ledgerV1) ListLedgers(ctx context.Context, _ ListRequest, opts ...backend.RequestOption) (Cursor[Ledger], error) {
	var resp rawLedgerInfoV1
	if err := b.client.Get(ctx, "/api/ledger/_info", nil, &resp, opts...); err != nil {
		return Cursor[Ledger]{}, err
	}
	ledgers := mapSlice(resp.Data.Config.Storage.Ledgers, func(name string) Ledger {
		return Ledger{Name: name}
	})
	return MockCursor(ledgers), nil
}

func (b *ledgerV1) GetLedger(ctx context.Context, name string, opts ...backend.RequestOption) (Ledger, error) {
	listed, err := b.ListLedgers(ctx, ListRequest{}, opts...)
	if err != nil {
		return Ledger{}, err
	}
	for _, ledger := range listed.Data {
		if ledger.Name == name {
			return ledger, nil
		}
	}
	return Ledger{}, &backend.Error{StatusCode: 404, Message: "ledger not found: " + name}
}

func (b *ledgerV1) ListAccounts(ctx context.Context, ledgerName string, req ListRequest, opts ...backend.RequestOption) (Cursor[LedgerAccount], error) {
	var resp dataEnvelope[[]LedgerAccount]
	if err := b.client.Get(ctx, "/api/ledger/"+ledgerName+"/accounts", legacyListParams(req), &resp, opts...); err != nil {
		return Cursor[LedgerAccount]{}, err
	}
	return MockCursor(resp.Data), nil
}

func (b *ledgerV1) GetAccount(ctx context.Context, ledgerName, address string, opts ...backend.RequestOption) (LedgerAccount, error) {
	var resp dataEnvelope[LedgerAccount]
	if err := b.client.Get(ctx, "/api/ledger/"+ledgerName+"/accounts/"+address, nil, &resp, opts...); err != nil {
		return LedgerAccount{}, err
	}
	return resp.Data, nil
}

func (b *ledgerV1) ListTransactions(ctx context.Context, ledgerName string, req ListRequest, opts ...backend.RequestOption) (Cursor[Transaction], error) {
	var resp dataEnvelope[[]rawTransactionV1]
	if err := b.client.Get(ctx, "/api/ledger/"+ledgerName+"/transactions", legacyListParams(req), &resp, opts...); err != nil {
		return Cursor[Transaction]{}, err
	}
	return MockCursor(mapSlice(resp.Data, transactionFromV1)), nil
}

func (b *ledgerV1) GetTransaction(ctx context.Context, ledgerName string, transactionID int64, opts ...backend.RequestOption) (Transaction, error) {
	var resp dataEnvelope[rawTransactionV1]
	path := "/api/ledger/" + ledgerName + "/transactions/" + strconv.FormatInt(transactionID, 10)
	if err := b.client.Get(ctx, path, nil, &resp, opts...); err != nil {
		return Transaction{}, err
	}
	return transactionFromV1(resp.Data), nil
}

func (b *ledgerV1) ListLogs(ctx context.Context, ledgerName string, req ListRequest, opts ...backend.RequestOption) (Cursor[LedgerLog], error) {
	var resp dataEnvelope[[]LedgerLog]
	if err := b.client.Get(ctx, "/api/ledger/"+ledgerName+"/logs", legacyListParams(req), &resp, opts...); err != nil {
		return Cursor[LedgerLog]{}, err
	}
	return MockCursor(resp.Data), nil
}

func (b *ledgerV1) GetBalancesAggregated(ctx context.Context, ledgerName string, opts ...backend.RequestOption) (map[string]BigInt, error) {
	var resp dataEnvelope[map[string]BigInt]
	if err := b.client.Get(ctx, "/api/ledger/"+ledgerName+"/aggregate/balances", nil, &resp, opts...); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ledgerV2 serves the cursor-paginated ledger API.
type ledgerV2 struct {
	client *backend.Client
}

type rawTransactionV2 struct {
	ID        int64             `json:"id"`
	Reference string            `json:"reference"`
	Timestamp time.Time         `json:"timestamp"`
	Postings  []Posting         `json:"postings"`
	Metadata  map[string]string `json:"metadata"`
	Reverted  bool              `json:"reverted"`
}

func transactionFromV2(raw rawTransactionV2) Transaction {
	return Transaction(raw)
}

func (b *ledgerV2) ListLedgers(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Ledger], error) {
	var resp cursorEnvelope[Ledger]
	if err := b.client.Get(ctx, "/api/ledger/v2", cursorListParams(req), &resp, opts...); err != nil {
		return Cursor[Ledger]{}, err
	}
	return resp.Cursor, nil
}

func (b *ledgerV2) GetLedger(ctx context.Context, name string, opts ...backend.RequestOption) (Ledger, error) {
	var resp dataEnvelope[Ledger]
	if err := b.client.Get(ctx, "/api/ledger/v2/"+name, nil, &resp, opts...); err != nil {
		return Ledger{}, err
	}
	return resp.Data, nil
}

func (b *ledgerV2) ListAccounts(ctx context.Context, ledgerName string, req ListRequest, opts ...backend.RequestOption) (Cursor[LedgerAccount], error) {
	var resp cursorEnvelope[LedgerAccount]
	if err := b.client.Post(ctx, "/api/ledger/v2/"+ledgerName+"/accounts/list", v3ListBody(req), &resp, opts...); err != nil {
		return Cursor[LedgerAccount]{}, err
	}
	return resp.Cursor, nil
}

func (b *ledgerV2) GetAccount(ctx context.Context, ledgerName, address string, opts ...backend.RequestOption) (LedgerAccount, error) {
	var resp dataEnvelope[LedgerAccount]
	if err := b.client.Get(ctx, "/api/ledger/v2/"+ledgerName+"/accounts/"+address, nil, &resp, opts...); err != nil {
		return LedgerAccount{}, err
	}
	return resp.Data, nil
}

func (b *ledgerV2) ListTransactions(ctx context.Context, ledgerName string, req ListRequest, opts ...backend.RequestOption) (Cursor[Transaction], error) {
	var resp cursorEnvelope[rawTransactionV2]
	if err := b.client.Post(ctx, "/api/ledger/v2/"+ledgerName+"/transactions/list", v3ListBody(req), &resp, opts...); err != nil {
		return Cursor[Transaction]{}, err
	}
	return MapCursor(resp.Cursor, transactionFromV2), nil
}

func (b *ledgerV2) GetTransaction(ctx context.Context, ledgerName string, transactionID int64, opts ...backend.RequestOption) (Transaction, error) {
	var resp dataEnvelope[rawTransactionV2]
	path := "/api/ledger/v2/" + ledgerName + "/transactions/" + strconv.FormatInt(transactionID, 10)
	if err := b.client.Get(ctx, path, nil, &resp, opts...); err != nil {
		return Transaction{}, err
	}
	return transactionFromV2(resp.Data), nil
}

func (b *ledgerV2) ListLogs(ctx context.Context, ledgerName string, req ListRequest, opts ...backend.RequestOption) (Cursor[LedgerLog], error) {
	var resp cursorEnvelope[LedgerLog]
	if err := b.client.Get(ctx, "/api/ledger/v2/"+ledgerName+"/logs", cursorListParams(req), &resp, opts...); err != nil {
		return Cursor[LedgerLog]{}, err
	}
	return resp.Cursor, nil
}

func (b *ledgerV2) GetBalancesAggregated(ctx context.Context, ledgerName string, opts ...backend.RequestOption) (map[string]BigInt, error) {
	var resp dataEnvelope[map[string]BigInt]
	if err := b.client.Get(ctx, "/api/ledger/v2/"+ledgerName+"/aggregate/balances", nil, &resp, opts...); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
