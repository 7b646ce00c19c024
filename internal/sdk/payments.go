package sdk

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"console/api/internal/gateway"
	"console/api/internal/sdk/backend"
)

// Payment is the version-agnostic projection of a payment.
type Payment struct {
	ID                   string            `json:"id"`
	Reference            string            `json:"reference"`
	ConnectorID          string            `json:"connectorID"`
	Type                 string            `json:"type"`
	Status               string            `json:"status"`
	Scheme               string            `json:"scheme"`
	Asset                string            `json:"asset"`
	InitialAmount        BigInt            `json:"initialAmount"`
	Amount               BigInt            `json:"amount"`
	SourceAccountID      string            `json:"sourceAccountID"`
	DestinationAccountID string            `json:"destinationAccountID"`
	CreatedAt            time.Time         `json:"createdAt"`
	Metadata             map[string]string `json:"metadata,omitempty"`
}

// PaymentAccount is an account known to the payments service.
type PaymentAccount struct {
	ID           string            `json:"id"`
	ConnectorID  string            `json:"connectorID"`
	Reference    string            `json:"reference"`
	AccountName  string            `json:"accountName"`
	Type         string            `json:"type"`
	DefaultAsset string            `json:"defaultAsset,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// CashPool groups payment accounts whose balances are aggregated together.
// Accounts is the one normalized member-account field: v1 reports it as
// "accounts" and v3 as "poolAccounts", and the mapping functions fold both
// into Accounts so consumers never see the version-specific variant.
type CashPool struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Accounts  []string  `json:"accounts"`
	CreatedAt time.Time `json:"createdAt"`
}

// PoolBalance is one asset's aggregated balance within a cash pool.
type PoolBalance struct {
	Asset  string `json:"asset"`
	Amount BigInt `json:"amount"`
}

// CashPoolComposite is the pool-with-accounts-and-balances view used by the
// pool detail screen.
type CashPoolComposite struct {
	CashPool         *CashPool              `json:"cashPool"`
	CashPoolAccounts Cursor[PaymentAccount] `json:"cashPoolAccounts"`
	CashPoolBalances Cursor[PoolBalance]    `json:"cashPoolBalances"`
}

// TransferStatus is the lifecycle state of a transfer initiation.
type TransferStatus string

const (
	TransferStatusWaitingForValidation TransferStatus = "WAITING_FOR_VALIDATION"
	TransferStatusValidated            TransferStatus = "VALIDATED"
	TransferStatusRejected             TransferStatus = "REJECTED"
	TransferStatusProcessing           TransferStatus = "PROCESSING"
	TransferStatusProcessed            TransferStatus = "PROCESSED"
	TransferStatusFailed               TransferStatus = "FAILED"
)

// TransferInitiation is a requested outbound transfer or payout.
type TransferInitiation struct {
	ID                   string            `json:"id"`
	Reference            string            `json:"reference"`
	Description          string            `json:"description"`
	Type                 string            `json:"type"`
	SourceAccountID      string            `json:"sourceAccountID"`
	DestinationAccountID string            `json:"destinationAccountID"`
	ConnectorID          string            `json:"connectorID"`
	Asset                string            `json:"asset"`
	Amount               BigInt            `json:"amount"`
	Status               TransferStatus    `json:"status"`
	Error                string            `json:"error,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
	ScheduledAt          time.Time         `json:"scheduledAt"`
	Metadata             map[string]string `json:"metadata,omitempty"`
}

// CreateTransferInitiationRequest carries the fields any backend version
// needs to create a transfer initiation.
type CreateTransferInitiationRequest struct {
	Reference            string            `json:"reference"`
	Description          string            `json:"description,omitempty"`
	Type                 string            `json:"type"`
	SourceAccountID      string            `json:"sourceAccountID"`
	DestinationAccountID string            `json:"destinationAccountID"`
	ConnectorID          string            `json:"connectorID,omitempty"`
	Asset                string            `json:"asset"`
	Amount               BigInt            `json:"amount"`
	ScheduledAt          *time.Time        `json:"scheduledAt,omitempty"`
	Validated            bool              `json:"validated"`
	Metadata             map[string]string `json:"metadata,omitempty"`
}

// BankAccount is an external bank account registered with the payments
// service. Number fields arrive masked from the backend.
type BankAccount struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Country       string            `json:"country"`
	Iban          string            `json:"iban,omitempty"`
	AccountNumber string            `json:"accountNumber,omitempty"`
	SwiftBicCode  string            `json:"swiftBicCode,omitempty"`
	ConnectorID   string            `json:"connectorID,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// CreateBankAccountRequest creates a bank account record.
type CreateBankAccountRequest struct {
	Name          string            `json:"name"`
	Country       string            `json:"country"`
	Iban          string            `json:"iban,omitempty"`
	AccountNumber string            `json:"accountNumber,omitempty"`
	SwiftBicCode  string            `json:"swiftBicCode,omitempty"`
	ConnectorID   string            `json:"connectorID,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Connector is an installed payment service provider connector.
type Connector struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Provider             string    `json:"provider"`
	Enabled              bool      `json:"enabled"`
	ScheduledForDeletion bool      `json:"scheduledForDeletion"`
	CreatedAt            time.Time `json:"createdAt"`
}

// ConnectorInstall is the normalized result of installing a connector.
type ConnectorInstall struct {
	ID string `json:"id"`
}

// ConnectorTask is one unit of connector background work.
type ConnectorTask struct {
	ID          string    `json:"id"`
	ConnectorID string    `json:"connectorID"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListRequest is the version-union list request: PageSize/Cursor/Sort drive
// pagination where the backend supports it, and Query is the free-form
// filter. How Query travels is a per-version concern: legacy versions
// serialize it to a JSON string parameter, v3 sends the object as-is.
type ListRequest struct {
	PageSize int64
	Cursor   string
	Sort     string
	Query    map[string]any
}

// paymentsBackend is the per-version strategy surface for the payments
// domain. Every implementation returns normalized models and the uniform
// cursor envelope.
type paymentsBackend interface {
	ListPayments(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Payment], error)
	GetPayment(ctx context.Context, paymentID string, opts ...backend.RequestOption) (Payment, error)
	ListPaymentAccounts(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[PaymentAccount], error)
	GetPaymentAccount(ctx context.Context, accountID string, opts ...backend.RequestOption) (PaymentAccount, error)
	ListCashPools(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[CashPool], error)
	GetCashPool(ctx context.Context, poolID string, opts ...backend.RequestOption) (CashPool, error)
	GetCashPoolBalances(ctx context.Context, poolID string, opts ...backend.RequestOption) (Cursor[PoolBalance], error)
	ListTransferInitiations(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[TransferInitiation], error)
	GetTransferInitiation(ctx context.Context, transferID string, opts ...backend.RequestOption) (TransferInitiation, error)
	CreateTransferInitiation(ctx context.Context, req CreateTransferInitiationRequest, opts ...backend.RequestOption) (TransferInitiation, error)
	UpdateTransferInitiationStatus(ctx context.Context, transferID string, status TransferStatus, opts ...backend.RequestOption) error
	DeleteTransferInitiation(ctx context.Context, transferID string, opts ...backend.RequestOption) error
	ListBankAccounts(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[BankAccount], error)
	GetBankAccount(ctx context.Context, bankAccountID string, opts ...backend.RequestOption) (BankAccount, error)
	CreateBankAccount(ctx context.Context, req CreateBankAccountRequest, opts ...backend.RequestOption) (BankAccount, error)
	ListConnectors(ctx context.Context, opts ...backend.RequestOption) (Cursor[Connector], error)
	InstallConnector(ctx context.Context, provider string, config map[string]any, opts ...backend.RequestOption) (ConnectorInstall, error)
	UninstallConnector(ctx context.Context, connectorID string, opts ...backend.RequestOption) error
	ResetConnector(ctx context.Context, connectorID string, opts ...backend.RequestOption) error
	ListConnectorTasks(ctx context.Context, connectorID string, req ListRequest, opts ...backend.RequestOption) (Cursor[ConnectorTask], error)
}

// poolAccountFanOutLimit bounds the concurrent per-account lookups of the
// composite cash-pool fetch.
const poolAccountFanOutLimit = 8

// Payments is the normalized payments client. The version strategy is
// selected once at construction; methods never re-branch on version.
type Payments struct {
	version gateway.Version
	backend paymentsBackend
}

// NewPayments builds the payments client for the resolved version. Versions
// without a dedicated strategy fall back to the legacy one, matching the
// resolver's default bucketing.
func NewPayments(client *backend.Client, version gateway.Version) *Payments {
	legacy := &paymentsV1{client: client}
	strategies := map[gateway.Version]paymentsBackend{
		gateway.V1: legacy,
		gateway.V2: legacy,
		gateway.V3: &paymentsV3{client: client},
	}
	strategy, ok := strategies[version]
	if !ok {
		strategy = legacy
	}
	return &Payments{version: version, backend: strategy}
}

func newPaymentsWithBackend(version gateway.Version, b paymentsBackend) *Payments {
	return &Payments{version: version, backend: b}
}

// Version returns the tag this client dispatches to.
func (p *Payments) Version() gateway.Version {
	return p.version
}

func (p *Payments) ListPayments(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Payment], error) {
	return p.backend.ListPayments(ctx, req, opts...)
}

func (p *Payments) GetPayment(ctx context.Context, paymentID string, opts ...backend.RequestOption) (Payment, error) {
	return p.backend.GetPayment(ctx, paymentID, opts...)
}

func (p *Payments) ListPaymentAccounts(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[PaymentAccount], error) {
	return p.backend.ListPaymentAccounts(ctx, req, opts...)
}

func (p *Payments) GetPaymentAccount(ctx context.Context, accountID string, opts ...backend.RequestOption) (PaymentAccount, error) {
	return p.backend.GetPaymentAccount(ctx, accountID, opts...)
}

func (p *Payments) ListCashPools(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[CashPool], error) {
	return p.backend.ListCashPools(ctx, req, opts...)
}

func (p *Payments) GetCashPool(ctx context.Context, poolID string, opts ...backend.RequestOption) (CashPool, error) {
	return p.backend.GetCashPool(ctx, poolID, opts...)
}

func (p *Payments) GetCashPoolBalances(ctx context.Context, poolID string, opts ...backend.RequestOption) (Cursor[PoolBalance], error) {
	return p.backend.GetCashPoolBalances(ctx, poolID, opts...)
}

// GetCashPoolWithAccountsAndBalances assembles the pool detail view: the
// pool itself, its member accounts resolved to full account objects, and its
// balances. A missing pool yields the explicit empty composite, not an
// error. A failed member-account lookup is logged and omitted; the rest of
// the pool still renders.
func (p *Payments) GetCashPoolWithAccountsAndBalances(ctx context.Context, poolID string, opts ...backend.RequestOption) (CashPoolComposite, error) {
	pool, err := p.backend.GetCashPool(ctx, poolID, opts...)
	if err != nil {
		var be *backend.Error
		if errors.As(err, &be) && be.StatusCode == http.StatusNotFound {
			return CashPoolComposite{
				CashPoolAccounts: MockCursor([]PaymentAccount{}),
				CashPoolBalances: MockCursor([]PoolBalance{}),
			}, nil
		}
		return CashPoolComposite{}, err
	}

	var (
		mu       sync.Mutex
		accounts = make([]PaymentAccount, 0, len(pool.Accounts))
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(poolAccountFanOutLimit)
	for _, accountID := range pool.Accounts {
		accountID := accountID
		group.Go(func() error {
			account, err := p.backend.GetPaymentAccount(groupCtx, accountID, opts...)
			if err != nil {
				log.Printf("payments: pool %s: account %s lookup failed, omitting: %v", pool.ID, accountID, err)
				return nil
			}
			mu.Lock()
			accounts = append(accounts, account)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	balances, err := p.backend.GetCashPoolBalances(ctx, poolID, opts...)
	if err != nil {
		return CashPoolComposite{}, err
	}

	return CashPoolComposite{
		CashPool:         &pool,
		CashPoolAccounts: MockCursor(accounts),
		CashPoolBalances: balances,
	}, nil
}

func (p *Payments) ListTransferInitiations(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[TransferInitiation], error) {
	return p.backend.ListTransferInitiations(ctx, req, opts...)
}

func (p *Payments) GetTransferInitiation(ctx context.Context, transferID string, opts ...backend.RequestOption) (TransferInitiation, error) {
	return p.backend.GetTransferInitiation(ctx, transferID, opts...)
}

func (p *Payments) CreateTransferInitiation(ctx context.Context, req CreateTransferInitiationRequest, opts ...backend.RequestOption) (TransferInitiation, error) {
	return p.backend.CreateTransferInitiation(ctx, req, opts...)
}

// UpdateTransferInitiationStatus requests a status transition. Both version
// branches surface backend validation failures to the caller.
func (p *Payments) UpdateTransferInitiationStatus(ctx context.Context, transferID string, status TransferStatus, opts ...backend.RequestOption) error {
	return p.backend.UpdateTransferInitiationStatus(ctx, transferID, status, opts...)
}

func (p *Payments) DeleteTransferInitiation(ctx context.Context, transferID string, opts ...backend.RequestOption) error {
	return p.backend.DeleteTransferInitiation(ctx, transferID, opts...)
}

func (p *Payments) ListBankAccounts(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[BankAccount], error) {
	return p.backend.ListBankAccounts(ctx, req, opts...)
}

func (p *Payments) GetBankAccount(ctx context.Context, bankAccountID string, opts ...backend.RequestOption) (BankAccount, error) {
	return p.backend.GetBankAccount(ctx, bankAccountID, opts...)
}

func (p *Payments) CreateBankAccount(ctx context.Context, req CreateBankAccountRequest, opts ...backend.RequestOption) (BankAccount, error) {
	return p.backend.CreateBankAccount(ctx, req, opts...)
}

func (p *Payments) ListConnectors(ctx context.Context, opts ...backend.RequestOption) (Cursor[Connector], error) {
	return p.backend.ListConnectors(ctx, opts...)
}

func (p *Payments) InstallConnector(ctx context.Context, provider string, config map[string]any, opts ...backend.RequestOption) (ConnectorInstall, error) {
	return p.backend.InstallConnector(ctx, provider, config, opts...)
}

func (p *Payments) UninstallConnector(ctx context.Context, connectorID string, opts ...backend.RequestOption) error {
	return p.backend.UninstallConnector(ctx, connectorID, opts...)
}

func (p *Payments) ResetConnector(ctx context.Context, connectorID string, opts ...backend.RequestOption) error {
	return p.backend.ResetConnector(ctx, connectorID, opts...)
}

func (p *Payments) ListConnectorTasks(ctx context.Context, connectorID string, req ListRequest, opts ...backend.RequestOption) (Cursor[ConnectorTask], error) {
	return p.backend.ListConnectorTasks(ctx, connectorID, req, opts...)
}
