package sdk

import (
	"context"
	"time"

	"console/api/internal/sdk/backend"
)

// paymentsV1 serves the legacy (v1/v2) payments API: flat list responses
// wrapped via MockCursor, camelCase "Id" field names, JSON-string query
// serialization.
type paymentsV1 struct {
	client *backend.Client
}

type rawPaymentV1 struct {
	PaymentID            string            `json:"paymentId"`
	Reference            string            `json:"reference"`
	Provider             string            `json:"provider"`
	Type                 string            `json:"type"`
	Status               string            `json:"status"`
	Scheme               string            `json:"scheme"`
	Asset                string            `json:"asset"`
	InitialAmount        BigInt            `json:"initialAmount"`
	Amount               BigInt            `json:"amount"`
	SourceAccountID      string            `json:"sourceAccountId"`
	DestinationAccountID string            `json:"destinationAccountId"`
	CreatedAt            time.Time         `json:"createdAt"`
	Metadata             map[string]string `json:"metadata"`
}

func paymentFromV1(raw rawPaymentV1) Payment {
	return Payment{
		ID:                   raw.PaymentID,
		Reference:            raw.Reference,
		ConnectorID:          raw.Provider,
		Type:                 raw.Type,
		Status:               raw.Status,
		Scheme:               raw.Scheme,
		Asset:                raw.Asset,
		InitialAmount:        raw.InitialAmount,
		Amount:               raw.Amount,
		SourceAccountID:      raw.SourceAccountID,
		DestinationAccountID: raw.DestinationAccountID,
		CreatedAt:            raw.CreatedAt,
		Metadata:             raw.Metadata,
	}
}

type rawPaymentAccountV1 struct {
	ID           string            `json:"id"`
	Provider     string            `json:"provider"`
	Reference    string            `json:"reference"`
	AccountName  string            `json:"accountName"`
	Type         string            `json:"type"`
	DefaultAsset string            `json:"defaultCurrency"`
	CreatedAt    time.Time         `json:"createdAt"`
	Metadata     map[string]string `json:"metadata"`
}

func paymentAccountFromV1(raw rawPaymentAccountV1) PaymentAccount {
	return PaymentAccount{
		ID:           raw.ID,
		ConnectorID:  raw.Provider,
		Reference:    raw.Reference,
		AccountName:  raw.AccountName,
		Type:         raw.Type,
		DefaultAsset: raw.DefaultAsset,
		CreatedAt:    raw.CreatedAt,
		Metadata:     raw.Metadata,
	}
}

type rawCashPoolV1 struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Accounts  []string  `json:"accounts"`
	CreatedAt time.Time `json:"createdAt"`
}

func cashPoolFromV1(raw rawCashPoolV1) CashPool {
	return CashPool{
		ID:        raw.ID,
		Name:      raw.Name,
		Accounts:  raw.Accounts,
		CreatedAt: raw.CreatedAt,
	}
}

type rawTransferInitiationV1 struct {
	ID                   string            `json:"id"`
	Reference            string            `json:"reference"`
	Description          string            `json:"description"`
	Type                 string            `json:"type"`
	SourceAccountID      string            `json:"sourceAccountId"`
	DestinationAccountID string            `json:"destinationAccountId"`
	Provider             string            `json:"provider"`
	Asset                string            `json:"asset"`
	Amount               BigInt            `json:"amount"`
	Status               TransferStatus    `json:"status"`
	Error                string            `json:"error"`
	CreatedAt            time.Time         `json:"createdAt"`
	ScheduledAt          time.Time         `json:"scheduledAt"`
	Metadata             map[string]string `json:"metadata"`
}

func transferInitiationFromV1(raw rawTransferInitiationV1) TransferInitiation {
	return TransferInitiation{
		ID:                   raw.ID,
		Reference:            raw.Reference,
		Description:          raw.Description,
		Type:                 raw.Type,
		SourceAccountID:      raw.SourceAccountID,
		DestinationAccountID: raw.DestinationAccountID,
		ConnectorID:          raw.Provider,
		Asset:                raw.Asset,
		Amount:               raw.Amount,
		Status:               raw.Status,
		Error:                raw.Error,
		CreatedAt:            raw.CreatedAt,
		ScheduledAt:          raw.ScheduledAt,
		Metadata:             raw.Metadata,
	}
}

type rawBankAccountV1 struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Country       string            `json:"country"`
	Iban          string            `json:"iban"`
	AccountNumber string            `json:"accountNumber"`
	SwiftBicCode  string            `json:"swiftBicCode"`
	Provider      string            `json:"provider"`
	CreatedAt     time.Time         `json:"createdAt"`
	Metadata      map[string]string `json:"metadata"`
}

func bankAccountFromV1(raw rawBankAccountV1) BankAccount {
	return BankAccount{
		ID:            raw.ID,
		Name:          raw.Name,
		Country:       raw.Country,
		Iban:          raw.Iban,
		AccountNumber: raw.AccountNumber,
		SwiftBicCode:  raw.SwiftBicCode,
		ConnectorID:   raw.Provider,
		CreatedAt:     raw.CreatedAt,
		Metadata:      raw.Metadata,
	}
}

type rawConnectorV1 struct {
	ConnectorID          string    `json:"connectorID"`
	Name                 string    `json:"name"`
	Provider             string    `json:"provider"`
	Enabled              bool      `json:"enabled"`
	ScheduledForDeletion bool      `json:"scheduledForDeletion"`
	CreatedAt            time.Time `json:"createdAt"`
}

func connectorFromV1(raw rawConnectorV1) Connector {
	return Connector{
		ID:                   raw.ConnectorID,
		Name:                 raw.Name,
		Provider:             raw.Provider,
		Enabled:              raw.Enabled,
		ScheduledForDeletion: raw.ScheduledForDeletion,
		CreatedAt:            raw.CreatedAt,
	}
}

// connectorInstallFromV1 re-keys the legacy install response: the backend
// nests {"connectorID": ...} and the normalized shape exposes it as ID.
func connectorInstallFromV1(raw rawConnectorV1) ConnectorInstall {
	return ConnectorInstall{ID: raw.ConnectorID}
}

type rawConnectorTaskV1 struct {
	ID          string    `json:"id"`
	ConnectorID string    `json:"connectorId"`
	Status      string    `json:"status"`
	Error       string    `json:"error"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func connectorTaskFromV1(raw rawConnectorTaskV1) ConnectorTask {
	return ConnectorTask{
		ID:          raw.ID,
		ConnectorID: raw.ConnectorID,
		Status:      raw.Status,
		Error:       raw.Error,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
	}
}

func mapSlice[In, Out any](in []In, fn func(In) Out) []Out {
	out := make([]Out, 0, len(in))
	for _, item := range in {
		out = append(out, fn(item))
	}
	return out
}

func (b *paymentsV1) ListPayments(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Payment], error) {
	var resp dataEnvelope[[]rawPaymentV1]
	if err := b.client.Get(ctx, "/api/payments/payments", legacyListParams(req), &resp, opts...); err != nil {
		return Cursor[Payment]{}, err
	}
	return MockCursor(mapSlice(resp.Data, paymentFromV1)), nil
}

func (b *paymentsV1) GetPayment(ctx context.Context, paymentID string, opts ...backend.RequestOption) (Payment, error) {
	var resp dataEnvelope[rawPaymentV1]
	if err := b.client.Get(ctx, "/api/payments/payments/"+paymentID, nil, &resp, opts...); err != nil {
		return Payment{}, err
	}
	return paymentFromV1(resp.Data), nil
}

func (b *paymentsV1) ListPaymentAccounts(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[PaymentAccount], error) {
	var resp dataEnvelope[[]rawPaymentAccountV1]
	if err := b.client.Get(ctx, "/api/payments/accounts", legacyListParams(req), &resp, opts...); err != nil {
		return Cursor[PaymentAccount]{}, err
	}
	return MockCursor(mapSlice(resp.Data, paymentAccountFromV1)), nil
}

func (b *paymentsV1) GetPaymentAccount(ctx context.Context, accountID string, opts ...backend.RequestOption) (PaymentAccount, error) {
	var resp dataEnvelope[rawPaymentAccountV1]
	if err := b.client.Get(ctx, "/api/payments/accounts/"+accountID, nil, &resp, opts...); err != nil {
		return PaymentAccount{}, err
	}
	return paymentAccountFromV1(resp.Data), nil
}

func (b *paymentsV1) ListCashPools(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[CashPool], error) {
	var resp dataEnvelope[[]rawCashPoolV1]
	if err := b.client.Get(ctx, "/api/payments/pools", legacyListParams(req), &resp, opts...); err != nil {
		return Cursor[CashPool]{}, err
	}
	return MockCursor(mapSlice(resp.Data, cashPoolFromV1)), nil
}

func (b *paymentsV1) GetCashPool(ctx context.Context, poolID string, opts ...backend.RequestOption) (CashPool, error) {
	var resp dataEnvelope[rawCashPoolV1]
	if err := b.client.Get(ctx, "/api/payments/pools/"+poolID, nil, &resp, opts...); err != nil {
		return CashPool{}, err
	}
	return cashPoolFromV1(resp.Data), nil
}

func (b *paymentsV1) GetCashPoolBalances(ctx context.Context, poolID string, opts ...backend.RequestOption) (Cursor[PoolBalance], error) {
	var resp dataEnvelope[[]PoolBalance]
	if err := b.client.Get(ctx, "/api/payments/pools/"+poolID+"/balances/latest", nil, &resp, opts...); err != nil {
		return Cursor[PoolBalance]{}, err
	}
	return MockCursor(resp.Data), nil
}

func (b *paymentsV1) ListTransferInitiations(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[TransferInitiation], error) {
	var resp dataEnvelope[[]rawTransferInitiationV1]
	if err := b.client.Get(ctx, "/api/payments/transfer-initiations", legacyListParams(req), &resp, opts...); err != nil {
		return Cursor[TransferInitiation]{}, err
	}
	return MockCursor(mapSlice(resp.Data, transferInitiationFromV1)), nil
}

func (b *paymentsV1) GetTransferInitiation(ctx context.Context, transferID string, opts ...backend.RequestOption) (TransferInitiation, error) {
	var resp dataEnvelope[rawTransferInitiationV1]
	if err := b.client.Get(ctx, "/api/payments/transfer-initiations/"+transferID, nil, &resp, opts...); err != nil {
		return TransferInitiation{}, err
	}
	return transferInitiationFromV1(resp.Data), nil
}

func (b *paymentsV1) CreateTransferInitiation(ctx context.Context, req CreateTransferInitiationRequest, opts ...backend.RequestOption) (TransferInitiation, error) {
	var resp dataEnvelope[rawTransferInitiationV1]
	if err := b.client.Post(ctx, "/api/payments/transfer-initiations", req, &resp, opts...); err != nil {
		return TransferInitiation{}, err
	}
	return transferInitiationFromV1(resp.Data), nil
}

// UpdateTransferInitiationStatus posts the target status to the single
// legacy status endpoint. Backend validation failures surface to the caller
// like any other error; the old console quietly dropped them on this path,
// which made "succeeded" and "silently failed" indistinguishable.
func (b *paymentsV1) UpdateTransferInitiationStatus(ctx context.Context, transferID string, status TransferStatus, opts ...backend.RequestOption) error {
	body := map[string]TransferStatus{"status": status}
	return b.client.Post(ctx, "/api/payments/transfer-initiations/"+transferID+"/status", body, nil, opts...)
}

func (b *paymentsV1) DeleteTransferInitiation(ctx context.Context, transferID string, opts ...backend.RequestOption) error {
	return b.client.Delete(ctx, "/api/payments/transfer-initiations/"+transferID, opts...)
}

func (b *paymentsV1) ListBankAccounts(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[BankAccount], error) {
	var resp dataEnvelope[[]rawBankAccountV1]
	if err := b.client.Get(ctx, "/api/payments/bank-accounts", legacyListParams(req), &resp, opts...); err != nil {
		return Cursor[BankAccount]{}, err
	}
	return MockCursor(mapSlice(resp.Data, bankAccountFromV1)), nil
}

func (b *paymentsV1) GetBankAccount(ctx context.Context, bankAccountID string, opts ...backend.RequestOption) (BankAccount, error) {
	var resp dataEnvelope[rawBankAccountV1]
	if err := b.client.Get(ctx, "/api/payments/bank-accounts/"+bankAccountID, nil, &resp, opts...); err != nil {
		return BankAccount{}, err
	}
	return bankAccountFromV1(resp.Data), nil
}

func (b *paymentsV1) CreateBankAccount(ctx context.Context, req CreateBankAccountRequest, opts ...backend.RequestOption) (BankAccount, error) {
	var resp dataEnvelope[rawBankAccountV1]
	if err := b.client.Post(ctx, "/api/payments/bank-accounts", req, &resp, opts...); err != nil {
		return BankAccount{}, err
	}
	return bankAccountFromV1(resp.Data), nil
}

func (b *paymentsV1) ListConnectors(ctx context.Context, opts ...backend.RequestOption) (Cursor[Connector], error) {
	var resp dataEnvelope[[]rawConnectorV1]
	if err := b.client.Get(ctx, "/api/payments/connectors", nil, &resp, opts...); err != nil {
		return Cursor[Connector]{}, err
	}
	return MockCursor(mapSlice(resp.Data, connectorFromV1)), nil
}

func (b *paymentsV1) InstallConnector(ctx context.Context, provider string, config map[string]any, opts ...backend.RequestOption) (ConnectorInstall, error) {
	var resp rawConnectorV1
	if err := b.client.Post(ctx, "/api/payments/connectors/"+provider, config, &resp, opts...); err != nil {
		return ConnectorInstall{}, err
	}
	return connectorInstallFromV1(resp), nil
}

func (b *paymentsV1) UninstallConnector(ctx context.Context, connectorID string, opts ...backend.RequestOption) error {
	return b.client.Delete(ctx, "/api/payments/connectors/"+connectorID, opts...)
}

func (b *paymentsV1) ResetConnector(ctx context.Context, connectorID string, opts ...backend.RequestOption) error {
	return b.client.Post(ctx, "/api/payments/connectors/"+connectorID+"/reset", nil, nil, opts...)
}

func (b *paymentsV1) ListConnectorTasks(ctx context.Context, connectorID string, req ListRequest, opts ...backend.RequestOption) (Cursor[ConnectorTask], error) {
	var resp dataEnvelope[[]rawConnectorTaskV1]
	if err := b.client.Get(ctx, "/api/payments/connectors/"+connectorID+"/tasks", legacyListParams(req), &resp, opts...); err != nil {
		return Cursor[ConnectorTask]{}, err
	}
	return MockCursor(mapSlice(resp.Data, connectorTaskFromV1)), nil
}
