package sdk

import (
	"context"
	"time"

	"console/api/internal/sdk/backend"
)

// paymentsV3 serves the v3 payments API: cursor pagination passed through,
// structured query objects, approve/reject endpoints for transfer status.
type paymentsV3 struct {
	client *backend.Client
}

type rawPaymentV3 struct {
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
	Metadata             map[string]string `json:"metadata"`
}

func paymentFromV3(raw rawPaymentV3) Payment {
	return Payment{
		ID:                   raw.ID,
		Reference:            raw.Reference,
		ConnectorID:          raw.ConnectorID,
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

type rawPaymentAccountV3 struct {
	ID           string            `json:"id"`
	ConnectorID  string            `json:"connectorID"`
	Reference    string            `json:"reference"`
	AccountName  string            `json:"accountName"`
	Type         string            `json:"type"`
	DefaultAsset string            `json:"defaultAsset"`
	CreatedAt    time.Time         `json:"createdAt"`
	Metadata     map[string]string `json:"metadata"`
}

func paymentAccountFromV3(raw rawPaymentAccountV3) PaymentAccount {
	return PaymentAccount{
		ID:           raw.ID,
		ConnectorID:  raw.ConnectorID,
		Reference:    raw.Reference,
		AccountName:  raw.AccountName,
		Type:         raw.Type,
		DefaultAsset: raw.DefaultAsset,
		CreatedAt:    raw.CreatedAt,
		Metadata:     raw.Metadata,
	}
}

type rawCashPoolV3 struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PoolAccounts []string  `json:"poolAccounts"`
	CreatedAt    time.Time `json:"createdAt"`
}

// cashPoolFromV3 aliases the v3-only poolAccounts field onto the normalized
// Accounts field; the raw name is dropped so consumers never see both.
func cashPoolFromV3(raw rawCashPoolV3) CashPool {
	return CashPool{
		ID:        raw.ID,
		Name:      raw.Name,
		Accounts:  raw.PoolAccounts,
		CreatedAt: raw.CreatedAt,
	}
}

type rawTransferInitiationV3 struct {
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
	Error                string            `json:"error"`
	CreatedAt            time.Time         `json:"createdAt"`
	ScheduledAt          time.Time         `json:"scheduledAt"`
	Metadata             map[string]string `json:"metadata"`
}

func transferInitiationFromV3(raw rawTransferInitiationV3) TransferInitiation {
	return TransferInitiation{
		ID:                   raw.ID,
		Reference:            raw.Reference,
		Description:          raw.Description,
		Type:                 raw.Type,
		SourceAccountID:      raw.SourceAccountID,
		DestinationAccountID: raw.DestinationAccountID,
		ConnectorID:          raw.ConnectorID,
		Asset:                raw.Asset,
		Amount:               raw.Amount,
		Status:               raw.Status,
		Error:                raw.Error,
		CreatedAt:            raw.CreatedAt,
		ScheduledAt:          raw.ScheduledAt,
		Metadata:             raw.Metadata,
	}
}

type rawBankAccountV3 struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Country       string            `json:"country"`
	Iban          string            `json:"iban"`
	AccountNumber string            `json:"accountNumber"`
	SwiftBicCode  string            `json:"swiftBicCode"`
	ConnectorID   string            `json:"connectorID"`
	CreatedAt     time.Time         `json:"createdAt"`
	Metadata      map[string]string `json:"metadata"`
}

func bankAccountFromV3(raw rawBankAccountV3) BankAccount {
	return BankAccount{
		ID:            raw.ID,
		Name:          raw.Name,
		Country:       raw.Country,
		Iban:          raw.Iban,
		AccountNumber: raw.AccountNumber,
		SwiftBicCode:  raw.SwiftBicCode,
		ConnectorID:   raw.ConnectorID,
		CreatedAt:     raw.CreatedAt,
		Metadata:      raw.Metadata,
	}
}

type rawConnectorV3 struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Provider             string    `json:"provider"`
	Enabled              bool      `json:"enabled"`
	ScheduledForDeletion bool      `json:"scheduledForDeletion"`
	CreatedAt            time.Time `json:"createdAt"`
}

func connectorFromV3(raw rawConnectorV3) Connector {
	return Connector(raw)
}

// connectorInstallFromV3 wraps the bare identifier the v3 install endpoint
// returns into the normalized {data: {id}} shape.
func connectorInstallFromV3(id string) ConnectorInstall {
	return ConnectorInstall{ID: id}
}

type rawConnectorTaskV3 struct {
	ID          string    `json:"id"`
	ConnectorID string    `json:"connectorID"`
	Status      string    `json:"status"`
	Error       string    `json:"error"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func connectorTaskFromV3(raw rawConnectorTaskV3) ConnectorTask {
	return ConnectorTask(raw)
}

func (b *paymentsV3) ListPayments(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Payment], error) {
	var resp cursorEnvelope[rawPaymentV3]
	if err := b.client.Post(ctx, "/api/payments/v3/payments/list", v3ListBody(req), &resp, opts...); err != nil {
		return Cursor[Payment]{}, err
	}
	return MapCursor(resp.Cursor, paymentFromV3), nil
}

func (b *paymentsV3) GetPayment(ctx context.Context, paymentID string, opts ...backend.RequestOption) (Payment, error) {
	var resp dataEnvelope[rawPaymentV3]
	if err := b.client.Get(ctx, "/api/payments/v3/payments/"+paymentID, nil, &resp, opts...); err != nil {
		return Payment{}, err
	}
	return paymentFromV3(resp.Data), nil
}

func (b *paymentsV3) ListPaymentAccounts(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[PaymentAccount], error) {
	var resp cursorEnvelope[rawPaymentAccountV3]
	if err := b.client.Post(ctx, "/api/payments/v3/accounts/list", v3ListBody(req), &resp, opts...); err != nil {
		return Cursor[PaymentAccount]{}, err
	}
	return MapCursor(resp.Cursor, paymentAccountFromV3), nil
}

func (b *paymentsV3) GetPaymentAccount(ctx context.Context, accountID string, opts ...backend.RequestOption) (PaymentAccount, error) {
	var resp dataEnvelope[rawPaymentAccountV3]
	if err := b.client.Get(ctx, "/api/payments/v3/accounts/"+accountID, nil, &resp, opts...); err != nil {
		return PaymentAccount{}, err
	}
	return paymentAccountFromV3(resp.Data), nil
}

func (b *paymentsV3) ListCashPools(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[CashPool], error) {
	var resp cursorEnvelope[rawCashPoolV3]
	if err := b.client.Post(ctx, "/api/payments/v3/pools/list", v3ListBody(req), &resp, opts...); err != nil {
		return Cursor[CashPool]{}, err
	}
	return MapCursor(resp.Cursor, cashPoolFromV3), nil
}

func (b *paymentsV3) GetCashPool(ctx context.Context, poolID string, opts ...backend.RequestOption) (CashPool, error) {
	var resp dataEnvelope[rawCashPoolV3]
	if err := b.client.Get(ctx, "/api/payments/v3/pools/"+poolID, nil, &resp, opts...); err != nil {
		return CashPool{}, err
	}
	return cashPoolFromV3(resp.Data), nil
}

func (b *paymentsV3) GetCashPoolBalances(ctx context.Context, poolID string, opts ...backend.RequestOption) (Cursor[PoolBalance], error) {
	var resp dataEnvelope[[]PoolBalance]
	if err := b.client.Get(ctx, "/api/payments/v3/pools/"+poolID+"/balances/latest", nil, &resp, opts...); err != nil {
		return Cursor[PoolBalance]{}, err
	}
	return MockCursor(resp.Data), nil
}

func (b *paymentsV3) ListTransferInitiations(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[TransferInitiation], error) {
	var resp cursorEnvelope[rawTransferInitiationV3]
	if err := b.client.Post(ctx, "/api/payments/v3/transfer-initiations/list", v3ListBody(req), &resp, opts...); err != nil {
		return Cursor[TransferInitiation]{}, err
	}
	return MapCursor(resp.Cursor, transferInitiationFromV3), nil
}

func (b *paymentsV3) GetTransferInitiation(ctx context.Context, transferID string, opts ...backend.RequestOption) (TransferInitiation, error) {
	var resp dataEnvelope[rawTransferInitiationV3]
	if err := b.client.Get(ctx, "/api/payments/v3/transfer-initiations/"+transferID, nil, &resp, opts...); err != nil {
		return TransferInitiation{}, err
	}
	return transferInitiationFromV3(resp.Data), nil
}

func (b *paymentsV3) CreateTransferInitiation(ctx context.Context, req CreateTransferInitiationRequest, opts ...backend.RequestOption) (TransferInitiation, error) {
	var resp dataEnvelope[rawTransferInitiationV3]
	if err := b.client.Post(ctx, "/api/payments/v3/transfer-initiations", req, &resp, opts...); err != nil {
		return TransferInitiation{}, err
	}
	return transferInitiationFromV3(resp.Data), nil
}

// UpdateTransferInitiationStatus fans out to the approve or reject endpoint
// by target status. Any other status is a validation error raised before a
// backend call is attempted.
func (b *paymentsV3) UpdateTransferInitiationStatus(ctx context.Context, transferID string, status TransferStatus, opts ...backend.RequestOption) error {
	switch status {
	case TransferStatusValidated:
		return b.client.Post(ctx, "/api/payments/v3/transfer-initiations/"+transferID+"/approve", nil, nil, opts...)
	case TransferStatusRejected:
		return b.client.Post(ctx, "/api/payments/v3/transfer-initiations/"+transferID+"/reject", nil, nil, opts...)
	default:
		return validationErrorf("status %q cannot be requested: only %q or %q are accepted", status, TransferStatusValidated, TransferStatusRejected)
	}
}

func (b *paymentsV3) DeleteTransferInitiation(ctx context.Context, transferID string, opts ...backend.RequestOption) error {
	return b.client.Delete(ctx, "/api/payments/v3/transfer-initiations/"+transferID, opts...)
}

func (b *paymentsV3) ListBankAccounts(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[BankAccount], error) {
	var resp cursorEnvelope[rawBankAccountV3]
	if err := b.client.Post(ctx, "/api/payments/v3/bank-accounts/list", v3ListBody(req), &resp, opts...); err != nil {
		return Cursor[BankAccount]{}, err
	}
	return MapCursor(resp.Cursor, bankAccountFromV3), nil
}

func (b *paymentsV3) GetBankAccount(ctx context.Context, bankAccountID string, opts ...backend.RequestOption) (BankAccount, error) {
	var resp dataEnvelope[rawBankAccountV3]
	if err := b.client.Get(ctx, "/api/payments/v3/bank-accounts/"+bankAccountID, nil, &resp, opts...); err != nil {
		return BankAccount{}, err
	}
	return bankAccountFromV3(resp.Data), nil
}

func (b *paymentsV3) CreateBankAccount(ctx context.Context, req CreateBankAccountRequest, opts ...backend.RequestOption) (BankAccount, error) {
	var resp dataEnvelope[rawBankAccountV3]
	if err := b.client.Post(ctx, "/api/payments/v3/bank-accounts", req, &resp, opts...); err != nil {
		return BankAccount{}, err
	}
	return bankAccountFromV3(resp.Data), nil
}

func (b *paymentsV3) ListConnectors(ctx context.Context, opts ...backend.RequestOption) (Cursor[Connector], error) {
	var resp cursorEnvelope[rawConnectorV3]
	if err := b.client.Post(ctx, "/api/payments/v3/connectors/list", v3ListBody(ListRequest{}), &resp, opts...); err != nil {
		return Cursor[Connector]{}, err
	}
	return MapCursor(resp.Cursor, connectorFromV3), nil
}

func (b *paymentsV3) InstallConnector(ctx context.Context, provider string, config map[string]any, opts ...backend.RequestOption) (ConnectorInstall, error) {
	var resp dataEnvelope[string]
	if err := b.client.Post(ctx, "/api/payments/v3/connectors/install/"+provider, config, &resp, opts...); err != nil {
		return ConnectorInstall{}, err
	}
	return connectorInstallFromV3(resp.Data), nil
}

func (b *paymentsV3) UninstallConnector(ctx context.Context, connectorID string, opts ...backend.RequestOption) error {
	return b.client.Delete(ctx, "/api/payments/v3/connectors/"+connectorID, opts...)
}

func (b *paymentsV3) ResetConnector(ctx context.Context, connectorID string, opts ...backend.RequestOption) error {
	return b.client.Post(ctx, "/api/payments/v3/connectors/"+connectorID+"/reset", nil, nil, opts...)
}

func (b *paymentsV3) ListConnectorTasks(ctx context.Context, connectorID string, req ListRequest, opts ...backend.RequestOption) (Cursor[ConnectorTask], error) {
	var resp cursorEnvelope[rawConnectorTaskV3]
	if err := b.client.Post(ctx, "/api/payments/v3/connectors/"+connectorID+"/tasks/list", v3ListBody(req), &resp, opts...); err != nil {
		return Cursor[ConnectorTask]{}, err
	}
	return MapCursor(resp.Cursor, connectorTaskFromV3), nil
}
