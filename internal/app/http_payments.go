package app

import (
	"net/http"

	"console/api/internal/rbac"
	"console/api/internal/sdk"
)

// handlePayments serves the payments console routes: payments,
// payment-accounts, pools, transfer-initiations, bank-accounts, connectors.
// parts starts at the route group name.
func (s *HTTPServer) handlePayments(w http.ResponseWriter, r *http.Request, sess Session, console *Console, parts []string) {
	if !s.service.Can(sess.Role, rbac.ActionRead) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
		return
	}
	version := console.Payments.Version()

	switch parts[0] {
	case "payments":
		if r.Method == http.MethodGet && len(parts) == 1 {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Payments.ListPayments(r.Context(), req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"payments": cursor})
			return
		}
		if r.Method == http.MethodGet && len(parts) == 2 {
			payment, err := console.Payments.GetPayment(r.Context(), parts[1])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"payment": payment})
			return
		}

	case "payment-accounts":
		if r.Method == http.MethodGet && len(parts) == 1 {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Payments.ListPaymentAccounts(r.Context(), req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"accounts": cursor})
			return
		}
		if r.Method == http.MethodGet && len(parts) == 2 {
			account, err := console.Payments.GetPaymentAccount(r.Context(), parts[1])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"account": account})
			return
		}

	case "pools":
		if r.Method == http.MethodGet && len(parts) == 1 {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Payments.ListCashPools(r.Context(), req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"pools": cursor})
			return
		}
		if r.Method == http.MethodGet && len(parts) == 2 {
			pool, err := console.Payments.GetCashPool(r.Context(), parts[1])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"pool": pool})
			return
		}
		if r.Method == http.MethodGet && len(parts) == 3 && parts[2] == "balances" {
			balances, err := console.Payments.GetCashPoolBalances(r.Context(), parts[1])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"balances": balances})
			return
		}
		if r.Method == http.MethodGet && len(parts) == 3 && parts[2] == "composite" {
			composite, err := console.Payments.GetCashPoolWithAccountsAndBalances(r.Context(), parts[1])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{
				"cashPool":         composite.CashPool,
				"cashPoolAccounts": composite.CashPoolAccounts,
				"cashPoolBalances": composite.CashPoolBalances,
			})
			return
		}

	case "transfer-initiations":
		if r.Method == http.MethodGet && len(parts) == 1 {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Payments.ListTransferInitiations(r.Context(), req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"transferInitiations": cursor})
			return
		}
		if r.Method == http.MethodPost && len(parts) == 1 {
			if !s.service.Can(sess.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body sdk.CreateTransferInitiationRequest
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			transfer, err := console.Payments.CreateTransferInitiation(r.Context(), body)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"transferInitiation": transfer})
			return
		}
		if r.Method == http.MethodGet && len(parts) == 2 {
			transfer, err := console.Payments.GetTransferInitiation(r.Context(), parts[1])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"transferInitiation": transfer})
			return
		}
		if r.Method == http.MethodDelete && len(parts) == 2 {
			if !s.service.Can(sess.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			if err := console.Payments.DeleteTransferInitiation(r.Context(), parts[1]); err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"ok": true})
			return
		}
		if r.Method == http.MethodPost && len(parts) == 3 && parts[2] == "status" {
			if !s.service.Can(sess.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body struct {
				Status sdk.TransferStatus `json:"status"`
			}
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			if err := console.Payments.UpdateTransferInitiationStatus(r.Context(), parts[1], body.Status); err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"ok": true})
			return
		}

	case "bank-accounts":
		if r.Method == http.MethodGet && len(parts) == 1 {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Payments.ListBankAccounts(r.Context(), req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"bankAccounts": cursor})
			return
		}
		if r.Method == http.MethodPost && len(parts) == 1 {
			if !s.service.Can(sess.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body sdk.CreateBankAccountRequest
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			account, err := console.Payments.CreateBankAccount(r.Context(), body)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"bankAccount": account})
			return
		}
		if r.Method == http.MethodGet && len(parts) == 2 {
			account, err := console.Payments.GetBankAccount(r.Context(), parts[1])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"bankAccount": account})
			return
		}

	case "connectors":
		if r.Method == http.MethodGet && len(parts) == 1 {
			cursor, err := console.Payments.ListConnectors(r.Context())
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"connectors": cursor})
			return
		}
		if r.Method == http.MethodPost && len(parts) == 2 {
			if !s.service.Can(sess.Role, rbac.ActionAdmin) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body map[string]any
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			install, err := console.Payments.InstallConnector(r.Context(), parts[1], body)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"connector": install})
			return
		}
		if r.Method == http.MethodDelete && len(parts) == 2 {
			if !s.service.Can(sess.Role, rbac.ActionAdmin) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			if err := console.Payments.UninstallConnector(r.Context(), parts[1]); err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"ok": true})
			return
		}
		if r.Method == http.MethodPost && len(parts) == 3 && parts[2] == "reset" {
			if !s.service.Can(sess.Role, rbac.ActionAdmin) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			if err := console.Payments.ResetConnector(r.Context(), parts[1]); err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"ok": true})
			return
		}
		if r.Method == http.MethodGet && len(parts) == 3 && parts[2] == "tasks" {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Payments.ListConnectorTasks(r.Context(), parts[1], req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"tasks": cursor})
			return
		}
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

// fail maps an error onto the wire taxonomy and writes it.
func (s *HTTPServer) fail(w http.ResponseWriter, err error) {
	status, code, message, details := mapError(err)
	writeError(w, status, code, message, details)
}
