package app

import (
	"net/http"
	"strconv"

	"console/api/internal/rbac"
	"console/api/internal/sdk"
)

// parts arriving at these handlers are relative to the route group, e.g.
// /api/reconciliation/policies/p1 dispatches with ["policies", "p1"].

func (s *HTTPServer) handleReconciliation(w http.ResponseWriter, r *http.Request, sess Session, console *Console, parts []string) {
	if !s.service.Can(sess.Role, rbac.ActionRead) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
		return
	}
	version := console.Reconciliation.Version()

	if len(parts) >= 1 && parts[0] == "policies" {
		if r.Method == http.MethodGet && len(parts) == 1 {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Reconciliation.ListPolicies(r.Context(), req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"policies": cursor})
			return
		}
		if r.Method == http.MethodPost && len(parts) == 1 {
			if !s.service.Can(sess.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body sdk.CreatePolicyRequest
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			policy, err := console.Reconciliation.CreatePolicy(r.Context(), body)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"policy": policy})
			return
		}
		if r.Method == http.MethodGet && len(parts) == 2 {
			policy, err := console.Reconciliation.GetPolicy(r.Context(), parts[1])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"policy": policy})
			return
		}
		if r.Method == http.MethodDelete && len(parts) == 2 {
			if !s.service.Can(sess.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			if err := console.Reconciliation.DeletePolicy(r.Context(), parts[1]); err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"ok": true})
			return
		}
		if r.Method == http.MethodPost && len(parts) == 3 && parts[2] == "run" {
			if !s.service.Can(sess.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body sdk.ReconcileRequest
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			rec, err := console.Reconciliation.Reconcile(r.Context(), parts[1], body)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"reconciliation": rec})
			return
		}
	}

	if len(parts) >= 1 && parts[0] == "reconciliations" {
		if r.Method == http.MethodGet && len(parts) == 1 {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Reconciliation.ListReconciliations(r.Context(), req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"reconciliations": cursor})
			return
		}
		if r.Method == http.MethodGet && len(parts) == 2 {
			rec, err := console.Reconciliation.GetReconciliation(r.Context(), parts[1])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"reconciliation": rec})
			return
		}
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleLedgers(w http.ResponseWriter, r *http.Request, sess Session, console *Console, parts []string) {
	if !s.service.Can(sess.Role, rbac.ActionRead) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}
	version := console.Ledger.Version()

	if len(parts) == 0 {
		req, err := listRequestFromQuery(r)
		if err != nil {
			s.fail(w, err)
			return
		}
		cursor, err := console.Ledger.ListLedgers(r.Context(), req)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeVersioned(w, version, map[string]any{"ledgers": cursor})
		return
	}

	name := parts[0]
	if len(parts) == 1 {
		ledger, err := console.Ledger.GetLedger(r.Context(), name)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeVersioned(w, version, map[string]any{"ledger": ledger})
		return
	}

	switch parts[1] {
	case "accounts":
		if len(parts) == 2 {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Ledger.ListAccounts(r.Context(), name, req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"accounts": cursor})
			return
		}
		if len(parts) == 3 {
			account, err := console.Ledger.GetAccount(r.Context(), name, parts[2])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"account": account})
			return
		}
	case "transactions":
		if len(parts) == 2 {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Ledger.ListTransactions(r.Context(), name, req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"transactions": cursor})
			return
		}
		if len(parts) == 3 {
			id, err := strconv.ParseInt(parts[2], 10, 64)
			if err != nil {
				writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "transaction id must be an integer", nil)
				return
			}
			tx, err := console.Ledger.GetTransaction(r.Context(), name, id)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"transaction": tx})
			return
		}
	case "logs":
		if len(parts) == 2 {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Ledger.ListLogs(r.Context(), name, req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"logs": cursor})
			return
		}
	case "balances":
		if len(parts) == 2 {
			balances, err := console.Ledger.GetBalancesAggregated(r.Context(), name)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"balances": balances})
			return
		}
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleFlows(w http.ResponseWriter, r *http.Request, sess Session, console *Console, parts []string) {
	if !s.service.Can(sess.Role, rbac.ActionRead) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
		return
	}
	version := console.Flows.Version()

	if len(parts) >= 1 && parts[0] == "workflows" {
		if r.Method == http.MethodGet && len(parts) == 1 {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Flows.ListWorkflows(r.Context(), req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"workflows": cursor})
			return
		}
		if r.Method == http.MethodGet && len(parts) == 2 {
			workflow, err := console.Flows.GetWorkflow(r.Context(), parts[1])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"workflow": workflow})
			return
		}
		if r.Method == http.MethodPost && len(parts) == 3 && parts[2] == "run" {
			if !s.service.Can(sess.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var vars map[string]string
			if err := decodeBody(r, &vars); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			instance, err := console.Flows.RunWorkflow(r.Context(), parts[1], vars)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"instance": instance})
			return
		}
	}

	if len(parts) >= 1 && parts[0] == "instances" && r.Method == http.MethodGet {
		if len(parts) == 1 {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Flows.ListInstances(r.Context(), req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"instances": cursor})
			return
		}
		if len(parts) == 2 {
			instance, err := console.Flows.GetInstance(r.Context(), parts[1])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"instance": instance})
			return
		}
	}

	if len(parts) >= 1 && parts[0] == "triggers" {
		if r.Method == http.MethodGet && len(parts) == 1 {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Flows.ListTriggers(r.Context(), req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"triggers": cursor})
			return
		}
		if r.Method == http.MethodPost && len(parts) == 1 {
			if !s.service.Can(sess.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body sdk.CreateTriggerRequest
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			trigger, err := console.Flows.CreateTrigger(r.Context(), body)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"trigger": trigger})
			return
		}
		if r.Method == http.MethodDelete && len(parts) == 2 {
			if !s.service.Can(sess.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			if err := console.Flows.DeleteTrigger(r.Context(), parts[1]); err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"ok": true})
			return
		}
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

// handleWallets serves /api/wallets/... and /api/holds/...; parts starts at
// the group name.
func (s *HTTPServer) handleWallets(w http.ResponseWriter, r *http.Request, sess Session, console *Console, parts []string) {
	if !s.service.Can(sess.Role, rbac.ActionRead) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
		return
	}
	version := console.Wallets.Version()

	if parts[0] == "wallets" {
		if r.Method == http.MethodGet && len(parts) == 1 {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Wallets.ListWallets(r.Context(), req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"wallets": cursor})
			return
		}
		if r.Method == http.MethodGet && len(parts) == 2 {
			wallet, err := console.Wallets.GetWallet(r.Context(), parts[1])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"wallet": wallet})
			return
		}
		if r.Method == http.MethodGet && len(parts) == 3 && parts[2] == "balances" {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Wallets.ListBalances(r.Context(), parts[1], req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"balances": cursor})
			return
		}
		if r.Method == http.MethodGet && len(parts) == 3 && parts[2] == "holds" {
			req, err := listRequestFromQuery(r)
			if err != nil {
				s.fail(w, err)
				return
			}
			cursor, err := console.Wallets.ListHolds(r.Context(), parts[1], req)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"holds": cursor})
			return
		}
		if r.Method == http.MethodPost && len(parts) == 3 && parts[2] == "credit" {
			if !s.service.Can(sess.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body sdk.CreditWalletRequest
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			if err := console.Wallets.CreditWallet(r.Context(), parts[1], body); err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"ok": true})
			return
		}
		if r.Method == http.MethodPost && len(parts) == 3 && parts[2] == "debit" {
			if !s.service.Can(sess.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body sdk.DebitWalletRequest
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			hold, err := console.Wallets.DebitWallet(r.Context(), parts[1], body)
			if err != nil {
				s.fail(w, err)
				return
			}
			payload := map[string]any{"ok": true}
			if hold != nil {
				payload["hold"] = hold
			}
			writeVersioned(w, version, payload)
			return
		}
	}

	if parts[0] == "holds" {
		if r.Method == http.MethodGet && len(parts) == 2 {
			hold, err := console.Wallets.GetHold(r.Context(), parts[1])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"hold": hold})
			return
		}
		if r.Method == http.MethodPost && len(parts) == 3 && (parts[2] == "confirm" || parts[2] == "void") {
			if !s.service.Can(sess.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var err error
			if parts[2] == "confirm" {
				err = console.Wallets.ConfirmHold(r.Context(), parts[1])
			} else {
				err = console.Wallets.VoidHold(r.Context(), parts[1])
			}
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"ok": true})
			return
		}
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleWebhooks(w http.ResponseWriter, r *http.Request, sess Session, console *Console, parts []string) {
	if !s.service.Can(sess.Role, rbac.ActionRead) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
		return
	}
	version := console.Webhooks.Version()

	if r.Method == http.MethodGet && len(parts) == 0 {
		req, err := listRequestFromQuery(r)
		if err != nil {
			s.fail(w, err)
			return
		}
		cursor, err := console.Webhooks.ListConfigs(r.Context(), req)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeVersioned(w, version, map[string]any{"configs": cursor})
		return
	}
	if r.Method == http.MethodPost && len(parts) == 0 {
		if !s.service.Can(sess.Role, rbac.ActionWrite) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		var body sdk.CreateWebhookConfigRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		cfg, err := console.Webhooks.CreateConfig(r.Context(), body)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeVersioned(w, version, map[string]any{"config": cfg})
		return
	}
	if r.Method == http.MethodDelete && len(parts) == 1 {
		if !s.service.Can(sess.Role, rbac.ActionWrite) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		if err := console.Webhooks.DeleteConfig(r.Context(), parts[0]); err != nil {
			s.fail(w, err)
			return
		}
		writeVersioned(w, version, map[string]any{"ok": true})
		return
	}
	if r.Method == http.MethodPost && len(parts) == 2 {
		if !s.service.Can(sess.Role, rbac.ActionWrite) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		switch parts[1] {
		case "activate":
			cfg, err := console.Webhooks.ActivateConfig(r.Context(), parts[0])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"config": cfg})
			return
		case "deactivate":
			cfg, err := console.Webhooks.DeactivateConfig(r.Context(), parts[0])
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"config": cfg})
			return
		case "secret":
			var body struct {
				Secret string `json:"secret"`
			}
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			cfg, err := console.Webhooks.ChangeSecret(r.Context(), parts[0], body.Secret)
			if err != nil {
				s.fail(w, err)
				return
			}
			writeVersioned(w, version, map[string]any{"config": cfg})
			return
		}
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleAuthClients(w http.ResponseWriter, r *http.Request, sess Session, console *Console, parts []string) {
	if !s.service.Can(sess.Role, rbac.ActionRead) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
		return
	}
	version := console.AuthClients.Version()

	if r.Method == http.MethodGet && len(parts) == 0 {
		cursor, err := console.AuthClients.ListClients(r.Context())
		if err != nil {
			s.fail(w, err)
			return
		}
		writeVersioned(w, version, map[string]any{"clients": cursor})
		return
	}
	if r.Method == http.MethodPost && len(parts) == 0 {
		if !s.service.Can(sess.Role, rbac.ActionAdmin) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		var body sdk.CreateAuthClientRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		client, err := console.AuthClients.CreateClient(r.Context(), body)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeVersioned(w, version, map[string]any{"client": client})
		return
	}
	if r.Method == http.MethodGet && len(parts) == 1 {
		client, err := console.AuthClients.GetClient(r.Context(), parts[0])
		if err != nil {
			s.fail(w, err)
			return
		}
		writeVersioned(w, version, map[string]any{"client": client})
		return
	}
	if r.Method == http.MethodDelete && len(parts) == 1 {
		if !s.service.Can(sess.Role, rbac.ActionAdmin) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		if err := console.AuthClients.DeleteClient(r.Context(), parts[0]); err != nil {
			s.fail(w, err)
			return
		}
		writeVersioned(w, version, map[string]any{"ok": true})
		return
	}
	if r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "secrets" {
		if !s.service.Can(sess.Role, rbac.ActionAdmin) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		var body struct {
			Name string `json:"name"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		secret, err := console.AuthClients.CreateClientSecret(r.Context(), parts[0], body.Name)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeVersioned(w, version, map[string]any{"secret": secret})
		return
	}
	if r.Method == http.MethodDelete && len(parts) == 3 && parts[1] == "secrets" {
		if !s.service.Can(sess.Role, rbac.ActionAdmin) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		if err := console.AuthClients.DeleteClientSecret(r.Context(), parts[0], parts[2]); err != nil {
			s.fail(w, err)
			return
		}
		writeVersioned(w, version, map[string]any{"ok": true})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}
