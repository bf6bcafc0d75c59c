package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/elmledger/internal/ledger"
	"github.com/cleared-dev/elmledger/internal/model"
)

type handler struct {
	ledger Ledger
	logger zerolog.Logger
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LoadErrorResponse is returned when a refresh fails. Cached holds the last
// persisted record set, if any, so clients can keep showing it.
type LoadErrorResponse struct {
	Error  string      `json:"error"`
	Cached model.Store `json:"cached"`
}

// RenameRequest is the body of PATCH /api/accounts/{slot}.
type RenameRequest struct {
	Name     string `json:"name"`
	Subtitle string `json:"subtitle"`
}

// load handles GET /api/accounts.
func (h *handler) load(w http.ResponseWriter, r *http.Request) {
	accts, err := h.ledger.Load(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("refresh failed")
		cached, _, snapErr := h.ledger.Snapshot()
		if snapErr != nil {
			h.logger.Error().Err(snapErr).Msg("reading cached accounts")
		}
		writeJSON(w, http.StatusBadGateway, LoadErrorResponse{Error: err.Error(), Cached: cached})
		return
	}
	writeJSON(w, http.StatusOK, accts)
}

// cached handles GET /api/accounts/cached.
func (h *handler) cached(w http.ResponseWriter, r *http.Request) {
	accts, ok, err := h.ledger.Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no persisted data")
		return
	}
	writeJSON(w, http.StatusOK, accts)
}

// get handles GET /api/accounts/{slot}.
func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	slot, ok := slotParam(w, r)
	if !ok {
		return
	}
	accts, found, err := h.ledger.Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	acct, present := accts[slot]
	if !found || !present {
		writeError(w, http.StatusNotFound, "no persisted data for "+string(slot))
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

// save handles PUT /api/accounts/{slot}. The body replaces the whole record.
func (h *handler) save(w http.ResponseWriter, r *http.Request) {
	slot, ok := slotParam(w, r)
	if !ok {
		return
	}
	var acct model.Account
	if err := json.NewDecoder(r.Body).Decode(&acct); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	saved, err := h.ledger.Save(slot, acct)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// rename handles PATCH /api/accounts/{slot}.
func (h *handler) rename(w http.ResponseWriter, r *http.Request) {
	slot, ok := slotParam(w, r)
	if !ok {
		return
	}
	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if req.Name == "" && req.Subtitle == "" {
		writeError(w, http.StatusBadRequest, "name or subtitle is required")
		return
	}

	saved, err := h.ledger.Rename(slot, req.Name, req.Subtitle)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// setTerms handles PUT /api/accounts/{slot}/terms.
func (h *handler) setTerms(w http.ResponseWriter, r *http.Request) {
	slot, ok := slotParam(w, r)
	if !ok {
		return
	}
	var terms model.FinancingTerms
	if err := json.NewDecoder(r.Body).Decode(&terms); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	saved, err := h.ledger.SetTerms(slot, terms)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *handler) writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNoBaseline):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrUnknownSlot):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrNotLiability), errors.Is(err, model.ErrInvalidTerms):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("saving account")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func slotParam(w http.ResponseWriter, r *http.Request) (model.Slot, bool) {
	slot, err := model.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return "", false
	}
	return slot, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
