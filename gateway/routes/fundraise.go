package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fundchain/core"
	"fundchain/core/types"
	"fundchain/crypto"
	"fundchain/gateway/middleware"
	"fundchain/native/fundraise"
	"fundchain/services/eventstore"
)

// Ledger is the subset of the call processor served over HTTP.
type Ledger interface {
	Apply(ctx context.Context, call *types.Call) (*core.Result, error)
	Ledger(platform [20]byte) (*fundraise.LedgerRecord, error)
	Leaderboard(platform [20]byte) (*fundraise.Leaderboard, error)
	Contributor(platform [20]byte, slot uint64) (*fundraise.ContributorRecord, error)
	Campaign(platform, authority [20]byte) (*fundraise.CampaignRecord, error)
	Balance(addr [20]byte) (uint64, error)
	TokenBalance(owner [20]byte) (uint64, error)
}

// EventLog lists committed events.
type EventLog interface {
	List(ctx context.Context, filter eventstore.Filter) ([]eventstore.Entry, error)
}

type fundraiseRoutes struct {
	ledger Ledger
	events EventLog
}

func (fr *fundraiseRoutes) mountCalls(r chi.Router) {
	r.Post("/platforms", fr.initialize)
	r.Post("/faucet", fr.faucet)
	r.Post("/platforms/{platform}/campaigns", fr.createCampaign)
	r.Post("/platforms/{platform}/contributions", fr.contribute)
	r.Post("/platforms/{platform}/token-contributions", fr.contributeWithToken)
	r.Post("/platforms/{platform}/withdrawals", fr.withdraw)
	r.Post("/platforms/{platform}/campaign-withdrawals", fr.withdrawCampaign)
	r.Post("/platforms/{platform}/commission-withdrawals", fr.withdrawCommission)
	r.Post("/platforms/{platform}/campaigns/{campaign}/close", fr.endCampaign)
}

func (fr *fundraiseRoutes) mountQueries(r chi.Router) {
	r.Get("/platforms/{platform}", fr.getLedger)
	r.Get("/platforms/{platform}/leaderboard", fr.getLeaderboard)
	r.Get("/platforms/{platform}/campaigns/{campaign}", fr.getCampaign)
	r.Get("/platforms/{platform}/contributors/{slot}", fr.getContributor)
	r.Get("/accounts/{address}", fr.getAccount)
	r.Get("/events", fr.listEvents)
}

func (fr *fundraiseRoutes) initialize(w http.ResponseWriter, r *http.Request) {
	var params types.InitializeParams
	if err := decodeJSON(r, &params); err != nil {
		writeBadRequest(w, err)
		return
	}
	fr.apply(w, r, &types.Call{Type: types.CallInitialize, Initialize: &params})
}

func (fr *fundraiseRoutes) createCampaign(w http.ResponseWriter, r *http.Request) {
	var params types.CreateCampaignParams
	if err := decodeJSON(r, &params); err != nil {
		writeBadRequest(w, err)
		return
	}
	fr.apply(w, r, &types.Call{Type: types.CallCreateCampaign, CreateCampaign: &params})
}

func (fr *fundraiseRoutes) contribute(w http.ResponseWriter, r *http.Request) {
	var req contributeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	campaign, err := parseAddress("campaign", req.Campaign)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var referrer [20]byte
	if strings.TrimSpace(req.Referrer) != "" {
		if referrer, err = parseAddress("referrer", req.Referrer); err != nil {
			writeBadRequest(w, err)
			return
		}
	}
	fr.apply(w, r, &types.Call{Type: types.CallContribute, Contribute: &types.ContributeParams{
		CampaignID: req.CampaignID,
		Amount:     req.Amount,
		Referrer:   referrer,
		Campaign:   campaign,
	}})
}

func (fr *fundraiseRoutes) contributeWithToken(w http.ResponseWriter, r *http.Request) {
	var req contributeWithTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	campaign, err := parseAddress("campaign", req.Campaign)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	fr.apply(w, r, &types.Call{Type: types.CallContributeWithToken, ContributeWithToken: &types.ContributeWithTokenParams{
		CampaignID:       req.CampaignID,
		Amount:           req.Amount,
		IsCommissionFree: req.IsCommissionFree,
		Campaign:         campaign,
	}})
}

func (fr *fundraiseRoutes) withdraw(w http.ResponseWriter, r *http.Request) {
	fr.apply(w, r, &types.Call{Type: types.CallWithdraw})
}

func (fr *fundraiseRoutes) withdrawCommission(w http.ResponseWriter, r *http.Request) {
	fr.apply(w, r, &types.Call{Type: types.CallWithdrawCommission})
}

func (fr *fundraiseRoutes) withdrawCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	campaign, err := parseAddress("campaign", req.Campaign)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	fr.apply(w, r, &types.Call{Type: types.CallWithdrawCampaign, Campaign: &types.CampaignParams{
		CampaignID: req.CampaignID,
		Campaign:   campaign,
	}})
}

func (fr *fundraiseRoutes) endCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	campaign, err := parseAddress("campaign", chi.URLParam(r, "campaign"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	fr.apply(w, r, &types.Call{Type: types.CallEndCampaign, Campaign: &types.CampaignParams{
		CampaignID: req.CampaignID,
		Campaign:   campaign,
	}})
}

func (fr *fundraiseRoutes) faucet(w http.ResponseWriter, r *http.Request) {
	var req faucetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	recipient, err := parseAddress("recipient", req.Recipient)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	fr.apply(w, r, &types.Call{Type: types.CallFaucet, Faucet: &types.FaucetParams{Recipient: recipient, Amount: req.Amount}})
}

// apply fills in the signer and platform and submits call.
func (fr *fundraiseRoutes) apply(w http.ResponseWriter, r *http.Request, call *types.Call) {
	signer, ok := middleware.SignerFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, errors.New("signer required"))
		return
	}
	call.Signer = signer
	if raw := chi.URLParam(r, "platform"); raw != "" {
		platform, err := parseAddress("platform", raw)
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		call.Platform = platform
	}
	res, err := fr.ledger.Apply(r.Context(), call)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	status := http.StatusOK
	if call.Type == types.CallInitialize || call.Type == types.CallCreateCampaign {
		status = http.StatusCreated
	}
	writeJSON(w, status, newResultView(res))
}

func (fr *fundraiseRoutes) getLedger(w http.ResponseWriter, r *http.Request) {
	platform, err := parseAddress("platform", chi.URLParam(r, "platform"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	ledger, err := fr.ledger.Ledger(platform)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLedgerView(platform, ledger))
}

func (fr *fundraiseRoutes) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	platform, err := parseAddress("platform", chi.URLParam(r, "platform"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	board, err := fr.ledger.Leaderboard(platform)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLeaderboardView(board))
}

func (fr *fundraiseRoutes) getCampaign(w http.ResponseWriter, r *http.Request) {
	platform, err := parseAddress("platform", chi.URLParam(r, "platform"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	authority, err := parseAddress("campaign", chi.URLParam(r, "campaign"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	campaign, err := fr.ledger.Campaign(platform, authority)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCampaignView(fundraise.CampaignAddress(platform, authority), campaign))
}

func (fr *fundraiseRoutes) getContributor(w http.ResponseWriter, r *http.Request) {
	platform, err := parseAddress("platform", chi.URLParam(r, "platform"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	slot, err := strconv.ParseUint(chi.URLParam(r, "slot"), 10, 64)
	if err != nil {
		writeBadRequest(w, fmt.Errorf("invalid slot: %w", err))
		return
	}
	contributor, err := fr.ledger.Contributor(platform, slot)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newContributorView(contributor))
}

func (fr *fundraiseRoutes) getAccount(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress("address", chi.URLParam(r, "address"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	balance, err := fr.ledger.Balance(addr)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	tokens, err := fr.ledger.TokenBalance(addr)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountView{Address: crypto.FormatIdentity(addr), Balance: balance, TokenBalance: tokens})
}

func (fr *fundraiseRoutes) listEvents(w http.ResponseWriter, r *http.Request) {
	if fr.events == nil {
		writeJSONError(w, http.StatusServiceUnavailable, errors.New("event store not configured"))
		return
	}
	query := r.URL.Query()
	filter := eventstore.Filter{
		Type:     strings.TrimSpace(query.Get("type")),
		Platform: strings.TrimSpace(query.Get("platform")),
	}
	if raw := query.Get("after"); raw != "" {
		after, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || after < 0 {
			writeBadRequest(w, fmt.Errorf("invalid after %q", raw))
			return
		}
		filter.After = after
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeBadRequest(w, fmt.Errorf("invalid limit %q", raw))
			return
		}
		filter.Limit = limit
	}
	entries, err := fr.events.List(r.Context(), filter)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": entries})
}

func parseAddress(field, raw string) ([20]byte, error) {
	addr, err := crypto.ParseIdentity(raw)
	if err != nil {
		return [20]byte{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	return addr, nil
}
