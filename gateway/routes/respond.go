package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"fundchain/core"
	"fundchain/core/state"
	"fundchain/native/bank"
	"fundchain/native/fundraise"
	"fundchain/native/token"
)

const requestLimit = 1 << 20 // 1 MiB

var errEmptyBody = errors.New("request body is empty")

func decodeJSON(r *http.Request, dst interface{}) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, requestLimit))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return errEmptyBody
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		writeInternalError(w, fmt.Errorf("marshal response: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSONError(w, http.StatusBadRequest, err)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeJSONError(w, http.StatusInternalServerError, err)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	message := strings.TrimSpace(err.Error())
	if message == "" {
		message = http.StatusText(status)
	}
	payload, marshalErr := json.Marshal(map[string]string{"error": message})
	if marshalErr != nil {
		payload = []byte(fmt.Sprintf("{\"error\":%q}", http.StatusText(status)))
	}
	_, _ = w.Write(payload)
}

// writeLedgerError maps ledger failures onto HTTP statuses.
func writeLedgerError(w http.ResponseWriter, err error) {
	writeJSONError(w, statusFor(err), err)
}

func statusFor(err error) int {
	switch {
	case errorIsAny(err,
		core.ErrInvalidCall,
		fundraise.ErrInvalidGoal,
		fundraise.ErrInvalidCommissionRate,
		fundraise.ErrInvalidPeriod,
		fundraise.ErrZeroAmount,
		fundraise.ErrInvalidCampaignID):
		return http.StatusBadRequest
	case errorIsAny(err, fundraise.ErrNotOwner, core.ErrFaucetDisabled, token.ErrInvalidMintAuthority):
		return http.StatusForbidden
	case errorIsAny(err,
		fundraise.ErrLedgerNotFound,
		fundraise.ErrLeaderboardNotFound,
		fundraise.ErrContributorNotFound,
		fundraise.ErrCampaignNotFound,
		fundraise.ErrCampaignBalanceNotFound):
		return http.StatusNotFound
	case errorIsAny(err,
		state.ErrRecordExists,
		fundraise.ErrGoalReached,
		fundraise.ErrCampaignNotActive,
		fundraise.ErrCampaignBalancesFull):
		return http.StatusConflict
	case errorIsAny(err,
		fundraise.ErrInsufficientTokens,
		fundraise.ErrZeroRaised,
		fundraise.ErrInsufficientBalance,
		fundraise.ErrEmptyRedistributionBase,
		fundraise.ErrArithmeticOverflow,
		bank.ErrInsufficientFunds,
		state.ErrInsufficientFunds,
		bank.ErrBalanceOverflow,
		token.ErrInsufficientTokens,
		token.ErrSupplyOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
