package api

import (
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/preferences"
)

// PreferenceHandler handles allocation-target preference endpoints
type PreferenceHandler struct {
	prefs  *preferences.Service
	logger *zap.Logger
}

func NewPreferenceHandler(prefs *preferences.Service, logger *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs, logger: logger}
}

// GetPreference handles GET /api/preferences/{wallet_address}
func (h *PreferenceHandler) GetPreference(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	walletAddress := vars["wallet_address"]

	if !common.IsHexAddress(walletAddress) {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_wallet_address", "Invalid Ethereum address format")
		return
	}
	wallet := common.HexToAddress(walletAddress)

	target, err := h.prefs.Target(wallet)
	if err != nil {
		h.logger.Error("Failed to get target preference",
			zap.String("wallet_address", walletAddress), zap.Error(err))
		h.writeErrorResponse(w, http.StatusInternalServerError, "database_error", "Failed to read preference")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, PreferenceResponse{
		WalletAddress: wallet.Hex(),
		TargetAddress: target.Hex(),
	})
}

// SetPreference handles PUT /api/preferences/{wallet_address}
func (h *PreferenceHandler) SetPreference(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	walletAddress := vars["wallet_address"]

	if !common.IsHexAddress(walletAddress) {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_wallet_address", "Invalid Ethereum address format")
		return
	}
	wallet := common.HexToAddress(walletAddress)

	var req SetPreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_request_body", "Invalid JSON in request body")
		return
	}

	if !common.IsHexAddress(req.TargetAddress) {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_target_address", "Invalid target address format")
		return
	}
	target := common.HexToAddress(req.TargetAddress)

	if err := h.prefs.SetTarget(wallet, target); err != nil {
		h.logger.Error("Failed to set target preference",
			zap.String("wallet_address", walletAddress), zap.Error(err))
		h.writeErrorResponse(w, http.StatusInternalServerError, "database_error", "Failed to store preference")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, PreferenceResponse{
		WalletAddress: wallet.Hex(),
		TargetAddress: target.Hex(),
	})
}

// writeJSONResponse writes a JSON response with the specified status code
func (h *PreferenceHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeErrorResponse writes an error response
func (h *PreferenceHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	errorResponse := ErrorResponse{
		Error:   errorCode,
		Message: message,
	}
	h.writeJSONResponse(w, statusCode, errorResponse)
}
