package api

import (
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/amount"
	"supercluster/apps/supercluster/internal/assets"
	"supercluster/apps/supercluster/internal/withdrawal"
)

// BalanceHandler handles receipt-token balance API endpoints
type BalanceHandler struct {
	reader withdrawal.LedgerReader
	logger *zap.Logger
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(reader withdrawal.LedgerReader, logger *zap.Logger) *BalanceHandler {
	return &BalanceHandler{reader: reader, logger: logger}
}

// GetBalance handles GET /api/balance/{wallet_address}
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	walletAddress := vars["wallet_address"]

	if !common.IsHexAddress(walletAddress) {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_wallet_address", "Invalid Ethereum address format")
		return
	}

	balance, err := h.reader.ReceiptBalanceOf(r.Context(), common.HexToAddress(walletAddress))
	if err != nil {
		h.logger.Error("Failed to get receipt token balance",
			zap.String("wallet_address", walletAddress),
			zap.Error(err))
		h.writeErrorResponse(w, http.StatusBadGateway, "ledger_error", "Failed to fetch balance")
		return
	}

	susdc, _ := assets.GlobalRegistry.GetBySymbol("sUSDC")

	response := BalanceResponse{
		WalletAddress: walletAddress,
		Balance:       amount.Format(balance, susdc.Decimals, susdc.DisplayDecimals),
		Symbol:        susdc.Symbol,
		Decimals:      susdc.Decimals,
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// writeJSONResponse writes a JSON response with the specified status code
func (h *BalanceHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeErrorResponse writes an error response
func (h *BalanceHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	errorResponse := ErrorResponse{
		Error:   errorCode,
		Message: message,
	}
	h.writeJSONResponse(w, statusCode, errorResponse)
}
