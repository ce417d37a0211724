package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/model"
	"supercluster/apps/supercluster/internal/preferences"
	"supercluster/apps/supercluster/internal/repository"
	"supercluster/apps/supercluster/internal/withdrawal"
)

var errInvalidTarget = errors.New("invalid target address format")

// Refresher triggers an immediate re-fetch of a wallet's request list,
// normally right after a successful write.
type Refresher interface {
	RefreshWallet(ctx context.Context, wallet common.Address) error
}

// WithdrawalHandler handles withdrawal queue API endpoints
type WithdrawalHandler struct {
	repo         *withdrawal.Repository
	orchestrator *withdrawal.Orchestrator
	refresher    Refresher
	wallets      *repository.WalletRepository
	prefs        *preferences.Service
	clock        withdrawal.Clock
	chainID      int64
	logger       *zap.Logger
}

func NewWithdrawalHandler(
	repo *withdrawal.Repository,
	orchestrator *withdrawal.Orchestrator,
	refresher Refresher,
	wallets *repository.WalletRepository,
	prefs *preferences.Service,
	clock withdrawal.Clock,
	chainID int64,
	logger *zap.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{
		repo:         repo,
		orchestrator: orchestrator,
		refresher:    refresher,
		wallets:      wallets,
		prefs:        prefs,
		clock:        clock,
		chainID:      chainID,
		logger:       logger,
	}
}

// GetWithdrawals handles GET /api/withdrawals/{wallet_address}
func (h *WithdrawalHandler) GetWithdrawals(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	walletAddress := vars["wallet_address"]

	if !common.IsHexAddress(walletAddress) {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_wallet_address", "Invalid Ethereum address format")
		return
	}
	wallet := common.HexToAddress(walletAddress)

	// A wallet querying its queue is a wallet worth keeping fresh.
	if err := h.wallets.TrackWallet(wallet.Hex(), h.chainID); err != nil {
		h.logger.Error("Failed to track wallet", zap.Error(err))
	}

	requests, err := h.repo.FetchRequests(r.Context(), wallet)
	if err != nil {
		h.logger.Error("Failed to fetch withdrawal requests",
			zap.String("wallet_address", walletAddress), zap.Error(err))
		h.writeErrorResponse(w, http.StatusBadGateway, "ledger_error", "Failed to fetch withdrawal requests")
		return
	}

	summary := withdrawal.DeriveSummary(requests, h.clock.Now())

	h.writeJSONResponse(w, http.StatusOK, summary)
}

// SubmitWithdrawal handles POST /api/withdrawals
func (h *WithdrawalHandler) SubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req SubmitWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_request_body", "Invalid JSON in request body")
		return
	}

	if req.Amount == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "missing_amount", "Amount is required")
		return
	}
	if req.WalletAddress == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "missing_wallet_address", "Wallet address is required")
		return
	}
	if !common.IsHexAddress(req.WalletAddress) {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_wallet_address", "Invalid Ethereum address format")
		return
	}
	wallet := common.HexToAddress(req.WalletAddress)

	// The submitting flag is advisory and enforced here, at the caller.
	if h.orchestrator.IsSubmitting() {
		h.writeErrorResponse(w, http.StatusConflict, "submission_in_flight", "A withdrawal submission is already in progress")
		return
	}

	target, err := h.resolveTarget(wallet, req.TargetAddress)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_target_address", err.Error())
		return
	}

	if err := h.wallets.TrackWallet(wallet.Hex(), h.chainID); err != nil {
		h.logger.Error("Failed to track wallet", zap.Error(err))
	}

	requestID, known, err := h.orchestrator.SubmitWithdrawal(r.Context(), wallet, req.Amount, target)
	if err != nil {
		h.writeOrchestratorError(w, err)
		return
	}

	if err := h.refresher.RefreshWallet(r.Context(), wallet); err != nil {
		h.logger.Error("Failed to refresh wallet after submission", zap.Error(err))
	}

	response := SubmitWithdrawalResponse{}
	if known {
		response.RequestID = &requestID
	}

	h.writeJSONResponse(w, http.StatusCreated, response)
}

// ClaimWithdrawal handles POST /api/withdrawals/{request_id}/claim
func (h *WithdrawalHandler) ClaimWithdrawal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	requestID, err := strconv.ParseUint(vars["request_id"], 10, 64)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_request_id", "Request id must be a positive integer")
		return
	}

	walletAddress := r.URL.Query().Get("wallet_address")
	if !common.IsHexAddress(walletAddress) {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_wallet_address", "Invalid Ethereum address format")
		return
	}
	wallet := common.HexToAddress(walletAddress)

	if h.orchestrator.IsClaiming(requestID) {
		h.writeErrorResponse(w, http.StatusConflict, "claim_in_flight", "A claim for this request is already in progress")
		return
	}

	// Only expose the claim action for requests currently ready; the ledger
	// would reject anything else anyway.
	if !h.isClaimable(r.Context(), wallet, requestID) {
		h.writeErrorResponse(w, http.StatusConflict, "request_not_claimable", "Request is not ready to claim")
		return
	}

	if err := h.orchestrator.ClaimWithdrawal(r.Context(), requestID); err != nil {
		h.writeOrchestratorError(w, err)
		return
	}

	if err := h.refresher.RefreshWallet(r.Context(), wallet); err != nil {
		h.logger.Error("Failed to refresh wallet after claim", zap.Error(err))
	}

	h.writeJSONResponse(w, http.StatusOK, ClaimResponse{
		RequestID: requestID,
		Status:    string(model.StatusClaimed),
	})
}

func (h *WithdrawalHandler) isClaimable(ctx context.Context, wallet common.Address, requestID uint64) bool {
	requests, err := h.repo.FetchRequests(ctx, wallet)
	if err != nil {
		h.logger.Error("Failed to fetch requests for claim check", zap.Error(err))
		return false
	}

	now := h.clock.Now()
	for _, req := range requests {
		if req.ID == requestID {
			return withdrawal.ClassifyRequest(req, now) == model.StatusReady
		}
	}
	return false
}

func (h *WithdrawalHandler) resolveTarget(wallet common.Address, override string) (common.Address, error) {
	if override != "" {
		if !common.IsHexAddress(override) {
			return common.Address{}, errInvalidTarget
		}
		return common.HexToAddress(override), nil
	}
	return h.prefs.Target(wallet)
}

func (h *WithdrawalHandler) writeOrchestratorError(w http.ResponseWriter, err error) {
	classified := withdrawal.ClassifyError(err)

	switch classified.Kind {
	case withdrawal.KindValidation:
		h.writeErrorResponse(w, http.StatusBadRequest, "validation_error", classified.Message)
	case withdrawal.KindUserCancelled:
		// No failure happened; the signature prompt was dismissed.
		h.writeErrorResponse(w, http.StatusConflict, "user_cancelled", classified.Message)
	default:
		h.writeErrorResponse(w, http.StatusBadGateway, string(classified.Kind), classified.Message)
	}
}

// writeJSONResponse writes a JSON response with the specified status code
func (h *WithdrawalHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeErrorResponse writes an error response
func (h *WithdrawalHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	errorResponse := ErrorResponse{
		Error:   errorCode,
		Message: message,
	}
	h.writeJSONResponse(w, statusCode, errorResponse)
}
