package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"supercluster/apps/supercluster/internal/assets"
)

// InfoHandler serves static protocol information. APY and the unstaking
// period are display constants supplied by the protocol, not derived here.
type InfoHandler struct {
	logger *zap.Logger
}

func NewInfoHandler(logger *zap.Logger) *InfoHandler {
	return &InfoHandler{logger: logger}
}

// GetInfo handles GET /api/info
func (h *InfoHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	tokens := make([]TokenInfo, 0)
	for _, asset := range assets.GlobalRegistry.GetAll() {
		tokens = append(tokens, TokenInfo{
			Symbol:   asset.Symbol,
			Name:     asset.Name,
			Address:  asset.Address.Hex(),
			Decimals: asset.Decimals,
		})
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].Symbol < tokens[j].Symbol
	})

	response := InfoResponse{
		ProtocolName:    assets.ProtocolName,
		APY:             assets.DisplayAPY,
		UnstakingPeriod: assets.UnstakingPeriod,
		Tokens:          tokens,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}
