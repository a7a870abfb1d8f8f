package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/importabr/landed/internal/ncm"
)

// NCMHandler serves classification search and lookup. These endpoints are
// public: importers browse codes before signing up.
type NCMHandler struct {
	service *ncm.Service
}

// NewNCMHandler creates an NCMHandler.
func NewNCMHandler(service *ncm.Service) *NCMHandler {
	return &NCMHandler{service: service}
}

type ncmInfoResponse struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	II          decimal.Decimal `json:"ii_rate"`
	IPI         decimal.Decimal `json:"ipi_rate"`
	PIS         decimal.Decimal `json:"pis_rate"`
	COFINS      decimal.Decimal `json:"cofins_rate"`
	ICMS        decimal.Decimal `json:"icms_rate"`
}

// Search handles GET /api/ncm/search?q=.
func (h *NCMHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": h.service.Search(query),
	})
}

// Popular handles GET /api/ncm/popular.
func (h *NCMHandler) Popular(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": h.service.Popular(),
	})
}

// Info handles GET /api/ncm/{code}.
func (h *NCMHandler) Info(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Info(r.Context(), r.PathValue("code"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, ncmInfoResponse{
		Code:        info.Code,
		Description: info.Description,
		II:          info.Rates.II,
		IPI:         info.Rates.IPI,
		PIS:         info.Rates.PIS,
		COFINS:      info.Rates.COFINS,
		ICMS:        info.Rates.ICMS,
	})
}
