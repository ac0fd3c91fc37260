package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/moto-store/internal/domain/promotion"
)

type promotionResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Percent     decimal.Decimal `json:"percent"`
	StartAt     time.Time       `json:"start_at"`
	EndAt       time.Time       `json:"end_at"`
	Active      bool            `json:"active"`
	Scope       string          `json:"scope"`
	CategoryID  int64           `json:"category_id,omitempty"`
	Brand       string          `json:"brand,omitempty"`
}

func toPromotionResponse(p promotion.Promotion) promotionResponse {
	return promotionResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Percent:     p.Percent,
		StartAt:     p.StartAt,
		EndAt:       p.EndAt,
		Active:      p.Active,
		Scope:       string(p.Scope.Kind),
		CategoryID:  p.Scope.CategoryID,
		Brand:       p.Scope.Brand,
	}
}

func (s *Server) activePromotions(w http.ResponseWriter, r *http.Request) {
	active, err := s.promotions.Active(r.Context(), s.now().UTC())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]promotionResponse, len(active))
	for i, p := range active {
		out[i] = toPromotionResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}
