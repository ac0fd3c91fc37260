package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/xenking/moto-store/internal/domain/coupon"
)

type validateCouponRequest struct {
	Code        string          `json:"code" validate:"required"`
	OrderAmount decimal.Decimal `json:"order_amount"`
}

type validateCouponResponse struct {
	Valid    bool            `json:"valid"`
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
	Reason   string          `json:"reason,omitempty"`
}

func (s *Server) validateCoupon(w http.ResponseWriter, r *http.Request) {
	var req validateCouponRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	found, err := s.coupons.FindByCode(r.Context(), req.Code, s.now().UTC(), req.OrderAmount)
	if err != nil {
		if coupon.IsRejection(err) {
			writeJSON(w, http.StatusOK, validateCouponResponse{
				Valid:  false,
				Code:   req.Code,
				Reason: err.Error(),
			})
			return
		}
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, validateCouponResponse{
		Valid:    true,
		Code:     found.Code,
		Discount: coupon.ComputeDiscount(*found, req.OrderAmount),
	})
}

type availableCouponResponse struct {
	Code        string          `json:"code"`
	Description string          `json:"description,omitempty"`
	Discount    decimal.Decimal `json:"discount"`
	MinOrder    decimal.Decimal `json:"min_order_amount"`
}

func (s *Server) availableCoupons(w http.ResponseWriter, r *http.Request) {
	amount := decimal.Zero
	if v := r.URL.Query().Get("orderAmount"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil || parsed.IsNegative() {
			writeError(w, http.StatusBadRequest, "invalid orderAmount")
			return
		}
		amount = parsed
	}

	available, err := s.coupons.Available(r.Context(), s.now().UTC(), amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]availableCouponResponse, len(available))
	for i, c := range available {
		out[i] = availableCouponResponse{
			Code:        c.Code,
			Description: c.Description,
			Discount:    coupon.ComputeDiscount(c, amount),
			MinOrder:    c.MinOrderAmount,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
