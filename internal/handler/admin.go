package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/xenking/moto-store/internal/domain/coupon"
	"github.com/xenking/moto-store/internal/domain/order"
	"github.com/xenking/moto-store/internal/domain/promotion"
)

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

type couponResponse struct {
	ID                int64           `json:"id"`
	Code              string          `json:"code"`
	Description       string          `json:"description,omitempty"`
	Percent           decimal.Decimal `json:"percent"`
	Amount            decimal.Decimal `json:"amount"`
	MinOrderAmount    decimal.Decimal `json:"min_order_amount"`
	MaxDiscountAmount decimal.Decimal `json:"max_discount_amount"`
	StartAt           time.Time       `json:"start_at"`
	EndAt             time.Time       `json:"end_at"`
	UsageLimit        int             `json:"usage_limit"`
	UsedCount         int             `json:"used_count"`
	Active            bool            `json:"active"`
}

func toCouponResponse(c coupon.Coupon) couponResponse {
	return couponResponse{
		ID:                c.ID,
		Code:              c.Code,
		Description:       c.Description,
		Percent:           c.Percent,
		Amount:            c.Amount,
		MinOrderAmount:    c.MinOrderAmount,
		MaxDiscountAmount: c.MaxDiscountAmount,
		StartAt:           c.StartAt,
		EndAt:             c.EndAt,
		UsageLimit:        c.UsageLimit,
		UsedCount:         c.UsedCount,
		Active:            c.Active,
	}
}

func (s *Server) adminListCoupons(w http.ResponseWriter, r *http.Request) {
	all, err := s.couponRepo.All(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]couponResponse, len(all))
	for i, c := range all {
		out[i] = toCouponResponse(c)
	}
	writeJSON(w, http.StatusOK, out)
}

type createCouponRequest struct {
	Code              string          `json:"code" validate:"required"`
	Description       string          `json:"description"`
	Percent           decimal.Decimal `json:"percent"`
	MinOrderAmount    decimal.Decimal `json:"min_order_amount"`
	MaxDiscountAmount decimal.Decimal `json:"max_discount_amount"`
	StartAt           time.Time       `json:"start_at"`
	EndAt             time.Time       `json:"end_at" validate:"required"`
	UsageLimit        int             `json:"usage_limit" validate:"gte=0"`
}

func (s *Server) adminCreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	now := s.now().UTC()
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	exists := func(code string) bool {
		_, err := s.couponRepo.FindByCode(r.Context(), code)
		return err == nil
	}
	if err := coupon.ValidateNew(code, req.Percent, req.EndAt, now, exists); err != nil {
		respondError(w, r, err)
		return
	}

	startAt := req.StartAt
	if startAt.IsZero() {
		startAt = now
	}

	c := coupon.Coupon{
		Code:              code,
		Description:       req.Description,
		Percent:           req.Percent,
		MinOrderAmount:    req.MinOrderAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		StartAt:           startAt,
		EndAt:             req.EndAt,
		UsageLimit:        req.UsageLimit,
		Active:            true,
	}
	if err := s.couponRepo.Add(r.Context(), &c); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCouponResponse(c))
}

type updateCouponRequest struct {
	Description       *string          `json:"description"`
	Percent           *decimal.Decimal `json:"percent"`
	Amount            *decimal.Decimal `json:"amount"`
	MinOrderAmount    *decimal.Decimal `json:"min_order_amount"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount"`
	StartAt           *time.Time       `json:"start_at"`
	EndAt             *time.Time       `json:"end_at"`
	UsageLimit        *int             `json:"usage_limit"`
	Active            *bool            `json:"active"`
}

func (s *Server) adminUpdateCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid coupon id")
		return
	}

	var req updateCouponRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	c, err := s.couponRepo.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Percent != nil {
		c.Percent = *req.Percent
	}
	if req.Amount != nil {
		c.Amount = *req.Amount
	}
	if req.MinOrderAmount != nil {
		c.MinOrderAmount = *req.MinOrderAmount
	}
	if req.MaxDiscountAmount != nil {
		c.MaxDiscountAmount = *req.MaxDiscountAmount
	}
	if req.StartAt != nil {
		c.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		c.EndAt = *req.EndAt
	}
	if req.UsageLimit != nil {
		c.UsageLimit = *req.UsageLimit
	}
	if req.Active != nil {
		c.Active = *req.Active
	}

	if err := s.couponRepo.Update(r.Context(), c); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCouponResponse(*c))
}

func (s *Server) adminDeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid coupon id")
		return
	}
	if err := s.couponRepo.Remove(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminToggleCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid coupon id")
		return
	}
	if err := s.couponRepo.Toggle(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createPromotionRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Percent     decimal.Decimal `json:"percent"`
	StartAt     time.Time       `json:"start_at"`
	EndAt       time.Time       `json:"end_at" validate:"required"`
	Scope       string          `json:"scope" validate:"omitempty,oneof=all category brand"`
	CategoryID  int64           `json:"category_id"`
	Brand       string          `json:"brand"`
}

func (s *Server) adminCreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req createPromotionRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	startAt := req.StartAt
	if startAt.IsZero() {
		startAt = s.now().UTC()
	}

	scope := promotion.AllScope()
	switch promotion.ScopeKind(req.Scope) {
	case promotion.ScopeCategory:
		scope = promotion.CategoryScope(req.CategoryID)
	case promotion.ScopeBrand:
		scope = promotion.BrandScope(req.Brand)
	}

	p := promotion.Promotion{
		Name:        req.Name,
		Description: req.Description,
		Percent:     req.Percent,
		StartAt:     startAt,
		EndAt:       req.EndAt,
		Active:      true,
		Scope:       scope,
	}
	if err := p.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.promoRepo.Add(r.Context(), &p); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPromotionResponse(p))
}

func (s *Server) adminDeletePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid promotion id")
		return
	}
	if err := s.promoRepo.Remove(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminTogglePromotion(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid promotion id")
		return
	}
	if err := s.promoRepo.Toggle(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminListOrders(w http.ResponseWriter, r *http.Request) {
	all, err := s.orderRepo.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]orderResponse, len(all))
	for i := range all {
		out[i] = toOrderResponse(&all[i])
	}
	writeJSON(w, http.StatusOK, out)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

var validStatuses = map[string]bool{
	order.StatusPending:   true,
	order.StatusConfirmed: true,
	order.StatusShipped:   true,
	order.StatusDelivered: true,
	order.StatusCancelled: true,
}

func (s *Server) adminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateOrderStatusRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if !validStatuses[req.Status] {
		writeError(w, http.StatusBadRequest, "invalid order status")
		return
	}

	if err := s.orderRepo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
