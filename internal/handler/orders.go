package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/xenking/moto-store/internal/domain/order"
)

type checkoutRequest struct {
	ProductIDs []int64 `json:"product_ids" validate:"required,min=1,dive,gt=0"`
	CouponCode string  `json:"coupon_code"`

	CustomerName  string `json:"customer_name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Address       string `json:"address" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	Notes         string `json:"notes"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type orderLineResponse struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

type orderResponse struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`

	CustomerName  string `json:"customer_name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Email         string `json:"email,omitempty"`
	Notes         string `json:"notes,omitempty"`
	PaymentMethod string `json:"payment_method"`

	Lines []orderLineResponse `json:"lines"`

	Subtotal         decimal.Decimal `json:"subtotal"`
	ShippingFee      decimal.Decimal `json:"shipping_fee"`
	SeasonalDiscount decimal.Decimal `json:"seasonal_discount"`
	CouponDiscount   decimal.Decimal `json:"coupon_discount"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	Total            decimal.Decimal `json:"total"`

	CouponCode    string `json:"coupon_code,omitempty"`
	PromotionName string `json:"promotion_name,omitempty"`
	Message       string `json:"message,omitempty"`

	Status   string    `json:"status"`
	PlacedAt time.Time `json:"placed_at"`
}

func toOrderResponse(o *order.Order) orderResponse {
	lines := make([]orderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = orderLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
		}
	}
	return orderResponse{
		ID:               o.ID,
		Code:             o.Code,
		CustomerName:     o.CustomerName,
		Phone:            o.Phone,
		Address:          o.Address,
		Email:            o.Email,
		Notes:            o.Notes,
		PaymentMethod:    o.PaymentMethod,
		Lines:            lines,
		Subtotal:         o.Subtotal,
		ShippingFee:      o.ShippingFee,
		SeasonalDiscount: o.SeasonalDiscount,
		CouponDiscount:   o.CouponDiscount,
		DiscountAmount:   o.DiscountAmount,
		Total:            o.Total,
		CouponCode:       o.CouponCode,
		PromotionName:    o.PromotionName,
		Message:          o.Message,
		Status:           o.Status,
		PlacedAt:         o.PlacedAt,
	}
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	o, err := s.orders.Checkout(r.Context(), order.CheckoutRequest{
		ProductIDs:    req.ProductIDs,
		CouponCode:    req.CouponCode,
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Address:       req.Address,
		Email:         req.Email,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (s *Server) trackOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.Track(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}
