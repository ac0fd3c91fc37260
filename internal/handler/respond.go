package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/xenking/moto-store/internal/domain/coupon"
	"github.com/xenking/moto-store/internal/domain/order"
	"github.com/xenking/moto-store/internal/domain/pricing"
	"github.com/xenking/moto-store/internal/domain/product"
	"github.com/xenking/moto-store/internal/domain/promotion"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}

// errBadBody marks request bodies that failed to decode.
var errBadBody = errors.New("malformed request body")

// decodeJSON reads the request body into dst and runs struct validation.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(errBadBody, err.Error())
	}
	return s.validate.Struct(dst)
}

// respondError maps domain errors to HTTP statuses. Unknown errors become 500
// and are logged with the request context.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFoundErr *order.ProductNotFoundError
		valErr      validator.ValidationErrors
	)

	switch {
	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, promotion.ErrNotFound),
		errors.Is(err, coupon.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())

	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.As(err, &valErr),
		errors.Is(err, errBadBody),
		errors.Is(err, pricing.ErrEmptyCart),
		errors.Is(err, order.ErrNameRequired),
		errors.Is(err, order.ErrPhoneInvalid),
		errors.Is(err, order.ErrAddressRequired),
		errors.Is(err, order.ErrPaymentRequired),
		errors.Is(err, coupon.ErrCodeRequired),
		errors.Is(err, coupon.ErrCodeFormat),
		errors.Is(err, coupon.ErrCodeTaken),
		errors.Is(err, coupon.ErrInvalidPercent),
		errors.Is(err, coupon.ErrEndNotFuture),
		errors.Is(err, promotion.ErrNameRequired),
		errors.Is(err, promotion.ErrInvalidPercent),
		errors.Is(err, promotion.ErrInvalidWindow):
		writeError(w, http.StatusBadRequest, err.Error())

	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
