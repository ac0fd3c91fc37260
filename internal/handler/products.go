package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/xenking/moto-store/internal/domain/product"
)

type productResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	CategoryID  int64           `json:"category_id,omitempty"`
	Price       decimal.Decimal `json:"price"`
	OldPrice    decimal.Decimal `json:"old_price,omitempty"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Stock       int             `json:"stock"`
	Engine      string          `json:"engine,omitempty"`
	Color       string          `json:"color,omitempty"`
	Warranty    string          `json:"warranty,omitempty"`
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		CategoryID:  p.CategoryID,
		Price:       p.Price,
		OldPrice:    p.OldPrice,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		Engine:      p.Engine,
		Color:       p.Color,
		Warranty:    p.Warranty,
	}
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f product.Filter
	if v := q.Get("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid category")
			return
		}
		f.CategoryID = id
	}
	f.Brand = q.Get("brand")
	f.Query = q.Get("q")
	if v := q.Get("maxPrice"); v != "" {
		max, err := decimal.NewFromString(v)
		if err != nil || max.IsNegative() {
			writeError(w, http.StatusBadRequest, "invalid maxPrice")
			return
		}
		f.MaxPrice = max
	}

	products, err := s.products.List(r.Context(), f)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := s.products.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

type categoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.products.ListCategories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]categoryResponse, len(categories))
	for i, c := range categories {
		out[i] = categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
	}
	writeJSON(w, http.StatusOK, out)
}
