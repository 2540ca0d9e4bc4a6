package mockapi

import (
	"net/http"
	"strconv"

	"github.com/shopwave/storefront/internal/api"
)

const defaultListLimit = 10

func (s *Server) Categories(w http.ResponseWriter, r *http.Request) {
	cats := s.store.Categories()
	out := make([]api.CategoryDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, api.CategoryDTO{ID: c.ID, Name: c.Name, Image: c.Image})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) Product(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Product(pathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "Product not found")
		return
	}
	respondJSON(w, http.StatusOK, api.ProductToDTO(p))
}

func (s *Server) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, productsToDTO(s.store.ProductsByCategory(pathParam(r, "id"))))
}

func (s *Server) NewProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, productsToDTO(s.store.NewProducts(limitParam(r))))
}

func (s *Server) TopSellingProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, productsToDTO(s.store.TopSelling(limitParam(r))))
}

func limitParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return defaultListLimit
	}
	return n
}
