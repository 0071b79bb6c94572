package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-pessoas/internal/middleware"
	"github.com/prefeitura-rio/app-pessoas/internal/services"
)

// SuggestionsResponse lists autocomplete suggestions
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// ReferenceHandlers serves the reference data behind the form autocompletes
type ReferenceHandlers struct {
	reference *services.ReferenceService
	cookies   middleware.SessionCookies
}

// NewReferenceHandlers creates a new reference handlers instance
func NewReferenceHandlers(reference *services.ReferenceService, cookies middleware.SessionCookies) *ReferenceHandlers {
	return &ReferenceHandlers{reference: reference, cookies: cookies}
}

// Suggest godoc
// @Summary Sugestões de dados de referência
// @Description Busca nacionalidades, naturalidades ou gêneros que contenham q
// @Tags reference
// @Produce json
// @Param kind path string true "Tipo" Enums(nationalities, birthplaces, genders)
// @Param q query string false "Termo digitado"
// @Success 200 {object} SuggestionsResponse
// @Failure 404 {object} ErrorResponse "Tipo desconhecido"
// @Failure 401 {object} middleware.UnauthorizedResponse
// @Router /reference/{kind} [get]
func (h *ReferenceHandlers) Suggest(c *gin.Context) {
	search, err := h.reference.SearchFunc(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	suggestions, err := search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.cookies, err, "")
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	c.JSON(http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}
