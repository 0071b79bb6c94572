package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/middleware"
	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/observability"
	"github.com/prefeitura-rio/app-pessoas/internal/personform"
	"github.com/prefeitura-rio/app-pessoas/internal/services"
	"github.com/prefeitura-rio/app-pessoas/internal/utils"
	"go.uber.org/zap"
)

// PersonListResponse is a page of people plus its pagination bar
type PersonListResponse struct {
	Data        []models.PersonResponse `json:"data"`
	Page        int                     `json:"page"`
	Limit       int                     `json:"limit"`
	Total       int                     `json:"total"`
	TotalPages  int                     `json:"totalPages"`
	HasPrevious bool                    `json:"hasPrevious"`
	HasNext     bool                    `json:"hasNext"`
	Search      string                  `json:"search,omitempty"`
	Window      models.PageWindow       `json:"window"`
}

// PersonMutationResponse is the answer of create, update and delete
type PersonMutationResponse struct {
	Person       *models.PersonResponse `json:"person,omitempty"`
	Errors       map[string]string      `json:"errors,omitempty"`
	Notification *models.Notification   `json:"notification,omitempty"`
}

// PeopleHandlers serves the person directory of the logged in admin
type PeopleHandlers struct {
	registry *services.DirectoryRegistry
	cookies  middleware.SessionCookies
	minAge   int
	now      func() time.Time
	logger   *logging.SafeLogger
}

// NewPeopleHandlers creates a new people handlers instance
func NewPeopleHandlers(registry *services.DirectoryRegistry, cookies middleware.SessionCookies, minAge int, logger *logging.SafeLogger) *PeopleHandlers {
	if logger == nil {
		logger = logging.Logger
	}
	return &PeopleHandlers{
		registry: registry,
		cookies:  cookies,
		minAge:   minAge,
		now:      time.Now,
		logger:   logger,
	}
}

func (h *PeopleHandlers) directory(c *gin.Context) (*services.PersonDirectory, bool) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		middleware.AbortUnauthorized(c, h.cookies, models.ErrNotAuthenticated)
		return nil, false
	}
	return h.registry.For(s.ID), true
}

// ListPeople godoc
// @Summary Listar pessoas
// @Description Lista pessoas paginadas; com q, busca por nome ou CPF
// @Tags people
// @Produce json
// @Param page query int false "Página (padrão: 1)" minimum(1)
// @Param limit query int false "Itens por página (padrão: 10, máximo: 100)" minimum(1) maximum(100)
// @Param q query string false "Termo de busca"
// @Success 200 {object} PersonListResponse
// @Failure 400 {object} ErrorResponse "Parâmetros inválidos"
// @Failure 401 {object} middleware.UnauthorizedResponse
// @Failure 502 {object} BackendErrorResponse
// @Router /people [get]
func (h *PeopleHandlers) ListPeople(c *gin.Context) {
	dir, ok := h.directory(c)
	if !ok {
		return
	}

	ctx, span := utils.TraceStep(c.Request.Context(), "list_people", nil)
	defer span.End()

	params, err := services.ParsePaginationParams(c.Query("page"), c.Query("limit"), c.Query("q"))
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	page, err := dir.Search(ctx, params.Search, params)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		respondError(c, h.cookies, err, "")
		return
	}

	data := make([]models.PersonResponse, 0, len(page.Data))
	for _, p := range page.Data {
		data = append(data, models.NewPersonResponse(p))
	}
	utils.AddSpanAttribute(span, "results_count", len(data))

	c.JSON(http.StatusOK, PersonListResponse{
		Data:        data,
		Page:        page.Page,
		Limit:       page.Limit,
		Total:       page.Total,
		TotalPages:  page.TotalPages,
		HasPrevious: page.HasPrevious,
		HasNext:     page.HasNext,
		Search:      params.Search,
		Window:      services.PageWindowFor(*page),
	})
}

// GetPerson godoc
// @Summary Obter pessoa
// @Tags people
// @Produce json
// @Param id path string true "ID da pessoa"
// @Success 200 {object} models.PersonResponse
// @Failure 401 {object} middleware.UnauthorizedResponse
// @Failure 404 {object} BackendErrorResponse
// @Router /people/{id} [get]
func (h *PeopleHandlers) GetPerson(c *gin.Context) {
	dir, ok := h.directory(c)
	if !ok {
		return
	}

	p, err := dir.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.cookies, err, "")
		return
	}
	c.JSON(http.StatusOK, models.NewPersonResponse(*p))
}

// CreatePerson godoc
// @Summary Cadastrar pessoa
// @Description Valida o formulário (incluindo o CPF) antes de enviar ao backend
// @Tags people
// @Accept json
// @Produce json
// @Param person body models.Person true "Pessoa"
// @Success 201 {object} PersonMutationResponse
// @Failure 400 {object} PersonMutationResponse "Campos inválidos"
// @Failure 401 {object} middleware.UnauthorizedResponse
// @Failure 409 {object} BackendErrorResponse
// @Router /people [post]
func (h *PeopleHandlers) CreatePerson(c *gin.Context) {
	dir, ok := h.directory(c)
	if !ok {
		return
	}

	var draft models.Person
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	draft.ID = ""

	form := personform.New(draft, h.formOptions(dir, personform.ModeCreate))
	h.submit(c, form, http.StatusCreated, func(ctx context.Context, p models.Person) (*models.Person, error) {
		return dir.Add(ctx, p)
	})
}

// UpdatePerson godoc
// @Summary Atualizar pessoa
// @Tags people
// @Accept json
// @Produce json
// @Param id path string true "ID da pessoa"
// @Param person body models.Person true "Pessoa"
// @Success 200 {object} PersonMutationResponse
// @Failure 400 {object} PersonMutationResponse "Campos inválidos"
// @Failure 401 {object} middleware.UnauthorizedResponse
// @Failure 404 {object} BackendErrorResponse
// @Router /people/{id} [put]
func (h *PeopleHandlers) UpdatePerson(c *gin.Context) {
	dir, ok := h.directory(c)
	if !ok {
		return
	}

	var draft models.Person
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	id := c.Param("id")
	draft.ID = id

	form := personform.New(draft, h.formOptions(dir, personform.ModeEdit))
	h.submit(c, form, http.StatusOK, func(ctx context.Context, p models.Person) (*models.Person, error) {
		return dir.Update(ctx, id, p)
	})
}

// DeletePerson godoc
// @Summary Excluir pessoa
// @Tags people
// @Produce json
// @Param id path string true "ID da pessoa"
// @Success 200 {object} PersonMutationResponse
// @Failure 401 {object} middleware.UnauthorizedResponse
// @Failure 404 {object} BackendErrorResponse
// @Router /people/{id} [delete]
func (h *PeopleHandlers) DeletePerson(c *gin.Context) {
	dir, ok := h.directory(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := dir.Delete(c.Request.Context(), id); err != nil {
		h.logger.Warn("failed to delete person", zap.String("person_id", id), zap.Error(err))
		respondError(c, h.cookies, err, models.MsgDeleteError)
		return
	}
	c.JSON(http.StatusOK, PersonMutationResponse{Notification: models.SuccessNotification(models.MsgPersonDeleted)})
}

func (h *PeopleHandlers) formOptions(dir *services.PersonDirectory, mode personform.Mode) personform.Options {
	return personform.Options{
		Mode:   mode,
		Now:    h.now,
		MinAge: h.minAge,
		Unique: dir.IsCPFUnique,
		Logger: h.logger,
	}
}

// submit runs the form pipeline; the backend is only called for a clean draft
func (h *PeopleHandlers) submit(c *gin.Context, form *personform.Form, okStatus int, fn personform.SubmitFunc) {
	res := form.Submit(c.Request.Context(), fn)
	switch {
	case res.Err == nil:
		person := models.NewPersonResponse(*res.Person)
		observability.Logger().Info("person saved",
			zap.String("mode", string(form.Mode())),
			zap.String("person_id", person.ID),
			zap.String("cpf", observability.MaskCPF(person.CPF)))
		c.JSON(okStatus, PersonMutationResponse{Person: &person, Notification: res.Notification})
	case len(res.Errors) > 0:
		c.JSON(http.StatusBadRequest, PersonMutationResponse{Errors: res.Errors})
	default:
		respondError(c, h.cookies, res.Err, "")
	}
}
