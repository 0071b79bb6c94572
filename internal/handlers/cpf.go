package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/utils"
)

// CPF formatting modes
const (
	CPFModePartial = "partial"
	CPFModeDisplay = "display"
)

// CPFFormatResponse is a formatted CPF
type CPFFormatResponse struct {
	Formatted string `json:"formatted"`
}

// CPFValidateRequest carries the CPF to check
type CPFValidateRequest struct {
	CPF string `json:"cpf" binding:"required"`
}

// CPFValidateResponse is the outcome of a CPF check
type CPFValidateResponse struct {
	Valid     bool   `json:"valid"`
	Cleaned   string `json:"cleaned"`
	Formatted string `json:"formatted"`
	Message   string `json:"message,omitempty"`
}

// FormatCPF godoc
// @Summary Formatar CPF
// @Description partial aplica a máscara progressiva usada durante a digitação; display exige 11 dígitos
// @Tags cpf
// @Produce json
// @Param value query string true "CPF digitado"
// @Param mode query string false "Modo" Enums(partial, display)
// @Success 200 {object} CPFFormatResponse
// @Failure 400 {object} ErrorResponse "Modo inválido"
// @Router /cpf/format [get]
func FormatCPF(c *gin.Context) {
	value := c.Query("value")
	switch c.DefaultQuery("mode", CPFModePartial) {
	case CPFModePartial:
		c.JSON(http.StatusOK, CPFFormatResponse{Formatted: utils.FormatCPF(value)})
	case CPFModeDisplay:
		c.JSON(http.StatusOK, CPFFormatResponse{Formatted: utils.FormatCPFDisplay(value)})
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "mode must be partial or display"})
	}
}

// ValidateCPF godoc
// @Summary Validar CPF
// @Description Confere os dígitos verificadores do CPF
// @Tags cpf
// @Accept json
// @Produce json
// @Param body body CPFValidateRequest true "CPF"
// @Success 200 {object} CPFValidateResponse
// @Failure 400 {object} ErrorResponse "Corpo inválido"
// @Router /cpf/validate [post]
func ValidateCPF(c *gin.Context) {
	var req CPFValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	_, span := utils.TraceInputValidation(c.Request.Context(), "cpf", "cpf")
	valid := utils.ValidateCPF(req.CPF)
	utils.AddSpanAttribute(span, "valid", valid)
	span.End()

	resp := CPFValidateResponse{
		Valid:     valid,
		Cleaned:   utils.CleanCPF(req.CPF),
		Formatted: utils.FormatCPFDisplay(req.CPF),
	}
	if !valid {
		resp.Message = models.MsgInvalidCPF
	}
	c.JSON(http.StatusOK, resp)
}
