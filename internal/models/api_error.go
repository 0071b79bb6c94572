package models

import (
	"errors"
	"strings"
)

// ErrorKind is the closed set of failures a backend call can produce.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindHTTP         ErrorKind = "http"
	KindTimeout      ErrorKind = "timeout"
	KindNetwork      ErrorKind = "network"
	KindUnauthorized ErrorKind = "unauthorized"
)

// Backend error codes carried in APIErrorResponse.Error.
const (
	ErrTypeRouteNotFound       = "ROUTE_NOT_FOUND"
	ErrTypeResourceNotFound    = "RESOURCE_NOT_FOUND"
	ErrTypeUserNotFound        = "USER_NOT_FOUND"
	ErrTypePersonNotFound      = "PERSON_NOT_FOUND"
	ErrTypeValidation          = "VALIDATION_ERROR"
	ErrTypeInvalidCPF          = "INVALID_CPF"
	ErrTypeInvalidEmail        = "INVALID_EMAIL"
	ErrTypeRequiredField       = "REQUIRED_FIELD"
	ErrTypeConflict            = "CONFLICT_ERROR"
	ErrTypePersonAlreadyExists = "PERSON_ALREADY_EXISTS"
	ErrTypeEmailAlreadyExists  = "EMAIL_ALREADY_EXISTS"
	ErrTypeInternal            = "INTERNAL_SERVER_ERROR"
	ErrTypeDatabase            = "DATABASE_ERROR"
	ErrTypeUnknown             = "UNKNOWN_ERROR"
	ErrTypeTimeout             = "TIMEOUT_ERROR"
	ErrTypeNetwork             = "NETWORK_ERROR"
	ErrTypeUnauthorized        = "UNAUTHORIZED"
)

var apiErrorMessages = map[string]string{
	ErrTypeRouteNotFound:       "Rota não encontrada",
	ErrTypeResourceNotFound:    "Recurso não encontrado",
	ErrTypeUserNotFound:        "Usuário não encontrado",
	ErrTypePersonNotFound:      "Pessoa não encontrada",
	ErrTypeValidation:          "Erro de validação",
	ErrTypeInvalidCPF:          "CPF inválido",
	ErrTypeInvalidEmail:        "E-mail inválido",
	ErrTypeRequiredField:       "Campo obrigatório não preenchido",
	ErrTypeConflict:            "Conflito de dados",
	ErrTypePersonAlreadyExists: "Pessoa já existe",
	ErrTypeEmailAlreadyExists:  "E-mail já existe",
	ErrTypeInternal:            "Erro interno do servidor",
	ErrTypeDatabase:            "Erro no banco de dados",
	ErrTypeUnknown:             "Erro desconhecido",
	ErrTypeTimeout:             "Timeout da requisição",
	ErrTypeNetwork:             "Erro de conexão",
	ErrTypeUnauthorized:        "Sessão expirada, faça login novamente",
}

// APIErrorResponse is the error payload returned by the backend.
type APIErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Error      string   `json:"error"`
	Message    []string `json:"message"`
	Timestamp  string   `json:"timestamp"`
	Path       string   `json:"path"`
}

// APIError is the typed failure of a backend call.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	ErrorType  string
	Messages   []string
	Path       string
	Err        error
}

func (e *APIError) Error() string {
	if len(e.Messages) > 0 {
		return strings.Join(e.Messages, ", ")
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.ErrorType
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// UserMessage returns the fixed human readable message for the error code.
// UNKNOWN_ERROR falls back to the first message sent by the backend.
func (e *APIError) UserMessage() string {
	if e.ErrorType == ErrTypeUnknown {
		if len(e.Messages) > 0 && e.Messages[0] != "" {
			return e.Messages[0]
		}
		return apiErrorMessages[ErrTypeInternal]
	}
	if msg, ok := apiErrorMessages[e.ErrorType]; ok {
		return msg
	}
	return apiErrorMessages[ErrTypeInternal]
}

// Response renders the error in the backend payload shape.
func (e *APIError) Response(timestamp string) APIErrorResponse {
	msgs := e.Messages
	if len(msgs) == 0 {
		msgs = []string{e.UserMessage()}
	}
	return APIErrorResponse{
		StatusCode: e.StatusCode,
		Error:      e.ErrorType,
		Message:    msgs,
		Timestamp:  timestamp,
		Path:       e.Path,
	}
}

// NewAPIErrorFromResponse classifies a decoded backend error payload.
func NewAPIErrorFromResponse(status int, payload APIErrorResponse) *APIError {
	if payload.StatusCode == 0 {
		payload.StatusCode = status
	}
	if payload.Error == "" {
		payload.Error = ErrTypeUnknown
	}
	kind := KindHTTP
	switch {
	case status == 401:
		kind = KindUnauthorized
	case status == 400 || status == 422:
		kind = KindValidation
	}
	return &APIError{
		Kind:       kind,
		StatusCode: payload.StatusCode,
		ErrorType:  payload.Error,
		Messages:   payload.Message,
		Path:       payload.Path,
	}
}

// NewTimeoutError builds the error reported when a backend call times out.
func NewTimeoutError(err error) *APIError {
	return &APIError{
		Kind:       KindTimeout,
		StatusCode: 408,
		ErrorType:  ErrTypeTimeout,
		Messages:   []string{apiErrorMessages[ErrTypeTimeout]},
		Err:        err,
	}
}

// NewNetworkError builds the error reported when the backend cannot be reached.
func NewNetworkError(err error) *APIError {
	return &APIError{
		Kind:       KindNetwork,
		StatusCode: 500,
		ErrorType:  ErrTypeNetwork,
		Messages:   []string{apiErrorMessages[ErrTypeNetwork]},
		Err:        err,
	}
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}

// UserMessageFor returns a displayable message for any error.
func UserMessageFor(err error) string {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.UserMessage()
	}
	return apiErrorMessages[ErrTypeUnknown]
}

// LoginErrorMessage returns the message shown when a login attempt fails.
func LoginErrorMessage(err error) string {
	apiErr, ok := AsAPIError(err)
	switch {
	case !ok:
		return MsgLoginError + ". Tente novamente."
	case apiErr.StatusCode == 401:
		return "Email ou senha incorretos"
	case apiErr.StatusCode == 400:
		return "Dados inválidos. Verifique suas credenciais."
	case apiErr.StatusCode >= 500:
		return "Erro no servidor. Tente novamente mais tarde."
	}
	return MsgLoginError + ". Tente novamente."
}
