package models

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPIErrorFromResponse_Kinds(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{400, KindValidation},
		{422, KindValidation},
		{401, KindUnauthorized},
		{403, KindHTTP},
		{404, KindHTTP},
		{409, KindHTTP},
		{500, KindHTTP},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := NewAPIErrorFromResponse(tt.status, APIErrorResponse{Error: ErrTypeValidation})
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.status, err.StatusCode, "status falls back to the HTTP status")
		})
	}
}

func TestNewAPIErrorFromResponse_DefaultsUnknown(t *testing.T) {
	err := NewAPIErrorFromResponse(500, APIErrorResponse{Message: []string{"boom"}})

	assert.Equal(t, ErrTypeUnknown, err.ErrorType)
	assert.Equal(t, "boom", err.UserMessage())
	assert.Equal(t, "boom", err.Error())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		errorType string
		messages  []string
		expected  string
	}{
		{ErrTypePersonNotFound, []string{"not found"}, "Pessoa não encontrada"},
		{ErrTypeInvalidCPF, nil, "CPF inválido"},
		{ErrTypePersonAlreadyExists, nil, "Pessoa já existe"},
		{ErrTypeEmailAlreadyExists, nil, "E-mail já existe"},
		{ErrTypeUnknown, []string{"backend specific"}, "backend specific"},
		{ErrTypeUnknown, nil, "Erro interno do servidor"},
		{"SOMETHING_NEW", nil, "Erro interno do servidor"},
	}

	for _, tt := range tests {
		t.Run(tt.errorType, func(t *testing.T) {
			err := &APIError{ErrorType: tt.errorType, Messages: tt.messages}
			assert.Equal(t, tt.expected, err.UserMessage())
		})
	}
}

func TestTimeoutAndNetworkErrors(t *testing.T) {
	timeout := NewTimeoutError(context.DeadlineExceeded)
	assert.Equal(t, KindTimeout, timeout.Kind)
	assert.Equal(t, 408, timeout.StatusCode)
	assert.Equal(t, "Timeout da requisição", timeout.UserMessage())
	assert.True(t, errors.Is(timeout, context.DeadlineExceeded))

	network := NewNetworkError(errors.New("connection refused"))
	assert.Equal(t, KindNetwork, network.Kind)
	assert.Equal(t, 500, network.StatusCode)
	assert.Equal(t, "Erro de conexão", network.UserMessage())
}

func TestAsAPIErrorAndIsKind(t *testing.T) {
	wrapped := fmt.Errorf("create person: %w", NewAPIErrorFromResponse(401, APIErrorResponse{}))

	apiErr, ok := AsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindUnauthorized, apiErr.Kind)
	assert.True(t, IsKind(wrapped, KindUnauthorized))
	assert.False(t, IsKind(wrapped, KindHTTP))

	_, ok = AsAPIError(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsKind(nil, KindHTTP))
}

func TestUserMessageFor(t *testing.T) {
	assert.Equal(t, "Erro de conexão", UserMessageFor(NewNetworkError(nil)))
	assert.Equal(t, "Erro desconhecido", UserMessageFor(errors.New("plain")))
}

func TestAPIError_Response(t *testing.T) {
	err := &APIError{StatusCode: 404, ErrorType: ErrTypePersonNotFound, Path: "/v1/people/3"}

	resp := err.Response("2024-01-01T00:00:00Z")

	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, ErrTypePersonNotFound, resp.Error)
	assert.Equal(t, []string{"Pessoa não encontrada"}, resp.Message)
	assert.Equal(t, "/v1/people/3", resp.Path)
	assert.Equal(t, "2024-01-01T00:00:00Z", resp.Timestamp)
}

func TestLoginErrorMessage(t *testing.T) {
	assert.Equal(t, "Email ou senha incorretos", LoginErrorMessage(NewAPIErrorFromResponse(401, APIErrorResponse{})))
	assert.Equal(t, "Dados inválidos. Verifique suas credenciais.", LoginErrorMessage(NewAPIErrorFromResponse(400, APIErrorResponse{})))
	assert.Equal(t, "Erro no servidor. Tente novamente mais tarde.", LoginErrorMessage(NewNetworkError(nil)))
	assert.Equal(t, "Erro ao fazer login. Tente novamente.", LoginErrorMessage(NewTimeoutError(nil)))
	assert.Equal(t, "Erro ao fazer login. Tente novamente.", LoginErrorMessage(errors.New("plain")))
}
