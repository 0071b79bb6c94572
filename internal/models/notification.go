package models

import "time"

// NotificationType distinguishes success banners from error banners.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Display durations for each notification type.
const (
	SuccessDuration = 3 * time.Second
	ErrorDuration   = 5 * time.Second
)

// Fixed user-facing messages.
const (
	MsgPersonCreated  = "Pessoa cadastrada com sucesso!"
	MsgPersonUpdated  = "Pessoa atualizada com sucesso!"
	MsgPersonDeleted  = "Pessoa excluída com sucesso!"
	MsgRequiredField  = "Campo obrigatório"
	MsgInvalidEmail   = "E-mail inválido"
	MsgInvalidCPF     = "CPF inválido"
	MsgPersonNotFound = "Pessoa não encontrada"
	MsgNetworkError   = "Erro de conexão"
	MsgUnknownError   = "Erro desconhecido"
	MsgLoginError     = "Erro ao fazer login"
	MsgDeleteError    = "Erro ao excluir pessoa"
	MsgFillAllFields  = "Por favor, preencha todos os campos"
)

// Notification is a transient banner shown after an operation.
// Duration is expressed in milliseconds.
type Notification struct {
	Type     NotificationType `json:"type"`
	Message  string           `json:"message"`
	Duration int64            `json:"duration_ms"`
}

// SuccessNotification builds a success banner.
func SuccessNotification(message string) *Notification {
	return &Notification{Type: NotificationSuccess, Message: message, Duration: SuccessDuration.Milliseconds()}
}

// ErrorNotification builds an error banner.
func ErrorNotification(message string) *Notification {
	return &Notification{Type: NotificationError, Message: message, Duration: ErrorDuration.Milliseconds()}
}
