package observability

import (
	"strings"

	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/utils"
)

// Logger returns the global safe logger instance
func Logger() *logging.SafeLogger {
	return logging.Logger
}

// MaskCPF masks a CPF for logging. Punctuation is ignored; anything that is
// not 11 digits is fully masked.
func MaskCPF(cpf string) string {
	cpf = utils.CleanCPF(cpf)
	if len(cpf) != 11 {
		return "***.***.***-**"
	}
	return cpf[:3] + ".***" + "." + cpf[6:9] + "-**"
}

// MaskEmail keeps the first character of the local part and the domain
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	switch {
	case email == "":
		return ""
	case at < 0:
		return "***"
	case at == 0:
		return "***" + email
	}
	return email[:1] + "***" + email[at:]
}

// MaskSensitiveData masks sensitive person fields in a map
func MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	sensitiveFields := []string{"cpf", "email", "dataNascimento", "password", "access_token"}
	masked := make(map[string]interface{})

	for k, v := range data {
		if contains(sensitiveFields, k) {
			masked[k] = "********"
		} else {
			masked[k] = v
		}
	}

	return masked
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
