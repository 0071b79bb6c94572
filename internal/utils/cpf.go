package utils

import "strings"

const cpfLength = 11

// CleanCPF strips every non-digit character from s.
func CleanCPF(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// ValidateCPF validates a CPF number
// It checks if the CPF has 11 digits and validates both check digits
func ValidateCPF(cpf string) bool {
	cpf = CleanCPF(cpf)

	if len(cpf) != cpfLength {
		return false
	}

	// Sequences like 111.111.111-11 pass the check digit test but are not issued
	allSame := true
	for i := 1; i < len(cpf); i++ {
		if cpf[i] != cpf[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	if cpfCheckDigit(cpf[:9], 10) != int(cpf[9]-'0') {
		return false
	}
	return cpfCheckDigit(cpf[:10], 11) == int(cpf[10]-'0')
}

// cpfCheckDigit computes (sum * 10) mod 11 over digits weighted from
// firstWeight down to 2. Results of 10 count as 0.
func cpfCheckDigit(digits string, firstWeight int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (firstWeight - i)
	}
	remainder := (sum * 10) % 11
	if remainder >= 10 {
		return 0
	}
	return remainder
}

// FormatCPF formats a possibly incomplete CPF while it is being typed:
// 123, 123.456, 123.456.789, 123.456.789-01. Digits past the 11th are dropped.
func FormatCPF(cpf string) string {
	cpf = CleanCPF(cpf)
	if len(cpf) > cpfLength {
		cpf = cpf[:cpfLength]
	}

	switch {
	case len(cpf) <= 3:
		return cpf
	case len(cpf) <= 6:
		return cpf[:3] + "." + cpf[3:]
	case len(cpf) <= 9:
		return cpf[:3] + "." + cpf[3:6] + "." + cpf[6:]
	default:
		return cpf[:3] + "." + cpf[3:6] + "." + cpf[6:9] + "-" + cpf[9:]
	}
}

// FormatCPFDisplay formats a complete CPF as 000.000.000-00.
// Anything that is not exactly 11 digits is returned cleaned but unformatted.
func FormatCPFDisplay(cpf string) string {
	cpf = CleanCPF(cpf)
	if len(cpf) != cpfLength {
		return cpf
	}
	return cpf[:3] + "." + cpf[3:6] + "." + cpf[6:9] + "-" + cpf[9:]
}
