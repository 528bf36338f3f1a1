// redact маскирует чувствительные значения перед записью в лог.
package redact

import "strings"

// Email оставляет от локальной части не более двух символов.
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := parts[0], parts[1]
	if runes := []rune(local); len(runes) > 2 {
		local = string(runes[:2]) + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// Token показывает только первые символы токена — достаточно для
// сопоставления записей, бесполезно для предъявления.
func Token(s string) string {
	if len(s) <= 8 {
		return "[REDACTED_TOKEN]"
	}

	return s[:8] + "***"
}

func Password() string { return "[REDACTED_PASSWORD]" }
