// Package i18n translates user-facing error messages. The locale comes from
// the Accept-Language header.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	// defaultTranslator is the singleton translator instance.
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale if the locale is not found.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	msg, ok := localeMessages[key]
	if !ok {
		// Fallback to default locale
		if defaultMessages := t.messages[DefaultLocale]; defaultMessages != nil {
			if fallbackMsg, exists := defaultMessages[key]; exists {
				return fallbackMsg
			}
		}
		return key
	}

	return msg
}

// GetLocale extracts the locale from the gin context.
// Checks Accept-Language header and falls back to DefaultLocale.
func GetLocale(c *gin.Context) string {
	acceptLang := c.GetHeader(AcceptLanguageHeader)
	if acceptLang == "" {
		return DefaultLocale
	}

	// Parse Accept-Language header (e.g., "en-US,en;q=0.9,pt;q=0.8")
	parts := strings.Split(acceptLang, ",")
	if len(parts) > 0 {
		lang := strings.TrimSpace(strings.Split(parts[0], ";")[0])
		// Extract base language (e.g., "en" from "en-US")
		if idx := strings.Index(lang, "-"); idx > 0 {
			lang = lang[:idx]
		}
		// Normalize to lowercase
		lang = strings.ToLower(lang)
		// Validate it's a supported locale
		if _, ok := getDefaultMessages()[lang]; ok {
			return lang
		}
	}

	return DefaultLocale
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			"error.invalid_request":      "Invalid request",
			"error.invalid_request_body": "Invalid request body",
			"error.validation":           "Some fields are invalid",
			"error.internal_error":       "An unexpected error occurred",
			"error.unauthorized":         "Unauthorized",
			"error.api_key_required":     "API key is required",
			"error.invalid_api_key":      "Invalid API key",
			"error.forbidden":            "Forbidden",
			"error.not_found":            "Not found",
			"error.rate_limit_exceeded":  "Too many requests, please try again later",
			"error.conflict":             "Conflict",
			"error.invalid_token":        "Invalid or expired token",
			"error.token_required":       "Authentication token is required",
			"error.timeout":              "The request took too long",

			"error.session_not_found":         "Order session not found or expired",
			"error.order_not_found":           "Order not found",
			"error.upload_failed":             "The document could not be uploaded",
			"error.price_confirmation_failed": "The price could not be confirmed",
			"error.submission_failed":         "The order could not be submitted",
			"error.payment_check_failed":      "The payment status could not be checked",
			"error.invalid_transition":        "This action is not available at the current step",
			"error.step_requirements":         "Complete the current step before continuing",
			"error.transition_in_flight":      "Another action on this order is still in progress",
			"error.draft_locked":              "The order can no longer be changed after submission",
			"error.price_configuration":       "The price list is misconfigured",
			"error.order_api_unavailable":     "The order service is unavailable, please try again later",
			"error.status_change":             "The order cannot move to that status",
			"error.price_table_not_found":     "Price list version not found",
			"error.price_table_unavailable":   "Price list storage is not available",
		},
		"pt": {
			"error.invalid_request":      "Requisição inválida",
			"error.invalid_request_body": "Corpo da requisição inválido",
			"error.validation":           "Alguns campos são inválidos",
			"error.internal_error":       "Ocorreu um erro inesperado",
			"error.unauthorized":         "Não autorizado",
			"error.api_key_required":     "Chave de API é obrigatória",
			"error.invalid_api_key":      "Chave de API inválida",
			"error.forbidden":            "Proibido",
			"error.not_found":            "Não encontrado",
			"error.rate_limit_exceeded":  "Muitas requisições, tente novamente mais tarde",
			"error.conflict":             "Conflito",
			"error.invalid_token":        "Token inválido ou expirado",
			"error.token_required":       "Token de autenticação é obrigatório",
			"error.timeout":              "A requisição demorou demais",

			"error.session_not_found":         "Sessão do pedido não encontrada ou expirada",
			"error.order_not_found":           "Pedido não encontrado",
			"error.upload_failed":             "Não foi possível enviar o documento",
			"error.price_confirmation_failed": "Não foi possível confirmar o preço",
			"error.submission_failed":         "Não foi possível enviar o pedido",
			"error.payment_check_failed":      "Não foi possível verificar o pagamento",
			"error.invalid_transition":        "Esta ação não está disponível nesta etapa",
			"error.step_requirements":         "Conclua a etapa atual antes de continuar",
			"error.transition_in_flight":      "Outra ação neste pedido ainda está em andamento",
			"error.draft_locked":              "O pedido não pode mais ser alterado após o envio",
			"error.price_configuration":       "A tabela de preços está mal configurada",
			"error.order_api_unavailable":     "O serviço de pedidos está indisponível, tente novamente mais tarde",
			"error.status_change":             "O pedido não pode mudar para esse status",
			"error.price_table_not_found":     "Versão da tabela de preços não encontrada",
			"error.price_table_unavailable":   "O armazenamento da tabela de preços não está disponível",
		},
		"nl": {
			"error.invalid_request":      "Ongeldig verzoek",
			"error.invalid_request_body": "Ongeldige aanvraag body",
			"error.validation":           "Sommige velden zijn ongeldig",
			"error.internal_error":       "Er is een onverwachte fout opgetreden",
			"error.unauthorized":         "Niet geautoriseerd",
			"error.api_key_required":     "API-sleutel is vereist",
			"error.invalid_api_key":      "Ongeldige API-sleutel",
			"error.forbidden":            "Verboden",
			"error.not_found":            "Niet gevonden",
			"error.rate_limit_exceeded":  "Te veel verzoeken, probeer het later opnieuw",
			"error.conflict":             "Conflict",
			"error.invalid_token":        "Ongeldig of verlopen token",
			"error.token_required":       "Authenticatietoken is vereist",
			"error.timeout":              "Het verzoek duurde te lang",

			"error.session_not_found":         "Bestelsessie niet gevonden of verlopen",
			"error.order_not_found":           "Bestelling niet gevonden",
			"error.upload_failed":             "Het document kon niet worden geüpload",
			"error.price_confirmation_failed": "De prijs kon niet worden bevestigd",
			"error.submission_failed":         "De bestelling kon niet worden verzonden",
			"error.payment_check_failed":      "De betalingsstatus kon niet worden gecontroleerd",
			"error.invalid_transition":        "Deze actie is niet beschikbaar in de huidige stap",
			"error.step_requirements":         "Rond de huidige stap af voordat u verdergaat",
			"error.transition_in_flight":      "Er loopt nog een andere actie op deze bestelling",
			"error.draft_locked":              "De bestelling kan na verzending niet meer worden gewijzigd",
			"error.price_configuration":       "De prijslijst is onjuist geconfigureerd",
			"error.order_api_unavailable":     "De bestelservice is niet beschikbaar, probeer het later opnieuw",
			"error.status_change":             "De bestelling kan niet naar die status",
			"error.price_table_not_found":     "Prijslijstversie niet gevonden",
			"error.price_table_unavailable":   "Opslag van de prijslijst is niet beschikbaar",
		},
	}
}
