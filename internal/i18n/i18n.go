// Package i18n translates user-facing messages and view copy.
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
		messages: defaultMessages,
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the message for key in locale, falling back to
// DefaultLocale and finally to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Supported reports whether locale has a message table.
func (t *Translator) Supported(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// GetLocale picks the first supported language of the Accept-Language
// header, e.g. "pt" for "fr-FR,pt-BR;q=0.8". Quality values are not ranked;
// browsers already send languages in preference order.
func GetLocale(c *gin.Context) string {
	return ParseAcceptLanguage(c.GetHeader(AcceptLanguageHeader))
}

// ParseAcceptLanguage resolves an Accept-Language value to a supported locale.
func ParseAcceptLanguage(header string) string {
	if header == "" {
		return DefaultLocale
	}
	translator := GetTranslator()
	for _, part := range strings.Split(header, ",") {
		lang := strings.TrimSpace(strings.Split(part, ";")[0])
		if idx := strings.Index(lang, "-"); idx > 0 {
			lang = lang[:idx]
		}
		lang = strings.ToLower(lang)
		if translator.Supported(lang) {
			return lang
		}
	}
	return DefaultLocale
}

var defaultMessages = map[string]map[string]string{
	"en": {
		ErrKeyInvalidRequest:     "Invalid request",
		ErrKeyInvalidRequestBody: "Invalid request body",
		ErrKeyInvalidProductID:   "product_id: must be a positive integer",
		ErrKeyInternalError:      "An unexpected error occurred",
		ErrKeyNotFound:           "Not found",
		ErrKeyProductNotFound:    "Product not found",
		ErrKeyRateLimitExceeded:  "Too many requests, please try again later",
		ErrKeyConflict:           "Conflict",
		ErrKeyTimeout:            "Request timed out",
		ErrKeyServiceUnavailable: "Service temporarily unavailable",

		SuccessKeyItemAdded: "Item added to cart",

		ViewKeyTitle:          "Green Haven",
		ViewKeyNavHome:        "Home",
		ViewKeyNavProducts:    "Products",
		ViewKeyNavCart:        "Cart",
		ViewKeyLandingHeading: "Welcome to Green Haven",
		ViewKeyLandingTagline: "Your one-stop shop for the best houseplants.",
		ViewKeyGetStarted:     "Get Started",
		ViewKeyProductsTitle:  "Our Plants",
		ViewKeyAddToCart:      "Add to Cart",
		ViewKeyCartHeading:    "Shopping Cart",
		ViewKeyCartEmpty:      "Your cart is empty.",
		ViewKeyTotalItems:     "Total Items",
		ViewKeyTotalPrice:     "Total Price",
	},
	"pt": {
		ErrKeyInvalidRequest:     "Requisição inválida",
		ErrKeyInvalidRequestBody: "Corpo da requisição inválido",
		ErrKeyInvalidProductID:   "product_id: deve ser um inteiro positivo",
		ErrKeyInternalError:      "Ocorreu um erro inesperado",
		ErrKeyNotFound:           "Não encontrado",
		ErrKeyProductNotFound:    "Produto não encontrado",
		ErrKeyRateLimitExceeded:  "Muitas requisições, tente novamente mais tarde",
		ErrKeyConflict:           "Conflito",
		ErrKeyTimeout:            "Tempo da requisição esgotado",
		ErrKeyServiceUnavailable: "Serviço temporariamente indisponível",

		SuccessKeyItemAdded: "Item adicionado ao carrinho",

		ViewKeyTitle:          "Green Haven",
		ViewKeyNavHome:        "Início",
		ViewKeyNavProducts:    "Produtos",
		ViewKeyNavCart:        "Carrinho",
		ViewKeyLandingHeading: "Bem-vindo à Green Haven",
		ViewKeyLandingTagline: "Sua loja completa das melhores plantas de interior.",
		ViewKeyGetStarted:     "Começar",
		ViewKeyProductsTitle:  "Nossas Plantas",
		ViewKeyAddToCart:      "Adicionar ao Carrinho",
		ViewKeyCartHeading:    "Carrinho de Compras",
		ViewKeyCartEmpty:      "Seu carrinho está vazio.",
		ViewKeyTotalItems:     "Total de Itens",
		ViewKeyTotalPrice:     "Preço Total",
	},
	"nl": {
		ErrKeyInvalidRequest:     "Ongeldig verzoek",
		ErrKeyInvalidRequestBody: "Ongeldige aanvraag body",
		ErrKeyInvalidProductID:   "product_id: moet een positief geheel getal zijn",
		ErrKeyInternalError:      "Er is een onverwachte fout opgetreden",
		ErrKeyNotFound:           "Niet gevonden",
		ErrKeyProductNotFound:    "Product niet gevonden",
		ErrKeyRateLimitExceeded:  "Te veel verzoeken, probeer het later opnieuw",
		ErrKeyConflict:           "Conflict",
		ErrKeyTimeout:            "Verzoek verlopen",
		ErrKeyServiceUnavailable: "Dienst tijdelijk niet beschikbaar",

		SuccessKeyItemAdded: "Artikel toegevoegd aan winkelwagen",

		ViewKeyTitle:          "Green Haven",
		ViewKeyNavHome:        "Home",
		ViewKeyNavProducts:    "Producten",
		ViewKeyNavCart:        "Winkelwagen",
		ViewKeyLandingHeading: "Welkom bij Green Haven",
		ViewKeyLandingTagline: "Dé winkel voor de beste kamerplanten.",
		ViewKeyGetStarted:     "Aan de slag",
		ViewKeyProductsTitle:  "Onze Planten",
		ViewKeyAddToCart:      "In winkelwagen",
		ViewKeyCartHeading:    "Winkelwagen",
		ViewKeyCartEmpty:      "Je winkelwagen is leeg.",
		ViewKeyTotalItems:     "Totaal Artikelen",
		ViewKeyTotalPrice:     "Totaalprijs",
	},
}
