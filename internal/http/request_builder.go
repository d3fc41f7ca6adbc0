package http

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/guttosm/green-haven/internal/domain/dto"
	"github.com/guttosm/green-haven/internal/i18n"
	"github.com/guttosm/green-haven/internal/middleware"
)

// envelopePool recycles response envelopes; values come back zeroed.
type envelopePool[T any] struct{ p sync.Pool }

func (e *envelopePool[T]) get() *T {
	if v, ok := e.p.Get().(*T); ok {
		return v
	}
	return new(T)
}

func (e *envelopePool[T]) put(v *T) {
	var zero T
	*v = zero
	e.p.Put(v)
}

var (
	successEnvelopes envelopePool[dto.SuccessResponse]
	errorEnvelopes   envelopePool[dto.ErrorResponse]
)

func init() {
	// report fields by their wire name
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	}
}

// validationDetails maps the offending fields of a rejected request to
// what was wrong with them.
func validationDetails(err error) map[string]string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
		return details
	}
	var ve *dto.ValidationError
	if errors.As(err, &ve) {
		return map[string]string{ve.Field: ve.Message}
	}
	return nil
}

// RequestBuilder binds request payloads.
type RequestBuilder struct {
	c *gin.Context
}

// NewRequestBuilder creates a new request builder for the given context.
func NewRequestBuilder(c *gin.Context) *RequestBuilder {
	return &RequestBuilder{c: c}
}

// Bind unmarshals the JSON request body into v.
func (b *RequestBuilder) Bind(v interface{}) error {
	return b.c.ShouldBindJSON(v)
}

// BindForm decodes a url-encoded or multipart form into v.
func (b *RequestBuilder) BindForm(v interface{}) error {
	return b.c.ShouldBindWith(v, binding.Form)
}

// BindQuery decodes the query string into v.
func (b *RequestBuilder) BindQuery(v interface{}) error {
	return b.c.ShouldBindQuery(v)
}

// Validator interface for types that can validate themselves.
type Validator interface {
	Validate() error
}

// BuildRequest is a generic helper to build a request from the JSON body.
func BuildRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if err := NewRequestBuilder(c).Bind(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// BuildFormRequest is like BuildRequest for HTML form posts.
func BuildFormRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if err := NewRequestBuilder(c).BindForm(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// BuildQueryRequest is like BuildRequest for query parameters.
func BuildQueryRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if err := NewRequestBuilder(c).BindQuery(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// validate runs req's own validation when it has one.
func validate[T any](req *T) error {
	if validator, ok := any(req).(Validator); ok {
		return validator.Validate()
	}
	return nil
}

// ResponseBuilder writes the API envelopes.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success sends a successful response with the given data.
func (b *ResponseBuilder) Success(statusCode int, data interface{}) {
	resp := successEnvelopes.get()
	defer successEnvelopes.put(resp)

	*resp = dto.SuccessResponse{
		Data:      data,
		RequestID: middleware.GetRequestID(b.c),
		Timestamp: time.Now(),
	}
	// gin serializes synchronously, so the envelope is free once JSON returns
	b.c.JSON(statusCode, resp)
}

// SuccessOK sends a 200 OK response with the given data.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data)
}

// Error sends an error response with the given status code and message key.
// err is attached to the context so the ErrorHandler logs it.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	resp := errorEnvelopes.get()
	defer errorEnvelopes.put(resp)

	*resp = dto.ErrorResponse{
		Error:     dto.ErrCodeFromStatus(statusCode),
		Message:   i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(b.c)),
		RequestID: middleware.GetRequestID(b.c),
		Timestamp: time.Now(),
	}
	if err != nil {
		_ = b.c.Error(err)
		if statusCode == http.StatusBadRequest {
			resp.Details = validationDetails(err)
		}
	}
	b.c.AbortWithStatusJSON(statusCode, resp)
}
