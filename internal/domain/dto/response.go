package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/green-haven/internal/domain/model"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeConflict indicates a conflict with current state.
	ErrCodeConflict = "conflict"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
	// ErrCodeUnavailable indicates a dependency is unavailable.
	ErrCodeUnavailable = "service_unavailable"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data contains the actual response data
	Data interface{} `json:"data" swaggertype:"object"`
	// RequestID is the unique request identifier
	RequestID string `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Timestamp is when the response was generated
	Timestamp time.Time `json:"timestamp" example:"2025-01-28T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error     string            `json:"error" example:"not_found"`
	Message   string            `json:"message,omitempty" example:"Product not found"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2025-01-28T10:00:00Z"`
} // @name ErrorResponse

// CartResponse is the JSON representation of a cart snapshot.
// @Description Session cart with derived totals
type CartResponse struct {
	Items      []model.LineItem `json:"items"`
	TotalItems int              `json:"total_items" example:"3"`
	TotalPrice float64          `json:"total_price" example:"35"`
} // @name CartResponse

// NewCartResponse builds the API view of a cart state.
func NewCartResponse(state model.CartState) CartResponse {
	items := state.Items
	if items == nil {
		items = []model.LineItem{}
	}
	return CartResponse{
		Items:      items,
		TotalItems: state.TotalItems(),
		TotalPrice: state.TotalPrice(),
	}
}

// CartHistoryEntry is one recorded add to cart of the session.
type CartHistoryEntry struct {
	Timestamp  time.Time `json:"timestamp" example:"2025-01-28T10:00:00Z"`
	ProductID  int       `json:"product_id" example:"1"`
	TotalItems int       `json:"total_items,omitempty" example:"3"`
	TotalPrice float64   `json:"total_price,omitempty" example:"35"`
	Error      string    `json:"error,omitempty"`
} // @name CartHistoryEntry

// CartHistoryResponse is a page of the session's add to cart history,
// newest first. Total counts every recorded entry of the session.
// @Description Add to cart history of the session
type CartHistoryResponse struct {
	Entries []CartHistoryEntry `json:"entries"`
	Total   int64              `json:"total" example:"7"`
} // @name CartHistoryResponse

// NewCartHistoryResponse builds the history page from audit entries.
func NewCartHistoryResponse(entries []model.LogEntry, total int64) CartHistoryResponse {
	resp := CartHistoryResponse{
		Entries: make([]CartHistoryEntry, 0, len(entries)),
		Total:   total,
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, CartHistoryEntry{
			Timestamp:  e.Timestamp,
			ProductID:  int(number(e.Fields["product_id"])),
			TotalItems: int(number(e.Fields["total_items"])),
			TotalPrice: number(e.Fields["total_price"]),
			Error:      e.Error,
		})
	}
	return resp
}

// number reads a numeric field whatever width the store decoded it as.
func number(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	case http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	default:
		return ErrCodeInternal
	}
}
