// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs decouple the HTTP layer from the domain model and carry the
// validation and serialization rules of the JSON API and HTML forms.
package dto

// AddToCartRequest is the body of POST /api/cart/items and the form posted by
// the catalog listing.
//
// @Description Request to add one unit of a product to the session cart
// @Example {"product_id": 1}
type AddToCartRequest struct {
	// ProductID identifies the catalog product to add.
	ProductID int `json:"product_id" form:"product_id" binding:"required" example:"1" minimum:"1"`
} // @name AddToCartRequest

// DefaultHistoryLimit is the page size of GET /api/cart/history.
const DefaultHistoryLimit = 20

// CartHistoryQuery pages through the session's add to cart history.
type CartHistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100" example:"20"`
	Skip  int `form:"skip" binding:"omitempty,min=0" example:"0"`
} // @name CartHistoryQuery

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrInvalidProductID is returned when product_id is not a positive integer.
	ErrInvalidProductID = &ValidationError{
		Field:   "product_id",
		Message: "must be a positive integer",
	}
)

// Validate performs custom validation on the request.
func (r *AddToCartRequest) Validate() error {
	if r.ProductID <= 0 {
		return ErrInvalidProductID
	}
	return nil
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
