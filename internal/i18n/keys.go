package i18n

// Error message translation keys.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInvalidProductID   = "error.validation.product_id"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyProductNotFound    = "error.product_not_found"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyConflict           = "error.conflict"
	ErrKeyTimeout            = "error.timeout"
	ErrKeyServiceUnavailable = "error.service_unavailable"
)

// Success message translation keys.
const (
	SuccessKeyItemAdded = "success.item_added"
)

// View copy translation keys.
const (
	ViewKeyTitle          = "view.title"
	ViewKeyNavHome        = "view.nav.home"
	ViewKeyNavProducts    = "view.nav.products"
	ViewKeyNavCart        = "view.nav.cart"
	ViewKeyLandingHeading = "view.landing.heading"
	ViewKeyLandingTagline = "view.landing.tagline"
	ViewKeyGetStarted     = "view.landing.get_started"
	ViewKeyProductsTitle  = "view.products.heading"
	ViewKeyAddToCart      = "view.products.add_to_cart"
	ViewKeyCartHeading    = "view.cart.heading"
	ViewKeyCartEmpty      = "view.cart.empty"
	ViewKeyTotalItems     = "view.cart.total_items"
	ViewKeyTotalPrice     = "view.cart.total_price"
)
