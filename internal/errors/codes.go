package errors

// Error code constants returned in API responses.
// Format: CATEGORY_SPECIFIC_DETAIL. The web client maps these to
// user-facing messages.

const (
	// Authentication (AUTH_)
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// Authorization (AUTHZ_)
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzSellerOnly   = "AUTHZ_SELLER_ONLY"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"

	// Validation (VALIDATION_)
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"

	// Resources (RESOURCE_)
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// Marketplace (PRODUCT_/CART_/WISHLIST_/ORDER_)
	ProductNotFound       = "PRODUCT_NOT_FOUND"
	ProductOutOfStock     = "PRODUCT_OUT_OF_STOCK"
	CartItemNotFound      = "CART_ITEM_NOT_FOUND"
	WishlistItemNotFound  = "WISHLIST_ITEM_NOT_FOUND"
	OrderNotFound         = "ORDER_NOT_FOUND"
	OrderEmptyCart        = "ORDER_EMPTY_CART"
	SellerProfileNotFound = "SELLER_PROFILE_NOT_FOUND"
	SellerProfileExists   = "SELLER_PROFILE_EXISTS"

	// Generation (GENERATE_)
	GenerateNotConfigured = "GENERATE_NOT_CONFIGURED"
	GenerateFailed        = "GENERATE_FAILED"
	GeocodeFailed         = "GEOCODE_FAILED"

	// Upload (UPLOAD_)
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// Internal (INTERNAL_)
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
