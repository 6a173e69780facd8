package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The mobile and back-office clients map these codes to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthCodeInvalid        = "AUTH_CODE_INVALID"
	AuthCodeExpired        = "AUTH_CODE_EXPIRED"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Catalog (PRODUCT_) ====================
	ProductNotFound      = "PRODUCT_NOT_FOUND"
	ProductSKUExists     = "PRODUCT_SKU_EXISTS"
	ProductFetchFailed   = "PRODUCT_FETCH_FAILED"
	ProductInvalidPrice  = "PRODUCT_INVALID_PRICE"
	ProductInvalidGST    = "PRODUCT_INVALID_GST"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound         = "ORDER_NOT_FOUND"
	OrderEmptyCart        = "ORDER_EMPTY_CART"
	OrderBelowMinQuantity = "ORDER_BELOW_MIN_QUANTITY"
	OrderUnknownSKU       = "ORDER_UNKNOWN_SKU"
	OrderInvalidStatus    = "ORDER_INVALID_STATUS"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
