package errors

// Códigos de error devueltos al frontend.
// Formato: CATEGORIA_DETALLE. El frontend traduce el código a su propio texto.

const (
	// ==================== Autenticación (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // requiere login
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // email o contraseña incorrectos
	AuthNotAdmin           = "AUTH_NOT_ADMIN"           // el usuario no está en admin_users
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token vencido
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // token inválido
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token revocado en logout

	// ==================== Autorización (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN" // sin permisos

	// ==================== Validación (VALIDATION_) ====================
	ValidationError         = "VALIDATION_ERROR"          // errores por campo
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // cuerpo mal formado
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // id no numérico
	ValidationInvalidFilter = "VALIDATION_INVALID_FILTER" // filtro de catálogo desconocido
	ValidationRequired      = "VALIDATION_REQUIRED"       // campo obligatorio

	// ==================== Recursos (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catálogo ====================
	ProductNotFound       = "PRODUCT_NOT_FOUND"
	CategoryNotFound      = "CATEGORY_NOT_FOUND"
	CategoryHasProducts   = "CATEGORY_HAS_PRODUCTS"   // no se puede borrar con productos
	CategoryAlreadyExists = "CATEGORY_ALREADY_EXISTS" // nombre repetido

	// ==================== Ventas ====================
	SaleNotFound      = "SALE_NOT_FOUND"
	SaleInvalidStatus = "SALE_INVALID_STATUS"

	// ==================== Mensajes y actividad ====================
	MessageNotFound  = "MESSAGE_NOT_FOUND"
	ActivityNotFound = "ACTIVITY_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"
	UploadUnavailable     = "UPLOAD_UNAVAILABLE" // storage no configurado

	// ==================== Errores internos (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
