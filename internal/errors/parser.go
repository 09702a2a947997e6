package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a client-safe code and message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a database or infrastructure error into a user-facing
// message. Driver details never reach the client.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(context)}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}

	errLower := strings.ToLower(err.Error())

	// PostgreSQL 23505 / SQLite UNIQUE
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	// PostgreSQL 23503 / SQLite FOREIGN KEY
	if strings.Contains(errLower, "foreign key constraint") {
		return parseForeignKeyError(errLower)
	}

	// PostgreSQL 23502 / SQLite NOT NULL
	if strings.Contains(errLower, "not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "Falta un campo obligatorio"}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "No se pudo conectar con un servicio externo. Intentá de nuevo en unos minutos",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(context)}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "categories"):
		return ErrorInfo{Code: CategoryAlreadyExists, Message: "Ya existe una categoría con ese nombre"}
	case strings.Contains(errLower, "slug"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Ya existe un producto con ese identificador"}
	case strings.Contains(errLower, "admin_users") || strings.Contains(errLower, "email"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Ese email ya está registrado"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "El registro ya existe"}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "still referenced"):
		return ErrorInfo{Code: ResourceConflict, Message: "No se puede eliminar porque tiene datos asociados"}
	case strings.Contains(errLower, "category_id") || strings.Contains(errLower, "fk_products_category"):
		return ErrorInfo{Code: CategoryNotFound, Message: "La categoría no existe"}
	case strings.Contains(errLower, "product_id"):
		return ErrorInfo{Code: ProductNotFound, Message: "El producto no existe"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "Un dato referenciado no existe"}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "product"):
		return "Producto no encontrado"
	case strings.Contains(contextLower, "category"):
		return "Categoría no encontrada"
	case strings.Contains(contextLower, "sale"):
		return "Venta no encontrada"
	case strings.Contains(contextLower, "message"):
		return "Mensaje no encontrado"
	case strings.Contains(contextLower, "activity"):
		return "Registro de actividad no encontrado"
	}
	return "No se encontró el recurso solicitado"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Error al crear. Intentá de nuevo en unos minutos"
	case strings.Contains(contextLower, "update"):
		return "Error al actualizar. Intentá de nuevo en unos minutos"
	case strings.Contains(contextLower, "delete"):
		return "Error al eliminar. Intentá de nuevo en unos minutos"
	}
	return "Error del servidor. Intentá de nuevo en unos minutos"
}

// ParseAndRespond writes the parsed error with the given status.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
