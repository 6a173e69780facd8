package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a storage or transport error into a code/message pair,
// hiding anything sensitive while keeping the response actionable.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: notFoundCode(context), Message: notFoundMessage(context)}
	}

	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		if strings.Contains(errStr, "sku") {
			return ErrorInfo{Code: ProductSKUExists, Message: "A product with this SKU already exists"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "This record already exists"}
	}

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An upstream service is unreachable. Please try again shortly",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: "Something went wrong. Please try again later"}
}

func notFoundCode(context string) string {
	contextLower := strings.ToLower(context)
	if strings.Contains(contextLower, "product") {
		return ProductNotFound
	}
	if strings.Contains(contextLower, "order") {
		return OrderNotFound
	}
	return InternalServerError
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	if strings.Contains(contextLower, "product") {
		return "Product not found"
	}
	if strings.Contains(contextLower, "order") {
		return "Order not found"
	}
	return "The requested record was not found"
}
