package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/catalog/internal/entities"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// SuccessResponse is a standard success response.
type SuccessResponse struct {
	Message string `json:"message"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Detail: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Detail: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Error().Err(err).Str("context", context).Msg("Internal error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "internal server error"})
}

// respondStoreError maps repository errors to responses.
func respondStoreError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, entities.ErrBookNotFound):
		respondNotFound(c, "Book")
	case errors.Is(err, entities.ErrReviewNotFound):
		respondNotFound(c, "Review")
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// --- Parameter Parsing ---

// parseIDParam extracts an integer ID from URL parameters.
// Text that is not an integer gets a 400. An integer that no stored row can
// carry (zero, negative or past uint32) gets a 404 for resource.
func parseIDParam(c *gin.Context, paramName, resource string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			respondNotFound(c, resource)
			return 0, false
		}
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	if id <= 0 || id > math.MaxUint32 {
		respondNotFound(c, resource)
		return 0, false
	}
	return uint(id), true
}

// parseOptionalIntQuery reads an integer query parameter.
// Returns nil when the parameter is absent; responds with 400 and false when
// it is present but not an integer.
func parseOptionalIntQuery(c *gin.Context, paramName string) (*int, bool) {
	raw, present := c.GetQuery(paramName)
	if !present {
		return nil, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return nil, false
	}
	return &value, true
}

// optionalQuery returns a pointer to the query value, or nil when absent.
func optionalQuery(c *gin.Context, paramName string) *string {
	raw, present := c.GetQuery(paramName)
	if !present {
		return nil
	}
	return &raw
}

// bindErrorMessage turns a binding failure into a client-facing message.
func bindErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, fmt.Sprintf("%s is %s", fieldName(fe), fe.Tag()))
		}
		return strings.Join(fields, "; ")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type.String())
	}

	return "invalid request body"
}

// fieldName converts a struct field name such as PublicationYear to its JSON form.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
