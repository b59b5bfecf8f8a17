package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/loans"
	"github.com/mrlokans/librarian/internal/membership"
	"github.com/mrlokans/librarian/internal/validation"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // field failures for validation errors
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Codes ---

const (
	CodeValidation            = "validation_failed"
	CodeBookNotFound          = "book_not_found"
	CodeMemberNotFound        = "member_not_found"
	CodeLoanNotFound          = "loan_not_found"
	CodeMemberInactive        = "member_inactive"
	CodeBookUnavailable       = "book_unavailable"
	CodeLoanLimitExceeded     = "loan_limit_exceeded"
	CodeLoanAlreadyReturned   = "loan_already_returned"
	CodeDuplicateBook         = "duplicate_book"
	CodeDuplicateEmail        = "duplicate_email"
	CodeBookOnLoan            = "book_on_loan"
	CodeReconciliationPending = "reconciliation_pending"
)

// errorMappings is checked in order; the first matching sentinel wins.
var errorMappings = []struct {
	target error
	status int
	code   string
}{
	{loans.ErrBookNotFound, http.StatusNotFound, CodeBookNotFound},
	{catalog.ErrBookNotFound, http.StatusNotFound, CodeBookNotFound},
	{loans.ErrMemberNotFound, http.StatusNotFound, CodeMemberNotFound},
	{membership.ErrMemberNotFound, http.StatusNotFound, CodeMemberNotFound},
	{loans.ErrLoanNotFound, http.StatusNotFound, CodeLoanNotFound},
	{loans.ErrMemberInactive, http.StatusConflict, CodeMemberInactive},
	{loans.ErrBookUnavailable, http.StatusConflict, CodeBookUnavailable},
	{loans.ErrLoanLimitExceeded, http.StatusConflict, CodeLoanLimitExceeded},
	{loans.ErrLoanAlreadyReturned, http.StatusConflict, CodeLoanAlreadyReturned},
	{catalog.ErrDuplicateBook, http.StatusConflict, CodeDuplicateBook},
	{catalog.ErrBookOnLoan, http.StatusConflict, CodeBookOnLoan},
	{membership.ErrDuplicateEmail, http.StatusConflict, CodeDuplicateEmail},
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s) [request %s]: %v", context, requestID(c), err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondDomainError maps service and engine errors to status codes.
// Anything unrecognised is treated as an internal error.
func respondDomainError(c *gin.Context, err error, context string) {
	if errors.Is(err, validation.ErrValidation) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    CodeValidation,
			Details: validation.Details(err),
		})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			c.JSON(m.status, ErrorResponse{Error: err.Error(), Code: m.code})
			return
		}
	}

	respondInternalError(c, err, context)
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response.
func respondAccepted(c *gin.Context, message, code string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Code: code, Data: data})
}

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseBoolQuery reads an optional boolean query parameter.
func parseBoolQuery(c *gin.Context, name string) (value bool, ok bool) {
	raw := c.Query(name)
	if raw == "" {
		return false, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return false, false
	}
	return value, true
}
