package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/voozea/voozea/internal/auth/domain"
	businessdomain "github.com/voozea/voozea/internal/business/domain"
	categorydomain "github.com/voozea/voozea/internal/category/domain"
	entitydomain "github.com/voozea/voozea/internal/entity/domain"
	notificationdomain "github.com/voozea/voozea/internal/notification/domain"
	productdomain "github.com/voozea/voozea/internal/product/domain"
	profiledomain "github.com/voozea/voozea/internal/profile/domain"
	ratingdomain "github.com/voozea/voozea/internal/rating/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionNotFound),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isForbiddenError(err):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrWeakPassword),
		errors.Is(err, profiledomain.ErrInvalidUsername),
		errors.Is(err, entitydomain.ErrQueryTooShort),
		errors.Is(err, entitydomain.ErrSelfFollow),
		errors.Is(err, businessdomain.ErrInvalidName),
		errors.Is(err, businessdomain.ErrInvalidSlug),
		errors.Is(err, businessdomain.ErrClaimReasonTooShort),
		errors.Is(err, businessdomain.ErrCannotInviteSelf),
		errors.Is(err, categorydomain.ErrInvalidCategoryType),
		errors.Is(err, categorydomain.ErrInvalidCategoryName),
		errors.Is(err, categorydomain.ErrParentTypeMismatch),
		errors.Is(err, categorydomain.ErrDefaultNotProduct),
		errors.Is(err, categorydomain.ErrInvalidAttributeSchema),
		errors.Is(err, categorydomain.ErrAttributeInvalid),
		errors.Is(err, productdomain.ErrInvalidProductName),
		errors.Is(err, productdomain.ErrCategoryWrongType),
		errors.Is(err, ratingdomain.ErrScoreOutOfRange),
		errors.Is(err, ratingdomain.ErrEmptyComment):
		return true
	default:
		return false
	}
}

func isForbiddenError(err error) bool {
	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, entitydomain.ErrNotActable),
		errors.Is(err, businessdomain.ErrNotOwner),
		errors.Is(err, businessdomain.ErrNotActiveManager),
		errors.Is(err, productdomain.ErrNotManager),
		errors.Is(err, ratingdomain.ErrNotRatingOwner),
		errors.Is(err, ratingdomain.ErrNotCommentOwner),
		errors.Is(err, notificationdomain.ErrNotRecipient):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrEmailTaken),
		errors.Is(err, authdomain.ErrUsernameTaken),
		errors.Is(err, profiledomain.ErrUsernameTaken),
		errors.Is(err, entitydomain.ErrAlreadyFollowing),
		errors.Is(err, businessdomain.ErrSlugTaken),
		errors.Is(err, businessdomain.ErrAlreadyClaimed),
		errors.Is(err, businessdomain.ErrClaimExists),
		errors.Is(err, businessdomain.ErrClaimNotPending),
		errors.Is(err, businessdomain.ErrMembershipExists),
		errors.Is(err, businessdomain.ErrInviteNotPending),
		errors.Is(err, categorydomain.ErrCategorySlugTaken),
		errors.Is(err, categorydomain.ErrCategoryHasBusinesses),
		errors.Is(err, categorydomain.ErrCategoryHasProducts),
		errors.Is(err, categorydomain.ErrCategoryIsDefault),
		errors.Is(err, categorydomain.ErrCategoryHasChildren),
		errors.Is(err, productdomain.ErrProductSlugTaken),
		errors.Is(err, ratingdomain.ErrAlreadyLiked):
		return true
	default:
		return false
	}
}

// conflictMessage keeps the category delete guard informative: the error text
// names the blocking reference.
func conflictMessage(err error) string {
	switch {
	case errors.Is(err, categorydomain.ErrCategoryIsDefault),
		errors.Is(err, categorydomain.ErrCategoryHasBusinesses),
		errors.Is(err, categorydomain.ErrCategoryHasProducts),
		errors.Is(err, categorydomain.ErrCategoryHasChildren):
		return err.Error()
	default:
		return "conflict"
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, profiledomain.ErrProfileNotFound),
		errors.Is(err, entitydomain.ErrEntityNotFound),
		errors.Is(err, businessdomain.ErrBusinessNotFound),
		errors.Is(err, businessdomain.ErrClaimNotFound),
		errors.Is(err, businessdomain.ErrMembershipNotFound),
		errors.Is(err, categorydomain.ErrCategoryNotFound),
		errors.Is(err, productdomain.ErrProductNotFound),
		errors.Is(err, ratingdomain.ErrRatingNotFound),
		errors.Is(err, ratingdomain.ErrCommentNotFound),
		errors.Is(err, notificationdomain.ErrNotificationNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	if errors.Is(err, categorydomain.ErrAttributeInvalid) {
		return "invalid_attribute"
	}
	return rootErrorCode(err)
}

// rootErrorCode unwraps to the sentinel text so wrapped errors keep stable
// codes on the wire.
func rootErrorCode(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog maps handler errors to the logging middleware's
// error_type/error_code fields.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	status, payload := mapError(err)
	switch {
	case status >= 500:
		return "internal", payload.Type
	case status >= 400:
		return "client", payload.Type
	default:
		return "", ""
	}
}
