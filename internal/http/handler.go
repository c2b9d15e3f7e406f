package http

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"backoffice-service/internal/service"
)

type Services struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Plans    *service.PlanService
	Routes   *service.RouteService
	Dispatch *service.DispatchService
	Drivers  *service.DriverService
}

type Handler struct {
	authService     *service.AuthService
	userService     *service.UserService
	planService     *service.PlanService
	routeService    *service.RouteService
	dispatchService *service.DispatchService
	driverService   *service.DriverService
	secureCookie    bool
	log             zerolog.Logger
}

func NewHandler(services Services, secureCookie bool, log zerolog.Logger) *Handler {
	return &Handler{
		authService:     services.Auth,
		userService:     services.Users,
		planService:     services.Plans,
		routeService:    services.Routes,
		dispatchService: services.Dispatch,
		driverService:   services.Drivers,
		secureCookie:    secureCookie,
		log:             log,
	}
}

type responseEnvelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    interface{}          `json:"data,omitempty"`
	Source  service.Source       `json:"source,omitempty"`
	Errors  []service.FieldError `json:"errors,omitempty"`
}

func successResponse(message string, data interface{}) responseEnvelope {
	return responseEnvelope{Success: true, Message: message, Data: data}
}

// sourcedResponse names where a resolved entity came from.
func sourcedResponse(entity string, source service.Source, data interface{}) responseEnvelope {
	message := entity + " found in local database"
	if source == service.SourceExternal {
		message = entity + " found in external service"
	}
	return responseEnvelope{Success: true, Message: message, Data: data, Source: source}
}

func errorResponse(msg string) responseEnvelope {
	return responseEnvelope{Success: false, Message: msg}
}

func validationResponse(fields []service.FieldError) responseEnvelope {
	return responseEnvelope{Success: false, Message: "validation failed", Errors: fields}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, validationResponse(verr.Fields))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorResponse(service.ErrInvalidCredentials.Error()))
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, errorResponse(service.ErrUnauthenticated.Error()))
	case errors.Is(err, service.ErrAccountDisabled), errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse("resource already exists"))
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, errorResponse(err.Error()))
	case errors.Is(err, service.ErrUpstream):
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("upstream error")
		c.JSON(http.StatusInternalServerError, errorResponse(service.ErrUpstream.Error()))
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

// recoverPanic answers a panicking request with the standard 500 envelope.
func (h *Handler) recoverPanic(c *gin.Context, recovered any) {
	h.log.Error().
		Interface("panic", recovered).
		Str("path", c.Request.URL.Path).
		Bytes("stack", debug.Stack()).
		Msg("recovered from panic")
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse("internal error"))
}

func routeNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorResponse("route not found"))
}

func methodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, errorResponse("method not allowed"))
}

// stringParam returns a trimmed path parameter, answering 400 when blank.
func stringParam(c *gin.Context, name string) (string, bool) {
	value := strings.TrimSpace(c.Param(name))
	if value == "" {
		c.JSON(http.StatusBadRequest, validationResponse([]service.FieldError{{Path: name, Message: "must not be blank"}}))
		return "", false
	}
	return value, true
}

// int64Param parses a positive numeric path parameter, answering 400 otherwise.
func int64Param(c *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || value <= 0 {
		c.JSON(http.StatusBadRequest, validationResponse([]service.FieldError{{Path: name, Message: "must be a positive integer"}}))
		return 0, false
	}
	return value, true
}
