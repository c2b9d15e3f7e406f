package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"backoffice-service/internal/model"
	"backoffice-service/internal/service"
)

func userParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, validationResponse([]service.FieldError{{Path: "id", Message: "must be a valid UUID"}}))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("users retrieved", users))
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("user found", user))
}

func (h *Handler) createUser(c *gin.Context) {
	var req model.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), service.CreateUserInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("user created", user))
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}
	if _, err := h.userService.Get(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	var req model.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		req.Email = &email
	}

	user, err := h.userService.Update(c.Request.Context(), id, service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("user updated", user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("user deleted", nil))
}
