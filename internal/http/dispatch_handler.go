package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice-service/internal/model"
)

func (h *Handler) listDispatchRoutes(c *gin.Context) {
	routes, err := h.dispatchService.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("routes retrieved", routes))
}

func (h *Handler) getDispatchRoute(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	route, source, err := h.dispatchService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sourcedResponse("route", source, route))
}

func (h *Handler) createDispatchRoute(c *gin.Context) {
	var req model.CreateDispatchRouteRequest
	if !bindJSON(c, &req) {
		return
	}
	route, err := h.dispatchService.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("route created", route))
}

func (h *Handler) updateDispatchRoute(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.dispatchService.Exists(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	var req model.UpdateDispatchRouteRequest
	if !bindJSON(c, &req) {
		return
	}
	route, err := h.dispatchService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("route updated", route))
}

func (h *Handler) deleteDispatchRoute(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.dispatchService.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("route deleted", nil))
}

func (h *Handler) listDrivers(c *gin.Context) {
	drivers, err := h.driverService.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("drivers retrieved", drivers))
}
