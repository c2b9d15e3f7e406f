package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice-service/internal/model"
)

func (h *Handler) listRouteGroups(c *gin.Context) {
	groups, err := h.routeService.ListGroups(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("route groups retrieved", groups))
}

func (h *Handler) getRouteGroup(c *gin.Context) {
	id, ok := stringParam(c, "id")
	if !ok {
		return
	}
	group, source, err := h.routeService.GetGroup(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sourcedResponse("route group", source, group))
}

func (h *Handler) createRouteGroup(c *gin.Context) {
	var req model.CreateRouteGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	group, err := h.routeService.CreateGroup(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("route group created", group))
}

func (h *Handler) updateRouteGroup(c *gin.Context) {
	id, ok := stringParam(c, "id")
	if !ok {
		return
	}
	if err := h.routeService.GroupExists(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	var req model.UpdateRouteGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	group, err := h.routeService.UpdateGroup(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("route group updated", group))
}

func (h *Handler) deleteRouteGroup(c *gin.Context) {
	id, ok := stringParam(c, "id")
	if !ok {
		return
	}
	if err := h.routeService.DeleteGroup(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("route group deleted", nil))
}

func (h *Handler) listRoutes(c *gin.Context) {
	groupID, ok := stringParam(c, "id")
	if !ok {
		return
	}
	routes, err := h.routeService.ListRoutes(c.Request.Context(), groupID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("routes retrieved", routes))
}

func routeParams(c *gin.Context) (string, string, bool) {
	groupID, ok := stringParam(c, "id")
	if !ok {
		return "", "", false
	}
	routeID, ok := stringParam(c, "routeId")
	if !ok {
		return "", "", false
	}
	return groupID, routeID, true
}

func (h *Handler) getRoute(c *gin.Context) {
	groupID, routeID, ok := routeParams(c)
	if !ok {
		return
	}
	route, source, err := h.routeService.GetRoute(c.Request.Context(), groupID, routeID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sourcedResponse("route", source, route))
}

func (h *Handler) createRoute(c *gin.Context) {
	groupID, ok := stringParam(c, "id")
	if !ok {
		return
	}
	var req model.RouteRequest
	if !bindJSON(c, &req) {
		return
	}
	route, err := h.routeService.CreateRoute(c.Request.Context(), groupID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("route created", route))
}

func (h *Handler) updateRoute(c *gin.Context) {
	groupID, routeID, ok := routeParams(c)
	if !ok {
		return
	}
	if err := h.routeService.RouteExists(c.Request.Context(), groupID, routeID); err != nil {
		h.handleError(c, err)
		return
	}

	var req model.UpdateRouteRequest
	if !bindJSON(c, &req) {
		return
	}
	route, err := h.routeService.UpdateRoute(c.Request.Context(), groupID, routeID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("route updated", route))
}

func (h *Handler) deleteRoute(c *gin.Context) {
	groupID, routeID, ok := routeParams(c)
	if !ok {
		return
	}
	if err := h.routeService.DeleteRoute(c.Request.Context(), groupID, routeID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("route deleted", nil))
}
