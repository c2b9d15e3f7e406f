package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice-service/internal/model"
)

func (h *Handler) listPlans(c *gin.Context) {
	plans, err := h.planService.ListAll(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("plans retrieved", plans))
}

func (h *Handler) plansByDateAndUser(c *gin.Context) {
	plans, source, err := h.planService.ByDateAndUser(c.Request.Context(), c.Query("date"), c.Query("assignedUserId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sourcedResponse("plans", source, plans))
}

func (h *Handler) getPlan(c *gin.Context) {
	id, ok := stringParam(c, "id")
	if !ok {
		return
	}
	plan, source, err := h.planService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sourcedResponse("plan", source, plan))
}

func (h *Handler) createPlan(c *gin.Context) {
	var req model.CreatePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.planService.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("plan created", plan))
}

func (h *Handler) updatePlan(c *gin.Context) {
	id, ok := stringParam(c, "id")
	if !ok {
		return
	}
	if err := h.planService.Exists(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	var req model.UpdatePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.planService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("plan updated", plan))
}

func (h *Handler) deletePlan(c *gin.Context) {
	id, ok := stringParam(c, "id")
	if !ok {
		return
	}
	if err := h.planService.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("plan deleted", nil))
}
