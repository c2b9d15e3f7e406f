package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"backoffice-service/internal/auth"
	"backoffice-service/internal/model"
)

func (h *Handler) login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, int(auth.TokenTTL.Seconds()))
	c.JSON(http.StatusOK, successResponse("login successful", result))
}

func (h *Handler) logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, successResponse("logged out", nil))
}

func (h *Handler) verify(c *gin.Context) {
	token, _ := c.Cookie(auth.CookieName)
	user, err := h.authService.Verify(c.Request.Context(), token)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("session is valid", gin.H{"user": user}))
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(auth.CookieName, value, maxAge, "/", "", h.secureCookie, true)
}
