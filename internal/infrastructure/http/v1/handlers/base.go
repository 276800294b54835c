// Package handlers provides the HTTP handler set.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/session"
	"assettrack/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Session returns the actor session from request context, never nil.
func (h *BaseHandler) Session(c *gin.Context) *session.Session {
	if s := session.Get(c.Request.Context()); s != nil {
		return s
	}
	return &session.Session{}
}

// Created sends 201 response with ID.
func (h *BaseHandler) Created(c *gin.Context, id string) {
	c.JSON(http.StatusCreated, dto.IDResponse{ID: id})
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Success sends success response.
func (h *BaseHandler) Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: message})
}
