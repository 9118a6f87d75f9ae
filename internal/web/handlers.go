// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package web exposes the lifecycle service over HTTP.
//
// Every response uses the envelope {success, data, error}. The check route
// answers 200 with an empty success envelope whatever the outcome, so a
// caller cannot learn whether a value is a tracked token.
package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toeirei/redtoken/internal/model"
)

// Lifecycle is the part of core.Service the handlers use.
type Lifecycle interface {
	InjectToken(ctx context.Context, path, value string) (model.Honeytoken, error)
	CheckToken(ctx context.Context, value string) error
	ListTokens(ctx context.Context) ([]model.Honeytoken, error)
	GetToken(ctx context.Context, id string) (model.Honeytoken, error)
	RemoveToken(ctx context.Context, id string) error
}

// Response is the JSON envelope of every route.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CreateTokenRequest is the body of POST /api/tokens.
type CreateTokenRequest struct {
	FilePath string `json:"file_path" binding:"required"`
	Value    string `json:"value"`
	FileType string `json:"file_type"`
}

// Handler serves the token routes.
type Handler struct {
	svc Lifecycle
	// forType returns a Lifecycle that embeds with the given kind. Nil
	// means per-request kinds are rejected.
	forType func(model.FileType) Lifecycle
}

// NewHandler returns a Handler for svc. forType may be nil.
func NewHandler(svc Lifecycle, forType func(model.FileType) Lifecycle) *Handler {
	return &Handler{svc: svc, forType: forType}
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Success: false, Error: msg})
}

// failErr maps err to a status code by its kind.
func failErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch model.KindOf(err) {
	case model.KindTokenNotFound:
		status = http.StatusNotFound
	case model.KindTokenValidation, model.KindInvalidFileFormat:
		status = http.StatusBadRequest
	case model.KindUnauthorized:
		status = http.StatusUnauthorized
	}
	_ = c.Error(err)
	fail(c, status, err.Error())
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"status": "ok"})
}

// ListTokens handles GET /api/tokens.
func (h *Handler) ListTokens(c *gin.Context) {
	tokens, err := h.svc.ListTokens(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	if tokens == nil {
		tokens = []model.Honeytoken{}
	}
	ok(c, http.StatusOK, tokens)
}

// CreateToken handles POST /api/tokens.
func (h *Handler) CreateToken(c *gin.Context) {
	var req CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "file_path is required")
		return
	}

	svc := h.svc
	if req.FileType != "" {
		if h.forType == nil {
			fail(c, http.StatusBadRequest, "file_type is not supported by this server")
			return
		}
		svc = h.forType(model.ParseFileType(req.FileType))
	}

	token, err := svc.InjectToken(c.Request.Context(), req.FilePath, req.Value)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, token)
}

// GetToken handles GET /api/tokens/:id.
func (h *Handler) GetToken(c *gin.Context) {
	id := c.Param("id")
	if !model.IsValidID(id) {
		fail(c, http.StatusBadRequest, "invalid token id")
		return
	}
	token, err := h.svc.GetToken(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, token)
}

// DeleteToken handles DELETE /api/tokens/:id.
func (h *Handler) DeleteToken(c *gin.Context) {
	id := c.Param("id")
	if !model.IsValidID(id) {
		fail(c, http.StatusBadRequest, "invalid token id")
		return
	}
	if err := h.svc.RemoveToken(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, nil)
}

// Check handles GET /api/check?token=.
func (h *Handler) Check(c *gin.Context) {
	if v := c.Query("token"); v != "" {
		// The request context ends with the response; the check must not.
		_ = h.svc.CheckToken(context.WithoutCancel(c.Request.Context()), v)
	}
	ok(c, http.StatusOK, nil)
}

// NoRoute answers unknown paths inside the envelope.
func NoRoute(c *gin.Context) {
	fail(c, http.StatusNotFound, "not found")
}
