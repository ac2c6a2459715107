package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Adelodunpeter25/url-shortener/internal/middleware"
	"github.com/Adelodunpeter25/url-shortener/internal/models"
	"github.com/Adelodunpeter25/url-shortener/internal/response"
	"github.com/Adelodunpeter25/url-shortener/internal/service"
)

type APIKeyHandler struct {
	keys *service.APIKeyService
}

func NewAPIKeyHandler(keys *service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{
		keys: keys,
	}
}

type CreateKeyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=64"`
}

// Create godoc
//
//	@Summary	Issue a new API key (value shown only once)
//	@Accept		json
//	@Produce	json
//	@Param		key	body		CreateKeyRequest	true	"Key name"
//	@Success	201	{object}	response.APIKeyResponse
//	@Failure	400	{object}	response.ErrorResponse
//	@Router		/api/keys [post]
func (h *APIKeyHandler) Create(c *gin.Context) {
	var req CreateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "name is required"})
		return
	}

	id := middleware.CurrentUser(c)
	key, err := h.keys.Create(*id, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrKeyLimit) {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "maximum 5 active api keys allowed"})
			return
		}
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"api_key": keyResponse(key, true),
		"warning": "save this key securely, it won't be shown again",
	})
}

func (h *APIKeyHandler) List(c *gin.Context) {
	id := middleware.CurrentUser(c)
	keys, err := h.keys.List(*id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "server error"})
		return
	}

	out := make([]response.APIKeyResponse, len(keys))
	for i := range keys {
		out[i] = keyResponse(&keys[i], false)
	}
	c.JSON(http.StatusOK, gin.H{"api_keys": out, "total": len(out)})
}

func (h *APIKeyHandler) Delete(c *gin.Context) {
	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "api key not found"})
		return
	}

	id := middleware.CurrentUser(c)
	if err := h.keys.Delete(keyID, *id); err != nil {
		if errors.Is(err, service.ErrKeyNotFound) {
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "api key not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "api key deleted"})
}

func (h *APIKeyHandler) Toggle(c *gin.Context) {
	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "api key not found"})
		return
	}

	id := middleware.CurrentUser(c)
	key, err := h.keys.Toggle(keyID, *id)
	if err != nil {
		if errors.Is(err, service.ErrKeyNotFound) {
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "api key not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"api_key": keyResponse(key, false)})
}

// keyResponse redacts the key value except at creation time.
func keyResponse(key *models.APIKey, includeValue bool) response.APIKeyResponse {
	resp := response.APIKeyResponse{
		ID:        key.ID.String(),
		Name:      key.Name,
		IsActive:  key.IsActive,
		LastUsed:  key.LastUsed,
		CreatedAt: key.CreatedAt,
	}
	if includeValue {
		resp.Key = key.Key
	}
	return resp
}
