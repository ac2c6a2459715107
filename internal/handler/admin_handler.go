package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Adelodunpeter25/url-shortener/internal/middleware"
	"github.com/Adelodunpeter25/url-shortener/internal/response"
	"github.com/Adelodunpeter25/url-shortener/internal/service"
)

type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{
		admin: admin,
	}
}

// Stats godoc
//
//	@Summary	System-wide statistics
//	@Produce	json
//	@Success	200	{object}	response.SystemStatsResponse
//	@Failure	403	{object}	response.ErrorResponse
//	@Router		/api/admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.SystemStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "server error"})
		return
	}

	var resp response.SystemStatsResponse
	resp.Users.Total = stats.TotalUsers
	resp.Users.Admins = stats.AdminUsers
	resp.Users.Recent = stats.RecentUsers
	resp.Links.Total = stats.TotalLinks
	resp.Links.Anonymous = stats.AnonymousLinks
	resp.Links.Expired = stats.ExpiredLinks
	resp.Links.PasswordProtected = stats.PasswordProtected
	resp.Links.Recent = stats.RecentLinks
	resp.Clicks.Total = stats.TotalClicks
	resp.Clicks.Recent = stats.RecentClicks

	c.JSON(http.StatusOK, resp)
}

// Users godoc
//
//	@Summary	List all accounts with link and click totals
//	@Produce	json
//	@Param		page		query	int	false	"Page number"
//	@Param		per_page	query	int	false	"Page size (max 100)"
//	@Success	200
//	@Router		/api/admin/users [get]
func (h *AdminHandler) Users(c *gin.Context) {
	page, perPage := pageQuery(c)
	users, total, err := h.admin.ListUsers(page, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "server error"})
		return
	}

	out := make([]response.AdminUserResponse, len(users))
	for i, u := range users {
		out[i] = response.AdminUserResponse{
			UserResponse: userResponse(&u.User),
			URLCount:     u.LinkCount,
			TotalClicks:  u.TotalClicks,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"users":      out,
		"pagination": pagination(page, perPage, 20, total),
	})
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateUserRole godoc
//
//	@Summary	Promote or demote an account
//	@Accept		json
//	@Produce	json
//	@Param		id		path	string				true	"User ID"
//	@Param		role	body	UpdateRoleRequest	true	"New role"
//	@Success	200
//	@Failure	400	{object}	response.ErrorResponse
//	@Failure	404	{object}	response.ErrorResponse
//	@Router		/api/admin/users/{id}/role [put]
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "user not found"})
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "role is required"})
		return
	}

	actor := middleware.CurrentUser(c)
	user, err := h.admin.UpdateUserRole(*actor, targetID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrSelfDemotion):
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "user " + user.Username + " role updated to " + user.Role,
		"user":    userResponse(user),
	})
}

// URLs godoc
//
//	@Summary	List all links with owner information
//	@Produce	json
//	@Param		page		query	int	false	"Page number"
//	@Param		per_page	query	int	false	"Page size (max 100)"
//	@Success	200
//	@Router		/api/admin/urls [get]
func (h *AdminHandler) URLs(c *gin.Context) {
	page, perPage := pageQuery(c)
	links, total, err := h.admin.ListLinks(page, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "server error"})
		return
	}

	now := time.Now()
	out := make([]response.AdminLinkResponse, len(links))
	for i := range links {
		link := &links[i]
		owner := "Anonymous"
		if link.User != nil {
			owner = link.User.Username
		}
		out[i] = response.AdminLinkResponse{
			Code:        link.ShortCode,
			OriginalURL: link.OriginalURL,
			ClickCount:  link.ClickCount,
			CreatedAt:   link.CreatedAt,
			ExpiresAt:   link.ExpiresAt,
			IsExpired:   link.Expired(now),
			HasPassword: link.HasPassword(),
			Owner:       owner,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"urls":       out,
		"pagination": pagination(page, perPage, 50, total),
	})
}

// DeleteURL godoc
//
//	@Summary	Delete any link, owner or not
//	@Produce	json
//	@Param		code	path	string	true	"Short code"
//	@Success	200
//	@Failure	404	{object}	response.ErrorResponse
//	@Router		/api/admin/urls/{code} [delete]
func (h *AdminHandler) DeleteURL(c *gin.Context) {
	code := c.Param("code")
	link, err := h.admin.DeleteLink(code)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error(), Kind: KindNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "url " + code + " deleted",
		"deleted_url": link.OriginalURL,
	})
}

func pageQuery(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "0"))
	return page, perPage
}

func pagination(page, perPage, def int, total int64) response.Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = def
	}
	if perPage > 100 {
		perPage = 100
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return response.Pagination{Page: page, Pages: pages, PerPage: perPage, Total: total}
}
