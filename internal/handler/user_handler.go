package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Adelodunpeter25/url-shortener/internal/middleware"
	"github.com/Adelodunpeter25/url-shortener/internal/models"
	"github.com/Adelodunpeter25/url-shortener/internal/response"
	"github.com/Adelodunpeter25/url-shortener/internal/service"
)

type UserHandler struct {
	users     *service.UserService
	links     *service.LinkService
	analytics *service.ClickService
}

func NewUserHandler(users *service.UserService, links *service.LinkService, analytics *service.ClickService) *UserHandler {
	return &UserHandler{
		users:     users,
		links:     links,
		analytics: analytics,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register godoc
//
//	@Summary	Register a new account
//	@Accept		json
//	@Produce	json
//	@Param		user	body		RegisterRequest	true	"Registration parameters"
//	@Success	201		{object}	response.RegisterResponse
//	@Failure	409		{object}	response.ErrorResponse
//	@Router		/api/auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "validation failed"})
		return
	}

	user, access, refresh, err := h.users.Register(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			c.JSON(http.StatusConflict, response.ErrorResponse{Error: "user already exists"})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, response.RegisterResponse{
		User: userResponse(user),
		TokenResponse: response.TokenResponse{
			AccessToken:  access,
			RefreshToken: refresh,
		},
	})
}

type LoginRequest struct {
	// Username also accepts the account email.
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// Login godoc
//
//	@Summary	Login with username or email
//	@Accept		json
//	@Produce	json
//	@Param		user	body		LoginRequest	true	"Login parameters"
//	@Success	200		{object}	response.TokenResponse
//	@Failure	401		{object}	response.ErrorResponse
//	@Router		/api/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "validation failed"})
		return
	}

	_, access, refresh, err := h.users.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidPassword):
			c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "invalid credentials"})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "server error"})
		}
		return
	}

	c.JSON(http.StatusOK, response.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *UserHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "validation failed"})
		return
	}

	access, refresh, err := h.users.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "invalid refresh token"})
			return
		}
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "server error"})
		return
	}

	c.JSON(http.StatusOK, response.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	id := middleware.CurrentUser(c)
	if id == nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "authentication required"})
		return
	}
	if err := h.users.Logout(*id); err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

func (h *UserHandler) Profile(c *gin.Context) {
	id := middleware.CurrentUser(c)
	user, err := h.users.Profile(*id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "user not found"})
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// MyURLs godoc
//
//	@Summary	List the caller's links
//	@Produce	json
//	@Success	200
//	@Router		/api/my/urls [get]
func (h *UserHandler) MyURLs(c *gin.Context) {
	id := middleware.CurrentUser(c)
	links, err := h.links.ListOwned(*id)
	if err != nil {
		status, kind := classify(err)
		c.JSON(status, response.ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}

	out := make([]response.LinkResponse, len(links))
	for i, link := range links {
		out[i] = response.LinkResponse{
			ShortURL:    h.links.ShortURL(link.ShortCode),
			Code:        link.ShortCode,
			OriginalURL: link.OriginalURL,
			CreatedAt:   link.CreatedAt,
			ExpiresAt:   link.ExpiresAt,
			HasPassword: link.HasPassword(),
			ClickCount:  link.ClickCount,
		}
	}
	c.JSON(http.StatusOK, gin.H{"urls": out, "total": len(out)})
}

func (h *UserHandler) DeleteMyURL(c *gin.Context) {
	id := middleware.CurrentUser(c)
	if err := h.links.DeleteOwned(c.Param("code"), *id); err != nil {
		status, kind := classify(err)
		c.JSON(status, response.ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "url deleted"})
}

func (h *UserHandler) MyURLAnalytics(c *gin.Context) {
	id := middleware.CurrentUser(c)
	detail, err := h.analytics.Detail(c.Param("code"), *id, 10)
	if err != nil {
		status, kind := classify(err)
		c.JSON(status, response.ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}

	resp := response.LinkDetailResponse{
		AnalyticsResponse: summaryResponse(&detail.Summary),
		HasPassword:       detail.HasPassword,
		RecentClicks:      make([]response.ClickResponse, len(detail.Recent)),
	}
	for i, click := range detail.Recent {
		resp.RecentClicks[i] = response.ClickResponse{
			ClickedAt: click.ClickedAt,
			IP:        click.IP,
			UserAgent: click.UserAgent,
			Referrer:  click.Referrer,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) MyStats(c *gin.Context) {
	id := middleware.CurrentUser(c)
	stats, err := h.analytics.UserStats(*id)
	if err != nil {
		status, kind := classify(err)
		c.JSON(status, response.ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}
	c.JSON(http.StatusOK, response.UserStatsResponse{
		TotalLinks:   stats.TotalLinks,
		ActiveLinks:  stats.ActiveLinks,
		ExpiredLinks: stats.ExpiredLinks,
		TotalClicks:  stats.TotalClicks,
		RecentClicks: stats.RecentClicks,
	})
}

func userResponse(user *models.User) response.UserResponse {
	return response.UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
