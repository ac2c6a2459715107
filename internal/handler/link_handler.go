package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Adelodunpeter25/url-shortener/internal/middleware"
	"github.com/Adelodunpeter25/url-shortener/internal/models"
	"github.com/Adelodunpeter25/url-shortener/internal/qr"
	"github.com/Adelodunpeter25/url-shortener/internal/response"
	"github.com/Adelodunpeter25/url-shortener/internal/service"
)

type LinkHandler struct {
	links     *service.LinkService
	analytics *service.ClickService
	qr        *qr.Renderer
}

func NewLinkHandler(links *service.LinkService, analytics *service.ClickService, qr *qr.Renderer) *LinkHandler {
	return &LinkHandler{
		links:     links,
		analytics: analytics,
		qr:        qr,
	}
}

type ShortenRequest struct {
	URL           string `json:"url" binding:"required"`
	ExpiresInDays int    `json:"expires_in_days"`
	Password      string `json:"password"`
	CustomAlias   string `json:"custom_alias"`
}

// Home godoc
//
//	@Summary	API information
//	@Produce	json
//	@Router		/ [get]
func (h *LinkHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "URL Shortener API",
		"endpoints": gin.H{
			"/shorten":          "POST",
			"/bulk-shorten":     "POST",
			"/{code}":           "GET",
			"/verify/{code}":    "POST",
			"/analytics/{code}": "GET",
			"/qr/{code}":        "GET",
		},
	})
}

func (h *LinkHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Shorten godoc
//
//	@Summary	Create a short link
//	@Accept		json
//	@Produce	json
//	@Param		link	body		ShortenRequest	true	"Target URL and options"
//	@Success	201		{object}	response.LinkResponse
//	@Failure	400		{object}	response.ErrorResponse
//	@Router		/shorten [post]
func (h *LinkHandler) Shorten(c *gin.Context) {
	var req ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "url is required", Kind: KindInvalidURL})
		return
	}

	link, reused, err := h.links.Submit(req.URL, service.SubmitOptions{
		ExpiresInDays: req.ExpiresInDays,
		Password:      req.Password,
		CustomAlias:   req.CustomAlias,
		UserID:        middleware.CurrentUser(c),
	})
	if err != nil {
		status, kind := classify(err)
		c.JSON(status, response.ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}

	status := http.StatusCreated
	if reused {
		status = http.StatusOK
	}
	c.JSON(status, h.linkResponse(link, reused))
}

// Redirect godoc
//
//	@Summary	Redirect to the original URL
//	@Param		code	path	string	true	"Short code"
//	@Success	302
//	@Failure	404	{object}	response.ErrorResponse
//	@Failure	410	{object}	response.ErrorResponse
//	@Router		/{code} [get]
func (h *LinkHandler) Redirect(c *gin.Context) {
	code := c.Param("code")

	link, err := h.links.Redirect(code, "", clickMeta(c))
	if err != nil {
		// A protected link answers with the verify URL and no target.
		if errors.Is(err, service.ErrPasswordRequired) {
			c.JSON(http.StatusUnauthorized, response.PasswordRequiredResponse{
				PasswordRequired: true,
				VerifyURL:        h.links.VerifyURL(code),
			})
			return
		}
		status, kind := classify(err)
		c.JSON(status, response.ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}

	c.Redirect(http.StatusFound, link.OriginalURL)
}

type VerifyRequest struct {
	Password string `json:"password" binding:"required"`
}

// Verify godoc
//
//	@Summary	Unlock a password-protected link
//	@Accept		json
//	@Produce	json
//	@Param		code		path		string			true	"Short code"
//	@Param		password	body		VerifyRequest	true	"Link password"
//	@Success	200			{object}	response.VerifyResponse
//	@Failure	403			{object}	response.VerifyResponse
//	@Failure	404			{object}	response.ErrorResponse
//	@Router		/verify/{code} [post]
func (h *LinkHandler) Verify(c *gin.Context) {
	code := c.Param("code")

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "password is required", Kind: KindPasswordRequired})
		return
	}

	link, err := h.links.Redirect(code, req.Password, clickMeta(c))
	if err != nil {
		// Mismatch keeps the same response shape as "password needed",
		// distinguished only by the ok flag and status.
		if errors.Is(err, service.ErrPasswordMismatch) || errors.Is(err, service.ErrPasswordRequired) {
			c.JSON(http.StatusForbidden, response.VerifyResponse{OK: false})
			return
		}
		status, kind := classify(err)
		c.JSON(status, response.ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}

	c.JSON(http.StatusOK, response.VerifyResponse{
		OK:        true,
		ShortURL:  h.links.ShortURL(code),
		TargetURL: link.OriginalURL,
	})
}

type BulkShortenRequest struct {
	URLs []ShortenRequest `json:"urls" binding:"required,min=1,max=100,dive"`
}

// BulkShorten godoc
//
//	@Summary	Create up to 100 short links in one request
//	@Accept		json
//	@Produce	json
//	@Param		urls	body		BulkShortenRequest	true	"Submissions"
//	@Success	200		{object}	response.BulkResponse
//	@Router		/bulk-shorten [post]
func (h *LinkHandler) BulkShorten(c *gin.Context) {
	var req BulkShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "urls must contain between 1 and 100 items", Kind: KindInvalidURL})
		return
	}

	items := make([]service.BulkItem, len(req.URLs))
	for i, u := range req.URLs {
		items[i] = service.BulkItem{
			URL:           u.URL,
			ExpiresInDays: u.ExpiresInDays,
			Password:      u.Password,
		}
	}

	results := h.links.SubmitBulk(items, middleware.CurrentUser(c))

	resp := response.BulkResponse{
		Results:        make([]response.BulkItemResult, len(results)),
		TotalProcessed: len(results),
	}
	for i, res := range results {
		if res.Err != nil {
			_, kind := classify(res.Err)
			resp.Results[i] = response.BulkItemResult{Error: res.Err.Error(), Kind: kind}
			resp.Failed++
			continue
		}
		link := h.linkResponse(res.Link, res.Reused)
		resp.Results[i] = response.BulkItemResult{OK: true, Link: &link}
		resp.Successful++
	}

	// The aggregate always succeeds structurally; failures live per item.
	c.JSON(http.StatusOK, resp)
}

// Analytics godoc
//
//	@Summary	Click summary for a short link
//	@Produce	json
//	@Param		code	path		string	true	"Short code"
//	@Success	200		{object}	response.AnalyticsResponse
//	@Failure	404		{object}	response.ErrorResponse
//	@Router		/analytics/{code} [get]
func (h *LinkHandler) Analytics(c *gin.Context) {
	summary, err := h.analytics.Summarize(c.Param("code"))
	if err != nil {
		status, kind := classify(err)
		c.JSON(status, response.ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}
	c.JSON(http.StatusOK, summaryResponse(summary))
}

// QR godoc
//
//	@Summary	QR image for a short link
//	@Produce	json
//	@Param		code	path		string	true	"Short code"
//	@Success	200		{object}	response.QRResponse
//	@Failure	404		{object}	response.ErrorResponse
//	@Failure	410		{object}	response.ErrorResponse
//	@Router		/qr/{code} [get]
func (h *LinkHandler) QR(c *gin.Context) {
	code := c.Param("code")

	link, err := h.links.Lookup(code)
	if err != nil {
		status, kind := classify(err)
		c.JSON(status, response.ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}
	if link.Expired(time.Now()) {
		c.JSON(http.StatusGone, response.ErrorResponse{Error: service.ErrExpired.Error(), Kind: KindExpired})
		return
	}

	shortURL := h.links.ShortURL(code)
	dataURL, err := h.qr.DataURL(shortURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "qr rendering failed", Kind: KindInternal})
		return
	}

	c.JSON(http.StatusOK, response.QRResponse{
		QRCode:      dataURL,
		ShortURL:    shortURL,
		OriginalURL: link.OriginalURL,
	})
}

func (h *LinkHandler) linkResponse(link *models.Link, reused bool) response.LinkResponse {
	return response.LinkResponse{
		ShortURL:    h.links.ShortURL(link.ShortCode),
		Code:        link.ShortCode,
		OriginalURL: link.OriginalURL,
		CreatedAt:   link.CreatedAt,
		ExpiresAt:   link.ExpiresAt,
		HasPassword: link.HasPassword(),
		ClickCount:  link.ClickCount,
		Reused:      reused,
	}
}

func summaryResponse(s *service.Summary) response.AnalyticsResponse {
	return response.AnalyticsResponse{
		ShortCode:    s.ShortCode,
		OriginalURL:  s.OriginalURL,
		ClickCount:   s.ClickCount,
		RecentClicks: s.RecentClicks,
		IsExpired:    s.IsExpired,
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
	}
}

func clickMeta(c *gin.Context) service.ClickMeta {
	return service.ClickMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}
}
