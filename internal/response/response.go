package response

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type LinkResponse struct {
	ShortURL    string     `json:"short_url"`
	Code        string     `json:"code"`
	OriginalURL string     `json:"original_url"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	HasPassword bool       `json:"has_password"`
	ClickCount  int64      `json:"click_count"`
	Reused      bool       `json:"reused,omitempty"`
}

type PasswordRequiredResponse struct {
	PasswordRequired bool   `json:"password_required"`
	VerifyURL        string `json:"verify_url"`
}

type VerifyResponse struct {
	OK        bool   `json:"ok"`
	ShortURL  string `json:"short_url,omitempty"`
	TargetURL string `json:"target_url,omitempty"`
}

type BulkItemResult struct {
	OK    bool          `json:"ok"`
	Link  *LinkResponse `json:"link,omitempty"`
	Error string        `json:"error,omitempty"`
	Kind  string        `json:"kind,omitempty"`
}

type BulkResponse struct {
	Results        []BulkItemResult `json:"results"`
	TotalProcessed int              `json:"total_processed"`
	Successful     int              `json:"successful"`
	Failed         int              `json:"failed"`
}

type AnalyticsResponse struct {
	ShortCode    string     `json:"short_code"`
	OriginalURL  string     `json:"original_url"`
	ClickCount   int64      `json:"click_count"`
	RecentClicks int64      `json:"recent_clicks"`
	IsExpired    bool       `json:"is_expired"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

type QRResponse struct {
	QRCode      string `json:"qr_code"`
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterResponse struct {
	User UserResponse `json:"user"`
	TokenResponse
}

type ClickResponse struct {
	ClickedAt time.Time `json:"clicked_at"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
}

type LinkDetailResponse struct {
	AnalyticsResponse
	HasPassword  bool            `json:"has_password"`
	RecentClicks []ClickResponse `json:"recent_click_events"`
}

type UserStatsResponse struct {
	TotalLinks   int64 `json:"total_urls"`
	ActiveLinks  int64 `json:"active_urls"`
	ExpiredLinks int64 `json:"expired_urls"`
	TotalClicks  int64 `json:"total_clicks"`
	RecentClicks int64 `json:"recent_clicks"`
}

type APIKeyResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Key       string     `json:"key,omitempty"`
	IsActive  bool       `json:"is_active"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type Pagination struct {
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

type AdminUserResponse struct {
	UserResponse
	URLCount    int64 `json:"url_count"`
	TotalClicks int64 `json:"total_clicks"`
}

type AdminLinkResponse struct {
	Code        string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	ClickCount  int64      `json:"click_count"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsExpired   bool       `json:"is_expired"`
	HasPassword bool       `json:"has_password"`
	Owner       string     `json:"owner"`
}

type SystemStatsResponse struct {
	Users struct {
		Total  int64 `json:"total"`
		Admins int64 `json:"admins"`
		Recent int64 `json:"recent"`
	} `json:"users"`
	Links struct {
		Total             int64 `json:"total"`
		Anonymous         int64 `json:"anonymous"`
		Expired           int64 `json:"expired"`
		PasswordProtected int64 `json:"password_protected"`
		Recent            int64 `json:"recent"`
	} `json:"urls"`
	Clicks struct {
		Total  int64 `json:"total"`
		Recent int64 `json:"recent"`
	} `json:"clicks"`
}
