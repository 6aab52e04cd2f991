package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-identity/internal/service"
)

// AuthHandler expone registro, login local, OAuth y /auth/me.
type AuthHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
	oauth    *service.OAuthService
}

func NewAuthHandler(logger *zap.Logger, userServ *service.UserService, oauth *service.OAuthService) *AuthHandler {
	return &AuthHandler{logger: logger, userServ: userServ, oauth: oauth}
}

type registerRequest struct {
	Email              string  `json:"email"`
	Password           string  `json:"password"`
	Role               string  `json:"role"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	Phone              string  `json:"phone"`
	ProfileImage       string  `json:"profile_image"`
	Department         string  `json:"department"`
	YearJoined         int     `json:"year_joined"`
	RegistrationNumber string  `json:"registration_number"`
	BatchYear          int     `json:"batch_year"`
	CourseID           string  `json:"course_id"`
	BatchID            string  `json:"batch_id"`
	CGPA               float64 `json:"cgpa"`
	EmployeeID         string  `json:"employee_id"`
	Designation        string  `json:"designation"`
	Qualification      string  `json:"qualification"`
}

// Register maneja POST /auth/register. No devuelve token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		respondError(c, h.logger, invalidRequest("invalid request body"))
		return
	}

	account, err := h.userServ.Register(c.Request.Context(), service.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		ProfileImage: req.ProfileImage,
		Profile: service.ProfileFields{
			Department:         req.Department,
			YearJoined:         req.YearJoined,
			RegistrationNumber: req.RegistrationNumber,
			BatchYear:          req.BatchYear,
			CourseID:           req.CourseID,
			BatchID:            req.BatchID,
			CGPA:               req.CGPA,
			EmployeeID:         req.EmployeeID,
			Designation:        req.Designation,
			Qualification:      req.Qualification,
		},
	})
	recordAuthOutcome("register", err)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"id":      account.User.ID,
		"email":   account.User.Email,
		"role":    account.User.Role,
		"profile": account.Profile(),
	})
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		respondError(c, h.logger, invalidRequest("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(c, h.logger, invalidRequest("email and password are required"))
		return
	}

	ctx := service.WithClientIP(c.Request.Context(), c.ClientIP())
	res, err := h.userServ.Login(ctx, req.Email, req.Password)
	recordAuthOutcome("login", err)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondData(c, http.StatusOK, res)
}

// MicrosoftLoginURL maneja GET /auth/microsoft-login-url.
func (h *AuthHandler) MicrosoftLoginURL(c *gin.Context) {
	url, err := h.oauth.LoginURL()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"url": url})
}

// MicrosoftCallback maneja GET /auth/microsoft-callback?code=.
func (h *AuthHandler) MicrosoftCallback(c *gin.Context) {
	res, err := h.oauth.Callback(c.Request.Context(), c.Query("code"))
	recordAuthOutcome("microsoft_callback", err)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondData(c, http.StatusOK, res)
}

// Me maneja GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := service.PrincipalFromContext(c.Request.Context())
	if !ok {
		respondError(c, h.logger, service.ErrUnauthorized)
		return
	}

	account, err := h.userServ.GetAccount(c.Request.Context(), p.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"user": account.User, "profile": account.Profile()})
}
