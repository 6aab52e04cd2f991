package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-identity/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

func NewUserHandler(logger *zap.Logger, userServ *service.UserService) *UserHandler {
	return &UserHandler{logger: logger, userServ: userServ}
}

// GetUser maneja GET /users/:id (dueño o admin).
func (h *UserHandler) GetUser(c *gin.Context) {
	account, err := h.userServ.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"user": account.User, "profile": account.Profile()})
}

// DeleteUser maneja DELETE /users/:id (solo admin).
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.userServ.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if p, ok := GetPrincipal(c); ok {
		h.logger.Info("user deleted", zap.String("user_id", id), zap.String("by", p.UserID))
	}
	respondData(c, http.StatusOK, gin.H{"id": id})
}
