package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scenestack/scenestack/internal/services"
)

// UserHandler 用户处理器，包含账号注销流程的端点
type UserHandler struct {
	userService     *services.UserService
	deletionService *services.DeletionService
}

// NewUserHandler 创建用户处理器实例
func NewUserHandler(userService *services.UserService, deletionService *services.DeletionService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		deletionService: deletionService,
	}
}

// GetProfile 获取当前用户信息
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		respondError(c, "GetProfile", err)
		return
	}

	respondOK(c, profile)
}

// UpdateProfile 更新当前用户信息
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		respondError(c, "UpdateProfile", err)
		return
	}

	respondOK(c, profile)
}

// ChangePassword 修改密码
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type changePasswordRequest struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, "ChangePassword", err)
		return
	}

	respondOK(c, nil)
}

// Deactivate 停用账号
func (h *UserHandler) Deactivate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), userID); err != nil {
		respondError(c, "Deactivate", err)
		return
	}

	respondOK(c, nil)
}

// Reactivate 恢复账号，同时丢弃暂存的群组处置决定
func (h *UserHandler) Reactivate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Reactivate(c.Request.Context(), userID); err != nil {
		respondError(c, "Reactivate", err)
		return
	}

	respondOK(c, nil)
}

// CreatedGroups 列出当前用户创建的群组及每个群组的接收人资格
func (h *UserHandler) CreatedGroups(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	report, err := h.deletionService.CreatedGroupsReport(userID)
	if err != nil {
		respondError(c, "CreatedGroups", err)
		return
	}

	respondOK(c, report)
}

// ManageGroups 校验并暂存一组群组处置决定
func (h *UserHandler) ManageGroups(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type manageGroupsRequest struct {
		GroupActions []services.GroupAction `json:"groupActions"`
	}

	var req manageGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.deletionService.StageActions(c.Request.Context(), userID, req.GroupActions); err != nil {
		respondError(c, "ManageGroups", err)
		return
	}

	respondOK(c, nil)
}

// DeleteAccount 注销账号：重新校验暂存决定并在一个事务中全部执行
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type deleteAccountRequest struct {
		Password string `json:"password" binding:"required"`
	}

	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.deletionService.DeleteAccount(c.Request.Context(), userID, req.Password); err != nil {
		respondError(c, "DeleteAccount", err)
		return
	}

	respondOK(c, nil)
}
