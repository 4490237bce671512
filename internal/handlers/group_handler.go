package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scenestack/scenestack/internal/services"
)

// GroupHandler 群组处理器
type GroupHandler struct {
	groupService *services.GroupService
	feedService  *services.FeedService
}

// NewGroupHandler 创建群组处理器实例
func NewGroupHandler(groupService *services.GroupService, feedService *services.FeedService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		feedService:  feedService,
	}
}

// CreateGroup 创建群组
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groupService.CreateGroup(userID, &req)
	if err != nil {
		respondError(c, "CreateGroup", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "success",
		"data":    group,
	})
}

// GetGroup 获取群组详情（仅成员可见）
func (h *GroupHandler) GetGroup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}

	group, members, err := h.groupService.GetGroup(userID, groupID)
	if err != nil {
		respondError(c, "GetGroup", err)
		return
	}

	respondOK(c, gin.H{
		"group":   group,
		"members": members,
	})
}

// ListMine 列出当前用户所在的群组
func (h *GroupHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)

	groups, total, err := h.groupService.ListMine(userID, limit, offset)
	if err != nil {
		respondError(c, "ListMine", err)
		return
	}

	respondOK(c, gin.H{
		"groups": groups,
		"total":  total,
	})
}

// Join 通过邀请码加入群组
func (h *GroupHandler) Join(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type joinRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groupService.Join(userID, req.InviteCode)
	if err != nil {
		respondError(c, "Join", err)
		return
	}

	respondOK(c, group)
}

// Leave 退出群组
func (h *GroupHandler) Leave(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}

	if err := h.groupService.Leave(userID, groupID); err != nil {
		respondError(c, "Leave", err)
		return
	}

	respondOK(c, nil)
}

// Kick 将成员移出群组（管理员及创建者可用）
func (h *GroupHandler) Kick(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}
	subjectID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if err := h.groupService.Kick(userID, groupID, subjectID); err != nil {
		respondError(c, "Kick", err)
		return
	}

	respondOK(c, nil)
}

// SetMemberRole 设置成员角色（仅创建者可用）
func (h *GroupHandler) SetMemberRole(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}
	subjectID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	type setRoleRequest struct {
		Role string `json:"role" binding:"required"`
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.groupService.SetMemberRole(userID, groupID, subjectID, req.Role); err != nil {
		respondError(c, "SetMemberRole", err)
		return
	}

	respondOK(c, nil)
}

// History 获取群组成员变更历史
func (h *GroupHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}
	limit, offset := pagination(c)

	entries, err := h.groupService.History(userID, groupID, limit, offset)
	if err != nil {
		respondError(c, "History", err)
		return
	}

	respondOK(c, entries)
}

// Feed 获取群组动态
func (h *GroupHandler) Feed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}
	limit, offset := pagination(c)

	items, err := h.feedService.ForGroup(userID, groupID, limit, offset)
	if err != nil {
		respondError(c, "Feed", err)
		return
	}

	respondOK(c, items)
}
