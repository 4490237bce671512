package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scenestack/scenestack/internal/services"
)

// WatchHandler 观影记录处理器
type WatchHandler struct {
	watchService *services.WatchService
}

// NewWatchHandler 创建观影记录处理器实例
func NewWatchHandler(watchService *services.WatchService) *WatchHandler {
	return &WatchHandler{
		watchService: watchService,
	}
}

// LogWatch 记录一次观影
func (h *WatchHandler) LogWatch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.LogWatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	watch, err := h.watchService.LogWatch(userID, &req)
	if err != nil {
		respondError(c, "LogWatch", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "success",
		"data":    watch,
	})
}

// ListMine 列出当前用户的观影记录
func (h *WatchHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)

	watches, total, err := h.watchService.ListMine(userID, limit, offset)
	if err != nil {
		respondError(c, "ListMine", err)
		return
	}

	respondOK(c, gin.H{
		"watches": watches,
		"total":   total,
	})
}

// UpdateWatch 更新观影记录（仅本人）
func (h *WatchHandler) UpdateWatch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	watchID, ok := pathID(c, "watch_id")
	if !ok {
		return
	}

	var req services.UpdateWatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	watch, err := h.watchService.UpdateWatch(userID, watchID, &req)
	if err != nil {
		respondError(c, "UpdateWatch", err)
		return
	}

	respondOK(c, watch)
}

// DeleteWatch 删除观影记录（仅本人）
func (h *WatchHandler) DeleteWatch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	watchID, ok := pathID(c, "watch_id")
	if !ok {
		return
	}

	if err := h.watchService.DeleteWatch(userID, watchID); err != nil {
		respondError(c, "DeleteWatch", err)
		return
	}

	respondOK(c, nil)
}

// Share 将观影记录分享到群组
func (h *WatchHandler) Share(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	watchID, ok := pathID(c, "watch_id")
	if !ok {
		return
	}

	type shareRequest struct {
		GroupID uint `json:"group_id" binding:"required"`
	}

	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.watchService.Share(userID, watchID, req.GroupID); err != nil {
		respondError(c, "Share", err)
		return
	}

	respondOK(c, nil)
}

// Unshare 取消分享
func (h *WatchHandler) Unshare(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	watchID, ok := pathID(c, "watch_id")
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}

	if err := h.watchService.Unshare(userID, watchID, groupID); err != nil {
		respondError(c, "Unshare", err)
		return
	}

	respondOK(c, nil)
}

// GroupWatches 列出群组内分享的观影记录
func (h *WatchHandler) GroupWatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}
	limit, offset := pagination(c)

	watches, total, err := h.watchService.GroupWatches(userID, groupID, limit, offset)
	if err != nil {
		respondError(c, "GroupWatches", err)
		return
	}

	respondOK(c, gin.H{
		"watches": watches,
		"total":   total,
	})
}
