package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scenestack/scenestack/internal/services"
)

// InsightHandler 统计洞察处理器
type InsightHandler struct {
	insightService *services.InsightService
	feedService    *services.FeedService
}

// NewInsightHandler 创建统计处理器实例
func NewInsightHandler(insightService *services.InsightService, feedService *services.FeedService) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
		feedService:    feedService,
	}
}

// MyInsights 获取当前用户的观影统计
func (h *InsightHandler) MyInsights(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	insights, err := h.insightService.ForUser(userID)
	if err != nil {
		respondError(c, "MyInsights", err)
		return
	}

	respondOK(c, insights)
}

// GroupLeaderboard 获取群组观影排行榜
func (h *InsightHandler) GroupLeaderboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	board, err := h.insightService.GroupLeaderboard(userID, groupID, limit)
	if err != nil {
		respondError(c, "GroupLeaderboard", err)
		return
	}

	respondOK(c, board)
}

// MyFeed 获取当前用户的个人动态
func (h *InsightHandler) MyFeed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)

	items, err := h.feedService.ForUser(userID, limit, offset)
	if err != nil {
		respondError(c, "MyFeed", err)
		return
	}

	respondOK(c, items)
}
