package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scenestack/scenestack/internal/services"
)

// currentUserID 从上下文中取出认证中间件写入的用户 ID
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "unauthorized",
		})
		return 0, false
	}
	return userID.(uint), true
}

// pathID 解析路径参数中的数字 ID
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}

// pagination 读取 limit/offset 查询参数，带默认值
func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// respondOK 统一成功响应格式
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

// respondError 将 Service 层错误映射为 HTTP 状态码
func respondError(c *gin.Context, op string, err error) {
	var (
		validationErr  *services.ValidationError
		notEligibleErr *services.NotEligibleError
		authzErr       *services.AuthorizationError
		conflictErr    *services.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": validationErr.Messages,
		})
	case errors.As(err, &notEligibleErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
		})
	case errors.As(err, &authzErr):
		c.JSON(http.StatusForbidden, gin.H{
			"error": err.Error(),
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "conflict",
			"details": conflictErr.Messages,
		})
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrMovieNotFound),
		errors.Is(err, services.ErrWatchNotFound),
		errors.Is(err, services.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrWrongPassword):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrNotMember):
		c.JSON(http.StatusForbidden, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrAlreadyMember):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	default:
		log.Printf("%s: service error: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
		})
	}
}
