package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scenestack/scenestack/internal/services"
)

// MovieHandler 电影处理器
type MovieHandler struct {
	movieService *services.MovieService
}

// NewMovieHandler 创建电影处理器实例
func NewMovieHandler(movieService *services.MovieService) *MovieHandler {
	return &MovieHandler{
		movieService: movieService,
	}
}

// CreateMovie 创建电影条目
func (h *MovieHandler) CreateMovie(c *gin.Context) {
	var req services.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movie, err := h.movieService.CreateMovie(&req)
	if err != nil {
		respondError(c, "CreateMovie", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "success",
		"data":    movie,
	})
}

// GetMovie 获取电影详情
func (h *MovieHandler) GetMovie(c *gin.Context) {
	movieID, ok := pathID(c, "movie_id")
	if !ok {
		return
	}

	movie, err := h.movieService.GetMovie(movieID)
	if err != nil {
		respondError(c, "GetMovie", err)
		return
	}

	respondOK(c, movie)
}

// SearchMovies 按标题、类型搜索电影
func (h *MovieHandler) SearchMovies(c *gin.Context) {
	limit, offset := pagination(c)

	movies, total, err := h.movieService.SearchMovies(
		c.Query("title"),
		c.Query("genre"),
		limit, offset,
	)
	if err != nil {
		respondError(c, "SearchMovies", err)
		return
	}

	respondOK(c, gin.H{
		"movies": movies,
		"total":  total,
	})
}

// DeleteMovie 删除电影条目
func (h *MovieHandler) DeleteMovie(c *gin.Context) {
	movieID, ok := pathID(c, "movie_id")
	if !ok {
		return
	}

	if err := h.movieService.DeleteMovie(movieID); err != nil {
		respondError(c, "DeleteMovie", err)
		return
	}

	respondOK(c, nil)
}
