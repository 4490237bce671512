package services

import (
	"errors"

	"github.com/scenestack/scenestack/internal/models"
	"github.com/scenestack/scenestack/internal/repositories"
)

// MovieService 电影目录服务
type MovieService struct {
	movieRepo *repositories.MovieRepository
}

// NewMovieService 创建电影服务实例
func NewMovieService(movieRepo *repositories.MovieRepository) *MovieService {
	return &MovieService{movieRepo: movieRepo}
}

// CreateMovieRequest 创建电影请求
type CreateMovieRequest struct {
	Title     string `json:"title" binding:"required"`
	Year      int    `json:"year"`
	Genres    string `json:"genres"`
	Overview  string `json:"overview"`
	PosterURL string `json:"poster_url"`
}

// MovieDTO 电影数据传输对象
type MovieDTO struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	Genres    string `json:"genres"`
	Overview  string `json:"overview"`
	PosterURL string `json:"poster_url"`
}

func toMovieDTO(movie *models.Movie) *MovieDTO {
	return &MovieDTO{
		ID:        movie.ID,
		Title:     movie.Title,
		Year:      movie.Year,
		Genres:    movie.Genres,
		Overview:  movie.Overview,
		PosterURL: movie.PosterURL,
	}
}

// CreateMovie 创建电影条目
func (s *MovieService) CreateMovie(req *CreateMovieRequest) (*MovieDTO, error) {
	if len(req.Title) < 1 || len(req.Title) > 200 {
		return nil, errors.New("movie title length invalid")
	}

	movie := &models.Movie{
		Title:     req.Title,
		Year:      req.Year,
		Genres:    req.Genres,
		Overview:  req.Overview,
		PosterURL: req.PosterURL,
	}
	if err := s.movieRepo.Create(movie); err != nil {
		return nil, err
	}
	return toMovieDTO(movie), nil
}

// GetMovie 获取电影详情
func (s *MovieService) GetMovie(id uint) (*MovieDTO, error) {
	movie, err := s.movieRepo.GetByID(id)
	if err != nil {
		return nil, ErrMovieNotFound
	}
	return toMovieDTO(movie), nil
}

// SearchMovies 搜索电影（标题/题材，分页）
func (s *MovieService) SearchMovies(title, genre string, limit, offset int) ([]MovieDTO, int64, error) {
	movies, total, err := s.movieRepo.Search(title, genre, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]MovieDTO, 0, len(movies))
	for i := range movies {
		dtos = append(dtos, *toMovieDTO(&movies[i]))
	}
	return dtos, total, nil
}

// DeleteMovie 删除电影条目（软删除）
func (s *MovieService) DeleteMovie(id uint) error {
	if _, err := s.movieRepo.GetByID(id); err != nil {
		return ErrMovieNotFound
	}
	return s.movieRepo.Delete(id)
}
