package dto

import (
	"time"

	"github.com/campushq/lms-api/internal/models"
)

// CategoryRequest creates or renames a category.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=128"`
}

// DifficultyRequest creates or renames a difficulty label.
type DifficultyRequest struct {
	Name string `json:"name" validate:"required,min=2,max=64"`
	Rank int    `json:"rank" validate:"gte=0"`
}

// ActiveRequest toggles the active flag on a taxonomy value.
type ActiveRequest struct {
	Active bool `json:"active"`
}

// CategoryResponse is the serialized category.
type CategoryResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DifficultyResponse is the serialized difficulty.
type DifficultyResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Rank      int       `json:"rank"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCategoryResponse converts a model into a DTO.
func NewCategoryResponse(model models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        model.ID,
		Name:      model.Name,
		IsActive:  model.IsActive,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewCategoryResponseSlice converts a slice of models into DTOs.
func NewCategoryResponseSlice(categories []models.Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, NewCategoryResponse(category))
	}

	return responses
}

// NewDifficultyResponse converts a model into a DTO.
func NewDifficultyResponse(model models.Difficulty) DifficultyResponse {
	return DifficultyResponse{
		ID:        model.ID,
		Name:      model.Name,
		Rank:      model.Rank,
		IsActive:  model.IsActive,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewDifficultyResponseSlice converts a slice of models into DTOs.
func NewDifficultyResponseSlice(difficulties []models.Difficulty) []DifficultyResponse {
	responses := make([]DifficultyResponse, 0, len(difficulties))
	for _, difficulty := range difficulties {
		responses = append(responses, NewDifficultyResponse(difficulty))
	}

	return responses
}
