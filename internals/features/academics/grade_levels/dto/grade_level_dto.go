package dto

import (
	"time"

	"cashierku_backend/internals/features/academics/grade_levels/model"

	"github.com/google/uuid"
)

type CreateGradeLevelRequest struct {
	Name         string `json:"grade_level_name" validate:"required,min=1,max=80"`
	DisplayOrder *int   `json:"grade_level_display_order" validate:"omitempty,gte=0"`
	IsActive     *bool  `json:"grade_level_is_active"`
}

func (r CreateGradeLevelRequest) ToModel() model.GradeLevel {
	m := model.GradeLevel{
		GradeLevelName:     r.Name,
		GradeLevelIsActive: true,
	}
	if r.DisplayOrder != nil {
		m.GradeLevelDisplayOrder = *r.DisplayOrder
	}
	if r.IsActive != nil {
		m.GradeLevelIsActive = *r.IsActive
	}
	return m
}

type UpdateGradeLevelRequest struct {
	Name         *string `json:"grade_level_name" validate:"omitempty,min=1,max=80"`
	DisplayOrder *int    `json:"grade_level_display_order" validate:"omitempty,gte=0"`
	IsActive     *bool   `json:"grade_level_is_active"`
}

type GradeLevelResponse struct {
	GradeLevelID           uuid.UUID `json:"grade_level_id"`
	GradeLevelName         string    `json:"grade_level_name"`
	GradeLevelSlug         string    `json:"grade_level_slug"`
	GradeLevelDisplayOrder int       `json:"grade_level_display_order"`
	GradeLevelIsActive     bool      `json:"grade_level_is_active"`
	GradeLevelCreatedAt    time.Time `json:"grade_level_created_at"`
	GradeLevelUpdatedAt    time.Time `json:"grade_level_updated_at"`
}

func FromModel(m model.GradeLevel) GradeLevelResponse {
	return GradeLevelResponse{
		GradeLevelID:           m.GradeLevelID,
		GradeLevelName:         m.GradeLevelName,
		GradeLevelSlug:         m.GradeLevelSlug,
		GradeLevelDisplayOrder: m.GradeLevelDisplayOrder,
		GradeLevelIsActive:     m.GradeLevelIsActive,
		GradeLevelCreatedAt:    m.GradeLevelCreatedAt,
		GradeLevelUpdatedAt:    m.GradeLevelUpdatedAt,
	}
}

func FromModels(ms []model.GradeLevel) []GradeLevelResponse {
	out := make([]GradeLevelResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromModel(m))
	}
	return out
}
