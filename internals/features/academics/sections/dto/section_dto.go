package dto

import (
	"time"

	"cashierku_backend/internals/features/academics/sections/model"

	"github.com/google/uuid"
)

type CreateSectionRequest struct {
	GradeLevelID uuid.UUID `json:"section_grade_level_id" validate:"required"`
	Name         string    `json:"section_name" validate:"required,min=1,max=80"`
	DisplayOrder *int      `json:"section_display_order" validate:"omitempty,gte=0"`
	IsActive     *bool     `json:"section_is_active"`
}

func (r CreateSectionRequest) ToModel() model.Section {
	m := model.Section{
		SectionGradeLevelID: r.GradeLevelID,
		SectionName:         r.Name,
		SectionIsActive:     true,
	}
	if r.DisplayOrder != nil {
		m.SectionDisplayOrder = *r.DisplayOrder
	}
	if r.IsActive != nil {
		m.SectionIsActive = *r.IsActive
	}
	return m
}

type UpdateSectionRequest struct {
	Name         *string `json:"section_name" validate:"omitempty,min=1,max=80"`
	DisplayOrder *int    `json:"section_display_order" validate:"omitempty,gte=0"`
	IsActive     *bool   `json:"section_is_active"`
}

type SectionResponse struct {
	SectionID           uuid.UUID `json:"section_id"`
	SectionGradeLevelID uuid.UUID `json:"section_grade_level_id"`
	SectionName         string    `json:"section_name"`
	SectionSlug         string    `json:"section_slug"`
	SectionDisplayOrder int       `json:"section_display_order"`
	SectionIsActive     bool      `json:"section_is_active"`
	SectionCreatedAt    time.Time `json:"section_created_at"`
	SectionUpdatedAt    time.Time `json:"section_updated_at"`
}

func FromModel(m model.Section) SectionResponse {
	return SectionResponse{
		SectionID:           m.SectionID,
		SectionGradeLevelID: m.SectionGradeLevelID,
		SectionName:         m.SectionName,
		SectionSlug:         m.SectionSlug,
		SectionDisplayOrder: m.SectionDisplayOrder,
		SectionIsActive:     m.SectionIsActive,
		SectionCreatedAt:    m.SectionCreatedAt,
		SectionUpdatedAt:    m.SectionUpdatedAt,
	}
}

func FromModels(ms []model.Section) []SectionResponse {
	out := make([]SectionResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromModel(m))
	}
	return out
}
