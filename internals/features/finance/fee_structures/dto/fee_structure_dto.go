package dto

import (
	"strings"
	"time"

	"cashierku_backend/internals/features/finance/fee_structures/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateFeeStructureRequest struct {
	GradeLevelID uuid.UUID       `json:"fee_structure_grade_level_id" validate:"required"`
	FeeType      string          `json:"fee_structure_fee_type" validate:"required,max=80"`
	Amount       decimal.Decimal `json:"fee_structure_amount" validate:"gte=0"`
	SchoolYear   string          `json:"fee_structure_school_year" validate:"required,school_year"`
	IsRequired   *bool           `json:"fee_structure_is_required"`
	IsActive     *bool           `json:"fee_structure_is_active"`
	Description  *string         `json:"fee_structure_description" validate:"omitempty,max=500"`
}

func (r *CreateFeeStructureRequest) Normalize() {
	r.FeeType = strings.TrimSpace(r.FeeType)
	r.SchoolYear = strings.TrimSpace(r.SchoolYear)
	if r.Description != nil {
		v := strings.TrimSpace(*r.Description)
		if v == "" {
			r.Description = nil
		} else {
			r.Description = &v
		}
	}
}

// ToModel fills defaults: required and active unless told otherwise.
func (r CreateFeeStructureRequest) ToModel() model.FeeStructure {
	m := model.FeeStructure{
		FeeStructureGradeLevelID: r.GradeLevelID,
		FeeStructureFeeType:      r.FeeType,
		FeeStructureAmount:       r.Amount.Round(2),
		FeeStructureSchoolYear:   r.SchoolYear,
		FeeStructureIsRequired:   true,
		FeeStructureIsActive:     true,
		FeeStructureDescription:  r.Description,
	}
	if r.IsRequired != nil {
		m.FeeStructureIsRequired = *r.IsRequired
	}
	if r.IsActive != nil {
		m.FeeStructureIsActive = *r.IsActive
	}
	return m
}

type UpdateFeeStructureRequest struct {
	GradeLevelID *uuid.UUID       `json:"fee_structure_grade_level_id"`
	FeeType      *string          `json:"fee_structure_fee_type" validate:"omitempty,min=1,max=80"`
	Amount       *decimal.Decimal `json:"fee_structure_amount" validate:"omitempty,gte=0"`
	SchoolYear   *string          `json:"fee_structure_school_year" validate:"omitempty,school_year"`
	IsRequired   *bool            `json:"fee_structure_is_required"`
	IsActive     *bool            `json:"fee_structure_is_active"`
	Description  *string          `json:"fee_structure_description" validate:"omitempty,max=500"`
}

type FeeStructureResponse struct {
	FeeStructureID           uuid.UUID       `json:"fee_structure_id"`
	FeeStructureGradeLevelID uuid.UUID       `json:"fee_structure_grade_level_id"`
	FeeStructureFeeType      string          `json:"fee_structure_fee_type"`
	FeeStructureAmount       decimal.Decimal `json:"fee_structure_amount"`
	FeeStructureSchoolYear   string          `json:"fee_structure_school_year"`
	FeeStructureIsRequired   bool            `json:"fee_structure_is_required"`
	FeeStructureIsActive     bool            `json:"fee_structure_is_active"`
	FeeStructureDescription  *string         `json:"fee_structure_description,omitempty"`
	FeeStructureCreatedAt    time.Time       `json:"fee_structure_created_at"`
	FeeStructureUpdatedAt    time.Time       `json:"fee_structure_updated_at"`
}

func FromModel(m model.FeeStructure) FeeStructureResponse {
	return FeeStructureResponse{
		FeeStructureID:           m.FeeStructureID,
		FeeStructureGradeLevelID: m.FeeStructureGradeLevelID,
		FeeStructureFeeType:      m.FeeStructureFeeType,
		FeeStructureAmount:       m.FeeStructureAmount,
		FeeStructureSchoolYear:   m.FeeStructureSchoolYear,
		FeeStructureIsRequired:   m.FeeStructureIsRequired,
		FeeStructureIsActive:     m.FeeStructureIsActive,
		FeeStructureDescription:  m.FeeStructureDescription,
		FeeStructureCreatedAt:    m.FeeStructureCreatedAt,
		FeeStructureUpdatedAt:    m.FeeStructureUpdatedAt,
	}
}

func FromModels(ms []model.FeeStructure) []FeeStructureResponse {
	out := make([]FeeStructureResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromModel(m))
	}
	return out
}

// CatalogItem is the resolver's view of a fee, what the payment wizard shows.
type CatalogItem struct {
	ID          uuid.UUID       `json:"id"`
	FeeType     string          `json:"fee_type"`
	Amount      decimal.Decimal `json:"amount"`
	IsRequired  bool            `json:"is_required"`
	Description *string         `json:"description,omitempty"`
}

type CatalogResponse struct {
	GradeLevelID     uuid.UUID       `json:"grade_level_id"`
	SchoolYear       string          `json:"school_year"`
	Fees             []CatalogItem   `json:"fees"`
	DefaultSelection []uuid.UUID     `json:"default_selection"`
	DefaultTotal     decimal.Decimal `json:"default_total"`
}

func ToCatalog(gradeLevelID uuid.UUID, schoolYear string, fees []model.FeeStructure, selected []uuid.UUID) CatalogResponse {
	items := make([]CatalogItem, 0, len(fees))
	total := decimal.Zero
	pick := make(map[uuid.UUID]bool, len(selected))
	for _, id := range selected {
		pick[id] = true
	}
	for _, f := range fees {
		items = append(items, CatalogItem{
			ID:          f.FeeStructureID,
			FeeType:     f.FeeStructureFeeType,
			Amount:      f.FeeStructureAmount,
			IsRequired:  f.FeeStructureIsRequired,
			Description: f.FeeStructureDescription,
		})
		if pick[f.FeeStructureID] {
			total = total.Add(f.FeeStructureAmount)
		}
	}
	if selected == nil {
		selected = []uuid.UUID{}
	}
	return CatalogResponse{
		GradeLevelID:     gradeLevelID,
		SchoolYear:       schoolYear,
		Fees:             items,
		DefaultSelection: selected,
		DefaultTotal:     total,
	}
}
