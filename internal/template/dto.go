package template

// CreateTemplateRequest starts a new user template from the default layout.
type CreateTemplateRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=120"`
	OwnerID string `json:"owner_id" validate:"required"`
}

// UpdateTemplateRequest patches template metadata. Nil fields are left
// untouched; sections and columns change through their own operations.
type UpdateTemplateRequest struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Description *string        `json:"description,omitempty" validate:"omitempty,max=500"`
	IsPublic    *bool          `json:"is_public,omitempty"`
	Style       *TemplateStyle `json:"style,omitempty"`
}

// MoveRequest names the direction of a reorder operation.
type MoveRequest struct {
	Direction Direction `json:"direction" validate:"required,oneof=up down left right"`
}
