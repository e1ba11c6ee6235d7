package dto

// CreateUserRequest is the POST /users payload.
type CreateUserRequest struct {
	Name          string  `json:"name" validate:"required,notblank,max=255"`
	Email         string  `json:"email" validate:"required,email"`
	EmailVerified bool    `json:"emailVerified"`
	Role          string  `json:"role" validate:"omitempty,oneof=admin teacher student"`
	Image         *string `json:"image"`
	ImageCldPubID *string `json:"imageCldPubId"`
}

// UpdateUserRequest is the PUT /users/:id payload; absent fields are kept.
type UpdateUserRequest struct {
	Name          *string          `json:"name" validate:"omitempty,notblank,max=255"`
	Email         *string          `json:"email" validate:"omitempty,email"`
	EmailVerified *bool            `json:"emailVerified"`
	Role          *string          `json:"role" validate:"omitempty,oneof=admin teacher student"`
	Image         Nullable[string] `json:"image"`
	ImageCldPubID Nullable[string] `json:"imageCldPubId"`
}

// Empty reports whether no field was supplied.
func (r UpdateUserRequest) Empty() bool {
	return r.Name == nil && r.Email == nil && r.EmailVerified == nil && r.Role == nil &&
		!r.Image.Set && !r.ImageCldPubID.Set
}
