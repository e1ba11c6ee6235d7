package dto

// CreateDepartmentRequest is the POST /departments payload.
type CreateDepartmentRequest struct {
	Code        string  `json:"code" validate:"required,notblank,max=50"`
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description *string `json:"description"`
}

// UpdateDepartmentRequest is the PUT /departments/:id payload; absent fields are kept.
type UpdateDepartmentRequest struct {
	Code        *string          `json:"code" validate:"omitempty,notblank,max=50"`
	Name        *string          `json:"name" validate:"omitempty,notblank,max=255"`
	Description Nullable[string] `json:"description"`
}

// Empty reports whether no field was supplied.
func (r UpdateDepartmentRequest) Empty() bool {
	return r.Code == nil && r.Name == nil && !r.Description.Set
}
