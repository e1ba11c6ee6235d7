package dto

// CreateSubjectRequest is the POST /subjects payload.
type CreateSubjectRequest struct {
	DepartmentID int64   `json:"departmentId" validate:"required,gt=0"`
	Name         string  `json:"name" validate:"required,notblank,max=255"`
	Code         string  `json:"code" validate:"required,notblank,max=50"`
	Description  *string `json:"description"`
}

// UpdateSubjectRequest is the PUT /subjects/:id payload; absent fields are kept.
type UpdateSubjectRequest struct {
	DepartmentID *int64           `json:"departmentId" validate:"omitempty,gt=0"`
	Name         *string          `json:"name" validate:"omitempty,notblank,max=255"`
	Code         *string          `json:"code" validate:"omitempty,notblank,max=50"`
	Description  Nullable[string] `json:"description"`
}

// Empty reports whether no field was supplied.
func (r UpdateSubjectRequest) Empty() bool {
	return r.DepartmentID == nil && r.Name == nil && r.Code == nil && !r.Description.Set
}
