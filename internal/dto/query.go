package dto

// PageQuery carries the optional pagination parameters shared by list endpoints.
// Bounds are enforced by the service against its configured limits.
type PageQuery struct {
	Page  *int `form:"page"`
	Limit *int `form:"limit"`
}

// Resolve applies defaults to absent parameters.
func (q PageQuery) Resolve(defaultLimit int) (page, limit int) {
	page, limit = 1, defaultLimit
	if q.Page != nil {
		page = *q.Page
	}
	if q.Limit != nil {
		limit = *q.Limit
	}
	return page, limit
}

// DepartmentListQuery filters GET /departments.
type DepartmentListQuery struct {
	Search string `form:"search"`
	PageQuery
}

// SubjectListQuery filters GET /subjects.
type SubjectListQuery struct {
	Search       string `form:"search"`
	Department   string `form:"department"`
	DepartmentID *int64 `form:"departmentId" validate:"omitempty,gt=0"`
	PageQuery
}

// ClassListQuery filters GET /classes.
type ClassListQuery struct {
	Search    string `form:"search"`
	SubjectID *int64 `form:"subjectId" validate:"omitempty,gt=0"`
	TeacherID string `form:"teacherId"`
	Status    string `form:"status" validate:"omitempty,oneof=active inactive archived"`
	PageQuery
}

// UserListQuery filters GET /users.
type UserListQuery struct {
	Search string `form:"search"`
	Role   string `form:"role" validate:"omitempty,oneof=admin teacher student"`
	PageQuery
}

// EnrollmentListQuery filters GET /enrollments.
type EnrollmentListQuery struct {
	ClassID   *int64 `form:"classId" validate:"omitempty,gt=0"`
	StudentID string `form:"studentId"`
	PageQuery
}

// RosterQuery selects the teachers or students of a class or subject.
type RosterQuery struct {
	Role string `form:"role" validate:"required,oneof=teacher student"`
	PageQuery
}

// RosterExportQuery renders a full class roster as a document.
type RosterExportQuery struct {
	Role   string `form:"role" validate:"required,oneof=teacher student"`
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
