package models

import "time"

// Subject represents an academic subject owned by a department.
type Subject struct {
	ID           int64     `db:"id" json:"id"`
	DepartmentID int64     `db:"department_id" json:"departmentId"`
	Name         string    `db:"name" json:"name"`
	Code         string    `db:"code" json:"code"`
	Description  *string   `db:"description" json:"description"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// SubjectDetail is the canonical subject view with its department flattened in.
type SubjectDetail struct {
	Subject
	Department Department `db:"department" json:"department"`
}

// SubjectTotals aggregates counts attached to a subject detail.
type SubjectTotals struct {
	Classes int `json:"classes"`
}

// SubjectOverview is returned by the subject get endpoint.
type SubjectOverview struct {
	Subject *SubjectDetail `json:"subject"`
	Totals  SubjectTotals  `json:"totals"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Search       string
	Department   string
	DepartmentID int64
	Page         int
	Limit        int
}
