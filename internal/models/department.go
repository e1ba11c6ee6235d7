package models

import "time"

// Department groups subjects under an academic unit.
type Department struct {
	ID          int64     `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// DepartmentTotals aggregates counts attached to a department detail.
type DepartmentTotals struct {
	Subjects int `json:"subjects"`
}

// DepartmentDetail is the department view returned by the get endpoint.
type DepartmentDetail struct {
	Department *Department      `json:"department"`
	Totals     DepartmentTotals `json:"totals"`
}

// DepartmentFilter captures supported filters for listing departments.
type DepartmentFilter struct {
	Search string
	Page   int
	Limit  int
}
