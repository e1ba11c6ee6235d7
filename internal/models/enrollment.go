package models

import "time"

// Enrollment links a student to a class.
type Enrollment struct {
	ID        int64     `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"studentId"`
	ClassID   int64     `db:"class_id" json:"classId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// EnrollmentDetail enriches Enrollment with its class and student.
type EnrollmentDetail struct {
	Enrollment
	Class   Class `db:"class" json:"class"`
	Student User  `db:"student" json:"student"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	ClassID   int64
	StudentID string
	Page      int
	Limit     int
}
