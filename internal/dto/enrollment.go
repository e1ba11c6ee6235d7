package dto

// CreateEnrollmentRequest is the POST /enrollments payload.
type CreateEnrollmentRequest struct {
	ClassID   int64  `json:"classId" validate:"required,gt=0"`
	StudentID string `json:"studentId" validate:"required,notblank"`
}

// JoinClassRequest enrolls a student through a class invite code.
type JoinClassRequest struct {
	InviteCode string `json:"inviteCode" validate:"required,notblank"`
	StudentID  string `json:"studentId" validate:"required,notblank"`
}
