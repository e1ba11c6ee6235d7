package dto

import "github.com/noah-isme/classroom-api/internal/models"

// CreateClassRequest is the POST /classes payload.
type CreateClassRequest struct {
	Name           string  `json:"name" validate:"required,notblank,max=255"`
	SubjectID      int64   `json:"subjectId" validate:"required,gt=0"`
	TeacherID      string  `json:"teacherId" validate:"required,notblank"`
	Description    *string `json:"description"`
	BannerURL      *string `json:"bannerUrl"`
	BannerCldPubID *string `json:"bannerCldPubId"`
	Capacity       *int    `json:"capacity" validate:"omitempty,min=1"`
	Status         *string `json:"status" validate:"omitempty,oneof=active inactive archived"`
}

// UpdateClassRequest is the PUT /classes/:id payload; absent fields are kept.
type UpdateClassRequest struct {
	Name           *string            `json:"name" validate:"omitempty,notblank,max=255"`
	InviteCode     *string            `json:"inviteCode" validate:"omitempty,notblank,max=50"`
	SubjectID      *int64             `json:"subjectId" validate:"omitempty,gt=0"`
	TeacherID      *string            `json:"teacherId" validate:"omitempty,notblank"`
	Description    Nullable[string]   `json:"description"`
	BannerURL      Nullable[string]   `json:"bannerUrl"`
	BannerCldPubID Nullable[string]   `json:"bannerCldPubId"`
	Capacity       *int               `json:"capacity" validate:"omitempty,min=1"`
	Status         *string            `json:"status" validate:"omitempty,oneof=active inactive archived"`
	Schedules      *[]models.Schedule `json:"schedules" validate:"omitempty,dive"`
}

// Empty reports whether no field was supplied.
func (r UpdateClassRequest) Empty() bool {
	return r.Name == nil && r.InviteCode == nil && r.SubjectID == nil && r.TeacherID == nil &&
		!r.Description.Set && !r.BannerURL.Set && !r.BannerCldPubID.Set &&
		r.Capacity == nil && r.Status == nil && r.Schedules == nil
}
