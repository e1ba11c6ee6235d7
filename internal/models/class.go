package models

import "time"

// ClassStatus describes whether a class is open.
type ClassStatus string

const (
	ClassStatusActive   ClassStatus = "active"
	ClassStatusInactive ClassStatus = "inactive"
	ClassStatusArchived ClassStatus = "archived"
)

// Valid reports whether s is a known status.
func (s ClassStatus) Valid() bool {
	switch s {
	case ClassStatusActive, ClassStatusInactive, ClassStatusArchived:
		return true
	}
	return false
}

// Class is a teaching group for a subject that students join with an invite code.
type Class struct {
	ID             int64       `db:"id" json:"id"`
	SubjectID      int64       `db:"subject_id" json:"subjectId"`
	TeacherID      string      `db:"teacher_id" json:"teacherId"`
	InviteCode     string      `db:"invite_code" json:"inviteCode"`
	Name           string      `db:"name" json:"name"`
	BannerCldPubID *string     `db:"banner_cld_pub_id" json:"bannerCldPubId"`
	BannerURL      *string     `db:"banner_url" json:"bannerUrl"`
	Description    *string     `db:"description" json:"description"`
	Capacity       *int        `db:"capacity" json:"capacity"`
	Status         ClassStatus `db:"status" json:"status"`
	Schedules      Schedules   `db:"schedules" json:"schedules"`
	CreatedAt      time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updatedAt"`
}

// ClassDetail is the canonical class view with subject, department and teacher.
type ClassDetail struct {
	Class
	Subject    Subject    `db:"subject" json:"subject"`
	Department Department `db:"department" json:"department"`
	Teacher    User       `db:"teacher" json:"teacher"`
}

// ClassWithTeacher is returned when listing the classes of a subject.
type ClassWithTeacher struct {
	Class
	Teacher User `db:"teacher" json:"teacher"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	Search    string
	SubjectID int64
	TeacherID string
	Status    ClassStatus
	Page      int
	Limit     int
}
