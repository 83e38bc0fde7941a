package models

import (
	"time"

	"gorm.io/gorm"
)

// Course is the unit teachers are assigned to and students enroll in.
type Course struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36"`
	Name        string  `json:"name" gorm:"not null;size:200"`
	Code        string  `json:"code" gorm:"uniqueIndex;not null;size:50"`
	Description *string `json:"description" gorm:"type:text"`
	TeacherID   *string `json:"teacher_id" gorm:"size:255;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Course) TableName() string {
	return "courses"
}

// Session is a class session inside a course, optionally carrying an
// uploaded material attachment.
type Session struct {
	ID             string  `json:"id" gorm:"primaryKey;size:36"`
	CourseID       string  `json:"course_id" gorm:"not null;size:36;index"`
	Title          string  `json:"title" gorm:"not null;size:200"`
	Description    *string `json:"description" gorm:"type:text"`
	AttachmentURL  *string `json:"attachment_url" gorm:"size:500"`
	AttachmentName *string `json:"attachment_name" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Session) TableName() string {
	return "sessions"
}
