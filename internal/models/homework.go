package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DeliveryType string

const (
	DeliveryFile   DeliveryType = "file"
	DeliveryText   DeliveryType = "text"
	DeliveryOnline DeliveryType = "online"
)

// Homework is an assignment scoped to a course with a submission window.
type Homework struct {
	ID           string         `json:"id" gorm:"primaryKey;size:36"`
	CourseID     string         `json:"course_id" gorm:"not null;size:36;index"`
	Title        string         `json:"title" gorm:"not null;size:200"`
	Instructions *string        `json:"instructions" gorm:"type:text"`
	StartDate    datatypes.Date `json:"start_date" gorm:"not null"`
	EndDate      datatypes.Date `json:"end_date" gorm:"not null"`
	StartTime    *string        `json:"start_time" gorm:"size:8"`
	EndTime      *string        `json:"end_time" gorm:"size:8"`
	DeliveryType DeliveryType   `json:"delivery_type" gorm:"size:20;default:file"`

	AttachmentURL  *string `json:"attachment_url" gorm:"size:500"`
	AttachmentName *string `json:"attachment_name" gorm:"size:255"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Homework) TableName() string {
	return "homeworks"
}
