package models

import "time"

// Submission is a student's answer to a homework: a file stored in object
// storage plus the grading fields filled in later by the teacher.
type Submission struct {
	ID         string  `json:"id" gorm:"primaryKey;size:36"`
	HomeworkID string  `json:"homework_id" gorm:"not null;size:36;index"`
	StudentID  string  `json:"student_id" gorm:"not null;size:255;index"`
	FileURL    string  `json:"file_url" gorm:"size:500"`
	FileName   string  `json:"file_name" gorm:"size:255"`
	TextAnswer *string `json:"text_answer" gorm:"type:text"`

	Score    *float64 `json:"score"`
	Feedback *string  `json:"feedback" gorm:"type:text"`
	GradedBy *string  `json:"graded_by" gorm:"size:255"`
	GradedAt *time.Time `json:"graded_at"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Submission) TableName() string {
	return "submissions"
}

// IsGraded reports whether the teacher has recorded a score.
func (s *Submission) IsGraded() bool {
	return s.Score != nil
}
