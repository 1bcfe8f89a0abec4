package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchRecord is the persisted trace of one scored resume/job pair. Only
// derived numbers and term lists are stored; the submitted texts themselves
// are never written to the database.
type MatchRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Match       int       `gorm:"not null" json:"match"`
	QuickMatch  int       `gorm:"not null" json:"quick_match"`
	Overlap     string    `gorm:"type:text" json:"overlap"`
	Missing     string    `gorm:"type:text" json:"missing"`
	Method      string    `gorm:"type:text" json:"method"`
	Model       string    `gorm:"type:text" json:"model"`
	ResumeChars int       `json:"resume_chars"`
	JobChars    int       `json:"job_chars"`
	CreatedAt   time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (MatchRecord) TableName() string {
	return "match_records"
}
