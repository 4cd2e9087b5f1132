package selection

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Faculty is one faculty member from the static catalog. Capacity is the
// number of seats the faculty holds per subject they teach.
type Faculty struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Subject is one subject from the static catalog.
type Subject struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	EligibleFacultyIDs []string `json:"eligibleFacultyIds"`
}

// Submission is one student's faculty selection, keyed by roll number.
// The selections column maps subject id to the chosen faculty id.
type Submission struct {
	RollNumber     string            `json:"rollNumber" gorm:"column:roll_number;primaryKey"`
	SubmissionID   uuid.UUID         `json:"submissionId" gorm:"column:submission_id;type:uuid;not null"`
	Name           string            `json:"name" gorm:"not null"`
	Email          string            `json:"email" gorm:"not null"`
	WhatsappNumber string            `json:"whatsappNumber" gorm:"column:whatsapp_number;not null"`
	Timestamp      time.Time         `json:"timestamp" gorm:"not null"`
	Selections     datatypes.JSONMap `json:"selections" gorm:"type:jsonb;not null"`
	CreatedAt      time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Submission) TableName() string {
	return "submissions"
}

// SelectionMap returns the selections as subject id -> faculty id.
func (s *Submission) SelectionMap() map[string]string {
	out := make(map[string]string, len(s.Selections))
	for subjectID, facultyID := range s.Selections {
		out[subjectID] = fmt.Sprint(facultyID)
	}
	return out
}

// SelectionsColumn converts a plain selections map into the JSONB column type.
func SelectionsColumn(m map[string]string) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(m))
	for subjectID, facultyID := range m {
		out[subjectID] = facultyID
	}
	return out
}

// SlotCounter is the database mirror of one live counter. Redis owns the
// authoritative value; this row is refreshed asynchronously so the count
// survives a cache flush and is visible to reporting queries.
type SlotCounter struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	FacultyID string    `json:"faculty_id" gorm:"column:faculty_id;not null"`
	SubjectID string    `json:"subject_id" gorm:"column:subject_id;not null"`
	Remaining int       `json:"remaining" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (SlotCounter) TableName() string {
	return "slot_counters"
}

// SlotRef identifies one reserved (faculty, subject) slot within a
// submission attempt.
type SlotRef struct {
	FacultyID string
	SubjectID string
}
