package entities

import "time"

// Job represents the persisted job lifecycle record. Rows are soft deleted
// only: the sweeper and the delete API flip status, they never remove rows.
type Job struct {
	JobID       string    `gorm:"type:varchar(40);primaryKey"`
	OwnerID     *uint64   `gorm:"index"`
	Filename    string    `gorm:"type:varchar(255)"`
	SizeBytes   int64     `gorm:"not null;default:0"`
	Status      string    `gorm:"type:varchar(16);not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	ProcessedAt *time.Time
}

func (Job) TableName() string {
	return "jobs"
}
