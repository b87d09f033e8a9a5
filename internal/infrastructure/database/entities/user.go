package entities

import "time"

// User represents a persisted account with its plan and storage counter.
type User struct {
	ID               uint64    `gorm:"primaryKey"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	HashedPassword   string    `gorm:"type:varchar(128);not null"`
	Plan             string    `gorm:"type:varchar(16);not null;default:free"`
	StorageUsedBytes int64     `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
