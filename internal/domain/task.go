package domain

import "time"

// Task is a unit of work owned by exactly one User. OwnerID is backed by a
// foreign key so a task can never reference a missing user.
type Task struct {
	ID          uint    `gorm:"primaryKey"`
	Title       string  `gorm:"not null"`
	Description *string `gorm:"type:text"`
	OwnerID     uint    `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
