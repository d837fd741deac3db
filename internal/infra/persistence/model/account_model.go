package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountModel mirrors the 'accounts' table. The unique index on email is the
// store's guard against duplicate signups.
type AccountModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID   string    `gorm:"type:varchar(64);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:accounts_email_key"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(16);not null"`
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}

// BeforeCreate assigns the ID client-side so inserts work on any dialect.
func (m *AccountModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}
