package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ResumeRecord 以 email 为自然键保存整份简历 JSON，每次保存整体覆盖。
type ResumeRecord struct {
	gorm.Model
	Email       string         `gorm:"uniqueIndex;size:320;not null"`
	Content     datatypes.JSON `gorm:"type:jsonb"`
	LastUpdated time.Time      `gorm:"index"`
}

// TableName 固定表名。
func (ResumeRecord) TableName() string {
	return "resumes"
}

// AutoMigrate 创建或更新简历相关的表结构。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&ResumeRecord{})
}
