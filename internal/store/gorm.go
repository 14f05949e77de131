package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"buildit/internal/database"
	"buildit/internal/resume"
)

// GormStore 将简历以 JSONB 形式保存在 PostgreSQL（测试中为 SQLite）。
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) Get(ctx context.Context, email string) (*resume.Document, error) {
	key, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	var record database.ResumeRecord
	if err := s.db.WithContext(ctx).Where("email = ?", key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query resume: %w", err)
	}

	var doc resume.Document
	if err := json.Unmarshal(record.Content, &doc); err != nil {
		return nil, fmt.Errorf("decode resume content: %w", err)
	}
	doc.Normalize()
	doc.Email = record.Email
	ts := record.LastUpdated.UTC()
	doc.LastUpdated = &ts
	return &doc, nil
}

func (s *GormStore) Save(ctx context.Context, email string, doc *resume.Document) error {
	key, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	if doc == nil {
		return errors.New("resume document is nil")
	}

	now := s.now().UTC()
	doc.Email = key
	doc.LastUpdated = &now

	content, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode resume content: %w", err)
	}

	record := database.ResumeRecord{
		Email:       key,
		Content:     datatypes.JSON(content),
		LastUpdated: now,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "last_updated", "updated_at", "deleted_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("upsert resume: %w", err)
	}
	return nil
}
