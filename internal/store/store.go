// Package store persists resume documents keyed by the owner's email.
package store

import (
	"context"
	"errors"
	"strings"

	"buildit/internal/resume"
)

var (
	// ErrNotFound 表示该 email 下没有保存过简历。
	ErrNotFound = errors.New("resume not found")
	// ErrEmailRequired 表示调用方没有提供 email。
	ErrEmailRequired = errors.New("email is required")
)

// Store 是简历文档存储。Save 为 upsert 语义，并发写入同一 email 时后写者覆盖。
type Store interface {
	Get(ctx context.Context, email string) (*resume.Document, error)
	Save(ctx context.Context, email string, doc *resume.Document) error
}

// NormalizeEmail 去除首尾空白并转为小写，空值返回 ErrEmailRequired。
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrEmailRequired
	}
	return email, nil
}
