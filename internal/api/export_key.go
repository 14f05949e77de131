package api

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	exportKeyRoot      = "resume-exports"
	exportTimestamp    = "20060102T150405Z"
	maxExportObjectKey = 200
)

// exportOwnerID 把 email 映射为稳定的对象前缀，避免 email 原文出现在对象存储路径中。
func exportOwnerID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}

func exportPrefix(email string) string {
	return fmt.Sprintf("%s/%s/", exportKeyRoot, exportOwnerID(email))
}

// newExportObjectKey 以 UTC 时间戳开头，字典序即时间序。
func newExportObjectKey(email string, now time.Time) string {
	return exportPrefix(email) + now.UTC().Format(exportTimestamp) + "-" + uuid.NewString() + ".pdf"
}

func isValidExportObjectKey(email, key string) bool {
	if key == "" || !utf8.ValidString(key) {
		return false
	}
	if !strings.HasPrefix(key, exportPrefix(email)) {
		return false
	}
	if strings.Contains(key, "..") || strings.Contains(key, "\\") || strings.Contains(key, "//") {
		return false
	}
	if len(key) > maxExportObjectKey {
		return false
	}
	rest := strings.TrimPrefix(key, exportPrefix(email))
	if strings.Contains(rest, "/") {
		return false
	}
	return strings.HasSuffix(strings.ToLower(rest), ".pdf")
}
