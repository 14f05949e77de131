package storage

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"unicode"

	"github.com/minio/minio-go/v7"
)

// Failure 是导出归档对对象存储错误的分类。
type Failure int

const (
	FailureUnknown Failure = iota
	// FailureObjectMissing 对象不存在，删除时视为成功。
	FailureObjectMissing
	// FailureBucketMissing 归档 bucket 不存在，属于部署配置问题。
	FailureBucketMissing
	// FailureAccessDenied 凭据或权限错误，属于部署配置问题。
	FailureAccessDenied
	// FailureUnavailable 存储服务不可达、超时或正在限流。
	FailureUnavailable
)

func (f Failure) String() string {
	switch f {
	case FailureObjectMissing:
		return "object_missing"
	case FailureBucketMissing:
		return "bucket_missing"
	case FailureAccessDenied:
		return "access_denied"
	case FailureUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Unavailable 表示问题出在部署或存储服务本身，重试同一请求不会更好。
func (f Failure) Unavailable() bool {
	switch f {
	case FailureBucketMissing, FailureAccessDenied, FailureUnavailable:
		return true
	}
	return false
}

// S3 错误码到分类的映射，大小写与 S3 返回一致。
var failureCodes = map[string]Failure{
	"NoSuchKey":                  FailureObjectMissing,
	"NotFound":                   FailureObjectMissing,
	"NoSuchBucket":               FailureBucketMissing,
	"AccessDenied":               FailureAccessDenied,
	"InvalidAccessKeyId":         FailureAccessDenied,
	"SignatureDoesNotMatch":      FailureAccessDenied,
	"AccountProblem":             FailureAccessDenied,
	"ServiceUnavailable":         FailureUnavailable,
	"SlowDown":                   FailureUnavailable,
	"RequestTimeout":             FailureUnavailable,
	"XMinioServerNotInitialized": FailureUnavailable,
}

// Classify 判断 minio 返回的错误类别：优先读取 S3 错误码，其次是网络与超时错误。
// 被网关压成字符串的错误只按完整的 S3 错误码单词匹配，"host not found" 之类不会被当作对象不存在。
func Classify(err error) Failure {
	if err == nil {
		return FailureUnknown
	}

	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		if f, ok := failureCodes[strings.TrimSpace(resp.Code)]; ok {
			return f
		}
		if resp.StatusCode == http.StatusServiceUnavailable {
			return FailureUnavailable
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FailureUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return FailureUnavailable
	}

	words := strings.FieldsFunc(err.Error(), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if f, ok := failureCodes[w]; ok {
			return f
		}
	}
	return FailureUnknown
}

// IsNoSuchKey 判断错误是否明确表示对象不存在。
func IsNoSuchKey(err error) bool {
	return Classify(err) == FailureObjectMissing
}
