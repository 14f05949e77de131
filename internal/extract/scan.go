package extract

import (
	"bytes"
	"fmt"

	"github.com/dutchcoders/go-clamd"
)

// Scanner 在文件内容被解析前检查恶意内容。
type Scanner interface {
	Scan(data []byte) error
}

// ClamdScanner 通过 clamd 的 INSTREAM 命令扫描文件。
type ClamdScanner struct {
	client *clamd.Clamd
}

// NewClamdScanner 根据地址创建扫描器，例如 tcp://127.0.0.1:3310 或 unix socket 路径。
func NewClamdScanner(addr string) *ClamdScanner {
	return &ClamdScanner{client: clamd.NewClamd(addr)}
}

func (s *ClamdScanner) Scan(data []byte) error {
	abort := make(chan bool)
	defer close(abort)

	results, err := s.client.ScanStream(bytes.NewReader(data), abort)
	if err != nil {
		return fmt.Errorf("scan file: %w", err)
	}

	var verdict error
	for result := range results {
		switch result.Status {
		case clamd.RES_OK:
		case clamd.RES_FOUND:
			verdict = fmt.Errorf("%w: %s", ErrInfected, result.Description)
		default:
			if verdict == nil {
				verdict = fmt.Errorf("scan file: %s", result.Raw)
			}
		}
	}
	return verdict
}
