// Package pagination normalizes page sizes and opaque sequence page tokens.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const tokenPrefix = "seq:"

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ClampPageSize applies defaults and limits for page sizes.
func ClampPageSize(value int32, cfg PageSizeConfig) int {
	pageSize := int(value)
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}

// EncodeSeqToken returns an opaque token resuming after sequence number seq.
func EncodeSeqToken(seq int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(tokenPrefix + strconv.FormatInt(seq, 10)))
}

// DecodeSeqToken returns the sequence number encoded in token.
// An empty token decodes to zero, the position before the first record.
func DecodeSeqToken(token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("invalid page token: %w", err)
	}
	value, ok := strings.CutPrefix(string(raw), tokenPrefix)
	if !ok {
		return 0, fmt.Errorf("invalid page token")
	}
	seq, err := strconv.ParseInt(value, 10, 64)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("invalid page token")
	}
	return seq, nil
}
