package render

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeAsset decodes an asset supplied as standard base64, optionally
// wrapped in a data: URL. Blank input yields nil without error.
func DecodeAsset(raw string) ([]byte, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "data:") {
		if _, payload, ok := strings.Cut(trimmed, ","); ok {
			trimmed = payload
		}
	}
	data, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: asset is not valid base64: %v", ErrInvalidOptions, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: asset is empty", ErrInvalidOptions)
	}
	return data, nil
}
