package client

import (
	"encoding/json"
	"fmt"
)

// encodeBody turns a publish body into wire bytes. Byte slices and
// strings pass through with no content type injected; a nil body is sent
// empty, also untagged; anything else is JSON-encoded and tagged
// application/json.
func encodeBody(body interface{}) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return []byte{}, "", nil
	case []byte:
		return b, "", nil
	case string:
		return []byte(b), "", nil
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encode publish body: %w", err)
		}
		return encoded, "application/json", nil
	}
}
