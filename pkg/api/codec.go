package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is registered under the name Connect uses for JSON payloads.
const CodecName = "json"

// Codec marshals plain Go structs as JSON. Connect's built-in JSON codec
// only accepts protobuf messages.
type Codec struct{}

func (Codec) Name() string {
	return CodecName
}

func (Codec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return b, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}
