package sqlutil

import (
	"encoding/json"
	"fmt"
)

// ToJSONB marshals v for a jsonb column.
func ToJSONB(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	return b, nil
}

// FromJSONB unmarshals a jsonb column into dst. NULL columns scan as empty
// bytes and leave dst at its zero value.
func FromJSONB(b []byte, dst any) error {
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("unmarshal jsonb: %w", err)
	}
	return nil
}
