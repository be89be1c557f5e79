package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// DecodeStringList deserializes a stored JSON list column. A malformed
// payload is treated as an absent field, never as an error.
func DecodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}

	var out []string

	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}

	return out
}

func EncodeStringList(values []string) datatypes.JSON {
	if values == nil {
		return nil
	}

	raw, err := json.Marshal(values)

	if err != nil {
		return nil
	}

	return datatypes.JSON(raw)
}
