package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONMap stores the normalized technical attributes of a product as a jsonb
// column. Values are strings, except recognized numeric attributes which are
// stored as numbers.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("jsonmap: unsupported column type")
	}
}

// GormDataType tells gorm to map the column to jsonb on Postgres
func (JSONMap) GormDataType() string {
	return "jsonb"
}
