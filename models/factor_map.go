package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FactorValue is one entry of a snapshot factor map. Stored snapshots mix two
// shapes: bare scalars ("sleep_score": 75) and structured objects
// ("HRV": {"value": 74, "unit": "ms", "impact": "positive"}). Decoding is
// explicit: any JSON object is treated as structured, everything else as a
// scalar with neutral impact.
type FactorValue struct {
	Value  any    `json:"value"`
	Unit   string `json:"unit,omitempty"`
	Impact string `json:"impact,omitempty"`
}

// Scalar reports whether the entry carries no structure beyond its value.
func (f FactorValue) Scalar() bool {
	return f.Unit == "" && (f.Impact == "" || f.Impact == "neutral")
}

func (f FactorValue) MarshalJSON() ([]byte, error) {
	if f.Unit == "" && f.Impact == "" {
		return json.Marshal(f.Value)
	}
	type structured FactorValue
	return json.Marshal(structured(f))
}

func (f *FactorValue) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err == nil {
		if raw, ok := probe["value"]; ok {
			if err := json.Unmarshal(raw, &f.Value); err != nil {
				return err
			}
		}
		if raw, ok := probe["unit"]; ok {
			_ = json.Unmarshal(raw, &f.Unit)
		}
		f.Impact = "neutral"
		if raw, ok := probe["impact"]; ok {
			_ = json.Unmarshal(raw, &f.Impact)
		}
		return nil
	}
	f.Impact = "neutral"
	return json.Unmarshal(data, &f.Value)
}

// FactorMap is the persisted factor set of a readiness snapshot, stored as a
// single JSON column.
type FactorMap map[string]FactorValue

func (m FactorMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *FactorMap) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = FactorMap{}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported factor map source type %T", src)
	}
}

// GormDataType keeps the column a JSON/TEXT blob on both supported drivers.
func (FactorMap) GormDataType() string {
	return "json"
}
