package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DeductionItem is one named percentage deduction (e.g. {"Moisture", 5}).
type DeductionItem struct {
	Name    string          `json:"name"`
	Percent decimal.Decimal `json:"percentage"`
}

// DeductionItems is the ordered deduction list applied to a single purchase.
// Stored as a JSON column on purchase_transactions.
type DeductionItems []DeductionItem

func (d DeductionItems) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *DeductionItems) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	b, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("deduction items: %w", err)
	}
	return json.Unmarshal(b, d)
}

// DeductionPreset is a named, reusable set of deduction items configured on a
// season (e.g. "Wet season standard": Moisture 5%, Foreign Matter 3%).
type DeductionPreset struct {
	Name  string         `json:"name"`
	Items DeductionItems `json:"items"`
}

// DeductionConfig is the versioned season-level preset configuration.
//
// Version 1 is the only current schema. Configurations written by earlier
// releases stored a flat item list; Scan migrates those into a single
// "Default" preset so callers only ever see the versioned shape.
type DeductionConfig struct {
	Version int               `json:"version"`
	Presets []DeductionPreset `json:"presets"`
}

func (c DeductionConfig) Value() (driver.Value, error) {
	if len(c.Presets) == 0 {
		return nil, nil
	}
	if c.Version == 0 {
		c.Version = 1
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *DeductionConfig) Scan(src interface{}) error {
	if src == nil {
		*c = DeductionConfig{Version: 1}
		return nil
	}
	b, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("deduction config: %w", err)
	}
	return c.UnmarshalJSON(b)
}

// UnmarshalJSON accepts both the versioned schema and the legacy flat list
// `[{"name":...,"percentage":...}]`, folding the latter into one implicit
// preset named "Default".
func (c *DeductionConfig) UnmarshalJSON(b []byte) error {
	type versioned DeductionConfig
	var v versioned
	if err := json.Unmarshal(b, &v); err == nil && v.Version > 0 {
		*c = DeductionConfig(v)
		return nil
	}

	var flat DeductionItems
	if err := json.Unmarshal(b, &flat); err != nil {
		return errors.New("deduction config: unrecognized schema")
	}
	c.Version = 1
	c.Presets = nil
	if len(flat) > 0 {
		c.Presets = []DeductionPreset{{Name: "Default", Items: flat}}
	}
	return nil
}

// Preset returns the named preset, or nil when absent.
func (c *DeductionConfig) Preset(name string) *DeductionPreset {
	for i := range c.Presets {
		if c.Presets[i].Name == name {
			return &c.Presets[i]
		}
	}
	return nil
}

func jsonBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", src)
	}
}
