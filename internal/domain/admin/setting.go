package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettingType describes how a setting value is parsed
type SettingType string

const (
	SettingTypeString   SettingType = "string"
	SettingTypeInt      SettingType = "int"
	SettingTypeDecimal  SettingType = "decimal"
	SettingTypeBool     SettingType = "bool"
	SettingTypeDuration SettingType = "duration"
)

// IsValid checks if the setting type is known
func (t SettingType) IsValid() bool {
	switch t {
	case SettingTypeString, SettingTypeInt, SettingTypeDecimal, SettingTypeBool, SettingTypeDuration:
		return true
	}
	return false
}

// Well-known setting keys
const (
	KeyTaxRate         = "marketplace.tax_rate"
	KeyCommissionRate  = "marketplace.commission_rate"
	KeyReleaseWindow   = "escrow.release_window"
	KeyMaintenanceMode = "marketplace.maintenance_mode"
)

type settingSpec struct {
	Type        SettingType
	Description string
	validate    func(string) error
}

func rateBetweenZeroAndOne(v string) error {
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_SETTING_VALUE", "Value must be a decimal between 0 and 1")
	}
	return nil
}

var wellKnown = map[string]settingSpec{
	KeyTaxRate:        {Type: SettingTypeDecimal, Description: "Tax rate applied to the discounted subtotal", validate: rateBetweenZeroAndOne},
	KeyCommissionRate: {Type: SettingTypeDecimal, Description: "Platform commission taken from each vendor escrow", validate: rateBetweenZeroAndOne},
	KeyReleaseWindow: {Type: SettingTypeDuration, Description: "Delay between delivery and escrow release", validate: func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil || d < time.Minute || d > 90*24*time.Hour {
			return shared.NewDomainError("INVALID_SETTING_VALUE", "Release window must be a duration between 1m and 2160h")
		}
		return nil
	}},
	KeyMaintenanceMode: {Type: SettingTypeBool, Description: "Reject non-admin writes with 503"},
}

// WellKnownType returns the enforced type of a well-known key
func WellKnownType(key string) (SettingType, bool) {
	spec, ok := wellKnown[key]
	return spec.Type, ok
}

// SystemSetting is a runtime-editable configuration value
type SystemSetting struct {
	Key         string
	Value       string
	Type        SettingType
	Description string
	UpdatedBy   *uuid.UUID
	UpdatedAt   time.Time
}

// NewSystemSetting validates a setting. Well-known keys force their type and range.
func NewSystemSetting(key, value string, typ SettingType, description string, updatedBy *uuid.UUID) (*SystemSetting, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" || len(key) > 100 {
		return nil, shared.NewDomainError("INVALID_SETTING_KEY", "Setting key must be 1-100 characters")
	}
	if spec, ok := wellKnown[key]; ok {
		typ = spec.Type
		if description == "" {
			description = spec.Description
		}
	}
	if typ == "" {
		typ = SettingTypeString
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError("INVALID_SETTING_TYPE", "Unknown setting type")
	}
	value = strings.TrimSpace(value)
	if err := checkType(typ, value); err != nil {
		return nil, err
	}
	if spec, ok := wellKnown[key]; ok && spec.validate != nil {
		if err := spec.validate(value); err != nil {
			return nil, err
		}
	}
	return &SystemSetting{
		Key:         key,
		Value:       value,
		Type:        typ,
		Description: description,
		UpdatedBy:   updatedBy,
		UpdatedAt:   time.Now(),
	}, nil
}

func checkType(typ SettingType, value string) error {
	var err error
	switch typ {
	case SettingTypeInt:
		_, err = strconv.ParseInt(value, 10, 64)
	case SettingTypeDecimal:
		_, err = decimal.NewFromString(value)
	case SettingTypeBool:
		_, err = strconv.ParseBool(value)
	case SettingTypeDuration:
		_, err = time.ParseDuration(value)
	}
	if err != nil {
		return shared.NewDomainError("INVALID_SETTING_VALUE", "Value is not a valid "+string(typ))
	}
	return nil
}

// Decimal parses the value as a decimal
func (s *SystemSetting) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(s.Value)
}

// Bool parses the value as a bool
func (s *SystemSetting) Bool() (bool, error) {
	return strconv.ParseBool(s.Value)
}

// Duration parses the value as a duration
func (s *SystemSetting) Duration() (time.Duration, error) {
	return time.ParseDuration(s.Value)
}
