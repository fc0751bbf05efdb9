package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSystemSetting(t *testing.T) {
	t.Run("well-known keys force their type", func(t *testing.T) {
		s, err := NewSystemSetting("Marketplace.Tax_Rate", "0.2", SettingTypeString, "", nil)
		require.NoError(t, err)
		assert.Equal(t, KeyTaxRate, s.Key)
		assert.Equal(t, SettingTypeDecimal, s.Type)
		assert.NotEmpty(t, s.Description)
		v, err := s.Decimal()
		require.NoError(t, err)
		assert.Equal(t, "0.2", v.String())
	})

	tests := []struct {
		name  string
		key   string
		value string
		typ   SettingType
	}{
		{"rate above one", KeyCommissionRate, "1.5", ""},
		{"rate not a number", KeyTaxRate, "abc", ""},
		{"window too short", KeyReleaseWindow, "10s", ""},
		{"maintenance not bool", KeyMaintenanceMode, "maybe", ""},
		{"custom int", "feature.limit", "ten", SettingTypeInt},
		{"unknown type", "feature.x", "1", "uuid"},
		{"empty key", " ", "1", SettingTypeString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSystemSetting(tt.key, tt.value, tt.typ, "", nil)
			assert.Error(t, err)
		})
	}

	t.Run("duration and bool accessors", func(t *testing.T) {
		s, err := NewSystemSetting(KeyReleaseWindow, "48h", "", "", nil)
		require.NoError(t, err)
		d, err := s.Duration()
		require.NoError(t, err)
		assert.Equal(t, 48*time.Hour, d)

		s, err = NewSystemSetting(KeyMaintenanceMode, "true", "", "", nil)
		require.NoError(t, err)
		b, err := s.Bool()
		require.NoError(t, err)
		assert.True(t, b)
	})
}

func TestNewAuditLog(t *testing.T) {
	a := NewAuditLog(nil, "", "OrderPlaced", "Order", "123", "{}")
	assert.Equal(t, "system", a.ActorRole)
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	a.WithClient("10.0.0.1", string(long))
	assert.Len(t, a.UserAgent, 255)
}
