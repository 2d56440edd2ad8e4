package common

import (
	"math"
	"testing"
)

func TestSafeIntToUint32(t *testing.T) {
	testCases := []struct {
		name     string
		value    int
		expected uint32
		hasError bool
	}{
		{"zero", 0, 0, false},
		{"payload size", 0x1F2E4, 0x1F2E4, false},
		{"max", math.MaxUint32, math.MaxUint32, false},
		{"negative", -1, 0, true},
		{"too large", math.MaxUint32 + 1, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := SafeIntToUint32(tc.value)
			if tc.hasError {
				if err == nil {
					t.Errorf("SafeIntToUint32(%d) should fail", tc.value)
				}
				return
			}
			if err != nil {
				t.Errorf("SafeIntToUint32(%d) failed: %v", tc.value, err)
			}
			if result != tc.expected {
				t.Errorf("SafeIntToUint32(%d) = %d, want %d", tc.value, result, tc.expected)
			}
		})
	}
}

func TestSafeInt64ToUint32(t *testing.T) {
	if _, err := SafeInt64ToUint32(-4); err == nil {
		t.Error("SafeInt64ToUint32(-4) should fail")
	}
	if _, err := SafeInt64ToUint32(math.MaxUint32 + 4); err == nil {
		t.Error("SafeInt64ToUint32() should fail past the uint32 range")
	}
	if result, err := SafeInt64ToUint32(0x456E00); err != nil || result != 0x456E00 {
		t.Errorf("SafeInt64ToUint32(0x456E00) = 0x%X, %v", result, err)
	}
}
