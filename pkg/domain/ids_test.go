package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "absences/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseReferenceDataID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseReferenceDataID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseReferenceDataID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseReferenceDataID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, ReferenceDataID(validUUID), id)
	})
}

func TestParseID_RejectsHostileInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE reference_data;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Unicode zero-width space", "550e8400\u200B-e29b-41d4-a716-446655440000", true},
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLinkID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestIDs_TextEncoding(t *testing.T) {
	id := NewReferenceDataID()

	payload, err := json.Marshal(map[string]ReferenceDataID{"id": id})
	require.NoError(t, err)
	assert.Contains(t, string(payload), id.String())

	var decoded map[string]ReferenceDataID
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, id, decoded["id"])
	assert.False(t, decoded["id"].IsNil())
	assert.True(t, ReferenceDataID{}.IsNil())
}

func TestDomainCode(t *testing.T) {
	t.Run("parses every supported domain", func(t *testing.T) {
		for code := range validDomainCodes {
			parsed, err := ParseDomainCode(code.String())
			require.NoError(t, err)
			assert.Equal(t, code, parsed)
		}
	})

	t.Run("AllDomains matches the allowlist", func(t *testing.T) {
		all := AllDomains()
		assert.Len(t, all, len(validDomainCodes))
		assert.Equal(t, HierarchyDomains, all[:len(HierarchyDomains)])
		for _, d := range all {
			assert.True(t, d.IsValid(), d)
		}
	})

	t.Run("rejects empty and unknown domains", func(t *testing.T) {
		for _, input := range []string{"", "absence_type", "ABSENCE"} {
			_, err := ParseDomainCode(input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})

	t.Run("hierarchy chain is ordered", func(t *testing.T) {
		assert.Equal(t, 0, DomainAbsenceType.Rank())
		assert.Equal(t, 1, DomainAbsenceSubType.Rank())
		assert.Equal(t, 2, DomainAbsenceReasonCategory.Rank())
		assert.Equal(t, 3, DomainAbsenceReason.Rank())
		assert.Equal(t, -1, DomainTransport.Rank())
		assert.False(t, DomainTransport.IsHierarchy())
	})

	t.Run("reasons are never domain linked", func(t *testing.T) {
		assert.True(t, DomainAbsenceType.IsDomainLinked())
		assert.True(t, DomainAbsenceSubType.IsDomainLinked())
		assert.True(t, DomainAbsenceReasonCategory.IsDomainLinked())
		assert.False(t, DomainAbsenceReason.IsDomainLinked())
		assert.False(t, DomainAccompaniedBy.IsDomainLinked())
	})
}
