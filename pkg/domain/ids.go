package domain

import (
	"github.com/google/uuid"

	dErrors "absences/pkg/domain-errors"
)

// Typed identifiers keep reference-data and link identities from being mixed
// up at compile time. Both are graph keys; the natural key of a reference-data
// item is (DomainCode, code).
type (
	ReferenceDataID uuid.UUID
	LinkID          uuid.UUID
)

// NewReferenceDataID returns a fresh random identity.
func NewReferenceDataID() ReferenceDataID { return ReferenceDataID(uuid.New()) }

// NewLinkID returns a fresh random identity.
func NewLinkID() LinkID { return LinkID(uuid.New()) }

func (id ReferenceDataID) String() string { return uuid.UUID(id).String() }
func (id ReferenceDataID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id LinkID) String() string { return uuid.UUID(id).String() }
func (id LinkID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText keeps typed IDs readable in JSON payloads and map keys.
func (id ReferenceDataID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *ReferenceDataID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id LinkID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *LinkID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// ParseReferenceDataID parses external input into a ReferenceDataID.
// Errors: CodeInvalidInput for empty, malformed or nil UUIDs.
func ParseReferenceDataID(s string) (ReferenceDataID, error) {
	u, err := parseUUID(s, "reference data id")
	return ReferenceDataID(u), err
}

// ParseLinkID parses external input into a LinkID.
// Errors: CodeInvalidInput for empty, malformed or nil UUIDs.
func ParseLinkID(s string) (LinkID, error) {
	u, err := parseUUID(s, "link id")
	return LinkID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}
