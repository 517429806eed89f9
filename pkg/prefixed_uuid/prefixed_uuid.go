// Package prefixed_uuid implements typed identifiers of the form
// "<prefix>-<uuid>", such as "usr-0f8fad5b-d9cb-469f-a165-70867728950e".
package prefixed_uuid

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PrefixedUUID is a UUID tagged with an entity prefix.
type PrefixedUUID struct {
	Prefix string
	UUID   uuid.UUID
}

// New generates a random ID under prefix.
func New(prefix string) PrefixedUUID {
	return PrefixedUUID{Prefix: prefix, UUID: uuid.New()}
}

// Parse splits s at the first hyphen. The prefix itself must not contain
// hyphens.
func Parse(s string) (PrefixedUUID, error) {
	prefix, rest, ok := strings.Cut(s, "-")
	if !ok || prefix == "" {
		return PrefixedUUID{}, fmt.Errorf("invalid prefixed UUID %q", s)
	}
	id, err := uuid.Parse(rest)
	if err != nil {
		return PrefixedUUID{}, fmt.Errorf("invalid prefixed UUID %q: %w", s, err)
	}
	return PrefixedUUID{Prefix: prefix, UUID: id}, nil
}

// ParseWithPrefix is Parse plus a prefix check.
func ParseWithPrefix(s, prefix string) (PrefixedUUID, error) {
	p, err := Parse(s)
	if err != nil {
		return PrefixedUUID{}, err
	}
	if p.Prefix != prefix {
		return PrefixedUUID{}, fmt.Errorf("expected %q prefix, got %q", prefix, p.Prefix)
	}
	return p, nil
}

func (p PrefixedUUID) String() string {
	return p.Prefix + "-" + p.UUID.String()
}

func (p PrefixedUUID) IsZero() bool {
	return p.Prefix == "" && p.UUID == uuid.Nil
}

func (p PrefixedUUID) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PrefixedUUID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("prefixed UUID must be a JSON string: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
