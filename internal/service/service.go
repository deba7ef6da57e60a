package service

import (
	"bytes"
	"encoding/json"
	"strings"
)

const bcryptCost = 10

// OptionalID is a JSON id that tells an explicit null apart from an absent key.
type OptionalID struct {
	Set bool
	ID  *uint
}

// UnmarshalJSON implements json.Unmarshaler. It only runs when the key is present.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.ID = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.ID = &id
	return nil
}

// NewOptionalID returns a set OptionalID holding id.
func NewOptionalID(id uint) OptionalID {
	return OptionalID{Set: true, ID: &id}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func apply(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func applyTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
