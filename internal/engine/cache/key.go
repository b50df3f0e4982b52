package cache

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/zerr"
)

// Canonical returns a serialization of v that does not depend on struct field order
// or map iteration order: v is encoded to JSON, decoded into generic values and
// encoded again, which sorts every object's keys.
func Canonical(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheSerialization.Error())
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheSerialization.Error())
	}

	out, err := json.Marshal(generic)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheSerialization.Error())
	}
	return out, nil
}

// Key derives a stable content hash from the canonical form of each part.
// Logically identical inputs always produce the same key.
func Key(parts ...any) (string, error) {
	hasher := xxhash.New()
	for i, part := range parts {
		canon, err := Canonical(part)
		if err != nil {
			return "", zerr.With(err, "part", i)
		}
		_, _ = hasher.Write(canon)
		// Separator keeps ("ab", "c") and ("a", "bc") apart.
		_, _ = hasher.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
