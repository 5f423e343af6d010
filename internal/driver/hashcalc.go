package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"ohdl/internal/source"
)

// CacheKey addresses one cached unit.
type CacheKey [32]byte

func (k CacheKey) String() string { return hex.EncodeToString(k[:]) }

// cacheKeyFor mixes the content hash with everything that changes the
// cached diagnostics: schema, bag limit and severity promotion.
func cacheKeyFor(f *source.File, opts Options) CacheKey {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], diskCacheSchemaVersion)
	h.Write(buf[:2])
	binary.LittleEndian.PutUint64(buf[:], uint64(max(opts.MaxDiagnostics, 0))) //nolint:gosec // non-negative
	h.Write(buf[:])
	if opts.WarningsAsErrors {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	h.Write(f.Hash[:])
	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key
}
