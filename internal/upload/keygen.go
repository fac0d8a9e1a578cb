package upload

import (
	"strings"

	"github.com/google/uuid"
)

// KeyGenerator produces globally unique storage keys. ext is the original
// file extension without the dot; empty means the key has no suffix.
type KeyGenerator interface {
	NewKey(ext string) string
}

// UUIDKeyGenerator derives keys from a fresh random UUID plus the
// original extension. Uniqueness comes from the identifier, never from
// probing the store.
type UUIDKeyGenerator struct{}

func (UUIDKeyGenerator) NewKey(ext string) string {
	id := uuid.NewString()
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return id
	}
	return id + "." + ext
}

// extensionOf extracts the substring after the last dot. A name with no
// dot yields "", which is accepted, not rejected.
func extensionOf(fileName string) string {
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 || idx == len(fileName)-1 {
		return ""
	}
	return fileName[idx+1:]
}
