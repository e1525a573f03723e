package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
)

// Identity derives the stable document identity used as the upsert key
// prefix. It combines the filename with a digest of the content so that
// re-ingesting the same bytes under the same name produces identical chunk
// ids, while identically named files with different content do not collide.
// The identity parameter is mandatory on the write path; there is no
// positional-only fallback.
func Identity(filename string, payload []byte) string {
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%s-%s", filepath.Base(filename), hex.EncodeToString(sum[:])[:12])
}

// ChunkID builds the deterministic per-chunk record id.
func ChunkID(identity string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", identity, index)
}
