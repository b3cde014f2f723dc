package images

import (
	"crypto/md5"
	"fmt"
)

// Checksum generates a deterministic checksum of a buffer's contents, used to verify
// that a stage is idempotent across repeated frames.
//
// Returns:
//   - A hex-encoded MD5 checksum string.
func Checksum(f FrameBuffer) string {
	if len(f.Pix) == 0 {
		return "empty"
	}
	sum := md5.Sum(f.Pix)
	return fmt.Sprintf("%x", sum[:])
}
