package story

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BuildObjectKey returns a storage key for a new story object. The timestamp
// keeps keys browsable; the uuid suffix guarantees two runs uploading within
// the same second never collide.
func BuildObjectKey(prefix string, now time.Time) string {
	p := strings.TrimSpace(prefix)
	if p != "" && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%sstory-%s-%s.txt", p, now.UTC().Format("20060102-150405"), suffix)
}
