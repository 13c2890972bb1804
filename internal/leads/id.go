package leads

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idSuffixLen = 9

// NewID returns REQ-<unix millis>-<9 lowercase alnum>. The suffix is taken from
// a random uuid so ids generated in the same millisecond do not collide.
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLen]
	return fmt.Sprintf("REQ-%d-%s", now.UnixMilli(), suffix)
}
