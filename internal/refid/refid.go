package refid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prefixes for the customer-facing reference ids.
const (
	QuotePrefix   = "COT"
	BookingPrefix = "PED"
)

// New builds a display id like COT-MBX2K9F1-0003: a millisecond timestamp in
// base36 plus a per-cart sequence, so ids stay unique and roughly sortable.
func New(prefix string, now time.Time, seq int) string {
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return fmt.Sprintf("%s-%s-%04d", prefix, stamp, seq)
}
