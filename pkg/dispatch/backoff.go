package dispatch

import (
	"strconv"
	"strings"
	"time"
)

// NextDelay computes how long to wait before retrying a throttled call.
//
// A numeric server hint (Retry-After style, whole seconds) is used verbatim.
// A missing, non-numeric, or negative hint degrades to fallback (the
// operation's normal pacing interval) and never fails the call. There is
// no exponential growth between attempts; each retry waits the hinted or
// fallback interval independently.
//
// NextDelay does not sleep; it only computes the duration.
func NextDelay(serverHint string, fallback time.Duration) time.Duration {
	hint := strings.TrimSpace(serverHint)
	if hint == "" {
		return fallback
	}
	secs, err := strconv.Atoi(hint)
	if err != nil || secs < 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
