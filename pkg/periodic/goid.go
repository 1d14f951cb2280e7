package periodic

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID parses the id of the calling goroutine from the first line of
// its stack trace ("goroutine 123 [running]:"). It exists only so Stop can
// turn the stop-from-callback self-join deadlock into an immediate panic.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	s := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	id, err := strconv.ParseUint(string(s), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
