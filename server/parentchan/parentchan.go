// Package parentchan implements the client-side half of the out-of-band
// parent channel: a process that spawns a VT6 client inherits file
// descriptor 60 carrying exactly one posix1.parent-hello message, after
// which the descriptor is closed. This lets a launcher hand a freshly
// registered client its secret and the server's socket path without
// putting either on the command line or in the environment, where they
// would be visible to anything that can read /proc.
//
// The full VT6 client library is out of scope; this package holds only the
// FD-60 read. Nothing else in this repository imports it.
package parentchan

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"vt6.io/vt6d/common/wire"
	"vt6.io/vt6d/msg/posix"
)

// FD is the file descriptor a parent-hello is conventionally inherited on.
const FD = 60

// ErrNoParentChannel is returned by Read when FD 60 was not inherited open
// (the common case: most processes are not launched this way).
var ErrNoParentChannel = fmt.Errorf("vt6: file descriptor %d is not open", FD)

// Read consumes and closes the FD-60 parent channel, returning the
// decoded parent-hello. It is safe to call at most once per process; a
// second call will find the descriptor already closed and return
// ErrNoParentChannel.
func Read() (posix.ParentHello, error) {
	if !isOpen(FD) {
		return posix.ParentHello{}, ErrNoParentChannel
	}

	f := os.NewFile(uintptr(FD), "vt6-parent-channel")
	defer f.Close()

	buf := make([]byte, 0, 1024)
	chunk := make([]byte, 1024)
	for {
		n, err := f.Read(chunk)
		buf = append(buf, chunk[:n]...)

		parsed, _, perr := wire.Parse(buf)
		switch {
		case perr == nil:
			hello, ok := posix.DecodeParentHello(parsed)
			if !ok {
				return posix.ParentHello{}, fmt.Errorf("vt6: unexpected message on parent channel: %s", parsed.Type)
			}
			return hello, nil
		case perr != wire.ErrUnexpectedEOF:
			return posix.ParentHello{}, fmt.Errorf("vt6: malformed parent channel message: %w", perr)
		}

		if err != nil {
			return posix.ParentHello{}, fmt.Errorf("vt6: reading parent channel: %w", err)
		}
	}
}

// isOpen reports whether fd names an open file descriptor, using fstat to
// distinguish a real descriptor from one that was never opened (EBADF) or
// closed early (also EBADF on most platforms).
func isOpen(fd int) bool {
	var stat unix.Stat_t
	err := unix.Fstat(fd, &stat)
	return err == nil
}
