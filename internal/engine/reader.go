package engine

import (
	"bufio"
	"io"

	"gopkg.in/tomb.v2"
)

// readStream extracts newline-terminated records from r and emits one Line
// event per record, stripping a single trailing "\r\n" or "\n". An empty
// read (i.e. EOF) emits Eof; any other read error emits Err.
//
// Each line is read fresh rather than reusing a buffer, so a plain
// bufio.Reader.ReadBytes is used rather than a Scanner, which would
// otherwise impose a line-length cap that could silently truncate a noisy
// child's output instead of applying backpressure.
//
// sendEvent fails (returns false) once the engine's tomb is dying — the
// Go-idiomatic stand-in for "the event channel's receiver is gone" from a
// design whose reference channel implementation simply drops the channel
// and treats a failed send as the producer's cue to exit. Sending on a
// closed Go channel panics, so instead the reactor kills a shared tomb on
// its way out, and every producer selects on bus<-ev / t.Dying().
func readStream(t *tomb.Tomb, bus chan<- Event, app *AppInfo, r io.Reader, stream StreamKind) {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if !sendEvent(t, bus, Line{App: app, Stream: stream, Data: stripEOL(line)}) {
				return
			}
		}
		if err != nil {
			if err == io.EOF {
				sendEvent(t, bus, Eof{App: app, Stream: stream})
			} else {
				sendEvent(t, bus, Err{App: app, Stream: stream, Cause: err})
			}
			return
		}
	}
}

// stripEOL removes a single trailing "\n" and, if present, the "\r" before it.
func stripEOL(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
		if len(b) > 0 && b[len(b)-1] == '\r' {
			b = b[:len(b)-1]
		}
	}
	return b
}

// sendEvent sends ev on bus, honoring backpressure, but gives up and
// reports failure if the engine's tomb is dying in the meantime so
// producers don't block forever past shutdown.
func sendEvent(t *tomb.Tomb, bus chan<- Event, ev Event) bool {
	select {
	case bus <- ev:
		return true
	case <-t.Dying():
		return false
	}
}
