package mimeheader

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
)

// makeUUID generates a random UUID version 4 (RFC 9562)
func makeUUID() string {
	return uuid.NewString()
}

// makeUUIDv7 generates a UUID version 7 whose timestamp is the given time
// instead of the current time.
func makeUUIDv7(timestamp time.Time) string {
	u, err := uuid.NewV7()
	if err != nil {
		return makeUUID()
	}

	// 48 bits of big-endian unix milliseconds in bytes 0-5
	var ms [8]byte
	binary.BigEndian.PutUint64(ms[:], uint64(timestamp.UnixMilli()))
	copy(u[0:6], ms[2:8])

	return u.String()
}
