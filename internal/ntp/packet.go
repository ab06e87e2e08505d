// Package ntp samples public time servers and keeps the slot clock margin up to date.
package ntp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

const (
	packetSize = 48

	versionNumber = 4
	modeClient    = 3
	modeServer    = 4

	// seconds between 1900-01-01 and 1970-01-01
	ntpEpochOffset = 2208988800
)

// ErrInvalidPacket is returned for responses that are not usable server replies.
var ErrInvalidPacket = errors.New("invalid ntp packet")

// ntpTime is the 64-bit NTP timestamp: seconds since 1900 and a binary fraction.
type ntpTime uint64

func toNTPTime(t time.Time) ntpTime {
	nsec := uint64(t.UnixNano()) + ntpEpochOffset*uint64(time.Second)
	sec := nsec / uint64(time.Second)
	frac := ((nsec % uint64(time.Second)) << 32) / uint64(time.Second)
	return ntpTime(sec<<32 | frac)
}

// Time converts the timestamp to wall-clock time. Values with the top bit
// clear are taken to be in era 1 (after February 2036).
func (t ntpTime) Time() time.Time {
	sec := int64(t >> 32)
	if sec&0x80000000 == 0 {
		sec += 1 << 32
	}
	frac := int64(t & 0xffffffff)
	nsec := (frac * int64(time.Second)) >> 32
	return time.Unix(sec-ntpEpochOffset, nsec)
}

// packet holds the fields of an NTP message this package reads.
type packet struct {
	Mode     uint8
	Stratum  uint8
	Origin   ntpTime
	Receive  ntpTime
	Transmit ntpTime
}

func encodeRequest(transmit ntpTime) []byte {
	buf := make([]byte, packetSize)
	buf[0] = versionNumber<<3 | modeClient
	binary.BigEndian.PutUint64(buf[40:48], uint64(transmit))
	return buf
}

func decodeResponse(buf []byte) (packet, error) {
	if len(buf) < packetSize {
		return packet{}, fmt.Errorf("%w: short packet of %d bytes", ErrInvalidPacket, len(buf))
	}
	p := packet{
		Mode:     buf[0] & 0x7,
		Stratum:  buf[1],
		Origin:   ntpTime(binary.BigEndian.Uint64(buf[24:32])),
		Receive:  ntpTime(binary.BigEndian.Uint64(buf[32:40])),
		Transmit: ntpTime(binary.BigEndian.Uint64(buf[40:48])),
	}
	if p.Mode != modeServer {
		return packet{}, fmt.Errorf("%w: mode %d", ErrInvalidPacket, p.Mode)
	}
	if p.Stratum == 0 {
		return packet{}, fmt.Errorf("%w: kiss of death", ErrInvalidPacket)
	}
	if p.Transmit == 0 {
		return packet{}, fmt.Errorf("%w: zero transmit time", ErrInvalidPacket)
	}
	return p, nil
}
