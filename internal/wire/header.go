// Package wire encodes and decodes the 16-byte protocol header shared by
// every datagram this endpoint sends or receives.
package wire

import (
	"encoding/binary"
	"fmt"
)

// ProtocolID is the constant tag every valid datagram must carry as its
// first four bytes.
const ProtocolID uint32 = 0x295F_0BCD

// HeaderSize is the wire size of Header: four big-endian uint32 fields.
const HeaderSize = 16

// Header is the wire-exact, 16-byte, big-endian protocol header.
type Header struct {
	Sequence    uint32
	Ack         uint32
	AckBitfield uint32
}

// TooSmallError reports a datagram with fewer than HeaderSize bytes.
type TooSmallError struct {
	ExpectedMin int
	Actual      int
}

func (e *TooSmallError) Error() string {
	return fmt.Sprintf("wire: datagram too small: expected at least %d bytes, got %d", e.ExpectedMin, e.Actual)
}

// InvalidProtocolIDError reports a datagram whose leading tag does not
// match ProtocolID.
type InvalidProtocolIDError struct {
	Expected uint32
	Actual   uint32
}

func (e *InvalidProtocolIDError) Error() string {
	return fmt.Sprintf("wire: invalid protocol id: expected 0x%08X, got 0x%08X", e.Expected, e.Actual)
}

// Encode serializes h into a freshly allocated HeaderSize-byte buffer.
// Encoding is total: every Header value encodes successfully.
func Encode(h Header) []byte {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], ProtocolID)
	binary.BigEndian.PutUint32(buf[4:8], h.Sequence)
	binary.BigEndian.PutUint32(buf[8:12], h.Ack)
	binary.BigEndian.PutUint32(buf[12:16], h.AckBitfield)
	return buf
}

// Decode parses a Header out of the leading HeaderSize bytes of data.
// It returns *TooSmallError if fewer than HeaderSize bytes are present,
// and *InvalidProtocolIDError if the leading tag doesn't match
// ProtocolID. No other validation is performed: any sequence, ack, or
// ack_bitfield value is accepted.
func Decode(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, &TooSmallError{ExpectedMin: HeaderSize, Actual: len(data)}
	}

	protocolID := binary.BigEndian.Uint32(data[0:4])
	if protocolID != ProtocolID {
		return Header{}, &InvalidProtocolIDError{Expected: ProtocolID, Actual: protocolID}
	}

	return Header{
		Sequence:    binary.BigEndian.Uint32(data[4:8]),
		Ack:         binary.BigEndian.Uint32(data[8:12]),
		AckBitfield: binary.BigEndian.Uint32(data[12:16]),
	}, nil
}
