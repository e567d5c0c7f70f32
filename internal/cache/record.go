package cache

import (
	"encoding/binary"
	"fmt"
)

// Disk record layout, little-endian throughout:
//
//	offset 0:  4 bytes  magic "XESS"
//	offset 4:  4 bytes  format version
//	offset 8:  8 bytes  cache key
//	offset 16: 4 bytes  payload length N
//	offset 20: N bytes  raw bytecode payload
const (
	recordMagic   = "XESS"
	recordVersion = 1
	headerSize    = 20
)

// encodeRecord serializes a bytecode payload with its header.
func encodeRecord(key Key, payload []byte) []byte {
	buf := make([]byte, headerSize+len(payload))

	copy(buf[0:4], recordMagic)
	binary.LittleEndian.PutUint32(buf[4:8], recordVersion)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(key))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(len(payload)))
	copy(buf[headerSize:], payload)

	return buf
}

// decodeRecord validates a record against the expected key and returns its
// payload. Any header mismatch is an error; callers treat that as a cache
// miss, never as corruption requiring repair.
func decodeRecord(data []byte, key Key) ([]byte, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("record truncated: %d bytes", len(data))
	}

	if string(data[0:4]) != recordMagic {
		return nil, fmt.Errorf("bad magic %q", data[0:4])
	}

	if v := binary.LittleEndian.Uint32(data[4:8]); v != recordVersion {
		return nil, fmt.Errorf("unsupported record version %d", v)
	}

	if k := Key(binary.LittleEndian.Uint64(data[8:16])); k != key {
		return nil, fmt.Errorf("key mismatch: record has %s, expected %s", k.Hex(), key.Hex())
	}

	size := binary.LittleEndian.Uint32(data[16:20])
	if int(size) != len(data)-headerSize {
		return nil, fmt.Errorf("payload length mismatch: header says %d, have %d", size, len(data)-headerSize)
	}

	return data[headerSize:], nil
}
