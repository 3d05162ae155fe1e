package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	catalogItemPrefix  = "catitm:"
	catalogOrderPrefix = "catord:"
	catalogOrderSeq    = "catseq"
	catalogMetaKey     = "catmeta"
)

// seqSize is the size of an insertion-order sequence number.
const seqSize = 8

// makeItemKey generates a key for a catalog item by id.
func makeItemKey(id string) []byte {
	buf := make([]byte, 0, len(catalogItemPrefix)+len(id))
	buf = append(buf, catalogItemPrefix...)
	return append(buf, id...)
}

// makeOrderKey generates the insertion-order index key.
// Format: prefix + seq, BigEndian so lexicographic order is numeric order.
func makeOrderKey(seq uint64) []byte {
	buf := make([]byte, len(catalogOrderPrefix)+seqSize)
	offset := copy(buf, catalogOrderPrefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// seqFromOrderKey extracts the sequence number from an order key.
func seqFromOrderKey(key []byte) uint64 {
	return binary.BigEndian.Uint64(key[len(catalogOrderPrefix):])
}

// encodeItemValue prefixes a serialized item with its sequence number.
func encodeItemValue(seq uint64, item []byte) []byte {
	buf := make([]byte, seqSize+len(item))
	binary.BigEndian.PutUint64(buf, seq)
	copy(buf[seqSize:], item)
	return buf
}

// decodeItemValue splits a stored value into sequence and serialized item.
func decodeItemValue(val []byte) (uint64, []byte, bool) {
	if len(val) < seqSize {
		return 0, nil, false
	}
	return binary.BigEndian.Uint64(val), val[seqSize:], true
}
