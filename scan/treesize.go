package scan

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
)

// treeSize returns the number of leaves (note commitments) recorded in
// a serialized incremental Merkle tree, without reconstructing any node
// value — we only need the count to know where the next leaf's position
// starts. The wire format is librustzcash's CommitmentTree<Node>: an
// Option<left>, an Option<right>, then a CompactSize-prefixed list of
// Option<parent>, read outer-to-inner. Each present node is 32 bytes;
// since we never need the bytes themselves, we read and discard them
// (the "dummy node" reader the upstream implementation also relies on).
func treeSize(hexTree string) (uint32, error) {
	if hexTree == "" {
		return 0, nil
	}
	raw, err := hex.DecodeString(hexTree)
	if err != nil {
		return 0, fmt.Errorf("treeSize: decode hex: %w", err)
	}
	if len(raw) == 0 {
		return 0, nil
	}
	r := bytes.NewReader(raw)

	left, err := readOptionalNode(r)
	if err != nil {
		return 0, fmt.Errorf("treeSize: left: %w", err)
	}
	right, err := readOptionalNode(r)
	if err != nil {
		return 0, fmt.Errorf("treeSize: right: %w", err)
	}

	var size uint32
	switch {
	case left && right:
		size = 2
	case left:
		size = 1
	}

	count, err := readCompactSize(r)
	if err != nil {
		return 0, fmt.Errorf("treeSize: parents count: %w", err)
	}
	for i := 0; i < count; i++ {
		present, err := readOptionalNode(r)
		if err != nil {
			return 0, fmt.Errorf("treeSize: parent %d: %w", i, err)
		}
		if present {
			size += 1 << uint(i+1)
		}
	}
	return size, nil
}

func readOptionalNode(r io.Reader) (bool, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return false, err
	}
	if tag[0] == 0 {
		return false, nil
	}
	var node [32]byte
	if _, err := io.ReadFull(r, node[:]); err != nil {
		return false, err
	}
	return true, nil
}

// readCompactSize reads Zcash's CompactSize varint: values below 0xfd
// encode directly; 0xfd/0xfe/0xff prefix a little-endian 2/4/8-byte
// value, the same scheme Bitcoin-family wire formats use throughout.
func readCompactSize(r io.Reader) (int, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	switch b[0] {
	case 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return int(binary.LittleEndian.Uint16(buf[:])), nil
	case 0xfe:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return int(binary.LittleEndian.Uint32(buf[:])), nil
	case 0xff:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return int(binary.LittleEndian.Uint64(buf[:])), nil
	default:
		return int(b[0]), nil
	}
}
