// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// bytecodeMagic prefixes every precompiled blob.
var bytecodeMagic = []byte("JSMB\x01")

// ErrBadBytecode is returned for blobs Precompile did not produce.
var ErrBadBytecode = errors.New("invalid bytecode blob")

// Precompile packs module source into a blob ReadBytecode accepts. The blob
// carries the module name followed by the zstd-compressed source.
func Precompile(name string, src []byte) ([]byte, error) {
	if _, err := parse(name, src); err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	defer enc.Close()

	out := append([]byte(nil), bytecodeMagic...)
	out = binary.AppendUvarint(out, uint64(len(name)))
	out = append(out, name...)
	return enc.EncodeAll(src, out), nil
}

// DecodeBytecode unpacks a Precompile blob.
func DecodeBytecode(blob []byte) (name string, src []byte, err error) {
	rest, ok := bytes.CutPrefix(blob, bytecodeMagic)
	if !ok {
		return "", nil, ErrBadBytecode
	}
	n, k := binary.Uvarint(rest)
	if k <= 0 || n > uint64(len(rest)-k) {
		return "", nil, fmt.Errorf("%w: truncated name", ErrBadBytecode)
	}
	name = string(rest[k : k+int(n)])

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return "", nil, fmt.Errorf("zstd decoder: %w", err)
	}
	defer dec.Close()
	src, err = dec.DecodeAll(rest[k+int(n):], nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBadBytecode, err)
	}
	return name, src, nil
}
