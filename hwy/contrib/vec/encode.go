// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vec

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// littleEndian reports whether the host stores the low byte first, in which
// case the codecs reinterpret memory instead of converting element by element.
var littleEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

// EncodeFloat32s writes src to dst as little-endian IEEE-754 bytes.
// dst must have length >= len(src) * 4.
func EncodeFloat32s(dst []byte, src []float32) {
	if len(src) == 0 {
		return
	}
	totalBytes := len(src) * 4
	if len(dst) < totalBytes {
		panic("vec: dst is too short")
	}
	if littleEndian {
		copy(dst, unsafe.Slice((*byte)(unsafe.Pointer(&src[0])), totalBytes))
		return
	}
	for i, f := range src {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(f))
	}
}

// DecodeFloat32s reads little-endian IEEE-754 bytes from src into dst.
// src must have length >= len(dst) * 4.
func DecodeFloat32s(dst []float32, src []byte) {
	if len(dst) == 0 {
		return
	}
	totalBytes := len(dst) * 4
	if len(src) < totalBytes {
		panic("vec: src is too short")
	}
	if littleEndian {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&dst[0])), totalBytes), src)
		return
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
	}
}

// EncodeUint16s writes src to dst as little-endian bytes.
// dst must have length >= len(src) * 2.
func EncodeUint16s(dst []byte, src []uint16) {
	if len(src) == 0 {
		return
	}
	totalBytes := len(src) * 2
	if len(dst) < totalBytes {
		panic("vec: dst is too short")
	}
	if littleEndian {
		copy(dst, unsafe.Slice((*byte)(unsafe.Pointer(&src[0])), totalBytes))
		return
	}
	for i, c := range src {
		binary.LittleEndian.PutUint16(dst[2*i:], c)
	}
}

// DecodeUint16s reads little-endian bytes from src into dst.
// src must have length >= len(dst) * 2.
func DecodeUint16s(dst []uint16, src []byte) {
	if len(dst) == 0 {
		return
	}
	totalBytes := len(dst) * 2
	if len(src) < totalBytes {
		panic("vec: src is too short")
	}
	if littleEndian {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&dst[0])), totalBytes), src)
		return
	}
	for i := range dst {
		dst[i] = binary.LittleEndian.Uint16(src[2*i:])
	}
}
