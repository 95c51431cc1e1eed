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

// Package binio reads and writes headerless little-endian arrays, the raw
// layout scientific float32 datasets ship in.
package binio

import (
	"errors"
	"fmt"
	"os"

	"github.com/ajroetker/go-ksz/hwy/contrib/vec"
)

// ErrTruncated is returned when a file size is not a multiple of the
// element size.
var ErrTruncated = errors.New("binio: file size is not a multiple of the element size")

// ReadFloat32s reads the whole file at path as float32 values.
func ReadFloat32s(path string) ([]float32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("binio: %w", err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: %s has %d bytes", ErrTruncated, path, len(raw))
	}
	out := make([]float32, len(raw)/4)
	vec.DecodeFloat32s(out, raw)
	return out, nil
}

// WriteFloat32s writes data to path, replacing any existing file.
func WriteFloat32s(path string, data []float32) error {
	raw := make([]byte, len(data)*4)
	vec.EncodeFloat32s(raw, data)
	return write(path, raw)
}

// ReadUint16s reads the whole file at path as uint16 values.
func ReadUint16s(path string) ([]uint16, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("binio: %w", err)
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("%w: %s has %d bytes", ErrTruncated, path, len(raw))
	}
	out := make([]uint16, len(raw)/2)
	vec.DecodeUint16s(out, raw)
	return out, nil
}

// WriteUint16s writes codes to path, replacing any existing file.
func WriteUint16s(path string, codes []uint16) error {
	raw := make([]byte, len(codes)*2)
	vec.EncodeUint16s(raw, codes)
	return write(path, raw)
}

func write(path string, raw []byte) error {
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("binio: %w", err)
	}
	return nil
}
