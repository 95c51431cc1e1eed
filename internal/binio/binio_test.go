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

package binio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat32File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.f32")
	want := []float32{0, -1.5, math.MaxFloat32, 1e-30, 3}
	require.NoError(t, WriteFloat32s(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(want)*4), info.Size())

	got, err := ReadFloat32s(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadFloat32s mismatch (-want +got):\n%s", diff)
	}
}

func TestUint16File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.u16")
	want := []uint16{0, 1, 512, 65535}
	require.NoError(t, WriteUint16s(path, want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 1, 0, 0, 2, 0xff, 0xff}, raw)

	got, err := ReadUint16s(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadUint16s mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.f32")
	require.NoError(t, WriteFloat32s(path, nil))
	got, err := ReadFloat32s(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.f32")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4, 5}, 0o644))
	_, err := ReadFloat32s(path)
	assert.ErrorIs(t, err, ErrTruncated)
	_, err = ReadUint16s(path)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestMissing(t *testing.T) {
	_, err := ReadFloat32s(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
