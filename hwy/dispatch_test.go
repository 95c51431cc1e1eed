package hwy

import "testing"

func TestDispatchLevelString(t *testing.T) {
	cases := map[DispatchLevel]string{
		DispatchScalar:    "scalar",
		DispatchSSE2:      "sse2",
		DispatchAVX2:      "avx2",
		DispatchAVX512:    "avx512",
		DispatchNEON:      "neon",
		DispatchSVE:       "sve",
		DispatchLevel(99): "unknown",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("DispatchLevel(%d).String() = %q, want %q", int(level), got, want)
		}
	}
}

func TestCurrentWidth(t *testing.T) {
	w := CurrentWidth()
	if w != 16 && w != 32 && w != 64 {
		t.Errorf("CurrentWidth() = %d, want 16, 32 or 64", w)
	}
	if CurrentName() != CurrentLevel().String() {
		t.Errorf("CurrentName() = %q, CurrentLevel() = %q", CurrentName(), CurrentLevel())
	}
	if got, want := MaxLanes[float32](), w/4; got != want {
		t.Errorf("MaxLanes[float32]() = %d, want %d", got, want)
	}
	if got, want := MaxLanes[uint16](), w/2; got != want {
		t.Errorf("MaxLanes[uint16]() = %d, want %d", got, want)
	}
}

func TestNoSimdEnv(t *testing.T) {
	t.Setenv("KSZ_NO_SIMD", "")
	if NoSimdEnv() {
		t.Error("NoSimdEnv() = true with empty KSZ_NO_SIMD")
	}
	t.Setenv("KSZ_NO_SIMD", "false")
	if NoSimdEnv() {
		t.Error("NoSimdEnv() = true with KSZ_NO_SIMD=false")
	}
	t.Setenv("KSZ_NO_SIMD", "yes")
	if !NoSimdEnv() {
		t.Error("NoSimdEnv() = false with KSZ_NO_SIMD=yes")
	}
}
