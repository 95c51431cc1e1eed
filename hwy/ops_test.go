package hwy

import (
	"math"
	"testing"
)

func TestLoad(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	v := Load(data)

	if v.NumLanes() != min(len(data), MaxLanes[float32]()) {
		t.Fatalf("Load: NumLanes() = %d, want %d", v.NumLanes(), min(len(data), MaxLanes[float32]()))
	}
	for i := 0; i < v.NumLanes(); i++ {
		if v.data[i] != data[i] {
			t.Errorf("Load: lane %d: got %v, want %v", i, v.data[i], data[i])
		}
	}
}

func TestLoadPartial(t *testing.T) {
	v := Load([]float32{7, 8})
	if v.NumLanes() != 2 {
		t.Errorf("Load partial: NumLanes() = %d, want 2", v.NumLanes())
	}
}

func TestSetZero(t *testing.T) {
	v := Set[float32](42.0)
	if v.NumLanes() != MaxLanes[float32]() {
		t.Errorf("Set: NumLanes() = %d, want %d", v.NumLanes(), MaxLanes[float32]())
	}
	for i := 0; i < v.NumLanes(); i++ {
		if v.data[i] != 42.0 {
			t.Errorf("Set: lane %d: got %v, want 42", i, v.data[i])
		}
	}

	z := Zero[uint16]()
	for i := 0; i < z.NumLanes(); i++ {
		if z.data[i] != 0 {
			t.Errorf("Zero: lane %d: got %v, want 0", i, z.data[i])
		}
	}
}

func TestAddSubMul(t *testing.T) {
	a := Set[float32](10.0)
	b := Set[float32](4.0)

	sum := Add(a, b)
	diff := Sub(a, b)
	prod := Mul(a, b)
	for i := 0; i < a.NumLanes(); i++ {
		if sum.data[i] != 14.0 {
			t.Errorf("Add: lane %d: got %v, want 14", i, sum.data[i])
		}
		if diff.data[i] != 6.0 {
			t.Errorf("Sub: lane %d: got %v, want 6", i, diff.data[i])
		}
		if prod.data[i] != 40.0 {
			t.Errorf("Mul: lane %d: got %v, want 40", i, prod.data[i])
		}
	}
}

func TestAbs(t *testing.T) {
	v := Abs(Load([]float64{-1.5, 2, float64(math.Copysign(0, -1)), -1e30}))
	want := []float64{1.5, 2, 0, 1e30}
	for i, w := range want {
		if i >= v.NumLanes() {
			break
		}
		if v.data[i] != w || math.Signbit(v.data[i]) {
			t.Errorf("Abs: lane %d: got %v, want %v", i, v.data[i], w)
		}
	}
}

func TestRound(t *testing.T) {
	in := []float32{0.5, 1.5, 2.5, -0.5, -2.5, 2.4, -2.6}
	away := []float32{1, 2, 3, -1, -3, 2, -3}
	even := []float32{0, 2, 2, 0, -2, 2, -3}

	for off := 0; off < len(in); off += MaxLanes[float32]() {
		r := Round(Load(in[off:]))
		e := RoundToEven(Load(in[off:]))
		for i := 0; i < r.NumLanes(); i++ {
			if r.data[i] != away[off+i] {
				t.Errorf("Round(%v) = %v, want %v", in[off+i], r.data[i], away[off+i])
			}
			if e.data[i] != even[off+i] && !(e.data[i] == 0 && even[off+i] == 0) {
				t.Errorf("RoundToEven(%v) = %v, want %v", in[off+i], e.data[i], even[off+i])
			}
		}
	}
}

func TestMinMaxReduce(t *testing.T) {
	a := Load([]float32{3, -1, 7, 2})
	b := Load([]float32{1, 5, -4, 9})
	if a.NumLanes() < 4 {
		t.Skip("vector narrower than 4 float32 lanes")
	}

	if got := ReduceMin(Min(a, b)); got != -4 {
		t.Errorf("ReduceMin(Min) = %v, want -4", got)
	}
	if got := ReduceMax(Max(a, b)); got != 9 {
		t.Errorf("ReduceMax(Max) = %v, want 9", got)
	}
	var empty Vec[float32]
	if got := ReduceMin(empty); got != 0 {
		t.Errorf("ReduceMin(empty) = %v, want 0", got)
	}

	nan := Load([]float32{3, float32(math.NaN()), 7, 2})
	if got := ReduceMin(nan); !math.IsNaN(float64(got)) {
		t.Errorf("ReduceMin(NaN lane) = %v, want NaN", got)
	}
	if got := ReduceMax(nan); !math.IsNaN(float64(got)) {
		t.Errorf("ReduceMax(NaN lane) = %v, want NaN", got)
	}
}

func TestLessThanSelect(t *testing.T) {
	v := Load([]float32{1, -3, 2, float32(math.NaN())})
	if v.NumLanes() < 4 {
		t.Skip("vector narrower than 4 float32 lanes")
	}
	mask := LessThan(Abs(v), Broadcast(v, float32(2)))

	if got := mask.CountTrue(); got != 1 {
		t.Errorf("CountTrue() = %d, want 1", got)
	}
	if !mask.GetBit(0) || mask.GetBit(1) || mask.GetBit(2) || mask.GetBit(3) {
		t.Errorf("mask bits = %v, want [true false false false]", mask.bits[:4])
	}

	kept := IfThenElseZero(mask, v)
	cleared := IfThenZeroElse(mask, v)
	if kept.data[0] != 1 || kept.data[1] != 0 {
		t.Errorf("IfThenElseZero = %v", kept.data[:2])
	}
	if cleared.data[0] != 0 || cleared.data[1] != -3 {
		t.Errorf("IfThenZeroElse = %v", cleared.data[:2])
	}
}

func TestPromoteDemote(t *testing.T) {
	src := []float32{1.25, -3.5, 1e-7, 16777216}
	wide := PromoteF32ToF64(Load(src))
	if wide.NumLanes() != min(len(src), MaxLanes[float32]()) {
		t.Fatalf("PromoteF32ToF64: NumLanes() = %d", wide.NumLanes())
	}
	back := DemoteF64ToF32(wide)
	for i := 0; i < back.NumLanes(); i++ {
		if back.data[i] != src[i] {
			t.Errorf("Demote(Promote(%v)) = %v", src[i], back.data[i])
		}
	}
}

func TestMaskLoadStore(t *testing.T) {
	lanes := MaxLanes[float32]()
	src := make([]float32, lanes)
	for i := range src {
		src[i] = float32(i + 1)
	}
	mask := TailMask[float32](2)
	v := MaskLoad(mask, src)
	dst := make([]float32, lanes)
	MaskStore(mask, v, dst)

	for i := range dst {
		want := float32(0)
		if i < 2 {
			want = src[i]
		}
		if dst[i] != want {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want)
		}
	}
}
