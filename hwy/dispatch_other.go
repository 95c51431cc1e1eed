//go:build !amd64 && !arm64

package hwy

func init() {
	// wasm SIMD128 and riscv64 V would go here.
	setScalarMode()
}

// HasFMA returns false on architectures without detection.
func HasFMA() bool {
	return false
}

// HasSVE returns false outside arm64.
func HasSVE() bool {
	return false
}
