//go:build arm64

package hwy

import (
	"os"

	"golang.org/x/sys/cpu"
)

func init() {
	if NoSimdEnv() {
		setScalarMode()
		return
	}

	// ASIMD is part of the ARMv8-A base architecture, so this is the normal path.
	if cpu.ARM64.HasASIMD {
		currentLevel = DispatchNEON
		currentWidth = 16
	} else {
		setScalarMode()
	}

	// SVE vector length is implementation defined; without a way to query
	// it from Go we keep the 128-bit NEON width and only report the level.
	if HasSVE() {
		currentLevel = DispatchSVE
	}
}

// HasFMA reports fused multiply-add support (always present with ASIMD).
func HasFMA() bool {
	return cpu.ARM64.HasASIMD
}

// HasSVE returns true if the CPU supports ARM SVE and KSZ_NO_SVE is unset.
func HasSVE() bool {
	if NoSimdEnv() || os.Getenv("KSZ_NO_SVE") != "" {
		return false
	}
	return cpu.ARM64.HasSVE
}
