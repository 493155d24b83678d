package noise

import (
	"fmt"

	"golang.org/x/sys/cpu"
)

// MaxLanes is the widest batch the sampler evaluates at once.
const MaxLanes = 16

// DetectLanes picks the batch width matching the widest float32 vector unit of the host.
func DetectLanes() int {
	switch {
	case cpu.X86.HasAVX512F:
		return 16
	case cpu.X86.HasAVX2:
		return 8
	case cpu.X86.HasSSE41, cpu.ARM64.HasASIMD:
		return 4
	}
	return 1
}

func checkLanes(lanes int) error {
	switch lanes {
	case 1, 4, 8, 16:
		return nil
	}
	return fmt.Errorf("noise: unsupported lane width %d", lanes)
}
