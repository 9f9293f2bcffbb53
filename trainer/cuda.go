package trainer

import "os/exec"

// Device reports which device the upstream trainer is expected to use,
// probing for the NVIDIA management tool the same way the trainer's own
// startup does. Informational only.
func Device() string {
	if _, err := exec.LookPath("nvidia-smi"); err == nil {
		return "cuda"
	}
	return "cpu"
}
