package gpu

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// submitAndWait submits cmd and blocks until the GPU has finished it. The
// command buffer is freed afterwards.
func submitAndWait(device hal.Device, queue hal.Queue, cmd hal.CommandBuffer) error {
	index, err := queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		device.FreeCommandBuffer(cmd)
		return fmt.Errorf("submit: %w", mapHALSurfaceError(err))
	}
	if queue.PollCompleted() < index {
		if err := device.WaitIdle(); err != nil {
			return fmt.Errorf("wait for submission %d: %w", index, mapHALSurfaceError(err))
		}
	}
	device.FreeCommandBuffer(cmd)
	return nil
}
