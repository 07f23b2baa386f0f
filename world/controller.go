package world

// Movement is a direction the controller can move the camera in.
type Movement uint8

const (
	MoveForward Movement = iota
	MoveBackward
	MoveLeft
	MoveRight
	MoveUp
	MoveDown

	movementCount
)

// String returns the movement name.
func (m Movement) String() string {
	switch m {
	case MoveForward:
		return "Forward"
	case MoveBackward:
		return "Backward"
	case MoveLeft:
		return "Left"
	case MoveRight:
		return "Right"
	case MoveUp:
		return "Up"
	case MoveDown:
		return "Down"
	default:
		return "Unknown"
	}
}

// ScrollLinePixels converts a scroll delta expressed in lines to pixels.
const ScrollLinePixels = 100

// CameraController turns input into camera movement. Inputs are accumulated
// between ticks and applied by UpdateCamera scaled by the elapsed time.
type CameraController struct {
	speed       float32
	sensitivity float32

	amount [movementCount]float32

	rotateHorizontal float32
	rotateVertical   float32
	scroll           float32
}

// NewCameraController returns a controller moving at speed units per second
// and rotating at sensitivity radians per second per pixel of mouse motion.
func NewCameraController(speed, sensitivity float32) *CameraController {
	return &CameraController{speed: speed, sensitivity: sensitivity}
}

// Speed returns the movement speed in units per second.
func (c *CameraController) Speed() float32 { return c.speed }

// Sensitivity returns the rotation sensitivity.
func (c *CameraController) Sensitivity() float32 { return c.sensitivity }

// SetMovement records whether the key for m is held down.
func (c *CameraController) SetMovement(m Movement, pressed bool) {
	if m >= movementCount {
		return
	}
	if pressed {
		c.amount[m] = 1
	} else {
		c.amount[m] = 0
	}
}

// ProcessMouse accumulates a mouse motion delta in pixels.
func (c *CameraController) ProcessMouse(dx, dy float64) {
	c.rotateHorizontal += float32(dx)
	c.rotateVertical += float32(dy)
}

// ProcessScroll accumulates a scroll delta. Positive values zoom in.
// Line deltas are converted with ScrollLinePixels, pixel deltas are used
// as is.
func (c *CameraController) ProcessScroll(delta float64, lines bool) {
	if lines {
		delta *= ScrollLinePixels
	}
	c.scroll += float32(delta)
}

// Idle reports whether there is no pending input.
func (c *CameraController) Idle() bool {
	for _, a := range c.amount {
		if a != 0 {
			return false
		}
	}
	return c.rotateHorizontal == 0 && c.rotateVertical == 0 && c.scroll == 0
}

// UpdateCamera applies the accumulated input to cam for a tick of dt
// seconds. Mouse and scroll accumulators are consumed, held keys keep
// acting on the next tick. Reports whether the camera changed.
func (c *CameraController) UpdateCamera(cam *Camera, dt float32) bool {
	if dt <= 0 || c.Idle() {
		return false
	}

	forward, right := cam.Horizontal()
	step := c.speed * dt
	cam.Position = cam.Position.
		Add(forward.Mul((c.amount[MoveForward] - c.amount[MoveBackward]) * step)).
		Add(right.Mul((c.amount[MoveRight] - c.amount[MoveLeft]) * step))

	// Zoom moves along the full view direction, pitch included.
	if c.scroll != 0 {
		cam.Position = cam.Position.Add(cam.Forward().Mul(c.scroll * c.speed * c.sensitivity * dt))
		c.scroll = 0
	}

	cam.Position[1] += (c.amount[MoveUp] - c.amount[MoveDown]) * step

	cam.Rotate(c.rotateHorizontal*c.sensitivity*dt, -c.rotateVertical*c.sensitivity*dt)
	c.rotateHorizontal = 0
	c.rotateVertical = 0

	return true
}
