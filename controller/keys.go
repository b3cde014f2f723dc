package controller

// KeyAction is what a window key press asks the run loop to do.
type KeyAction int

// Key actions.
const (
	KeyNone KeyAction = iota
	KeyQuit
	KeyToggled
	KeyThreshold
	KeyView
)

// ThresholdStep is the change applied by one '+' or '-' press.
const ThresholdStep = 5

// HandleKey applies a key code returned by the preview window to the session and view.
//
//	r      toggle manual/automatic thresholding (the reset button)
//	+ / -  raise or lower the runtime threshold
//	v      cycle the displayed buffer
//	q, Esc quit
func HandleKey(key int, s *Session, view *View) KeyAction {
	switch key {
	case 'r', 'R':
		s.Reset()
		return KeyToggled
	case '+', '=':
		s.SetThreshold(s.Threshold + ThresholdStep)
		return KeyThreshold
	case '-', '_':
		s.SetThreshold(s.Threshold - ThresholdStep)
		return KeyThreshold
	case 'v', 'V':
		*view = view.Next()
		return KeyView
	case 'q', 'Q', 27:
		return KeyQuit
	default:
		return KeyNone
	}
}
