package controller

// Session is the runtime state shared between the UI and the pipeline: the threshold
// mode flag and the runtime threshold. It is read and written on the loop goroutine only.
type Session struct {
	// ManualThreshold selects Threshold over the Otsu value for binarization.
	ManualThreshold bool
	// Threshold is used for manual binarization and, in both modes, for change detection.
	Threshold int
}

// NewSession returns an automatic-mode session with the given threshold.
func NewSession(threshold int) *Session {
	s := &Session{}
	s.SetThreshold(threshold)
	return s
}

// Reset toggles between manual and automatic thresholding. It is bound to the device's
// reset button.
func (s *Session) Reset() {
	s.ManualThreshold = !s.ManualThreshold
}

// SetThreshold sets the runtime threshold, clamped to [0, 255].
func (s *Session) SetThreshold(v int) {
	s.Threshold = min(max(v, 0), 255)
}

// Mode returns the status line text of the current mode.
func (s *Session) Mode() string {
	if s.ManualThreshold {
		return "manual threshold"
	}
	return " Otsu's threshold"
}
