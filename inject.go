package flip

// InjectResize queues a screen resize applied at the start of the next
// update, as if the window had been resized. Headless runs and scripts use
// it to exercise the re-measure path.
func (s *Scene) InjectResize(width, height int) {
	s.resizeQueue = append(s.resizeQueue, Vec2{X: float64(width), Y: float64(height)})
}

// processInjectedResize pops one queued resize and applies it. Returns true
// if a resize was consumed.
func (s *Scene) processInjectedResize() bool {
	if len(s.resizeQueue) == 0 {
		return false
	}
	size := s.resizeQueue[0]
	copy(s.resizeQueue, s.resizeQueue[1:])
	s.resizeQueue = s.resizeQueue[:len(s.resizeQueue)-1]

	s.Resize(int(size.X), int(size.Y))
	return true
}
