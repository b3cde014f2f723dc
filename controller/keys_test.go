package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleKey(t *testing.T) {
	s := NewSession(20)
	view := ViewSensor

	assert.Equal(t, KeyNone, HandleKey(-1, s, &view))

	assert.Equal(t, KeyToggled, HandleKey('r', s, &view))
	assert.True(t, s.ManualThreshold)

	assert.Equal(t, KeyThreshold, HandleKey('+', s, &view))
	assert.Equal(t, 25, s.Threshold)
	HandleKey('-', s, &view)
	HandleKey('-', s, &view)
	assert.Equal(t, 15, s.Threshold)

	assert.Equal(t, KeyView, HandleKey('v', s, &view))
	assert.Equal(t, ViewBinary, view)

	assert.Equal(t, KeyQuit, HandleKey('q', s, &view))
	assert.Equal(t, KeyQuit, HandleKey(27, s, &view))
}

func TestHandleKeyClampsThreshold(t *testing.T) {
	s := NewSession(253)
	view := ViewSensor
	HandleKey('+', s, &view)
	assert.Equal(t, 255, s.Threshold)

	s.SetThreshold(2)
	HandleKey('-', s, &view)
	assert.Equal(t, 0, s.Threshold)
}
