package models

import "testing"

func TestAxisSizesString(t *testing.T) {
	s := AxisSizes{"y": 512, "x": 256, "t": 3, "c": 2}
	if got, want := s.String(), "c=2 t=3 x=256 y=512"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestAxisSizesVaries(t *testing.T) {
	s := AxisSizes{"c": 1, "t": 4}
	if s.Varies(AxisChannel) {
		t.Error("An extent of 1 should not vary")
	}
	if !s.Varies(AxisTime) {
		t.Error("An extent of 4 should vary")
	}
	if s.Varies(AxisPosition) {
		t.Error("An undeclared axis should not vary")
	}
	if _, ok := s.Extent(AxisPosition); ok {
		t.Error("Extent should report an undeclared axis")
	}
}

func TestSensorOf(t *testing.T) {
	sensor, ok := SensorOf(AxisSizes{"x": 2048, "y": 1024})
	if !ok || sensor.Width != 2048 || sensor.Height != 1024 {
		t.Errorf("Expected 2048x1024, got %s (%v)", sensor, ok)
	}
	if _, ok := SensorOf(AxisSizes{"x": 2048}); ok {
		t.Error("SensorOf should fail without y")
	}
	if _, ok := SensorOf(AxisSizes{"x": 0, "y": 10}); ok {
		t.Error("SensorOf should fail for a zero width")
	}
}
