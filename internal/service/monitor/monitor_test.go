package monitor

import "testing"

func TestSkipFrame(t *testing.T) {
	tests := []struct {
		frameCount int
		interval   int
		skip       bool
	}{
		{1, 1, false},
		{2, 1, false},
		{5, 0, false},
		{1, 3, true},
		{2, 3, true},
		{3, 3, false},
		{6, 3, false},
		{7, 3, true},
	}

	for _, tt := range tests {
		if got := skipFrame(tt.frameCount, tt.interval); got != tt.skip {
			t.Errorf("skipFrame(%d, %d) = %v, expected %v", tt.frameCount, tt.interval, got, tt.skip)
		}
	}
}

func TestNeedsEncode(t *testing.T) {
	tests := []struct {
		clients         int
		saveScreenshots bool
		want            bool
	}{
		{0, false, false},
		{1, false, true},
		{0, true, true},
		{3, true, true},
	}

	for _, tt := range tests {
		if got := needsEncode(tt.clients, tt.saveScreenshots); got != tt.want {
			t.Errorf("needsEncode(%d, %v) = %v, expected %v", tt.clients, tt.saveScreenshots, got, tt.want)
		}
	}
}
