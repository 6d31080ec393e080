package jenkins

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		color string
		want  Status
	}{
		{"blue", StatusRunning},
		{"red", StatusFailing},
		{"yellow", StatusUnstable},
		{"grey", StatusPending},
		{"aborted", StatusAborted},
		{"disabled", StatusDisabled},
		{"notbuilt", StatusNotBuilt},
		{"", StatusNone},
		{"chartreuse", StatusUnknown},
	}

	for _, tt := range tests {
		if got := ParseStatus(tt.color); got != tt.want {
			t.Errorf("ParseStatus(%q) = %v, want %v", tt.color, got, tt.want)
		}
	}
}

func TestParseStatus_AnimeSuffixMeansBuilding(t *testing.T) {
	for _, color := range []string{"blue_anime", "red_anime", "grey_anime", "notbuilt_anime"} {
		if got := ParseStatus(color); got != StatusBuilding {
			t.Errorf("ParseStatus(%q) = %v, want StatusBuilding", color, got)
		}
	}
}
