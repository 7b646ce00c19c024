package gateway

import "testing"

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		raw  string
		want Version
	}{
		{"1.9.9", V1},
		{"0.5.0", V1},
		{"2.0.0", V2},
		{"2.9.9", V2},
		{"3.0.0", V3},
		{"3.12.4", V3},
		{"v3.1.0", V3},
		{"v1.0.0", V1},
		{"v2", V2},
		{"4.0.0", VersionUnknown},
		{"garbage", VersionUnknown},
		{"", VersionUnknown},
		{"v", VersionUnknown},
		{"vv2.0.0", VersionUnknown},
		{"1.2.3-beta.1", V1},
	}
	for _, tc := range cases {
		if got := Classify(tc.raw); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestAtLeast(t *testing.T) {
	cases := []struct {
		raw   string
		major int
		want  bool
	}{
		{"3.0.0", 3, true},
		{"3.1.0", 3, true},
		{"v3.0.0", 3, true},
		{"2.9.9", 3, false},
		{"2.0.0", 2, true},
		{"1.9.9", 2, false},
		{"garbage", 1, false},
		{"", 1, false},
	}
	for _, tc := range cases {
		if got := AtLeast(tc.raw, tc.major); got != tc.want {
			t.Errorf("AtLeast(%q, %d) = %v, want %v", tc.raw, tc.major, got, tc.want)
		}
	}
}
