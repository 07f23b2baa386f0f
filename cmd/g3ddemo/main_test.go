package main

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		name    string
		want    gputypes.Backend
		wantErr bool
	}{
		{"vulkan", gputypes.BackendVulkan, false},
		{"Vulkan", gputypes.BackendVulkan, false},
		{"gl", gputypes.BackendGL, false},
		{"software", gputypes.BackendEmpty, false},
		{"webgpu", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseBackend(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseBackend(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseBackend(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
