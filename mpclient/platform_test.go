package mpclient

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
	"testing"
)

func TestDetectPlatform(t *testing.T) {
	p := DetectPlatform()

	if p.Type != "go" {
		t.Errorf("unexpected type: %s", p.Type)
	}
	if p.Name != libraryName {
		t.Errorf("unexpected name: %s", p.Name)
	}
	if p.OS != runtime.GOOS || p.Arch != runtime.GOARCH {
		t.Errorf("unexpected os/arch: %s/%s", p.OS, p.Arch)
	}
	if p.Runtime == "" {
		t.Error("runtime version should be detected")
	}
}

func TestPlatform_Header(t *testing.T) {
	p := Platform{Type: "go", Name: "messengerpeople-go", Version: "v1.2.3", OS: "linux", Arch: "amd64", Runtime: "1.24.0"}

	var decoded map[string]string
	if err := json.Unmarshal([]byte(p.Header()), &decoded); err != nil {
		t.Fatalf("header is not JSON: %v", err)
	}

	want := map[string]string{
		"type":    "go",
		"name":    "messengerpeople-go",
		"version": "v1.2.3",
		"os":      "linux",
		"arch":    "amd64",
		"runtime": "1.24.0",
	}
	for key, value := range want {
		if decoded[key] != value {
			t.Errorf("%s: got %q, want %q", key, decoded[key], value)
		}
	}
}

func TestPlatform_HeaderOmitsUnknownFields(t *testing.T) {
	header := Platform{Type: "go", Name: "x", OS: "linux"}.Header()

	if header != `{"type":"go","name":"x","os":"linux"}` {
		t.Errorf("unexpected header: %s", header)
	}
}

func TestModuleVersion(t *testing.T) {
	tests := []struct {
		name string
		info *debug.BuildInfo
		want string
	}{
		{
			name: "main module",
			info: &debug.BuildInfo{Main: debug.Module{Path: modulePath, Version: "v1.0.0"}},
			want: "v1.0.0",
		},
		{
			name: "dependency",
			info: &debug.BuildInfo{
				Main: debug.Module{Path: "example.com/app"},
				Deps: []*debug.Module{{Path: modulePath, Version: "v0.3.1"}},
			},
			want: "v0.3.1",
		},
		{
			name: "replaced dependency",
			info: &debug.BuildInfo{
				Main: debug.Module{Path: "example.com/app"},
				Deps: []*debug.Module{{Path: modulePath, Version: "v0.3.1", Replace: &debug.Module{Version: "v0.4.0"}}},
			},
			want: "v0.4.0",
		},
		{
			name: "not present",
			info: &debug.BuildInfo{Main: debug.Module{Path: "example.com/app"}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := moduleVersion(tt.info); got != tt.want {
				t.Errorf("moduleVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}
