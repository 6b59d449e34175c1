package mpclient

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
	"strings"
)

const (
	libraryName = "messengerpeople-go"
	modulePath  = "github.com/waigel/messengerpeople-go"
)

// Platform describes the calling environment in the X-Client header.
type Platform struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	OS      string `json:"os"`
	Arch    string `json:"arch,omitempty"`
	Runtime string `json:"runtime,omitempty"`
}

// DetectPlatform reports the library, runtime and operating system of this process.
// Fields that cannot be determined are left empty.
func DetectPlatform() Platform {
	p := Platform{
		Type:    "go",
		Name:    libraryName,
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Runtime: strings.TrimPrefix(runtime.Version(), "go"),
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		p.Version = moduleVersion(info)
	}

	return p
}

// Header returns the JSON encoding sent as X-Client.
func (p Platform) Header() string {
	data, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func moduleVersion(info *debug.BuildInfo) string {
	if info.Main.Path == modulePath {
		return info.Main.Version
	}
	for _, dep := range info.Deps {
		if dep.Path != modulePath {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return ""
}
