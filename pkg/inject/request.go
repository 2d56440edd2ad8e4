package inject

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hansbonini/gcmtools/pkg/common"
	"gopkg.in/yaml.v3"
)

// Request replaces the file named by Target with the contents of Path.
type Request struct {
	Target string `yaml:"target"`
	Path   string `yaml:"file"`
}

func (r Request) String() string {
	return r.Target + "=" + r.Path
}

// Resolver maps a request target to an on-disc filename.
type Resolver interface {
	Resolve(target string) (string, error)
}

// FilenameResolver treats every target as a literal filename.
type FilenameResolver struct{}

// Resolve returns target unchanged.
func (FilenameResolver) Resolve(target string) (string, error) {
	return target, nil
}

// Manifest is a YAML list of replacements.
//
//	replacements:
//	  - target: CaptainFalcon.PlCaGr
//	    file: falcon-green.dat
type Manifest struct {
	Replacements []Request `yaml:"replacements"`
}

// LoadManifest reads a manifest file. Unknown keys are rejected.
func LoadManifest(path string) ([]Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadYAMLFile, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var manifest Manifest
	if err := decoder.Decode(&manifest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, common.FormatError(common.ErrFailedToParseYAML, err)
	}

	for i, request := range manifest.Replacements {
		if request.Target == "" || request.Path == "" {
			return nil, common.FormatErrorString(common.ErrFailedToParseYAML, "replacement %d needs both target and file", i)
		}
	}
	return manifest.Replacements, nil
}

// LoadPayload reads the whole replacement file for request.
func LoadPayload(request Request) ([]byte, error) {
	data, err := os.ReadFile(request.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s from %s: %v", ErrPayloadRead, request.Target, request.Path, err)
	}
	if _, err := common.SafeIntToUint32(len(data)); err != nil {
		return nil, fmt.Errorf("%w: %s from %s: %v", ErrPayloadRead, request.Target, request.Path, err)
	}
	if len(data) == 0 {
		common.LogWarn(common.WarnEmptyPayload, request.Target)
	}
	common.LogDebug(common.DebugPayloadLoaded, request.Path, len(data))
	return data, nil
}
