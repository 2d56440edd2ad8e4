package cmd

import (
	"fmt"
	"strings"

	"github.com/hansbonini/gcmtools/pkg/inject"
	"github.com/spf13/pflag"
)

// replacementFlag collects repeated --replace Target=path values.
type replacementFlag struct {
	requests []inject.Request
}

var _ pflag.Value = (*replacementFlag)(nil)

func (f *replacementFlag) String() string {
	values := make([]string, len(f.requests))
	for i, request := range f.requests {
		values[i] = request.String()
	}
	return strings.Join(values, ",")
}

func (f *replacementFlag) Set(value string) error {
	target, path, ok := strings.Cut(value, "=")
	target = strings.TrimSpace(target)
	if !ok || target == "" || path == "" {
		return fmt.Errorf("replacement %q must look like Target=path", value)
	}
	f.requests = append(f.requests, inject.Request{Target: target, Path: path})
	return nil
}

func (f *replacementFlag) Type() string {
	return "target=path"
}

// take returns the collected requests and clears the flag for the next run.
func (f *replacementFlag) take() []inject.Request {
	requests := f.requests
	f.requests = nil
	return requests
}
