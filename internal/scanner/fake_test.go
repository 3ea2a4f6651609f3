package scanner

import (
	"context"
	"fmt"
)

type fakeResponse struct {
	res ProcessResult
	err error
}

// fakeRunner answers by command name and records every call.
type fakeRunner struct {
	responses map[string]fakeResponse
	calls     []Command
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: map[string]fakeResponse{}}
}

func (f *fakeRunner) on(name string, exitCode int, stdout string) *fakeRunner {
	f.responses[name] = fakeResponse{res: ProcessResult{ExitCode: exitCode, Stdout: []byte(stdout)}}
	return f
}

func (f *fakeRunner) fail(name string, err error) *fakeRunner {
	f.responses[name] = fakeResponse{res: ProcessResult{ExitCode: -1}, err: err}
	return f
}

func (f *fakeRunner) Run(ctx context.Context, c Command) (ProcessResult, error) {
	f.calls = append(f.calls, c)
	r, ok := f.responses[c.Name]
	if !ok {
		return ProcessResult{ExitCode: -1}, fmt.Errorf("%w: %s", ErrToolNotFound, c.Name)
	}
	return r.res, r.err
}
