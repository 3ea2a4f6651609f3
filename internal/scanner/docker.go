package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

const dockerSocket = "/var/run/docker.sock"

// DockerServerVersion asks the Docker daemon for its version. ok is false
// when the CLI is missing or the daemon is unreachable.
func DockerServerVersion(ctx context.Context, runner ProcessRunner) (version string, ok bool) {
	res, err := runner.Run(ctx, Command{Name: "docker", Args: []string{"info", "--format", "{{.ServerVersion}}"}})
	if err != nil || res.ExitCode != 0 {
		return "", false
	}
	return strings.TrimSpace(string(res.Stdout)), true
}

// isDockerAvailable returns true if the Docker daemon is reachable.
func isDockerAvailable(ctx context.Context, runner ProcessRunner) bool {
	_, ok := DockerServerVersion(ctx, runner)
	return ok
}

// dockerCommand runs the adapter inside its container image. Directory
// targets are mounted read-only at /scan; image targets get the Docker
// socket so the scanner can read the local image store.
func dockerCommand(a Adapter, target Target) Command {
	args := []string{"run", "--rm"}
	subject := target.Subject()
	if target.Kind == TargetDirectory {
		path := target.Path
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		args = append(args, "-v", path+":/scan:ro")
		subject = "/scan"
	} else {
		args = append(args, "-v", dockerSocket+":"+dockerSocket)
	}
	args = append(args, a.DockerImage())
	args = append(args, a.Args(subject)...)
	return Command{Name: "docker", Args: args}
}

// DockerBuilder builds the image an image scan session inspects.
type DockerBuilder struct {
	runner ProcessRunner
}

// NewDockerBuilder returns a builder that shells out to `docker build`
// through runner.
func NewDockerBuilder(runner ProcessRunner) *DockerBuilder {
	return &DockerBuilder{runner: runner}
}

// Build runs `docker build -t tag contextDir`.
func (b *DockerBuilder) Build(ctx context.Context, contextDir, tag string) error {
	res, err := b.runner.Run(ctx, Command{Name: "docker", Args: []string{"build", "-t", tag, contextDir}})
	if err != nil {
		return fmt.Errorf("executing docker build: %w", err)
	}
	if res.ExitCode != 0 {
		if tail := lastLine(res.Stderr); tail != "" {
			return fmt.Errorf("docker build exited with status %d: %s", res.ExitCode, tail)
		}
		return fmt.Errorf("docker build exited with status %d", res.ExitCode)
	}
	return nil
}
