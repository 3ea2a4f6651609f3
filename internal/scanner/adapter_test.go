package scanner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/CosmoTheDev/artiscan/models"
)

var imageTarget = Target{Kind: TargetImage, Path: "./app", Image: "app:latest"}

func TestInvokeBuildsExactArgv(t *testing.T) {
	dir := Target{Kind: TargetDirectory, Path: "infra"}
	cases := []struct {
		adapter Adapter
		target  Target
		want    string
	}{
		{NewTrivyScanner(""), imageTarget, "trivy image --format json app:latest"},
		{NewDockleScanner(""), imageTarget, "dockle --format json app:latest"},
		{NewTfsecScanner(""), dir, "tfsec infra --format json"},
		{NewCheckovScanner(""), dir, "checkov -d infra -o json"},
	}
	for _, tc := range cases {
		r := newFakeRunner().on(tc.adapter.Binary(), 0, `{}`)
		Invoke(context.Background(), r, tc.adapter, tc.target, InvokeOptions{})
		if len(r.calls) != 1 {
			t.Fatalf("%s: expected one call, got %d", tc.adapter.Name(), len(r.calls))
		}
		if got := r.calls[0].String(); got != tc.want {
			t.Fatalf("%s: argv = %q, want %q", tc.adapter.Name(), got, tc.want)
		}
	}
}

func TestInvokeToolMissing(t *testing.T) {
	r := newFakeRunner()
	out := Invoke(context.Background(), r, NewTrivyScanner(""), imageTarget, InvokeOptions{})
	if out.Status != models.OutcomeMissing {
		t.Fatalf("expected missing, got %+v", out)
	}
	if !strings.Contains(out.Message, "trivy") {
		t.Fatalf("message should name the tool: %q", out.Message)
	}
}

func TestInvokeNonZeroExitWithJSONIsSuccess(t *testing.T) {
	r := newFakeRunner().on("trivy", 1, trivyFixture)
	out := Invoke(context.Background(), r, NewTrivyScanner(""), imageTarget, InvokeOptions{})
	if out.Status != models.OutcomeCompleted {
		t.Fatalf("expected completed, got %+v", out)
	}
	if len(out.Findings) != 1 || out.ExitCode != 1 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestInvokeCleanRunIsSuccessWithNoFindings(t *testing.T) {
	r := newFakeRunner().on("tfsec", 0, `{"results": null}`)
	out := Invoke(context.Background(), r, NewTfsecScanner(""), Target{Kind: TargetDirectory, Path: "infra"}, InvokeOptions{})
	if out.Status != models.OutcomeCompleted {
		t.Fatalf("expected completed, got %+v", out)
	}
	if out.Findings == nil || len(out.Findings) != 0 {
		t.Fatalf("expected an empty, non-nil findings slice, got %#v", out.Findings)
	}
}

func TestInvokeEmptyStdoutOnSuccessIsClean(t *testing.T) {
	r := newFakeRunner().on("dockle", 0, "  \n")
	out := Invoke(context.Background(), r, NewDockleScanner(""), imageTarget, InvokeOptions{})
	if out.Status != models.OutcomeCompleted || len(out.Findings) != 0 {
		t.Fatalf("expected clean completion, got %+v", out)
	}
}

func TestInvokeMalformedOutput(t *testing.T) {
	r := newFakeRunner().on("trivy", 0, `{"Results": [{"Vulner`)
	out := Invoke(context.Background(), r, NewTrivyScanner(""), imageTarget, InvokeOptions{})
	if out.Status != models.OutcomeFailed || out.Reason != models.ReasonMalformed {
		t.Fatalf("expected malformed output failure, got %+v", out)
	}
	if out.Message != "malformed output" {
		t.Fatalf("unexpected message %q", out.Message)
	}
}

func TestInvokeWrongJSONShapeIsMalformed(t *testing.T) {
	r := newFakeRunner().on("dockle", 0, `["not", "an", "object"]`)
	out := Invoke(context.Background(), r, NewDockleScanner(""), imageTarget, InvokeOptions{})
	if out.Status != models.OutcomeFailed || out.Reason != models.ReasonMalformed {
		t.Fatalf("expected malformed output failure, got %+v", out)
	}
}

func TestInvokeCrashWithoutJSONFails(t *testing.T) {
	r := newFakeRunner()
	r.responses["checkov"] = fakeResponse{res: ProcessResult{
		ExitCode: 2,
		Stdout:   []byte("Traceback (most recent call last):"),
		Stderr:   []byte("warming up\nModuleNotFoundError: No module named 'checkov'\n"),
	}}
	out := Invoke(context.Background(), r, NewCheckovScanner(""), Target{Kind: TargetDirectory, Path: "infra"}, InvokeOptions{})
	if out.Status != models.OutcomeFailed || out.Reason != models.ReasonExitStatus {
		t.Fatalf("expected exit status failure, got %+v", out)
	}
	if out.Message != "exit status 2: ModuleNotFoundError: No module named 'checkov'" {
		t.Fatalf("unexpected message %q", out.Message)
	}
}

func TestInvokeTimeout(t *testing.T) {
	r := newFakeRunner().fail("trivy", fmt.Errorf("%w: trivy after 1s", ErrTimeout))
	out := Invoke(context.Background(), r, NewTrivyScanner(""), imageTarget, InvokeOptions{})
	if out.Status != models.OutcomeFailed || out.Reason != models.ReasonTimeout || out.Message != "timeout" {
		t.Fatalf("expected timeout failure, got %+v", out)
	}
}

func TestInvokeCanceled(t *testing.T) {
	r := newFakeRunner().fail("trivy", fmt.Errorf("running trivy: %w", context.Canceled))
	out := Invoke(context.Background(), r, NewTrivyScanner(""), imageTarget, InvokeOptions{})
	if out.Status != models.OutcomeFailed || out.Reason != models.ReasonCanceled {
		t.Fatalf("expected canceled failure, got %+v", out)
	}
}

func TestInvokeSpawnError(t *testing.T) {
	r := newFakeRunner().fail("trivy", errors.New("starting trivy: exec format error"))
	out := Invoke(context.Background(), r, NewTrivyScanner(""), imageTarget, InvokeOptions{})
	if out.Status != models.OutcomeFailed || out.Reason != models.ReasonSpawn {
		t.Fatalf("expected spawn failure, got %+v", out)
	}
}

func TestInvokeDockerFallback(t *testing.T) {
	r := newFakeRunner().on("docker", 0, trivyFixture)
	out := Invoke(context.Background(), r, NewTrivyScanner(""), imageTarget, InvokeOptions{DockerFallback: true})
	if out.Status != models.OutcomeCompleted || len(out.Findings) != 1 {
		t.Fatalf("expected findings via docker, got %+v", out)
	}
	// trivy (missing), docker info, docker run.
	if len(r.calls) != 3 {
		t.Fatalf("expected 3 calls, got %d: %v", len(r.calls), r.calls)
	}
	run := r.calls[2]
	if run.Args[0] != "run" || !strings.Contains(run.String(), "aquasec/trivy:latest image --format json app:latest") {
		t.Fatalf("unexpected docker invocation: %s", run)
	}
}

func TestInvokeDockerFallbackMountsDirectory(t *testing.T) {
	r := newFakeRunner().on("docker", 0, `{"results": null}`)
	target := Target{Kind: TargetDirectory, Path: "/srv/infra"}
	out := Invoke(context.Background(), r, NewCheckovScanner(""), target, InvokeOptions{DockerFallback: true})
	if out.Status != models.OutcomeCompleted {
		t.Fatalf("expected completion via docker, got %+v", out)
	}
	got := r.calls[len(r.calls)-1].String()
	want := "docker run --rm -v /srv/infra:/scan:ro bridgecrew/checkov:latest -d /scan -o json"
	if got != want {
		t.Fatalf("docker argv = %q, want %q", got, want)
	}
}

func TestInvokeDockerFallbackWithoutDaemonIsMissing(t *testing.T) {
	r := newFakeRunner()
	out := Invoke(context.Background(), r, NewTrivyScanner(""), imageTarget, InvokeOptions{DockerFallback: true})
	if out.Status != models.OutcomeMissing {
		t.Fatalf("expected missing, got %+v", out)
	}
}
