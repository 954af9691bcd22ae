package extern

import (
	"strings"
	"testing"
)

func TestRunCapturesStdout(t *testing.T) {
	stdout, _, err := Run("echo", []string{"hello"})
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	if strings.TrimSpace(string(stdout)) != "hello" {
		t.Errorf("stdout = %q, want hello", stdout)
	}
}

func TestRunNonZeroExitIsExternalTool(t *testing.T) {
	_, _, err := Run("sh", []string{"-c", "echo boom 1>&2; exit 3"})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q should include stderr tail", err.Error())
	}
}

func TestRunMissingBinary(t *testing.T) {
	_, _, err := Run("this-binary-does-not-exist-anywhere", nil)
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}
