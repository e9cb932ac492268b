package process

// Notes:
// - KillProcessGroup is only called with a PID that cannot exist. PID 0 would
//   target the test's own process group.

import (
	"os/exec"
	"testing"
)

// ---------------------------------------------------------------------------
// TestKillProcessGroup
// ---------------------------------------------------------------------------

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}

// ---------------------------------------------------------------------------
// TestDetach
// ---------------------------------------------------------------------------

func TestDetach_SetsSysProcAttr(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("httrack", "--version")
	Detach(cmd)

	if cmd.SysProcAttr == nil {
		t.Fatal("SysProcAttr not set")
	}

	// Calling twice keeps the existing attributes.
	attr := cmd.SysProcAttr
	Detach(cmd)
	if cmd.SysProcAttr != attr {
		t.Error("Detach replaced existing SysProcAttr")
	}
}
