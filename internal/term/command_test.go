package term

import (
	"errors"
	"os"
	"os/exec"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"vim", []string{"vim"}},
		{"vim +10 notes.txt", []string{"vim", "+10", "notes.txt"}},
		{"  tail  -f\tlog  ", []string{"tail", "-f", "log"}},
		{"sh -c 'echo one two'", []string{"sh", "-c", "echo one two"}},
		{`grep "a b" file`, []string{"grep", "a b", "file"}},
		{`echo "a \"b\" c"`, []string{"echo", `a "b" c`}},
		{`echo "back\slash"`, []string{"echo", `back\slash`}},
		{`touch a\ b`, []string{"touch", "a b"}},
		{`env X='' true`, []string{"env", "X=", "true"}},
	}
	for _, tt := range tests {
		got, err := SplitCommand(tt.in)
		if err != nil {
			t.Fatalf("SplitCommand(%q) error: %v", tt.in, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("SplitCommand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitCommandErrors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"echo 'oops",
		`echo "oops`,
		`echo oops\`,
	}
	for _, in := range inputs {
		if got, err := SplitCommand(in); err == nil {
			t.Fatalf("SplitCommand(%q) = %q, want error", in, got)
		}
	}
}

func TestUserShell(t *testing.T) {
	t.Setenv("SHELL", "/usr/bin/fish")
	if got := UserShell(); got != "/usr/bin/fish" {
		t.Fatalf("UserShell() = %q, want %q", got, "/usr/bin/fish")
	}

	t.Setenv("SHELL", "")
	if got := UserShell(); got != "/bin/sh" {
		t.Fatalf("UserShell() = %q, want %q", got, "/bin/sh")
	}
}

func TestEnviron(t *testing.T) {
	// Registers the cleanup, then clears it so an inherited WINDOWID
	// cannot leak into the assertions below.
	t.Setenv("WINDOWID", "inherited")
	os.Unsetenv("WINDOWID")

	env := Environ(0)
	for _, want := range []string{"TERM=xterm-256color", "COLORTERM=truecolor"} {
		if !containsEnv(env, want) {
			t.Fatalf("Environ(0) missing %q", want)
		}
	}
	for _, kv := range env {
		if strings.HasPrefix(kv, "WINDOWID=") {
			t.Fatalf("Environ(0) set %q, want no WINDOWID", kv)
		}
	}

	env = Environ(0x2c00007)
	if !containsEnv(env, "WINDOWID=46137351") {
		t.Fatalf("Environ(0x2c00007) missing WINDOWID=46137351")
	}
}

func containsEnv(env []string, kv string) bool {
	for _, e := range env {
		if e == kv {
			return true
		}
	}
	return false
}

func TestExitStatus(t *testing.T) {
	if got := ExitStatus(nil); got != 0 {
		t.Fatalf("ExitStatus(nil) = %d, want 0", got)
	}
	if got := ExitStatus(errors.New("wait: no child")); got != 1 {
		t.Fatalf("ExitStatus(non-exit error) = %d, want 1", got)
	}

	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}

	err := exec.Command("sh", "-c", "exit 0").Run()
	if got := ExitStatus(err); got != 0 {
		t.Fatalf("ExitStatus(exit 0) = %d, want 0", got)
	}

	err = exec.Command("sh", "-c", "exit 3").Run()
	if got := ExitStatus(err); got != 3 {
		t.Fatalf("ExitStatus(exit 3) = %d, want 3", got)
	}

	err = exec.Command("sh", "-c", "kill -TERM $$").Run()
	if got := ExitStatus(err); got != 1 {
		t.Fatalf("ExitStatus(signal death) = %d, want 1", got)
	}
}
