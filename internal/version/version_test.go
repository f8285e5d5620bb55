package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	result := String()

	if !strings.HasPrefix(result, "repoctl ") {
		t.Errorf("String() should start with 'repoctl', got: %s", result)
	}
	if !strings.Contains(result, Version) {
		t.Errorf("String() should contain version %s, got: %s", Version, result)
	}
	if !strings.Contains(result, GitCommit) {
		t.Errorf("String() should contain commit %s, got: %s", GitCommit, result)
	}
}

func TestFull(t *testing.T) {
	result := Full()

	if !strings.Contains(result, String()) {
		t.Errorf("Full() should contain String() output, got: %s", result)
	}
	if !strings.Contains(result, runtime.Version()) {
		t.Errorf("Full() should contain Go version %s, got: %s", runtime.Version(), result)
	}
}

func TestUserAgent(t *testing.T) {
	old := Version
	Version = "1.2.3"
	defer func() { Version = old }()

	want := "repoctl/1.2.3 (" + runtime.GOOS + "/" + runtime.GOARCH + ")"
	if got := UserAgent(); got != want {
		t.Errorf("UserAgent() = %s, want %s", got, want)
	}
}
