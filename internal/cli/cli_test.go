package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCommandTree(t *testing.T) {
	root := NewRootCommand()

	want := []string{
		"sync", "sync-userlist", "summarize", "daily-log", "overview",
		"post", "pipeline", "doctor", "config", "version",
	}
	have := map[string]bool{}
	for _, cmd := range root.Commands() {
		have[cmd.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestTimeFor(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Fatal(err)
	}
	a := &app{loc: loc}

	got, err := a.timeFor("2025-07-15")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, 7, 15, 12, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("timeFor = %v, want %v", got, want)
	}

	if _, err := a.timeFor("july 15"); err == nil {
		t.Error("malformed date should fail")
	}

	now, err := a.timeFor("")
	if err != nil {
		t.Fatal(err)
	}
	if time.Since(now) > time.Minute {
		t.Error("empty date should resolve to the current time")
	}
}

func TestCode(t *testing.T) {
	if Code(nil) != 0 {
		t.Error("nil error should exit 0")
	}
	if Code(errors.New("boom")) != 1 {
		t.Error("generic error should exit 1")
	}
	if Code(exitError(doctorDegraded)) != 1 {
		t.Error("degraded doctor should exit 1")
	}
	if Code(exitError(doctorCritical)) != 2 {
		t.Error("critical doctor should exit 2")
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	root := NewRootCommand()
	root.SetArgs([]string{"config", "init", "-o", path})
	var out bytes.Buffer
	root.SetOut(&out)

	if err := root.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "timezone:") {
		t.Errorf("starter config missing timezone: %q", data)
	}

	// Refuses to clobber an existing file.
	root = NewRootCommand()
	root.SetArgs([]string{"config", "init", "-o", path})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err == nil {
		t.Error("init over an existing file should fail")
	}
}

func TestVersionCommand(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"version"})
	var out bytes.Buffer
	root.SetOut(&out)

	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "hedwig ") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestDoctorMissingConfig(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"doctor", "--config", filepath.Join(t.TempDir(), "nope.yml")})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	if Code(err) != doctorCritical {
		t.Errorf("missing config should be critical, got %v", err)
	}
	if !strings.Contains(out.String(), "critical:") {
		t.Errorf("doctor output = %q", out.String())
	}
}
