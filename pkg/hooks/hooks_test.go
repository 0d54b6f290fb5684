package hooks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
}

func testPayload() *HookPayload {
	return &HookPayload{
		Event:         EventPostBuild,
		OutputDir:     "/tmp/out",
		Pages:         6,
		Posts:         2,
		Version:       "1.0.0",
		CommitMessage: GenerateCommitMessage(EventPostBuild, 6, 2),
	}
}

func TestRunHook_AutoDiscover(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, ".folio", "hooks", "post-build.sh"), "echo hook-fired $FOLIO_PAGES\n")

	result, err := RunHook(context.Background(), dir, nil, testPayload())
	if err != nil {
		t.Fatalf("RunHook failed: %v", err)
	}
	if !result.Executed {
		t.Error("Expected hook to be executed via auto-discovery")
	}
	if strings.TrimSpace(result.Output) != "hook-fired 6" {
		t.Errorf("Output = %q, want %q", result.Output, "hook-fired 6")
	}
}

func TestRunHook_ExplicitOverridesConvention(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, ".folio", "hooks", "post-build.sh"), "echo conventional\n")
	writeScript(t, filepath.Join(dir, "my-hooks", "deploy.sh"), "echo explicit\n")

	config := &HookConfig{PostBuild: "my-hooks/deploy.sh"}
	result, err := RunHook(context.Background(), dir, config, testPayload())
	if err != nil {
		t.Fatalf("RunHook failed: %v", err)
	}
	if !strings.Contains(result.Output, "explicit") {
		t.Errorf("Expected explicit hook output, got %q", result.Output)
	}
	if result.Path != filepath.Join(dir, "my-hooks", "deploy.sh") {
		t.Errorf("Path = %q", result.Path)
	}
}

func TestRunHook_NoHook(t *testing.T) {
	result, err := RunHook(context.Background(), t.TempDir(), nil, testPayload())
	if err != nil {
		t.Fatalf("RunHook failed: %v", err)
	}
	if result.Executed {
		t.Error("Expected no hook to run")
	}
}

func TestRunHook_MissingConfiguredHook(t *testing.T) {
	config := &HookConfig{PostBuild: "missing.sh"}
	if _, err := RunHook(context.Background(), t.TempDir(), config, testPayload()); err == nil {
		t.Error("Expected error for missing hook")
	}
}

func TestRunHook_Payload(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "hook.sh"), "cat\n")

	result, err := RunHook(context.Background(), dir, &HookConfig{PostBuild: "hook.sh"}, testPayload())
	if err != nil {
		t.Fatalf("RunHook failed: %v", err)
	}
	var got HookPayload
	if err := json.Unmarshal([]byte(result.Output), &got); err != nil {
		t.Fatalf("hook stdin was not JSON: %v", err)
	}
	if got.Event != EventPostBuild || got.Posts != 2 {
		t.Errorf("payload = %+v", got)
	}
	if got.CommitMessage != "Build: 6 pages, 2 posts" {
		t.Errorf("CommitMessage = %q", got.CommitMessage)
	}
}

func TestRunHook_Failure(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "hook.sh"), "echo boom\nexit 3\n")

	result, err := RunHook(context.Background(), dir, &HookConfig{PostBuild: "hook.sh"}, testPayload())
	if err == nil {
		t.Fatal("Expected error from failing hook")
	}
	if result == nil || !result.Executed || !strings.Contains(result.Output, "boom") {
		t.Errorf("result = %+v", result)
	}
}

func TestGetHookPath(t *testing.T) {
	if got := GetHookPath(nil, EventPostBuild); got != "" {
		t.Errorf("nil config: got %q", got)
	}
	if got := GetHookPath(&HookConfig{PostBuild: "a.sh"}, EventPostBuild); got != "a.sh" {
		t.Errorf("got %q, want a.sh", got)
	}
	if got := GetHookPath(&HookConfig{PostBuild: "a.sh"}, HookEvent("other")); got != "" {
		t.Errorf("unknown event: got %q", got)
	}
}
