// Package hooks runs user scripts after folio events.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// HookEvent represents the type of event that triggers a hook.
type HookEvent string

const (
	// EventPostBuild is triggered after a successful site build.
	EventPostBuild HookEvent = "post-build"
)

// ConventionalDir holds hooks discovered by event name, relative to the
// site root: .folio/hooks/post-build.sh.
const ConventionalDir = ".folio/hooks"

// HookConfig contains paths to hook scripts. Relative paths are resolved
// against the site root.
type HookConfig struct {
	PostBuild string `yaml:"post_build,omitempty" json:"post_build,omitempty"`
}

// HookPayload contains data passed to hook scripts, as JSON on stdin and
// as FOLIO_* environment variables.
type HookPayload struct {
	Event         HookEvent `json:"event"`
	OutputDir     string    `json:"output_dir"`
	Pages         int       `json:"pages"`
	Posts         int       `json:"posts"`
	Version       string    `json:"version"`
	Timestamp     string    `json:"timestamp"`
	CommitMessage string    `json:"commit_message"`
}

// HookResult contains the result of running a hook.
type HookResult struct {
	Executed bool   `json:"executed"`
	Path     string `json:"path,omitempty"`
	Output   string `json:"output,omitempty"`
	Error    string `json:"error,omitempty"`
}

// RunHook executes the hook for payload.Event if one is configured or
// present at the conventional path. No hook is not an error.
func RunHook(ctx context.Context, siteDir string, config *HookConfig, payload *HookPayload) (*HookResult, error) {
	hookPath := GetHookPathWithDiscovery(siteDir, config, payload.Event)
	if hookPath == "" {
		return &HookResult{Executed: false}, nil
	}

	// Resolve relative paths from site root
	if !filepath.IsAbs(hookPath) {
		hookPath = filepath.Join(siteDir, hookPath)
	}

	if _, err := os.Stat(hookPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("hook not found: %s", hookPath)
	}

	env := append(os.Environ(),
		"FOLIO_EVENT="+string(payload.Event),
		"FOLIO_OUTPUT_DIR="+payload.OutputDir,
		"FOLIO_PAGES="+strconv.Itoa(payload.Pages),
		"FOLIO_POSTS="+strconv.Itoa(payload.Posts),
		"FOLIO_VERSION="+payload.Version,
		"FOLIO_TIMESTAMP="+payload.Timestamp,
		"FOLIO_SITE_DIR="+siteDir,
		"FOLIO_COMMIT_MESSAGE="+payload.CommitMessage,
	)

	cmd := exec.CommandContext(ctx, hookPath)
	cmd.Env = env
	cmd.Dir = siteDir

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hook payload: %w", err)
	}
	cmd.Stdin = bytes.NewReader(jsonPayload)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return &HookResult{
			Executed: true,
			Path:     hookPath,
			Output:   string(output),
			Error:    err.Error(),
		}, fmt.Errorf("hook failed: %w\nOutput: %s", err, output)
	}

	return &HookResult{
		Executed: true,
		Path:     hookPath,
		Output:   string(output),
	}, nil
}

// GenerateCommitMessage generates a git commit message for the given event.
func GenerateCommitMessage(event HookEvent, pages, posts int) string {
	switch event {
	case EventPostBuild:
		return fmt.Sprintf("Build: %d pages, %d posts", pages, posts)
	default:
		return fmt.Sprintf("folio: %s", event)
	}
}

// GetHookPath returns the configured hook path for a given event.
// Returns empty string if no hook is configured.
func GetHookPath(config *HookConfig, event HookEvent) string {
	if config == nil {
		return ""
	}
	switch event {
	case EventPostBuild:
		return config.PostBuild
	default:
		return ""
	}
}

// GetHookPathWithDiscovery returns the configured hook path, falling back
// to <ConventionalDir>/<event>.sh when that file exists.
func GetHookPathWithDiscovery(siteDir string, config *HookConfig, event HookEvent) string {
	if p := GetHookPath(config, event); p != "" {
		return p
	}
	conventional := filepath.Join(siteDir, filepath.FromSlash(ConventionalDir), string(event)+".sh")
	if _, err := os.Stat(conventional); err == nil {
		return conventional
	}
	return ""
}
