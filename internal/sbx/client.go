// Package sbx wraps the external sandbox binary's command surface: JSON
// status/config queries, the mutating accept/reject/sync/stop/delete
// subcommands, and the streamed textual diff.
package sbx

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"

	"github.com/codefionn/sbxpanel/internal/changes"
	"github.com/codefionn/sbxpanel/internal/config"
	"github.com/codefionn/sbxpanel/internal/logger"
)

// Info is the sandbox binary's reported configuration for a working
// directory. Every field is optional; absent keys come back empty.
type Info struct {
	Name       string `json:"name,omitempty"`
	StorageDir string `json:"storage_dir,omitempty"`
	UpperCwd   string `json:"upper_cwd,omitempty"`
	OverlayCwd string `json:"overlay_cwd,omitempty"`
}

// Client invokes the sandbox binary with the resolved configuration.
type Client struct {
	cfg *config.Config
	log *logger.Logger
}

// NewClient creates a client bound to the given configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{cfg: cfg, log: logger.Global().WithPrefix("sbx")}
}

// GlobalArgs translates the configuration into the fixed-order flag
// vector prepended to every invocation: sandbox name, network mode,
// binds, masks, no-default-binds, ignored-files.
func (c *Client) GlobalArgs() []string {
	var args []string
	if c.cfg.SandboxName != "" {
		args = append(args, "--name", c.cfg.SandboxName)
	}
	if c.cfg.Network != config.NetworkDefault {
		args = append(args, "--net", c.cfg.Network)
	}
	for _, bind := range c.cfg.Binds {
		args = append(args, "--bind", bind)
	}
	for _, mask := range c.cfg.Masks {
		args = append(args, "--mask", mask)
	}
	if c.cfg.NoDefaultBinds {
		args = append(args, "--no-default-binds")
	}
	if c.cfg.IncludeIgnored {
		args = append(args, "--ignored-files")
	}
	return args
}

func (c *Client) command(ctx context.Context, dir string, args ...string) *exec.Cmd {
	argv := append(c.GlobalArgs(), args...)
	cmd := exec.CommandContext(ctx, c.cfg.BinaryPath, argv...)
	cmd.Dir = dir
	return cmd
}

// run executes a subcommand and returns stdout after checking the exit
// code. Unlike the editor extension this tool grew out of, read calls are
// held to the same exit-code standard as mutating ones.
func (c *Client) run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := c.command(ctx, dir, append([]string{name}, args...)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.log.Debug("run: %s %v (dir=%s)", c.cfg.BinaryPath, cmd.Args[1:], dir)
	err := cmd.Run()
	if err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			// Spawn failure (binary missing, not executable). Surface the
			// exec error itself so Hint can recognize it.
			return nil, err
		}
		output := stderr.String()
		if output == "" {
			output = stdout.String()
		}
		c.log.Warn("run: %s exited %d: %s", name, exitCode, output)
		return nil, &ProcessError{Command: name, ExitCode: exitCode, Output: output}
	}
	return stdout.Bytes(), nil
}

// FetchStatus queries the change set for the given directory. A payload
// without a change array yields an empty, non-nil slice.
func (c *Client) FetchStatus(ctx context.Context, dir string) ([]changes.Entry, error) {
	out, err := c.run(ctx, dir, "status", "--json")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Changes []changes.Entry `json:"changes"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, &ParseError{Command: "status", Err: err}
	}
	if payload.Changes == nil {
		return []changes.Entry{}, nil
	}
	return payload.Changes, nil
}

// FetchConfig queries the sandbox configuration for the given directory.
func (c *Client) FetchConfig(ctx context.Context, dir string) (*Info, error) {
	out, err := c.run(ctx, dir, "config", "--json", "name", "storage_dir", "upper_cwd", "overlay_cwd")
	if err != nil {
		return nil, err
	}

	var info Info
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, &ParseError{Command: "config", Err: err}
	}
	return &info, nil
}

// Accept accepts the staged changes selected by patterns into the real
// filesystem.
func (c *Client) Accept(ctx context.Context, dir string, patterns ...string) error {
	_, err := c.run(ctx, dir, "accept", patterns...)
	return err
}

// Reject discards the staged changes selected by patterns.
func (c *Client) Reject(ctx context.Context, dir string, patterns ...string) error {
	_, err := c.run(ctx, dir, "reject", patterns...)
	return err
}

// Sync refreshes the overlay against the real filesystem.
func (c *Client) Sync(ctx context.Context, dir string) error {
	_, err := c.run(ctx, dir, "sync")
	return err
}

// Stop stops the sandbox for the given directory.
func (c *Client) Stop(ctx context.Context, dir string) error {
	_, err := c.run(ctx, dir, "stop")
	return err
}

// Delete removes the sandbox and its staged state without prompting.
func (c *Client) Delete(ctx context.Context, dir string) error {
	_, err := c.run(ctx, dir, "delete", "-y")
	return err
}

// BinaryPath returns the configured sandbox binary path.
func (c *Client) BinaryPath() string {
	return c.cfg.BinaryPath
}

// ShellCommand builds the interactive command used to enter the sandbox.
func (c *Client) ShellCommand(ctx context.Context, dir string) *exec.Cmd {
	return c.command(ctx, dir)
}
