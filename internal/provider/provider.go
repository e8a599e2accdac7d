// Package provider acquires per-structure numbering files from an external
// numbering service and keeps them in an on-disk cache.
package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"
)

// Provider produces the raw numbering file for a structure id.
type Provider interface {
	Fetch(ctx context.Context, structureID string) ([]byte, error)
}

// Func adapts an ordinary function to the Provider interface.
type Func func(ctx context.Context, structureID string) ([]byte, error)

// Fetch calls f(ctx, structureID).
func (f Func) Fetch(ctx context.Context, structureID string) ([]byte, error) {
	return f(ctx, structureID)
}

// DefaultCommand runs the iCn3D reference-numbering script.
var DefaultCommand = []string{"node", "./refnum.js"}

// CommandProvider runs an external program with the structure id as its
// last argument and returns its standard output.
type CommandProvider struct {
	Command []string
	Dir     string
}

// NewCommandProvider returns a provider running command in dir. An empty
// command selects DefaultCommand.
func NewCommandProvider(command []string, dir string) *CommandProvider {
	if len(command) == 0 {
		command = DefaultCommand
	}
	return &CommandProvider{Command: command, Dir: dir}
}

// Fetch runs the command for structureID.
func (p *CommandProvider) Fetch(ctx context.Context, structureID string) ([]byte, error) {
	args := append(append([]string{}, p.Command[1:]...), structureID)
	cmd := exec.CommandContext(ctx, p.Command[0], args...)
	cmd.Dir = p.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("run %s: %w", strings.Join(p.Command, " "), err)
		}
		return nil, fmt.Errorf("run %s: %w: %s", strings.Join(p.Command, " "), err, msg)
	}
	return stdout.Bytes(), nil
}

// HTTPProvider downloads numbering files from a web service. URL is a
// format string whose single %s is replaced by the structure id.
type HTTPProvider struct {
	URL        string
	httpClient *http.Client
}

// NewHTTPProvider creates a provider for urlTemplate with the given client timeout.
func NewHTTPProvider(urlTemplate string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		URL: urlTemplate,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads the numbering file for structureID.
func (p *HTTPProvider) Fetch(ctx context.Context, structureID string) ([]byte, error) {
	url := fmt.Sprintf(p.URL, structureID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("numbering request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("numbering service error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read numbering response: %w", err)
	}
	return data, nil
}
