// Package extractors dispatches raw documents to the extractor registered
// for their detected kind.
package extractors

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/parchment-labs/docask-cli/internal/core/ports/driven"
)

// execRunner runs external tools through os/exec, feeding stdin and
// capturing stdout. Stderr is folded into the returned error on failure.
type execRunner struct{}

// NewExecRunner returns the default CommandRunner backed by os/exec.
func NewExecRunner() driven.CommandRunner {
	return &execRunner{}
}

func (r *execRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, stderr.String())
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return stdout.Bytes(), nil
}
