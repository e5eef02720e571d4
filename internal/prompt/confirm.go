// Package prompt asks the user yes/no questions on an interactive terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirmer reads a confirmation answer from In and writes the question to
// Out. IsInteractive gates prompting so piped stdin never blocks on a read.
type Confirmer struct {
	In            io.Reader
	Out           io.Writer
	IsInteractive func() bool
}

// DefaultConfirmer prompts on stdin/stdout.
func DefaultConfirmer() Confirmer {
	return Confirmer{
		In:  os.Stdin,
		Out: os.Stdout,
		IsInteractive: func() bool {
			info, err := os.Stdin.Stat()
			if err != nil {
				return false
			}
			return (info.Mode() & os.ModeCharDevice) != 0
		},
	}
}

// ConfirmOverwrite asks whether path may be overwritten. force answers yes
// without prompting; a non-interactive stdin is an error rather than a
// silent yes.
func (c Confirmer) ConfirmOverwrite(path string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	if c.IsInteractive == nil || !c.IsInteractive() {
		return false, fmt.Errorf("non-interactive stdin: use -y to overwrite existing output")
	}
	if c.Out != nil {
		fmt.Fprintf(c.Out, "Warning: Output file %s already exists. Overwrite? (y/n): ", path)
	}
	answer, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "y", nil
}
