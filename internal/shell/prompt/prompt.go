// Package prompt collects missing run configuration from an interactive
// terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/artpar/dockhand/internal/core/domain"
)

// ErrNotInteractive is returned when required fields are missing and no
// terminal is attached to ask for them.
var ErrNotInteractive = errors.New("missing configuration and no terminal to prompt on")

// Prompter reads answers line by line. Output and input are injectable so
// tests can drive it with buffers.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Stdin reports whether standard input is a terminal.
func Stdin() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Ask prints a label and reads one trimmed line. An empty answer falls
// back to def.
func (p *Prompter) Ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskInt asks for a number, falling back to def on an empty answer.
func (p *Prompter) AskInt(label string, def int) (int, error) {
	answer, err := p.Ask(label, strconv.Itoa(def))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q as a number: %w", answer, err)
	}
	return n, nil
}

// FillDeploy prompts for every deploy field that is still empty. Fields
// already set by flags, file, or environment are not asked again.
func (p *Prompter) FillDeploy(cfg *domain.DeployConfig) error {
	var err error
	if cfg.RepoURL == "" {
		if cfg.RepoURL, err = p.Ask("Repository URL", ""); err != nil {
			return err
		}
	}
	if cfg.Branch == "" {
		if cfg.Branch, err = p.Ask("Branch", domain.DefaultBranch); err != nil {
			return err
		}
	}
	if cfg.User == "" {
		if cfg.User, err = p.Ask("SSH user", ""); err != nil {
			return err
		}
	}
	if cfg.Host == "" {
		if cfg.Host, err = p.Ask("Host", ""); err != nil {
			return err
		}
	}
	if cfg.KeyPath == "" {
		if cfg.KeyPath, err = p.Ask("SSH key path", domain.DefaultKeyPath); err != nil {
			return err
		}
	}
	if cfg.AppPort == 0 {
		if cfg.AppPort, err = p.AskInt("Application port", domain.DefaultAppPort); err != nil {
			return err
		}
	}
	return nil
}

// FillCleanup prompts for every cleanup field that is still empty.
func (p *Prompter) FillCleanup(cfg *domain.CleanupConfig) error {
	var err error
	if cfg.User == "" {
		if cfg.User, err = p.Ask("SSH user", ""); err != nil {
			return err
		}
	}
	if cfg.Host == "" {
		if cfg.Host, err = p.Ask("Host", ""); err != nil {
			return err
		}
	}
	if cfg.KeyPath == "" {
		if cfg.KeyPath, err = p.Ask("SSH key path", domain.DefaultKeyPath); err != nil {
			return err
		}
	}
	return nil
}
