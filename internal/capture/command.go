package capture

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/dmitrijs2005/profilekeeper/internal/filex"
)

// OutputPlaceholder in a command's arguments is replaced by the target path.
const OutputPlaceholder = "{output}"

// CommandDevice runs an external capture program, e.g.
//
//	fswebcam -r 640x480 --jpeg 90 {output}
//
// If no argument carries the placeholder, the path is appended.
type CommandDevice struct {
	name string
	args []string
}

// ParseCommand splits a command line on whitespace into a CommandDevice.
func ParseCommand(line string) (*CommandDevice, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty capture command")
	}
	return &CommandDevice{name: fields[0], args: fields[1:]}, nil
}

func (d *CommandDevice) argv(output string) []string {
	args := make([]string, 0, len(d.args)+1)
	replaced := false
	for _, a := range d.args {
		if strings.Contains(a, OutputPlaceholder) {
			a = strings.ReplaceAll(a, OutputPlaceholder, output)
			replaced = true
		}
		args = append(args, a)
	}
	if !replaced {
		args = append(args, output)
	}
	return args
}

func (d *CommandDevice) Capture(ctx context.Context, req Request) <-chan Result {
	return deliver(ctx, req, d.run)
}

func (d *CommandDevice) run(ctx context.Context, output string) error {
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, d.name, d.argv(output)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", d.name, err, msg)
		}
		return fmt.Errorf("%s: %w", d.name, err)
	}

	ok, err := filex.Exists(output)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoArtifact
	}
	return nil
}

// ImportDevice "captures" by copying an existing image chosen at capture
// time. Source is asked for the path on every request.
type ImportDevice struct {
	Source func(ctx context.Context) (string, error)
}

func (d *ImportDevice) Capture(ctx context.Context, req Request) <-chan Result {
	return deliver(ctx, req, func(ctx context.Context, output string) error {
		src, err := d.Source(ctx)
		if err != nil {
			return err
		}
		if src == "" {
			return ErrNoArtifact
		}
		return filex.CopyFile(src, output)
	})
}
