package iojson

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader reads a JSON or YAML value from the file named by its flag, or
// from stdin when the flag is not set.
type FileReader[T any] struct {
	fileFlagValue string
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON or YAML document (reads from stdin if not provided)",
		Destination: &fr.fileFlagValue,
	}
}

// Path returns the file given on the command line, or "" for stdin.
func (fr *FileReader[T]) Path() string { return fr.fileFlagValue }

func (fr *FileReader[T]) Read() (T, error) {
	var input T

	if fr.fileFlagValue != "" {
		data, err := os.ReadFile(fr.fileFlagValue)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		return Decode[T](data, fr.fileFlagValue)
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return input, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe a document")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return input, fmt.Errorf("read stdin: %w", err)
	}
	return Decode[T](data, "")
}
