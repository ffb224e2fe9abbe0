package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/internal/core/styles"
	"github.com/hay-kot/mdlabel/pkg/iojson"
)

// loaded is a document read from disk or stdin.
type loaded struct {
	Path        string
	Payload     highlight.Payload
	Document    highlight.Document
	Diagnostics []highlight.Diagnostic // raised while normalizing the payload
}

func readDocument(fr *iojson.FileReader[highlight.Payload]) (loaded, error) {
	p, err := fr.Read()
	if err != nil {
		return loaded{}, fmt.Errorf("read document: %w", err)
	}
	return newLoaded(fr.Path(), p), nil
}

func readDocumentFile(path string) (loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return loaded{}, err
	}
	p, err := iojson.Decode[highlight.Payload](data, path)
	if err != nil {
		return loaded{}, err
	}
	return newLoaded(path, p), nil
}

func newLoaded(path string, p highlight.Payload) loaded {
	doc, diags := highlight.FromPayload(p)
	return loaded{Path: path, Payload: p, Document: doc, Diagnostics: diags}
}

// requirePath rejects commands that need a file to write back to.
func requirePath(fr *iojson.FileReader[highlight.Payload]) error {
	if fr.Path() == "" {
		return errors.New("a document file is required; use -f")
	}
	return nil
}

// writeJSON writes v as indented JSON to w, colored when w is a terminal.
func writeJSON(c *cli.Command, w io.Writer, v any) error {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, err = fmt.Fprintln(w, styles.ColorizeJSON(data))
		return err
	}
	return iojson.WriteWith(w, c.Root().ErrWriter, v)
}
