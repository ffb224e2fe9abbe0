package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mdlabel/internal/core/highlight"
)

// highlightIDCompleter suggests the highlight ids of the document named by
// --file as positional completions, described by title or term.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func highlightIDCompleter(ctx context.Context, cmd *cli.Command) {
	if args := cmd.Args(); args.Present() {
		last := args.Slice()[args.Len()-1]
		if len(last) > 0 && last[0] == '-' {
			cli.DefaultCompleteWithFlags(ctx, cmd)
			return
		}
	}

	path := cmd.String("file")
	if path == "" {
		return
	}

	doc, err := readDocumentFile(path)
	if err != nil {
		return
	}

	w := cmd.Root().Writer
	for i, h := range doc.Payload.Highlights {
		label := h.Title
		if label == "" {
			label = h.Term
		}
		if label == "" {
			_, _ = fmt.Fprintln(w, highlight.ID(i))
			continue
		}
		_, _ = fmt.Fprintf(w, "%s:%s\n", highlight.ID(i), label)
	}
}
