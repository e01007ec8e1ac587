package cli

import (
	"fmt"
	"os"

	"github.com/morozRed/revise/internal/fileutil"
	"github.com/morozRed/revise/internal/languages"
	"github.com/morozRed/revise/internal/locate"
	"github.com/morozRed/revise/internal/logging"
	"github.com/morozRed/revise/internal/parser"
	"github.com/morozRed/revise/internal/session"
	"github.com/spf13/cobra"
)

// ListResult is the JSON shape of `revise list`.
type ListResult struct {
	Path       string             `json:"path"`
	Language   string             `json:"language"`
	HasErrors  bool               `json:"has_errors"`
	Structures []parser.Structure `json:"structures"`
}

func RunList(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return &UsageError{Err: fmt.Errorf("list takes exactly one file")}
	}
	path := args[0]
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	namesOnly, err := OptionalBoolFlag(cmd, "names", false)
	if err != nil {
		return err
	}
	topOnly, err := OptionalBoolFlag(cmd, "top-level", false)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return &session.Error{Kind: session.KindPreflight, Err: err}
	}
	lang, err := languages.Resolve(s.Registry, s.Config.Language, path, content)
	if err != nil {
		return &session.Error{Kind: session.KindPreflight, Err: err}
	}
	tree, err := lang.Parse(commandContext(cmd), content, s.Config.StrictParse)
	if err != nil {
		return &session.Error{Kind: session.KindParse, Err: err}
	}
	defer tree.Close()

	structures := locate.List(tree)
	if topOnly {
		structures = locate.TopLevel(tree)
	}
	if structures == nil {
		structures = []parser.Structure{}
	}

	w := outWriter(cmd)
	if s.JSON {
		return fileutil.PrintJSON(w, ListResult{
			Path:       path,
			Language:   lang.Name,
			HasErrors:  tree.HasErrors(),
			Structures: structures,
		})
	}
	if namesOnly {
		for _, st := range structures {
			fmt.Fprintln(w, st.Name)
		}
		return nil
	}

	st := newStyles(w)
	for _, item := range structures {
		indent := ""
		if !item.TopLevel {
			indent = "  "
		}
		fmt.Fprintf(w, "%s %s%s %s\n",
			st.Dim.Render(fmt.Sprintf("%5d", item.Line)),
			indent,
			st.Kind.Render(fmt.Sprintf("%-9s", item.Kind)),
			st.Bold.Render(item.Name),
		)
	}
	if tree.HasErrors() {
		s.Logger.Warn("file has syntax errors; structure list may be incomplete", logging.FieldPath, path)
	}
	if len(structures) == 0 {
		fmt.Fprintln(w, st.Dim.Render("no structures found"))
	}
	return nil
}
