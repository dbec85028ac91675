package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	cj "github.com/ava12/combi/examples/json"
	"github.com/ava12/combi/parser"
)

func (a *app) newJSONCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "json [<file>|-]",
		Short: "Parse JSON and print it as JSON or YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := cj.Grammar().With(parser.WithLogger(a.log))

			var (
				o parser.Outcome[any]
				e error
			)
			if len(args) == 0 || args[0] == "-" {
				o, e = g.ParseReader("stdin", a.in)
			} else {
				o, e = g.ParseFile(args[0])
			}
			if e == nil {
				e = o.Err()
			}
			if e != nil {
				return e
			}

			return writeValue(a.out, o.Value, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

func writeValue(w io.Writer, value any, format string) error {
	var (
		content []byte
		e       error
	)
	switch format {
	case "json":
		content, e = json.MarshalIndent(value, "", "  ")
		content = append(content, '\n')
	case "yaml":
		content, e = yaml.Marshal(value)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	if e != nil {
		return fmt.Errorf("encoding %s: %w", format, e)
	}

	_, e = w.Write(content)
	return e
}
