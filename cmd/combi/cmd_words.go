package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava12/combi/charclass"
	"github.com/ava12/combi/parser"
)

// wordsGrammar returns grammar splitting text into words separated by insignificant characters.
func wordsGrammar(cfg parser.Config) *parser.Grammar[[]string] {
	skip := charclass.Space
	if cfg.Skip != "" {
		skip = charclass.SetOf(cfg.Skip)
	}
	word := parser.Label(parser.While(charclass.Named(skip.Not(), "word character"), 1), "word")
	root := parser.Left(parser.Many(word), parser.EOF())
	return parser.NewGrammar(root, parser.WithConfig(cfg))
}

func (a *app) newWordsCmd() *cobra.Command {
	var (
		output string
		cfg    parser.Config
	)

	cmd := &cobra.Command{
		Use:   "words [<file>|-]",
		Short: "Split text into words separated by insignificant characters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.v.SetDefault("autoskip", true)
			if e := a.v.Unmarshal(&cfg); e != nil {
				return fmt.Errorf("decoding configuration: %w", e)
			}

			g := wordsGrammar(cfg).With(parser.WithLogger(a.log))
			var (
				o parser.Outcome[[]string]
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

			a.log.WithField("count", len(o.Value)).Info("words found")
			return writeValue(a.out, o.Value, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: json or yaml")
	cmd.Flags().String("skip", "", "insignificant characters, whitespace by default")
	return cmd
}
