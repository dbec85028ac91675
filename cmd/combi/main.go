/*
combi is a console utility running example grammars built with combi parsers.
Usage is

	combi [--config <file>] [--log-level <level>] [--log-format text|json] <command> [args]

Commands:

	json [<file>|-]    parse JSON file (or standard input) and print it as JSON or YAML (--output json|yaml);
	calc [<expr>...]   compute expressions, reads lines from standard input if no expressions given;
	words [<file>|-]   split text into words separated by insignificant characters (--skip <chars>);
	version            print version.

Every flag can also be set in the configuration file (YAML, JSON, or TOML)
or with environment variable COMBI_<FLAG> (dashes replaced with underscores).
*/
package main

import (
	"os"
)

func main() {
	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if e := cmd.Execute(); e != nil {
		os.Exit(1)
	}
}
