package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava12/combi"
	"github.com/ava12/combi/examples/calc"
)

func (a *app) newCalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc [<expr>...]",
		Short: "Compute expressions, read them from standard input if none given",
		Long: `Computes expressions, assigns variables, and defines functions:
  <expression>
  <var_name> = <expression>
  func <name> (<arg_name> [, <arg_name> ...]) <expression>

Statements read from standard input may span several lines, an empty line stops input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				failed := false
				for _, arg := range args {
					failed = !a.compute(arg) || failed
				}
				if failed {
					return errors.New("some expressions failed")
				}
				return nil
			}

			return a.calcLoop()
		},
	}
}

func (a *app) compute(input string) bool {
	res, e := calc.Compute(input)
	if e != nil {
		fmt.Fprintln(a.out, " !", e.Error())
		a.log.WithField("input", input).Debug(e.Error())
		return false
	}

	fmt.Fprintf(a.out, " : %.12g\n", res)
	return true
}

func (a *app) calcLoop() error {
	scanner := bufio.NewScanner(a.in)
	prevInput := ""
	for scanner.Scan() {
		input := strings.TrimRight(scanner.Text(), "\r\n")
		if input == "" {
			break
		}

		if prevInput != "" {
			input = prevInput + "\n" + input
			prevInput = ""
		}

		res, e := calc.Compute(input)
		var ce *combi.Error
		switch {
		case e == nil:
			fmt.Fprintf(a.out, " : %.12g\n", res)
		case errors.As(e, &ce) && ce.Code == calc.IncompleteInputError:
			prevInput = input
		default:
			fmt.Fprintln(a.out, " !", e.Error())
		}
	}

	if prevInput != "" {
		fmt.Fprintln(a.out, " ! incomplete input")
	}
	return scanner.Err()
}
