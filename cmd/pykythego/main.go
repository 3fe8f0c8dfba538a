// Command pykythego is the CLI entry point: a single root command
// taking one positional source path, with a validated flag set and a
// distinct exit code per failure category. It is deliberately a single
// operation rather than a multi-subcommand CLI, since there is exactly
// one thing to do: analyze one file and print its facts.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pykythego/internal/config"
	"pykythego/internal/diag"
	"pykythego/internal/pipeline"
)

type exitCoder interface {
	ExitCode() int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if ec, ok := err.(exitCoder); ok {
			os.Exit(ec.ExitCode())
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		parseCmd      string
		kytheCorpus   string
		kytheRoot     string
		pythonPath    string
		rootPath      string
		pythonVersion int
	)

	cmd := &cobra.Command{
		Use:   "pykythego <src>",
		Short: "Semantic post-processor emitting Kythe facts from a simplified Python AST",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return diag.ArgumentError(err.Error())
			}
			return nil
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if parseCmd == "" {
				return diag.ArgumentError("--parsecmd is required")
			}
			if pythonVersion != 2 && pythonVersion != 3 {
				return diag.ArgumentError("--python_version must be 2 or 3")
			}

			opts := pipeline.Options{
				ParseCmd:      parseCmd,
				KytheCorpus:   kytheCorpus,
				KytheRoot:     kytheRoot,
				PythonPath:    splitPaths(pythonPath),
				RootPath:      splitPaths(rootPath),
				PythonVersion: pythonVersion,
				Src:           args[0],
			}
			return pipeline.Run(opts, cmd.OutOrStdout())
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return diag.ArgumentError(err.Error())
	})

	defaults, _ := config.Load("pykythego.yaml")

	cmd.Flags().StringVar(&parseCmd, "parsecmd", defaults.ParseCmd, "command to invoke the upstream parser")
	cmd.Flags().StringVar(&kytheCorpus, "kythe-corpus", defaults.KytheCorpus, "corpus field in emitted VNames")
	cmd.Flags().StringVar(&kytheRoot, "kythe-root", defaults.KytheRoot, "root field in emitted VNames")
	cmd.Flags().StringVar(&pythonPath, "pythonpath", defaults.PythonPath, "':'-separated import search roots")
	cmd.Flags().StringVar(&rootPath, "rootpath", defaults.RootPath, "':'-separated prefixes used to canonicalize absolute paths into FQNs")

	defaultPythonVersion := 3
	if v, err := strconv.Atoi(defaults.PythonVersion); err == nil {
		defaultPythonVersion = v
	}
	cmd.Flags().IntVar(&pythonVersion, "python_version", defaultPythonVersion, "python version passed to the parser (2 or 3)")

	return cmd
}

// splitPaths splits a ':'-separated path list, skipping empty segments
// so a trailing/leading ':' doesn't produce a bogus root.
func splitPaths(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ":") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
