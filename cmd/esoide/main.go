package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/reusee/dscope"
	"github.com/reusee/esoide/cmds"
	"github.com/reusee/esoide/configs"
	"github.com/reusee/esoide/languages"
	"github.com/reusee/esoide/logs"
	"github.com/reusee/esoide/modes"
)

var (
	fileFlag     = cmds.Var[string]("-file")
	languageFlag = cmds.Var[string]("-language")
	inputFlag    = cmds.Var[string]("-input")
	visualFlag   = cmds.Switch("-visual")
	stepsFlag    = cmds.Var[int]("-steps")
	backFlag     = cmds.Var[int]("-back")
	scriptFlag   = cmds.Var[string]("-script")
	replFlag     = cmds.Switch("-repl")
	dumpFlag     = cmds.Switch("-dump")
)

func main() {
	cmds.Execute(os.Args[1:])

	if *fileFlag == "" {
		fmt.Fprintln(os.Stderr, "-file is required")
		cmds.GlobalExecutor.PrintUsage()
		os.Exit(1)
	}
	content, err := os.ReadFile(*fileFlag)
	ce(err)
	code := string(content)

	lang := languages.FromPath(*fileFlag)
	if *languageFlag != "" {
		lang = languages.FromName(*languageFlag)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)

	scope.Call(func(
		logger logs.Logger,
		loader configs.Loader,
	) {
		ce(loader.Err())
		logger.InfoContext(ctx, "program",
			"file", *fileFlag,
			"language", lang,
		)
	})

	var exitCode int
	if *visualFlag || *scriptFlag != "" || *replFlag {
		exitCode = runVisual(ctx, scope, code, lang)
	} else {
		exitCode = runBatch(ctx, scope, code, lang)
	}
	cancel()
	os.Exit(exitCode)
}

// stdinPiped reports whether program input can be read from stdin.
func stdinPiped() bool {
	fd := os.Stdin.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

func notifyInterrupt(ctx context.Context, fn func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		defer signal.Stop(c)
		for {
			select {
			case <-ctx.Done():
				return
			case <-c:
				fn()
			}
		}
	}()
}

func readStdin(r io.Reader) string {
	content, err := io.ReadAll(r)
	ce(err)
	return string(content)
}

func ce(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
