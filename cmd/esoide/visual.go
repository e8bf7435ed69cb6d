package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/esoide/debugs"
	"github.com/reusee/esoide/languages"
	"github.com/reusee/esoide/visualisers"
	"gopkg.in/yaml.v3"
)

func runVisual(ctx context.Context, scope dscope.Scope, code string, lang *languages.Language) (exitCode int) {
	scope.Call(func(
		newVisualiser visualisers.NewVisualiser,
		runScript debugs.RunScript,
		tap debugs.Tap,
	) {
		v := newVisualiser(func() string {
			return code
		}, nil, nil)
		v.SetLanguage(lang)
		v.Input().Append(*inputFlag)
		if stdinPiped() && !*replFlag {
			v.Input().Append(readStdin(os.Stdin))
		}
		notifyInterrupt(ctx, v.Pause)

		if *scriptFlag != "" {
			src, err := os.ReadFile(*scriptFlag)
			ce(err)
			if _, err := runScript(ctx, v, *scriptFlag, src); err != nil {
				fmt.Fprintln(os.Stderr, err)
				exitCode = 1
			}
		}

		if *stepsFlag > 0 {
			v.Step(*stepsFlag)
		}
		if *backFlag > 0 {
			v.Step(-*backFlag)
		}

		if *replFlag {
			globals := make(map[string]any)
			for name, value := range debugs.Builtins(ctx, v) {
				globals[name] = value
			}
			tap(ctx, "esoide", globals)
		}

		snapshot := v.Snapshot()
		if *dumpFlag {
			encoder := yaml.NewEncoder(os.Stdout)
			ce(encoder.Encode(snapshot))
			ce(encoder.Close())
		} else {
			fmt.Fprint(os.Stdout, snapshot.Output)
		}
		fmt.Fprintln(os.Stderr, snapshot.Status)
		if snapshot.Error != "" {
			fmt.Fprintln(os.Stderr, snapshot.Error)
		}
	})
	return
}
