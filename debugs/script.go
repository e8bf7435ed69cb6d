package debugs

import (
	"context"

	"github.com/reusee/esoide/logs"
	"github.com/reusee/esoide/visualisers"
	"go.starlark.net/starlark"
)

// Builtins returns the starlark functions that drive v.
func Builtins(ctx context.Context, v *visualisers.Visualiser) starlark.StringDict {
	builtin := func(name string, fn func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)) *starlark.Builtin {
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			return fn(args, kwargs)
		})
	}

	steps := func(name string, sign int) *starlark.Builtin {
		return builtin(name, func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			n := 1
			if err := starlark.UnpackArgs(name, args, kwargs, "n?", &n); err != nil {
				return nil, err
			}
			return starlark.Bool(v.Step(sign * n)), nil
		})
	}

	snapshot := func(s visualisers.Snapshot, ok bool) starlark.Value {
		if !ok {
			return starlark.None
		}
		return toStarlarkValue(s)
	}

	return starlark.StringDict{

		"step": steps("step", 1),

		"back": steps("back", -1),

		"jump": builtin("jump", func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var n int
			if err := starlark.UnpackArgs("jump", args, kwargs, "n", &n); err != nil {
				return nil, err
			}
			s, ok := <-v.Jump(ctx, n)
			return snapshot(s, ok), nil
		}),

		"run": builtin("run", func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackArgs("run", args, kwargs); err != nil {
				return nil, err
			}
			select {
			case <-v.Run(ctx):
			case <-ctx.Done():
				v.Pause()
				return nil, ctx.Err()
			}
			return snapshot(v.Snapshot(), true), nil
		}),

		"speed": builtin("speed", func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var speed visualisers.Speed
			if err := starlark.UnpackArgs("speed", args, kwargs, "slider", &speed.Slider, "fast?", &speed.Fast); err != nil {
				return nil, err
			}
			v.SetSpeed(speed)
			return starlark.None, nil
		}),

		"stop": builtin("stop", func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackArgs("stop", args, kwargs); err != nil {
				return nil, err
			}
			v.Stop()
			return starlark.None, nil
		}),

		"input": builtin("input", func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var text string
			if err := starlark.UnpackArgs("input", args, kwargs, "text", &text); err != nil {
				return nil, err
			}
			v.Input().Append(text)
			return starlark.None, nil
		}),

		"output": builtin("output", func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			return starlark.String(v.Snapshot().Output), nil
		}),

		"tape": builtin("tape", func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			tape := v.Snapshot().Tape
			cells := make([]starlark.Value, len(tape))
			for i, cell := range tape {
				cells[i] = starlark.MakeInt(int(cell))
			}
			return starlark.NewList(cells), nil
		}),

		"pointer": builtin("pointer", func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			return starlark.MakeInt(v.Snapshot().TapePointer), nil
		}),

		"position": builtin("position", func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			position := v.Snapshot().Position
			return starlark.Tuple{
				starlark.MakeInt(position.Start),
				starlark.MakeInt(position.Length),
			}, nil
		}),

		"status": builtin("status", func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			return starlark.String(v.Snapshot().Status), nil
		}),

		"error": builtin("error", func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			return starlark.String(v.Snapshot().Error), nil
		}),

		"snapshot": builtin("snapshot", func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			return snapshot(v.Snapshot(), true), nil
		}),
	}
}

// RunScript executes a starlark script against a visualiser and returns its globals.
type RunScript func(ctx context.Context, v *visualisers.Visualiser, filename string, src any) (starlark.StringDict, error)

func (Module) RunScript(
	logger logs.Logger,
) RunScript {
	return func(ctx context.Context, v *visualisers.Visualiser, filename string, src any) (starlark.StringDict, error) {
		thread := &starlark.Thread{
			Name: filename,
			Print: func(_ *starlark.Thread, msg string) {
				logger.InfoContext(ctx, msg,
					"script", filename,
				)
			},
		}
		stop := context.AfterFunc(ctx, func() {
			thread.Cancel(context.Cause(ctx).Error())
		})
		defer stop()

		globals, err := starlark.ExecFileOptions(fileOptions, thread, filename, src, Builtins(ctx, v))
		if err != nil {
			return nil, logs.WrapSpan(ctx, err)
		}
		return globals, nil
	}
}
