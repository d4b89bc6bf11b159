/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

// Package main implements chip8vm, a CHIP-8 virtual machine with an SDL
// window or a terminal as its display.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/chip8vm/chip8vm/internal/config"
	"github.com/chip8vm/chip8vm/internal/options"
	"github.com/chip8vm/chip8vm/internal/runner"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	// SDL must be driven from the main thread
	runtime.LockOSThread()
}

func main() {
	ctx := app.Context()

	opts, err := options.ParseInterpreter(os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *options.UsageError
		if errors.As(err, &usageErr) {
			config.PrintBanner(logger, "chip8vm", opts.Quiet, version, commit, date)
			if usageErr.Error() != "" {
				logger.Error(usageErr.Error())
			}
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	config.PrintBanner(logger, "chip8vm", opts.Quiet, version, commit, date)

	if err := run(ctx, logger, opts); err != nil {
		// Ctrl+C is a normal way to leave
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Running failed", log.Err(err))
		os.Exit(1)
	}
}

/// run loads the program and runs it in the chosen frontend until it quits.
///
func run(ctx context.Context, logger *log.Logger, opts options.Interpreter) error {
	if opts.ROM == "" {
		file, err := pickROM()
		if err != nil {
			return err
		}
		opts.ROM = file
	}

	vm, err := chip8.LoadFile(opts.ROM)
	if err != nil {
		return fmt.Errorf("opening file '%s': %w", opts.ROM, err)
	}

	logger.Info("Loaded CHIP-8 program",
		log.String("file", opts.ROM),
		log.Int("size", len(vm.ROM)),
		log.String("ui", opts.UI),
	)

	if opts.Dump {
		if err := dump(os.Stdout, vm); err != nil {
			return err
		}
	}

	fe, err := openFrontend(logger, opts)
	if err != nil {
		return err
	}
	defer fe.Close()

	return runner.Run(ctx, logger, vm, fe, runner.Options{
		Speed:    opts.Speed,
		Continue: opts.Continue,
	})
}

/// dump writes the loaded memory followed by the initial register state.
///
func dump(w io.Writer, vm *chip8.VM) error {
	if err := vm.DumpMemory(w); err != nil {
		return fmt.Errorf("dumping memory: %w", err)
	}
	if err := vm.DumpState(w); err != nil {
		return fmt.Errorf("dumping state: %w", err)
	}
	return nil
}

/// frontend is a runner frontend that owns resources.
///
type frontend interface {
	runner.Frontend
	Close()
}

/// openFrontend creates the window or terminal display.
///
func openFrontend(logger *log.Logger, opts options.Interpreter) (frontend, error) {
	switch opts.UI {
	case options.UITerm:
		return OpenTerminal()
	default:
		w, err := OpenWindow(logger, opts.ROM, int32(opts.Scale))
		if err != nil {
			return nil, err
		}
		if !opts.Quiet {
			DebugHelp(logger)
		}
		return w, nil
	}
}

/// pickROM asks for a program to run with a native file dialog.
///
func pickROM() (string, error) {
	file, err := dialog.File().Filter("CHIP-8 programs", "ch8", "c8").Title("Load ROM").Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return "", errors.New("no file to run selected")
		}
		return "", fmt.Errorf("opening file dialog: %w", err)
	}

	return file, nil
}
