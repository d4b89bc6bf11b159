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

// Package runner drives a CHIP-8 virtual machine against a frontend: the
// instruction clock, the 60 Hz timers, input and display refresh.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
)

/// Action is a host command requested by the frontend.
///
type Action int

/// Host actions.
///
const (
	None Action = iota
	Quit
	Pause
	Step
	Reset
	Dump
)

/// Refresh rate of the timers and the display.
///
const Refresh = 60

/// DefaultTraceSize is how many executed instructions a fault report shows.
///
const DefaultTraceSize = 16

/// Keypad receives key presses from the frontend.
///
type Keypad interface {
	PressKey(key uint8)
	ReleaseKey(key uint8)
}

/// Frontend is a window or terminal the machine runs in.
///
type Frontend interface {
	/// Poll processes pending input, forwarding CHIP-8 keys to the keypad,
	/// and returns the host action requested, if any.
	///
	Poll(keys Keypad) Action

	/// Present draws the video memory.
	///
	Present(vm *chip8.VM) error

	/// Beep turns the tone on or off.
	///
	Beep(on bool)
}

/// Options control the run loop.
///
type Options struct {
	Speed     int  // instructions per second
	Continue  bool // skip faulting instructions instead of stopping
	TraceSize int
}

/// Runner runs one virtual machine.
///
type Runner struct {
	logger *log.Logger
	vm     *chip8.VM
	fe     Frontend
	opts   Options
	trace  *Trace

	/// Paused is true while single stepping.
	///
	Paused bool

	/// refresh forces a redraw even if the video memory is unchanged.
	///
	refresh bool
}

/// New returns a runner for the machine and frontend.
///
func New(logger *log.Logger, vm *chip8.VM, fe Frontend, opts Options) *Runner {
	if opts.Speed <= 0 {
		opts.Speed = 500
	}
	if opts.TraceSize <= 0 {
		opts.TraceSize = DefaultTraceSize
	}

	return &Runner{
		logger:  logger,
		vm:      vm,
		fe:      fe,
		opts:    opts,
		trace:   NewTrace(opts.TraceSize),
		refresh: true,
	}
}

/// Run is New followed by Runner.Run.
///
func Run(ctx context.Context, logger *log.Logger, vm *chip8.VM, fe Frontend, opts Options) error {
	return New(logger, vm, fe, opts).Run(ctx)
}

/// Run loops until the frontend quits, the context is cancelled or an
/// instruction faults. Instructions and timer ticks are never concurrent.
///
func (r *Runner) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(r.opts.Speed)
	if interval <= 0 {
		interval = time.Nanosecond
	}

	clock := time.NewTicker(interval)
	defer clock.Stop()

	timers := time.NewTicker(time.Second / Refresh)
	defer timers.Stop()

	video := time.NewTicker(time.Second / Refresh)
	defer video.Stop()

	defer r.fe.Beep(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-video.C:
			if r.handle(r.fe.Poll(r.keypad())) {
				return nil
			}
			if err := r.present(); err != nil {
				return err
			}

		case <-timers.C:
			if !r.Paused {
				r.vm.Tick()
			}
			r.fe.Beep(!r.Paused && r.vm.Sound())

		case <-clock.C:
			if r.Paused {
				continue
			}
			if err := r.Step(); err != nil {
				return err
			}
		}
	}
}

/// Step executes a single instruction, applying the fault policy.
///
func (r *Runner) Step() error {
	if r.vm.Waiting() {
		return nil
	}

	r.trace.Log(r.vm.Disassemble(r.vm.PC))

	if _, err := r.vm.Step(); err != nil {
		logFault(r.logger, r.vm, r.trace, err)

		if !r.opts.Continue {
			return fmt.Errorf("running program: %w", err)
		}

		r.logger.Info("Skipping instruction", log.String("pc", fmt.Sprintf("0x%03X", r.vm.PC)))
		r.vm.Skip()
	}

	return nil
}

/// keypad is where the frontend sends key presses. While paused a press
/// only marks the key held, so a pending GETKEY stays suspended until the
/// machine runs again.
///
func (r *Runner) keypad() Keypad {
	if r.Paused {
		return pausedKeypad{r.vm}
	}
	return r.vm
}

type pausedKeypad struct {
	vm *chip8.VM
}

func (k pausedKeypad) PressKey(key uint8) {
	if !k.vm.Waiting() {
		k.vm.PressKey(key)
	} else if key < 16 {
		k.vm.Keys[key] = true
	}
}

func (k pausedKeypad) ReleaseKey(key uint8) {
	k.vm.ReleaseKey(key)
}

/// Trace returns the recently executed instructions.
///
func (r *Runner) Trace() []string {
	return r.trace.Window(r.opts.TraceSize)
}

/// handle performs a frontend action, returning true to quit.
///
func (r *Runner) handle(action Action) bool {
	switch action {
	case Quit:
		return true

	case Pause:
		r.Paused = !r.Paused
		r.refresh = true
		r.logger.Debug("Pause toggled", log.String("paused", fmt.Sprint(r.Paused)))

	case Step:
		if r.Paused {
			if err := r.Step(); err != nil {
				// stay paused on the faulting instruction
				r.logger.Debug("Step failed", log.Err(err))
			}
			r.refresh = true
		}

	case Reset:
		r.vm.Reset()
		r.trace.Clear()
		r.logger.Info("Machine reset")

	case Dump:
		logState(r.logger, r.vm)
	}

	return false
}

/// present redraws the frontend when something visible changed.
///
func (r *Runner) present() error {
	if !r.vm.Dirty && !r.refresh {
		return nil
	}

	if err := r.fe.Present(r.vm); err != nil {
		return fmt.Errorf("presenting frame: %w", err)
	}

	r.vm.Dirty = false
	r.refresh = false

	return nil
}
