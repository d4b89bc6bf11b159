// Package main implements chip8asm, the CHIP-8 assembler.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/chip8vm/chip8vm/internal/config"
	"github.com/chip8vm/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := options.ParseAssembler(os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *options.UsageError
		if errors.As(err, &usageErr) {
			config.PrintBanner(logger, "chip8asm", opts.Quiet, version, commit, date)
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
	config.PrintBanner(logger, "chip8asm", opts.Quiet, version, commit, date)

	if err := assembleFile(ctx, logger, opts); err != nil {
		logger.Error("Assembling failed", log.Err(err))
		os.Exit(1)
	}
}

func assembleFile(ctx context.Context, logger *log.Logger, opts options.Assembler) error {
	file, err := os.Open(opts.Input)
	if err != nil {
		return fmt.Errorf("opening file '%s': %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	asm, err := chip8.Assemble(file)
	if err != nil {
		return fmt.Errorf("assembling '%s': %w", opts.Input, err)
	}

	// echo every emitted word
	for i, word := range asm.Words() {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Debug("Opcode",
			log.String("address", fmt.Sprintf("0x%03X", chip8.ProgramStart+i*2)),
			log.String("word", fmt.Sprintf("0x%04X", word)),
			log.Int("line", asm.Lines[i*2]),
		)
	}

	if err := os.WriteFile(opts.Output, asm.ROM, 0o644); err != nil {
		return fmt.Errorf("writing file '%s': %w", opts.Output, err)
	}

	logger.Info("Assembled CHIP-8 program",
		log.String("file", opts.Output),
		log.Int("size", len(asm.ROM)),
	)
	return nil
}
