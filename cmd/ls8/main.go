// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/tebeka/atexit"

	"github.com/ezrec/ls8/config"
	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/translate"
)

// Exit status codes.
const (
	EXIT_OK      = 0 // Halted normally.
	EXIT_RUNTIME = 1 // Fatal runtime error.
	EXIT_LOAD    = 2 // Program or configuration could not be loaded.
)

// registerExit adds a handler run by atexit.Exit. Handlers run in no
// particular order.
var registerExit = atexit.Register

func main() {
	atexit.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run is the whole command, returning the process exit status.
func run(args []string, stdout io.Writer, stderr io.Writer) (status int) {
	var compile string
	var save bool
	var output string
	var configFile string
	var coreFile string
	var verbose bool

	prog_name := args[0]
	logger := log.New(stderr, prog_name+": ", 0)

	flags := flag.NewFlagSet(prog_name, flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&compile, "c", "", ".asm file to assemble")
	flags.BoolVar(&save, "s", false, "Save assembled image, do not execute")
	flags.StringVar(&output, "o", "-", "Image or printer output")
	flags.StringVar(&configFile, "config", "", ".toml configuration file")
	flags.StringVar(&coreFile, "core", "", "Write a core dump here on runtime error")
	flags.BoolVar(&verbose, "v", false, "Verbose mode")

	err := flags.Parse(args[1:])
	if err != nil {
		return EXIT_LOAD
	}

	cfg := config.Default()
	if len(configFile) != 0 {
		cfg, err = config.Load(configFile)
		if err != nil {
			logger.Printf("%v: %v", configFile, err)
			return EXIT_LOAD
		}
	}
	if verbose {
		cfg.Output.Verbose = true
	}

	if len(compile) == 0 && flags.NArg() != 1 {
		translate.Fprintf(stderr, "usage: %v [flags] program.ls8\n", prog_name)
		flags.PrintDefaults()
		return EXIT_LOAD
	}
	if len(compile) != 0 && flags.NArg() != 0 {
		logger.Printf("%v", translate.From("Unknown arguments: %v", flags.Args()))
		return EXIT_LOAD
	}

	out := stdout
	var ouf *os.File
	if output != "-" {
		ouf, err = os.Create(output)
		if err != nil {
			logger.Printf("%v: %v", output, err)
			return EXIT_LOAD
		}
		out = ouf
	}

	bout := bufio.NewWriter(out)
	registerExit(func() {
		err := bout.Flush()
		if err != nil {
			logger.Printf("%v: %v", output, err)
		}
		if ouf != nil {
			ouf.Close()
		}
	})

	emu := emulator.NewEmulator(cfg)
	emu.Tape.Output = bout

	if len(compile) != 0 {
		// Assemble a new image.
		inf, err := os.Open(compile)
		if err != nil {
			logger.Printf("%v", err)
			return EXIT_LOAD
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: cfg.Output.Verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		prog, err := asm.Parse(inf)
		if err != nil {
			logger.Printf("%v: %v", compile, err)
			return EXIT_LOAD
		}

		if save {
			_, err = prog.WriteTo(bout)
			if err != nil {
				logger.Printf("%v: %v", output, err)
				return EXIT_RUNTIME
			}
			return EXIT_OK
		}

		emu.Assemble(prog)
		emu.Rom.Name = compile
	} else {
		name := flags.Arg(0)
		if cfg.Output.Verbose {
			logger.Printf("%v", translate.From("loading %v", name))
		}
		err = emu.Rom.Open(os.DirFS(filepath.Dir(name)), filepath.Base(name))
		if err != nil {
			logger.Printf("%v", err)
			return EXIT_LOAD
		}
	}

	err = emu.Reset()
	if err != nil {
		logger.Printf("%v", err)
		return EXIT_LOAD
	}

	err = emu.Run()
	if err != nil {
		logger.Printf("%v", err)
		if len(coreFile) != 0 {
			core := emu.Core(err)
			registerExit(func() {
				err := writeCore(coreFile, core)
				if err != nil {
					logger.Printf("%v: %v", coreFile, err)
				}
			})
		}
		return EXIT_RUNTIME
	}

	if cfg.Output.Verbose {
		logger.Printf("%v", translate.From("halted after %d ticks", emu.Cpu.Ticks))
	}

	return EXIT_OK
}

// writeCore saves a core dump.
func writeCore(path string, core *emulator.Core) (err error) {
	data, err := core.MarshalBinary()
	if err != nil {
		return
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		err = fmt.Errorf("core: %w", err)
	}

	return
}
