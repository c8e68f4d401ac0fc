// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/beevik/term"

	"github.com/step6502/go6502/cpu"
	"github.com/step6502/go6502/disasm"
	"github.com/step6502/go6502/host"
)

var (
	loadFile   string
	loadAddr   string
	entry      string
	scriptFile string
	maxSteps   int
)

func init() {
	flag.StringVar(&loadFile, "load", "", "raw binary file to load into memory")
	flag.StringVar(&loadAddr, "addr", "0x0200", "address at which to load the binary file")
	flag.StringVar(&entry, "entry", "", "initial program counter (defaults to the load address)")
	flag.StringVar(&scriptFile, "script", "", "Lua script to run after loading")
	flag.IntVar(&maxSteps, "steps", 0, "run headless for at most this many instructions and exit")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: go6502 [options] [command files] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("go6502: ")
	flag.Parse()

	h := host.New()

	if loadFile != "" {
		addr, err := parseAddr(loadAddr)
		if err != nil {
			log.Fatalf("invalid -addr: %v", err)
		}
		if err := h.Load(loadFile, addr); err != nil {
			log.Fatalf("%v", err)
		}
	}

	if entry != "" {
		pc, err := parseAddr(entry)
		if err != nil {
			log.Fatalf("invalid -entry: %v", err)
		}
		h.CPU().SetPC(pc)
	}

	if scriptFile != "" {
		if err := h.RunScript(scriptFile); err != nil {
			log.Fatalf("script: %v", err)
		}
	}

	if maxSteps > 0 {
		runHeadless(h.CPU(), maxSteps)
		return
	}

	// Run commands contained in command-line files.
	for _, filename := range flag.Args() {
		file, err := os.Open(filename)
		if err != nil {
			log.Fatalf("%v", err)
		}
		err = h.RunCommands(file, os.Stdout, false)
		file.Close()
		exitOnQuit(err)
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands interactively when attached to a terminal.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	exitOnQuit(h.RunCommands(os.Stdin, os.Stdout, interactive))
}

// Run the CPU without the host until it executes maxSteps instructions,
// reaches a BRK or an unimplemented opcode, or the user types Ctrl-C.
func runHeadless(c *cpu.CPU, maxSteps int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	brk := &brkStop{cancel: cancel}
	c.AttachBrkHandler(brk)

	start := c.Steps
	_, err := c.Run(ctx, maxSteps)
	fmt.Printf("Executed %d instructions.\n", c.Steps-start)
	fmt.Println(disasm.RegisterString(&c.Reg))

	var ue *cpu.UnimplementedError
	switch {
	case brk.hit:
		fmt.Printf("Stopped at BRK at $%04X.\n", c.Reg.PC)
	case errors.As(err, &ue):
		fmt.Printf("Stopped at unimplemented opcode $%02X at $%04X.\n", ue.Opcode, ue.Addr)
		os.Exit(2)
	case err != nil:
		fmt.Printf("Stopped: %v.\n", err)
		os.Exit(1)
	}
}

// brkStop ends a headless run when the CPU reaches a BRK instruction.
type brkStop struct {
	cancel context.CancelFunc
	hit    bool
}

func (b *brkStop) OnBrk(c *cpu.CPU) {
	b.hit = true
	b.cancel()
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func parseAddr(s string) (uint16, error) {
	if len(s) > 1 && s[0] == '$' {
		s = "0x" + s[1:]
	}
	v, err := strconv.ParseUint(s, 0, 16)
	return uint16(v), err
}

func exitOnQuit(err error) {
	switch {
	case err == nil:
	case errors.Is(err, host.ErrQuit):
		os.Exit(0)
	default:
		log.Fatalf("%v", err)
	}
}
