// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host allows you to create a "host" that emulates a computer system
// with a 6502 CPU, 64K of memory, a built-in debugger, and other useful
// tools.
//
// Within the host it is possible to load machine code into memory, debug
// and step through machine code, set address and data breakpoints, dump
// the contents of memory, disassemble the contents of memory, manipulate
// CPU registers and memory, evaluate arbitrary expressions, and drive the
// emulator from Lua scripts.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/beevik/cmd"

	"github.com/step6502/go6502/cpu"
	"github.com/step6502/go6502/disasm"
	"github.com/step6502/go6502/internal/translate"
)

type displayFlags uint8

const (
	displayRegisters displayFlags = 1 << iota
	displaySteps

	displayAll = displayRegisters | displaySteps
)

type state int32

const (
	stateProcessingCommands state = iota
	stateRunning
	stateInterrupted
	stateBreakpoint
	stateStepOverBreakpoint
)

// ErrQuit is returned by RunCommands when the quit command is executed.
var ErrQuit = errors.New("exiting program")

// A Host represents a fully emulated 6502 system, 64K of memory, a built-in
// debugger, and an interactive command processor.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	width       int
	interactive bool
	mem         *cpu.FlatMemory
	cpu         *cpu.CPU
	debugger    *cpu.Debugger
	handler     *debugHandler
	lastCmd     *cmd.Selection
	state       atomic.Int32
	exprParser  *exprParser
	settings    *settings
}

// New creates a new 6502 host environment.
func New() *Host {
	h := &Host{
		output:     bufio.NewWriter(os.Stdout),
		width:      defaultWidth,
		exprParser: newExprParser(),
		settings:   newSettings(),
	}

	// Create the emulated CPU and memory.
	h.mem = cpu.NewFlatMemory()
	h.cpu = cpu.NewCPU(h.mem)

	// Create a CPU debugger and attach it to the CPU.
	h.handler = newDebugHandler(h)
	h.debugger = cpu.NewDebugger(h.handler)
	h.cpu.AttachDebugger(h.debugger)

	h.onSettingsUpdate()
	return h
}

// CPU returns the host's emulated CPU.
func (h *Host) CPU() *cpu.CPU {
	return h.cpu
}

// SetOutput redirects host output, including script output, to w.
func (h *Host) SetOutput(w io.Writer) {
	h.output = bufio.NewWriter(w)
	h.width = outputWidth(w)
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered. RunCommands
// returns nil when the reader is exhausted and ErrQuit when the quit
// command is executed.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) error {
	h.input = bufio.NewScanner(r)
	h.SetOutput(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	h.displayPC()
	return h.processCommands()
}

func (h *Host) processCommands() error {
	for {
		h.prompt()

		line, err := h.getLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		var c cmd.Selection
		if strings.TrimSpace(line) != "" {
			c, err = cmds.Lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.println("Command not found.")
				continue
			case err == cmd.ErrAmbiguous:
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
			if c.Command == nil {
				if g, err := lookupGroup(strings.Fields(line)[0]); err == nil {
					h.displayCommands(g)
				}
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		cm := c.Command.Data.(*command)
		if err := cm.run(h, c); err != nil {
			return err
		}
	}
}

// Break interrupts a running CPU. It is safe to call from another
// goroutine, such as a signal handler.
func (h *Host) Break() {
	if h.state.CompareAndSwap(int32(stateRunning), int32(stateInterrupted)) {
		return
	}
	h.println()
	h.prompt()
}

func (h *Host) getState() state {
	return state(h.state.Load())
}

func (h *Host) setState(s state) {
	h.state.Store(int32(s))
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprint(h.output, translate.From(format, args...))
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
	}
}

func (h *Host) displayPC() {
	if h.interactive {
		d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
		h.println(d)
	}
}

func (h *Host) cmdBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled")
	h.println("----- -------")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%04X %t\n", b.Address, !b.Disabled)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c cmd.Selection) error {
	addr, ok := h.parseAddrArg(c)
	if !ok {
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c cmd.Selection) error {
	addr, ok := h.parseAddrArg(c)
	if !ok {
		return nil
	}

	if h.debugger.GetBreakpoint(addr) == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveBreakpoint(addr)
	h.printf("Breakpoint at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointEnable(c cmd.Selection) error {
	return h.enableBreakpoint(c, true)
}

func (h *Host) cmdBreakpointDisable(c cmd.Selection) error {
	return h.enableBreakpoint(c, false)
}

func (h *Host) enableBreakpoint(c cmd.Selection, enable bool) error {
	addr, ok := h.parseAddrArg(c)
	if !ok {
		return nil
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	b.Disabled = !enable
	if enable {
		h.printf("Breakpoint at $%04X enabled.\n", addr)
	} else {
		h.printf("Breakpoint at $%04X disabled.\n", addr)
	}
	return nil
}

func (h *Host) cmdDataBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled  Value")
	h.println("----- -------  -----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		if b.Conditional {
			h.printf("$%04X %-5t    $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			h.printf("$%04X %-5t    <none>\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c cmd.Selection) error {
	addr, ok := h.parseAddrArg(c)
	if !ok {
		return nil
	}

	if len(c.Args) > 1 {
		value, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, byte(value))
		h.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, byte(value))
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%04X.\n", addr)
	}

	return nil
}

func (h *Host) cmdDataBreakpointRemove(c cmd.Selection) error {
	addr, ok := h.parseAddrArg(c)
	if !ok {
		return nil
	}

	if h.debugger.GetDataBreakpoint(addr) == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveDataBreakpoint(addr)
	h.printf("Data breakpoint at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdDataBreakpointEnable(c cmd.Selection) error {
	return h.enableDataBreakpoint(c, true)
}

func (h *Host) cmdDataBreakpointDisable(c cmd.Selection) error {
	return h.enableDataBreakpoint(c, false)
}

func (h *Host) enableDataBreakpoint(c cmd.Selection, enable bool) error {
	addr, ok := h.parseAddrArg(c)
	if !ok {
		return nil
	}

	b := h.debugger.GetDataBreakpoint(addr)
	if b == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	b.Disabled = !enable
	if enable {
		h.printf("Data breakpoint at $%04X enabled.\n", addr)
	} else {
		h.printf("Data breakpoint at $%04X disabled.\n", addr)
	}
	return nil
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextDisasmAddr
		if addr == 0 {
			addr = h.cpu.Reg.PC
		}

	case ".":
		addr = h.cpu.Reg.PC

	default:
		a, err := h.parseExpr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		l, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = int(l)
	}

	for i := 0; i < lines; i++ {
		d, next := h.disassemble(addr, 0)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	if h.lastCmd != nil {
		h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", lines)}
	}
	return nil
}

func (h *Host) cmdEvaluate(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	expr := strings.Join(c.Args, " ")
	v, err := h.parseExpr(expr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("$%04X\n", v)
	return nil
}

func (h *Host) cmdExecute(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	file, err := os.Open(c.Args[0])
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(c.Args[0]), err)
		return nil
	}
	defer file.Close()

	input, interactive, lastCmd := h.input, h.interactive, h.lastCmd
	h.input, h.interactive, h.lastCmd = bufio.NewScanner(file), false, nil
	err = h.processCommands()
	h.input, h.interactive, h.lastCmd = input, interactive, lastCmd
	return err
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.displayCommands(rootGroup)
		return nil
	}

	s, err := cmds.Lookup(strings.Join(c.Args, " "))
	if err == nil && s.Command != nil {
		cm := s.Command.Data.(*command)
		if cm.usage != "" {
			h.printf("Syntax: %s\n\n", cm.usage)
		}
		switch {
		case cm.description != "":
			h.printf("Description:\n%s\n\n", indentWrap(3, h.width, cm.description))
		case cm.brief != "":
			h.printf("Description:\n%s.\n\n", indentWrap(3, h.width, cm.brief))
		}
		return nil
	}

	if g, gerr := lookupGroup(c.Args[0]); gerr == nil {
		h.displayCommands(g)
		return nil
	}

	if err == nil {
		err = cmd.ErrNotFound
	}
	h.printf("%v\n", err)
	return nil
}

func (h *Host) cmdInstruction(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	variants := h.cpu.InstSet.Variants(c.Args[0])
	if len(variants) == 0 {
		h.printf("Unknown instruction '%s'.\n", c.Args[0])
		return nil
	}

	h.println("Mode  Opcode  Bytes")
	h.println("----  ------  -----")
	for _, inst := range variants {
		h.printf("%-4s  $%02X     %d\n", inst.Mode, inst.Opcode, inst.Length)
	}
	return nil
}

func (h *Host) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayUsage(c.Command)
		return nil
	}

	addr, err := h.parseExpr(c.Args[1])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if err := h.Load(c.Args[0], addr); err != nil {
		h.printf("%v\n", err)
	}
	return nil
}

// Load copies the contents of a raw binary file into memory starting at
// addr and moves the program counter to addr.
func (h *Host) Load(filename string, addr uint16) error {
	code, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to load '%s': %w", filepath.Base(filename), err)
	}
	if len(code) == 0 {
		return fmt.Errorf("file '%s' is empty", filepath.Base(filename))
	}
	if len(code) > 0x10000 {
		code = code[:0x10000]
	}

	h.cpu.Mem.StoreBytes(addr, code)
	h.printf("Loaded '%s' to $%04X..$%04X\n", filepath.Base(filename), addr, addr+uint16(len(code)-1))

	h.cpu.SetPC(addr)
	h.settings.NextDisasmAddr = addr
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextMemDumpAddr

	case ".":
		addr = h.cpu.Reg.PC

	default:
		a, err := h.parseExpr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := uint16(h.settings.MemDumpBytes)
	if len(c.Args) >= 2 {
		var err error
		bytes, err = h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + bytes
	if h.lastCmd != nil {
		h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", bytes)}
	}
	return nil
}

func (h *Host) cmdMemorySet(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayUsage(c.Command)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := make([]byte, 0, len(c.Args)-1)
	for _, arg := range c.Args[1:] {
		v, err := h.parseExpr(arg)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		b = append(b, byte(v))
	}

	h.cpu.Mem.StoreBytes(addr, b)
	h.dumpMemory(addr, uint16(len(b)))
	return nil
}

func (h *Host) cmdMemoryCopy(c cmd.Selection) error {
	if len(c.Args) < 3 {
		h.displayUsage(c.Command)
		return nil
	}

	var addr [3]uint16
	for i := range addr {
		a, err := h.parseExpr(c.Args[i])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr[i] = a
	}

	dst, src0, src1 := addr[0], addr[1], addr[2]
	if src1 < src0 {
		h.println("Source range is invalid.")
		return nil
	}

	b := make([]byte, int(src1-src0)+1)
	h.cpu.Mem.LoadBytes(src0, b)
	h.cpu.Mem.StoreBytes(dst, b)
	h.printf("Copied $%04X..$%04X to $%04X.\n", src0, src1, dst)
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return ErrQuit
}

func (h *Host) cmdRegister(c cmd.Selection) error {
	if len(c.Args) == 0 {
		d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
		h.println(d)
		return nil
	}
	if len(c.Args) == 1 {
		h.displayUsage(c.Command)
		return nil
	}

	r, err := lookupRegister(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	value := strings.Join(c.Args[1:], " ")
	var v int64
	if b, berr := stringToBool(value); r.size == 0 && berr == nil {
		v = boolToInt64(b)
	} else {
		v, err = h.exprParser.Parse(value, exprVars(&h.cpu.Reg))
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	r.set(&h.cpu.Reg, v)
	h.printf("Register %s set to %s.\n", r.name, r.format(&h.cpu.Reg))
	if r.name == "PC" {
		h.settings.NextDisasmAddr = h.cpu.Reg.PC
	}
	return nil
}

func (h *Host) cmdReset(c cmd.Selection) error {
	h.cpu.Reset(true)
	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	h.printf("CPU reset. PC=$%04X.\n", h.cpu.Reg.PC)
	h.displayPC()
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	if len(c.Args) > 0 {
		pc, err := h.parseExpr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.cpu.SetPC(pc)
	}

	h.printf("Running from $%04X. Press ctrl-C to break.\n", h.cpu.Reg.PC)

	start := h.cpu.Steps
	h.setState(stateRunning)
	for h.getState() == stateRunning {
		h.step()
		limit := h.settings.MaxRunSteps
		if limit > 0 && h.cpu.Steps-start >= uint64(limit) && h.getState() == stateRunning {
			h.printf("Stopped after %d steps.\n", limit)
			h.setState(stateProcessingCommands)
			h.displayPC()
		}
	}
	h.finishRunning()

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

func (h *Host) cmdScript(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return nil
	}

	if err := h.RunScript(c.Args[0]); err != nil {
		h.printf("%v\n", err)
	}
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayUsage(c.Command)

	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("setting '%s' not found", key)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			var v int64
			v, err = h.exprParser.Parse(value, exprVars(&h.cpu.Reg))
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}

		h.onSettingsUpdate()
	}

	return nil
}

func (h *Host) cmdStepIn(c cmd.Selection) error {
	return h.stepCommand(c, h.step)
}

func (h *Host) cmdStepOver(c cmd.Selection) error {
	return h.stepCommand(c, h.stepOver)
}

// Step until the current subroutine returns. Calls made along the way
// must return first, so JSR and BRK raise the depth and RTS and RTI lower
// it.
func (h *Host) cmdStepOut(c cmd.Selection) error {
	depth := 0
	h.setState(stateRunning)
	for h.getState() == stateRunning {
		name := h.cpu.GetInstruction(h.cpu.Reg.PC).Name
		steps := h.cpu.Steps
		h.step()
		if h.cpu.Steps == steps {
			continue
		}

		switch name {
		case "JSR", "BRK":
			depth++
		case "RTS", "RTI":
			depth--
		}
		if depth < 0 {
			h.displayPC()
			break
		}
	}
	h.finishRunning()

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

func (h *Host) stepCommand(c cmd.Selection, step func()) error {
	// Parse the number of steps.
	count := 1
	if len(c.Args) > 0 {
		n, err := h.parseExpr(c.Args[0])
		if err == nil {
			count = int(n)
		}
	}

	// Step the CPU count times.
	h.setState(stateRunning)
	for i := count - 1; i >= 0 && h.getState() == stateRunning; i-- {
		step()
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
	}
	h.finishRunning()

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

func (h *Host) finishRunning() {
	if h.getState() == stateInterrupted {
		h.println()
		h.displayPC()
	}
	h.setState(stateProcessingCommands)
}

// Step the CPU once. An unimplemented opcode is reported and stops any
// running command; the CPU state is left untouched.
func (h *Host) step() {
	err := h.cpu.Step()

	var ue *cpu.UnimplementedError
	if errors.As(err, &ue) {
		h.printf("Unimplemented opcode $%02X at $%04X.\n", ue.Opcode, ue.Addr)
		h.setState(stateBreakpoint)
		h.displayPC()
	}
}

func (h *Host) stepOver() {
	cpu := h.cpu

	// JSR instructions need to be handled specially.
	inst := cpu.GetInstruction(cpu.Reg.PC)
	if inst.Name != "JSR" {
		h.step()
		return
	}

	// Place a step-over breakpoint on the instruction following the JSR.
	// Either modify an already existing breakpoint on that instrution, or
	// create a temporary one.
	next := cpu.NextAddr(cpu.Reg.PC)
	tmpBreakpointCreated := false
	b := h.debugger.GetBreakpoint(next)
	if b == nil {
		b = h.debugger.AddBreakpoint(next)
		tmpBreakpointCreated = true
	}
	b.StepOver = true

	// Run until interrupted.
	for h.getState() == stateRunning {
		h.step()
	}
	b.StepOver = false

	// If we were interrupted by the temporary step-over breakpoint,
	// then continue as normal.
	h.state.CompareAndSwap(int32(stateStepOverBreakpoint), int32(stateRunning))

	// Remove the temporarily created breakpoint.
	if tmpBreakpointCreated {
		h.debugger.RemoveBreakpoint(next)
	}
}

func (h *Host) onSettingsUpdate() {
	h.exprParser.hexMode = h.settings.HexMode
	if h.settings.TrapBrk {
		h.cpu.AttachBrkHandler(h.handler)
	} else {
		h.cpu.AttachBrkHandler(nil)
	}
}

func (h *Host) parseAddrArg(c cmd.Selection) (uint16, bool) {
	if len(c.Args) < 1 {
		h.displayUsage(c.Command)
		return 0, false
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return 0, false
	}
	return addr, true
}

func (h *Host) parseExpr(expr string) (uint16, error) {
	v, err := h.exprParser.Parse(expr, exprVars(&h.cpu.Reg))
	if err != nil {
		return 0, err
	}

	if v < 0 {
		v = 0x10000 + v
	}
	return uint16(v), nil
}

func (h *Host) disassemble(addr uint16, flags displayFlags) (str string, next uint16) {
	cpu := h.cpu

	var line string
	line, next = disasm.Disassemble(cpu.Mem, cpu.InstSet, addr)

	l := next - addr
	b := make([]byte, l)
	cpu.Mem.LoadBytes(addr, b)

	str = fmt.Sprintf("%04X-   %-8s    %-15s", addr, codeString(b), line)

	if (flags & displayRegisters) != 0 {
		str += " " + disasm.RegisterString(&cpu.Reg)
	}

	if (flags & displaySteps) != 0 {
		str += fmt.Sprintf(" S=%d", cpu.Steps)
	}

	return strings.TrimRight(str, " "), next
}

func (h *Host) dumpMemory(addr0, bytes uint16) {
	if bytes == 0 {
		return
	}

	addr1 := addr0 + bytes - 1
	if addr1 < addr0 {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := uint32(addr0), 6, 32; a <= uint32(addr1); a, c1, c2 = a+1, c1+3, c2+1 {
			m := h.cpu.Mem.LoadByte(uint16(a))
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := (uint32(addr1) + 8) & 0xffff8
	if stop > 0x10000 {
		stop = 0x10000
	}

	a := start
	for r := start; r < stop; r += 8 {
		addrToBuf(uint16(a), buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= uint32(addr0) && a <= uint32(addr1) {
				m := h.cpu.Mem.LoadByte(uint16(a))
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) displayUsage(c *cmd.Command) {
	if cm, ok := c.Data.(*command); ok && cm.usage != "" {
		h.printf("Syntax: %s\n", cm.usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayCommands(g *commandGroup) {
	type entry struct{ name, brief string }

	var entries []entry
	for _, c := range g.commands {
		if c.brief != "" {
			entries = append(entries, entry{c.name, c.brief})
		}
	}
	if g == rootGroup {
		for _, sub := range groupOrder {
			entries = append(entries, entry{sub.name, sub.brief})
		}
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return strings.Compare(a.name, b.name)
	})

	h.printf("%s commands:\n", g.name)
	for _, e := range entries {
		h.printf("    %-22s  %s\n", e.name, e.brief)
	}
}

func (h *Host) onBrk(cpu *cpu.CPU) {
	h.printf("BRK encountered at $%04X.\n", cpu.Reg.PC)
	h.setState(stateBreakpoint)
	h.displayPC()
}

func (h *Host) onBreakpoint(cpu *cpu.CPU, b *cpu.Breakpoint) {
	if b.StepOver {
		h.setState(stateStepOverBreakpoint)
	} else {
		h.setState(stateBreakpoint)
		h.printf("Breakpoint hit at $%04X.\n", b.Address)
		h.displayPC()
	}
}

func (h *Host) onDataBreakpoint(cpu *cpu.CPU, b *cpu.DataBreakpoint) {
	h.printf("Data breakpoint hit on address $%04X.\n", b.Address)

	h.setState(stateBreakpoint)

	if cpu.LastPC != cpu.Reg.PC {
		d, _ := h.disassemble(cpu.LastPC, displayAll)
		h.println(d)
	}

	h.displayPC()
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
