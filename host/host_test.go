// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/step6502/go6502/internal/translate"
)

func TestMain(m *testing.M) {
	translate.SetLanguage(language.AmericanEnglish)
	os.Exit(m.Run())
}

func runHost(t *testing.T, h *Host, commands ...string) string {
	t.Helper()
	var out bytes.Buffer
	err := h.RunCommands(strings.NewReader(strings.Join(commands, "\n")+"\n"), &out, false)
	require.NoError(t, err)
	return out.String()
}

func TestStepIn(t *testing.T) {
	h := New()
	runHost(t, h,
		"memory set $1000 $a9 $05 $aa",
		"register pc $1000",
		"step in 2",
	)

	assert.Equal(t, byte(0x05), h.cpu.Reg.A)
	assert.Equal(t, byte(0x05), h.cpu.Reg.X)
	assert.Equal(t, uint16(0x1003), h.cpu.Reg.PC)
	assert.Equal(t, uint64(2), h.cpu.Steps)
}

func TestRunUnimplemented(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $0200 $a2 $05 $ff",
		"run $0200",
	)

	assert.Contains(t, out, "Running from $0200.")
	assert.Contains(t, out, "Unimplemented opcode $FF at $0202.")
	assert.Equal(t, uint16(0x0202), h.cpu.Reg.PC)
	assert.Equal(t, byte(0x05), h.cpu.Reg.X)
	assert.Equal(t, stateProcessingCommands, h.getState())
}

func TestRunStopsAtBrk(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $0200 $ea $00",
		"run $0200",
	)
	assert.Contains(t, out, "BRK encountered at $0201.")
	assert.Equal(t, uint16(0x0201), h.cpu.Reg.PC)

	// With the trap disabled, BRK goes through the vector at $FFFE.
	out = runHost(t, h,
		"set trapbrk false",
		"memory set $fffe $00 $03",
		"memory set $0300 $ff",
		"run",
	)
	assert.Contains(t, out, "Unimplemented opcode $FF at $0300.")
	assert.Equal(t, byte(0xfc), h.cpu.Reg.SP)
}

func TestRunStepLimit(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"set maxrunsteps 10",
		"memory set $0200 $4c $00 $02",
		"run $0200",
	)
	assert.Contains(t, out, "Stopped after 10 steps.")
	assert.Equal(t, uint64(10), h.cpu.Steps)
}

func TestBreakpoints(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $0200 $a2 $01 $e8 $e8 $ff",
		"breakpoint add $0203",
		"breakpoint list",
		"run $0200",
	)

	assert.Contains(t, out, "Breakpoint added at $0203.")
	assert.Contains(t, out, "$0203 true")
	assert.Contains(t, out, "Breakpoint hit at $0203.")
	assert.Equal(t, uint16(0x0203), h.cpu.Reg.PC)
	assert.Equal(t, byte(0x02), h.cpu.Reg.X)

	out = runHost(t, h,
		"breakpoint disable $0203",
		"run $0200",
	)
	assert.Contains(t, out, "Breakpoint at $0203 disabled.")
	assert.Contains(t, out, "Unimplemented opcode $FF at $0204.")

	out = runHost(t, h,
		"breakpoint remove $0203",
		"breakpoint remove $0203",
	)
	assert.Contains(t, out, "Breakpoint at $0203 removed.")
	assert.Contains(t, out, "No breakpoint was set on $0203.")
}

func TestDataBreakpoints(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $0200 $a9 $01 $85 $10 $a9 $02 $85 $10 $ff",
		"databreakpoint add $10 2",
		"databreakpoint list",
		"run $0200",
	)

	assert.Contains(t, out, "Conditional data breakpoint added at $0010 for value $02.")
	assert.Contains(t, out, "$0010 true     $02")
	assert.Contains(t, out, "Data breakpoint hit on address $0010.")
	assert.Equal(t, uint16(0x0208), h.cpu.Reg.PC)
	assert.Equal(t, byte(0x02), h.mem.LoadByte(0x0010))
}

func TestStepOver(t *testing.T) {
	h := New()
	runHost(t, h,
		"memory set $0200 $20 $00 $03 $ea",
		"memory set $0300 $e8 $e8 $60",
		"register pc $0200",
		"step over",
	)

	assert.Equal(t, uint16(0x0203), h.cpu.Reg.PC)
	assert.Equal(t, byte(0x02), h.cpu.Reg.X)
	assert.Equal(t, byte(0xff), h.cpu.Reg.SP)
	assert.Nil(t, h.debugger.GetBreakpoint(0x0203))

	runHost(t, h, "step over")
	assert.Equal(t, uint16(0x0204), h.cpu.Reg.PC)
}

func TestStepOut(t *testing.T) {
	h := New()
	runHost(t, h,
		"memory set $0200 $20 $00 $03 $ea",
		"memory set $0300 $e8 $e8 $60",
		"register pc $0200",
		"step in",
		"step out",
	)

	assert.Equal(t, uint16(0x0203), h.cpu.Reg.PC)
	assert.Equal(t, byte(0x02), h.cpu.Reg.X)
	assert.Equal(t, byte(0xff), h.cpu.Reg.SP)
}

func TestStepOutNested(t *testing.T) {
	h := New()
	runHost(t, h,
		"memory set $0200 $20 $00 $03 $ea",
		"memory set $0300 $20 $00 $04 $e8 $60",
		"memory set $0400 $c8 $60",
		"register pc $0200",
		"step in",
		"step out",
	)

	assert.Equal(t, uint16(0x0203), h.cpu.Reg.PC)
	assert.Equal(t, byte(0x01), h.cpu.Reg.X)
	assert.Equal(t, byte(0x01), h.cpu.Reg.Y)
	assert.Equal(t, byte(0xff), h.cpu.Reg.SP)
}

func TestRegisterCommand(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"register a $42",
		"register c true",
		"register sp $80",
		"register q 1",
		"register",
	)

	assert.Contains(t, out, "Register A set to $42.")
	assert.Contains(t, out, "Register Carry set to true.")
	assert.Contains(t, out, "unknown register 'q'")
	assert.Contains(t, out, "A=42 X=00 Y=00 PS=[--1B-I-C] SP=80 PC=0000")
	assert.True(t, h.cpu.Reg.Carry)
	assert.Equal(t, byte(0x80), h.cpu.Reg.SP)
}

func TestReset(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $fffc $00 $c0",
		"register a $12",
		"reset",
	)

	assert.Contains(t, out, "CPU reset. PC=$C000.")
	assert.Equal(t, uint16(0xc000), h.cpu.Reg.PC)
	assert.Equal(t, byte(0), h.cpu.Reg.A)
	assert.Equal(t, byte(0x34), h.cpu.Reg.PS())
}

func TestMemoryCommands(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $2000 1 2 3",
		"memory copy $3000 $2000 $2002",
		"memory dump $3000 3",
		"memory copy $3000 $2002 $2000",
	)

	assert.Contains(t, out, "Copied $2000..$2002 to $3000.")
	assert.Contains(t, out, "3000- 01 02 03")
	assert.Contains(t, out, "Source range is invalid.")
	assert.Equal(t, byte(3), h.mem.LoadByte(0x3002))
}

func TestDisassembleCommand(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $0400 $a9 $5e $8d $00 $15 $d0 $fc",
		"disassemble $0400 3",
	)

	assert.Contains(t, out, "0400-   A9 5E       LDA #$5E")
	assert.Contains(t, out, "0402-   8D 00 15    STA $1500")
	assert.Contains(t, out, "0405-   D0 FC       BNE $0403")
	assert.Equal(t, uint16(0x0407), h.settings.NextDisasmAddr)
}

func TestEvaluateCommand(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"evaluate $10 + 1",
		"register x 3",
		"evaluate x * 2",
		"set hexmode true",
		"evaluate 10",
		"evaluate 1 +",
	)

	assert.Contains(t, out, "$0011")
	assert.Contains(t, out, "$0006")
	assert.Contains(t, out, "$0010")
	assert.True(t, h.settings.HexMode)
}

func TestSetCommand(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"set memdumpbytes 16",
		"set bogus 1",
		"set",
	)

	assert.Contains(t, out, "Setting updated.")
	assert.Contains(t, out, "setting 'bogus' not found")
	assert.Contains(t, out, "MemDumpBytes")
	assert.Equal(t, 16, h.settings.MemDumpBytes)
}

func TestHelpAndErrors(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"help",
		"help run",
		"help breakpoint",
		"frobnicate",
	)

	assert.Contains(t, out, "go6502 commands:")
	assert.Contains(t, out, "Syntax: run [<address>]")
	assert.Contains(t, out, "breakpoint commands:")
	assert.Contains(t, out, "breakpoint add")
	assert.Contains(t, out, "Command not found.")
}

func TestInstructionCommand(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"instruction jmp",
		"instruction xyz",
	)

	assert.Contains(t, out, "ABS   $4C     3\n")
	assert.Contains(t, out, "IND   $6C     3\n")
	assert.Contains(t, out, "Unknown instruction 'xyz'.")
}

func TestQuit(t *testing.T) {
	h := New()
	var out bytes.Buffer
	err := h.RunCommands(strings.NewReader("quit\nregister a 1\n"), &out, false)
	assert.ErrorIs(t, err, ErrQuit)
	assert.Equal(t, byte(0), h.cpu.Reg.A)
}

func TestLoadAndExecute(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "prog.bin")
	require.NoError(t, os.WriteFile(bin, []byte{0xa2, 0x05, 0xff}, 0o644))

	cmdFile := filepath.Join(dir, "setup.cmd")
	require.NoError(t, os.WriteFile(cmdFile, []byte("memory set $10 $ff\nload "+bin+" $0400\n"), 0o644))

	h := New()
	out := runHost(t, h,
		"execute "+cmdFile,
		"run",
	)

	assert.Contains(t, out, "Loaded 'prog.bin' to $0400..$0402")
	assert.Contains(t, out, "Unimplemented opcode $FF at $0402.")
	assert.Equal(t, byte(0xff), h.mem.LoadByte(0x0010))
	assert.Equal(t, byte(0x05), h.cpu.Reg.X)

	out = runHost(t, h, "load "+filepath.Join(dir, "missing.bin")+" $0400")
	assert.Contains(t, out, "failed to load 'missing.bin'")
}

func TestBreak(t *testing.T) {
	h := New()
	h.setState(stateRunning)
	h.Break()
	assert.Equal(t, stateInterrupted, h.getState())
	h.finishRunning()
	assert.Equal(t, stateProcessingCommands, h.getState())
}
