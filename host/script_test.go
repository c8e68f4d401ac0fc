// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScriptString(t *testing.T, h *Host, src string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	h.SetOutput(&out)

	L := h.newScriptState()
	defer L.Close()
	err := L.DoString(src)
	return out.String(), err
}

func TestScriptStep(t *testing.T) {
	h := New()
	out, err := runScriptString(t, h, `
		poke(0x0200, 0xa2)
		poke(0x0201, 0x05)
		poke(0x0202, 0xff)
		setreg("pc", 0x0200)
		local n, op = step(10)
		print(n, op, reg("x"), reg("z"), reg("pc"))
		n, op = step()
		print(n, op)
	`)
	require.NoError(t, err)

	assert.Equal(t, "1\t255\t5\tfalse\t514\n0\t255\n", out)
	assert.Equal(t, uint16(0x0202), h.cpu.Reg.PC)
	assert.Equal(t, stateProcessingCommands, h.getState())
}

func TestScriptLoadAndRegisters(t *testing.T) {
	h := New()
	out, err := runScriptString(t, h, `
		print(load("a9 00 aa", 0x0300))
		setreg("pc", 0x0300)
		setreg("carry", true)
		local n, op = step(2)
		print(n, op, reg("a"), reg("x"), reg("zero"), reg("c"), peek(0x0302))
	`)
	require.NoError(t, err)

	assert.Equal(t, "3\n2\tnil\t0\t0\ttrue\ttrue\t170\n", out)
	assert.True(t, h.cpu.Reg.Zero)
}

func TestScriptErrors(t *testing.T) {
	h := New()

	_, err := runScriptString(t, h, `reg("q")`)
	assert.Error(t, err)

	_, err = runScriptString(t, h, `load("xyz", 0)`)
	assert.Error(t, err)

	_, err = runScriptString(t, h, `setreg("a", "hello")`)
	assert.Error(t, err)
}

func TestScriptCommand(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "test.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
		poke(0x10, 0x42)
		print("peeked", peek(0x10))
	`), 0o644))

	h := New()
	out := runHost(t, h, "script "+script)
	assert.Contains(t, out, "peeked\t66")
	assert.Equal(t, byte(0x42), h.mem.LoadByte(0x10))

	out = runHost(t, h, "script "+filepath.Join(dir, "missing.lua"))
	assert.Contains(t, out, "missing.lua")
}
