// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/step6502/go6502/cpu"
)

// RunScript runs the Lua script in filename against the host. The script
// sees the emulated machine through a small set of global functions.
func (h *Host) RunScript(filename string) error {
	L := h.newScriptState()
	defer L.Close()
	return L.DoFile(filename)
}

func (h *Host) newScriptState() *lua.LState {
	L := lua.NewState()
	for name, fn := range map[string]lua.LGFunction{
		"peek":   h.luaPeek,
		"poke":   h.luaPoke,
		"reg":    h.luaReg,
		"setreg": h.luaSetReg,
		"step":   h.luaStep,
		"load":   h.luaLoad,
		"print":  h.luaPrint,
	} {
		L.SetGlobal(name, L.NewFunction(fn))
	}
	return L
}

// peek(addr) returns the byte stored at addr.
func (h *Host) luaPeek(L *lua.LState) int {
	addr := uint16(L.CheckInt(1))
	L.Push(lua.LNumber(h.cpu.Mem.LoadByte(addr)))
	return 1
}

// poke(addr, v) stores the byte v at addr.
func (h *Host) luaPoke(L *lua.LState) int {
	addr := uint16(L.CheckInt(1))
	v := byte(L.CheckInt(2))
	h.cpu.Mem.StoreByte(addr, v)
	return 0
}

// reg(name) returns a register value, or a boolean for a status flag.
func (h *Host) luaReg(L *lua.LState) int {
	r, err := lookupRegister(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}

	v := r.get(&h.cpu.Reg)
	if r.size == 0 {
		L.Push(lua.LBool(v != 0))
	} else {
		L.Push(lua.LNumber(v))
	}
	return 1
}

// setreg(name, v) assigns a register or status flag.
func (h *Host) luaSetReg(L *lua.LState) int {
	r, err := lookupRegister(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}

	var v int64
	switch lv := L.Get(2).(type) {
	case lua.LBool:
		v = boolToInt64(bool(lv))
	case lua.LNumber:
		v = int64(lv)
	default:
		L.ArgError(2, "number or boolean expected")
		return 0
	}
	r.set(&h.cpu.Reg, v)
	return 0
}

// step([n]) executes up to n instructions (default 1). It returns the
// number of instructions executed and, if execution stopped at an
// unimplemented opcode, that opcode; otherwise nil.
func (h *Host) luaStep(L *lua.LState) int {
	count := L.OptInt(1, 1)

	start := h.cpu.Steps
	var ue *cpu.UnimplementedError

	h.setState(stateRunning)
	for i := 0; i < count && h.getState() == stateRunning; i++ {
		if err := h.cpu.Step(); err != nil {
			if !errors.As(err, &ue) {
				L.RaiseError("%v", err)
			}
			break
		}
	}
	h.finishRunning()

	L.Push(lua.LNumber(h.cpu.Steps - start))
	if ue != nil {
		L.Push(lua.LNumber(ue.Opcode))
	} else {
		L.Push(lua.LNil)
	}
	return 2
}

// load(hexstring, addr) stores the decoded bytes at addr and returns the
// number of bytes stored.
func (h *Host) luaLoad(L *lua.LState) int {
	s := strings.Join(strings.Fields(L.CheckString(1)), "")
	addr := uint16(L.CheckInt(2))

	b, err := hex.DecodeString(s)
	if err != nil {
		L.ArgError(1, fmt.Sprintf("invalid hex string: %v", err))
		return 0
	}

	h.cpu.Mem.StoreBytes(addr, b)
	L.Push(lua.LNumber(len(b)))
	return 1
}

// print(...) writes its arguments to the host output, separated by tabs.
func (h *Host) luaPrint(L *lua.LState) int {
	top := L.GetTop()
	args := make([]string, 0, top)
	for i := 1; i <= top; i++ {
		args = append(args, L.ToStringMeta(L.Get(i)).String())
	}
	h.println(strings.Join(args, "\t"))
	return 0
}
