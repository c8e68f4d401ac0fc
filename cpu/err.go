// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"errors"

	"github.com/step6502/go6502/internal/translate"
)

var f = translate.From

// Errors
var (
	ErrUnimplemented = errors.New(f("unimplemented opcode"))
)

// UnimplementedError is returned by Step when the byte at the program
// counter is not a recognized opcode. The CPU state is left exactly as it
// was before the step.
type UnimplementedError struct {
	Opcode byte   // offending opcode byte
	Addr   uint16 // address the opcode was fetched from
}

func (e *UnimplementedError) Error() string {
	return f("unimplemented opcode $%02X at $%04X", e.Opcode, e.Addr)
}

// Is reports whether target is ErrUnimplemented.
func (e *UnimplementedError) Is(target error) bool {
	return target == ErrUnimplemented
}
