// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/prefixtree/v2"
)

// A command is the data attached to every leaf of the host's command tree.
type command struct {
	name        string // full command path, e.g. "breakpoint add"
	brief       string
	description string
	usage       string
	run         func(h *Host, c cmd.Selection) error
}

// A commandGroup describes a subtree of related commands for the help
// listing.
type commandGroup struct {
	name     string
	brief    string
	commands []*command
}

var (
	cmds       *cmd.Tree
	rootGroup  = &commandGroup{name: "go6502"}
	groupTree  = prefixtree.New[*commandGroup]()
	groupOrder []*commandGroup
)

type tree struct {
	t     *cmd.Tree
	group *commandGroup
}

func (t tree) add(name, brief, description, usage string, run func(*Host, cmd.Selection) error) {
	c := &command{
		name:        name,
		brief:       brief,
		description: description,
		usage:       usage,
		run:         run,
	}
	if t.group != rootGroup {
		c.name = t.group.name + " " + name
	}
	t.group.commands = append(t.group.commands, c)
	t.t.AddCommand(cmd.CommandDescriptor{
		Name:        name,
		Brief:       brief,
		Description: description,
		Usage:       usage,
		Data:        c,
	})
}

func (t tree) subtree(name, brief string) tree {
	g := &commandGroup{name: name, brief: brief}
	groupTree.Add(name, g)
	groupOrder = append(groupOrder, g)
	return tree{
		t:     t.t.AddSubtree(cmd.TreeDescriptor{Name: name, Brief: brief}),
		group: g,
	}
}

func lookupGroup(name string) (*commandGroup, error) {
	return groupTree.FindValue(strings.ToLower(name))
}

func init() {
	root := tree{
		t:     cmd.NewTree(cmd.TreeDescriptor{Name: "go6502"}),
		group: rootGroup,
	}

	root.add("help", "",
		"Display help for a command.",
		"help [<command>]",
		(*Host).cmdHelp)

	// Breakpoint commands
	bp := root.subtree("breakpoint", "Breakpoint commands")
	bp.add("list", "List breakpoints",
		"List all current breakpoints.",
		"breakpoint list",
		(*Host).cmdBreakpointList)
	bp.add("add", "Add a breakpoint",
		"Add a breakpoint at the specified address."+
			" The breakpoints starts enabled.",
		"breakpoint add <address>",
		(*Host).cmdBreakpointAdd)
	bp.add("remove", "Remove a breakpoint",
		"Remove a breakpoint at the specified address.",
		"breakpoint remove <address>",
		(*Host).cmdBreakpointRemove)
	bp.add("enable", "Enable a breakpoint",
		"Enable a previously added breakpoint.",
		"breakpoint enable <address>",
		(*Host).cmdBreakpointEnable)
	bp.add("disable", "Disable a breakpoint",
		"Disable a previously added breakpoint. This"+
			" prevents the breakpoint from being hit when running the"+
			" CPU.",
		"breakpoint disable <address>",
		(*Host).cmdBreakpointDisable)

	// Data breakpoint commands
	db := root.subtree("databreakpoint", "Data breakpoint commands")
	db.add("list", "List data breakpoints",
		"List all current data breakpoints.",
		"databreakpoint list",
		(*Host).cmdDataBreakpointList)
	db.add("add", "Add a data breakpoint",
		"Add a new data breakpoint at the specified"+
			" memory address. When the CPU stores data at this address, the"+
			" breakpoint will stop the CPU. Optionally, a byte"+
			" value may be specified, and the CPU will stop only"+
			" when this value is stored. The data breakpoint starts"+
			" enabled.",
		"databreakpoint add <address> [<value>]",
		(*Host).cmdDataBreakpointAdd)
	db.add("remove", "Remove a data breakpoint",
		"Remove a previously added data breakpoint at"+
			" the specified memory address.",
		"databreakpoint remove <address>",
		(*Host).cmdDataBreakpointRemove)
	db.add("enable", "Enable a data breakpoint",
		"Enable a previously added data breakpoint.",
		"databreakpoint enable <address>",
		(*Host).cmdDataBreakpointEnable)
	db.add("disable", "Disable a data breakpoint",
		"Disable a previously added data breakpoint.",
		"databreakpoint disable <address>",
		(*Host).cmdDataBreakpointDisable)

	root.add("disassemble", "Disassemble code",
		"Disassemble machine code starting at the requested"+
			" address. The number of instruction lines to disassemble may be"+
			" specified as an option. If no address is specified, the"+
			" disassembly continues from where the last disassembly left off.",
		"disassemble [<address>] [<lines>]",
		(*Host).cmdDisassemble)
	root.add("evaluate", "Evaluate an expression",
		"Evaluate an integer expression. Hexadecimal numbers are written"+
			" with a $ prefix, binary numbers with a % prefix, and the"+
			" registers A, X, Y, SP and PC may be used by name.",
		"evaluate <expression>",
		(*Host).cmdEvaluate)
	root.add("execute", "Execute a go6502 command file",
		"Load a file of host commands from disk and execute the"+
			" commands it contains.",
		"execute <filename>",
		(*Host).cmdExecute)
	root.add("instruction", "List the addressing modes of an instruction",
		"Display every opcode of the named instruction mnemonic along"+
			" with its addressing mode and length in bytes.",
		"instruction <mnemonic>",
		(*Host).cmdInstruction)
	root.add("load", "Load a binary file",
		"Load the contents of a raw binary file into the emulated"+
			" system's memory at the specified address, and move the"+
			" program counter to that address. Data past $FFFF wraps"+
			" around to $0000.",
		"load <filename> <address>",
		(*Host).cmdLoad)

	// Memory commands
	me := root.subtree("memory", "Memory commands")
	me.add("dump", "Dump memory at address",
		"Dump the contents of memory starting from the"+
			" specified address. The number of bytes to dump may be"+
			" specified as an option. If no address is specified, the"+
			" memory dump continues from where the last dump left off.",
		"memory dump [<address>] [<bytes>]",
		(*Host).cmdMemoryDump)
	me.add("set", "Set memory at address",
		"Set the contents of memory starting from the specified"+
			" address. The values to assign should be a series of"+
			" space-separated byte values. You may use an expression for each"+
			" byte value.",
		"memory set <address> <byte> [<byte> ...]",
		(*Host).cmdMemorySet)
	me.add("copy", "Copy memory",
		"Copy memory from one range of addresses to another. You"+
			" must specify the destination address, the first byte of the source"+
			" address, and the last byte of the source address.",
		"memory copy <dst addr> <src addr begin> <src addr end>",
		(*Host).cmdMemoryCopy)

	root.add("quit", "Quit the program",
		"Quit the program.",
		"quit",
		(*Host).cmdQuit)
	root.add("register", "View or change register values",
		"When used without arguments, this command displays the current"+
			" contents of the CPU registers. When used with arguments, this"+
			" command changes the value of a register or one of the CPU's status"+
			" flags. Allowed register names include A, X, Y, PC, SP and PS. Allowed"+
			" status flag names include N (Negative), V (Overflow), B (Break),"+
			" D (Decimal), I (InterruptDisable), Z (Zero) and C (Carry).",
		"register [<name> <value>]",
		(*Host).cmdRegister)
	root.add("reset", "Reset the CPU",
		"Reinitialize the CPU registers. The program counter is loaded"+
			" from the reset vector at $FFFC. Memory is left untouched.",
		"reset",
		(*Host).cmdReset)
	root.add("run", "Run the CPU",
		"Run the CPU until a breakpoint is hit, an unimplemented opcode"+
			" is reached, or the user types Ctrl-C. If an address is"+
			" given, the program counter is moved there first.",
		"run [<address>]",
		(*Host).cmdRun)
	root.add("script", "Run a Lua script",
		"Load a Lua script from disk and run it against the emulated"+
			" system. Scripts may call peek, poke, reg, setreg, step, load"+
			" and print.",
		"script <filename>",
		(*Host).cmdScript)
	root.add("set", "Set a configuration variable",
		"Set the value of a configuration variable. To see the"+
			" current values of all configuration variables, type set"+
			" without any arguments.",
		"set [<var> <value>]",
		(*Host).cmdSet)

	// Step commands
	st := root.subtree("step", "Step the debugger")
	st.add("in", "Step into next instruction",
		"Step the CPU by a single instruction. If the"+
			" instruction is a subroutine call, step into the subroutine."+
			" The number of steps may be specified as an option.",
		"step in [<count>]",
		(*Host).cmdStepIn)
	st.add("over", "Step over next instruction",
		"Step the CPU by a single instruction. If the"+
			" instruction is a subroutine call, step over the subroutine."+
			" The number of steps may be specified as an option.",
		"step over [<count>]",
		(*Host).cmdStepOver)
	st.add("out", "Step out of the current subroutine",
		"Step the CPU until it executes an RTS or RTI instruction."+
			" This has the effect of stepping until the currently"+
			" running subroutine has returned.",
		"step out",
		(*Host).cmdStepOut)

	// Add command shortcuts.
	r := root.t
	r.AddShortcut("b", "breakpoint")
	r.AddShortcut("bp", "breakpoint")
	r.AddShortcut("ba", "breakpoint add")
	r.AddShortcut("br", "breakpoint remove")
	r.AddShortcut("bl", "breakpoint list")
	r.AddShortcut("be", "breakpoint enable")
	r.AddShortcut("bd", "breakpoint disable")
	r.AddShortcut("d", "disassemble")
	r.AddShortcut("db", "databreakpoint")
	r.AddShortcut("dbp", "databreakpoint")
	r.AddShortcut("dbl", "databreakpoint list")
	r.AddShortcut("dba", "databreakpoint add")
	r.AddShortcut("dbr", "databreakpoint remove")
	r.AddShortcut("dbe", "databreakpoint enable")
	r.AddShortcut("dbd", "databreakpoint disable")
	r.AddShortcut("e", "evaluate")
	r.AddShortcut("i", "instruction")
	r.AddShortcut("m", "memory dump")
	r.AddShortcut("mc", "memory copy")
	r.AddShortcut("ms", "memory set")
	r.AddShortcut("r", "register")
	r.AddShortcut("s", "step over")
	r.AddShortcut("si", "step in")
	r.AddShortcut("so", "step out")
	r.AddShortcut("?", "help")
	r.AddShortcut(".", "register")

	cmds = r
}
