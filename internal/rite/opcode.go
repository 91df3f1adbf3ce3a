package rite

import "fmt"

// Opcode is the 7 bit operation selector in the low bits of an instruction
// word.
type Opcode uint8

// Instruction set of the RITE VM, in table order.
const (
	OpNop Opcode = iota
	OpMove
	OpLoadL
	OpLoadI
	OpLoadSym
	OpLoadNil
	OpLoadSelf
	OpLoadT
	OpLoadF
	OpGetGlobal
	OpSetGlobal
	OpGetSpecial
	OpSetSpecial
	OpGetIV
	OpSetIV
	OpGetCV
	OpSetCV
	OpGetConst
	OpSetConst
	OpGetMCnst
	OpSetMCnst
	OpGetUpvar
	OpSetUpvar
	OpJmp
	OpJmpIf
	OpJmpNot
	OpOnErr
	OpRescue
	OpPopErr
	OpRaise
	OpEPush
	OpEPop
	OpSend
	OpSendB
	OpFSend
	OpCall
	OpSuper
	OpArgAry
	OpEnter
	OpKArg
	OpKDict
	OpReturn
	OpTailCall
	OpBlkPush
	OpAdd
	OpAddI
	OpSub
	OpSubI
	OpMul
	OpDiv
	OpEQ
	OpLT
	OpLE
	OpGT
	OpGE
	OpArray
	OpAryCat
	OpAryPush
	OpARef
	OpASet
	OpAPost
	OpString
	OpStrCat
	OpHash
	OpLambda
	OpRange
	OpOClass
	OpClass
	OpModule
	OpExec
	OpMethod
	OpSClass
	OpTClass
	OpDebug
	OpStop
	OpErr

	// NumOpcodes is the size of the opcode table. Opcodes at or above it
	// render through the fallback.
	NumOpcodes int = iota
)

// Layout names the operand fields an opcode uses.
type Layout uint8

const (
	LayoutZ    Layout = iota // no operands
	LayoutA                  // A
	LayoutAB                 // A B
	LayoutABC                // A B C
	LayoutAC                 // A C
	LayoutABx                // A Bx
	LayoutAsBx               // A sBx
	LayoutSBx                // sBx
	LayoutBx                 // Bx
	LayoutAx                 // 25 bit argument spec
	LayoutABa                // A and a packed block argument spec
	LayoutAbc                // A b c (lambda)
)

// Ref names the operand that indexes one of the enclosing block's tables.
type Ref uint8

const (
	RefNone   Ref = iota
	RefSymB       // B indexes the symbol table
	RefSymBx      // Bx indexes the symbol table
	RefPoolBx     // Bx indexes the literal pool
	RefIrepBx     // Bx selects a child block
	RefIrepB      // b selects a child block
)

type opInfo struct {
	name   string
	layout Layout
	ref    Ref
	render func(o Operands) string
}

func plain(name string) opInfo {
	return opInfo{name, LayoutZ, RefNone, func(Operands) string { return name }}
}

func reg(name string) opInfo {
	return opInfo{name, LayoutA, RefNone, func(o Operands) string {
		return fmt.Sprintf("%s\tR%d", name, o.A)
	}}
}

func num(name string) opInfo {
	return opInfo{name, LayoutA, RefNone, func(o Operands) string {
		return fmt.Sprintf("%s\t%d", name, o.A)
	}}
}

func regReg(name string) opInfo {
	return opInfo{name, LayoutAB, RefNone, func(o Operands) string {
		return fmt.Sprintf("%s\tR%d\tR%d", name, o.A, o.B)
	}}
}

func regRegN(name string) opInfo {
	return opInfo{name, LayoutABC, RefNone, func(o Operands) string {
		return fmt.Sprintf("%s\tR%d\tR%d\t%d", name, o.A, o.B, o.C)
	}}
}

func regNN(name string) opInfo {
	return opInfo{name, LayoutABC, RefNone, func(o Operands) string {
		return fmt.Sprintf("%s\tR%d\t%d\t%d", name, o.A, o.B, o.C)
	}}
}

func regSym(name string) opInfo {
	return opInfo{name, LayoutABx, RefSymBx, func(o Operands) string {
		return fmt.Sprintf("%s\tR%d\t:%d", name, o.A, o.Bx)
	}}
}

func symReg(name string) opInfo {
	return opInfo{name, LayoutABx, RefSymBx, func(o Operands) string {
		return fmt.Sprintf("%s\t:%d\tR%d", name, o.Bx, o.A)
	}}
}

func regSymB(name string) opInfo {
	return opInfo{name, LayoutAB, RefSymB, func(o Operands) string {
		return fmt.Sprintf("%s\tR%d\t:%d", name, o.A, o.B)
	}}
}

func call(name string) opInfo {
	return opInfo{name, LayoutABC, RefSymB, func(o Operands) string {
		return fmt.Sprintf("%s\tR%d\t:%d\t%d", name, o.A, o.B, o.C)
	}}
}

func argSpec(name string) opInfo {
	return opInfo{name, LayoutABa, RefNone, func(o Operands) string {
		return fmt.Sprintf("%s\tR%d\t%s", name, o.A, o.Ba())
	}}
}

// opcodes is indexed by Opcode and never modified.
var opcodes = [NumOpcodes]opInfo{
	OpNop:  plain("OP_NOP"),
	OpMove: regReg("OP_MOVE"),
	OpLoadL: {"OP_LOADL", LayoutABx, RefPoolBx, func(o Operands) string {
		return fmt.Sprintf("OP_LOADL\tR%d\tL(%d)", o.A, o.Bx)
	}},
	OpLoadI: {"OP_LOADI", LayoutAsBx, RefNone, func(o Operands) string {
		return fmt.Sprintf("OP_LOADI\tR%d\t%d", o.A, o.SBx)
	}},
	OpLoadSym:    regSym("OP_LOADSYM"),
	OpLoadNil:    reg("OP_LOADNIL"),
	OpLoadSelf:   reg("OP_LOADSELF"),
	OpLoadT:      reg("OP_LOADT"),
	OpLoadF:      reg("OP_LOADF"),
	OpGetGlobal:  regSym("OP_GETGLOBAL"),
	OpSetGlobal:  symReg("OP_SETGLOBAL"),
	OpGetSpecial: regSym("OP_GETSPECIAL"),
	OpSetSpecial: symReg("OP_SETSPECIAL"),
	OpGetIV:      regSym("OP_GETIV"),
	OpSetIV:      symReg("OP_SETIV"),
	OpGetCV:      regSym("OP_GETCV"),
	OpSetCV:      symReg("OP_SETCV"),
	OpGetConst:   regSym("OP_GETCONST"),
	OpSetConst:   symReg("OP_SETCONST"),
	OpGetMCnst:   regSym("OP_GETMCNST"),
	OpSetMCnst:   symReg("OP_SETMCNST"),
	OpGetUpvar:   regNN("OP_GETUPVAR"),
	OpSetUpvar:   regNN("OP_SETUPVAR"),
	OpJmp: {"OP_JMP", LayoutSBx, RefNone, func(o Operands) string {
		return fmt.Sprintf("OP_JMP\t\t%03d", o.Target())
	}},
	OpJmpIf: {"OP_JMPIF", LayoutAsBx, RefNone, func(o Operands) string {
		return fmt.Sprintf("OP_JMPIF\tR%d\t%03d", o.A, o.Target())
	}},
	OpJmpNot: {"OP_JMPNOT", LayoutAsBx, RefNone, func(o Operands) string {
		return fmt.Sprintf("OP_JMPNOT\tR%d\t%03d", o.A, o.Target())
	}},
	OpOnErr: {"OP_ONERR", LayoutSBx, RefNone, func(o Operands) string {
		return fmt.Sprintf("OP_ONERR\t%03d", o.Target())
	}},
	OpRescue: reg("OP_RESCUE"),
	OpPopErr: num("OP_POPERR"),
	OpRaise:  reg("OP_RAISE"),
	OpEPush: {"OP_EPUSH", LayoutBx, RefIrepBx, func(o Operands) string {
		return fmt.Sprintf("OP_EPUSH\t:I(%d)", o.Block+o.Bx)
	}},
	OpEPop:  num("OP_EPOP"),
	OpSend:  call("OP_SEND"),
	OpSendB: call("OP_SENDB"),
	OpFSend: call("OP_FSEND"),
	OpCall:  reg("OP_CALL"),
	OpSuper: {"OP_SUPER", LayoutAC, RefNone, func(o Operands) string {
		return fmt.Sprintf("OP_SUPER\tR%d\t%d", o.A, o.C)
	}},
	OpArgAry: argSpec("OP_ARGARY"),
	OpEnter: {"OP_ENTER", LayoutAx, RefNone, func(o Operands) string {
		return "OP_ENTER\t" + o.Ax()
	}},
	OpKArg:  call("OP_KARG"),
	OpKDict: reg("OP_KDICT"),
	OpReturn: {"OP_RETURN", LayoutAB, RefNone, func(o Operands) string {
		return fmt.Sprintf("OP_RETURN\tR%d (%d)", o.A, o.B)
	}},
	OpTailCall: call("OP_TAILCALL"),
	OpBlkPush:  argSpec("OP_BLKPUSH"),
	OpAdd:      call("OP_ADD"),
	OpAddI:     call("OP_ADDI"),
	OpSub:      call("OP_SUB"),
	OpSubI:     call("OP_SUBI"),
	OpMul:      call("OP_MUL"),
	OpDiv:      call("OP_DIV"),
	OpEQ:       call("OP_EQ"),
	OpLT:       call("OP_LT"),
	OpLE:       call("OP_LE"),
	OpGT:       call("OP_GT"),
	OpGE:       call("OP_GE"),
	OpArray:    regRegN("OP_ARRAY"),
	OpAryCat:   regReg("OP_ARYCAT"),
	OpAryPush:  regReg("OP_ARYPUSH"),
	OpARef:     regRegN("OP_AREF"),
	OpASet:     regRegN("OP_ASET"),
	OpAPost:    regNN("OP_APOST"),
	OpString: {"OP_STRING", LayoutABx, RefPoolBx, func(o Operands) string {
		return fmt.Sprintf("OP_STRING\tR%d\t%d", o.A, o.Block+o.Bx)
	}},
	OpStrCat: regReg("OP_STRCAT"),
	OpHash:   regRegN("OP_HASH"),
	OpLambda: {"OP_LAMBDA", LayoutAbc, RefIrepB, func(o Operands) string {
		return fmt.Sprintf("OP_LAMBDA\tR%d\tI(%d)\t%d", o.A, o.Block+o.Lb, o.Lc)
	}},
	OpRange:  regRegN("OP_RANGE"),
	OpOClass: reg("OP_OCLASS"),
	OpClass:  regSymB("OP_CLASS"),
	OpModule: regSymB("OP_MODULE"),
	OpExec: {"OP_EXEC", LayoutABx, RefIrepBx, func(o Operands) string {
		return fmt.Sprintf("OP_EXEC\tR%d\tI(%d)", o.A, o.Block+o.Bx)
	}},
	OpMethod: regSymB("OP_METHOD"),
	OpSClass: regReg("OP_SCLASS"),
	OpTClass: reg("OP_TCLASS"),
	OpDebug:  plain("OP_DEBUG"),
	OpStop:   plain("OP_STOP"),
	OpErr: {"OP_ERR", LayoutBx, RefPoolBx, func(o Operands) string {
		return fmt.Sprintf("OP_ERR\tL(%d)", o.Bx)
	}},
}

func renderUnknown(o Operands) string {
	return fmt.Sprintf("OP_unknown %d\t%d\t%d\t%d", o.Op, o.A, o.B, o.C)
}

// Known reports whether op has a table entry.
func (op Opcode) Known() bool { return int(op) < NumOpcodes }

func (op Opcode) String() string {
	if !op.Known() {
		return "OP_unknown"
	}
	return opcodes[op].name
}

// Layout returns the operand layout of op. Unknown opcodes report ABC,
// matching the operands the fallback renderer prints.
func (op Opcode) Layout() Layout {
	if !op.Known() {
		return LayoutABC
	}
	return opcodes[op].layout
}

// Ref returns which operand of op indexes a block table.
func (op Opcode) Ref() Ref {
	if !op.Known() {
		return RefNone
	}
	return opcodes[op].ref
}
