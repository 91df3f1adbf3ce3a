package rite

import (
	"fmt"
	"strconv"
)

// NullSymbolLen is the symbol length marking an unnamed symbol slot. No name
// bytes and no NUL terminator follow it.
const NullSymbolLen = 0xffff

// PoolType is the type tag of a literal pool entry.
type PoolType uint8

const (
	PoolString PoolType = iota
	PoolFixnum
	PoolFloat
)

func (t PoolType) String() string {
	switch t {
	case PoolString:
		return "string"
	case PoolFixnum:
		return "fixnum"
	case PoolFloat:
		return "float"
	}
	return "type" + strconv.Itoa(int(t))
}

// PoolEntry is one literal. Numbers are stored in their textual form.
type PoolEntry struct {
	Type  PoolType
	Value string
}

// Symbol is one symbol table slot.
type Symbol struct {
	Name string
	Null bool // slot was serialized with NullSymbolLen
}

func (s Symbol) String() string {
	if s.Null {
		return "(null)"
	}
	return s.Name
}

// CodeBlock is one compiled IREP: a method, block or the top level program.
// Children are exclusively owned and kept in serialized order.
type CodeBlock struct {
	Offset int // image offset of the record
	Index  int // position among its siblings
	Depth  int // 0 for the program root

	RecordSize uint32
	NLocals    uint16
	NRegs      uint16
	RLen       uint16

	ISeq     []uint32
	Pool     []PoolEntry
	Syms     []Symbol
	Children []*CodeBlock

	Debug *DebugInfo
}

// Instructions decodes the block's instruction words.
func (b *CodeBlock) Instructions() []Instruction {
	out := make([]Instruction, len(b.ISeq))
	for pc, w := range b.ISeq {
		out[pc] = Decode(w, pc, b.Index)
	}
	return out
}

// Resolve returns the name of the symbol or the pool literal that ins
// references in this block. ok is false when ins carries no such reference
// or the index is out of range.
func (b *CodeBlock) Resolve(ins Instruction) (string, bool) {
	o := ins.Operands()
	switch ins.Op.Ref() {
	case RefSymB:
		return b.symbolAt(o.B)
	case RefSymBx:
		return b.symbolAt(o.Bx)
	case RefPoolBx:
		if o.Bx < len(b.Pool) {
			p := b.Pool[o.Bx]
			if p.Type == PoolString {
				return strconv.Quote(p.Value), true
			}
			return p.Value, true
		}
	}
	return "", false
}

func (b *CodeBlock) symbolAt(i int) (string, bool) {
	if i >= len(b.Syms) {
		return "", false
	}
	return ":" + b.Syms[i].String(), true
}

// Walk calls fn for b and every descendant, depth first in serialized
// order. It stops at the first error.
func (b *CodeBlock) Walk(fn func(*CodeBlock) error) error {
	if err := fn(b); err != nil {
		return err
	}
	for _, c := range b.Children {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of blocks in the tree rooted at b.
func (b *CodeBlock) Count() int {
	n := 1
	for _, c := range b.Children {
		n += c.Count()
	}
	return n
}

// Table names the length-prefixed tables of a block.
type Table uint8

const (
	TableISeq Table = iota
	TablePool
	TableSyms
)

func (t Table) String() string {
	switch t {
	case TableISeq:
		return "iseq"
	case TablePool:
		return "pool"
	case TableSyms:
		return "syms"
	}
	return fmt.Sprintf("table%d", uint8(t))
}

// capacity bounds a slice preallocation by what the image can still hold,
// so a corrupt count underruns before it allocates.
func capacity(count uint32, unit, remaining int) int {
	if int64(count)*int64(unit) > int64(remaining) {
		return remaining / unit
	}
	return int(count)
}

func (d *decoder) readIrep(index, depth int) (*CodeBlock, error) {
	r := d.r
	if depth >= d.maxDepth {
		return nil, &DepthError{Offset: r.Pos(), Depth: depth, Max: d.maxDepth}
	}

	b := &CodeBlock{Offset: r.Pos(), Index: index, Depth: depth}
	var err error
	if b.RecordSize, err = r.U32(); err != nil {
		return nil, err
	}
	if b.NLocals, err = r.U16(); err != nil {
		return nil, err
	}
	if b.NRegs, err = r.U16(); err != nil {
		return nil, err
	}
	if b.RLen, err = r.U16(); err != nil {
		return nil, err
	}
	d.emit(IrepEvent{
		Offset:     b.Offset,
		Depth:      depth,
		Index:      index,
		RecordSize: b.RecordSize,
		NLocals:    b.NLocals,
		NRegs:      b.NRegs,
		RLen:       b.RLen,
	})
	d.log.Debug("irep", "offset", b.Offset, "depth", depth, "index", index, "rlen", b.RLen)

	if err := d.readISeq(b); err != nil {
		return nil, err
	}
	if err := d.readPool(b); err != nil {
		return nil, err
	}
	if err := d.readSyms(b); err != nil {
		return nil, err
	}

	b.Children = make([]*CodeBlock, 0, b.RLen)
	for i := 0; i < int(b.RLen); i++ {
		c, err := d.readIrep(i, depth+1)
		if err != nil {
			return nil, err
		}
		b.Children = append(b.Children, c)
	}
	return b, nil
}

func (d *decoder) readISeq(b *CodeBlock) error {
	r := d.r
	off := r.Pos()
	n, err := r.U32()
	if err != nil {
		return err
	}
	d.emit(TableEvent{Offset: off, Depth: b.Depth, Table: TableISeq, Count: int(n)})

	b.ISeq = make([]uint32, 0, capacity(n, 4, r.Len()))
	for pc := 0; pc < int(n); pc++ {
		off := r.Pos()
		w, err := r.U32()
		if err != nil {
			return err
		}
		b.ISeq = append(b.ISeq, w)
		d.emit(InstructionEvent{Offset: off, Depth: b.Depth, Instruction: Decode(w, pc, b.Index)})
	}
	return nil
}

func (d *decoder) readPool(b *CodeBlock) error {
	r := d.r
	off := r.Pos()
	n, err := r.U32()
	if err != nil {
		return err
	}
	d.emit(TableEvent{Offset: off, Depth: b.Depth, Table: TablePool, Count: int(n)})

	b.Pool = make([]PoolEntry, 0, capacity(n, 3, r.Len()))
	for i := 0; i < int(n); i++ {
		off := r.Pos()
		typ, err := r.U8()
		if err != nil {
			return err
		}
		l, err := r.U16()
		if err != nil {
			return err
		}
		s, err := r.String(int(l))
		if err != nil {
			return err
		}
		p := PoolEntry{Type: PoolType(typ), Value: s}
		b.Pool = append(b.Pool, p)
		d.emit(PoolEvent{Offset: off, Depth: b.Depth, Index: i, Entry: p})
	}
	return nil
}

func (d *decoder) readSyms(b *CodeBlock) error {
	r := d.r
	off := r.Pos()
	n, err := r.U32()
	if err != nil {
		return err
	}
	d.emit(TableEvent{Offset: off, Depth: b.Depth, Table: TableSyms, Count: int(n)})

	b.Syms = make([]Symbol, 0, capacity(n, 2, r.Len()))
	for i := 0; i < int(n); i++ {
		off := r.Pos()
		l, err := r.U16()
		if err != nil {
			return err
		}
		var s Symbol
		if l == NullSymbolLen {
			s.Null = true
		} else {
			if s.Name, err = r.String(int(l)); err != nil {
				return err
			}
			if _, err := r.U8(); err != nil {
				return err
			}
		}
		b.Syms = append(b.Syms, s)
		d.emit(SymbolEvent{Offset: off, Depth: b.Depth, Index: i, Symbol: s})
	}
	return nil
}
