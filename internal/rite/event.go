package rite

// Event is one step of a decode, emitted in image order. Offset is the image
// position where the event's data starts.
type Event interface {
	Pos() int
}

// Sink receives decode events as they happen.
type Sink func(Event)

type (
	// HeaderEvent carries the parsed binary header.
	HeaderEvent struct {
		Offset int
		Header Header
	}

	// SectionEvent starts a top level section. Number counts sections
	// from 1.
	SectionEvent struct {
		Offset  int
		Number  int
		Section Section
	}

	// SectionEndEvent closes a section opened by SectionEvent.
	SectionEndEvent struct {
		Offset  int
		Number  int
		Section Section
	}

	// RiteVersionEvent carries the instruction set version of an IREP
	// section.
	RiteVersionEvent struct {
		Offset  int
		Version string
	}

	// IrepEvent carries the header fields of a code block.
	IrepEvent struct {
		Offset     int
		Depth      int
		Index      int
		RecordSize uint32
		NLocals    uint16
		NRegs      uint16
		RLen       uint16
	}

	// TableEvent announces the length of a block table.
	TableEvent struct {
		Offset int
		Depth  int
		Table  Table
		Count  int
	}

	// InstructionEvent carries one decoded instruction.
	InstructionEvent struct {
		Offset      int
		Depth       int
		Instruction Instruction
	}

	// PoolEvent carries one literal pool entry.
	PoolEvent struct {
		Offset int
		Depth  int
		Index  int
		Entry  PoolEntry
	}

	// SymbolEvent carries one symbol table slot.
	SymbolEvent struct {
		Offset int
		Depth  int
		Index  int
		Symbol Symbol
	}

	// LineRecordEvent carries one record of a legacy LINE section.
	LineRecordEvent struct {
		Offset   int
		Index    int
		Length   uint32
		Filename string
		Lines    []uint16
	}

	// FileTableEvent carries the filename table of a DBG section.
	FileTableEvent struct {
		Offset int
		Files  []string
	}

	// DebugRecordEvent starts the debug record of one block.
	DebugRecordEvent struct {
		Offset     int
		Depth      int
		RecordSize uint32
		Count      int
	}

	// DebugFileEvent carries one decoded file association.
	DebugFileEvent struct {
		Offset int
		Depth  int
		Assoc  FileAssoc
	}

	// WarningEvent reports a non-fatal problem.
	WarningEvent struct {
		Offset int
		Err    error
	}

	// EndEvent marks the END section. Size is zero when the image stops
	// right after the tag.
	EndEvent struct {
		Offset int
		Number int
		Size   uint32
	}
)

func (e HeaderEvent) Pos() int      { return e.Offset }
func (e SectionEvent) Pos() int     { return e.Offset }
func (e SectionEndEvent) Pos() int  { return e.Offset }
func (e RiteVersionEvent) Pos() int { return e.Offset }
func (e IrepEvent) Pos() int        { return e.Offset }
func (e TableEvent) Pos() int       { return e.Offset }
func (e InstructionEvent) Pos() int { return e.Offset }
func (e PoolEvent) Pos() int        { return e.Offset }
func (e SymbolEvent) Pos() int      { return e.Offset }
func (e LineRecordEvent) Pos() int  { return e.Offset }
func (e FileTableEvent) Pos() int   { return e.Offset }
func (e DebugRecordEvent) Pos() int { return e.Offset }
func (e DebugFileEvent) Pos() int   { return e.Offset }
func (e WarningEvent) Pos() int     { return e.Offset }
func (e EndEvent) Pos() int         { return e.Offset }
