// Package rite decodes RITE bytecode images, the binary output of the mruby
// compiler.
//
// An image is a fixed header followed by tagged sections up to an END tag:
//
//	header   id[4] version[4] crc:u16 size:u32 compiler_name[4] compiler_version[4]
//	section  tag[4] size:u32 body
//
// The IREP section holds the tree of code blocks, each with its instruction
// words, literal pool, symbol table and child blocks. The DBG section holds
// a filename table and one debug record per block in the same depth first
// order. LINE is the legacy line number section.
//
// Everything is big-endian and read through a forward-only Reader. Parse
// returns the decoded tree and can stream events to a Sink while it decodes;
// instruction words are rendered as they are read.
//
// Instruction rendering never resolves symbol or pool indices; use
// CodeBlock.Resolve on the finished tree for that.
package rite
