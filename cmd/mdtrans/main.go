// Package main provides the entry point for the mdtrans CLI.
//
// mdtrans translates a project's markdown documentation from one natural
// language to another while preserving document structure: code blocks,
// inline markup, links, tables, and heading anchors survive the round trip.
//
// Usage:
//
//	mdtrans translate
//	mdtrans translate --backend openai --dry-run
//
// See --help for all available options.
package main

// main is the entry point for mdtrans.
func main() {
	Execute()
}
