// Package pipeline provides a framework for executing translation steps
// in sequence.
//
// The pipeline pattern is used to process one markdown document through
// multiple phases: line classification, segment extraction, translation,
// reconstruction, link rewriting, anchor remapping, and validation. Each
// phase is implemented as a Step that receives the document report and
// can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function
// calls because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context between long-running steps
//
// A fresh pipeline is built per document. Documents are processed strictly
// sequentially; correctness over throughput.
package pipeline
