// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for PGO profile generation. They cover
// the resolution hot paths:
//   - manifest and config parsing through CUE
//   - search-root scanning and suffix probing
//   - import normalization
//   - bytecode decoding of builtins
//   - end-to-end loading of a module graph
//
// To generate a profile, run:
//
//	go test -run '^$' -bench . -cpuprofile default.pgo ./internal/benchmark
package benchmark
