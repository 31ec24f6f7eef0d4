// SPDX-License-Identifier: MPL-2.0

// Package jsmod resolves module specifiers for an embedded script engine and
// materializes the modules they name.
//
// A Loader owns the per-context state (load stack, manifest cache, builtin
// instantiation records) and runs every specifier through a fixed pipeline:
//
//	START -> STRIP_SCHEME -> DATA_URI? -> GUARD -> BUILTIN -> ALIAS
//	      -> CLASSIFY -> (SEARCH | DIRECT) -> DISPATCH -> FOUND | NOT_FOUND
//
// The engine's module table stays authoritative: the loader only supplies
// canonical names and triggers exactly one materialization per name.
//
// A Loader is not safe for concurrent use. Give each script context its own
// Loader; a Registry may be shared between them.
package jsmod
