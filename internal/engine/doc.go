// SPDX-License-Identifier: MPL-2.0

// Package engine is the reference script engine behind the jsmod CLI.
//
// Table keeps the module table and understands a deliberately small subset
// of module syntax: single-line import and export declarations plus the
// three statement forms glue scripts use. It is enough to drive the loader
// end to end, record nested imports, and expose modules as globals, without
// embedding a full interpreter.
package engine
