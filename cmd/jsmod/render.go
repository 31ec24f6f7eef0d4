// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsmod/jsmod/internal/dag"
	"github.com/jsmod/jsmod/internal/issue"
	"github.com/jsmod/jsmod/pkg/jsmod"
)

// describe wraps a loader failure into an ActionableError with the catalog
// issue and suggestions that fit it. l may be nil.
func describe(op, spec string, l *jsmod.Loader, err error) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	ctx := issue.NewErrorContext().WithOperation(op).WithResource(spec).Wrap(err)

	var (
		circ  *jsmod.CircularDependencyError
		cycle *dag.CycleError
	)
	switch {
	case errors.As(err, &circ):
		ctx.WithIssue(issue.CircularDependencyId).
			WithSuggestion("Load stack: " + strings.Join(circ.Stack, " -> ")).
			WithSuggestion("Import the module by a relative path instead of its bare name")
	case errors.As(err, &cycle):
		ctx.WithIssue(issue.CircularDependencyId).
			WithSuggestion("Move the shared code into a module both sides import")
	case errors.Is(err, jsmod.ErrAliasLoop):
		ctx.WithIssue(issue.AliasLoopId).
			WithSuggestion("Check the alias entries of the package manifest for redirects that point back")
	case errors.Is(err, jsmod.ErrModuleNotFound):
		ctx.WithIssue(issue.ModuleNotFoundId).
			WithSuggestion("Prefix files in the working directory with ./")
		if l != nil {
			ctx.WithSuggestion("Search roots: " + strings.Join(l.Roots(), ", "))
		}
	case errors.Is(err, jsmod.ErrDecode):
		ctx.WithIssue(issue.DecodeFailedId).
			WithSuggestion("Data URIs need a comma before the payload; add ;base64 for encoded payloads")
	case errors.Is(err, jsmod.ErrNativeUnsupported):
		ctx.WithIssue(issue.NativeUnsupportedId).
			WithSuggestion("Native libraries need an engine that implements native loading")
	case errors.Is(err, jsmod.ErrManifest):
		ctx.WithIssue(issue.ManifestParseErrorId)
	}
	return ctx.BuildError()
}

// fail renders err to stderr and returns the ExitError that carries its
// exit code. In verbose mode the matching catalog issue follows the error.
func (a *App) fail(cmd *cobra.Command, err error) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fmt.Fprintf(a.stderr, "%s %s\n", errorIcon, ErrorStyle.Render(err.Error()))
		return &ExitError{Code: exitCodeFor(err), Err: err}
	}

	fmt.Fprintf(a.stderr, "%s %s\n", errorIcon, ae.Format(a.flags.verbose))
	if a.flags.verbose && ae.Issue != 0 {
		if guide := issue.Get(ae.Issue); guide != nil {
			if out, rerr := guide.Render("auto"); rerr == nil {
				fmt.Fprint(a.stderr, out)
			}
		}
	}
	return &ExitError{Code: exitCodeFor(err), Err: err}
}
