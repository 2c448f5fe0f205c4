// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rpdk/rpdk-python/internal/build"
	"github.com/rpdk/rpdk-python/internal/container"
	"github.com/rpdk/rpdk-python/internal/issue"
	"github.com/rpdk/rpdk-python/internal/project"
	"github.com/rpdk/rpdk-python/internal/request"
	"github.com/rpdk/rpdk-python/internal/scaffold"
)

// errorClass maps a sentinel to a catalog entry and remediation hints.
type errorClass struct {
	sentinel    error
	id          issue.Id
	suggestions []string
}

var errorClasses = []errorClass{
	{
		sentinel:    project.ErrProjectNotFound,
		id:          issue.ProjectNotFoundId,
		suggestions: []string{"Run 'rpdk-python init' to create a project", "Pass --project-dir to point at an existing project"},
	},
	{
		sentinel:    project.ErrInvalidSettings,
		id:          issue.ProjectConfigInvalidId,
		suggestions: []string{"Fix or delete .rpdk-config and run 'rpdk-python init' again"},
	},
	{
		sentinel:    build.ErrMissingSupportArtifact,
		id:          issue.SupportArtifactMissingId,
		suggestions: []string{"Copy the support library source distribution into the project root"},
	},
	{
		sentinel:    container.ErrEngineNotAvailable,
		id:          issue.ContainerEngineNotFoundId,
		suggestions: []string{"Start Docker or Podman", "Re-run 'rpdk-python init --no-docker' to build on the host"},
	},
	{
		sentinel:    build.ErrDownstreamBuild,
		id:          issue.DownstreamBuildFailedId,
		suggestions: []string{"Re-run with --verbose to see the pip output"},
	},
	{
		sentinel:    project.ErrFileExists,
		id:          issue.FileExistsId,
		suggestions: []string{"Move the existing file aside or merge its content manually"},
	},
	{
		sentinel:    scaffold.ErrInvalidSchema,
		id:          issue.SchemaInvalidId,
		suggestions: []string{"Check that the resource schema is valid JSON Schema"},
	},
	{
		sentinel: request.ErrMalformedRequest,
		id:       issue.MalformedRequestId,
	},
}

// asActionable wraps err with operation context and, for known failure classes,
// a catalog entry and suggestions. Errors that already are actionable are kept.
func asActionable(err error, operation, resource string) error {
	if err == nil {
		return nil
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	ec := issue.NewErrorContext().WithOperation(operation).WithResource(resource)
	for _, class := range errorClasses {
		if errors.Is(err, class.sentinel) {
			ec = ec.WithIssue(class.id).WithSuggestions(class.suggestions...)
			break
		}
	}
	return &ExitError{Code: exitCodeFor(err), Err: ec.Wrap(err).BuildError()}
}

// fail turns err into an ExitError carrying an ActionableError and prints the
// catalog entry for known failure classes. The error line itself is printed by the
// executor.
func (a *App) fail(err error, operation, resource string) error {
	if err == nil {
		return nil
	}
	err = asActionable(err, operation, resource)
	renderIssue(a.stderr, err, a.flags.verbose)
	return err
}

// renderIssue writes the markdown catalog entry linked to err, if any. In verbose
// mode the suggestions and error chain are written first.
func renderIssue(w io.Writer, err error, verbose bool) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}
	if verbose {
		fmt.Fprintln(w, ae.Format(true))
	}
	if ae.IssueID == 0 {
		return
	}
	entry := issue.Get(ae.IssueID)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(issueStyle())
	if renderErr != nil {
		fmt.Fprintln(w, string(entry.MarkdownMsg()))
		return
	}
	fmt.Fprint(w, rendered)
}

// issueStyle picks the glamour style for catalog entries; NO_COLOR selects plain text.
func issueStyle() string {
	if os.Getenv("NO_COLOR") != "" {
		return "notty"
	}
	return "dark"
}

// formatErrorForDisplay formats an error for user display. ActionableErrors use
// their Format method, which shows the full chain in verbose mode.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
