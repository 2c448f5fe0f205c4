// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rpdk/rpdk-python/internal/request"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func newEventCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "event <file>",
		Short: "Check an invocation event file",
		Long: `Decode an invocation event the way the handler runtime does and print the
request it yields. Missing required fields are reported; nothing is defaulted.

Use this to check test events before running handlers against them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventCheck(app, args[0])
		},
	}
}

func runEventCheck(app *App, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return app.fail(err, "read event", path)
	}
	event, err := request.DecodeEvent(data)
	if err != nil {
		return app.fail(err, "decode event", path)
	}
	// Remaining time is unknown outside the handler runtime.
	req, err := request.ParseRequest(event, request.RuntimeHandleFunc(func() int64 { return 0 }))
	if err != nil {
		return app.fail(err, "decode event", path)
	}

	key := CmdStyle.Render
	w := app.stdout
	fmt.Fprintln(w, TitleStyle.Render(req.Context.ResourceType()))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s: %s\n", key("action"), req.Action)
	fmt.Fprintf(w, "%s: %s\n", key("logical_resource_id"), req.Context.LogicalResourceID())
	fmt.Fprintf(w, "%s: %s\n", key("stack_id"), req.Context.StackID())
	fmt.Fprintf(w, "%s: %d\n", key("invocation"), req.Context.InvocationCount())
	fmt.Fprintf(w, "%s: %s\n", key("properties"), sortedKeys(req.Data.ResourceProperties))
	fmt.Fprintf(w, "%s: %s\n", key("previous_properties"), sortedKeys(req.Data.PreviousResourceProperties))
	fmt.Fprintf(w, "%s: %s\n", key("callback_context"), sortedKeys(req.Data.CallbackContext))
	fmt.Fprintf(app.stdout, "%s Event is well-formed\n", SuccessStyle.Render("✓"))
	return nil
}

func sortedKeys(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return "[" + strings.Join(keys, ", ") + "]"
}
