package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hydrate/internal/config"
	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/hydrate"
	"github.com/vango-dev/hydrate/pkg/markup"
	"github.com/vango-dev/hydrate/pkg/render"
)

func checkCmd() *cobra.Command {
	var (
		asJSON        bool
		document      bool
		failOnWarning bool
		showClient    bool
	)

	cmd := &cobra.Command{
		Use:   "check SERVER CLIENT",
		Short: "Compare server markup with the client render",
		Long: `Compare the markup in SERVER, as the server sent it, with the markup
in CLIENT, as the client renders it, and report every mismatch.

Boundaries are written as <!--$--> ... <!--/$-->. A pending boundary
starts with <!--$?--> and an incomplete one with <!--$!-->.

The command exits with status 1 when hydration would discard markup.`,
		Example: `  hydrate check server.html client.html
  hydrate check --mode safety --json server.html client.html`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runCheck(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, checkArgs{
				serverPath:    args[0],
				clientPath:    args[1],
				json:          asJSON,
				document:      document,
				failOnWarning: failOnWarning,
				showClient:    showClient,
			})
		},
	}

	addReconcileFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&document, "document", false, "Parse both inputs as complete HTML documents")
	cmd.Flags().BoolVar(&failOnWarning, "fail-on-warning", false, "Exit with status 1 when anything was repaired")
	cmd.Flags().BoolVar(&showClient, "show-client", false, "Print the client tree as the server would render it")

	return cmd
}

// addReconcileFlags defines the flags that override reconciliation
// settings. loadConfig binds them by name.
func addReconcileFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", "lenient", "Recovery mode: lenient or safety")
	cmd.Flags().Int("context", hydrate.DefaultContextWindow, "Siblings shown around a divergence")
	cmd.Flags().Int("lookahead", 0, "Sibling search limit after a mismatch (0 = unbounded)")
	cmd.Flags().String("text", "default", "Text comparison: default, exact or collapse")
	cmd.Flags().Bool("keep-whitespace", false, "Compare whitespace-only text")
	cmd.Flags().StringSlice("ignore-attr", nil, "Attribute names to leave out of comparison")
}

type checkArgs struct {
	serverPath    string
	clientPath    string
	json          bool
	document      bool
	failOnWarning bool
	showClient    bool
}

func runCheck(out, errOut io.Writer, cfg *config.Config, args checkArgs) error {
	logger := newLogger(cfg, errOut)
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts.Logger = logger

	server, err := readTree(args.serverPath, args.document, cfg.ParseOptions())
	if err != nil {
		return err
	}
	clientTree, err := readTree(args.clientPath, args.document, cfg.ParseOptions())
	if err != nil {
		return err
	}
	client := clientTree.VNode(clientTree.Root())

	logger.Debug("reconciling",
		"server", args.serverPath, "client", args.clientPath,
		"server_nodes", server.Len(), "mode", opts.Mode.String())
	result := hydrate.Reconcile(server, client, opts)

	var clientHTML string
	if args.showClient {
		clientHTML, err = render.NewRenderer(render.RendererConfig{Logger: logger}).RenderToString(client)
		if err != nil {
			return errors.New("E140").
				WithDetail("Failed to render " + args.clientPath + ".").
				Wrap(err)
		}
	}

	if args.json {
		rep := newReport(result, opts.Mode)
		rep.ClientHTML = clientHTML
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	} else {
		printResult(out, result)
		if args.showClient {
			fmt.Fprintf(out, "\nClient render:\n%s\n", clientHTML)
		}
	}

	if !result.OK() || (args.failOnWarning && warnings(result) > 0) {
		return errCheckFailed
	}
	return nil
}

func printResult(out io.Writer, result *hydrate.Result) {
	for _, d := range result.Diagnostics {
		fmt.Fprint(out, d.Format())
	}
	switch result.Scope() {
	case hydrate.LocalPatchable:
		if n := len(result.Patches); n > 0 {
			warn(out, "Hydration succeeds with %d repair(s)", n)
		} else {
			success(out, "Server markup matches the client render")
		}
	case hydrate.ThisBoundary:
		for _, esc := range result.Escalations {
			errorMsg(out, "Hydration discards a boundary at %s", esc.Diagnostic.Location())
		}
	default:
		errorMsg(out, "Hydration discards the whole tree")
	}
}

// readTree reads and parses one input file.
func readTree(path string, document bool, opts []markup.ParseOption) (*markup.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E140").
			WithDetail("Failed to read " + path + ".").
			Wrap(err)
	}
	tree, err := parseMarkup(data, document, opts)
	if err != nil {
		return nil, errors.New("E140").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that every <!--$--> marker has a matching <!--/$-->").
			Wrap(err)
	}
	return tree, nil
}

func parseMarkup(data []byte, document bool, opts []markup.ParseOption) (*markup.Tree, error) {
	if document {
		return markup.ParseDocument(bytes.NewReader(data), opts...)
	}
	return markup.Parse(bytes.NewReader(data), opts...)
}
