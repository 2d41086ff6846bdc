package commands

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/cmdshelf/cmdshelf/pkg/types"
)

var findJQ string

var findCmd = &cobra.Command{
	Use:   "find <pattern>",
	Short: "Search commands by label or command text",
	Long: `Search commands and groups by label or command text. Patterns
support * and ** wildcards; plain text matches as a case-insensitive
substring.

With --jq the whole library document is piped through a jq filter
instead:

  cmdshelf find --jq '.commands[] | select(.type == "command") | .command' .`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().StringVar(&findJQ, "jq", "", "Filter the library document with a jq expression")
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	initLogging(cfg)

	svc, err := newService(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if findJQ != "" {
		return runJQFilter(svc.Export, findJQ)
	}

	matches := svc.Search(args[0])
	if len(matches) == 0 {
		if suggestion, ok := svc.Suggest(args[0]); ok {
			return fmt.Errorf("no matches for %q, did you mean %q?", args[0], suggestion)
		}
		return fmt.Errorf("no matches for %q", args[0])
	}

	for _, n := range matches {
		switch node := n.(type) {
		case *types.CommandGroup:
			fmt.Printf("%s/  (%s)\n", node.Label, node.ID)
		case *types.CommandItem:
			fmt.Printf("%s: %s  (%s)\n", node.Label, node.Command, node.ID)
		}
	}
	return nil
}

// runJQFilter pipes the exported library document through a jq filter and
// pretty-prints every result.
func runJQFilter(export func() ([]byte, error), filter string) error {
	doc, err := export()
	if err != nil {
		return err
	}

	var jsonData any
	if err := json.Unmarshal(doc, &jsonData); err != nil {
		return fmt.Errorf("jq: parse error: %v", err)
	}

	query, err := gojq.Parse(filter)
	if err != nil {
		return fmt.Errorf("jq: filter parse error: %v", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("jq: compile error: %v", err)
	}

	iter := code.Run(jsonData)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return fmt.Errorf("jq: execution error: %v", err)
		}

		if s, ok := v.(string); ok {
			fmt.Println(s)
			continue
		}
		output, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("jq: marshal error: %v", err)
		}
		fmt.Println(string(output))
	}
	return nil
}
