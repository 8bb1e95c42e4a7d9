// ABOUTME: Snippet subcommands for creating, reading, updating, and deleting snippets
// ABOUTME: Update flags map onto the partial-update semantics of the store
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/araddon/dateparse"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/seanblair/codepac/internal/config"
	"github.com/seanblair/codepac/internal/db"
)

func newSnippetCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snippet",
		Aliases: []string{"snip"},
		Short:   "Manage code snippets",
	}

	cmd.AddCommand(newSnippetAddCmd(cfg))
	cmd.AddCommand(newSnippetGetCmd(cfg))
	cmd.AddCommand(newSnippetListCmd(cfg))
	cmd.AddCommand(newSnippetUpdateCmd(cfg))
	cmd.AddCommand(newSnippetDeleteCmd(cfg))
	cmd.AddCommand(newSnippetUseCmd(cfg))
	cmd.AddCommand(newSnippetSearchCmd(cfg))

	return cmd
}

func newSnippetAddCmd(cfg *config.Config) *cobra.Command {
	var (
		description string
		language    string
		category    string
		content     string
		fromFile    string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromFile != "" {
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", fromFile, err)
				}
				content = string(data)
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			snip, warnings, err := st.CreateSnippet(db.NewSnippet{
				Name:        args[0],
				Description: description,
				Language:    language,
				Category:    category,
				Content:     content,
			})
			if err != nil {
				return err
			}
			printWarnings(warnings)

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Snippet %q created (ID: %d)\n", snip.Name, snip.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Snippet description")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Snippet language (required)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Snippet category")
	cmd.Flags().StringVar(&content, "content", "", "Snippet content")
	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read content from a file")

	return cmd
}

func newSnippetGetCmd(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "get [name]",
		Short: "Show a snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			snip, err := st.GetSnippet(args[0])
			if err != nil {
				return err
			}
			if snip == nil {
				// Absence is not an error for snippet lookups.
				cmd.Printf("No snippet named %q\n", args[0])
				return nil
			}

			if jsonOutput {
				return printJSON(cmd, snip)
			}
			cmd.Printf("Name:        %s\n", snip.Name)
			cmd.Printf("Language:    %s\n", snip.Language)
			cmd.Printf("Description: %s\n", deref(snip.Description))
			cmd.Printf("Category:    %s\n", deref(snip.Category))
			cmd.Printf("Used:        %d times\n", snip.UsageCount)
			cmd.Println()
			cmd.Println(snip.Content)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newSnippetListCmd(cfg *config.Config) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
		since      string
		until      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snippets in insertion order",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sinceTime, untilTime *time.Time
			if since != "" {
				t, err := dateparse.ParseAny(since)
				if err != nil {
					return fmt.Errorf("invalid --since date: %w", err)
				}
				sinceTime = &t
			}
			if until != "" {
				t, err := dateparse.ParseAny(until)
				if err != nil {
					return fmt.Errorf("invalid --until date: %w", err)
				}
				untilTime = &t
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			snippets, err := st.ListSnippets(limit)
			if err != nil {
				return fmt.Errorf("failed to list snippets: %w", err)
			}

			var filtered []db.Snippet
			for _, snip := range snippets {
				if sinceTime != nil && snip.CreatedAt.Before(*sinceTime) {
					continue
				}
				if untilTime != nil && snip.CreatedAt.After(*untilTime) {
					continue
				}
				filtered = append(filtered, snip)
			}

			if jsonOutput {
				return printJSON(cmd, filtered)
			}
			printSnippetTable(cmd, filtered)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum snippets to show (0 = all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&since, "since", "", "Only snippets created after this date (natural language or ISO)")
	cmd.Flags().StringVar(&until, "until", "", "Only snippets created before this date (natural language or ISO)")

	return cmd
}

func printSnippetTable(cmd *cobra.Command, snippets []db.Snippet) {
	cmd.Println("ID\tName\t\tLanguage\tCategory\tUsed")
	cmd.Println("--\t----\t\t--------\t--------\t----")
	for _, snip := range snippets {
		cmd.Printf("%d\t%s\t\t%s\t%s\t%d\n",
			snip.ID, snip.Name, snip.Language, deref(snip.Category), snip.UsageCount)
	}
}

func newSnippetUpdateCmd(cfg *config.Config) *cobra.Command {
	var (
		newName     string
		description string
		language    string
		category    string
		content     string
		fromFile    string
	)

	cmd := &cobra.Command{
		Use:   "update [name]",
		Short: "Update fields of a snippet",
		Long:  `Update a snippet. Only flags that are set change the stored value; an explicitly empty --description or --category clears the field.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u db.SnippetUpdate
			if cmd.Flags().Changed("name") {
				u.Name = &newName
			}
			if cmd.Flags().Changed("description") {
				u.Description = &description
			}
			if cmd.Flags().Changed("language") {
				u.Language = &language
			}
			if cmd.Flags().Changed("category") {
				u.Category = &category
			}
			if cmd.Flags().Changed("content") {
				u.Content = &content
			}
			if fromFile != "" {
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", fromFile, err)
				}
				text := string(data)
				u.Content = &text
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			snip, warnings, err := st.UpdateSnippet(args[0], u)
			if err != nil {
				return err
			}
			printWarnings(warnings)

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Snippet %q updated\n", snip.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&newName, "name", "", "Rename the snippet")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description (empty clears)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "New language")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category (empty clears)")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read new content from a file")

	return cmd
}

func newSnippetDeleteCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete [name]",
		Aliases: []string{"rm"},
		Short:   "Delete a snippet and its mirror file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			warnings, err := st.DeleteSnippet(args[0])
			if err != nil {
				return err
			}
			printWarnings(warnings)

			cmd.Printf("Snippet %q deleted\n", args[0])
			return nil
		},
	}
	return cmd
}

func newSnippetUseCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use [name]",
		Short: "Print a snippet's content and record the use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			snip, err := st.UseSnippet(args[0])
			if err != nil {
				return err
			}
			if snip == nil {
				cmd.Printf("No snippet named %q\n", args[0])
				return nil
			}
			cmd.Print(snip.Content)
			return nil
		},
	}
	return cmd
}

func newSnippetSearchCmd(cfg *config.Config) *cobra.Command {
	var (
		field      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search [pattern]",
		Short: "Search snippets by field substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			snippets, err := st.SearchSnippets(field, args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd, snippets)
			}
			printSnippetTable(cmd, snippets)
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", "name", "Field to match: name, description, or category")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
