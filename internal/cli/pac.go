// ABOUTME: Package subcommands over the local store
// ABOUTME: get replicates a package into the fetch directory and records the use
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/seanblair/codepac/internal/config"
	"github.com/seanblair/codepac/internal/db"
)

func newPacCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pac",
		Aliases: []string{"package", "pkg"},
		Short:   "Manage local packages",
	}

	cmd.AddCommand(newPacAddCmd(cfg))
	cmd.AddCommand(newPacGetCmd(cfg))
	cmd.AddCommand(newPacListCmd(cfg))
	cmd.AddCommand(newPacUpdateCmd(cfg))
	cmd.AddCommand(newPacDeleteCmd(cfg))
	cmd.AddCommand(newPacSearchCmd(cfg))

	return cmd
}

func newPacAddCmd(cfg *config.Config) *cobra.Command {
	var (
		version     string
		description string
		author      string
		language    string
		category    string
		source      string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			if author == "" {
				author = cfg.DefaultAuthor
			}

			pkg, warnings, err := st.CreatePackage(db.NewPackage{
				Name:        args[0],
				Version:     version,
				Description: description,
				Author:      author,
				Language:    language,
				Category:    category,
			}, source)
			if err != nil {
				return err
			}
			printWarnings(warnings)

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(),
				"Package %q v%s created (ID: %d)\n", pkg.Name, pkg.Version, pkg.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&version, "version", "v", "", "Package version (default 1.0.0)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Package description")
	cmd.Flags().StringVarP(&author, "author", "a", "", "Package author (default N/A)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Package language (required)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Package category")
	cmd.Flags().StringVarP(&source, "source", "s", "", "Directory of source files to copy into the package")

	return cmd
}

func newPacGetCmd(cfg *config.Config) *cobra.Command {
	var (
		dest       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "get [name]",
		Short: "Fetch a package into the local fetch directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			if dest == "" {
				dest = cfg.FetchDir
			}

			pkg, warnings, err := st.FetchPackage(args[0], dest)
			if err != nil {
				return err
			}
			printWarnings(warnings)

			if jsonOutput {
				return printJSON(cmd, pkg)
			}
			cmd.Printf("Fetched %s v%s (by %s) into %s/%s\n",
				pkg.Name, pkg.Version, pkg.Author, dest, pkg.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "", "Destination directory (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output metadata as JSON")

	return cmd
}

func newPacListCmd(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List packages, most used first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			packages, err := st.ListPackages()
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd, packages)
			}
			printPackageTable(cmd, packages)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func printPackageTable(cmd *cobra.Command, packages []db.Package) {
	cmd.Println("Name\t\tVersion\tAuthor\tLanguage\tCategory\tUsed")
	cmd.Println("----\t\t-------\t------\t--------\t--------\t----")
	for _, pkg := range packages {
		cmd.Printf("%s\t\t%s\t%s\t%s\t%s\t%d\n",
			pkg.Name, pkg.Version, pkg.Author, pkg.Language, deref(pkg.Category), pkg.UsageCount)
	}
}

func newPacUpdateCmd(cfg *config.Config) *cobra.Command {
	var (
		newName     string
		version     string
		description string
		author      string
		language    string
		category    string
	)

	cmd := &cobra.Command{
		Use:   "update [name]",
		Short: "Update fields of a package",
		Long:  `Update a package. Only flags that are set change the stored value; name and version cannot be set to an empty string.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u db.PackageUpdate
			if cmd.Flags().Changed("name") {
				u.Name = &newName
			}
			if cmd.Flags().Changed("version") {
				u.Version = &version
			}
			if cmd.Flags().Changed("description") {
				u.Description = &description
			}
			if cmd.Flags().Changed("author") {
				u.Author = &author
			}
			if cmd.Flags().Changed("language") {
				u.Language = &language
			}
			if cmd.Flags().Changed("category") {
				u.Category = &category
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			pkg, warnings, err := st.UpdatePackage(args[0], u)
			if err != nil {
				return err
			}
			printWarnings(warnings)

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Package %q updated (v%s)\n", pkg.Name, pkg.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&newName, "name", "", "Rename the package")
	cmd.Flags().StringVarP(&version, "version", "v", "", "New version")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&author, "author", "a", "", "New author")
	cmd.Flags().StringVarP(&language, "language", "l", "", "New language")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category")

	return cmd
}

func newPacDeleteCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete [name]",
		Aliases: []string{"rm"},
		Short:   "Delete a package and its mirror directory",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			warnings, err := st.DeletePackage(args[0])
			if err != nil {
				return err
			}
			printWarnings(warnings)

			cmd.Printf("Package %q deleted\n", args[0])
			return nil
		},
	}
	return cmd
}

func newPacSearchCmd(cfg *config.Config) *cobra.Command {
	var (
		field      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search [pattern]",
		Short: "Search packages by field substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			packages, err := st.SearchPackages(field, args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd, packages)
			}
			printPackageTable(cmd, packages)
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", "name", "Field to match: name, description, or category")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
