package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/zonesmith/pkg/zone"
	"github.com/matzehuels/zonesmith/pkg/zonefile"
)

// templateCommand creates the template command.
func (c *CLI) templateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "List and export built-in layouts",
	}
	cmd.AddCommand(c.templateListCommand())
	cmd.AddCommand(c.templateExportCommand())
	return cmd
}

func (c *CLI) templateListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range zone.TemplateNames() {
				zones, _ := zone.Template(name)
				label := name
				if name == zone.DefaultTemplate {
					label += " (default)"
				}
				printKeyValue(label, fmt.Sprintf("%d zones", len(zones)))
			}
			return nil
		},
	}
}

func (c *CLI) templateExportCommand() *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Write a template as a layout file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadLayout("", args[0])
			if err != nil {
				return err
			}
			return writeLayout(cmd, l, output, format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", string(zonefile.JSON), "format for stdout: json, toml, yaml")
	return cmd
}

// writeLayout writes l to output, inferring the format from its extension,
// or to the command's stdout in format.
func writeLayout(cmd *cobra.Command, l *zone.Layout, output, format string) error {
	if output != "" {
		if err := zonefile.Export(l, output); err != nil {
			return err
		}
		printFile(output)
		return nil
	}
	f, err := zonefile.ParseFormat(format)
	if err != nil {
		return err
	}
	return zonefile.Write(cmd.OutOrStdout(), l, f)
}

// storeCommand creates the store command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage layouts in the configured store",
		Long: `Manage layouts in the configured store.

The backend is chosen by store.backend in the config file: memory, file,
sqlite, redis or mongo.`,
	}
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storePutCommand())
	cmd.AddCommand(c.storeDeleteCommand())
	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			names, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No layouts stored")
				printNextStep("Store one", appName+" store put <file>")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (c *CLI) storeGetCommand() *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Print or export a stored layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			l, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeLayout(cmd, l, output, format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", string(zonefile.JSON), "format for stdout: json, toml, yaml")
	return cmd
}

func (c *CLI) storePutCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "put <file>",
		Short: "Validate a layout file and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := zonefile.Import(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				l.Name = name
			}
			el, err := convert(l)
			if err != nil {
				return err
			}
			if l.Zones, err = el.Export(); err != nil {
				return err
			}

			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Put(cmd.Context(), l); err != nil {
				return err
			}
			printSuccess("Stored %s", l.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "store under this name (default: the file's layout name)")
	return cmd
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// stdinIsTerminal reports whether stdin is attached to a terminal.
func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
