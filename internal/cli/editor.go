package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zonesmith/internal/tui"
	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/session"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// editCommand creates the edit command.
func (c *CLI) editCommand() *cobra.Command {
	var template string
	cmd := &cobra.Command{
		Use:   "edit [name]",
		Short: "Edit a stored layout in the terminal",
		Long: `Open the interactive editor on a stored layout.

With --template, the editor starts from a built-in template and saves under
the given name, or the template's name. A stored layout that no longer
tiles the screen is replaced by the default template.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !stdinIsTerminal() {
				return errors.New(errors.ErrCodeUnsupported, "edit needs an interactive terminal")
			}
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			m := session.NewManager(c.Logger)
			var sess *session.Session
			switch {
			case template != "":
				zones, err := zone.Template(template)
				if err != nil {
					return err
				}
				name := template
				if len(args) == 1 {
					name = args[0]
				}
				sess, err = m.Create(name, zones)
				if err != nil {
					return err
				}
			case len(args) == 1:
				if sess, err = m.Open(ctx, st, args[0]); err != nil {
					return err
				}
			default:
				return fmt.Errorf("name a stored layout or pass --template")
			}

			final, err := tea.NewProgram(tui.New(ctx, sess, st), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if final.(tui.Model).Saved() {
				printSuccess("Saved %s", sess.Name())
			} else {
				printInfo("Closed without saving")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&template, "template", "t", "", "start from a built-in template")
	return cmd
}
