package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tether.dev/cli/internal/core/manifest"
	"tether.dev/cli/internal/core/templates"
)

func newTemplatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "Work with application templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the available templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTRIGGER\tDESCRIPTION")
			for _, t := range templates.Table() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Trigger, t.Description)
			}
			return w.Flush()
		},
	})

	return cmd
}

func newNewCommand() *cobra.Command {
	var templateID string

	cmd := &cobra.Command{
		Use:   "new <app-name>",
		Short: "Scaffold a new application from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if templateID == "" {
				if !isatty.IsTerminal(os.Stdin.Fd()) {
					return fmt.Errorf("--template is required when not running interactively")
				}
				picked, err := pickTemplate()
				if err != nil {
					return err
				}
				templateID = picked
			}

			tmpl, ok := templates.Lookup(templateID)
			if !ok {
				return fmt.Errorf("unknown template %q (see \"tether templates list\")", templateID)
			}

			if _, err := os.Stat(name); err == nil {
				return fmt.Errorf("directory %q already exists", name)
			}
			if err := os.MkdirAll(name, 0755); err != nil {
				return fmt.Errorf("failed to create application directory: %w", err)
			}
			if err := tmpl.Render(name, name); err != nil {
				return err
			}

			fmt.Printf("Created %s from template %s\n", name, tmpl.ID)
			fmt.Printf("Next: cd %s && tether up\n", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&templateID, "template", "t", "", "Template ID (interactive picker when omitted)")
	return cmd
}

func newAddCommand() *cobra.Command {
	var file string
	var command, route, channel string

	cmd := &cobra.Command{
		Use:   "add <component-id>",
		Short: "Add a component to the application manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			app, err := manifest.Load(file)
			if err != nil {
				return err
			}
			if _, exists := app.Component(id); exists {
				return fmt.Errorf("component %q already exists", id)
			}

			comp := manifest.Component{ID: id, Command: command, Route: route, Channel: channel}
			app.Components = append(app.Components, comp)
			if err := app.Validate(); err != nil {
				return err
			}

			path := file
			if path == "" {
				path = manifest.DefaultFile
			}
			if err := manifest.Save(app, path); err != nil {
				return err
			}

			fmt.Printf("Added component %s to %s\n", id, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", manifest.DefaultFile, "Path to the application manifest")
	cmd.Flags().StringVar(&command, "command", "", "Command the component runs")
	cmd.Flags().StringVar(&route, "route", "", "HTTP route served by the component")
	cmd.Flags().StringVar(&channel, "channel", "", "Pub/sub channel consumed by the component")
	_ = cmd.MarkFlagRequired("command")
	return cmd
}
