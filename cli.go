package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	headlessWidth  = 120
	headlessHeight = 40
)

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(headlessWidth, headlessHeight)
			if err != nil {
				return err
			}
			defer a.Close()

			printMap(cmd.OutOrStdout(), a.session)
			return nil
		},
	}
}

func printMap(w io.Writer, s *Session) {
	nodes := s.Registry.Nodes()
	if len(nodes) == 0 {
		Subtle.Fprintln(w, "  The map is empty. Add an idea with `mindboard add <text>`.")
		return
	}

	fmt.Fprintf(w, "%s %d ideas, %d links\n\n", Brand.Sprint("mindboard"), len(nodes), s.Connectors.Len())

	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		central := ""
		if n.Central {
			central = "★"
		}
		rows = append(rows, []string{n.ID, n.Text, central, strconv.Itoa(n.X), strconv.Itoa(n.Y)})
	}
	Table(w, []string{"ID", "IDEA", "", "X", "Y"}, rows)

	if s.Connectors.Len() == 0 {
		return
	}
	fmt.Fprintln(w)
	rows = rows[:0]
	for _, c := range s.Connectors.All() {
		rows = append(rows, []string{c.start.Text, "─", c.end.Text})
	}
	Table(w, []string{"FROM", "", "TO"}, rows)
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add an idea to the saved map",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(headlessWidth, headlessHeight)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.session.AddIdea(strings.Join(args, " "))
			if err != nil {
				Bad.Fprintf(cmd.ErrOrStderr(), "  %s %s\n", StatusIcon(false), userMessage(err))
				return err
			}
			if err := a.session.Codec.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s added %s %q\n", StatusIcon(true), n.ID, n.Text)
			return nil
		},
	}
}

// resolveNode finds a node by id first, then by text.
func resolveNode(s *Session, ref string) (*Node, error) {
	if n := s.Registry.Node(ref); n != nil {
		return n, nil
	}
	if n := s.Registry.NodeByText(ref); n != nil {
		return n, nil
	}
	return nil, fmt.Errorf("no idea matches %q", ref)
}

func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <idea> <idea>",
		Short: "Link two ideas by id or text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(headlessWidth, headlessHeight)
			if err != nil {
				return err
			}
			defer a.Close()

			from, err := resolveNode(a.session, args[0])
			if err != nil {
				return err
			}
			to, err := resolveNode(a.session, args[1])
			if err != nil {
				return err
			}

			if !a.session.Connectors.Connect(from, to) {
				Warn.Fprintf(cmd.OutOrStdout(), "  %q and %q are already linked\n", from.Text, to.Text)
				return nil
			}
			if err := a.session.Codec.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s linked %q and %q\n", StatusIcon(true), from.Text, to.Text)
			return nil
		},
	}
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <idea>",
		Aliases: []string{"rm"},
		Short:   "Remove an idea and its links",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(headlessWidth, headlessHeight)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := resolveNode(a.session, args[0])
			if err != nil {
				return err
			}
			if err := a.session.Registry.RemoveNode(n.ID); err != nil {
				Bad.Fprintf(cmd.ErrOrStderr(), "  %s %s\n", StatusIcon(false), userMessage(err))
				return err
			}
			if err := a.session.Codec.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s removed %q\n", StatusIcon(true), n.Text)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "export <png|pdf> [file]",
		Short:     "Export the saved map as an image or PDF",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"png", "pdf"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind ExportFormat
			switch strings.ToLower(args[0]) {
			case "png":
				kind = FormatPNG
			case "pdf":
				kind = FormatPDF
			default:
				return fmt.Errorf("unknown export format %q (want png or pdf)", args[0])
			}

			a, err := openApp(headlessWidth, headlessHeight)
			if err != nil {
				return err
			}
			defer a.Close()

			var path string
			if len(args) == 2 {
				path = expandPath(args[1])
			} else if path, err = a.cfg.GetSavePath(kind.filename()); err != nil {
				return err
			}

			snap := a.session.Canvas.Capture(themeByName(a.cfg.Theme))
			msg := exportTask(snap, kind, path)().(exportDoneMsg)
			if msg.err != nil {
				a.log.Warn("export failed", zap.String("path", path), zap.Error(msg.err))
				return msg.err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s exported %s\n", StatusIcon(true), path)
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every idea and the saved map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				Warn.Fprintln(cmd.OutOrStdout(), "  This deletes the saved map. Re-run with --yes to confirm.")
				return nil
			}
			a, err := openApp(headlessWidth, headlessHeight)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.session.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s map cleared\n", StatusIcon(true))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation")
	return cmd
}
