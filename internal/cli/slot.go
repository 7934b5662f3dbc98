package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"umlgate/internal/result"
	"umlgate/internal/storage"
)

// SlotOptions holds flags for the slot command group.
type SlotOptions struct {
	*RootOptions
	Database string
	Locale   string
}

// NewSlotCommand creates the slot command group.
func NewSlotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SlotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Manage the persistence slots",
		Long: `Manage the fixed set of persistence slots in the slot database.

Example:
  umlgate slot save 1 diagram.puml --db ./umlgate.db
  umlgate slot load 1 --db ./umlgate.db
  umlgate slot list --db ./umlgate.db`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite slot database (required)")
	cmd.PersistentFlags().StringVar(&opts.Locale, "locale", "en", "message locale (en|ja)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newSlotSaveCommand(opts))
	cmd.AddCommand(newSlotLoadCommand(opts))
	cmd.AddCommand(newSlotDeleteCommand(opts))
	cmd.AddCommand(newSlotListCommand(opts))

	return cmd
}

func newSlotSaveCommand(opts *SlotOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "save <slot> <source-file>",
		Short:         "Save diagram source into a slot",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSlotStore(opts, func(store *storage.SlotStore, formatter *OutputFormatter) error {
				n, err := parseSlotArg(args[0])
				if err != nil {
					return err
				}
				text, err := readSource(args[1])
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to read source", err)
				}
				if err := store.Save(cmd.Context(), n, text); err != nil {
					return reportFailure(formatter, err)
				}
				return formatter.Outcome(result.New(result.SlotSaved{Slot: n}), nil)
			}, cmd)
		},
	}
}

func newSlotLoadCommand(opts *SlotOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "load <slot>",
		Short:         "Print the diagram source stored in a slot",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSlotStore(opts, func(store *storage.SlotStore, formatter *OutputFormatter) error {
				n, err := parseSlotArg(args[0])
				if err != nil {
					return err
				}
				content, found, err := store.Load(cmd.Context(), n)
				if err != nil {
					return reportFailure(formatter, err)
				}
				if !found {
					return NewExitError(ExitFailure, fmt.Sprintf("slot %d is empty", n))
				}
				return formatter.Outcome(result.New(result.SlotLoaded{Slot: n}), content)
			}, cmd)
		},
	}
}

func newSlotDeleteCommand(opts *SlotOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <slot>",
		Short:         "Delete the contents of a slot",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSlotStore(opts, func(store *storage.SlotStore, formatter *OutputFormatter) error {
				n, err := parseSlotArg(args[0])
				if err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), n); err != nil {
					return reportFailure(formatter, err)
				}
				return formatter.Outcome(result.New(result.SlotDeleted{Slot: n}), nil)
			}, cmd)
		},
	}
}

func newSlotListCommand(opts *SlotOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List occupied slots",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSlotStore(opts, func(store *storage.SlotStore, formatter *OutputFormatter) error {
				infos, err := store.List(cmd.Context())
				if err != nil {
					return reportFailure(formatter, err)
				}
				if formatter.Format == "json" {
					return json.NewEncoder(formatter.Writer).Encode(map[string]any{"slots": infos})
				}
				if len(infos) == 0 {
					fmt.Fprintln(formatter.Writer, "no occupied slots")
					return nil
				}
				for _, info := range infos {
					fmt.Fprintf(formatter.Writer, "slot %d  %s  %s\n  %s\n",
						info.Slot, info.SavedAt.Format("2006-01-02 15:04:05"), info.Title, info.Preview)
				}
				return nil
			}, cmd)
		},
	}
}

// withSlotStore opens the slot database for one command invocation.
func withSlotStore(opts *SlotOptions, fn func(*storage.SlotStore, *OutputFormatter) error, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	db, err := storage.OpenSQLite(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open slot database", err)
	}
	defer db.Close()

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		Locale:    language.Make(opts.Locale),
	}
	return fn(storage.New(db), formatter)
}

func parseSlotArg(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, "slot must be a number", err)
	}
	return n, nil
}

// reportFailure prints a taxonomy failure as an outcome envelope and maps it
// to the failure exit code.
func reportFailure(formatter *OutputFormatter, err error) error {
	out := result.FromError(err)
	if printErr := formatter.Outcome(out, nil); printErr != nil {
		return WrapExitError(ExitCommandError, "failed to print outcome", printErr)
	}
	return NewExitError(ExitFailure, string(out.Code.Kind()))
}
