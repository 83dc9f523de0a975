package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"quiz-manager/core/reconcile"
	"quiz-manager/feature/items"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	itemsText      string
	itemsFile      string
	itemsDelimiter string
	itemsBackupKey string
	itemsDryRun    bool
	yesConfirm     bool
)

// itemsCmd is the parent command for variant item editing.
var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Edit the items of a quiz variant",
	Long: `Reconcile a variant's items to an edited list of names.

Names are split on commas or newlines (--delimiter auto picks newlines when
the text has any). Unchanged names keep their items; only the difference is
created or deleted.

Examples:
  # Preview the changes
  items plan 1 10 --text "Xylose, Glucose"

  # Apply, confirming deletions interactively
  items apply 1 10 --file sugars.txt

  # Apply with auto-confirm (non-interactive)
  items apply 1 10 --file sugars.txt --yes

  # Restore the newest backup
  items restore 1 10 --yes`,
}

var itemsShowCmd = &cobra.Command{
	Use:   "show [quiz-id] [variant-id]",
	Short: "Show a variant's items as editable text",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := itemsSetup(cmd)
		if err != nil {
			return err
		}
		view, err := svc.View(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return render(view, func() { fmt.Println(view.Text) })
	},
}

var itemsPlanCmd = &cobra.Command{
	Use:   "plan [quiz-id] [variant-id]",
	Short: "Preview the operations a save would perform",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := itemsSetup(cmd)
		if err != nil {
			return err
		}
		text, err := readItemsText()
		if err != nil {
			return err
		}
		plan, err := svc.Plan(cmd.Context(), args[0], args[1], text, itemsDelimiter)
		if err != nil {
			return err
		}
		return render(plan, func() { printPlan(plan) })
	},
}

var itemsApplyCmd = &cobra.Command{
	Use:   "apply [quiz-id] [variant-id]",
	Short: "Reconcile a variant to the edited names",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := itemsSetup(cmd)
		if err != nil {
			return err
		}
		text, err := readItemsText()
		if err != nil {
			return err
		}
		return runSave(l, func(opts reconcile.ReconcileOptions) (*items.SaveResult, error) {
			return svc.Save(cmd.Context(), args[0], args[1], text, itemsDelimiter, opts)
		})
	},
}

var itemsRestoreCmd = &cobra.Command{
	Use:   "restore [quiz-id] [variant-id]",
	Short: "Reconcile a variant back to a baseline backup",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, l, err := itemsSetup(cmd)
		if err != nil {
			return err
		}
		return runSave(l, func(opts reconcile.ReconcileOptions) (*items.SaveResult, error) {
			return svc.Restore(cmd.Context(), args[0], args[1], itemsBackupKey, opts)
		})
	},
}

var itemsBackupsCmd = &cobra.Command{
	Use:   "backups [quiz-id] [variant-id]",
	Short: "List baseline backups of a variant",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := itemsSetup(cmd)
		if err != nil {
			return err
		}
		list, err := svc.Backups(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return render(list, func() {
			for _, b := range list {
				fmt.Printf("%s  %s\n", b.TakenAt.Format("2006-01-02 15:04:05"), b.Key)
			}
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{itemsPlanCmd, itemsApplyCmd} {
		c.Flags().StringVar(&itemsText, "text", "", "Edited item names")
		c.Flags().StringVarP(&itemsFile, "file", "f", "", "Read edited item names from a file (- for stdin)")
		c.Flags().StringVar(&itemsDelimiter, "delimiter", "", "Name delimiter: comma, newline or auto (default from config)")
	}
	for _, c := range []*cobra.Command{itemsApplyCmd, itemsRestoreCmd} {
		c.Flags().BoolVar(&itemsDryRun, "dry-run", false, "Force dry-run (no mutations even with --yes)")
		c.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	}
	itemsRestoreCmd.Flags().StringVar(&itemsBackupKey, "key", "", "Backup key (default newest)")

	itemsCmd.AddCommand(itemsShowCmd, itemsPlanCmd, itemsApplyCmd, itemsRestoreCmd, itemsBackupsCmd)
	RootCmd.AddCommand(itemsCmd)
}

func itemsSetup(cmd *cobra.Command) (*items.Service, *zap.Logger, error) {
	d, err := bootstrap(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	svc, err := d.itemsService(d.backup(d.openStorage(cmd.Context())))
	if err != nil {
		return nil, nil, err
	}
	return svc, d.logger, nil
}

func readItemsText() (string, error) {
	switch {
	case itemsFile == "-":
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	case itemsFile != "":
		data, err := os.ReadFile(itemsFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", itemsFile, err)
		}
		return string(data), nil
	default:
		return itemsText, nil
	}
}

// runSave plans first, asks for confirmation when the plan deletes items,
// then applies.
func runSave(l *zap.Logger, save func(reconcile.ReconcileOptions) (*items.SaveResult, error)) error {
	res, err := save(reconcile.ReconcileOptions{DryRun: true})
	if err != nil {
		return err
	}
	if outputFormat == "text" {
		printPlan(res.Plan)
	}
	if res.Plan.IsEmpty() {
		l.Info("Variant already matches, nothing to do.")
		return nil
	}
	if itemsDryRun {
		l.Info("Dry-run mode: No changes were made.")
		return render(res, func() {})
	}

	opts := reconcile.ReconcileOptions{}
	if res.Plan.Destructive() {
		if !confirmDestructiveAction(len(res.Plan.ToDelete)) {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
		opts.Confirmed = true
	}

	l.Info("Applying plan...")
	res, err = save(opts)
	if errors.Is(err, reconcile.ErrConfirmationRequired) {
		return fmt.Errorf("variant changed since the plan was shown: %w", err)
	}
	if err != nil {
		return err
	}
	if err := render(res, func() { printResult(res) }); err != nil {
		return err
	}
	if res.Result != nil && !res.Result.OK() {
		return fmt.Errorf("%d of %d operations failed", len(res.Result.Failed), len(res.Plan.Actions()))
	}
	return nil
}

func printPlan(plan *reconcile.Plan) {
	s := plan.Summary
	fmt.Println("\n--- Plan ---")
	fmt.Printf("Original: %d  Desired: %d  Kept: %d\n", s.Original, s.Desired, s.Kept)
	for _, item := range plan.ToDelete {
		fmt.Printf("  - %s (id %s)\n", item.Name, item.ID)
	}
	for _, name := range plan.ToCreate {
		fmt.Printf("  + %s\n", name)
	}
	if plan.ClearsAll() {
		fmt.Println("\n⚠️  This removes every item of the variant.")
	}
}

func printResult(res *items.SaveResult) {
	if res.Result == nil {
		return
	}
	r := res.Result
	fmt.Println("\n--- Result ---")
	fmt.Printf("Created: %d  Deleted: %d  Failed: %d\n", len(r.Created), len(r.Deleted), len(r.Failed))
	for _, f := range r.Failed {
		fmt.Printf("  ! %s %s: %s\n", f.Action.Type, f.Action.Name, f.Reason)
	}
	if res.Backup != "" {
		fmt.Printf("Backup:  %s\n", res.Backup)
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(deletes int) bool {
	return confirm(fmt.Sprintf("delete %d item(s)", deletes))
}

func confirm(action string) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  Type 'yes' to %s: ", action)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
