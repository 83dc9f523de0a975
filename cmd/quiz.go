package cmd

import (
	"fmt"
	"strings"

	"quiz-manager/feature/quiz"

	"github.com/spf13/cobra"
)

// quizCmd is the parent command for quiz inspection.
var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Inspect quizzes on the backend",
}

// quizListCmd lists quizzes.
var quizListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		quizzes, err := d.client.ListQuizzes(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list quizzes: %w", err)
		}
		return render(quizzes, func() {
			for _, q := range quizzes {
				fmt.Printf("%-8s %s\n", q.ID, q.Title)
			}
		})
	},
}

// quizShowCmd loads a quiz with its variants and items.
var quizShowCmd = &cobra.Command{
	Use:   "show [quiz-id]",
	Short: "Show a quiz with its variants and items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		agg, err := quiz.NewLoader(d.client, d.cfg.Editor.LoadConcurrency, d.logger).Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load quiz %s: %w", args[0], err)
		}
		return render(agg, func() { printAggregate(agg) })
	},
}

func init() {
	quizCmd.AddCommand(quizListCmd, quizShowCmd)
	RootCmd.AddCommand(quizCmd)
}

func printAggregate(agg *quiz.Aggregate) {
	fmt.Println("\n--- Quiz ---")
	fmt.Printf("ID:       %s\n", agg.Quiz.ID)
	fmt.Printf("Title:    %s\n", agg.Quiz.Title)
	fmt.Printf("Variants: %d\n", len(agg.Variants))
	fmt.Println("------------")
	for _, v := range agg.Variants {
		list := agg.Items(v.ID.String())
		names := make([]string, len(list))
		for i, it := range list {
			names[i] = it.Name
		}
		fmt.Printf("[%s] %s (%d)\n", v.ID, v.Name, len(list))
		if len(names) > 0 {
			fmt.Printf("    %s\n", strings.Join(names, ", "))
		}
	}
	if agg.Partial() {
		fmt.Println("\nWarnings:")
		for _, w := range agg.Warnings {
			fmt.Printf("- %s\n", w)
		}
	}
}

var quizVariants []string

// quizCreateCmd creates a quiz with its variants.
var quizCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a quiz and its variants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		svc := quiz.NewService(d.client, quiz.NewLoader(d.client, d.cfg.Editor.LoadConcurrency, d.logger), d.logger)
		agg, err := svc.Create(cmd.Context(), args[0], quizVariants)
		if err != nil {
			return err
		}
		return render(agg, func() { printAggregate(agg) })
	},
}

func init() {
	quizCreateCmd.Flags().StringArrayVar(&quizVariants, "variant", nil, "Variant name (repeatable)")
	quizCmd.AddCommand(quizCreateCmd)
}

// quizRenameCmd changes the title of a quiz.
var quizRenameCmd = &cobra.Command{
	Use:   "rename [quiz-id] [title]",
	Short: "Change the title of a quiz",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		q, err := quiz.NewService(d.client, nil, d.logger).Rename(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return render(q, func() { fmt.Printf("Renamed quiz %s to %q\n", q.ID, q.Title) })
	},
}

// quizDeleteCmd deletes a quiz with its variants and items.
var quizDeleteCmd = &cobra.Command{
	Use:   "delete [quiz-id]",
	Short: "Delete a quiz with its variants and items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		if !confirm(fmt.Sprintf("delete quiz %s with all its variants and items", args[0])) {
			fmt.Println("Aborted.")
			return nil
		}
		if err := quiz.NewService(d.client, nil, d.logger).Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted quiz %s\n", args[0])
		return nil
	},
}

func init() {
	quizDeleteCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm deletion (non-interactive)")
	quizCmd.AddCommand(quizRenameCmd, quizDeleteCmd)
}
