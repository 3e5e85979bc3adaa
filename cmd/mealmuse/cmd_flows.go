package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mealmuse/internal/identity"
	"mealmuse/internal/planner"
)

var (
	planMood        string
	planGoals       string
	planIngredients string
	signupPassword  string
	usageDays       int
	cleanupDays     int
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a meal plan for a mood, goals and ingredients",
	Long: `Generates breakfast, lunch, dinner and snacks.

Example:
  mealmuse plan --mood tired --goals low-carb --ingredients "eggs, spinach"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.planner.GenerateMealPlan(cmd.Context(), planner.MealPlanRequest{
			Mood:                 planMood,
			DietaryGoals:         planGoals,
			AvailableIngredients: planIngredients,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

var festivalCmd = &cobra.Command{
	Use:   "festival [location]",
	Short: "Suggest dishes for a current or upcoming festival",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.planner.SuggestFestivalMeals(cmd.Context(), planner.FestivalRequest{Location: strings.Join(args, " ")})
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

var recipeCmd = &cobra.Command{
	Use:   "recipe [dish]",
	Short: "Fetch a recipe for a dish",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.planner.GetRecipe(cmd.Context(), planner.RecipeRequest{DishName: strings.Join(args, " ")})
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup [email]",
	Short: "Create an account with the identity provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		svc := identity.NewService(identity.NewToolkitClient(a.cfg), a.log)
		acct, err := svc.CreateUser(cmd.Context(), args[0], signupPassword)
		if err != nil {
			return err
		}
		return printJSON(cmd, acct)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print daily token usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if a.metrics == nil {
			return fmt.Errorf("metrics are disabled: DATABASE_PATH is empty")
		}
		usage, err := a.metrics.GetDailyUsage(usageDays)
		if err != nil {
			return err
		}
		return printJSON(cmd, usage)
	},
}

var metricsCleanupCmd = &cobra.Command{
	Use:   "metrics-cleanup",
	Short: "Remove old metric records",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if a.metrics == nil {
			return fmt.Errorf("metrics are disabled: DATABASE_PATH is empty")
		}
		affected, err := a.metrics.Cleanup(cleanupDays)
		if err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully removed %d old metric records.\n", affected)
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planMood, "mood", "", "how you feel today")
	planCmd.Flags().StringVar(&planGoals, "goals", "", "dietary goals")
	planCmd.Flags().StringVar(&planIngredients, "ingredients", "", "ingredients you have")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "account password (at least 6 characters)")
	metricsCmd.Flags().IntVar(&usageDays, "days", 7, "number of days to report")
	metricsCleanupCmd.Flags().IntVar(&cleanupDays, "days", 30, "keep records for the last N days")
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
