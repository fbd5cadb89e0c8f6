package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/prodex/internal/domain/ranking"
	"github.com/kailas-cloud/prodex/internal/domain/survey"
	"github.com/kailas-cloud/prodex/internal/format"
)

var (
	skinType      string
	concerns      []string
	sensitivities []string
	goals         []string
	budget        string
	crueltyFree   bool
	vegan         bool
	fragranceFree bool
	alcoholFree   bool

	query        string
	category     string
	source       string
	limit        int
	outputFormat string
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Rank products for a skin profile",
	Long: `Rank catalog products against a survey built from flags.
The catalog is ingested first if the store is empty or out of date.

Examples:
  prodex retrieve --skin-type oily --concern acne --concern "large pores"
  prodex retrieve --skin-type dry --category moisturizer --limit 3 --format chat
  prodex retrieve --query "mineral sunscreen" --source discovery-only`,
	RunE: runRetrieve,
}

func init() {
	f := retrieveCmd.Flags()
	f.StringVar(&skinType, "skin-type", "", "Skin type: oily, dry, combination, normal, sensitive")
	f.StringSliceVar(&concerns, "concern", nil, "Skin concern (repeatable)")
	f.StringSliceVar(&sensitivities, "sensitivity", nil, "Ingredient sensitivity (repeatable)")
	f.StringSliceVar(&goals, "goal", nil, "Skincare goal (repeatable)")
	f.StringVar(&budget, "budget", "", "Budget range: budget, mid, premium")
	f.BoolVar(&crueltyFree, "cruelty-free", false, "Prefer cruelty-free products")
	f.BoolVar(&vegan, "vegan", false, "Prefer vegan products")
	f.BoolVar(&fragranceFree, "fragrance-free", false, "Prefer fragrance-free products")
	f.BoolVar(&alcoholFree, "alcohol-free", false, "Prefer alcohol-free products")

	f.StringVarP(&query, "query", "q", "", "Free-text query blended into the survey vector")
	f.StringVar(&category, "category", "", "Restrict to one category")
	f.StringVar(&source, "source", string(ranking.SourceAll), "Source filter: all, marketplace-only, discovery-only")
	f.IntVarP(&limit, "limit", "l", 0, "Maximum number of products (0 uses the configured default)")
	f.StringVarP(&outputFormat, "format", "o", "json", "Output format: json, chat")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, _ []string) error {
	if outputFormat != "json" && outputFormat != "chat" {
		return fmt.Errorf("unknown format %q (want json or chat)", outputFormat)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	resp, err := a.retrieval.Retrieve(ctx, surveyFromFlags(), ranking.Options{
		Category:             category,
		Limit:                limit,
		NaturalLanguageQuery: query,
		SourceFilter:         ranking.SourceFilter(source),
	})
	if err != nil {
		return fmt.Errorf("retrieve: %w", err)
	}
	return printResponse(cmd.OutOrStdout(), &resp, outputFormat)
}

func surveyFromFlags() survey.Survey {
	return survey.Survey{
		SkinType:      skinType,
		Concerns:      concerns,
		Sensitivities: sensitivities,
		Goals:         goals,
		Preferences: survey.Preferences{
			CrueltyFree:   crueltyFree,
			Vegan:         vegan,
			FragranceFree: fragranceFree,
			AlcoholFree:   alcoholFree,
			BudgetRange:   survey.BudgetRange(budget),
		},
	}
}

func printResponse(w io.Writer, resp *ranking.Response, f string) error {
	if f == "chat" {
		_, err := fmt.Fprintln(w, format.Chat(resp))
		return err
	}
	data, err := json.MarshalIndent(format.JSON(resp), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
