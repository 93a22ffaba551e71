package inference_test

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ajitpratap0/csvtype/pkg/config"
	"github.com/ajitpratap0/csvtype/pkg/inference"
	"github.com/ajitpratap0/csvtype/pkg/patterns"
)

func Example() {
	cfg := config.Default()
	cfg.Delimiter = ";"
	cfg.ColTypePatterns = patterns.PatternSet{
		{Name: "int", Patterns: []string{`^[-+]?\d+$`}},
		{Name: "alpha", Patterns: []string{`^[a-zA-Z]+$`}},
	}
	cfg.NAValues = []string{"NA"}

	ctx := context.Background()
	inf, err := inference.New(ctx, filepath.Join("testdata", "multi_column.csv"), cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := inf.InferTypes(ctx); err != nil {
		fmt.Println(err)
		return
	}

	types, _ := inf.MostLikelyOrdered()
	for _, ct := range types {
		fmt.Printf("%s: %s (%.3f)\n", ct.Column, ct.Label, ct.Ratio)
	}
	// Output:
	// col_1: int (0.750)
	// col_2: alpha (0.375)
}
