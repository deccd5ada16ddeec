// Offline matcher: scores a grant workbook against a profile YAML without a
// server or database. Useful for trying out a spreadsheet before uploading.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/david/grant-matcher/internal/ai"
	"github.com/david/grant-matcher/internal/export"
	"github.com/david/grant-matcher/internal/ingest"
	"github.com/david/grant-matcher/internal/match"
	"github.com/david/grant-matcher/internal/models"
	"github.com/david/grant-matcher/internal/profile"
)

func main() {
	profilePath := flag.String("profile", "", "Profile YAML (questionnaire answers)")
	grantsPath := flag.String("grants", "", "Grant workbook (.xlsx)")
	workers := flag.Int("workers", 4, "Parallel scoring workers")
	tierCap := flag.Int("tier-cap", match.DefaultTierCap, "Max results shown per tier")
	mdOut := flag.String("md", "", "Write a markdown report to this path")
	csvOut := flag.String("csv", "", "Write a CSV export to this path")
	flag.Parse()

	if *profilePath == "" || *grantsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	now := time.Now().UTC()

	raw, err := os.ReadFile(*profilePath)
	if err != nil {
		log.Fatalf("Failed to read profile: %v", err)
	}
	var answers models.QuestionnaireAnswers
	if err := yaml.Unmarshal(raw, &answers); err != nil {
		log.Fatalf("Failed to parse profile YAML: %v", err)
	}
	var prof models.OrganizationProfile
	profile.ApplyQuestionnaire(&prof, answers, now)

	workbook, err := ingest.ParseWorkbook(*grantsPath)
	if err != nil {
		log.Fatalf("Failed to parse workbook: %v", err)
	}
	for _, re := range workbook.RowErrors {
		log.Printf("Skipped row %d on sheet %q: %s", re.Row, re.Sheet, re.Err)
	}
	if len(workbook.Grants) == 0 {
		log.Fatal("Workbook contains no usable grants")
	}

	run, err := match.Run(prof, workbook.Grants, now, match.Options{
		Workers: *workers,
		TierCap: *tierCap,
	})
	if err != nil {
		log.Fatalf("Match run failed: %v", err)
	}
	run.RunID = uuid.New()

	for bi := range run.Buckets {
		for mi := range run.Buckets[bi].Matches {
			m := &run.Buckets[bi].Matches[mi]
			m.Explanation = ai.RenderExplanation(*m)
		}
	}

	export.RenderTables(os.Stdout, run)
	fmt.Printf("\nEvaluated %d grants (%d skipped)\n", run.TotalEvaluated, len(run.Skipped))

	if *mdOut != "" {
		report := export.Markdown(run, prof.Facts.Name)
		if err := os.WriteFile(*mdOut, []byte(report), 0o644); err != nil {
			log.Fatalf("Failed to write markdown report: %v", err)
		}
		fmt.Printf("Markdown report written to %s\n", *mdOut)
	}
	if *csvOut != "" {
		f, err := os.Create(*csvOut)
		if err != nil {
			log.Fatalf("Failed to create CSV file: %v", err)
		}
		if err := export.CSV(f, run); err != nil {
			f.Close()
			log.Fatalf("Failed to write CSV: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("Failed to close CSV file: %v", err)
		}
		fmt.Printf("CSV export written to %s\n", *csvOut)
	}
}
