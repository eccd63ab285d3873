package services

import (
	"fmt"
	"strings"

	"oikotie-analytics/models"
)

// PrintReport renders the daily summary to the terminal.
func PrintReport(r *models.RunReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📈 DAILY LISTING ANALYSIS — %s\033[0m\n", r.Date.Format("02/01/2006"))
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Dataset\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Objects collected : \033[1m%d\033[0m\n", r.ObjectCount)
	fmt.Println()

	fmt.Printf("\033[1;33m  Price Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.Summary == nil {
		fmt.Printf("  No price data available\n\n")
		fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
		return
	}
	fmt.Printf("  Average price : \033[1;32m€%.2f\033[0m\n", Round2(r.Summary.Mean))
	fmt.Printf("  Minimum price : \033[1;32m€%.2f\033[0m\n", Round2(r.Summary.Min))
	fmt.Printf("  Maximum price : \033[1;32m€%.2f\033[0m\n", Round2(r.Summary.Max))
	fmt.Println()

	fmt.Printf("\033[1;33m  Variation vs Last Record\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.Variation.DailyPct == nil {
		fmt.Printf("  ⚠️  No prior data — first recorded run\n")
	} else {
		fmt.Printf("  Since last record : \033[1m%+.2f%%\033[0m\n", Round2(*r.Variation.DailyPct))
		fmt.Printf("  Annualized rate   : \033[1m%+.2f%%\033[0m\n", Round2(*r.Variation.AnnualizedPct))
	}
	fmt.Println()

	if len(r.QuintileSizes) > 0 {
		fmt.Printf("\033[1;33m  Listings per €/m² Quintile\033[0m\n")
		fmt.Printf("  %s\n", thin)
		for bucket, count := range r.QuintileSizes {
			bar := strings.Repeat("█", scaleBar(count, r.QuintileSizes))
			fmt.Printf("  Q%d %s (%d)\n", bucket, bar, count)
		}
		fmt.Println()
	}

	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}

// scaleBar fits histogram bars into 40 columns.
func scaleBar(count int, sizes []int) int {
	max := 0
	for _, s := range sizes {
		if s > max {
			max = s
		}
	}
	if max == 0 {
		return 0
	}
	const width = 40
	if max <= width {
		return count
	}
	return count * width / max
}
