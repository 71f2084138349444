package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/nutrilog/internal/constants"
	"github.com/julianstephens/nutrilog/internal/models"
)

// FormatAmount renders a nutrient amount without trailing zeros.
func FormatAmount(v float64) string {
	return humanize.FtoaWithDigits(v, 1)
}

// FormatMacros renders "P 62g · C 0g · F 7g".
func FormatMacros(protein, carbs, fat float64) string {
	return fmt.Sprintf("P %sg · C %sg · F %sg", FormatAmount(protein), FormatAmount(carbs), FormatAmount(fat))
}

// FormatEntry renders one entry as a single listing line.
func FormatEntry(e models.Entry, loc *time.Location) string {
	image := ""
	if e.HasImage() {
		image = " 📷"
	}
	return fmt.Sprintf("%s  %-28s %6s kcal  %s%s  [%s]",
		e.Date.In(loc).Format(constants.TimestampFormat),
		e.Name,
		FormatAmount(e.Calories),
		FormatMacros(e.Protein, e.Carbs, e.Fat),
		image,
		e.ID,
	)
}

// FormatSplit renders "P 74% · C 0% · F 26%".
func FormatSplit(s models.MacroSplit) string {
	return fmt.Sprintf("P %d%% · C %d%% · F %d%%", s.Protein, s.Carbs, s.Fat)
}
