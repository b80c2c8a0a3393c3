package leaderboard

import (
	"fmt"
	"strings"
)

// FormatReport renders the rank query answer the way it is sent to users.
// Computation lives in Build; this is presentation only.
func FormatReport(report *Report) string {
	var b strings.Builder

	if report.Target == nil {
		b.WriteString("I have not listened to any songs sent by you yet. I am therefore not able to give you your rank. \U0001F625\n\n")
	} else {
		t := report.Target
		countryWord := "countries"
		if len(t.Countries) == 1 {
			countryWord = "country"
		}
		minuteWord := "minutes"
		if t.TotalListenedMin == 1 {
			minuteWord = "minute"
		}
		b.WriteString(fmt.Sprintf(
			"You have already accompanied me on %vkm in %d %s (%s) with your music! That ranks you place %d on my top DJ list. "+
				"I have listened to the songs you sent me for a total of %d %s. So my average speed during that time was %vkm/h!\n\n",
			t.TotalDistanceKm, len(t.Countries), countryWord, strings.Join(t.Countries, ", "),
			t.Rank, t.TotalListenedMin, minuteWord, t.AverageSpeedKmh))
		if t.Rank == 1 {
			b.WriteString("You are my favorite DJ at the moment! \U0001F947 Thank you for your most appreciated support \U0001F618.\n\n")
		} else {
			b.WriteString(fmt.Sprintf(
				"The person a rank above you accompanied me by %vkm more than you. Let's close that gap and make YOU my top DJ! \U0001F4BF\n\n",
				t.GapToAboveKm))
		}
	}

	if len(report.Entries) == 0 {
		b.WriteString("I have not been sent any songs yet and can therefore not show you a leaderboard. \U0001F625\n")
		return b.String()
	}

	b.WriteString("My top 10 DJs:\n")
	for _, entry := range report.Top {
		b.WriteString(fmt.Sprintf("%d. %s - %vkm\n", entry.Rank, entry.Sender.DisplayName(), entry.TotalDistanceKm))
	}
	if len(report.Window) > 0 {
		b.WriteString("...\n")
		for _, entry := range report.Window {
			b.WriteString(fmt.Sprintf("%d. %s - %vkm\n", entry.Rank, entry.Sender.DisplayName(), entry.TotalDistanceKm))
		}
	}
	return b.String()
}
