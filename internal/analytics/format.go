package analytics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	monthAbbrev = [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}
	monthNames  = [12]string{
		"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
	}
)

// Locale is the only locale dashboards are rendered in.
var Locale = language.BrazilianPortuguese

// capitalize upper-cases the first rune only.
func capitalize(s string) string {
	for i, r := range s {
		return strings.ToUpper(string(r)) + s[i+len(string(r)):]
	}
	return s
}

// MonthLabel returns the capitalized three letter month, e.g. "Nov".
func MonthLabel(t time.Time) string {
	return capitalize(monthAbbrev[t.Month()-1])
}

// MonthName returns the capitalized full month name, e.g. "Novembro".
func MonthName(t time.Time) string {
	return capitalize(monthNames[t.Month()-1])
}

// MonthTitle returns the month and year heading, e.g. "Novembro 2024".
func MonthTitle(t time.Time) string {
	return fmt.Sprintf("%s %d", MonthName(t), t.Year())
}

// ActivityDate formats a fill-up date as "05 nov 2024".
func ActivityDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), monthAbbrev[t.Month()-1], t.Year())
}

// DayMonth formats a date as "dd/MM".
func DayMonth(t time.Time) string {
	return t.Format("02/01")
}

// Currency formats an amount as "R$ 1.234,56".
func Currency(v float64) string {
	p := message.NewPrinter(Locale)
	return "R$ " + p.Sprintf("%.2f", v)
}

// Distance formats kilometers with pt-BR grouping, e.g. "1.234 km".
func Distance(km float64) string {
	p := message.NewPrinter(Locale)
	return p.Sprintf("%d km", int64(math.Round(km)))
}

// Liters formats a volume with one decimal, e.g. "40.0 L".
func Liters(l float64) string {
	return fmt.Sprintf("%.1f L", l)
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
