package dashboard

import "time"

// DateLabelLayout renders window entries as MM.DD
const DateLabelLayout = "01.02"

// DateWindow returns days consecutive labels starting at today
func DateWindow(today time.Time, days int) []string {
	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, today.AddDate(0, 0, i).Format(DateLabelLayout))
	}
	return dates
}

// carousel returns up to three labels centred on index
func carousel(dates []string, index int) []string {
	if len(dates) == 0 {
		return nil
	}
	lo := index - 1
	if lo < 0 {
		lo = 0
	}
	hi := index + 2
	if hi > len(dates) {
		hi = len(dates)
	}
	out := make([]string, hi-lo)
	copy(out, dates[lo:hi])
	return out
}
