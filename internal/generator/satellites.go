package generator

import "strings"

var satellites = []string{
	"STARLINK 113", "STARLINK 22", "STARLINK 92", "STARLINK 45", "STARLINK 78",
	"ONEWEB 32", "ONEWEB 66", "ONEWEB 12", "ONEWEB 89",
	"IRIDIUM 24", "IRIDIUM 56", "GLOBALSTAR 33",
}

// Operator country by constellation name prefix
var owners = []struct {
	prefix  string
	country string
}{
	{"STARLINK", "USA"},
	{"ONEWEB", "UK"},
	{"IRIDIUM", "USA"},
	{"GLOBALSTAR", "USA"},
	{"BEIDOU", "CHN"},
	{"QZS", "JPN"},
}

// Satellites returns a copy of the satellite name list
func Satellites() []string {
	out := make([]string, len(satellites))
	copy(out, satellites)
	return out
}

// Owner returns the operator country for a satellite name, or "Unknown"
func Owner(name string) string {
	upper := strings.ToUpper(name)
	for _, o := range owners {
		if strings.HasPrefix(upper, o.prefix) {
			return o.country
		}
	}
	return "Unknown"
}
