package score

import "strings"

// Category vocabulary across EN, RO, ES, FR, DE, IT. The broad table drives
// the +40 keyword boost and doubles as the navigator fallback vocabulary;
// the strong table marks terms specific enough to stand on their own.
var categoryTerms = map[string][]string{
	"politics": {
		"politics", "politic", "politica", "politique", "politik",
		"administratie", "administration", "gobierno", "regierung", "governo",
	},
	"sports": {
		"sport", "sports", "deporte", "deportes", "fotbal", "football", "soccer", "futbol",
	},
	"economy": {
		"economy", "business", "financial", "economie", "economia", "wirtschaft", "finanzen",
		"bani", "money", "dinero", "argent", "geld",
	},
	"social": {
		"social", "society", "societate", "sociedad", "société", "gesellschaft", "società",
		"community", "comunitate", "comunidad",
	},
	"culture": {
		"culture", "cultura", "kultur", "arts", "life", "lifestyle", "monden", "entertainment",
		"unterhaltung", "magazin", "magazine",
	},
}

var strongTerms = map[string][]string{
	"politics": {
		"parliament", "parlament", "election", "alegeri", "government", "guvern",
		"minister", "ministru", "senat", "primar", "mayor", "consiliu", "referendum",
		// budget terms belong to politics as well as economy
		"budget", "buget",
	},
	"sports": {
		"campionat", "championship", "liga", "league", "meci", "match", "turneu", "tournament",
	},
	"economy": {
		"inflatie", "inflation", "budget", "buget", "investitie", "investment",
		"piata", "market", "somaj", "unemployment",
	},
	"social": {
		"educatie", "education", "sanatate", "health", "pensii", "pension", "spital", "hospital",
	},
	"culture": {
		"festival", "concert", "expozitie", "exhibition", "teatru", "theatre", "muzeu", "museum",
	},
}

// Utility-notice vocabulary penalized outside the general category.
var noiseTerms = []string{
	"apa calda", "apa rece", "intrerupere", "avarie", "curent", "electricitate",
	"trafic", "restrictii", "accident", "incendiu", "minor", "program",
	"meteo", "vremea", "prognoza", "cod galben", "cod portocaliu",
}

// Off-topic vocabulary penalized regardless of category.
var suspiciousTerms = []string{
	"recipe", "retet", "receta", "recette", "rezept", "ricett", "mancare", "food", "kitchen", "bucatarie", "essen", "cucina",
	"horoscop", "horoscope", "horoskop", "zodiac", "zodiaque", "astrology",
	"can-can", "cancan", "paparazzi", "gossip", "tabloid", "klatsch", "potins",
	"cookie", "gdpr", "privacy", "termeni", "conditii",
}

// CategoryTerms returns the multilingual vocabulary for a category, with the
// category name itself prepended. Unknown categories yield just the name.
func CategoryTerms(category string) []string {
	category = strings.ToLower(strings.TrimSpace(category))
	terms := categoryTerms[category]
	out := make([]string, 0, len(terms)+1)
	out = append(out, category)
	for _, t := range terms {
		if t != category {
			out = append(out, t)
		}
	}
	return out
}
