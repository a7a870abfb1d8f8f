package ncm

import (
	"sort"
	"strings"
)

// maxSearchResults caps how many matches a single query returns.
const maxSearchResults = 15

// Match is one search hit: a code plus its description, ordered by
// relevance.
type Match struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// synonyms maps common Portuguese shopping terms to catalog vocabulary, so
// a query for "celular" also scores descriptions mentioning "telefone".
var synonyms = map[string][]string{
	"celular":    {"telefone", "smartphone", "móvel"},
	"smartphone": {"telefone", "celular", "móvel"},
	"camiseta":   {"t-shirt", "camisa", "blusa"},
	"tênis":      {"calçado", "sapato", "esportivo"},
	"sapato":     {"calçado", "tênis"},
	"bolsa":      {"mala", "bagagem", "couro"},
	"mala":       {"bolsa", "bagagem", "viagem"},
	"computador": {"máquina processamento", "notebook", "laptop"},
	"notebook":   {"computador", "laptop", "portátil"},
	"brinquedo":  {"jogos", "diversão", "criança"},
	"cosmético":  {"beleza", "maquiagem", "cuidado"},
	"perfume":    {"fragrância", "cosmético"},
	"óculos":     {"solar", "vista", "armação"},
	"automóvel":  {"carro", "veículo", "motor"},
	"carro":      {"automóvel", "veículo"},
	"móvel":      {"mobiliário", "casa", "madeira"},
	"ferramenta": {"equipamento", "utensílio"},
	"roupa":      {"vestuário", "têxtil", "confecção"},
	"alimento":   {"comida", "alimentício", "preparação"},
	"bebida":     {"água", "refrigerante"},
}

// expandQuery returns the query plus its synonyms, deduplicated.
func expandQuery(query string) []string {
	terms := []string{query}
	seen := map[string]bool{query: true}

	for term, related := range synonyms {
		if !strings.Contains(query, term) {
			continue
		}
		for _, s := range related {
			if !seen[s] {
				seen[s] = true
				terms = append(terms, s)
			}
		}
	}
	return terms
}

type scoredMatch struct {
	Match
	score int
}

// searchCatalog ranks catalog entries against the query. Code matches are
// exact hits and always sort first; description matches are scored by the
// expanded term set, then by the raw query.
func searchCatalog(entries []Entry, query string) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	terms := expandQuery(query)
	queryWords := strings.Fields(query)

	var exact []Match
	var partial []scoredMatch

	for _, entry := range entries {
		if strings.Contains(entry.Code, query) {
			exact = append(exact, Match{Code: entry.Code, Description: entry.Description})
			continue
		}

		description := strings.ToLower(entry.Description)
		score := 0
		for _, term := range terms {
			if strings.Contains(description, term) {
				score += 20
			} else if anyWordIn(description, strings.Fields(term)) {
				score += 10
			}
		}
		if strings.Contains(description, query) {
			score += 30
		} else if anyWordIn(description, queryWords) {
			score += 15
		}

		if score > 0 {
			partial = append(partial, scoredMatch{
				Match: Match{Code: entry.Code, Description: entry.Description},
				score: score,
			})
		}
	}

	sort.SliceStable(partial, func(i, j int) bool {
		return partial[i].score > partial[j].score
	})

	results := exact
	for _, m := range partial {
		results = append(results, m.Match)
	}
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results
}

func anyWordIn(description string, words []string) bool {
	for _, w := range words {
		if strings.Contains(description, w) {
			return true
		}
	}
	return false
}
