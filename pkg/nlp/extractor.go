package nlp

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type serviceSynonym struct {
	keyword   string
	canonical string
}

type Extractor struct {
	roster          []string
	serviceSynonyms []serviceSynonym
	serviceOptions  []string
	nailsKeywords   []string
	otherKeywords   []string
	greetingTokens  []string
	resetTokens     []string
	yesTokens       []string
	amMarkers       []string
	pmMarkers       []string
}

func NewExtractor() *Extractor {
	return &Extractor{
		roster: []string{"Damaris", "Fabiola"},

		// Matched longest-first against normalized text, matched regions are
		// masked so "gel" never fires inside "polygel".
		serviceSynonyms: []serviceSynonym{
			{"semipermanentes", "Semipermanente"},
			{"semipermanente", "Semipermanente"},
			{"semi", "Semipermanente"},
			{"gel", "Semipermanente"},
			{"poligel", "Polygel"},
			{"polygel", "Polygel"},
			{"poly", "Polygel"},
			{"acrilicas", "Acrílico"},
			{"acrilico", "Acrílico"},
			{"acrilica", "Acrílico"},
			{"tradicionales", "Tradicional"},
			{"tradicional", "Tradicional"},
			{"normales", "Tradicional"},
			{"press on", "Press On"},
			{"presson", "Press On"},
		},

		// Letter options offered in the technique menu, in display order.
		serviceOptions: []string{"Polygel", "Semipermanente", "Acrílico", "Tradicional", "Press On"},

		nailsKeywords: []string{"unas", "nails", "manicure", "manicura", "pedicure", "pedicura", "manos"},
		otherKeywords: []string{"otro servicio", "otros servicios", "corte", "tinte", "cabello", "peinado", "keratina", "balayage", "cejas", "pestanas"},

		greetingTokens: []string{"hola", "buenas", "buenos dias", "buenas tardes", "buenas noches", "hello", "hey"},
		resetTokens:    []string{"reiniciar", "reset", "empezar de nuevo", "menu"},
		yesTokens:      []string{"si", "sii", "ok", "okay", "dale", "listo", "claro", "confirmo", "confirmar", "de una", "yes", "perfecto"},

		amMarkers: []string{"am", "a m", "de la manana", "por la manana", "en la manana", "madrugada"},
		pmMarkers: []string{"pm", "p m", "de la tarde", "por la tarde", "en la tarde", "de la noche", "por la noche", "en la noche", "tarde", "noche", "mediodia", "medio dia"},
	}
}

// Extract runs the full pipeline on one message: intent, date/time with
// meridiem disambiguation, and the professional/service pairing heuristic.
func (e *Extractor) Extract(text string, now time.Time) ParsedMessage {
	clean := normalizeText(text)

	return ParsedMessage{
		Intent:   e.classifyIntent(clean),
		DateTime: e.parseDateTime(clean, now),
		Requests: e.extractRequests(clean),
	}
}

func (e *Extractor) Roster() []string {
	return e.roster
}

func (e *Extractor) ServiceMenu() []string {
	return e.serviceOptions
}

func (e *Extractor) classifyIntent(clean string) Intent {
	for _, kw := range e.otherKeywords {
		if strings.Contains(clean, kw) {
			return IntentOtherService
		}
	}

	for _, kw := range e.nailsKeywords {
		if strings.Contains(clean, kw) {
			return IntentNails
		}
	}

	// A technique name alone implies nails.
	if e.MatchService(clean) != "" {
		return IntentNails
	}

	return IntentUnknown
}

// MenuOption resolves a bare 1/2 reply to the welcome menu, 0 when the
// message is anything else. Only meaningful right after the menu was shown,
// a bare number elsewhere picks a professional instead.
func (e *Extractor) MenuOption(text string) int {
	switch strings.TrimSpace(normalizeText(text)) {
	case "1":
		return 1
	case "2":
		return 2
	}
	return 0
}

// MatchService returns the canonical service named anywhere in the text,
// or "" when none matched.
func (e *Extractor) MatchService(text string) string {
	hits := e.findServices(normalizeText(text))
	if len(hits) == 0 {
		return ""
	}
	return hits[0].value
}

// MatchProfessional returns the roster member named anywhere in the text.
func (e *Extractor) MatchProfessional(text string) string {
	hits := e.findProfessionals(normalizeText(text))
	if len(hits) == 0 {
		return ""
	}
	return hits[0].value
}

// ServiceOption resolves a bare letter reply (A, B, C...) against the
// technique menu.
func (e *Extractor) ServiceOption(text string) string {
	clean := strings.TrimSpace(normalizeText(text))
	if len(clean) != 1 {
		return ""
	}

	idx := int(clean[0] - 'a')
	if idx < 0 || idx >= len(e.serviceOptions) {
		return ""
	}
	return e.serviceOptions[idx]
}

// ProfessionalOption resolves a bare number reply against the roster.
func (e *Extractor) ProfessionalOption(text string) string {
	clean := strings.TrimSpace(normalizeText(text))
	if len(clean) != 1 {
		return ""
	}

	idx := int(clean[0] - '1')
	if idx < 0 || idx >= len(e.roster) {
		return ""
	}
	return e.roster[idx]
}

func (e *Extractor) IsGreeting(text string) bool {
	return containsAny(normalizeText(text), e.greetingTokens)
}

func (e *Extractor) IsReset(text string) bool {
	return containsAny(normalizeText(text), e.resetTokens)
}

func (e *Extractor) IsAffirmative(text string) bool {
	clean := strings.TrimSpace(normalizeText(text))
	for _, token := range e.yesTokens {
		if clean == token || strings.HasPrefix(clean, token+" ") {
			return true
		}
	}
	return false
}

// DetectMeridiem scans the whole message for an explicit AM/PM marker.
func (e *Extractor) DetectMeridiem(text string) Meridiem {
	return e.meridiem(normalizeText(text))
}

func (e *Extractor) meridiem(clean string) Meridiem {
	// AM first: "de la manana" must win over the bare "manana" day word, and
	// none of the AM markers is a substring of a PM one.
	for _, marker := range e.amMarkers {
		if containsMarker(clean, marker) {
			return MeridiemAM
		}
	}
	for _, marker := range e.pmMarkers {
		if containsMarker(clean, marker) {
			return MeridiemPM
		}
	}

	return MeridiemNone
}

// MeridiemAnswer interprets a direct reply to the morning-or-afternoon
// question, where a bare "manana" means morning rather than tomorrow.
func (e *Extractor) MeridiemAnswer(text string) Meridiem {
	clean := normalizeText(text)
	if mer := e.meridiem(clean); mer != MeridiemNone {
		return mer
	}
	switch {
	case containsMarker(clean, "manana") || containsMarker(clean, "madrugada") || containsMarker(clean, "am") || strings.TrimSpace(clean) == "1":
		return MeridiemAM
	case containsMarker(clean, "tarde") || containsMarker(clean, "noche") || containsMarker(clean, "pm") || strings.TrimSpace(clean) == "2":
		return MeridiemPM
	}
	return MeridiemNone
}

type entityHit struct {
	pos   int
	value string
}

func (e *Extractor) findProfessionals(clean string) []entityHit {
	var hits []entityHit
	for _, name := range e.roster {
		if pos := strings.Index(clean, normalizeText(name)); pos >= 0 {
			hits = append(hits, entityHit{pos: pos, value: name})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	return hits
}

func (e *Extractor) findServices(clean string) []entityHit {
	masked := []byte(clean)
	seen := make(map[string]bool)
	var hits []entityHit

	synonyms := make([]serviceSynonym, len(e.serviceSynonyms))
	copy(synonyms, e.serviceSynonyms)
	sort.SliceStable(synonyms, func(i, j int) bool {
		return len(synonyms[i].keyword) > len(synonyms[j].keyword)
	})

	for _, syn := range synonyms {
		pos := strings.Index(string(masked), syn.keyword)
		if pos < 0 || seen[syn.canonical] {
			continue
		}

		seen[syn.canonical] = true
		hits = append(hits, entityHit{pos: pos, value: syn.canonical})
		for i := pos; i < pos+len(syn.keyword); i++ {
			masked[i] = '#'
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	return hits
}

// extractRequests applies the pairing heuristic for multi-entity messages.
// Best effort only: positional pairing can mispair when the client phrases
// things unusually, the confirmation summary gives them a chance to bail.
func (e *Extractor) extractRequests(clean string) []RequestCandidate {
	professionals := e.findProfessionals(clean)
	services := e.findServices(clean)

	// List conjunction with several professionals: extract per segment.
	if len(professionals) > 1 && strings.Contains(clean, " y ") {
		var requests []RequestCandidate
		for _, segment := range strings.Split(clean, " y ") {
			segPros := e.findProfessionals(segment)
			segSvcs := e.findServices(segment)

			req := RequestCandidate{}
			if len(segPros) > 0 {
				req.Professional = segPros[0].value
			}
			if len(segSvcs) > 0 {
				req.Service = segSvcs[0].value
			}
			if req.Professional != "" || req.Service != "" {
				requests = append(requests, req)
			}
		}
		if len(requests) > 0 {
			// One service named for the whole list covers every segment.
			if len(services) == 1 {
				for i := range requests {
					if requests[i].Service == "" {
						requests[i].Service = services[0].value
					}
				}
			}
			return requests
		}
	}

	switch {
	case len(professionals) == len(services) && len(professionals) > 0:
		requests := make([]RequestCandidate, len(professionals))
		for i := range professionals {
			requests[i] = RequestCandidate{
				Professional: professionals[i].value,
				Service:      services[i].value,
			}
		}
		return requests

	case len(services) == 1 && len(professionals) >= 1:
		requests := make([]RequestCandidate, len(professionals))
		for i := range professionals {
			requests[i] = RequestCandidate{
				Professional: professionals[i].value,
				Service:      services[0].value,
			}
		}
		return requests

	case len(professionals) == 1 && len(services) > 1:
		names := make([]string, len(services))
		for i := range services {
			names[i] = services[i].value
		}
		return []RequestCandidate{{
			Professional: professionals[0].value,
			Service:      strings.Join(names, " + "),
		}}

	case len(professionals) == 1:
		return []RequestCandidate{{Professional: professionals[0].value}}

	case len(services) == 1:
		return []RequestCandidate{{Service: services[0].value}}

	case len(services) > 1:
		names := make([]string, len(services))
		for i := range services {
			names[i] = services[i].value
		}
		return []RequestCandidate{{Service: strings.Join(names, " + ")}}
	}

	return nil
}

func containsAny(clean string, tokens []string) bool {
	for _, token := range tokens {
		if containsMarker(clean, token) {
			return true
		}
	}
	return false
}

// containsMarker matches a token on word boundaries so "am" does not fire
// inside "mañana" or "Damaris".
func containsMarker(clean, marker string) bool {
	padded := " " + clean + " "
	return strings.Contains(padded, " "+marker+" ")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// normalizeText lowercases, strips diacritics and punctuation, and collapses
// whitespace, so keyword tables can be kept in plain ASCII.
func normalizeText(text string) string {
	text = strings.ToLower(text)

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, text)

	// ':' and '/' survive so clock times and short dates stay parseable.
	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == ':' || r == '/' {
			return r
		}
		return ' '
	}, result)

	// Split "3pm" / "10am" so meridiem markers sit on word boundaries.
	var b strings.Builder
	prev := rune(0)
	for _, r := range result {
		if unicode.IsDigit(prev) && unicode.IsLetter(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
		prev = r
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
