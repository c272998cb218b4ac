package movie

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
)

// FieldError describes one violation of the movie schema.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every schema violation found in a candidate.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Reason)
	}
	return "invalid movie: " + strings.Join(parts, "; ")
}

// Has reports whether field has at least one violation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// BodyField is the field name reported when the payload itself is unusable.
const BodyField = "body"

// Patch holds the fields supplied in a partial update. Nil means absent.
type Patch struct {
	Title    *string
	Year     *int
	Director *string
	Duration *int
	Poster   *string
	Genre    []string
	Rate     *float64
}

// IsEmpty reports whether the patch carries no fields.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Year == nil && p.Director == nil && p.Duration == nil &&
		p.Poster == nil && p.Genre == nil && p.Rate == nil
}

// Apply returns m with every present field of p overwritten. ID is never touched.
func (p Patch) Apply(m Movie) Movie {
	out := m.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Year != nil {
		out.Year = *p.Year
	}
	if p.Director != nil {
		out.Director = *p.Director
	}
	if p.Duration != nil {
		out.Duration = *p.Duration
	}
	if p.Poster != nil {
		out.Poster = *p.Poster
	}
	if p.Genre != nil {
		out.Genre = append([]string(nil), p.Genre...)
	}
	if p.Rate != nil {
		out.Rate = *p.Rate
	}
	return out
}

type fieldRule struct {
	name     string
	required bool
	parse    func(raw json.RawMessage, p *Patch) string
}

// rules are evaluated in this order so violations are reported deterministically.
var rules = []fieldRule{
	{"title", true, func(raw json.RawMessage, p *Patch) string {
		s, reason := readString(raw, checkTitle)
		p.Title = s
		return reason
	}},
	{"year", true, func(raw json.RawMessage, p *Patch) string {
		n, reason := readInt(raw, checkYear)
		p.Year = n
		return reason
	}},
	{"director", true, func(raw json.RawMessage, p *Patch) string {
		s, reason := readString(raw, checkDirector)
		p.Director = s
		return reason
	}},
	{"duration", true, func(raw json.RawMessage, p *Patch) string {
		n, reason := readInt(raw, checkDuration)
		p.Duration = n
		return reason
	}},
	{"poster", true, func(raw json.RawMessage, p *Patch) string {
		s, reason := readString(raw, checkPoster)
		p.Poster = s
		return reason
	}},
	{"genre", true, func(raw json.RawMessage, p *Patch) string {
		g, reason := readGenres(raw)
		p.Genre = g
		return reason
	}},
	{"rate", false, func(raw json.RawMessage, p *Patch) string {
		f, reason := readNumber(raw, checkRate)
		p.Rate = f
		return reason
	}},
}

// ValidateFull checks a complete movie payload. Every required field must be
// present and valid; rate defaults to 0. The returned movie has no ID.
func ValidateFull(data []byte) (Movie, error) {
	p, err := parse(data, true)
	if err != nil {
		return Movie{}, err
	}
	return p.Apply(Movie{}), nil
}

// ValidatePartial checks a partial update payload. Fields are optional but
// those present must be valid. An empty object yields an empty patch.
func ValidatePartial(data []byte) (Patch, error) {
	return parse(data, false)
}

func parse(data []byte, full bool) (Patch, error) {
	verr := &ValidationError{}
	var p Patch

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		verr.add(BodyField, "must be a JSON object")
		return p, verr
	}

	for _, rule := range rules {
		raw, ok := obj[rule.name]
		if !ok {
			if full && rule.required {
				verr.add(rule.name, "is required")
			}
			continue
		}
		if isNull(raw) {
			verr.add(rule.name, "must not be null")
			continue
		}
		if reason := rule.parse(raw, &p); reason != "" {
			verr.add(rule.name, reason)
		}
	}

	var unknown []string
	for key := range obj {
		if !knownField(key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		verr.add(key, "unknown field")
	}

	if err := verr.orNil(); err != nil {
		return Patch{}, err
	}
	return p, nil
}

// ValidateRecord checks an already decoded record, such as seed data.
// Unlike ValidateFull it requires an ID.
func ValidateRecord(m Movie) error {
	verr := &ValidationError{}
	if strings.TrimSpace(m.ID) == "" {
		verr.add("id", "is required")
	}
	check := func(field, reason string) {
		if reason != "" {
			verr.add(field, reason)
		}
	}
	check("title", checkTitle(m.Title))
	check("year", checkYear(m.Year))
	check("director", checkDirector(m.Director))
	check("duration", checkDuration(m.Duration))
	check("poster", checkPoster(m.Poster))
	check("genre", checkGenres(m.Genre))
	check("rate", checkRate(m.Rate))
	return verr.orNil()
}

func knownField(name string) bool {
	for _, r := range rules {
		if r.name == name {
			return true
		}
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// jsonKind returns the first byte of the trimmed value, which identifies its JSON type.
func jsonKind(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}

func isNumberKind(k byte) bool {
	return k == '-' || (k >= '0' && k <= '9')
}

func readString(raw json.RawMessage, check func(string) string) (*string, string) {
	if jsonKind(raw) != '"' {
		return nil, "must be a string"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, "must be a string"
	}
	s = strings.TrimSpace(s)
	if reason := check(s); reason != "" {
		return nil, reason
	}
	return &s, ""
}

func readNumber(raw json.RawMessage, check func(float64) string) (*float64, string) {
	if !isNumberKind(jsonKind(raw)) {
		return nil, "must be a number"
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, "must be a number"
	}
	if reason := check(f); reason != "" {
		return nil, reason
	}
	return &f, ""
}

func readInt(raw json.RawMessage, check func(int) string) (*int, string) {
	if !isNumberKind(jsonKind(raw)) {
		return nil, "must be an integer"
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || f != math.Trunc(f) ||
		f > math.MaxInt32 || f < math.MinInt32 {
		return nil, "must be an integer"
	}
	n := int(f)
	if reason := check(n); reason != "" {
		return nil, reason
	}
	return &n, ""
}

func readGenres(raw json.RawMessage) ([]string, string) {
	if jsonKind(raw) != '[' {
		return nil, "must be an array of genres"
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, "must be an array of genres"
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		if jsonKind(item) != '"' {
			return nil, fmt.Sprintf("item %d must be a string", i)
		}
		var g string
		if err := json.Unmarshal(item, &g); err != nil {
			return nil, fmt.Sprintf("item %d must be a string", i)
		}
		out = append(out, g)
	}
	if reason := checkGenres(out); reason != "" {
		return nil, reason
	}
	return out, ""
}

func checkTitle(s string) string {
	if strings.TrimSpace(s) == "" {
		return "must not be empty"
	}
	return ""
}

func checkDirector(s string) string {
	if strings.TrimSpace(s) == "" {
		return "must not be empty"
	}
	return ""
}

func checkYear(n int) string {
	if maxYear := MaxYear(); n < MinYear || n > maxYear {
		return fmt.Sprintf("must be between %d and %d", MinYear, maxYear)
	}
	return ""
}

func checkDuration(n int) string {
	if n <= 0 {
		return "must be a positive number of minutes"
	}
	return ""
}

func checkRate(f float64) string {
	if math.IsNaN(f) || f < MinRate || f > MaxRate {
		return fmt.Sprintf("must be between %g and %g", MinRate, MaxRate)
	}
	return ""
}

func checkPoster(s string) string {
	u, err := url.ParseRequestURI(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "must be a valid http or https URL"
	}
	return ""
}

func checkGenres(gs []string) string {
	if len(gs) == 0 {
		return "must contain at least one genre"
	}
	for i, g := range gs {
		if IsGenre(g) {
			continue
		}
		reason := fmt.Sprintf("item %d: %q is not a known genre", i, g)
		if s := SuggestGenre(g); s != "" {
			reason += fmt.Sprintf(" (did you mean %q?)", s)
		}
		return reason
	}
	return ""
}
