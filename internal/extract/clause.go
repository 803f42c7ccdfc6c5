package extract

import (
	"regexp"
	"strings"
)

// clauseMarkerRe finds lettered markers such as "(a)". The marker must open
// the text or follow whitespace or punctuation so "service(s)" is ignored.
var clauseMarkerRe = regexp.MustCompile(`(?i)(?:^|[\s;:,.])\(([a-z])\)`)

// sentenceBreakRe finds a full stop that starts a new capitalised sentence.
var sentenceBreakRe = regexp.MustCompile(`\.\s+[A-Z]`)

// clauseMatcher yields one match per lettered clause as
// {full, letter, clause}. A clause runs until the next marker, a semicolon,
// a newline, a sentence break or the end of the text.
type clauseMatcher struct{}

func (clauseMatcher) find(text string, n int) [][]string {
	locs := clauseMarkerRe.FindAllStringSubmatchIndex(text, -1)
	var out [][]string
	for i, loc := range locs {
		if n >= 0 && len(out) >= n {
			break
		}
		start := loc[1]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][2] - 1 // the '(' of the next marker
		}
		if stop := strings.IndexAny(text[start:end], ";\n"); stop >= 0 {
			end = start + stop
		}
		if brk := sentenceBreakRe.FindStringIndex(text[start:end]); brk != nil {
			end = start + brk[0]
		}
		clause := trimClause(text[start:end])
		if clause == "" {
			continue
		}
		out = append(out, []string{text[loc[2]-1 : end], strings.ToLower(text[loc[2]:loc[3]]), clause})
	}
	return out
}

func trimClause(s string) string {
	s = collapseSpace(s)
	for {
		before := s
		s = strings.TrimRight(s, " ,.:")
		s = strings.TrimSuffix(s, " and")
		s = strings.TrimSuffix(s, " or")
		if s == before {
			return s
		}
	}
}
