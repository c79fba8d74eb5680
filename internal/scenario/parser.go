// Package scenario turns free-text what-if questions into structured
// actions, simulates them against the portfolio and renders the result as
// a board-level narrative. The simulator never mutates its inputs.
package scenario

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/windwardhq/windward/internal/models"
)

// ParseError reports scenario input that matched no supported pattern.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse scenario %q: %s", e.Input, e.Reason)
}

// durationWeeks maps a duration unit to its length in weeks.
var durationWeeks = map[string]int{
	"week":       1,
	"weeks":      1,
	"fortnight":  2,
	"fortnights": 2,
	"month":      4,
	"months":     4,
	"quarter":    13,
	"quarters":   13,
	"year":       52,
	"years":      52,
}

const durationUnits = `week|weeks|month|months|quarter|quarters|year|years|fortnight|fortnights`

// Patterns are tried in order against the lowercased input; the first hit
// wins. Remove goes first so "drop Project X" never falls through to the
// budget verbs.
var (
	removeRe = regexp.MustCompile(
		`^(?:remove|cancel|drop|kill|delete)\s+(?:project\s+)?(.+?)(?:\s+from\s+portfolio)?$`)

	budgetPctRes = []*regexp.Regexp{
		regexp.MustCompile(`^(increase|decrease|reduce|raise|boost|lower)\s+(?:project\s+)?(.+?)\s+budget\s+by\s+(\d+(?:\.\d+)?)\s*%`),
		regexp.MustCompile(`^(increase|decrease|reduce|raise|boost|lower)\s+(?:the\s+)?budget\s+(?:for|of|on)\s+(?:project\s+)?(.+?)\s+by\s+(\d+(?:\.\d+)?)\s*%`),
	}
	budgetAbsRes = []*regexp.Regexp{
		regexp.MustCompile(`^(increase|decrease|reduce|raise|boost|lower)\s+(?:project\s+)?(.+?)\s+budget\s+by\s+[£$€]?\s*(\d[\d,]*(?:\.\d+)?)`),
		regexp.MustCompile(`^(increase|decrease|reduce|raise|boost|lower)\s+(?:the\s+)?budget\s+(?:for|of|on)\s+(?:project\s+)?(.+?)\s+by\s+[£$€]?\s*(\d[\d,]*(?:\.\d+)?)`),
	}

	scopeRes = []*regexp.Regexp{
		regexp.MustCompile(`^(?:cut|reduce|trim|shrink)\s+(?:project\s+)?(.+?)\s+scope\s+by\s+(\d+(?:\.\d+)?)\s*%`),
		regexp.MustCompile(`^(?:cut|reduce|trim|shrink)\s+(?:the\s+)?scope\s+(?:for|of|on)\s+(?:project\s+)?(.+?)\s+by\s+(\d+(?:\.\d+)?)\s*%`),
	}

	delayRes = []*regexp.Regexp{
		regexp.MustCompile(`^(?:delay|push back|postpone|defer|extend)\s+(?:project\s+)?(.+?)\s+by\s+(\d+)\s+(` + durationUnits + `)`),
		regexp.MustCompile(`^(?:delay|push back|postpone|defer|extend)\s+(?:project\s+)?(.+?)\s+(\d+)\s+(` + durationUnits + `)`),
	}
)

// decreaseVerbs flips a budget change to a decrease.
var decreaseVerbs = map[string]bool{
	"decrease": true,
	"reduce":   true,
	"lower":    true,
}

// Parse turns a free-text scenario like "increase Project Beta budget by
// 20%" or "delay Gamma by 1 quarter" into a structured action. Project
// names keep their original casing. Unparseable input returns a
// *ParseError.
func Parse(text string) (*models.ScenarioAction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ParseError{Input: text, Reason: "empty scenario input"}
	}

	normalised := strings.ToLower(text)

	parsers := []func(normalised, original string) *models.ScenarioAction{
		parseRemove,
		parseBudgetChange,
		parseScopeCut,
		parseDelay,
	}
	for _, p := range parsers {
		if action := p(normalised, text); action != nil {
			action.Description = text
			return action, nil
		}
	}

	return nil, &ParseError{
		Input:  text,
		Reason: "supported patterns: budget increase/decrease, scope cut, delay, remove",
	}
}

func parseRemove(normalised, original string) *models.ScenarioAction {
	m := removeRe.FindStringSubmatch(normalised)
	if m == nil {
		return nil
	}
	return &models.ScenarioAction{
		Type:    models.ActionRemove,
		Project: cleanProjectName(m[1], original),
	}
}

func parseBudgetChange(normalised, original string) *models.ScenarioAction {
	for _, re := range budgetPctRes {
		m := re.FindStringSubmatch(normalised)
		if m == nil {
			continue
		}
		pct, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			continue
		}
		return &models.ScenarioAction{
			Type:    budgetActionType(m[1]),
			Project: cleanProjectName(m[2], original),
			Amount:  pct / 100.0,
		}
	}

	for _, re := range budgetAbsRes {
		m := re.FindStringSubmatch(normalised)
		if m == nil {
			continue
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[3], ",", ""), 64)
		if err != nil {
			continue
		}
		return &models.ScenarioAction{
			Type:           budgetActionType(m[1]),
			Project:        cleanProjectName(m[2], original),
			AmountAbsolute: amount,
		}
	}

	return nil
}

func parseScopeCut(normalised, original string) *models.ScenarioAction {
	for _, re := range scopeRes {
		m := re.FindStringSubmatch(normalised)
		if m == nil {
			continue
		}
		pct, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		return &models.ScenarioAction{
			Type:    models.ActionScopeCut,
			Project: cleanProjectName(m[1], original),
			Amount:  pct / 100.0,
		}
	}
	return nil
}

func parseDelay(normalised, original string) *models.ScenarioAction {
	for _, re := range delayRes {
		m := re.FindStringSubmatch(normalised)
		if m == nil {
			continue
		}
		count, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		perUnit, ok := durationWeeks[m[3]]
		if !ok {
			perUnit = 1
		}
		return &models.ScenarioAction{
			Type:          models.ActionDelay,
			Project:       cleanProjectName(m[1], original),
			DurationWeeks: count * perUnit,
		}
	}
	return nil
}

func budgetActionType(verb string) models.ActionType {
	if decreaseVerbs[verb] {
		return models.ActionBudgetDecrease
	}
	return models.ActionBudgetIncrease
}

// cleanProjectName trims the captured name and restores its original
// casing by locating the same substring in the unlowered input.
func cleanProjectName(name, original string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimRight(name, `'"`)

	if pos := strings.Index(strings.ToLower(original), strings.ToLower(name)); pos != -1 {
		name = strings.TrimSpace(original[pos : pos+len(name)])
	}
	return name
}
