package engine

import (
	"strconv"
	"strings"

	"matka/models"
)

// Rule bundles the selection format and win predicate for one game
// variant. Settlement dispatches on the game type's category, and on the
// game type name for the sattamatka variants.
type Rule struct {
	// ValidSelection reports whether a selection is well formed for
	// this variant. Checked defensively at placement.
	ValidSelection func(selection string) bool
	// Wins decides the bet against the declared market result.
	Wins func(selection, result string) bool
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var coinTossRule = Rule{
	ValidSelection: func(sel string) bool {
		lower := strings.ToLower(sel)
		return lower == "heads" || lower == "tails"
	},
	Wins: func(sel, result string) bool {
		return strings.EqualFold(sel, result)
	},
}

// Jodi: exact match on a two-digit number.
var jodiRule = Rule{
	ValidSelection: func(sel string) bool {
		return len(sel) == 2 && isDigits(sel)
	},
	Wins: func(sel, result string) bool {
		return sel == result
	},
}

// Hurf: the chosen digit appears anywhere in the result.
var hurfRule = Rule{
	ValidSelection: func(sel string) bool {
		return len(sel) == 1 && isDigits(sel)
	},
	Wins: func(sel, result string) bool {
		return strings.Contains(result, sel)
	},
}

// Cross: every chosen digit appears in the result, in any order.
var crossRule = Rule{
	ValidSelection: func(sel string) bool {
		return len(sel) == 2 && isDigits(sel)
	},
	Wins: func(sel, result string) bool {
		if sel == "" {
			return false
		}
		for _, r := range sel {
			if !strings.ContainsRune(result, r) {
				return false
			}
		}
		return true
	},
}

var oddEvenRule = Rule{
	ValidSelection: func(sel string) bool {
		return sel == "odd" || sel == "even"
	},
	Wins: func(sel, result string) bool {
		n, err := strconv.Atoi(result)
		if err != nil {
			return false
		}
		if n%2 != 0 {
			return sel == "odd"
		}
		return sel == "even"
	},
}

// Team match: the result names the winning team verbatim.
var teamMatchRule = Rule{
	ValidSelection: func(sel string) bool {
		return strings.TrimSpace(sel) != ""
	},
	Wins: func(sel, result string) bool {
		return sel == result
	},
}

// RuleFor resolves the rule for a game type. ok is false for an unknown
// category or sattamatka variant; such bets never win.
func RuleFor(gt *models.GameType) (Rule, bool) {
	switch gt.GameCategory {
	case models.CategoryCoinToss:
		return coinTossRule, true
	case models.CategorySattamatka:
		switch gt.Name {
		case models.SattamatkaJodi:
			return jodiRule, true
		case models.SattamatkaHurf:
			return hurfRule, true
		case models.SattamatkaCross:
			return crossRule, true
		case models.SattamatkaOddEven:
			return oddEvenRule, true
		}
	case models.CategoryTeamMatch:
		return teamMatchRule, true
	}
	return Rule{}, false
}
