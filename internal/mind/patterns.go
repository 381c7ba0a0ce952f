package mind

import (
	"fmt"
	"math/rand"
	"regexp"
)

// Canned betting vocabulary for the rule-based replies.
var (
	clubs    = []string{"MU", "Man City", "Arsenal", "Liverpool", "Real", "Barca", "Chelsea", "Bayern", "PSG", "Việt Nam"}
	keos     = []string{"tài 2.5", "xỉu 2.5", "tài 3 hòa", "chấp nửa trái", "đồng banh", "rung tài 0.5"}
	comments = []string{"sáng cửa", "thơm phức", "hơi bịp nhưng vẫn ngon", "tín vl", "nhồi mạnh", "xa bờ thì bám vào"}
)

// RandomMatchText fabricates a match pick: two distinct clubs, an odds phrase
// and a comment.
func RandomMatchText() string {
	i := rand.Intn(len(clubs))
	j := rand.Intn(len(clubs) - 1)
	if j >= i {
		j++
	}
	return fmt.Sprintf("%s gặp %s bắt %s %s nha",
		clubs[i], clubs[j], keos[rand.Intn(len(keos))], comments[rand.Intn(len(comments))])
}

type patternRule struct {
	re      *regexp.Regexp
	respond func() string
}

// Rules are evaluated strictly in order; the first match wins. A map keyed by
// pattern would leave priority to iteration order, which is unspecified.
var rulePatterns = []patternRule{
	{
		re:      regexp.MustCompile(`kèo (gì|nào|j)`),
		respond: RandomMatchText,
	},
	{
		re: regexp.MustCompile(`(ăn|thắng|lãi).*(bao nhiêu|\bbn\b|mấy)`),
		respond: func() string {
			return pickOne(
				fmt.Sprintf("ăn %dtr kkk", 2+rand.Intn(7)),
				"lãi vài ba củ thôi",
				"hòa vốn vl",
			)
		},
	},
	{
		re: regexp.MustCompile(`thua|cháy|sập`),
		respond: func() string {
			return pickOne("rip bro", "gỡ lại đi", "thôi nghỉ đi kkk")
		},
	},
	{
		re: regexp.MustCompile(`chào|hello|\bhi\b|\byo\b`),
		respond: func() string {
			return pickOne("ê chào", "yo bruh", "hê nhô")
		},
	},
	{
		re: regexp.MustCompile(`(ai|mày|bot) (đang|có|ở)`),
		respond: func() string {
			return pickOne("tao đây", "uh có j", "hm")
		},
	},
}

func pickOne(options ...string) string {
	return options[rand.Intn(len(options))]
}

// MatchRulePattern resolves a reply from the ordered intent patterns.
// Input is expected lowercase.
func MatchRulePattern(text string) (string, bool) {
	for _, rule := range rulePatterns {
		if rule.re.MatchString(text) {
			return rule.respond(), true
		}
	}
	return "", false
}
