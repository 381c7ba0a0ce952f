package mind

import (
	"encoding/json"
	"log"
	"math/rand"
	"os"
	"strings"
)

// Phrases holds the persona's phrase tables. A deployment can override them
// with a JSON file; any load failure falls back to the compiled-in defaults.
type Phrases struct {
	Memes              []string            `json:"memes"`
	Reactions          map[string][]string `json:"reactions"`
	ContextAware       map[string][]string `json:"context_aware"`
	EmotionalResponses map[string][]string `json:"emotional_responses"`
	Synonyms           []SynonymRule       `json:"synonyms"`
	FollowUpQuestions  []string            `json:"follow_up_questions"`
	ThinkingPrefixes   []string            `json:"thinking_prefixes"`
}

func DefaultPhrases() *Phrases {
	return &Phrases{
		Memes: []string{"cái gì vậy trời", "ngon nghẻ", "sợ anh em lắm"},
		Reactions: map[string][]string{
			"win":      {"đỉnh của đỉnh"},
			"loss":     {"gg wp"},
			"football": {"trận này căng"},
			"betting":  {"kèo ngon lắm"},
			"casual":   {"oke nha", "uh", "oke r"},
		},
		ContextAware: map[string][]string{
			"agree":    {"ừ đúng rồi"},
			"disagree": {"chưa chắc đâu"},
			"surprise": {"trời ơi"},
			"laugh":    {"chết cười"},
		},
		EmotionalResponses: map[string][]string{
			"excited":    {"máu quá", "lên luôn"},
			"worried":    {"căng đấy", "hơi lo"},
			"thoughtful": {"để xem đã", "phải tính kỹ"},
			"skeptical":  {"chưa chắc đâu", "nghe hơi bịp"},
			"confident":  {"tín", "ăn chắc rồi"},
			"playful":    {"kkk", "vui phết"},
		},
		Synonyms: []SynonymRule{
			{Key: "ngon", Alts: []string{"thơm", "ổn áp"}},
			{Key: "oke", Alts: []string{"ok", "oki"}},
			{Key: "đỉnh", Alts: []string{"chất", "xịn"}},
			{Key: "uh", Alts: []string{"ừ", "um"}},
		},
		FollowUpQuestions: []string{"sao lại thế?", "anh nghĩ sao?", "chắc không?"},
		ThinkingPrefixes:  []string{"hmm", "để tao nghĩ", "để xem"},
	}
}

// LoadPhrases reads the phrase tables from path, falling back to defaults.
func LoadPhrases(path string) *Phrases {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[MIND] phrases file not loaded (%v), using defaults", err)
		return DefaultPhrases()
	}
	var p Phrases
	if err := json.Unmarshal(b, &p); err != nil {
		log.Printf("[MIND] phrases file invalid (%v), using defaults", err)
		return DefaultPhrases()
	}
	return &p
}

func pick(list []string) (string, bool) {
	if len(list) == 0 {
		return "", false
	}
	return list[rand.Intn(len(list))], true
}

// RandomMeme returns a random meme phrase, or the final literal fallback.
func (p *Phrases) RandomMeme() string {
	if s, ok := pick(p.Memes); ok {
		return s
	}
	return "oke"
}

// Casual returns a casual reaction phrase, the universal fallback register.
func (p *Phrases) Casual() string {
	if s, ok := pick(p.Reactions["casual"]); ok {
		return s
	}
	return "oke"
}

// Emotional returns a phrase matching the emotion, when the table has one.
func (p *Phrases) Emotional(e Emotion) (string, bool) {
	return pick(p.EmotionalResponses[string(e)])
}

// SampleMemes joins up to n distinct memes for prompt seeding.
func (p *Phrases) SampleMemes(n int) string {
	memes := p.Memes
	if len(memes) == 0 {
		return p.RandomMeme()
	}
	if len(memes) > 10 {
		memes = memes[:10]
	}
	if n > len(memes) {
		n = len(memes)
	}
	idx := rand.Perm(len(memes))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, memes[i])
	}
	return strings.Join(out, ", ")
}

// FollowUp returns a random follow-up question.
func (p *Phrases) FollowUp() string {
	if s, ok := pick(p.FollowUpQuestions); ok {
		return s
	}
	return "sao lại thế?"
}

// ThinkingPrefix returns a random hesitation prefix.
func (p *Phrases) ThinkingPrefix() string {
	if s, ok := pick(p.ThinkingPrefixes); ok {
		return s
	}
	return "hmm"
}
