package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every behavioral knob of the responder. All values come from the
// environment (optionally via a .env file) so a deployment can retune the persona
// without rebuilding.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`

	// Channels the responder is allowed to engage in. Empty = engage nowhere.
	AllowedChannels []string `env:"ALLOWED_CHANNELS" envSeparator:","`

	// Tokens that count as addressing the bot directly.
	NameTokens []string `env:"NAME_TOKENS" envSeparator:"," envDefault:"tèo,teo,bot,@"`

	// Quiet hours: start <= hour < end, local time. Values past 24 disable the window.
	SleepStartHour int `env:"SLEEP_START_HOUR" envDefault:"25"`
	SleepEndHour   int `env:"SLEEP_END_HOUR" envDefault:"26"`

	// Chance to engage with an untargeted, untriggered message.
	TriggerProbability float64 `env:"TRIGGER_PROBABILITY" envDefault:"0.5"`

	// Chance to react instead of staying silent when not engaging.
	ReactProbability float64 `env:"REACT_PROBABILITY" envDefault:"0.2"`

	// Minimum gap between untargeted replies in the same conversation thread.
	MinReplyInterval time.Duration `env:"MIN_REPLY_INTERVAL" envDefault:"10s"`

	// Governors.
	TransportPerMinute  int `env:"TRANSPORT_PER_MINUTE" envDefault:"20"`
	CompletionPerMinute int `env:"COMPLETION_PER_MINUTE" envDefault:"10"`
	CompletionPerHour   int `env:"COMPLETION_PER_HOUR" envDefault:"100"`

	// Completion engine spec, e.g. "g4f:gpt-oss-120b" or "pollinations".
	AIEngine string `env:"AI_ENGINE" envDefault:"g4f:gpt-oss-120b"`

	StoragePath string `env:"STORAGE_PATH" envDefault:"data/teobot.json"`
	PhrasesPath string `env:"PHRASES_PATH" envDefault:"data/trending_phrases.json"`
}

// New loads .env (if present) and parses Config from the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
