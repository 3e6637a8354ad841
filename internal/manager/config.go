package manager

import (
	"time"

	"github.com/rs/zerolog"

	"aiengine/internal/processor"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultReloadDebounce = 250 * time.Millisecond
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultPreviewRows    = 50
)

// OpenAIConfig enables the openai query engine when APIKey is set.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// PreviewRows caps the number of dataset rows sent with a question.
	PreviewRows int
}

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Logger    zerolog.Logger
	Events    EventPublisher
	Processor DataProcessor
	OpenAI    OpenAIConfig
	// Watch reloads manifests when the model cache directory changes.
	Watch          bool
	ReloadDebounce time.Duration
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		log:      cfg.Logger.With().Str("component", "manager").Logger(),
		state:    StateLoading,
		events:   cfg.Events,
		proc:     cfg.Processor,
		openai:   cfg.OpenAI,
		watch:    cfg.Watch,
		debounce: cfg.ReloadDebounce,
		models:   make(map[string]*entry),
	}
	if m.events == nil {
		m.events = noopPublisher{}
	}
	if m.proc == nil {
		m.proc = processor.New()
	}
	if m.debounce <= 0 {
		m.debounce = defaultReloadDebounce
	}
	if m.openai.Model == "" {
		m.openai.Model = defaultOpenAIModel
	}
	if m.openai.PreviewRows <= 0 {
		m.openai.PreviewRows = defaultPreviewRows
	}
	return m
}
