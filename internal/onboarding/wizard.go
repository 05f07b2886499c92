package onboarding

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"vehicleagent/internal/config"
	"vehicleagent/internal/llm"
)

var defaultModels = map[llm.Provider]string{
	llm.ProviderGroq:      "llama-3.3-70b-versatile",
	llm.ProviderOllama:    "llama3.2",
	llm.ProviderOpenAI:    "gpt-4o",
	llm.ProviderAnthropic: "claude-3-5-sonnet-latest",
	llm.ProviderGemini:    "gemini-2.5-flash",
}

var providerChoices = []llm.Provider{
	llm.ProviderGroq,
	llm.ProviderOllama,
	llm.ProviderOpenAI,
	llm.ProviderAnthropic,
	llm.ProviderGemini,
	llm.ProviderNone,
}

// Wizard is the line-oriented setup used when stdin is not a terminal.
type Wizard struct {
	scanner  *bufio.Scanner
	out      io.Writer
	handlers []string
}

func NewWizard(in io.Reader, out io.Writer, handlerIDs []string) *Wizard {
	return &Wizard{scanner: bufio.NewScanner(in), out: out, handlers: handlerIDs}
}

// Run asks for every setting, starting from base, and returns the edited
// copy. It does not save.
func (w *Wizard) Run(base *config.Config) (*config.Config, error) {
	if base == nil {
		base = config.Default()
	}
	cfg := *base

	fmt.Fprintln(w.out, "\n🚗 Vehicle assistant setup")
	fmt.Fprintln(w.out, strings.Repeat("-", 40))

	fmt.Fprintln(w.out, "\n[1/3] Language model")
	w.askProvider(&cfg)
	if llm.Provider(cfg.LLM.Provider) != llm.ProviderNone {
		w.askModel(&cfg)
		w.askBaseURL(&cfg)
		w.askAPIKey(&cfg)
	}

	fmt.Fprintln(w.out, "\n[2/3] Maps and weather")
	cfg.Maps.WeatherAPIKey = w.ask("OpenWeather API key", cfg.Maps.WeatherAPIKey)
	cfg.Maps.GoogleAPIKey = w.ask("Google Maps API key", cfg.Maps.GoogleAPIKey)

	fmt.Fprintln(w.out, "\n[3/3] Handlers")
	menu := NewHandlerMenu(w.scanner, w.out)
	cfg.Handlers.Disabled = disabledIDs(menu.Run(toggles(w.handlers, cfg.Handlers.Disabled)))

	if err := w.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	w.summarize(&cfg)
	return &cfg, nil
}

func (w *Wizard) line() (string, bool) {
	if !w.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(w.scanner.Text()), true
}

// ask prompts with the current value as default.
func (w *Wizard) ask(label, current string) string {
	shown := current
	if shown == "" {
		shown = "not set"
	} else if strings.Contains(strings.ToLower(label), "key") {
		shown = mask(shown)
	}
	fmt.Fprintf(w.out, "%s (enter keeps %s): ", label, shown)
	if v, ok := w.line(); ok && v != "" {
		return v
	}
	return current
}

func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

func (w *Wizard) askProvider(cfg *config.Config) {
	fmt.Fprintln(w.out, "Select LLM provider:")
	def := 1
	for i, p := range providerChoices {
		fmt.Fprintf(w.out, "%d) %s\n", i+1, p)
		if string(p) == cfg.LLM.Provider {
			def = i + 1
		}
	}

	for {
		fmt.Fprintf(w.out, "Choice (default: %d): ", def)
		input, _ := w.line()
		n := def
		if input != "" {
			var err error
			if n, err = strconv.Atoi(input); err != nil || n < 1 || n > len(providerChoices) {
				fmt.Fprintf(w.out, "❌ Invalid choice. Please select 1-%d.\n", len(providerChoices))
				continue
			}
		}
		p := string(providerChoices[n-1])
		if p != cfg.LLM.Provider {
			cfg.LLM.Model, cfg.LLM.APIKey, cfg.LLM.BaseURL = "", "", ""
		}
		cfg.LLM.Provider = p
		return
	}
}

func (w *Wizard) askModel(cfg *config.Config) {
	def := cfg.LLM.Model
	if def == "" {
		def = defaultModels[llm.Provider(cfg.LLM.Provider)]
	}
	cfg.LLM.Model = w.ask("Model name", def)
}

func (w *Wizard) askBaseURL(cfg *config.Config) {
	if llm.Provider(cfg.LLM.Provider) != llm.ProviderOllama {
		return
	}
	def := cfg.LLM.BaseURL
	if def == "" {
		def = defaultOllamaURL
	}
	cfg.LLM.BaseURL = w.ask("Ollama base URL", def)
}

func (w *Wizard) askAPIKey(cfg *config.Config) {
	if llm.Provider(cfg.LLM.Provider) == llm.ProviderOllama {
		return
	}
	cfg.LLM.APIKey = w.ask("API key", cfg.LLM.APIKey)
}

func (w *Wizard) summarize(cfg *config.Config) {
	fmt.Fprintln(w.out, "\n"+strings.Repeat("=", 40))
	fmt.Fprintln(w.out, "Setup summary:")
	fmt.Fprintf(w.out, "Provider: %s\n", cfg.LLM.Provider)
	if cfg.LLM.Model != "" {
		fmt.Fprintf(w.out, "Model:    %s\n", cfg.LLM.Model)
	}
	if cfg.LLM.BaseURL != "" {
		fmt.Fprintf(w.out, "URL:      %s\n", cfg.LLM.BaseURL)
	}
	if len(cfg.Handlers.Disabled) > 0 {
		fmt.Fprintf(w.out, "Disabled: %s\n", strings.Join(cfg.Handlers.Disabled, ", "))
	}
	fmt.Fprintln(w.out, strings.Repeat("=", 40))
}
