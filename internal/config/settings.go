// ABOUTME: Per-project settings stored in .docright/settings.json
// ABOUTME: Read through viper with defaults and DOCRIGHT_ environment overrides
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Setting defaults.
const (
	DefaultModel                 = "gpt-4o-mini"
	DefaultPromptChunkSize       = 8000
	DefaultBaseURL               = "https://api.openai.com/v1"
	DefaultLLMPreambleFile       = "llm_preamble.txt"
	DefaultIterationPreambleFile = "iteration_preamble.txt"
)

// Settings are the per-project options.
type Settings struct {
	LLM         LLMSettings         `mapstructure:"llm" json:"llm"`
	Iterations  IterationSettings   `mapstructure:"iterations" json:"iterations"`
	Prompts     PromptSettings      `mapstructure:"prompts" json:"prompts"`
	Diagnostics DiagnosticsSettings `mapstructure:"diagnostics" json:"diagnostics"`
}

type LLMSettings struct {
	DefaultModel    string `mapstructure:"defaultModel" json:"defaultModel"`
	PromptChunkSize int    `mapstructure:"promptChunkSize" json:"promptChunkSize"`
	BaseURL         string `mapstructure:"baseUrl" json:"baseUrl"`
}

type IterationSettings struct {
	AutoSave bool `mapstructure:"autoSave" json:"autoSave"`
}

type PromptSettings struct {
	LLMPreambleFile       string `mapstructure:"llmPreambleFile" json:"llmPreambleFile"`
	IterationPreambleFile string `mapstructure:"iterationPreambleFile" json:"iterationPreambleFile"`
}

type DiagnosticsSettings struct {
	DebugLogging bool `mapstructure:"debugLogging" json:"debugLogging"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		LLM: LLMSettings{
			DefaultModel:    DefaultModel,
			PromptChunkSize: DefaultPromptChunkSize,
			BaseURL:         DefaultBaseURL,
		},
		Iterations: IterationSettings{AutoSave: true},
		Prompts: PromptSettings{
			LLMPreambleFile:       DefaultLLMPreambleFile,
			IterationPreambleFile: DefaultIterationPreambleFile,
		},
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	d := DefaultSettings()
	v.SetDefault("llm.defaultModel", d.LLM.DefaultModel)
	v.SetDefault("llm.promptChunkSize", d.LLM.PromptChunkSize)
	v.SetDefault("llm.baseUrl", d.LLM.BaseURL)
	v.SetDefault("iterations.autoSave", d.Iterations.AutoSave)
	v.SetDefault("prompts.llmPreambleFile", d.Prompts.LLMPreambleFile)
	v.SetDefault("prompts.iterationPreambleFile", d.Prompts.IterationPreambleFile)
	v.SetDefault("diagnostics.debugLogging", d.Diagnostics.DebugLogging)

	v.SetEnvPrefix("DOCRIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings reads settings from path. The returned settings are always
// usable: a missing file yields defaults, and a corrupt file yields defaults
// along with an error describing the problem.
func LoadSettings(path string) (Settings, error) {
	v := newViper(path)

	var warning error
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			warning = fmt.Errorf("reading %s: %w", path, err)
			v = newViper(path)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		warning = fmt.Errorf("checking %s: %w", path, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return DefaultSettings(), errors.Join(warning, fmt.Errorf("decoding settings: %w", err))
	}
	return Normalize(s), warning
}

// Normalize replaces blank strings and non-positive sizes with defaults.
func Normalize(s Settings) Settings {
	d := DefaultSettings()
	if strings.TrimSpace(s.LLM.DefaultModel) == "" {
		s.LLM.DefaultModel = d.LLM.DefaultModel
	}
	if s.LLM.PromptChunkSize <= 0 {
		s.LLM.PromptChunkSize = d.LLM.PromptChunkSize
	}
	if strings.TrimSpace(s.LLM.BaseURL) == "" {
		s.LLM.BaseURL = d.LLM.BaseURL
	}
	s.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(s.LLM.BaseURL), "/")
	if strings.TrimSpace(s.Prompts.LLMPreambleFile) == "" {
		s.Prompts.LLMPreambleFile = d.Prompts.LLMPreambleFile
	}
	if strings.TrimSpace(s.Prompts.IterationPreambleFile) == "" {
		s.Prompts.IterationPreambleFile = d.Prompts.IterationPreambleFile
	}
	return s
}

// SaveSettings writes s to path as camelCase JSON.
func SaveSettings(path string, s Settings) error {
	data, err := json.MarshalIndent(Normalize(s), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
