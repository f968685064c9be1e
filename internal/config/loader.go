package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"talentscout/internal/interview"
	"talentscout/internal/questions"
	"talentscout/internal/schema"
)

// DefaultWelcome показывается хостом перед первым вопросом
const DefaultWelcome = "Welcome to TalentScout! I'll guide you through our initial screening process."

// Load загружает конфигурацию из YAML файла
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	return Parse(data)
}

// LoadOrDefault читает файл, а если его нет - возвращает встроенную конфигурацию
func LoadOrDefault(filename string) (*Config, error) {
	cfg, err := Load(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse разбирает YAML; незаданные разделы заполняются значениями по умолчанию
func Parse(data []byte) (*Config, error) {
	var config Config
	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	applyDefaults(&config)

	err = validateConfig(&config)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return &config, nil
}

// Default возвращает встроенную анкету TalentScout
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

func applyDefaults(config *Config) {
	if config.InterviewConfig.TechQuestions == 0 {
		config.InterviewConfig.TechQuestions = questions.DefaultCount
	}

	if len(config.Fields) == 0 {
		for _, f := range schema.DefaultFields() {
			config.Fields = append(config.Fields, FieldConfig{
				Name:         f.Name,
				Pattern:      f.Pattern.String(),
				ErrorMessage: f.ErrorMessage,
			})
		}
	}

	if len(config.Exit.Keywords) == 0 {
		config.Exit.Keywords = append([]string(nil), interview.DefaultExitKeywords...)
	}
	if config.Exit.Match == "" {
		config.Exit.Match = string(interview.ExitMatchWordPrefix)
	}

	m := &config.Messages
	d := interview.DefaultMessages()
	if m.SystemPrompt == "" {
		m.SystemPrompt = d.SystemPrompt
	}
	if m.Welcome == "" {
		m.Welcome = DefaultWelcome
	}
	if m.FieldPrompt == "" {
		m.FieldPrompt = d.FieldPrompt
	}
	if m.Closing == "" {
		m.Closing = d.Closing
	}
	if m.Completion == "" {
		m.Completion = d.Completion
	}
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.InterviewConfig.TechQuestions < 0 {
		return fmt.Errorf("tech_questions не может быть отрицательным")
	}

	seen := make(map[string]bool)
	for i, f := range config.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("поле %d должно иметь name", i+1)
		}
		if seen[f.Name] {
			return fmt.Errorf("поле %q указано дважды", f.Name)
		}
		seen[f.Name] = true

		if f.ErrorMessage == "" {
			return fmt.Errorf("поле %q должно иметь error_message", f.Name)
		}
		if _, err := schema.NewField(f.Name, f.Pattern, f.ErrorMessage); err != nil {
			return err
		}
	}

	if !seen[schema.FieldTechStack] {
		return fmt.Errorf("анкета должна содержать поле %q", schema.FieldTechStack)
	}

	switch interview.ExitMatch(config.Exit.Match) {
	case interview.ExitMatchWordPrefix, interview.ExitMatchSubstring:
	default:
		return fmt.Errorf("exit.match должен быть %q или %q, получено %q",
			interview.ExitMatchWordPrefix, interview.ExitMatchSubstring, config.Exit.Match)
	}

	if strings.Count(config.Messages.FieldPrompt, "%s") != 1 {
		return fmt.Errorf("messages.field_prompt должен содержать ровно один %%s")
	}

	return nil
}

// SchemaFields компилирует поля анкеты. Конфигурация уже проверена, поэтому ошибка
// возможна только для Config, собранного вручную.
func (c *Config) SchemaFields() ([]schema.Field, error) {
	fields := make([]schema.Field, 0, len(c.Fields))
	for _, f := range c.Fields {
		field, err := schema.NewField(f.Name, f.Pattern, f.ErrorMessage)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// SessionOptions переводит конфигурацию в опции сессии интервью
func (c *Config) SessionOptions() []interview.Option {
	return []interview.Option{
		interview.WithMessages(interview.Messages{
			SystemPrompt: c.Messages.SystemPrompt,
			Closing:      c.Messages.Closing,
			Completion:   c.Messages.Completion,
			FieldPrompt:  c.Messages.FieldPrompt,
		}),
		interview.WithExitDetector(interview.NewExitDetector(c.Exit.Keywords, interview.ExitMatch(c.Exit.Match))),
	}
}
