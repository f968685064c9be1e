package config

// Config представляет конфигурацию интервью
type Config struct {
	InterviewConfig InterviewConfig `yaml:"interview_config"`
	Fields          []FieldConfig   `yaml:"fields"`
	Exit            ExitConfig      `yaml:"exit"`
	Messages        MessagesConfig  `yaml:"messages"`
}

// InterviewConfig содержит общие настройки интервью
type InterviewConfig struct {
	TechQuestions int `yaml:"tech_questions"`
}

// FieldConfig описывает поле анкеты
type FieldConfig struct {
	Name         string `yaml:"name"`
	Pattern      string `yaml:"pattern"`
	ErrorMessage string `yaml:"error_message"`
}

// ExitConfig - слова для досрочного завершения
type ExitConfig struct {
	Keywords []string `yaml:"keywords"`
	Match    string   `yaml:"match"`
}

// MessagesConfig - тексты для кандидата
type MessagesConfig struct {
	SystemPrompt string `yaml:"system_prompt"`
	Welcome      string `yaml:"welcome"`
	FieldPrompt  string `yaml:"field_prompt"`
	Closing      string `yaml:"closing"`
	Completion   string `yaml:"completion"`
}

func (c *Config) GetTechQuestions() int {
	return c.InterviewConfig.TechQuestions
}

func (c *Config) GetTotalFields() int {
	return len(c.Fields)
}
