package interview

// Stage - этап разговора с кандидатом
type Stage int

const (
	StageCollectingInfo Stage = iota
	StageAskingTech
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageCollectingInfo:
		return "collecting_info"
	case StageAskingTech:
		return "asking_tech"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Role - автор реплики в стенограмме
type Role string

const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Turn - одна реплика стенограммы
type Turn struct {
	Role Role
	Text string
}

// Transcript - стенограмма; только дописывается
type Transcript []Turn

// Visible возвращает реплики без системной, в исходном порядке
func (t Transcript) Visible() []Turn {
	out := make([]Turn, 0, len(t))
	for _, turn := range t {
		if turn.Role != RoleSystem {
			out = append(out, turn)
		}
	}
	return out
}

// Profile - принятые ответы анкеты в порядке полей
type Profile struct {
	names  []string
	values map[string]string
}

func newProfile() Profile {
	return Profile{values: make(map[string]string)}
}

// set добавляет значение; повторная запись того же поля игнорируется
func (p *Profile) set(name, value string) {
	if _, exists := p.values[name]; exists {
		return
	}
	p.names = append(p.names, name)
	p.values[name] = value
}

func (p Profile) Get(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

func (p Profile) Len() int {
	return len(p.names)
}

// Entry - пара поле/значение
type Entry struct {
	Name  string
	Value string
}

// Entries возвращает значения в порядке анкеты
func (p Profile) Entries() []Entry {
	out := make([]Entry, 0, len(p.names))
	for _, name := range p.names {
		out = append(out, Entry{Name: name, Value: p.values[name]})
	}
	return out
}
