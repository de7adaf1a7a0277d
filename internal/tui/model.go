package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docintel/internal/agent"
	"docintel/internal/domain"
	"docintel/internal/synthesizer"
)

// Service is the TUI-facing subset of the document service.
type Service interface {
	Query(query string, limit int, threshold float64, document string) ([]domain.RankedChunk, error)
	Ask(ctx context.Context, query, mode string) (*agent.Response, error)
}

// Settings are the search defaults used by the TUI.
type Settings struct {
	Limit     int
	Threshold float64
}

type viewMode int

const (
	modeSearch viewMode = iota
	modeAsk
)

func (v viewMode) String() string {
	if v == modeAsk {
		return "ask"
	}
	return "search"
}

// answerMsg carries the result of an asynchronous Ask.
type answerMsg struct {
	query string
	resp  *agent.Response
	err   error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service   Service
	settings  Settings
	input     textinput.Model
	viewport  viewport.Model
	mode      viewMode
	results   []domain.RankedChunk
	answer    *agent.Response
	summary   string
	status    string
	cursor    int
	ready     bool
	busy      bool
	lastQuery string
}

// New creates a new TUI model instance.
func New(service Service, settings Settings, summary string) Model {
	if settings.Limit <= 0 {
		settings.Limit = 10
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type query and press Enter (Tab switches search/ask)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		settings: settings,
		input:    ti,
		viewport: vp,
		summary:  summary,
		status:   "Loaded. Type to search.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.render())
		return m, nil
	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.answer = nil
		} else {
			m.status = fmt.Sprintf("Answer for %q (%s, confidence %.2f)", msg.query, msg.resp.Generator, msg.resp.Confidence)
			m.answer = msg.resp
		}
		m.lastQuery = msg.query
		m.viewport.SetContent(m.render())
		m.viewport.GotoTop()
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			if m.mode == modeSearch {
				m.mode = modeAsk
			} else {
				m.mode = modeSearch
			}
			m.status = "Mode: " + m.mode.String()
			m.viewport.SetContent(m.render())
			return m, nil
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.busy {
				return m, nil
			}
			if m.mode == modeAsk {
				m.busy = true
				m.status = "Thinking..."
				return m, m.ask(q)
			}
			m = m.search(q)
			return m, nil
		case "down":
			if m.mode == modeSearch && len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.render())
				return m, nil
			}
		case "up":
			if m.mode == modeSearch && len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.render())
				return m, nil
			}
		case "pgdown":
			m.viewport.HalfViewDown()
			return m, nil
		case "pgup":
			m.viewport.HalfViewUp()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) search(q string) Model {
	res, err := m.service.Query(q, m.settings.Limit, m.settings.Threshold, "")
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
	} else {
		m.status = fmt.Sprintf("%d results for %q", len(res), q)
		m.results = res
		m.cursor = 0
		m.lastQuery = q
	}
	m.viewport.SetContent(m.render())
	return m
}

func (m Model) ask(q string) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		resp, err := svc.Ask(context.Background(), q, agent.ModeQA)
		return answerMsg{query: q, resp: resp, err: err}
	}
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Document Intelligence [" + m.mode.String() + "]")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) render() string {
	if m.mode == modeAsk {
		return m.renderAnswer()
	}
	return m.renderCurrentResult()
}

func (m Model) renderAnswer() string {
	if m.answer == nil {
		return "Ask a question about the indexed documents."
	}
	return m.answer.Answer + "\n\n" +
		sourceStyle.Render("Sources:\n"+synthesizer.FormatSources(m.answer.Sources)) + "\n\n" +
		sourceStyle.Render(m.answer.Summary)
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	title := fmt.Sprintf("Result %d/%d  %s p.%d  relevance=%.3f %s",
		m.cursor+1, len(m.results), r.Document, r.PageNumber, r.RelevanceScore,
		synthesizer.RelevanceIndicator(r.RelevanceScore))
	body := highlightBestSentence(r.Text, m.lastQuery)
	return title + "\n\n" + body
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence marks the sentence sharing the most words with query.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(trimAll(sentences), " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	sentences = trimAll(sentences)
	sentences[bestIdx] = highlightStyle.Render(sentences[bestIdx])
	return strings.Join(sentences, " ")
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	seen := make(map[string]struct{})
	for _, t := range unicodeWordRe.FindAllString(strings.ToLower(sentence), -1) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
