package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/solos99999/txt2voice/internal/audio"
	"github.com/solos99999/txt2voice/internal/logger"
	"github.com/solos99999/txt2voice/internal/synth"
	"github.com/solos99999/txt2voice/internal/voice"
)

// 焦点区域。tab 在三个区域间循环。
type focusArea int

const (
	focusEngines focusArea = iota
	focusVoices
	focusText
)

// completionMsg 后台合成完成。
type completionMsg synth.Completion

// playDoneMsg 播放结束（或失败）。
type playDoneMsg struct{ err error }

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedPane   = paneStyle.BorderForeground(lipgloss.Color("205"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	waveformStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// Model 是主界面的 bubbletea 模型。
// 阻塞的合成调用全部经由 Submitter 派发到后台，
// 界面事件循环只处理消息，不做任何网络或推理工作。
type Model struct {
	voices *voice.Manager
	sub    *synth.Submitter
	player *audio.Player

	focus     focusArea
	engineIdx int
	voiceIdx  int
	textInput textarea.Model
	spin      spinner.Model

	pendingSeq   uint64
	synthesizing bool
	playing      bool
	result       *synth.Result
	statusLine   string
	statusLevel  string // "ok", "warn", "error"

	width  int
	height int
}

// New 创建主界面模型。player 可为 nil（无声卡环境）。
func New(voices *voice.Manager, sub *synth.Submitter, player *audio.Player) Model {
	ta := textarea.New()
	ta.Placeholder = "输入要合成的中文文本…"
	ta.SetHeight(4)
	ta.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cursorStyle

	return Model{
		voices:    voices,
		sub:       sub,
		player:    player,
		textInput: ta,
		spin:      sp,
	}
}

// Init 实现 tea.Model。
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitCompletion(), m.spin.Tick)
}

// waitCompletion 等待下一条后台完成通知。
func (m Model) waitCompletion() tea.Cmd {
	return func() tea.Msg {
		c, ok := <-m.sub.Completions()
		if !ok {
			return nil
		}
		return completionMsg(c)
	}
}

// Update 实现 tea.Model。
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.SetWidth(msg.Width - 8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case completionMsg:
		return m.handleCompletion(synth.Completion(msg))

	case playDoneMsg:
		m.playing = false
		if msg.err != nil && msg.err != context.Canceled {
			m.setStatus("error", fmt.Sprintf("播放失败: %v", msg.err))
		}
		return m, nil
	}

	if m.focus == focusText {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab":
		m.focus = (m.focus + 1) % 3
		if m.focus == focusText {
			m.textInput.Focus()
		} else {
			m.textInput.Blur()
		}
		return m, nil

	case "ctrl+s":
		return m.submit()

	case "ctrl+p":
		return m.play()
	}

	switch m.focus {
	case focusEngines:
		engines := m.voices.Engines()
		switch msg.String() {
		case "up", "k":
			if m.engineIdx > 0 {
				m.engineIdx--
				m.voiceIdx = 0 // 引擎切换后语音列表重新过滤
			}
		case "down", "j":
			if m.engineIdx < len(engines)-1 {
				m.engineIdx++
				m.voiceIdx = 0
			}
		case "enter":
			return m.submit()
		}
		return m, nil

	case focusVoices:
		vs := m.currentVoices()
		switch msg.String() {
		case "up", "k":
			if m.voiceIdx > 0 {
				m.voiceIdx--
			}
		case "down", "j":
			if m.voiceIdx < len(vs)-1 {
				m.voiceIdx++
			}
		case "enter":
			return m.submit()
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
}

// submit 派发一次合成请求。上一个未完成的请求自动作废（最后请求获胜）。
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.textInput.Value())
	if text == "" {
		m.setStatus("warn", "请先输入文本")
		return m, nil
	}

	engines := m.voices.Engines()
	if len(engines) == 0 {
		m.setStatus("error", "没有可用引擎")
		return m, nil
	}
	engineID := engines[m.engineIdx].ID

	vs := m.currentVoices()
	if len(vs) == 0 {
		m.setStatus("error", "该引擎没有可用语音")
		return m, nil
	}
	voiceID := vs[m.voiceIdx].ID

	m.pendingSeq = m.sub.Submit(synth.Request{Engine: engineID, Voice: voiceID, Text: text})
	m.synthesizing = true
	m.setStatus("ok", "正在合成…")
	return m, nil
}

// handleCompletion 处理后台合成结果。过期请求的结果直接忽略，
// 界面上只会出现最后一次提交的产出。
func (m Model) handleCompletion(c synth.Completion) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitCompletion()}

	if c.Seq != m.pendingSeq {
		logger.Debugf("[ui] 忽略过期完成通知 #%d（当前 #%d）", c.Seq, m.pendingSeq)
		return m, tea.Batch(cmds...)
	}

	m.synthesizing = false
	if c.Err != nil {
		m.setStatus("error", fmt.Sprintf("合成失败: %v（可重试或切换引擎）", c.Err))
		return m, tea.Batch(cmds...)
	}

	m.result = c.Result
	if c.Result.Degraded {
		m.setStatus("warn", fmt.Sprintf("本地引擎失败，已用占位音频代替 → %s", c.Result.Path))
	} else {
		m.setStatus("ok", fmt.Sprintf("完成（%.2fs）→ %s", c.Result.Duration.Seconds(), c.Result.Path))
	}
	return m, tea.Batch(cmds...)
}

// play 播放最近一次合成结果。
func (m Model) play() (tea.Model, tea.Cmd) {
	if m.result == nil {
		m.setStatus("warn", "还没有可播放的结果")
		return m, nil
	}
	if m.player == nil {
		m.setStatus("warn", "播放设备不可用")
		return m, nil
	}
	if m.playing {
		return m, nil
	}

	m.playing = true
	res := m.result
	player := m.player
	return m, func() tea.Msg {
		err := player.Play(context.Background(), res.Samples, res.SampleRate)
		return playDoneMsg{err: err}
	}
}

func (m *Model) setStatus(level, text string) {
	m.statusLevel = level
	m.statusLine = text
}

func (m Model) currentVoices() []voice.Voice {
	engines := m.voices.Engines()
	if len(engines) == 0 {
		return nil
	}
	vs, err := m.voices.Voices(engines[m.engineIdx].ID)
	if err != nil {
		return nil
	}
	return vs
}

// View 实现 tea.Model。
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("txt2voice — 中文语音合成"))
	b.WriteString("\n\n")

	left := m.renderEngines()
	mid := m.renderVoices()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", mid))
	b.WriteString("\n")

	textPane := paneStyle
	if m.focus == focusText {
		textPane = focusedPane
	}
	b.WriteString(textPane.Render(m.textInput.View()))
	b.WriteString("\n")

	b.WriteString(m.renderWaveform())
	b.WriteString("\n")

	if m.synthesizing {
		b.WriteString(m.spin.View() + " ")
	}
	switch m.statusLevel {
	case "error":
		b.WriteString(errStyle.Render(m.statusLine))
	case "warn":
		b.WriteString(warnStyle.Render(m.statusLine))
	default:
		b.WriteString(okStyle.Render(m.statusLine))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("tab 切换焦点 · ↑/↓ 选择 · ctrl+s 合成 · ctrl+p 播放 · esc 退出"))

	return b.String()
}

func (m Model) renderEngines() string {
	var b strings.Builder
	b.WriteString(dimStyle.Render("引擎") + "\n")
	for i, e := range m.voices.Engines() {
		line := "  " + e.DisplayName
		if i == m.engineIdx {
			line = cursorStyle.Render("> " + e.DisplayName)
		}
		b.WriteString(line + "\n")
	}

	pane := paneStyle
	if m.focus == focusEngines {
		pane = focusedPane
	}
	return pane.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderVoices() string {
	var b strings.Builder
	b.WriteString(dimStyle.Render("语音包") + "\n")
	for i, v := range m.currentVoices() {
		label := fmt.Sprintf("%s (%s)", v.DisplayName, v.Gender)
		line := "  " + label
		if i == m.voiceIdx {
			line = cursorStyle.Render("> " + label)
		}
		b.WriteString(line + "\n")
	}

	pane := paneStyle
	if m.focus == focusVoices {
		pane = focusedPane
	}
	return pane.Render(strings.TrimRight(b.String(), "\n"))
}

// renderWaveform 用包络峰值渲染单行波形。
func (m Model) renderWaveform() string {
	if m.result == nil {
		return dimStyle.Render("（波形将在合成后显示）")
	}

	width := m.width - 6
	if width < 16 {
		width = 16
	}
	peaks := audio.Waveform(m.result.Samples, width)

	bars := []rune("▁▂▃▄▅▆▇█")
	var b strings.Builder
	for _, p := range peaks {
		amp := p.Max
		if -p.Min > amp {
			amp = -p.Min
		}
		idx := int(amp * float32(len(bars)))
		if idx >= len(bars) {
			idx = len(bars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(bars[idx])
	}
	return waveformStyle.Render(b.String())
}
