package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"clipsmith/internal/inspect"
	"clipsmith/internal/model"
	"clipsmith/internal/pipeline"
	"clipsmith/internal/plan"
	"clipsmith/internal/probe"
	"clipsmith/internal/progress"
	"clipsmith/internal/util"
	"clipsmith/internal/util/media"
	"clipsmith/internal/util/timecode"
)

type screen int

const (
	screenMenu screen = iota
	screenPickFile
	screenPickMulti
	screenTrimForm
	screenExtractForm
	screenCropForm
	screenConvertForm
	screenPreview
	screenRunning
	screenResult
)

type menuItem struct {
	label string
	op    model.OperationKind
}

var menuItems = []menuItem{
	{"Inspect a file", model.OpInspect},
	{"Trim a segment", model.OpTrim},
	{"Extract audio", model.OpExtractAudio},
	{"Convert streams", model.OpConvert},
	{"Crop the frame", model.OpCrop},
	{"Join clips", model.OpJoin},
}

// convertRow is one stream plus the cycling action choice for it.
type convertRow struct {
	stream  model.StreamDescriptor
	choices []string // "keep", "drop", then the valid encoders
	sel     int
}

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    Config
	styles Styles

	screen screen
	width  int
	height int

	// main menu
	menuCursor int

	// file picking
	pickDir    string
	files      []string
	fileCursor int
	picked     []int // selection order for multi-pick
	pickErr    string

	// current operation
	opKind model.OperationKind
	source string
	descs  []model.MediaDescriptor

	// parameter forms
	inputs  []textinput.Model
	labels  []string
	focus   int
	formErr string

	// convert form
	convRows   []convertRow
	convCursor int

	// preview
	intent  model.OperationIntent
	plans   []plan.Plan
	outPath string

	// execution
	workDir   string
	runCancel context.CancelFunc
	spin      spinner.Model
	bar       bubblesprogress.Model
	stage     progress.Stage
	status    string
	percent   float64
	eta       *time.Duration
	logsRing  []string

	// result
	resultBody string
	resultErr  error
	probing    bool

	fatalErr error
	eventCh  chan tea.Msg
}

func NewModel(ctx context.Context, cfg Config) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()

	sp := spinner.New()
	sp.Style = sty.Spinner
	bar := bubblesprogress.New(
		bubblesprogress.WithDefaultGradient(),
		bubblesprogress.WithWidth(40),
	)

	m := Model{
		ctx:     c,
		cancel:  cancel,
		cfg:     cfg,
		styles:  sty,
		screen:  screenMenu,
		spin:    sp,
		bar:     bar,
		percent: -1,
		pickDir: ".",
		eventCh: make(chan tea.Msg, 256),
	}
	if cfg.Entry.Source != "" {
		m.source = cfg.Entry.Source
		m.pickDir = filepath.Dir(cfg.Entry.Source)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.listenEventsCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelRun()
			m.cancel()
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case filesDiscoveredMsg:
		m.probing = false
		if msg.Err != nil {
			m.pickErr = msg.Err.Error()
		} else if len(msg.Files) == 0 {
			m.pickErr = fmt.Sprintf("no media files found in %s", m.pickDir)
		} else {
			m.files = msg.Files
			m.fileCursor = 0
			m.picked = nil
			m.pickErr = ""
		}

	case probedMsg:
		m.probing = false
		if msg.Err != nil {
			return m.toResult("", msg.Err), nil
		}
		m.descs = msg.Descs
		return m.afterProbe()

	case jobUpdateMsg:
		u := msg.U
		m.stage = u.Stage
		m.percent = u.Percent
		m.eta = u.ETA
		if u.Message != "" {
			m.status = u.Message
		}

	case jobLogMsg:
		line := strings.TrimRight(msg.L.Line, "\r\n")
		if len(m.logsRing) > 200 {
			m.logsRing = m.logsRing[1:]
		}
		m.logsRing = append(m.logsRing, line)

	case jobResultMsg:
		if m.screen == screenRunning {
			m.cleanupWork()
			r := msg.R
			if r.Err != nil {
				return m.toResult("", r.Err), nil
			}
			body := fmt.Sprintf("Saved: %s", r.OutputPath)
			return m.toResult(body, nil), nil
		}
	}

	var cmds []tea.Cmd
	var c tea.Cmd
	m.spin, c = m.spin.Update(msg)
	if c != nil {
		cmds = append(cmds, c)
	}
	if m.isFormScreen() {
		for i := range m.inputs {
			m.inputs[i], c = m.inputs[i].Update(msg)
			if c != nil {
				cmds = append(cmds, c)
			}
		}
	}
	cmds = append(cmds, m.listenEventsCmd())
	return m, tea.Batch(cmds...)
}

func (m Model) isFormScreen() bool {
	switch m.screen {
	case screenTrimForm, screenExtractForm, screenCropForm:
		return true
	}
	return false
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.screen {
	case screenMenu:
		switch key {
		case "q", "esc":
			m.cancel()
			return m, tea.Quit
		case "up", "k":
			if m.menuCursor > 0 {
				m.menuCursor--
			}
		case "down", "j":
			if m.menuCursor < len(menuItems)-1 {
				m.menuCursor++
			}
		case "enter":
			return m.selectOperation(menuItems[m.menuCursor].op)
		}

	case screenPickFile, screenPickMulti:
		switch key {
		case "q":
			m.cancel()
			return m, tea.Quit
		case "esc":
			m.screen = screenMenu
		case "up", "k":
			if m.fileCursor > 0 {
				m.fileCursor--
			}
		case "down", "j":
			if m.fileCursor < len(m.files)-1 {
				m.fileCursor++
			}
		case " ":
			if m.screen == screenPickMulti {
				m.togglePicked(m.fileCursor)
			}
		case "enter":
			if len(m.files) == 0 {
				break
			}
			if m.screen == screenPickFile {
				m.source = m.files[m.fileCursor]
				return m.startProbe([]string{m.source})
			}
			if len(m.picked) < 2 {
				m.pickErr = "pick at least two clips (space toggles, order matters)"
				break
			}
			sources := make([]string, len(m.picked))
			for i, idx := range m.picked {
				sources[i] = m.files[idx]
			}
			return m.startProbe(sources)
		}

	case screenTrimForm, screenExtractForm, screenCropForm:
		switch key {
		case "esc":
			m.screen = screenMenu
			return m, nil
		case "tab", "down":
			m.moveFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil
		case "enter":
			return m.submitForm()
		}
		var c tea.Cmd
		m.inputs[m.focus], c = m.inputs[m.focus].Update(msg)
		return m, c

	case screenConvertForm:
		switch key {
		case "q":
			m.cancel()
			return m, tea.Quit
		case "esc":
			m.screen = screenMenu
		case "up", "k":
			if m.convCursor > 0 {
				m.convCursor--
			}
		case "down", "j":
			if m.convCursor < len(m.convRows)-1 {
				m.convCursor++
			}
		case "left", "h":
			row := &m.convRows[m.convCursor]
			row.sel = (row.sel + len(row.choices) - 1) % len(row.choices)
		case "right", "l":
			row := &m.convRows[m.convCursor]
			row.sel = (row.sel + 1) % len(row.choices)
		case "enter":
			return m.submitConvert()
		}

	case screenPreview:
		switch key {
		case "q":
			m.cancel()
			return m, tea.Quit
		case "esc", "n":
			m.cleanupWork()
			m.screen = screenMenu
		case "enter", "y":
			return m.startRun()
		}

	case screenRunning:
		switch key {
		case "esc", "q":
			// Cancel the in-flight run; the executor removes partial outputs.
			m.cancelRun()
		}

	case screenResult:
		switch key {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "enter", "esc":
			m.screen = screenMenu
			m.resultBody, m.resultErr = "", nil
		}
	}

	return m, nil
}

// selectOperation begins the flow for one menu entry. When the session was
// entered with a file argument, single-source operations skip the picker.
func (m Model) selectOperation(op model.OperationKind) (tea.Model, tea.Cmd) {
	m.opKind = op
	m.formErr = ""

	if op == model.OpJoin {
		m.screen = screenPickMulti
		m.probing = true
		return m, m.discoverFilesCmd()
	}
	if m.cfg.Entry.Source != "" {
		m.source = m.cfg.Entry.Source
		return m.startProbe([]string{m.source})
	}
	m.screen = screenPickFile
	m.probing = true
	return m, m.discoverFilesCmd()
}

func (m *Model) togglePicked(idx int) {
	for i, p := range m.picked {
		if p == idx {
			m.picked = append(m.picked[:i], m.picked[i+1:]...)
			return
		}
	}
	m.picked = append(m.picked, idx)
}

func (m Model) startProbe(sources []string) (tea.Model, tea.Cmd) {
	m.probing = true
	m.status = "Probing..."
	return m, m.probeCmd(sources)
}

// afterProbe routes to the parameter screen for the chosen operation.
func (m Model) afterProbe() (tea.Model, tea.Cmd) {
	switch m.opKind {
	case model.OpInspect:
		return m.toResult(inspect.Render(m.descs[0]), nil), nil

	case model.OpTrim:
		m.setupForm(
			[]string{"Start (HH:MM:SS or seconds)", "End (HH:MM:SS or seconds)", "Streams to keep (blank: all)"},
			[]string{"0", "", ""},
		)
		m.screen = screenTrimForm
		return m, textinput.Blink

	case model.OpExtractAudio:
		m.setupForm(
			[]string{"Format (mp3|flac|wav|m4a)", "Audio stream index (blank: first)"},
			[]string{"mp3", ""},
		)
		m.screen = screenExtractForm
		return m, textinput.Blink

	case model.OpCrop:
		m.setupForm(
			[]string{"Width", "Height", "X offset", "Y offset"},
			[]string{"", "", "0", "0"},
		)
		m.screen = screenCropForm
		return m, textinput.Blink

	case model.OpConvert:
		m.convRows = m.convRows[:0]
		for _, s := range m.descs[0].Streams {
			choices := append([]string{"keep", "drop"}, plan.ConvertCodecs(s.Kind)...)
			m.convRows = append(m.convRows, convertRow{stream: s, choices: choices})
		}
		m.convCursor = 0
		m.screen = screenConvertForm
		return m, nil

	case model.OpJoin:
		inputs := make([]string, len(m.descs))
		for i, d := range m.descs {
			inputs[i] = d.Path
		}
		return m.toPreview(model.JoinIntent{Inputs: inputs})
	}
	return m, nil
}

func (m *Model) setupForm(labels, defaults []string) {
	m.labels = labels
	m.inputs = make([]textinput.Model, len(labels))
	for i := range labels {
		ti := textinput.New()
		ti.SetValue(defaults[i])
		ti.CharLimit = 64
		ti.Width = 24
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focus = 0
	m.formErr = ""
}

func (m *Model) moveFocus(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenTrimForm:
		start, err := timecode.Parse(m.inputs[0].Value())
		if err != nil {
			m.formErr = fmt.Sprintf("start: %v", err)
			return m, nil
		}
		end, err := timecode.Parse(m.inputs[1].Value())
		if err != nil {
			m.formErr = fmt.Sprintf("end: %v", err)
			return m, nil
		}
		keep, err := parseIndexList(m.inputs[2].Value())
		if err != nil {
			m.formErr = err.Error()
			return m, nil
		}
		return m.toPreview(model.TrimIntent{Source: m.source, StartSec: start, EndSec: end, KeepStreams: keep})

	case screenExtractForm:
		format := model.AudioFormat(strings.ToLower(strings.TrimSpace(m.inputs[0].Value())))
		switch format {
		case model.AudioMP3, model.AudioFLAC, model.AudioWAV, model.AudioM4A:
		default:
			m.formErr = fmt.Sprintf("unknown format %q", m.inputs[0].Value())
			return m, nil
		}
		idx := -1
		if v := strings.TrimSpace(m.inputs[1].Value()); v != "" {
			n, err := parseInt(v)
			if err != nil {
				m.formErr = fmt.Sprintf("stream index: %v", err)
				return m, nil
			}
			idx = n
		}
		return m.toPreview(model.ExtractAudioIntent{Source: m.source, Format: format, StreamIndex: idx})

	case screenCropForm:
		vals := make([]int, 4)
		for i := range vals {
			n, err := parseInt(strings.TrimSpace(m.inputs[i].Value()))
			if err != nil {
				m.formErr = fmt.Sprintf("%s: %v", strings.ToLower(m.labels[i]), err)
				return m, nil
			}
			vals[i] = n
		}
		return m.toPreview(model.CropIntent{
			Source: m.source,
			Region: model.CropRegion{Width: vals[0], Height: vals[1], X: vals[2], Y: vals[3]},
		})
	}
	return m, nil
}

func (m Model) submitConvert() (tea.Model, tea.Cmd) {
	actions := make(map[int]model.StreamAction, len(m.convRows))
	for _, row := range m.convRows {
		switch choice := row.choices[row.sel]; choice {
		case "keep":
			// default; leaving it out keeps the builder's map small
		case "drop":
			actions[row.stream.Index] = model.StreamAction{Mode: model.ActionDrop}
		default:
			actions[row.stream.Index] = model.StreamAction{Mode: model.ActionTranscode, Codec: choice}
		}
	}
	return m.toPreview(model.ConvertIntent{Source: m.source, Actions: actions})
}

// toPreview builds the plan(s) from the cached descriptors and shows them for
// confirmation. Join plans need a staging directory; it is created here so the
// previewed argument vectors are exactly what will run.
func (m Model) toPreview(intent model.OperationIntent) (tea.Model, tea.Cmd) {
	var (
		plans []plan.Plan
		out   string
		err   error
	)
	switch it := intent.(type) {
	case model.TrimIntent:
		var p plan.Plan
		p, err = plan.Trim(m.descs[0], it, m.cfg.OutDir)
		plans, out = []plan.Plan{p}, p.OutputPath
	case model.ExtractAudioIntent:
		var p plan.Plan
		p, err = plan.ExtractAudio(m.descs[0], it, m.cfg.OutDir)
		plans, out = []plan.Plan{p}, p.OutputPath
	case model.ConvertIntent:
		var p plan.Plan
		p, err = plan.Convert(m.descs[0], it, m.cfg.OutDir)
		plans, out = []plan.Plan{p}, p.OutputPath
	case model.CropIntent:
		var p plan.Plan
		p, err = plan.Crop(m.descs[0], it, m.cfg.OutDir)
		plans, out = []plan.Plan{p}, p.OutputPath
	case model.JoinIntent:
		m.workDir, err = util.MakeTempWorkdir("join")
		if err == nil {
			var jp plan.JoinPlan
			jp, err = plan.Join(m.descs, it, m.cfg.OutDir, m.workDir)
			if err == nil {
				plans = append(append(plans, jp.PreSteps...), jp.Concat)
				out = jp.Concat.OutputPath
			}
		}
	}
	if err != nil {
		m.cleanupWork()
		return m.toResult("", err), nil
	}

	m.intent = intent
	m.plans = plans
	m.outPath = out
	m.screen = screenPreview
	return m, nil
}

// startRun executes the confirmed intent on a background goroutine, feeding
// progress back through the event channel.
func (m Model) startRun() (tea.Model, tea.Cmd) {
	runCtx, cancel := context.WithCancel(m.ctx)
	m.runCancel = cancel
	m.screen = screenRunning
	m.percent = -1
	m.eta = nil
	m.status = "Starting..."
	m.logsRing = nil

	cfg := m.cfg
	workDir := m.workDir
	intent := m.intent
	ch := m.eventCh

	go func() {
		rep := teaReporter{ch: ch}
		svc := pipeline.NewService(
			pipeline.WithFFmpegPath(cfg.FFmpegPath),
			pipeline.WithFFprobePath(cfg.FFprobePath),
			pipeline.WithOutDir(cfg.OutDir),
			pipeline.WithWorkDir(workDir),
			pipeline.WithVerbose(cfg.Verbose),
			pipeline.WithJobs(cfg.Jobs),
			pipeline.WithReporter(rep),
			pipeline.WithSessionLogger(cfg.Sessions),
			pipeline.WithJobID("job-1"),
		)
		res, err := svc.RunIntent(runCtx, intent)
		if err != nil {
			// Errors before the first invocation (probe, plan) never reach the
			// reporter; make sure the UI always receives a terminal result.
			rep.Result(progress.Result{JobID: "job-1", OutputPath: res.OutputPath, Err: err})
		}
	}()

	return m, m.spin.Tick
}

func (m *Model) cancelRun() {
	if m.runCancel != nil {
		m.runCancel()
	}
}

func (m *Model) cleanupWork() {
	if m.workDir != "" {
		_ = os.RemoveAll(m.workDir)
		m.workDir = ""
	}
}

func (m Model) toResult(body string, err error) Model {
	m.screen = screenResult
	m.resultBody = body
	m.resultErr = err
	return m
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case msg := <-m.eventCh:
			return msg
		}
	}
}

func (m Model) discoverFilesCmd() tea.Cmd {
	dir := m.pickDir
	return func() tea.Msg {
		files, err := media.Discover(dir)
		return filesDiscoveredMsg{Files: files, Err: err}
	}
}

func (m Model) probeCmd(sources []string) tea.Cmd {
	ctx := m.ctx
	opts := probe.Options{FFprobePath: m.cfg.FFprobePath, Verbose: false}
	return func() tea.Msg {
		descs := make([]model.MediaDescriptor, len(sources))
		for i, src := range sources {
			d, err := probe.Probe(ctx, src, opts)
			if err != nil {
				return probedMsg{Err: err}
			}
			descs[i] = d
		}
		return probedMsg{Descs: descs}
	}
}

type teaReporter struct {
	ch chan tea.Msg
}

func (r teaReporter) Update(u progress.Update) {
	// Block on terminal stages so they are never dropped
	if u.Stage == progress.StageCompleted || u.Stage == progress.StageError {
		r.ch <- jobUpdateMsg{U: u}
		return
	}
	select {
	case r.ch <- jobUpdateMsg{U: u}:
	default:
	}
}

func (r teaReporter) Log(l progress.Log) {
	select {
	case r.ch <- jobLogMsg{L: l}:
	default:
	}
}

func (r teaReporter) Result(res progress.Result) {
	r.ch <- jobResultMsg{R: res}
}
