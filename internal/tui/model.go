// Package tui renders the sandbox change set as an interactive tree and
// wires user actions back onto the sandbox binary.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/codefionn/sbxpanel/internal/changes"
	"github.com/codefionn/sbxpanel/internal/config"
	"github.com/codefionn/sbxpanel/internal/diffview"
	"github.com/codefionn/sbxpanel/internal/logger"
	"github.com/codefionn/sbxpanel/internal/sbx"
	"github.com/codefionn/sbxpanel/internal/state"
	"github.com/codefionn/sbxpanel/internal/watcher"
)

// confirmState defers building the confirmed command until the user says
// yes, so canceling leaves no half-started state behind.
type confirmState struct {
	prompt string
	run    func() tea.Cmd
}

// Model is the bubbletea model for the whole panel.
type Model struct {
	cfg      *config.Config
	client   *sbx.Client
	resolver *diffview.Resolver
	store    *state.Store
	watch    *watcher.Watcher
	ctx      context.Context
	log      *logger.Logger

	roots      []string
	rootStates map[string]*rootState
	rows       []row
	cursor     int
	scroll     int
	expanded   map[string]bool

	width  int
	height int

	spin spinner.Model
	busy string

	flash    string
	flashErr bool

	output      viewport.Model
	outputOpen  bool
	outputRaw   string
	outputTitle string
	streaming   bool
	diffSeq     int
	diffCh      chan tea.Msg

	patternInput textinput.Model
	patternMode  bool

	showHelp bool
	helpView string
	confirm  *confirmState
}

// New creates the panel model. store and watch may be nil; the related
// affordances degrade gracefully.
func New(ctx context.Context, cfg *config.Config, client *sbx.Client, resolver *diffview.Resolver, store *state.Store, watch *watcher.Watcher) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "patterns, e.g. src/**  *.md"
	ti.Prompt = "diff> "

	roots := append([]string(nil), cfg.Roots...)
	if len(roots) == 0 {
		if cwd, err := os.Getwd(); err == nil {
			roots = []string{cwd}
		}
	}

	return &Model{
		cfg:          cfg,
		client:       client,
		resolver:     resolver,
		store:        store,
		watch:        watch,
		ctx:          ctx,
		log:          logger.Global().WithPrefix("tui"),
		roots:        roots,
		rootStates:   make(map[string]*rootState),
		expanded:     make(map[string]bool),
		spin:         sp,
		patternInput: ti,
	}
}

// Init implements tea.Model. A single workspace folder loads immediately;
// with several folders each one loads lazily on first expand.
func (m *Model) Init() tea.Cmd {
	m.buildRows()
	var cmds []tea.Cmd
	if len(m.roots) == 1 {
		cmds = append(cmds, m.refreshRoot(m.roots[0]))
	}
	if cmd := m.waitWatch(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanes()
		return m, nil

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case statusLoadedMsg:
		m.rootStates[msg.root] = &rootState{
			loaded:     true,
			entries:    msg.entries,
			info:       msg.info,
			hasMapping: msg.hasMapping,
			err:        msg.err,
		}
		if m.watch != nil && msg.info != nil {
			m.watch.Add(msg.info.UpperCwd)
		}
		m.buildRows()
		return m, nil

	case actionDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.setFlash(sbx.Hint(msg.err), true)
		} else {
			m.setFlash(msg.name+" completed", false)
		}
		// Refresh regardless of outcome so the tree reflects whatever
		// the binary actually did before failing.
		return m, m.refreshRoot(msg.root)

	case execFinishedMsg:
		if msg.err != nil {
			m.setFlash(msg.err.Error(), true)
		}
		return m, m.refreshRoot(msg.root)

	case diffChunkMsg:
		if msg.seq != m.diffSeq || !m.outputOpen {
			// Stream abandoned; the spawned process winds down on its own.
			return m, nil
		}
		m.outputRaw += msg.text
		m.output.SetContent(m.outputRaw)
		m.output.GotoBottom()
		return m, waitDiff(m.diffCh)

	case diffDoneMsg:
		if msg.seq != m.diffSeq || !m.outputOpen {
			return m, nil
		}
		m.streaming = false
		rendered := diffview.RenderUnified(m.outputRaw)
		if msg.exitCode != 0 {
			rendered += errorStyle.Render(fmt.Sprintf("[diff exited with code %d]", msg.exitCode)) + "\n"
		}
		m.output.SetContent(rendered)
		return m, nil

	case watchFiredMsg:
		return m, tea.Batch(m.refreshLoaded(), m.waitWatch())

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.confirm != nil {
		switch msg.String() {
		case "y", "enter":
			run := m.confirm.run
			m.confirm = nil
			return m, run()
		case "n", "esc", "q":
			m.confirm = nil
			return m, nil
		}
		return m, nil
	}

	if m.patternMode {
		switch msg.String() {
		case "enter":
			patterns := strings.Fields(m.patternInput.Value())
			m.patternMode = false
			if len(patterns) == 0 {
				return m, nil
			}
			matcher, err := changes.CompilePatterns(patterns)
			if err != nil {
				m.setFlash(err.Error(), true)
				return m, nil
			}
			root := m.currentRoot()
			if rs := m.rootStates[root]; rs != nil && len(matcher.Filter(rs.entries)) == 0 {
				m.setFlash("no reported changes match those patterns", false)
			}
			return m, m.startDiff(root, patterns)
		case "esc":
			m.patternMode = false
			return m, nil
		}
		var cmd tea.Cmd
		m.patternInput, cmd = m.patternInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, keys.Toggle):
		return m.toggleOrInvoke()

	case key.Matches(msg, keys.Diff):
		cur, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		return m, m.startDiff(cur.root, m.selectionPatterns(cur))

	case key.Matches(msg, keys.View):
		return m.openSideBySide()

	case key.Matches(msg, keys.Accept):
		cur, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		patterns := m.selectionPatterns(cur)
		if len(patterns) == 0 {
			m.setFlash("nothing selected to accept", true)
			return m, nil
		}
		return m, m.runMutation(cur.root, "accept", func(ctx context.Context) error {
			return m.client.Accept(ctx, cur.root, patterns...)
		})

	case key.Matches(msg, keys.Reject):
		cur, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		patterns := m.selectionPatterns(cur)
		if len(patterns) == 0 {
			m.setFlash("nothing selected to reject", true)
			return m, nil
		}
		root := cur.root
		m.confirm = &confirmState{
			prompt: "Discard the selected staged changes?",
			run: func() tea.Cmd {
				return m.runMutation(root, "reject", func(ctx context.Context) error {
					return m.client.Reject(ctx, root, patterns...)
				})
			},
		}
		return m, nil

	case key.Matches(msg, keys.Pattern):
		m.patternMode = true
		m.patternInput.SetValue("")
		return m, m.patternInput.Focus()

	case key.Matches(msg, keys.Refresh):
		if len(m.roots) == 1 && m.rootStates[m.roots[0]] == nil {
			return m, m.refreshRoot(m.roots[0])
		}
		return m, m.refreshLoaded()

	case key.Matches(msg, keys.Output):
		m.outputOpen = false
		m.streaming = false
		m.resizePanes()
		return m, nil

	case key.Matches(msg, keys.Help):
		m.showHelp = true
		m.renderHelp()
		return m, nil
	}

	if m.outputOpen {
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) toggleOrInvoke() (tea.Model, tea.Cmd) {
	cur, ok := m.currentRow()
	if !ok {
		return m, nil
	}

	switch cur.kind {
	case rowAction:
		return m, m.invokeAction(cur)
	case rowFile:
		if cur.entry != nil {
			return m, m.startDiff(cur.root, []string{cur.entry.Destination})
		}
		return m, nil
	case rowError:
		return m, m.refreshRoot(cur.root)
	}

	if !cur.expandable {
		return m, nil
	}
	m.expanded[cur.id] = !cur.expanded

	var cmd tea.Cmd
	if cur.kind == rowRoot && !cur.expanded && m.rootStates[cur.root] == nil {
		cmd = m.refreshRoot(cur.root)
	}
	m.buildRows()
	return m, cmd
}

func (m *Model) invokeAction(r row) tea.Cmd {
	root := r.root
	switch r.action {
	case actionEnter:
		cmd := m.client.ShellCommand(m.ctx, root)
		return tea.ExecProcess(cmd, func(err error) tea.Msg {
			return execFinishedMsg{root: root, err: err}
		})
	case actionDiffAll:
		return m.startDiff(root, nil)
	case actionAcceptAll:
		return m.runMutation(root, "accept", func(ctx context.Context) error {
			return m.client.Accept(ctx, root, "**")
		})
	case actionRejectAll:
		m.confirm = &confirmState{
			prompt: "Discard ALL staged changes in this sandbox?",
			run: func() tea.Cmd {
				return m.runMutation(root, "reject", func(ctx context.Context) error {
					return m.client.Reject(ctx, root, "**")
				})
			},
		}
		return nil
	case actionSync:
		return m.runMutation(root, "sync", func(ctx context.Context) error {
			return m.client.Sync(ctx, root)
		})
	case actionStop:
		return m.runMutation(root, "stop", func(ctx context.Context) error {
			return m.client.Stop(ctx, root)
		})
	case actionDelete:
		m.confirm = &confirmState{
			prompt: "Delete the sandbox and all of its staged state?",
			run: func() tea.Cmd {
				return m.runMutation(root, "delete", func(ctx context.Context) error {
					return m.client.Delete(ctx, root)
				})
			},
		}
		return nil
	case actionPivot:
		return m.pivotRoot(root)
	case actionRestore:
		return m.restoreRoot(root)
	}
	return nil
}

// pivotRoot re-roots the panel at the sandbox overlay directory,
// recording where it came from so it can be restored later.
func (m *Model) pivotRoot(root string) tea.Cmd {
	rs := m.rootStates[root]
	overlay := ""
	if rs != nil && rs.info != nil {
		overlay = rs.info.OverlayCwd
		if overlay == "" {
			overlay = rs.info.UpperCwd
		}
	}
	if overlay == "" {
		m.setFlash("the sandbox did not report an overlay directory", true)
		return nil
	}
	if m.store != nil {
		if err := m.store.PutMapping(overlay, root); err != nil {
			m.setFlash(err.Error(), true)
			return nil
		}
	}
	m.replaceRoot(root, overlay)
	return m.refreshRoot(overlay)
}

// restoreRoot re-roots the panel at the folder the overlay was derived
// from. With no recorded mapping it warns and does nothing else.
func (m *Model) restoreRoot(root string) tea.Cmd {
	if m.store == nil {
		m.setFlash("no recorded original folder for this overlay", true)
		return nil
	}
	original, err := m.store.GetMapping(root)
	if errors.Is(err, state.ErrNoMapping) {
		m.setFlash("no recorded original folder for this overlay", true)
		return nil
	}
	if err != nil {
		m.setFlash(err.Error(), true)
		return nil
	}
	if err := m.store.DeleteMapping(root); err != nil {
		m.log.Warn("failed to clear overlay mapping for %s: %v", root, err)
	}
	m.replaceRoot(root, original)
	return m.refreshRoot(original)
}

func (m *Model) replaceRoot(old, new string) {
	for i, root := range m.roots {
		if root == old {
			m.roots[i] = new
			break
		}
	}
	delete(m.rootStates, old)
	m.buildRows()
}

func (m *Model) openSideBySide() (tea.Model, tea.Cmd) {
	cur, ok := m.currentRow()
	if !ok || cur.entry == nil {
		return m, nil
	}
	spec, err := m.resolver.Resolve(*cur.entry)
	if err != nil {
		m.setFlash(err.Error(), true)
		return m, nil
	}
	root := cur.root
	cmd := exec.CommandContext(m.ctx, difftool(), spec.Left, spec.Right)
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return execFinishedMsg{root: root, err: err}
	})
}

func difftool() string {
	if tool := os.Getenv("SBXPANEL_DIFFTOOL"); tool != "" {
		return tool
	}
	return "vimdiff"
}

func (m *Model) currentRow() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) currentRoot() string {
	if cur, ok := m.currentRow(); ok && cur.root != "" {
		return cur.root
	}
	if len(m.roots) > 0 {
		return m.roots[0]
	}
	return "."
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
}

func (m *Model) resizePanes() {
	if m.width == 0 || m.height == 0 {
		return
	}
	if m.outputOpen {
		paneHeight := m.height / 2
		if paneHeight < 5 {
			paneHeight = 5
		}
		if m.output.Width == 0 {
			m.output = viewport.New(m.width, paneHeight-2)
		} else {
			m.output.Width = m.width
			m.output.Height = paneHeight - 2
		}
	}
}
