package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/codefionn/sbxpanel/internal/changes"
	"github.com/codefionn/sbxpanel/internal/sbx"
	"github.com/codefionn/sbxpanel/internal/state"
)

// statusLoadedMsg carries one root's refreshed change set. Refreshes are
// not serialized; the last resolved response wins.
type statusLoadedMsg struct {
	root       string
	entries    []changes.Entry
	info       *sbx.Info
	hasMapping bool
	err        error
}

// actionDoneMsg reports a completed mutating command. The tree is
// refreshed on every completion, success or failure.
type actionDoneMsg struct {
	root string
	name string
	err  error
}

type diffChunkMsg struct {
	seq  int
	text string
}

type diffDoneMsg struct {
	seq      int
	exitCode int
}

type watchFiredMsg struct{}

type execFinishedMsg struct {
	root string
	err  error
}

// refreshRoot fetches status, sandbox config and the overlay mapping for
// one workspace folder. A config failure is soft (the tree still renders,
// just without overlay context); a status failure becomes the error leaf.
func (m *Model) refreshRoot(root string) tea.Cmd {
	client := m.client
	store := m.store
	ctx := m.ctx
	log := m.log
	return func() tea.Msg {
		msg := statusLoadedMsg{root: root}
		msg.entries, msg.err = client.FetchStatus(ctx, root)

		info, err := client.FetchConfig(ctx, root)
		if err != nil {
			log.Warn("config fetch failed for %s: %v", root, err)
		} else {
			msg.info = info
		}

		if store != nil {
			if _, err := store.GetMapping(root); err == nil {
				msg.hasMapping = true
			} else if !errors.Is(err, state.ErrNoMapping) {
				log.Warn("mapping lookup failed for %s: %v", root, err)
			}
		}
		return msg
	}
}

// refreshLoaded re-fetches every root that has been loaded at least once.
func (m *Model) refreshLoaded() tea.Cmd {
	var cmds []tea.Cmd
	for _, root := range m.roots {
		if s := m.rootStates[root]; s != nil && s.loaded {
			cmds = append(cmds, m.refreshRoot(root))
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// runMutation executes one mutating subcommand off the event loop.
func (m *Model) runMutation(root, name string, fn func(context.Context) error) tea.Cmd {
	m.busy = name
	ctx := m.ctx
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		return actionDoneMsg{root: root, name: name, err: fn(ctx)}
	})
}

// startDiff begins streaming `diff <patterns...>` into the output pane.
// Chunks arrive tagged with a sequence number so a stream abandoned by
// closing the pane is silently discarded rather than killed.
func (m *Model) startDiff(root string, patterns []string) tea.Cmd {
	m.diffSeq++
	seq := m.diffSeq
	ch := make(chan tea.Msg, 64)
	m.diffCh = ch
	m.outputOpen = true
	m.outputRaw = ""
	m.streaming = true
	m.outputTitle = "diff"
	if len(patterns) == 1 {
		m.outputTitle = "diff " + patterns[0]
	}
	m.resizePanes()

	m.client.StreamDiff(m.ctx, root, patterns,
		func(text string) { ch <- diffChunkMsg{seq: seq, text: text} },
		func(exitCode int) {
			ch <- diffDoneMsg{seq: seq, exitCode: exitCode}
			close(ch)
		})

	return waitDiff(ch)
}

func waitDiff(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) waitWatch() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	ch := m.watch.C
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return watchFiredMsg{}
	}
}
