package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gircomp/gircomp/internal/format"
	"github.com/gircomp/gircomp/internal/mmfile"
)

// dirRow is one flattened directory entry, ready for list rendering.
type dirRow struct {
	index int
	name  string
	kind  string
	local bool
	de    *format.DirEntry
}

// Model is the girexplorer TUI's root bubbletea model: a scrollable
// directory list on the left, a detail pane for the selected blob on the
// right, and an optional full-screen help overlay.
type Model struct {
	path    string
	cleanup func() error

	data      []byte
	namespace string
	version   string
	entries   []dirRow
	cursor    int

	listVP   viewport.Model
	detailVP viewport.Model

	keys KeyMap

	width, height int
	showHelp      bool
	statusMessage string

	err error
}

// NewModel maps path and decodes its header and directory. Decode failures
// are stashed in err rather than returned, so the TUI can still start up and
// show the problem (mirroring how a bad hive still launches hiveexplorer).
func NewModel(path string) Model {
	m := Model{
		path:     path,
		keys:     DefaultKeyMap(),
		listVP:   viewport.New(0, 0),
		detailVP: viewport.New(0, 0),
	}

	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		m.err = fmt.Errorf("mapping %s: %w", path, err)
		return m
	}
	m.data = data
	m.cleanup = cleanup

	h, err := format.DecodeHeader(data)
	if err != nil {
		m.err = err
		return m
	}
	namespace, err := format.CString(data, h.NamespaceStringOffset)
	if err != nil {
		m.err = err
		return m
	}
	version, err := format.CString(data, h.NSVersionStringOffset)
	if err != nil {
		m.err = err
		return m
	}
	m.namespace, m.version = namespace, version

	for i := 0; i < int(h.NEntries); i++ {
		de, err := format.DirEntryAt(data, h.DirectoryOffset, i)
		if err != nil {
			m.err = err
			return m
		}
		name, err := format.CString(data, de.NameStringOffset)
		if err != nil {
			m.err = err
			return m
		}
		kind := "xref"
		if de.Local {
			kind = de.BlobType.String()
		}
		m.entries = append(m.entries, dirRow{index: i, name: name, kind: kind, local: de.Local, de: de})
	}
	return m
}

// Init starts the program with no pending commands; everything is loaded
// synchronously in NewModel.
func (m Model) Init() tea.Cmd { return nil }

// Close releases the mapped file. Safe to call even if NewModel failed
// before mapping succeeded.
func (m *Model) Close() error {
	if m.cleanup == nil {
		return nil
	}
	err := m.cleanup()
	m.cleanup = nil
	return err
}

type clearStatusMsg struct{}
