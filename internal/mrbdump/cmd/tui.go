package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"mrbdump/internal/config"
	"mrbdump/internal/loader"
	"mrbdump/internal/mrbdump/styles"
	"mrbdump/internal/render"
	"mrbdump/internal/rite"
	"mrbdump/internal/ui/colorize"
)

type viewMode int

const (
	viewInfo viewMode = iota
	viewBlocks
	viewListing
)

type blockItem struct {
	block      render.Block
	filterTerm string // pre-computed filter value
}

func newBlockItem(b render.Block) blockItem {
	return blockItem{
		block:      b,
		filterTerm: fmt.Sprintf("%s %s", b.Path, firstSymbol(b.Block)),
	}
}

func (i blockItem) Title() string {
	return fmt.Sprintf("%s  %s", i.block.Path, i.Description())
}

func (i blockItem) Description() string {
	b := i.block.Block
	return fmt.Sprintf("%d regs, %d insns, %d syms", b.NRegs, len(b.ISeq), len(b.Syms))
}

func (i blockItem) FilterValue() string {
	return i.filterTerm
}

func firstSymbol(b *rite.CodeBlock) string {
	for _, s := range b.Syms {
		if !s.Null {
			return s.Name
		}
	}
	return ""
}

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(blockItem)
	if !ok {
		return
	}

	var pathStyle lipgloss.Style
	indicator := " "
	if index == m.Index() {
		indicator = ">"
		pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	} else {
		pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	}

	depth := strings.Repeat("  ", i.block.Block.Depth)
	detail := lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Render(i.Description())
	str := fmt.Sprintf(" %s  %s%s  %s", indicator, depth, pathStyle.Render(i.block.Path), detail)
	if sym := firstSymbol(i.block.Block); sym != "" {
		str += "  " + lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(":"+render.EscapeUnprintable(sym))
	}

	fmt.Fprint(w, str)
}

type model struct {
	infoView    viewport.Model
	blockList   list.Model
	listingView viewport.Model
	spinner     spinner.Model
	mode        viewMode
	cfg         *config.Config
	filepath    string
	img         *loader.Image
	dump        *rite.Dump
	err         error
	selected    string // path of the block in the listing view
	loading     bool
	width       int
	height      int
}

type decodedMsg struct {
	img  *loader.Image
	dump *rite.Dump
	err  error
}

func decodeCmd(cfg *config.Config, filepath string) tea.Cmd {
	return func() tea.Msg {
		img, dump, err := decodeFile(cfg, filepath, nil, true)
		return decodedMsg{img: img, dump: dump, err: err}
	}
}

func NewModel(cfg *config.Config, filepath string) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	blockList := list.New([]list.Item{}, itemDelegate{}, 80, 24)
	blockList.SetShowStatusBar(false)
	blockList.SetFilteringEnabled(true)
	blockList.Title = "Code blocks"
	blockList.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)
	blockList.SetShowHelp(true)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	lvp := viewport.New()
	lvp.SetWidth(80)
	lvp.SetHeight(24)

	m := model{
		infoView:    vp,
		blockList:   blockList,
		listingView: lvp,
		spinner:     s,
		mode:        viewInfo,
		cfg:         cfg,
		filepath:    filepath,
		loading:     true,
		width:       80,
		height:      24,
	}
	m.updateContent()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		decodeCmd(m.cfg, m.filepath),
		m.spinner.Tick,
	)
}

func (m model) hasBlocks() bool {
	return m.dump != nil && m.dump.Program != nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case decodedMsg:
		m.img, m.dump, m.err = msg.img, msg.dump, msg.err
		m.loading = false
		m.updateBlockList()
		m.updateContent()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		if m.loading {
			m.updateContent()
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.infoView.SetWidth(msg.Width)
			m.infoView.SetHeight(msg.Height - 2)
			m.blockList.SetWidth(msg.Width)
			m.blockList.SetHeight(msg.Height - 2)
			m.listingView.SetWidth(msg.Width)
			m.listingView.SetHeight(msg.Height - 2)

			m.updateContent()
			if m.selected != "" {
				m.showSelected()
			}
		}

	case tea.KeyMsg:
		if m.mode == viewBlocks && m.blockList.FilterState() == list.Filtering {
			// The list owns the keyboard while filtering.
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			}
		} else {
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "i":
				m.mode = viewInfo
				return m, nil
			case "b":
				if m.hasBlocks() {
					m.mode = viewBlocks
				}
				return m, nil
			case "l":
				if m.selected != "" {
					m.mode = viewListing
				}
				return m, nil
			case "esc":
				if m.mode == viewListing {
					m.mode = viewBlocks
					return m, nil
				}
			case "enter":
				if m.mode == viewBlocks {
					if item, ok := m.blockList.SelectedItem().(blockItem); ok {
						m.selected = item.block.Path
						m.showSelected()
						m.mode = viewListing
					}
				}
				return m, nil
			case "tab":
				m.mode = m.nextMode(1)
				return m, nil
			case "shift+tab":
				m.mode = m.nextMode(-1)
				return m, nil
			}
		}
	}

	switch m.mode {
	case viewBlocks:
		m.blockList, cmd = m.blockList.Update(msg)
	case viewListing:
		m.listingView, cmd = m.listingView.Update(msg)
	default:
		m.infoView, cmd = m.infoView.Update(msg)
	}
	return m, cmd
}

// nextMode cycles through the views that currently have content.
func (m model) nextMode(step int) viewMode {
	const n = 3
	mode := m.mode
	for range n {
		mode = viewMode((int(mode) + step + n) % n)
		switch mode {
		case viewInfo:
			return mode
		case viewBlocks:
			if m.hasBlocks() {
				return mode
			}
		case viewListing:
			if m.selected != "" {
				return mode
			}
		}
	}
	return m.mode
}

func (m model) View() string {
	var content string
	switch m.mode {
	case viewBlocks:
		content = m.blockList.View()
	case viewListing:
		content = m.listingView.View()
	default:
		content = m.infoView.View()
	}

	var menu string
	switch m.mode {
	case viewBlocks:
		menu = " Enter: view listing • I: info • Tab: cycle • Q: quit "
	case viewListing:
		menu = " Esc: blocks • I: info • Tab: cycle • Q: quit "
	default:
		if m.hasBlocks() {
			menu = " B: blocks • Tab: cycle • Q: quit "
		} else {
			menu = " Q: quit "
		}
	}

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return content + "\n" + menuStyle.Render(menu)
}

func (m *model) renderWidth() int {
	if m.width == 0 {
		return 78
	}
	return m.width - 2
}

func (m *model) updateContent() {
	var markdown string
	switch {
	case m.loading:
		markdown = fmt.Sprintf("# mrbdump\n\n```\n; %s\n```\n\n%s Decoding...", m.filepath, m.spinner.View())
	case m.err != nil:
		markdown = fmt.Sprintf("# mrbdump\n\n```\n; %s\n```\n\n## Error\n\n```\n%s\n```", m.filepath, m.err)
	default:
		markdown = render.Summary(m.img, m.dump)
	}
	rendered := styles.RenderMarkdown(markdown, m.renderWidth())
	m.infoView.SetContent(strings.TrimSuffix(rendered, "\n"))
}

func (m *model) updateBlockList() {
	blocks := render.Blocks(m.dump)
	items := make([]list.Item, 0, len(blocks))
	for _, b := range blocks {
		items = append(items, newBlockItem(b))
	}
	m.blockList.SetItems(items)
	m.blockList.Title = fmt.Sprintf("Code blocks (%d total)", len(blocks))
}

// showSelected fills the listing view with the selected block.
func (m *model) showSelected() {
	for _, b := range render.Blocks(m.dump) {
		if b.Path != m.selected {
			continue
		}
		header := styles.RenderMarkdown(blockHeader(b), m.renderWidth())
		listing, _ := colorize.Disasm(render.ListingText(b.Block, m.cfg.Resolve))
		m.listingView.SetContent(strings.TrimSuffix(header, "\n") + "\n\n" + listing)
		m.listingView.GotoTop()
		return
	}
}

// blockHeader is the markdown shown above a listing: counters plus the
// pool and symbol tables.
func blockHeader(b render.Block) string {
	cb := b.Block
	var sb strings.Builder
	fmt.Fprintf(&sb, "## IREP %s\n\n", b.Path)
	fmt.Fprintf(&sb, "%d locals, %d registers, %d instructions, %d children\n", cb.NLocals, cb.NRegs, len(cb.ISeq), len(cb.Children))
	if len(cb.Pool) > 0 {
		sb.WriteString("\n| # | Pool | Value |\n|---|---|---|\n")
		for i, p := range cb.Pool {
			fmt.Fprintf(&sb, "| %d | %s | `%s` |\n", i, p.Type, render.EscapeUnprintable(p.Value))
		}
	}
	if len(cb.Syms) > 0 {
		sb.WriteString("\n| # | Symbol |\n|---|---|\n")
		for i, s := range cb.Syms {
			fmt.Fprintf(&sb, "| %d | `%s` |\n", i, render.EscapeUnprintable(s.String()))
		}
	}
	return sb.String()
}
