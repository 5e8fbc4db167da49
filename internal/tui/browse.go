// Package tui provides a small terminal browser over a loaded
// instance: cells, matrices, force-constant status and interaction
// settings, one section per view.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jonahhaber/phono3py/internal/ph3"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	missStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

var sections = []string{"cells", "matrices", "force constants", "interaction"}

type model struct {
	inst    *ph3.Phono3py
	section int
}

// NewBrowser wraps a loaded instance in a bubbletea model.
func NewBrowser(inst *ph3.Phono3py) tea.Model {
	return model{inst: inst}
}

// Run starts the interactive browser.
func Run(inst *ph3.Phono3py) error {
	_, err := tea.NewProgram(NewBrowser(inst)).Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "shift+tab":
			m.section = (m.section + len(sections) - 1) % len(sections)
		case "right", "l", "tab":
			m.section = (m.section + 1) % len(sections)
		}
	}
	return m, nil
}

func (m model) View() string {
	var sb strings.Builder

	var tabs []string
	for i, name := range sections {
		if i == m.section {
			tabs = append(tabs, titleStyle.Render("["+name+"]"))
		} else {
			tabs = append(tabs, labelStyle.Render(" "+name+" "))
		}
	}
	sb.WriteString(strings.Join(tabs, " "))
	sb.WriteString("\n\n")

	switch m.section {
	case 0:
		m.renderCells(&sb)
	case 1:
		m.renderMatrices(&sb)
	case 2:
		m.renderForceConstants(&sb)
	case 3:
		m.renderInteraction(&sb)
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("tab/arrows: switch section   q: quit"))
	sb.WriteString("\n")
	return sb.String()
}

func (m model) renderCells(sb *strings.Builder) {
	uc := m.inst.Unitcell()
	row(sb, "unit cell", fmt.Sprintf("%d atoms, %.3f A^3", uc.NumAtoms(), uc.Volume()))
	row(sb, "supercell", fmt.Sprintf("%d atoms", m.inst.Supercell().NumAtoms()))
	if m.inst.PhononSupercell() != m.inst.Supercell() {
		row(sb, "phonon supercell", fmt.Sprintf("%d atoms", m.inst.PhononSupercell().NumAtoms()))
	}
	row(sb, "primitive", fmt.Sprintf("%d atoms", m.inst.Primitive().NumAtoms()))

	counts := map[string]int{}
	var order []string
	for _, s := range uc.Symbols {
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}
	var comp []string
	for _, s := range order {
		comp = append(comp, fmt.Sprintf("%s%d", s, counts[s]))
	}
	row(sb, "composition", strings.Join(comp, " "))
}

func (m model) renderMatrices(sb *strings.Builder) {
	smat := m.inst.SupercellMatrix()
	for i := 0; i < 3; i++ {
		label := ""
		if i == 0 {
			label = "supercell matrix"
		}
		row(sb, label, fmt.Sprintf("%3d %3d %3d", smat[i][0], smat[i][1], smat[i][2]))
	}
	pmat := m.inst.PrimitiveMatrix()
	for i := 0; i < 3; i++ {
		label := ""
		if i == 0 {
			label = "primitive matrix"
		}
		row(sb, label, fmt.Sprintf("%6.3f %6.3f %6.3f", pmat[i][0], pmat[i][1], pmat[i][2]))
	}
}

func (m model) renderForceConstants(sb *strings.Builder) {
	status := func(ok bool) string {
		if ok {
			return okStyle.Render("set")
		}
		return missStyle.Render("not set")
	}
	row(sb, "fc3", status(m.inst.FC3() != nil))
	row(sb, "fc2", status(m.inst.FC2() != nil))
	if ds := m.inst.Dataset(); ds != nil {
		row(sb, "fc2 dataset", fmt.Sprintf("%d displacements", len(ds.Displacements)))
	}
	if ds := m.inst.Dataset3(); ds != nil {
		row(sb, "fc3 dataset", fmt.Sprintf("%d displaced supercells", ds.NumSupercells()))
	}
}

func (m model) renderInteraction(sb *strings.Builder) {
	ia := m.inst.Interaction()
	if ia == nil {
		sb.WriteString(labelStyle.Render("  no mesh given, interaction not configured"))
		sb.WriteString("\n")
		return
	}
	row(sb, "mesh", fmt.Sprintf("%d x %d x %d", ia.Mesh[0], ia.Mesh[1], ia.Mesh[2]))
	row(sb, "nac", map[bool]string{true: "on", false: "off"}[ia.NACParams != nil])
	if ia.FrequencyScaleFactor != 0 {
		row(sb, "frequency scale", fmt.Sprintf("%.4f", ia.FrequencyScaleFactor))
	}
}

func row(sb *strings.Builder, label, value string) {
	sb.WriteString(fmt.Sprintf("  %s %s\n",
		labelStyle.Render(fmt.Sprintf("%-18s", label)),
		valueStyle.Render(value)))
}
