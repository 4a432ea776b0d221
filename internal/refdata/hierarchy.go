package refdata

import (
	"sort"
	"strings"
)

// Hierarchy models the business line -> cost center -> project tree of
// the cost-center sheet. Each cost center belongs to exactly one
// business line and may list several projects; it also carries a
// description and the code it had in the previous accounting system.
type Hierarchy struct {
	businessLines map[string]struct{}
	costCenters   map[string][]string // business line -> cost centers
	projects      map[string][]string // cost center -> projects
	ccDescription map[string]string
	legacyCodes   map[string]string
	projDescr     map[string]string
}

func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		businessLines: make(map[string]struct{}),
		costCenters:   make(map[string][]string),
		projects:      make(map[string][]string),
		ccDescription: make(map[string]string),
		legacyCodes:   make(map[string]string),
		projDescr:     make(map[string]string),
	}
}

// BuildHierarchy derives the tree from the raw cost-center and project
// rows. Cost-center rows carry the business line, project and legacy
// code in their extra columns; project rows only contribute
// descriptions.
func BuildHierarchy(costCenters, projects []Row) *Hierarchy {
	h := NewHierarchy()

	for _, row := range costCenters {
		if row.Value == "" || row.Label == "" {
			continue
		}
		cc := row.Value
		descr := labelDescription(row.Label)

		line := extra(row, 0)
		project := extra(row, 1)
		legacy := extra(row, 2)
		if line == "" {
			continue
		}

		h.businessLines[line] = struct{}{}
		if !contains(h.costCenters[line], cc) {
			h.costCenters[line] = append(h.costCenters[line], cc)
		}
		h.ccDescription[cc] = descr
		h.legacyCodes[cc] = legacy
		if project != "" && !contains(h.projects[cc], project) {
			h.projects[cc] = append(h.projects[cc], project)
		}
	}

	for _, row := range projects {
		if row.Value == "" || row.Label == "" {
			continue
		}
		descr := labelDescription(row.Label)
		if descr == "" {
			descr = row.Label
		}
		h.projDescr[row.Value] = descr
	}

	return h
}

// BusinessLines returns all known business lines, sorted.
func (h *Hierarchy) BusinessLines() []string {
	lines := make([]string, 0, len(h.businessLines))
	for line := range h.businessLines {
		lines = append(lines, line)
	}
	sort.Strings(lines)
	return lines
}

// CostCenters returns the cost centers of a business line, sorted.
func (h *Hierarchy) CostCenters(businessLine string) []string {
	ccs := append([]string(nil), h.costCenters[businessLine]...)
	sort.Strings(ccs)
	return ccs
}

// Projects returns the projects of a cost center, sorted.
func (h *Hierarchy) Projects(costCenter string) []string {
	ps := append([]string(nil), h.projects[costCenter]...)
	sort.Strings(ps)
	return ps
}

// ValidCostCenter reports whether the cost center belongs to the given
// business line.
func (h *Hierarchy) ValidCostCenter(businessLine, costCenter string) bool {
	return contains(h.costCenters[businessLine], costCenter)
}

// ValidProject reports whether the project belongs to the given cost
// center.
func (h *Hierarchy) ValidProject(costCenter, project string) bool {
	return contains(h.projects[costCenter], project)
}

// CostCenterDescription returns the description of a cost center.
func (h *Hierarchy) CostCenterDescription(costCenter string) string {
	return h.ccDescription[costCenter]
}

// LegacyCode returns the cost center's code in the previous accounting
// system, used by the ERP distribution string.
func (h *Hierarchy) LegacyCode(costCenter string) string {
	return h.legacyCodes[costCenter]
}

// ProjectDescription returns the description of a project.
func (h *Hierarchy) ProjectDescription(project string) string {
	return h.projDescr[project]
}

// labelDescription extracts the description from a "code - description"
// label, or "" when the label has no separator.
func labelDescription(label string) string {
	if !strings.Contains(label, " - ") {
		return ""
	}
	parts := strings.SplitN(label, " - ", 2)
	return strings.TrimSpace(parts[1])
}

func extra(row Row, i int) string {
	if i >= len(row.Extra) {
		return ""
	}
	return strings.TrimSpace(row.Extra[i])
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
