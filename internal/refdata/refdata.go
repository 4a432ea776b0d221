// Package refdata loads the reference tables that drive invoice entry:
// detraction percentages and codes, chart-of-accounts entries, invoice
// types, the supplier registry and the cost-center hierarchy. Tables can
// come from a Google Sheets workbook or a local XLSX file; when neither
// is configured the catalog stays empty and entry degrades to free text.
package refdata

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Worksheet names as they appear in the source workbook.
const (
	TableDetractionPercents = "PorDetracción"
	TableDetractionCodes    = "CodDetracción"
	TableAccounts           = "CContables"
	TableInvoiceTypes       = "TipoFac"
	TableSuppliers          = "Proveedores"
	TableCostCenters        = "CCOs"
	TableProjects           = "Proyectos"
)

var flatTables = []string{
	TableDetractionPercents,
	TableDetractionCodes,
	TableAccounts,
	TableInvoiceTypes,
	TableSuppliers,
}

// Row is one entry of a reference table. Value is the code used in
// exports, Label the human-readable text shown during entry. Extra
// carries the additional columns of the cost-center sheet.
type Row struct {
	Value string
	Label string
	Extra []string
}

// Option is a selectable value/label pair.
type Option struct {
	Value string
	Label string
}

// Source provides the raw rows of a named reference table.
type Source interface {
	Table(ctx context.Context, name string) ([]Row, error)
}

// Catalog holds all loaded reference tables plus the cost-center
// hierarchy derived from them.
type Catalog struct {
	source    Source
	tables    map[string][]Row
	hierarchy *Hierarchy
	log       zerolog.Logger
}

func NewCatalog(source Source, log zerolog.Logger) *Catalog {
	return &Catalog{
		source:    source,
		tables:    make(map[string][]Row),
		hierarchy: NewHierarchy(),
		log:       log,
	}
}

// Load fetches every table from the source. A table that fails to load
// is logged and left empty; entry then falls back to free-text input
// for that field instead of aborting the whole session.
func (c *Catalog) Load(ctx context.Context) error {
	const op = "refdata.Catalog.Load"

	if c.source == nil {
		c.log.Warn().Str("op", op).Msg("no reference data source configured")
		return nil
	}

	for _, name := range flatTables {
		rows, err := c.source.Table(ctx, name)
		if err != nil {
			c.log.Warn().Str("op", op).Str("table", name).Err(err).
				Msg("reference table unavailable")
			continue
		}
		c.tables[name] = rows
	}

	ccos, err := c.source.Table(ctx, TableCostCenters)
	if err != nil {
		c.log.Warn().Str("op", op).Str("table", TableCostCenters).Err(err).
			Msg("cost center table unavailable")
	}
	projects, err := c.source.Table(ctx, TableProjects)
	if err != nil {
		c.log.Warn().Str("op", op).Str("table", TableProjects).Err(err).
			Msg("project table unavailable")
	}
	c.hierarchy = BuildHierarchy(ccos, projects)

	c.log.Info().Str("op", op).
		Int("tables", len(c.tables)).
		Int("business_lines", len(c.hierarchy.BusinessLines())).
		Msg("reference data loaded")
	return nil
}

// Options returns the selectable entries of a flat table, skipping rows
// without a value or label.
func (c *Catalog) Options(table string) []Option {
	rows := c.tables[table]
	opts := make([]Option, 0, len(rows))
	for _, r := range rows {
		if r.Value == "" || r.Label == "" {
			continue
		}
		opts = append(opts, Option{Value: r.Value, Label: r.Label})
	}
	return opts
}

// Label returns the label stored for a value in a flat table, or the
// empty string when the value is unknown.
func (c *Catalog) Label(table, value string) string {
	for _, r := range c.tables[table] {
		if r.Value == value {
			return r.Label
		}
	}
	return ""
}

// Hierarchy returns the cost-center hierarchy built during Load.
func (c *Catalog) Hierarchy() *Hierarchy {
	return c.hierarchy
}

// SupplierOracleNumber looks up the supplier row whose value matches the
// given RUC and returns the registry number embedded in its label. The
// supplier labels read "RUC - name - number"; the third segment is the
// number used by the ERP export. Returns "" when not found.
func (c *Catalog) SupplierOracleNumber(ruc string) string {
	label := c.Label(TableSuppliers, ruc)
	if label == "" {
		return ""
	}
	parts := strings.Split(label, " - ")
	if len(parts) < 3 {
		return ""
	}
	return strings.TrimSpace(parts[2])
}
