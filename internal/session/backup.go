package session

import (
	"encoding/json"
	"fmt"

	"facturas/pkg/models"
)

// The backup JSON keeps the field names of the original intake form so
// existing backups remain loadable. Loading a backup must reproduce the
// header and item list that produced it; the charge allocation is not
// trusted from disk but regenerated from otrosCargos.monto against the
// reloaded items.

type backupBasic struct {
	RUC               string `json:"ruc"`
	RazonSocial       string `json:"razonSocial"`
	Moneda            string `json:"moneda"`
	FechaEmision      string `json:"fechaEmision"`
	NumeroComprobante string `json:"numeroComprobante"`
	Importe           string `json:"importe"`
	Solicitante       string `json:"solicitante"`
	Nacionalidad      string `json:"tipoFacturaNacionalidad"`
	TipoMoneda        string `json:"tipoMoneda"`
	Descripcion       string `json:"descripcion"`
	CodigoBien        string `json:"codigoBien"`
	PorcentajeDetrac  string `json:"porcentajeDetraccion"`
	FechaInicioLic    string `json:"fechaInicioLicencia"`
	FechaFinLic       string `json:"fechaFinLicencia"`
	AreaSolicitante   string `json:"areaSolicitante"`
}

type backupItem struct {
	NumeroItem   int    `json:"numeroItem"`
	Importe      string `json:"importe"`
	Porcentaje   string `json:"porcentaje"`
	LineaNegocio string `json:"lineaNegocio"`
	CentroCosto  string `json:"centroCosto"`
	Proyecto     string `json:"proyecto"`
}

type backupCharge struct {
	Importe      string `json:"importe"`
	Porcentaje   string `json:"porcentaje"`
	LineaNegocio string `json:"lineaNegocio"`
	CentroCosto  string `json:"centroCosto"`
	Proyecto     string `json:"proyecto"`
}

type backupCharges struct {
	Monto string         `json:"monto"`
	Items []backupCharge `json:"items"`
}

type backupFile struct {
	Basic         backupBasic    `json:"basic"`
	Items         []backupItem   `json:"items"`
	BaseImponible string         `json:"baseImponible"`
	IGV           string         `json:"igv"`
	IGVPorcentaje string         `json:"igvPorcentaje"`
	OtrosCargos   *backupCharges `json:"otrosCargos,omitempty"`
	CuentaContable string        `json:"cuentaContableSearch"`
	TipoFactura    string        `json:"tipoFactura"`
	Parte1         string        `json:"numeroComprobanteParte1"`
	Parte2         string        `json:"numeroComprobanteParte2"`
}

// MarshalBackup serializes the session into the backup JSON layout.
func (s *Session) MarshalBackup() ([]byte, error) {
	h := &s.Header

	file := backupFile{
		Basic: backupBasic{
			RUC:               h.SupplierRUC,
			RazonSocial:       h.SupplierName,
			Moneda:            h.Currency,
			FechaEmision:      h.IssueDate,
			NumeroComprobante: h.DocumentNumber(),
			Importe:           h.TotalAmount.StringFixed(2),
			Solicitante:       h.Requester,
			Nacionalidad:      string(h.Nationality),
			TipoMoneda:        h.PaymentCurrency,
			Descripcion:       h.Description,
			CodigoBien:        h.DetractionCode,
			PorcentajeDetrac:  h.DetractionPercent,
			FechaInicioLic:    h.LicenseStart,
			FechaFinLic:       h.LicenseEnd,
			AreaSolicitante:   h.RequesterArea,
		},
		BaseImponible:  h.TaxableBase.StringFixed(2),
		IGV:            h.TaxAmount.StringFixed(2),
		IGVPorcentaje:  h.TaxRate.String(),
		CuentaContable: StripCode(h.Account),
		TipoFactura:    StripCode(h.InvoiceType),
		Parte1:         h.Series,
		Parte2:         h.Sequence,
	}

	for _, it := range s.Items {
		file.Items = append(file.Items, backupItem{
			NumeroItem:   it.Position,
			Importe:      it.Amount.StringFixed(2),
			Porcentaje:   it.Share.StringFixed(2),
			LineaNegocio: it.BusinessLine,
			CentroCosto:  it.CostCenter,
			Proyecto:     it.Project,
		})
	}

	if s.OtherCharges.IsPositive() {
		charges := &backupCharges{Monto: s.OtherCharges.StringFixed(2)}
		for _, c := range s.Charges {
			charges.Items = append(charges.Items, backupCharge{
				Importe:      c.Amount.StringFixed(2),
				Porcentaje:   c.Share.StringFixed(2),
				LineaNegocio: c.BusinessLine,
				CentroCosto:  c.CostCenter,
				Proyecto:     c.Project,
			})
		}
		file.OtrosCargos = charges
	}

	return json.MarshalIndent(file, "", "  ")
}

// LoadBackup reconstructs a session from backup JSON.
func LoadBackup(data []byte) (*Session, error) {
	var file backupFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("backup is not valid JSON: %w", err)
	}

	s := New()
	b := file.Basic

	s.Header = models.InvoiceHeader{
		SupplierRUC:       b.RUC,
		SupplierName:      b.RazonSocial,
		Currency:          b.Moneda,
		Nationality:       models.Nationality(b.Nacionalidad),
		PaymentCurrency:   b.TipoMoneda,
		IssueDate:         b.FechaEmision,
		Series:            file.Parte1,
		Sequence:          file.Parte2,
		TotalAmount:       models.ParseAmount(b.Importe),
		TaxableBase:       models.ParseAmount(file.BaseImponible),
		TaxAmount:         models.ParseAmount(file.IGV),
		TaxRate:           models.ParseAmount(file.IGVPorcentaje),
		Requester:         b.Solicitante,
		RequesterArea:     b.AreaSolicitante,
		Description:       b.Descripcion,
		DetractionCode:    b.CodigoBien,
		DetractionPercent: b.PorcentajeDetrac,
		LicenseStart:      b.FechaInicioLic,
		LicenseEnd:        b.FechaFinLic,
		Account:           file.CuentaContable,
		InvoiceType:       file.TipoFactura,
	}
	if s.Header.Nationality == "" {
		s.Header.Nationality = models.NationalityDomestic
	}

	// Older backups stored only the composite number.
	if s.Header.Series == "" && b.NumeroComprobante != "" {
		s.Header.Series, s.Header.Sequence = splitComposite(b.NumeroComprobante)
	}

	for i, it := range file.Items {
		pos := it.NumeroItem
		if pos == 0 {
			pos = i + 1
		}
		project := it.Proyecto
		if project == "" {
			project = models.ProjectNone
		}
		s.Items = append(s.Items, &models.LineItem{
			Position:     pos,
			Amount:       models.ParseAmount(it.Importe),
			Share:        models.ParseAmount(it.Porcentaje),
			BusinessLine: it.LineaNegocio,
			CostCenter:   it.CentroCosto,
			Project:      project,
		})
	}

	// The allocation list is derived state: regenerate it rather than
	// trusting what was written to disk.
	if file.OtrosCargos != nil {
		s.SetOtherCharges(models.ParseAmount(file.OtrosCargos.Monto))
	}

	return s, nil
}

func splitComposite(number string) (series, sequence string) {
	for i := 0; i < len(number); i++ {
		if number[i] == '-' {
			return number[:i], number[i+1:]
		}
	}
	return number, ""
}
