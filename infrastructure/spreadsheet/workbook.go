package spreadsheet

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/carlosrabelo/portsheet/domain/entities"
)

const (
	InterfacesSheet = "Interfaces"
	VLANsSheet      = "VLANs"

	defaultSheet = "Sheet1"
	maxColWidth  = 60
)

var (
	InterfaceHeader = []string{"Hostname", "Port", "Description", "Vlan", "Status", "Protocol", "Ip_address", "Etherchannel"}
	VLANHeader      = []string{"Hostname", "Vlan_id", "Vlan_name", "Assigned_ports"}
)

// WorkbookWriter merges inventories into an XLSX file with one interface
// sheet and one VLAN sheet
type WorkbookWriter struct {
	path string
}

// NewWorkbookWriter creates a writer for the workbook at path
func NewWorkbookWriter(path string) *WorkbookWriter {
	return &WorkbookWriter{path: path}
}

// Path returns the workbook location
func (w *WorkbookWriter) Path() string {
	return w.path
}

// Write appends the inventory rows to the rows already in the workbook,
// keeps the last row per (Hostname, Port) and (Hostname, Vlan_id), and
// replaces the file.
func (w *WorkbookWriter) Write(inv *entities.Inventory) error {
	interfaces, vlans, err := ReadWorkbook(w.path)
	if err != nil {
		return err
	}
	interfaces = dedupeInterfaces(append(interfaces, inv.Interfaces...))
	vlans = dedupeVLANs(append(vlans, inv.VLANs...))

	f, err := buildWorkbook(interfaces, vlans)
	if err != nil {
		return err
	}
	defer f.Close()

	return w.save(f)
}

// save writes through a temp file in the target directory so a failed
// write leaves the previous workbook untouched
func (w *WorkbookWriter) save(f *excelize.File) error {
	tmp, err := os.CreateTemp(filepath.Dir(w.path), ".portsheet-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp workbook: %w", err)
	}
	tmpName := tmp.Name()

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", w.path, err)
	}
	return nil
}

// ReadWorkbook loads the rows of an existing workbook. A missing file yields
// no rows. Columns are matched by header name, so reordered or extra
// columns are tolerated.
func ReadWorkbook(path string) ([]entities.InterfaceRecord, []entities.VLANRecord, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open existing workbook %s: %w", path, err)
	}
	defer f.Close()

	var interfaces []entities.InterfaceRecord
	rows, err := sheetRows(f, InterfacesSheet, InterfaceHeader)
	if err != nil {
		return nil, nil, err
	}
	for _, r := range rows {
		interfaces = append(interfaces, entities.InterfaceRecord{
			Hostname:    r[0],
			Port:        r[1],
			Description: r[2],
			VLAN:        r[3],
			Status:      r[4],
			Protocol:    r[5],
			IPAddress:   r[6],
			Aggregate:   r[7],
		})
	}

	var vlans []entities.VLANRecord
	rows, err = sheetRows(f, VLANsSheet, VLANHeader)
	if err != nil {
		return nil, nil, err
	}
	for _, r := range rows {
		vlans = append(vlans, entities.VLANRecord{
			Hostname: r[0],
			VLANID:   r[1],
			Name:     r[2],
			Ports:    r[3],
		})
	}
	return interfaces, vlans, nil
}

// sheetRows returns the data rows of sheet with cells reordered to header.
// Rows without a hostname are skipped.
func sheetRows(f *excelize.File, sheet string, header []string) ([][]string, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	positions := make([]int, len(header))
	for i, name := range header {
		positions[i] = -1
		for j, cell := range rows[0] {
			if cell == name {
				positions[i] = j
				break
			}
		}
	}

	var out [][]string
	for _, row := range rows[1:] {
		values := make([]string, len(header))
		for i, pos := range positions {
			if pos >= 0 && pos < len(row) {
				values[i] = row[pos]
			}
		}
		if values[0] == "" {
			continue
		}
		out = append(out, values)
	}
	return out, nil
}

func buildWorkbook(interfaces []entities.InterfaceRecord, vlans []entities.VLANRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheet, InterfacesSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet %s: %w", InterfacesSheet, err)
	}
	if _, err := f.NewSheet(VLANsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet %s: %w", VLANsSheet, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	interfaceRows := make([][]string, 0, len(interfaces))
	for _, rec := range interfaces {
		interfaceRows = append(interfaceRows, []string{
			rec.Hostname, rec.Port, rec.Description, rec.VLAN,
			rec.Status, rec.Protocol, rec.IPAddress, rec.Aggregate,
		})
	}
	vlanRows := make([][]string, 0, len(vlans))
	for _, rec := range vlans {
		vlanRows = append(vlanRows, []string{rec.Hostname, rec.VLANID, rec.Name, rec.Ports})
	}

	if err := writeSheet(f, InterfacesSheet, InterfaceHeader, interfaceRows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSheet(f, VLANsSheet, VLANHeader, vlanRows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// writeSheet fills sheet with a bold, frozen, filterable header and rows
func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string, headerStyle int) error {
	widths := make([]int, len(header))
	for i, name := range header {
		widths[i] = utf8.RuneCountInString(name)
	}

	for i, row := range append([][]string{header}, rows...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
			if n := utf8.RuneCountInString(v); n > widths[j] {
				widths[j] = n
			}
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze %s header: %w", sheet, err)
	}

	lastCell, err := excelize.CoordinatesToCellName(len(header), len(rows)+1)
	if err != nil {
		return err
	}
	if err := f.AutoFilter(sheet, "A1:"+lastCell, nil); err != nil {
		return fmt.Errorf("failed to add %s filter: %w", sheet, err)
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if width > maxColWidth {
			width = maxColWidth
		}
		if err := f.SetColWidth(sheet, col, col, float64(width+2)); err != nil {
			return fmt.Errorf("failed to size %s column %s: %w", sheet, col, err)
		}
	}
	return nil
}

// dedupeInterfaces keeps the last row of every (Hostname, Port) at the
// position of that last row
func dedupeInterfaces(records []entities.InterfaceRecord) []entities.InterfaceRecord {
	last := make(map[[2]string]int, len(records))
	for i, rec := range records {
		last[[2]string{rec.Hostname, rec.Port}] = i
	}
	out := make([]entities.InterfaceRecord, 0, len(last))
	for i, rec := range records {
		if last[[2]string{rec.Hostname, rec.Port}] == i {
			out = append(out, rec)
		}
	}
	return out
}

// dedupeVLANs keeps the last row of every (Hostname, Vlan_id)
func dedupeVLANs(records []entities.VLANRecord) []entities.VLANRecord {
	last := make(map[[2]string]int, len(records))
	for i, rec := range records {
		last[[2]string{rec.Hostname, rec.VLANID}] = i
	}
	out := make([]entities.VLANRecord, 0, len(last))
	for i, rec := range records {
		if last[[2]string{rec.Hostname, rec.VLANID}] == i {
			out = append(out, rec)
		}
	}
	return out
}
