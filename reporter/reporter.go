// Package reporter writes an aggregation result to a txt, md, html or xlsx file.
package reporter

import (
	"bytes"
	htmltemplate "html/template"
	"os"
	"path/filepath"
	"strconv"
	"text/template"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"timeseries-aggregation/aggregator"
	"timeseries-aggregation/calendar"
	ierr "timeseries-aggregation/errors"
	"timeseries-aggregation/models"
	"timeseries-aggregation/utils"
)

const (
	ExportTXT  = "txt"
	ExportMD   = "md"
	ExportHTML = "html"
	ExportXLSX = "xlsx"
)

// ExportTypes lists the supported report formats
var ExportTypes = []string{ExportTXT, ExportMD, ExportHTML, ExportXLSX}

// Result is the read-only view of an aggregation result used by the reporter
type Result interface {
	Description() string
	AggregateFunction() aggregator.Function
	Keys() []calendar.Key
	Aggregate(ch models.Channel) map[calendar.Key]float64
}

type Reporter struct {
	exportType string
}

func NewReporter() *Reporter {
	return &Reporter{}
}

func (r *Reporter) SetExportType(exportType string) {
	r.exportType = exportType
}

func (r *Reporter) ExportType() string {
	return r.exportType
}

// ReportResultInFile writes result to a new file named fileName
func (r *Reporter) ReportResultInFile(result Result, fileName string) error {
	if result == nil {
		return ierr.NewError("no result to report").
			WithHint("There are no results in memory measured.").
			Mark(ierr.ErrInvalidInput)
	}
	if utils.PathExists(fileName) {
		return ierr.NewErrorf("%s already exists", fileName).
			WithHint("There already exists a file with this name. Choose a different name.").
			Mark(ierr.ErrInvalidInput)
	}

	if r.exportType == ExportXLSX {
		return writeXLSX(result, fileName)
	}

	text, err := Render(result, r.exportType)
	if err != nil {
		return err
	}
	if err = utils.WriteText(fileName, text); err != nil {
		return ierr.WithError(err).
			WithHintf("The report could not be written to %s", fileName).
			Mark(ierr.ErrStorage)
	}
	log.Info("Report written to ", fileName)
	return nil
}

type entry struct {
	Key   string
	Value string
}

type section struct {
	Title   string
	Entries []entry
}

type view struct {
	Description string
	Heading     string
	Sections    []section
}

func newView(result Result) view {
	keys := result.Keys()
	v := view{
		Description: result.Description(),
		Heading:     heading(result.AggregateFunction()),
	}
	for _, ch := range models.Channels {
		meter := result.Aggregate(ch)
		s := section{Title: ch.Title()}
		for _, key := range keys {
			if value, ok := meter[key]; ok {
				s.Entries = append(s.Entries, entry{Key: string(key), Value: formatValue(value)})
			}
		}
		v.Sections = append(v.Sections, s)
	}
	return v
}

func heading(fn aggregator.Function) string {
	return string(fn) + " consumption (watt-hours) over (a) Kitchen, (b) Laundry, (c) A/C"
}

func formatValue(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var txtTemplate = template.Must(template.New("txt").Parse(
	`{{.Description}}
=======================================
{{.Heading}}
{{range .Sections}}
{{.Title}}
--------------
{{range .Entries}}* {{.Key}}: 	{{.Value}}
{{end}}{{end}}`))

var mdTemplate = template.Must(template.New("md").Parse(
	`# {{.Description}}

{{.Heading}}
{{range .Sections}}
## {{.Title}}

{{range .Entries}}* {{.Key}}: 	{{.Value}}
{{end}}{{end}}`))

var htmlTemplate = htmltemplate.Must(htmltemplate.New("html").Parse(
	`<!doctype html>
<html>
<head>
<meta http-equiv="Content-Type" content="text/html; charset=utf-8">
<title>{{.Description}}</title>
</head>
<body>

<h1>{{.Description}}</h1>

<p>{{.Heading}}</p>
{{range .Sections}}
<h2>{{.Title}}</h2>
<ul>
{{range .Entries}}<li>{{.Key}}: &nbsp;&nbsp;&nbsp;&nbsp;{{.Value}}</li>
{{end}}</ul>
{{end}}
</body>
</html>
`))

// Render formats result as txt, md or html
func Render(result Result, exportType string) (string, error) {
	v := newView(result)
	var buf bytes.Buffer
	var err error

	switch exportType {
	case ExportTXT:
		err = txtTemplate.Execute(&buf, v)
	case ExportMD:
		err = mdTemplate.Execute(&buf, v)
	case ExportHTML:
		err = htmlTemplate.Execute(&buf, v)
	default:
		return "", ierr.NewErrorf("unknown export type %q", exportType).
			WithHint("The export type is neither html nor md nor txt nor xlsx").
			Mark(ierr.ErrInvalidInput)
	}
	if err != nil {
		return "", ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	return buf.String(), nil
}

const xlsxSheet = "Report"

func writeXLSX(result Result, fileName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	v := newView(result)
	cells := map[string]any{
		"A1": v.Description,
		"A2": v.Heading,
		"A4": "Time unit",
	}
	keys := result.Keys()
	for col, ch := range models.Channels {
		header, _ := excelize.CoordinatesToCellName(col+2, 4)
		cells[header] = ch.Title()

		meter := result.Aggregate(ch)
		for row, key := range keys {
			keyCell, _ := excelize.CoordinatesToCellName(1, row+5)
			cells[keyCell] = string(key)
			if value, ok := meter[key]; ok {
				cell, _ := excelize.CoordinatesToCellName(col+2, row+5)
				cells[cell] = value
			}
		}
	}
	for cell, value := range cells {
		if err := f.SetCellValue(xlsxSheet, cell, value); err != nil {
			return ierr.WithError(err).Mark(ierr.ErrSystem)
		}
	}

	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrStorage)
	}
	if err := f.SaveAs(fileName); err != nil {
		log.Error(err)
		return ierr.WithError(err).
			WithHintf("The report could not be written to %s", fileName).
			Mark(ierr.ErrStorage)
	}
	log.Info("Report written to ", fileName)
	return nil
}
