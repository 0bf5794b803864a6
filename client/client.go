// Package client is the interactive menu of the aggregation tool.
package client

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"timeseries-aggregation/aggregator"
	"timeseries-aggregation/calendar"
	"timeseries-aggregation/config"
	ierr "timeseries-aggregation/errors"
	"timeseries-aggregation/engine"
	"timeseries-aggregation/models"
)

const menu = `
1) Load resource file.
2) Get aggregate measures.
3) Craft a report.
4) View the report history.
5) Exit.
Choose: `

const debugMode = "DEBUG MODE"

var unescapeDelimiter = strings.NewReplacer(`\t`, "\t")

// Client keeps the state of one interactive session
type Client struct {
	engine  *engine.Engine
	in      *bufio.Scanner
	out     io.Writer
	autorun engine.AutorunOptions

	hasHeaderLine bool
	records       []models.MeasurementRecord
	result        *aggregator.Result
}

func NewClient(e *engine.Engine, in io.Reader, out io.Writer, autorun engine.AutorunOptions) *Client {
	return &Client{
		engine:  e,
		in:      bufio.NewScanner(in),
		out:     out,
		autorun: autorun,
	}
}

// Run shows the menu until the user exits or the input ends
func (c *Client) Run() error {
	for {
		fmt.Fprint(c.out, menu)
		choice, ok := c.readLine()
		if !ok {
			fmt.Fprintln(c.out)
			return c.in.Err()
		}
		fmt.Fprintln(c.out)

		switch choice {
		case "1":
			c.load()
		case "2":
			c.aggregateByTimeUnit()
		case "3":
			c.reportResultInFile()
		case "4":
			c.listReports()
		case "5":
			fmt.Fprintln(c.out, "Goodbye.")
			return nil
		case debugMode:
			c.runAutorun()
		default:
			log.Debug("Ignoring menu choice ", choice)
		}
	}
}

func (c *Client) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimRight(c.in.Text(), "\r"), true
}

func (c *Client) prompt(message string) string {
	fmt.Fprint(c.out, message)
	line, _ := c.readLine()
	return line
}

func (c *Client) fail(message string, err error) {
	fmt.Fprintln(c.out, ierr.Hint(err))
	fmt.Fprintln(c.out, message)
	fmt.Fprintln(c.out)
}

func (c *Client) load() {
	path := c.prompt("Provide the path of the input resource file: ")
	delimiter := unescapeDelimiter.Replace(c.prompt("Provide the delimiter of the data file: "))
	switch c.prompt("Does the file have a header line (true|false)? ") {
	case "true":
		c.hasHeaderLine = true
	case "false":
		c.hasHeaderLine = false
	}

	c.records = nil
	n, records, err := c.engine.LoadData(engine.LoadRequest{
		Path:       path,
		Delimiter:  delimiter,
		HasHeader:  c.hasHeaderLine,
		FieldCount: config.GetFieldCount(),
	})
	if err != nil {
		c.fail("The data was not loaded correctly", err)
		return
	}
	c.records = records
	fmt.Fprintf(c.out, "The data was loaded correctly (%d measurements)\n", n)
}

func (c *Client) aggregateByTimeUnit() {
	kind := c.prompt("Input the unit type to which I will aggregate data into (`season`, `month`, `dayofweek`, `periodofday`): ")
	function := c.prompt("Input the type of function to use for aggregating the measurements (`avg`, `sum`): ")
	description := c.prompt("Give a small description of the results: ")

	result, err := c.engine.AggregateByTimeUnit(engine.AggregateRequest{
		Records:     c.records,
		Kind:        calendar.Kind(kind),
		Function:    aggregator.Function(function),
		Description: description,
	})
	if err != nil {
		c.fail("The data was not measured correctly", err)
		return
	}
	c.result = result
	fmt.Fprintln(c.out, "The data was measured correctly")
}

func (c *Client) reportResultInFile() {
	path := c.prompt("Input a file path to save the report: ")
	exportType := c.prompt("Choose the export type (html, md, txt, xlsx): ")

	if err := c.engine.ReportResultInFile(c.result, exportType, path); err != nil {
		c.fail("The report could not be created", err)
		return
	}
	fmt.Fprintln(c.out, "Successfully created a report of the aggregated results")

	if err := c.engine.AddToHistory(c.result.Description(), path, exportType); err != nil {
		c.fail("The report could not be added to the history", err)
	}
}

func (c *Client) listReports() {
	if err := c.engine.ListReports(c.out); err != nil {
		c.fail("The report history could not be listed", err)
	}
}

func (c *Client) runAutorun() {
	if err := c.engine.Autorun(c.autorun); err != nil {
		c.fail("The autorun did not complete", err)
		return
	}
	fmt.Fprintln(c.out, "Autorun completed, report written to", c.autorun.Output)
}
