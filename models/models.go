package models

import "strconv"

//DateModel holds the date fragment of a measurement exactly as read from the file
type DateModel struct {
	Day   string `json:"day"`
	Month string `json:"month"`
	Year  string `json:"year"`
}

//TimeModel holds the time fragment of a measurement exactly as read from the file
type TimeModel struct {
	Hour   string `json:"hour"`
	Minute string `json:"minute"`
	Second string `json:"second"`
}

//MeasurementRecord defines one line of the household power consumption file
type MeasurementRecord struct {
	Date                DateModel `json:"date"`
	Time                TimeModel `json:"time"`
	GlobalActivePower   float64   `json:"global_active_power"`
	GlobalReactivePower float64   `json:"global_reactive_power"`
	Voltage             float64   `json:"voltage"`
	GlobalIntensity     float64   `json:"global_intensity"`
	SubMetering1        float64   `json:"sub_metering_1"` // Kitchen
	SubMetering2        float64   `json:"sub_metering_2"` // Laundry
	SubMetering3        float64   `json:"sub_metering_3"` // Climate control
}

// Fields returns the nine top level fields of the record in file order
func (r MeasurementRecord) Fields() []string {
	return []string{
		r.Date.Day + "/" + r.Date.Month + "/" + r.Date.Year,
		r.Time.Hour + ":" + r.Time.Minute + ":" + r.Time.Second,
		formatValue(r.GlobalActivePower),
		formatValue(r.GlobalReactivePower),
		formatValue(r.Voltage),
		formatValue(r.GlobalIntensity),
		formatValue(r.SubMetering1),
		formatValue(r.SubMetering2),
		formatValue(r.SubMetering3),
	}
}

func formatValue(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

//Channel identifies one of the three sub-metering channels
type Channel string

const (
	Kitchen        Channel = "kitchen"
	Laundry        Channel = "laundry"
	ClimateControl Channel = "climate_control"
)

// Channels lists the sub-metering channels in report order
var Channels = []Channel{Kitchen, Laundry, ClimateControl}

var channelValues = map[Channel]func(MeasurementRecord) float64{
	Kitchen:        func(r MeasurementRecord) float64 { return r.SubMetering1 },
	Laundry:        func(r MeasurementRecord) float64 { return r.SubMetering2 },
	ClimateControl: func(r MeasurementRecord) float64 { return r.SubMetering3 },
}

var channelTitles = map[Channel]string{
	Kitchen:        "Kitchen",
	Laundry:        "Laundry",
	ClimateControl: "A/C",
}

// Value returns the reading of the channel in r. Unknown channels read as 0.
func (c Channel) Value(r MeasurementRecord) float64 {
	if f, ok := channelValues[c]; ok {
		return f(r)
	}
	return 0
}

// Title returns the heading used for the channel in reports
func (c Channel) Title() string {
	if t, ok := channelTitles[c]; ok {
		return t
	}
	return string(c)
}

//ReportMetadata defines one entry of the report history
type ReportMetadata struct {
	Description string `json:"description"`
	ExportType  string `json:"export_type"`
	OutputPath  string `json:"output_path"`
}
