package rbdf

type DataSource struct {
	OriginalFormat string `groups:"internal"` // or enum (eg. BusNet, Timetable CSV)
	Provider       string `groups:"internal"`
	Dataset        string `groups:"internal"`
	Identifier     string `groups:"internal"`
}
