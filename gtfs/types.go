package gtfs

// Record shapes for the tabular files in a static GTFS bundle. Column
// mapping is done by csvutil through the csv tags; columns we do not
// consume are ignored at decode time.

// Stop is one row of stops.txt.
type Stop struct {
	ID   string `csv:"stop_id"`
	Name string `csv:"stop_name"`
}

// Route is one row of routes.txt.
type Route struct {
	ID        string `csv:"route_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
}

// Trip is one row of trips.txt.
type Trip struct {
	ID        string `csv:"trip_id"`
	RouteID   string `csv:"route_id"`
	ServiceID string `csv:"service_id"`
	Headsign  string `csv:"trip_headsign"`
}

// StopTime is one row of stop_times.txt. ArrivalTime stays a raw HH:MM:SS
// string here; hours may exceed 24 for trips crossing midnight and are
// resolved against the service day later.
type StopTime struct {
	TripID      string `csv:"trip_id"`
	ArrivalTime string `csv:"arrival_time"`
	StopID      string `csv:"stop_id"`
	Headsign    string `csv:"stop_headsign"`
}

// Calendar is one row of calendar.txt: a weekly service pattern bounded by
// start and end dates (YYYYMMDD).
type Calendar struct {
	ServiceID string `csv:"service_id"`
	Monday    int    `csv:"monday"`
	Tuesday   int    `csv:"tuesday"`
	Wednesday int    `csv:"wednesday"`
	Thursday  int    `csv:"thursday"`
	Friday    int    `csv:"friday"`
	Saturday  int    `csv:"saturday"`
	Sunday    int    `csv:"sunday"`
	StartDate string `csv:"start_date"`
	EndDate   string `csv:"end_date"`
}

// CalendarDate is one row of calendar_dates.txt. ExceptionType 1 adds the
// service on Date, 2 removes it.
type CalendarDate struct {
	ServiceID     string `csv:"service_id"`
	Date          string `csv:"date"`
	ExceptionType int    `csv:"exception_type"`
}

// Bundle holds a fully parsed static feed. It is immutable once loaded and
// replaced wholesale on refresh, never mutated in place.
type Bundle struct {
	Stops         []Stop
	Routes        []Route
	Trips         []Trip
	StopTimes     []StopTime
	Calendars     []Calendar
	CalendarDates []CalendarDate
}
