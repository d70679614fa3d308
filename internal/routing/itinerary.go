package routing

// Segment is one leg of an itinerary.
type Segment struct {
	Airline  string `json:"airline"`
	FlightID string `json:"flight_id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Dep      string `json:"dep"`
	Arr      string `json:"arr"`
	Price    int    `json:"price"`
	Date     string `json:"date"`
}

// Itinerary is a completed route from source to destination.
type Itinerary struct {
	TotalTime   int       `json:"total_time"`
	DurationFmt string    `json:"duration_fmt"`
	Stops       int       `json:"stops"`
	Segments    []Segment `json:"segments"`
	TotalPrice  int       `json:"total_price"`
}

// newItinerary shapes an ordered edge sequence into an Itinerary. The "from"
// of the first segment is source; each later one is the previous destination.
func newItinerary(source string, edges []Edge, minutes int) Itinerary {
	it := Itinerary{
		TotalTime:   minutes,
		DurationFmt: FormatDuration(minutes),
		Stops:       len(edges) - 1,
		Segments:    make([]Segment, 0, len(edges)),
	}
	from := source
	for _, e := range edges {
		it.Segments = append(it.Segments, Segment{
			Airline:  e.Airline,
			FlightID: e.FlightID,
			From:     from,
			To:       e.To,
			Dep:      e.Departure,
			Arr:      e.Arrival,
			Price:    e.Price,
			Date:     e.Date,
		})
		it.TotalPrice += e.Price
		from = e.To
	}
	return it
}

// elapsedMinutes is the cost model shared by both solvers: leg durations plus
// one layover per connection.
func elapsedMinutes(edges []Edge, layover int) int {
	total := 0
	for i, e := range edges {
		total += e.Minutes
		if i > 0 {
			total += layover
		}
	}
	return total
}
