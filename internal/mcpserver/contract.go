package mcpserver

// ItineraryFormatContract describes the itinerary JSON returned by the
// route tools so LLM consumers can read it without guessing.
const ItineraryFormatContract = `# Flightpath Itinerary Format

Route tools return JSON. ` + "`find_routes`" + ` returns ` + "`{\"routes\": [...], \"count\": n}`" + `;
` + "`find_cheapest`" + ` returns a single itinerary object.

## Itinerary

` + "```" + `json
{
  "total_time": 270,
  "duration_fmt": "4h 30m",
  "stops": 1,
  "total_price": 7000,
  "segments": [
    {"airline": "IndiGo", "flight_id": "FL1", "from": "DEL", "to": "BOM",
     "dep": "06:00", "arr": "08:00", "price": 4000, "date": "2025-12-10"},
    {"airline": "Vistara", "flight_id": "FL2", "from": "BOM", "to": "BLR",
     "dep": "09:30", "arr": "11:00", "price": 3000, "date": "2025-12-10"}
  ]
}
` + "```" + `

## Rules

1. **total_time** is in minutes: the sum of every leg's duration plus a fixed
   layover (60 minutes unless configured) for each connection. The gap
   between arrival and the next departure is NOT measured.
2. **duration_fmt** renders total_time as ` + "`Hh Mm`" + ` without zero padding.
3. **stops** is the number of segments minus one.
4. **total_price** is the sum of segment prices.
5. **find_routes** only chains flights on the requested date, never revisits an
   airport, and requires each departure to be no earlier than the previous
   arrival (same-day clock comparison). Results are fastest first; ties keep
   discovery order. An empty list means no itinerary exists.
6. **find_cheapest** ignores dates and clock times entirely and minimises
   total_price. It fails with "no route found" when the destination is
   unreachable and "negative price cycle" when prices make the minimum
   undefined.
7. Airport codes are matched case-insensitively; unknown codes yield no routes.
`
