// Package seed generates the demo flight network used when the service
// starts with an empty store and no database file.
package seed

import (
	"fmt"
	"math/rand/v2"

	"github.com/starford/flightpath/internal/models"
)

// FlightsPerAirport is the number of outgoing flights generated per airport.
const FlightsPerAirport = 5

var airlines = []string{"IndiGo", "Air India", "Vistara", "SpiceJet", "Akasa Air"}

// Airports returns the 50 demo airports.
func Airports() []models.Airport {
	return []models.Airport{
		{ID: 1, Code: "DEL", Name: "Indira Gandhi Intl", City: "New Delhi", Lat: 28.5562, Lng: 77.1000},
		{ID: 2, Code: "BOM", Name: "Chhatrapati Shivaji Maharaj Intl", City: "Mumbai", Lat: 19.0896, Lng: 72.8656},
		{ID: 3, Code: "BLR", Name: "Kempegowda Intl", City: "Bengaluru", Lat: 13.1986, Lng: 77.7066},
		{ID: 4, Code: "MAA", Name: "Chennai Intl", City: "Chennai", Lat: 12.9941, Lng: 80.1709},
		{ID: 5, Code: "CCU", Name: "Netaji Subhas Chandra Bose Intl", City: "Kolkata", Lat: 22.6547, Lng: 88.4467},
		{ID: 6, Code: "HYD", Name: "Rajiv Gandhi Intl", City: "Hyderabad", Lat: 17.2403, Lng: 78.4294},
		{ID: 7, Code: "COK", Name: "Cochin Intl", City: "Kochi", Lat: 10.1518, Lng: 76.3930},
		{ID: 8, Code: "AMD", Name: "Sardar Vallabhbhai Patel Intl", City: "Ahmedabad", Lat: 23.0732, Lng: 72.6347},
		{ID: 9, Code: "PNQ", Name: "Pune Intl", City: "Pune", Lat: 18.5821, Lng: 73.9197},
		{ID: 10, Code: "GOI", Name: "Dabolim", City: "Goa", Lat: 15.3800, Lng: 73.8314},
		{ID: 11, Code: "TRV", Name: "Thiruvananthapuram Intl", City: "Thiruvananthapuram", Lat: 8.4821, Lng: 76.9200},
		{ID: 12, Code: "CCJ", Name: "Calicut Intl", City: "Kozhikode", Lat: 11.1363, Lng: 75.9553},
		{ID: 13, Code: "LKO", Name: "Chaudhary Charan Singh Intl", City: "Lucknow", Lat: 26.7606, Lng: 80.8893},
		{ID: 14, Code: "GAU", Name: "Lokpriya Gopinath Bordoloi Intl", City: "Guwahati", Lat: 26.1061, Lng: 91.5859},
		{ID: 15, Code: "JAI", Name: "Jaipur Intl", City: "Jaipur", Lat: 26.8289, Lng: 75.8056},
		{ID: 16, Code: "SXR", Name: "Srinagar Intl", City: "Srinagar", Lat: 33.9876, Lng: 74.7741},
		{ID: 17, Code: "BBI", Name: "Biju Patnaik Intl", City: "Bhubaneswar", Lat: 20.2444, Lng: 85.8178},
		{ID: 18, Code: "PAT", Name: "Jay Prakash Narayan Intl", City: "Patna", Lat: 25.5913, Lng: 85.0880},
		{ID: 19, Code: "IXC", Name: "Chandigarh Intl", City: "Chandigarh", Lat: 30.6735, Lng: 76.7885},
		{ID: 20, Code: "IXB", Name: "Bagdogra Intl", City: "Bagdogra", Lat: 26.6812, Lng: 88.3286},
		{ID: 21, Code: "IDR", Name: "Devi Ahilya Bai Holkar", City: "Indore", Lat: 22.7217, Lng: 75.8011},
		{ID: 22, Code: "NGP", Name: "Dr. Babasaheb Ambedkar Intl", City: "Nagpur", Lat: 21.0922, Lng: 79.0472},
		{ID: 23, Code: "VNS", Name: "Lal Bahadur Shastri Intl", City: "Varanasi", Lat: 25.4497, Lng: 82.8537},
		{ID: 24, Code: "ATQ", Name: "Sri Guru Ram Dass Jee Intl", City: "Amritsar", Lat: 31.7096, Lng: 74.7973},
		{ID: 25, Code: "VTZ", Name: "Visakhapatnam Intl", City: "Visakhapatnam", Lat: 17.7211, Lng: 83.2245},
		{ID: 26, Code: "RPR", Name: "Swami Vivekananda", City: "Raipur", Lat: 21.1804, Lng: 81.7388},
		{ID: 27, Code: "IXM", Name: "Madurai", City: "Madurai", Lat: 9.8345, Lng: 78.0934},
		{ID: 28, Code: "CJB", Name: "Coimbatore Intl", City: "Coimbatore", Lat: 11.0295, Lng: 77.0434},
		{ID: 29, Code: "IXR", Name: "Birsa Munda", City: "Ranchi", Lat: 23.3143, Lng: 85.3217},
		{ID: 30, Code: "UDR", Name: "Maharana Pratap", City: "Udaipur", Lat: 24.6172, Lng: 73.8962},
		{ID: 31, Code: "BDQ", Name: "Vadodara", City: "Vadodara", Lat: 22.3360, Lng: 73.2263},
		{ID: 32, Code: "JGA", Name: "Jamnagar", City: "Jamnagar", Lat: 22.4665, Lng: 70.0125},
		{ID: 33, Code: "IXL", Name: "Kushok Bakula Rimpochee", City: "Leh", Lat: 34.1359, Lng: 77.5465},
		{ID: 34, Code: "TRZ", Name: "Tiruchirappalli Intl", City: "Tiruchirappalli", Lat: 10.7654, Lng: 78.7097},
		{ID: 35, Code: "IXJ", Name: "Jammu", City: "Jammu", Lat: 32.6891, Lng: 74.8375},
		{ID: 36, Code: "BHO", Name: "Raja Bhoj", City: "Bhopal", Lat: 23.2875, Lng: 77.3378},
		{ID: 37, Code: "JDH", Name: "Jodhpur", City: "Jodhpur", Lat: 26.2515, Lng: 73.0485},
		{ID: 38, Code: "IXA", Name: "Agartala", City: "Agartala", Lat: 23.8870, Lng: 91.2404},
		{ID: 39, Code: "IMF", Name: "Imphal", City: "Imphal", Lat: 24.7600, Lng: 93.8967},
		{ID: 40, Code: "STV", Name: "Surat", City: "Surat", Lat: 21.1137, Lng: 72.7418},
		{ID: 41, Code: "IXE", Name: "Mangaluru Intl", City: "Mangaluru", Lat: 12.9613, Lng: 74.8901},
		{ID: 42, Code: "TIR", Name: "Tirupati", City: "Tirupati", Lat: 13.6325, Lng: 79.5436},
		{ID: 43, Code: "VGA", Name: "Vijayawada", City: "Vijayawada", Lat: 16.5304, Lng: 80.7968},
		{ID: 44, Code: "IXZ", Name: "Veer Savarkar Intl", City: "Port Blair", Lat: 11.6410, Lng: 92.7297},
		{ID: 45, Code: "DED", Name: "Dehradun", City: "Dehradun", Lat: 30.1897, Lng: 78.1803},
		{ID: 46, Code: "HBX", Name: "Hubli", City: "Hubli", Lat: 15.3617, Lng: 75.0849},
		{ID: 47, Code: "AJL", Name: "Lengpui", City: "Aizawl", Lat: 23.8397, Lng: 92.6236},
		{ID: 48, Code: "DMU", Name: "Dimapur", City: "Dimapur", Lat: 25.8839, Lng: 93.7714},
		{ID: 49, Code: "MYQ", Name: "Mysuru", City: "Mysuru", Lat: 12.2300, Lng: 76.6500},
		{ID: 50, Code: "GWL", Name: "Gwalior", City: "Gwalior", Lat: 26.2936, Lng: 78.2274},
	}
}

// Generate builds the demo database. Airport i gets one flight to each of the
// next FlightsPerAirport airports (wrapping around); the j-th of those flies
// on 2025-12-(10+j). The same seed always yields the same database.
func Generate(seed uint64) models.Database {
	airports := Airports()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	flights := make([]models.Flight, 0, len(airports)*FlightsPerAirport)
	counter := 1000
	for i, src := range airports {
		for j := 1; j <= FlightsPerAirport; j++ {
			dst := airports[(i+j)%len(airports)]

			depHour := 6 + rng.IntN(16) // 06 to 21
			depMin := rng.IntN(4) * 15
			durHour := 1 + rng.IntN(3)
			arrHour := (depHour + durHour) % 24

			flights = append(flights, models.Flight{
				ID:        fmt.Sprintf("FL%d", counter),
				Airline:   airlines[rng.IntN(len(airlines))],
				FromCode:  src.Code,
				ToCode:    dst.Code,
				Date:      fmt.Sprintf("2025-12-%d", 10+j),
				Departure: fmt.Sprintf("%02d:%02d", depHour, depMin),
				Arrival:   fmt.Sprintf("%02d:%02d", arrHour, depMin),
				Duration:  fmt.Sprintf("%dh 00m", durHour),
				Price:     3000 + rng.IntN(5000),
			})
			counter++
		}
	}
	return models.Database{Airports: airports, Flights: flights}
}
