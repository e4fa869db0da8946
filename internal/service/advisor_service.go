package service

import "strings"

// AdvisorService serves canned farming guidance from a static lookup table.
// It performs no inference and calls no external model; topics map to fixed
// text and unknown topics get the general entry.
type AdvisorService struct {
	topics map[string]string
}

// NewAdvisorService creates the advisor with its built-in topic table.
func NewAdvisorService() *AdvisorService {
	return &AdvisorService{topics: adviceTopics}
}

var adviceTopics = map[string]string{
	"water-quality": "Keep dissolved oxygen above 5 mg/L and pH between 7.5 and 8.5. " +
		"Test ammonia and nitrite twice a week; a sudden pH swing usually means " +
		"overfeeding or an algae crash.",
	"feeding": "Feed 2-4% of estimated biomass per day split over 3-4 feedings. " +
		"Check trays after 2 hours; uneaten feed means reduce the next ration by 10%.",
	"disease": "Watch for reduced feeding, discolored gills and erratic swimming. " +
		"Isolate suspect ponds, send a sample to your lab partner and hold off on " +
		"water exchange until results come back.",
	"stocking": "Stock post-larvae at 15-25 per square meter for semi-intensive " +
		"ponds. Acclimate for temperature and salinity over at least 30 minutes " +
		"before release.",
	"general": "Track expenses against budget per category, keep inventory above " +
		"reorder points, and schedule lab water tests every two weeks.",
}

// Advice returns the guidance text for a topic. Topic matching is
// case-insensitive; an unknown topic falls back to the general entry.
func (s *AdvisorService) Advice(topic string) string {
	if text, ok := s.topics[strings.ToLower(topic)]; ok {
		return text
	}
	return s.topics["general"]
}

// Topics lists the known topic keys.
func (s *AdvisorService) Topics() []string {
	out := make([]string, 0, len(s.topics))
	for topic := range s.topics {
		out = append(out, topic)
	}
	return out
}
