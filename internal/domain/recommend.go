package domain

// FallbackRecommendation is returned for (risk, category) pairs without a
// specific entry.
const FallbackRecommendation = "Review NOTAM details and follow standard operating procedures. Monitor for updates."

type recommendationKey struct {
	risk     RiskLevel
	category Category
}

var recommendations = map[recommendationKey]string{
	{RiskHigh, CategoryRunway}:    "Consider alternate runways or airports. Review taxi procedures and ground handling requirements.",
	{RiskHigh, CategoryAirspace}:  "Coordinate with ATC early. File alternate routes if possible. Monitor for updates.",
	{RiskHigh, CategoryWeather}:   "Ensure aircraft and crew are CAT II/III qualified if required. Consider delaying departure.",
	{RiskHigh, CategoryMilitary}:  "Avoid restricted areas. Coordinate with military control. Plan alternate routing.",
	{RiskHigh, CategoryObstacles}: "Exercise extreme caution during approach and departure. Brief crew on obstacle locations.",

	{RiskMedium, CategoryRunway}:     "Monitor for operational delays. Brief crew on surface conditions and alternate procedures.",
	{RiskMedium, CategoryAirspace}:   "File flight plan early. Monitor for clearance changes and potential rerouting.",
	{RiskMedium, CategoryNavigation}: "Verify backup navigation systems. Review alternate approach procedures.",
	{RiskMedium, CategoryWeather}:    "Monitor conditions closely. Ensure adequate fuel for alternate airport.",
	{RiskMedium, CategoryMilitary}:   "Monitor NOTAMs for changes. Coordinate with ATC for potential routing adjustments.",

	{RiskLow, CategoryRunway}:     "Note operational considerations. No immediate action required.",
	{RiskLow, CategoryNavigation}: "Use alternate navigation aids as primary. Monitor for service restoration.",
	{RiskLow, CategoryObstacles}:  "Brief crew for awareness. Standard approach and departure procedures apply.",
	{RiskLow, CategoryWeather}:    "Monitor weather conditions. Standard operating procedures apply.",
}

// Recommend returns the advisory text for an exact (risk, category) pair.
func Recommend(risk RiskLevel, category Category) string {
	text, ok := recommendations[recommendationKey{risk: risk, category: category}]
	if !ok {
		return FallbackRecommendation
	}
	return text
}
