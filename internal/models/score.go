package models

// Comfort scoring. A day at 72°F earns the full temperature score, falling
// linearly to zero at 32°F and, twice as fast, at 92°F.
const (
	comfortColdLimit    = 32.0
	comfortIdeal        = 72.0
	comfortHotLimit     = 92.0
	maxTemperatureScore = 40.0

	rainyDayPoints = 10.0
	// precipitation normals cover thirty years
	rainyDayNormalization = 30.0
)

// TemperatureScore scores a single daily maximum temperature in °F.
func TemperatureScore(tempF float64) float64 {
	switch {
	case tempF < comfortColdLimit || tempF > comfortHotLimit:
		return 0
	case tempF <= comfortIdeal:
		return (tempF - comfortColdLimit) * maxTemperatureScore / (comfortIdeal - comfortColdLimit)
	default:
		return maxTemperatureScore - (tempF-comfortIdeal)*maxTemperatureScore/(comfortHotLimit-comfortIdeal)
	}
}

// TemperatureScore averages the daily scores over every day with data.
func (s *Station) TemperatureScore() float64 {
	if !s.HasTemperatures() {
		return 0
	}

	var total float64
	var days int
	for _, month := range s.MaxTemperatures {
		for _, temp := range month {
			if temp == nil {
				continue
			}
			total += TemperatureScore(*temp)
			days++
		}
	}
	if days == 0 {
		return 0
	}
	return total / float64(days)
}

func (s *Station) PrecipitationScore() float64 {
	if s == nil || s.RainyDaysPerMonth == nil {
		return 0
	}

	var rainyDays float64
	for _, d := range s.RainyDaysPerMonth {
		rainyDays += d
	}
	return rainyDays * rainyDayPoints / rainyDayNormalization
}

func (s *Station) TotalScore() float64 {
	return s.TemperatureScore() + s.PrecipitationScore()
}

// Score collects the station's scores for a comfort report.
func (s *Station) Score() StationScore {
	score := StationScore{
		ID:                 s.ID,
		TemperatureScore:   s.TemperatureScore(),
		PrecipitationScore: s.PrecipitationScore(),
	}
	score.TotalScore = score.TemperatureScore + score.PrecipitationScore
	if s.Zipcode != nil {
		score.Zipcode = *s.Zipcode
	}
	return score
}
