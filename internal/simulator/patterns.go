package simulator

import (
	"math/rand"
	"time"

	"github.com/chrisdamba/foodcart/internal/models"
)

// mealMultipliers scale the order rate by hour of day.
var mealMultipliers = map[int]float64{
	7: 0.6, 8: 0.8, 9: 0.7, 10: 0.5,
	11: 1.3, 12: 2.0, 13: 2.0, 14: 1.5,
	17: 1.2, 18: 1.8, 19: 2.0, 20: 1.7, 21: 1.3,
	22: 0.9, 23: 0.7, 0: 0.5, 1: 0.3,
}

// weekdayMultipliers lift Friday and weekend demand.
var weekdayMultipliers = map[time.Weekday]float64{
	time.Friday:   1.3,
	time.Saturday: 1.2,
	time.Sunday:   1.1,
}

func isWeekdayPeakHour(hour int) bool {
	weekdayPeakHours := map[int]bool{
		12: true, 13: true, // lunch peak
		19: true, 20: true, // dinner peak
	}
	return weekdayPeakHours[hour]
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// ordersPerMinute is the expected number of orders placed in the minute
// starting at t.
func ordersPerMinute(cfg *models.Config, t time.Time) float64 {
	base := cfg.OrdersPerDay / (24 * 60)

	multiplier, ok := mealMultipliers[t.Hour()]
	if !ok {
		multiplier = 0.1
	}
	if m, ok := weekdayMultipliers[t.Weekday()]; ok {
		multiplier *= m
	}
	if isWeekend(t) {
		multiplier *= cfg.WeekendFactor
	} else if isWeekdayPeakHour(t.Hour()) {
		multiplier *= cfg.PeakHourFactor
	}
	if t.Weekday() == time.Friday && t.Hour() >= 18 {
		multiplier *= 1.8
	}
	return base * multiplier
}

// sampleCount draws a whole number of events whose mean is rate.
func sampleCount(rng *rand.Rand, rate float64) int {
	n := int(rate)
	if rng.Float64() < rate-float64(n) {
		n++
	}
	return n
}

// deliverySpeedMultiplier is below one when traffic slows couriers down.
func deliverySpeedMultiplier(t time.Time) float64 {
	hour := t.Hour()
	multiplier := 1.0
	if (hour >= 7 && hour <= 9) || (hour >= 16 && hour <= 18) {
		multiplier *= 0.7
	}
	if hour >= 22 || hour <= 4 {
		multiplier *= 1.3
	}
	if isWeekend(t) && hour >= 10 && hour <= 20 {
		multiplier *= 0.85
	}
	return multiplier
}

// statusDelays returns how long an order placed at t stays in each status
// before moving to the next one.
func statusDelays(rng *rand.Rand, t time.Time, items int) map[models.OrderStatus]time.Duration {
	minutes := func(min, max int) time.Duration {
		return time.Duration(min+rng.Intn(max-min+1)) * time.Minute
	}
	prep := minutes(8, 15) + time.Duration(items)*2*time.Minute
	travel := time.Duration(float64(minutes(10, 30)) / deliverySpeedMultiplier(t))
	return map[models.OrderStatus]time.Duration{
		models.OrderStatusPlaced:         minutes(1, 3),
		models.OrderStatusConfirmed:      minutes(1, 5),
		models.OrderStatusPreparing:      prep,
		models.OrderStatusReady:          minutes(2, 10),
		models.OrderStatusOutForDelivery: travel,
	}
}
