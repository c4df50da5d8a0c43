package alerts

import (
	"fmt"

	"github.com/mamadbah2/poultry-api/internal/domain/models"
)

// Metric names used in alerts and in the alerts counter.
const (
	MetricTemperature = "temperatura"
	MetricHumidity    = "humedad"
	MetricCO2         = "co2"
	MetricAmmonia     = "amoniaco"
	MetricThermalHot  = "mapa_termico_max"
	MetricThermalCold = "mapa_termico_min"
)

// Direction tells whether a value went over or under its limit.
type Direction string

const (
	Above Direction = "above"
	Below Direction = "below"
)

// Thresholds are the comfort limits for broiler houses.
type Thresholds struct {
	TemperatureMin float64
	TemperatureMax float64
	HumidityMin    float64
	HumidityMax    float64
	CO2Max         float64
	AmmoniaMax     float64
	ThermalHotMax  float64
	ThermalColdMin float64
}

// DefaultThresholds returns the limits used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TemperatureMin: 18,
		TemperatureMax: 35,
		HumidityMin:    50,
		HumidityMax:    75,
		CO2Max:         3000,
		AmmoniaMax:     25,
		ThermalHotMax:  40,
		ThermalColdMin: 15,
	}
}

// Alert is one out-of-range observation.
type Alert struct {
	BatchID   int64
	Metric    string
	Direction Direction
	Value     float64
	Limit     float64
	Unit      string
}

// Key identifies alerts that suppress each other during the cooldown.
func (a Alert) Key() string {
	return fmt.Sprintf("%d:%s:%s", a.BatchID, a.Metric, a.Direction)
}

// Message renders the alert for a WhatsApp recipient.
func (a Alert) Message() models.OutboundMessage {
	bound := "maximum"
	if a.Direction == Below {
		bound = "minimum"
	}
	return models.OutboundMessage{
		Title: fmt.Sprintf("Alert: %s on lote %d", a.Metric, a.BatchID),
		Body: fmt.Sprintf("%s is %.1f %s, %s the %s of %.1f %s.",
			a.Metric, a.Value, a.Unit, a.Direction, bound, a.Limit, a.Unit),
	}
}

// Environmental checks a sensor reading against the thresholds.
func (t Thresholds) Environmental(r models.EnvironmentalReadingCreate) []Alert {
	var out []Alert
	add := func(metric, unit string, value *float64, lowest, highest float64, checkLow bool) {
		if value == nil {
			return
		}
		switch {
		case *value > highest:
			out = append(out, Alert{BatchID: r.BatchID, Metric: metric, Direction: Above, Value: *value, Limit: highest, Unit: unit})
		case checkLow && *value < lowest:
			out = append(out, Alert{BatchID: r.BatchID, Metric: metric, Direction: Below, Value: *value, Limit: lowest, Unit: unit})
		}
	}

	add(MetricTemperature, "C", r.TemperatureC, t.TemperatureMin, t.TemperatureMax, true)
	add(MetricHumidity, "%", r.HumidityPct, t.HumidityMin, t.HumidityMax, true)
	add(MetricCO2, "ppm", r.CO2ppm, 0, t.CO2Max, false)
	add(MetricAmmonia, "ppm", r.AmmoniaPPM, 0, t.AmmoniaMax, false)
	return out
}

// Thermal checks the hottest and coldest cells of a thermal map.
func (t Thresholds) Thermal(m models.ThermalMapCreate) []Alert {
	lowest, highest, ok := m.Temperatures.Bounds()
	if !ok {
		return nil
	}

	var out []Alert
	if highest > t.ThermalHotMax {
		out = append(out, Alert{BatchID: m.BatchID, Metric: MetricThermalHot, Direction: Above, Value: highest, Limit: t.ThermalHotMax, Unit: "C"})
	}
	if lowest < t.ThermalColdMin {
		out = append(out, Alert{BatchID: m.BatchID, Metric: MetricThermalCold, Direction: Below, Value: lowest, Limit: t.ThermalColdMin, Unit: "C"})
	}
	return out
}
