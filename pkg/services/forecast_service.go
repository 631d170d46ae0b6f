package services

import (
	"fmt"
	"sort"
	"time"

	"farm-ai-api/pkg/models"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultForecastPeriods is the number of daily periods predicted past the history.
	DefaultForecastPeriods = 14
	// DefaultIntervalWidth is the coverage of yhat_lower..yhat_upper.
	DefaultIntervalWidth = 0.8

	forecastDateLayout = "2006-01-02 15:04:05"
)

// ForecastService fits an additive trend/seasonality model and extends it forward.
type ForecastService struct {
	periods       int
	intervalWidth float64
	logger        logrus.FieldLogger
}

// NewForecastService creates a forecaster with the default horizon and interval width.
func NewForecastService(logger logrus.FieldLogger) *ForecastService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ForecastService{
		periods:       DefaultForecastPeriods,
		intervalWidth: DefaultIntervalWidth,
		logger:        logger,
	}
}

// Periods returns the forecast horizon in days.
func (s *ForecastService) Periods() int {
	return s.periods
}

// Forecast fits the model to observations and returns one point per distinct
// historical date followed by Periods() daily future points.
func (s *ForecastService) Forecast(observations []Observation) ([]models.ForecastPoint, error) {
	history := sortedHistory(observations)
	if len(history) < 2 {
		return nil, fmt.Errorf("dataframe has less than 2 non-NaN rows")
	}
	last := history[len(history)-1].DS
	if !last.After(history[0].DS) {
		return nil, fmt.Errorf("time series must span at least two distinct dates")
	}

	model := newAdditiveModel(history)
	if err := model.fit(history); err != nil {
		return nil, err
	}

	seasonalities := make([]string, 0, len(model.seasonalities))
	for _, sz := range model.seasonalities {
		seasonalities = append(seasonalities, sz.name)
	}
	s.logger.WithFields(logrus.Fields{
		"observations":  len(history),
		"seasonalities": seasonalities,
		"sigma":         model.sigma,
	}).Debug("fitted forecast model")

	z := distuv.UnitNormal.Quantile(0.5 + s.intervalWidth/2)

	dates := uniqueDates(history)
	for i := 1; i <= s.periods; i++ {
		dates = append(dates, last.AddDate(0, 0, i))
	}

	points := make([]models.ForecastPoint, len(dates))
	for i, ds := range dates {
		yhat := model.predict(ds)
		margin := z * model.sigma * model.intervalScale(ds)
		points[i] = models.ForecastPoint{
			DS:        ds.Format(forecastDateLayout),
			YHat:      yhat,
			YHatLower: yhat - margin,
			YHatUpper: yhat + margin,
		}
	}
	return points, nil
}

func sortedHistory(observations []Observation) []Observation {
	history := make([]Observation, len(observations))
	copy(history, observations)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].DS.Before(history[j].DS)
	})
	return history
}

func uniqueDates(history []Observation) []time.Time {
	dates := make([]time.Time, 0, len(history))
	for _, obs := range history {
		if len(dates) > 0 && dates[len(dates)-1].Equal(obs.DS) {
			continue
		}
		dates = append(dates, obs.DS)
	}
	return dates
}
