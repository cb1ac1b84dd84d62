package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/MrSiJo/plugtrack/core/metrics"
	"github.com/MrSiJo/plugtrack/infra/logger"
)

// InfluxSink writes computed results to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordEventMetrics writes the computed result as a line protocol point.
func (s *InfluxSink) RecordEventMetrics(m coremetrics.DerivedMetrics) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("event_metrics").
		AddTag("vehicle_id", strconv.FormatInt(m.VehicleID, 10)).
		AddTag("event_id", strconv.FormatInt(m.EventID, 10)).
		AddTag("confidence", string(m.Confidence)).
		AddTag("size_bucket", string(m.SizeBucket)).
		AddTag("efficiency_source", string(m.EfficiencySource)).
		AddField("weight_kwh", round3(m.WeightKWh)).
		AddField("avg_power_kw", round3(m.AvgPowerKW)).
		SetTime(time.Now())
	if m.Efficiency != nil {
		p.AddField("efficiency_mi_per_kwh", round3(*m.Efficiency))
	}
	if m.CostPerMile != nil {
		p.AddField("cost_per_mile", round3(*m.CostPerMile))
	}
	if m.PercentPerKWh != nil {
		p.AddField("percent_per_kwh", round3(*m.PercentPerKWh))
	}
	if len(m.Reasons) > 0 {
		p.AddTag("reasons", strings.Join(m.Reasons, ","))
	}
	return s.writeAPI.WritePoint(ctx, p)
}

// Close flushes and shuts down the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
