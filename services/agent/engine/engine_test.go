package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/iulianpascalau/electric-monitoring/services/agent/common"
	"github.com/iulianpascalau/electric-monitoring/services/agent/config"
	"github.com/iulianpascalau/electric-monitoring/services/agent/testsCommon"
	"github.com/stretchr/testify/assert"
)

func TestNewAgentEngine(t *testing.T) {
	t.Parallel()

	t.Run("nil poller should error", func(t *testing.T) {
		engine, err := NewAgentEngine(config.Config{}, nil, &testsCommon.ReporterStub{})

		assert.Nil(t, engine)
		assert.True(t, engine.IsInterfaceNil())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "nil poller")
	})
	t.Run("nil reporter should error", func(t *testing.T) {
		engine, err := NewAgentEngine(config.Config{}, &testsCommon.PollerStub{}, nil)

		assert.Nil(t, engine)
		assert.True(t, engine.IsInterfaceNil())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "nil reporter")
	})
	t.Run("should work", func(t *testing.T) {
		engine, err := NewAgentEngine(config.Config{}, &testsCommon.PollerStub{}, &testsCommon.ReporterStub{})

		assert.NotNil(t, engine)
		assert.False(t, engine.IsInterfaceNil())
		assert.Nil(t, err)
	})
}

func TestAgentEngine_Process(t *testing.T) {
	t.Parallel()

	meters := []config.MeterConfig{
		{Channel: "MTU1", URL: "http://gateway", PowerPath: "power"},
	}

	t.Run("readings should be reported", func(t *testing.T) {
		t.Parallel()

		readings := []common.Reading{
			{Channel: "MTU1", Timestamp: 1000, Power: 1500},
		}
		var polledMeters []config.MeterConfig
		var reported []common.Reading
		poller := &testsCommon.PollerStub{
			PollAllHandler: func(ctx context.Context, m []config.MeterConfig) []common.Reading {
				polledMeters = m
				return readings
			},
		}
		reporter := &testsCommon.ReporterStub{
			ReportHandler: func(ctx context.Context, r []common.Reading) error {
				reported = r
				return nil
			},
		}

		engine, _ := NewAgentEngine(config.Config{Meters: meters}, poller, reporter)
		engine.Process(context.Background())

		assert.Equal(t, meters, polledMeters)
		assert.Equal(t, readings, reported)
	})
	t.Run("no readings should not report", func(t *testing.T) {
		t.Parallel()

		reporter := &testsCommon.ReporterStub{
			ReportHandler: func(ctx context.Context, r []common.Reading) error {
				assert.Fail(t, "should not have been called")
				return nil
			},
		}

		engine, _ := NewAgentEngine(config.Config{Meters: meters}, &testsCommon.PollerStub{}, reporter)
		engine.Process(context.Background())
	})
	t.Run("report failure should not panic", func(t *testing.T) {
		t.Parallel()

		numReports := 0
		poller := &testsCommon.PollerStub{
			PollAllHandler: func(ctx context.Context, m []config.MeterConfig) []common.Reading {
				return []common.Reading{{Channel: "MTU1"}}
			},
		}
		reporter := &testsCommon.ReporterStub{
			ReportHandler: func(ctx context.Context, r []common.Reading) error {
				numReports++
				return errors.New("expected error")
			},
		}

		engine, _ := NewAgentEngine(config.Config{Meters: meters}, poller, reporter)
		engine.Process(context.Background())
		assert.Equal(t, 1, numReports)
	})
}
