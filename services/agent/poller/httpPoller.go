package poller

import (
	"context"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/iulianpascalau/electric-monitoring/services/agent/common"
	"github.com/iulianpascalau/electric-monitoring/services/agent/config"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

var log = logger.GetOrCreate("poller")

type httpPoller struct {
	client   *http.Client
	timeFunc func() time.Time
}

// NewHTTPPoller creates a new HTTP-based poller with a default timeout
func NewHTTPPoller(timeout time.Duration) *httpPoller {
	return &httpPoller{
		client: &http.Client{
			Timeout: timeout,
		},
		timeFunc: time.Now,
	}
}

// PollAll fetches every distinct gateway URL once, concurrently, and extracts the readings of the channels served
// by it. The readings are sorted by channel
func (p *httpPoller) PollAll(ctx context.Context, meters []config.MeterConfig) []common.Reading {
	byURL := make(map[string][]config.MeterConfig)
	for _, meter := range meters {
		byURL[meter.URL] = append(byURL[meter.URL], meter)
	}

	timestamp := p.timeFunc().Unix()
	readings := make([]common.Reading, 0, len(meters))
	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(len(byURL))
	for url, channels := range byURL {
		go func(url string, channels []config.MeterConfig) {
			defer wg.Done()

			body, err := p.fetch(ctx, url)
			if err != nil {
				log.Warn("gateway poll failed", "url", url, "channels", len(channels), "error", err)
				return
			}

			for _, meter := range channels {
				reading, errExtract := extractReading(body, meter, timestamp)
				if errExtract != nil {
					log.Warn("can not read channel", "channel", meter.Channel, "url", url, "error", errExtract)
					continue
				}

				mu.Lock()
				readings = append(readings, reading)
				mu.Unlock()
			}
		}(url, channels)
	}

	wg.Wait()

	sort.Slice(readings, func(i, j int) bool {
		return readings[i].Channel < readings[j].Channel
	})

	return readings
}

func (p *httpPoller) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errStatusNotOK(resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// extractReading reads the power value, mandatory, and the optional voltage and volt-amperes values
func extractReading(body []byte, meter config.MeterConfig, timestamp int64) (common.Reading, error) {
	power, err := extractNumber(body, meter.PowerPath)
	if err != nil {
		return common.Reading{}, err
	}

	reading := common.Reading{
		Channel:   meter.Channel,
		Timestamp: timestamp,
		Power:     power,
	}
	reading.Voltage = extractOptionalNumber(body, meter.VoltagePath, meter.Channel)
	reading.VoltAmperes = extractOptionalNumber(body, meter.VoltAmperesPath, meter.Channel)

	return reading, nil
}

func extractNumber(body []byte, path string) (float64, error) {
	result := gjson.GetBytes(body, path)
	if !result.Exists() {
		return 0, errPathNotFound(path)
	}
	if result.Type != gjson.Number {
		return 0, errNotANumber(result.Raw)
	}

	return result.Float(), nil
}

func extractOptionalNumber(body []byte, path string, channel string) *float64 {
	if len(path) == 0 {
		return nil
	}

	value, err := extractNumber(body, path)
	if err != nil {
		log.Debug("optional value missing", "channel", channel, "path", path, "error", err)
		return nil
	}

	return &value
}

// IsInterfaceNil returns true if the value under the interface is nil
func (p *httpPoller) IsInterfaceNil() bool {
	return p == nil
}
