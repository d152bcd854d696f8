// Package profiling wires optional continuous profiling. The profiler only
// runs when explicitly enabled in config; everything else in the service is
// oblivious to it.
package profiling

import (
	"fmt"
	"strings"
	"time"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"

	"github.com/campuspathway/leads-api/config"
	"github.com/campuspathway/leads-api/pkg/logger"
)

// sampleTypes maps the comma-separated config keys onto pyroscope profile
// types. Mutex and block sampling come in count/duration pairs.
var sampleTypes = map[string][]pyroscope.ProfileType{
	"cpu":           {pyroscope.ProfileCPU},
	"alloc_space":   {pyroscope.ProfileAllocSpace},
	"alloc_objects": {pyroscope.ProfileAllocObjects},
	"goroutines":    {pyroscope.ProfileGoroutines},
	"mutex":         {pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration},
	"block":         {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

// InitProfiler starts the profiler when enabled and returns a stop function.
// When profiling is off the returned stop is a no-op.
func InitProfiler(cfg config.ProfilingConfig, serviceName, namespace, version, instanceID, environment string) (func(), error) {
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return func() {}, nil
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("profiling endpoint is required when profiling is enabled")
	}

	uploadInterval := time.Duration(cfg.UploadIntervalSeconds) * time.Second
	if uploadInterval <= 0 {
		uploadInterval = 15 * time.Second
	}

	types, err := resolveSampleTypes(cfg.SampleTypes)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.AppName)
	if appName == "" {
		appName = "leads-api"
	}
	tagged := fmt.Sprintf("%s{service_name=%s,namespace=%s,environment=%s,service_version=%s,instance=%s}",
		appName, serviceName, namespace, environment, version, instanceID)

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: tagged,
		ServerAddress:   endpoint,
		UploadRate:      uploadInterval,
		ProfileTypes:    types,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	logger.Info("Continuous profiling initialized",
		zap.String("application_name", tagged),
		zap.String("endpoint", endpoint),
		zap.Duration("upload_interval", uploadInterval),
	)

	return func() {
		if err := profiler.Stop(); err != nil {
			logger.Error("Failed to stop profiler", zap.Error(err))
		}
	}, nil
}

// resolveSampleTypes parses the configured sample-type list. An empty list
// enables everything; an unknown key is a config error rather than a silent
// skip.
func resolveSampleTypes(value string) ([]pyroscope.ProfileType, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = "cpu,alloc_space,alloc_objects,goroutines,mutex,block"
	}

	var types []pyroscope.ProfileType
	seen := make(map[pyroscope.ProfileType]bool)
	for _, raw := range strings.Split(value, ",") {
		key := strings.ToLower(strings.TrimSpace(raw))
		if key == "" {
			continue
		}
		mapped, ok := sampleTypes[key]
		if !ok {
			return nil, fmt.Errorf("unsupported O11Y_PROFILING_SAMPLE_TYPES value: %q", key)
		}
		for _, t := range mapped {
			if !seen[t] {
				types = append(types, t)
				seen[t] = true
			}
		}
	}

	if len(types) == 0 {
		return nil, fmt.Errorf("O11Y_PROFILING_SAMPLE_TYPES resolved to no profile types")
	}
	return types, nil
}
