package commonGo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-chain-logger-go/file"
)

var log = logger.GetOrCreate("commonGo")

// ArgsFileLogger is the DTO used to attach a log file
type ArgsFileLogger struct {
	WorkingDir      string
	DefaultLogsPath string
	LogFilePrefix   string
	SaveLogFile     bool
	LifeSpan        time.Duration
	LifeSpanInMB    uint64
}

// AttachFileLogger attaches, if required, a log file rotated by the provided life span
func AttachFileLogger(mainLog logger.Logger, args ArgsFileLogger) (FileLoggingHandler, error) {
	err := logger.SetDisplayByteSlice(logger.ToHex)
	mainLog.LogIfError(err)

	if !args.SaveLogFile {
		return nil, nil
	}

	argsFileLogging := file.ArgsFileLogging{
		WorkingDir:      args.WorkingDir,
		DefaultLogsPath: args.DefaultLogsPath,
		LogFilePrefix:   args.LogFilePrefix,
	}
	logFile, err := file.NewFileLogging(argsFileLogging)
	if err != nil {
		return nil, fmt.Errorf("%w creating a log file", err)
	}

	if args.LifeSpan > 0 || args.LifeSpanInMB > 0 {
		err = logFile.ChangeFileLifeSpan(args.LifeSpan, args.LifeSpanInMB)
		if err != nil {
			_ = logFile.Close()
			return nil, fmt.Errorf("%w setting the log file life span", err)
		}
	}

	return logFile, nil
}

// ReadEnvFile will read the file contents in the provided map. A missing file is accepted as long as every key is
// already set in the process environment
func ReadEnvFile(envFile string, m map[string]string) error {
	err := godotenv.Load(envFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("env file not found, using the process environment", "file", envFile)
		err = nil
	}
	if err != nil {
		return err
	}

	for k := range m {
		val := os.Getenv(k)
		if len(val) == 0 {
			return fmt.Errorf("%s is not set in the .env file", k)
		}

		m[k] = val
	}

	return nil
}

// CronJobStarter is able to start a go routine that periodically calls the provided handler. The time between calls is
// provided as timeToCall. The first call happens right away
func CronJobStarter(ctx context.Context, handler func(ctx context.Context), timeToCall time.Duration) {
	if timeToCall <= 0 {
		log.Error("cron job not started, invalid time between calls", "time to call", timeToCall)
		return
	}

	go func() {
		timer := time.NewTimer(timeToCall)
		defer timer.Stop()

		handler(ctx)

		for {
			select {
			case <-timer.C:
				handler(ctx)
				timer.Reset(timeToCall)
			case <-ctx.Done():
				return
			}
		}
	}()
}
