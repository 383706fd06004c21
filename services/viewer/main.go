package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/iulianpascalau/electric-monitoring/commonGo"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/config"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/factory"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/rivo/tview"
	"github.com/urfave/cli"
)

const (
	defaultLogsPath      = "logs"
	logFilePrefix        = "viewer"
	logFileLifeSpanInSec = 86400 // 24h
	logFileLifeSpanInMB  = 1024  // 1GB
)

// appVersion should be populated at build time using ldflags
// Usage examples:
// Linux/macOS:
//
//	go build -v -ldflags="-X main.appVersion=$(git describe --all | cut -c7-32)
var appVersion = "undefined"
var fileLogging commonGo.FileLoggingHandler

var (
	viewerHelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}
   {{if len .Authors}}
AUTHOR:
   {{range .Authors}}{{ . }}{{end}}
   {{end}}{{if .Commands}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}
VERSION:
   {{.Version}}
   {{end}}
`

	log = logger.GetOrCreate("viewer")

	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name: "log-level",
		Usage: "This flag specifies the logger `level(s)`. It can contain multiple comma-separated value. For example" +
			", if set to *:INFO the logs for all packages will have the INFO level. However, if set to *:INFO,engine:DEBUG" +
			" the logs for all packages will have the INFO level, excepting the engine package which will receive a DEBUG" +
			" log level.",
		Value: "*:" + logger.LogInfo.String(),
	}
	// workingDirectory defines a flag for the path for the working directory.
	workingDirectory = cli.StringFlag{
		Name:  "working-directory",
		Usage: "This flag specifies the `directory` where the viewer will store its logs.",
		Value: "",
	}
	// configurationFile defines a flag for the path to the configuration file
	configurationFile = cli.StringFlag{
		Name:  "config",
		Usage: "The `filepath` of the TOML configuration file.",
		Value: "./config.toml",
	}
	// datasourceURL overrides the data source address from the configuration file
	datasourceURL = cli.StringFlag{
		Name:  "datasource-url",
		Usage: "The base `URL` of the data source. Overrides the DatasourceURL configuration value.",
	}
	// view overrides the initial view from the configuration file
	view = cli.StringFlag{
		Name:  "view",
		Usage: "The initial `view`: power, voltage, volt-amperes, volt-amperes-reactive, combined-power or power-factor.",
	}
)

func main() {
	app := cli.NewApp()
	cli.AppHelpTemplate = viewerHelpTemplate
	app.Name = "Electric monitoring viewer"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "This is the entry point for the terminal viewer of the electric meter readings"
	app.Flags = []cli.Flag{
		logLevel,
		workingDirectory,
		configurationFile,
		datasourceURL,
		view,
	}
	app.Authors = []cli.Author{
		{
			Name:  "Iulian Pascalau",
			Email: "iulian.pascalau@gmail.com",
		},
	}

	app.Action = run

	defer func() {
		if fileLogging != nil {
			_ = fileLogging.Close()
		}
	}()

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	workingDir := ctx.GlobalString(workingDirectory.Name)

	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	// the terminal belongs to the chart, logs only go to the file
	fileLogging, err = commonGo.AttachFileLogger(log, commonGo.ArgsFileLogger{
		WorkingDir:      workingDir,
		DefaultLogsPath: defaultLogsPath,
		LogFilePrefix:   logFilePrefix,
		SaveLogFile:     true,
		LifeSpan:        time.Second * time.Duration(logFileLifeSpanInSec),
		LifeSpanInMB:    uint64(logFileLifeSpanInMB),
	})
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(ctx.GlobalString(configurationFile.Name))
	if err != nil {
		return err
	}
	if ctx.GlobalIsSet(datasourceURL.Name) {
		cfg.DatasourceURL = ctx.GlobalString(datasourceURL.Name)
	}
	if ctx.GlobalIsSet(view.Name) {
		cfg.View = ctx.GlobalString(view.Name)
	}

	log.Info("Starting viewer", "version", appVersion, "pid", os.Getpid(), "data source", cfg.DatasourceURL)

	err = logger.RemoveLogObserver(os.Stdout)
	if err != nil {
		return err
	}

	application := tview.NewApplication()
	components, err := factory.NewComponentsHandler(*cfg, application, application.Stop)
	if err != nil {
		return err
	}

	application.SetRoot(components.GetWidget().Primitive(), true)
	components.Start()

	err = application.Run()

	log.Info("Application closing, calling Close on all subcomponents...")
	components.Close()

	return err
}
