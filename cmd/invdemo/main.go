package main

import (
	"flag"
	"fmt"
	"os"

	"invui/internal/config"
	"invui/internal/demo"
	"invui/internal/logging"
	"invui/internal/profiling"

	"github.com/sirupsen/logrus"
	"github.com/xlab/closer"
)

var (
	configPath = flag.String("config", "", "configuration file (defaults to $CONFIG_PATH, then built-in settings)")
	schema     = flag.Bool("schema", false, "print the configuration JSON schema and exit")
)

func main() {
	flag.Parse()
	defer closer.Close()

	if *schema {
		out, err := config.SchemaJSON()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			closer.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	cfg, path, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		closer.Exit(1)
	}
	log, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		closer.Exit(1)
	}
	log.WithField("path", path).Info("configuration loaded")

	session, err := demo.New(cfg, demo.WithLogger(log))
	if err != nil {
		log.WithError(err).Error("failed to build demo")
		closer.Exit(1)
	}
	closer.Bind(func() {
		session.Close()
		log.WithFields(logrus.Fields{
			"chest":  demo.Contents(session.Chest),
			"player": demo.Contents(session.Player),
		}).Info("final contents")
		log.Infof("Top tasks: %s", profiling.TopN(5))
	})

	if err := session.Run(cfg.Demo.Script); err != nil {
		log.WithError(err).Error("script failed")
		closer.Exit(1)
	}
}

func loadConfig() (*config.Config, string, error) {
	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		return config.Default(), "built-in", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
