package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/mutatag/internal/cli"
	"github.com/llehouerou/mutatag/internal/config"
	"github.com/llehouerou/mutatag/internal/errmsg"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Error(errmsg.Format(errmsg.OpConfigLoad, err))
		os.Exit(cli.ExitError)
	}

	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr, cfg))
}
