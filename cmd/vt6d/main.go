// Command vt6d is the VT6 server daemon: it accepts Unix socket
// connections, runs them through the core1/posix1 handshake and message
// handler chain, and serves a reference in-memory Application.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/op/go-logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli"

	"vt6.io/vt6d/common/socketpath"
	"vt6.io/vt6d/internal/memapp"
	"vt6.io/vt6d/internal/vt6log"
	"vt6.io/vt6d/server/application"
	"vt6.io/vt6d/server/core"
	"vt6.io/vt6d/server/dispatch"
	"vt6.io/vt6d/server/handler"
	"vt6.io/vt6d/server/metrics"
	"vt6.io/vt6d/server/posix"
	"vt6.io/vt6d/server/telemetry"
)

func useSyslog() bool {
	env := os.Getenv("VT6D_LOG_SYSLOG")
	if env != "" {
		return env == "true"
	}
	return true
}

var log = vt6log.SetupLogging("vt6d", logging.INFO, useSyslog())

func main() {
	app := cli.NewApp()
	app.Name = "vt6d"
	app.Usage = "accept and dispatch VT6 connections"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "socket-path",
			Usage: "path to listen on (default: $XDG_RUNTIME_DIR/vt6/$PID)",
		},
	}
	app.Action = runServer

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServer(c *cli.Context) error {
	defer func() {
		if x := recover(); x != nil {
			log.Error(fmt.Sprintf("run time panic: %v", x))
			log.Error(string(debug.Stack()))
			panic(x)
		}
	}()

	socketPath := c.String("socket-path")
	if socketPath == "" {
		p, err := socketpath.Default()
		if err != nil {
			log.Fatal(err)
		}
		socketPath = p
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	notify := func(n application.Notification) {
		if n.IsError() {
			log.Error(n.String())
		} else {
			log.Debug(n.String())
		}
	}
	app := memapp.New(notify)

	newMessageHandler := func() handler.MessageHandler {
		var chain handler.MessageHandler = handler.RejectHandler{}
		chain = core.NewMessageHandler(app, chain)
		chain = telemetry.WrapMessageHandler(log, m, chain)
		return chain
	}
	newHandshakeHandler := func() handler.HandshakeHandler {
		return posix.NewHandshakeHandler(app, handler.RejectHandler{}, nil)
	}

	d := dispatch.New(socketPath, app, m, newHandshakeHandler, newMessageHandler)

	stopSignal := make(chan os.Signal, 1)
	signal.Notify(stopSignal, os.Interrupt, os.Kill, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- d.Run()
	}()

	log.Notice("vt6d listening on " + socketPath)

	select {
	case sig := <-stopSignal:
		log.Notice("stopping with signal", sig)
		d.Shutdown()
	case err := <-errCh:
		if err != nil {
			log.Error("dispatcher stopped:", err)
			return err
		}
	}
	return nil
}
