// Command emailcheck-web serves the email check form over HTTP(S).
//
//	emailcheck-web [flags]
//	emailcheck-web service <run|status|start|stop|restart|install|uninstall> [flags]
package main

import (
	"context"
	"os"

	"github.com/dalemusser/emailcheck/app"
	"github.com/dalemusser/emailcheck/daemon"
	"github.com/dalemusser/emailcheck/internal/web"
)

const name = "emailcheck-web"

func hooks(args []string) app.Hooks[web.AppConfig] {
	return app.Hooks[web.AppConfig]{
		Name:         name,
		LoadConfig:   web.LoadConfig(args),
		BuildHandler: web.BuildHandler,
	}
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "service" {
		os.Exit(daemon.Main(name, "Email address plausibility check form.", os.Args[2:], hooks, os.Stdout, os.Stderr))
	}

	if err := app.Run(context.Background(), hooks(os.Args[1:])); err != nil {
		os.Exit(1)
	}
}
