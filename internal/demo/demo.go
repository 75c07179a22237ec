// Package demo is a small application assembled by bootdep: a greeting provider, a service using
// it and a console, wired into an App entry point.
package demo

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/gburgyan/go-bootdep"
	"github.com/gburgyan/go-bootdep/internal/demo/message"
)

// Namespace is the root namespace of the demo components.
var Namespace = bootdep.NamespaceOf[*App]()

// Console is where the application writes its output.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Println(line string) error {
	_, err := fmt.Fprintln(c.out, line)
	return err
}

// App is the entry point of the demo.
type App struct {
	service *message.UsageService
	console *Console
}

func NewApp(service *message.UsageService, console *Console) *App {
	return &App{service: service, console: console}
}

// Run prints a greeting for each -name flag, or a single greeting to the world. Positional
// arguments are rejected.
func (a *App) Run(ctx context.Context, args []string) error {
	var names nameList
	fs := flag.NewFlagSet("app", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&names, "name", "who to greet, may be repeated")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if len(names) == 0 {
		names = nameList{""}
	}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.console.Println(a.service.Compose(name)); err != nil {
			return err
		}
	}
	return nil
}

type nameList []string

func (n *nameList) String() string {
	return strings.Join(*n, ",")
}

func (n *nameList) Set(v string) error {
	*n = append(*n, v)
	return nil
}

// Register adds the demo components to reg, with the greeting taken from settings and the output
// going to out.
func Register(reg *bootdep.Registry, settings *message.Settings, out io.Writer) {
	reg.RegisterInstance(settings, NewConsole(out))
	reg.Register(
		message.NewStaticProvider,
		message.NewUsageService,
		NewApp,
	)
}

// ValidateGreeting rejects greetings that would not fit on one line.
func ValidateGreeting(p message.Provider) error {
	if strings.ContainsAny(p.Message(), "\r\n") {
		return fmt.Errorf("greeting %q spans several lines", p.Message())
	}
	return nil
}
