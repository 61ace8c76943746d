// This file is part of Zxbus.
//
// Zxbus is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zxbus is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zxbus.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"

	"github.com/zxbus/zxbus/environment"
	"github.com/zxbus/zxbus/hardware"
	"github.com/zxbus/zxbus/hardware/preferences"
	"github.com/zxbus/zxbus/logger"
	"github.com/zxbus/zxbus/macro"
	"github.com/zxbus/zxbus/modalflag"
	"github.com/zxbus/zxbus/notifications"
	"github.com/zxbus/zxbus/paths"
	"github.com/zxbus/zxbus/prefs"
	"github.com/zxbus/zxbus/statsview"
	"github.com/zxbus/zxbus/version"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("RUN", "PERIPHERALS", "DUMP", "STATS", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)

	case "PERIPHERALS":
		err = listPeripherals(md)

	case "DUMP":
		err = dump(md)

	case "STATS":
		err = stats(md)

	case "VERSION":
		fmt.Println(version.String())
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

// options common to every mode that creates a hardware.System
type options struct {
	machine  *string
	divide   *bool
	divmmc   *bool
	kempston *bool
	if2      *string
	rom      *string
	prefs    *string
	log      *bool
}

func addOptions(md *modalflag.Modes) *options {
	return &options{
		machine:  md.AddString("machine", "", "machine model: 48, 128"),
		divide:   md.AddBool("divide", false, "attach DivIDE interface"),
		divmmc:   md.AddBool("divmmc", false, "attach DivMMC interface"),
		kempston: md.AddBool("kempston", false, "attach Kempston joystick interface"),
		if2:      md.AddString("if2", "", "attach Interface 2 with cartridge"),
		rom:      md.AddString("rom", "", "ROM image for the machine"),
		prefs:    md.AddString("prefs", "", "preferences for this run: \"key::value; ...\""),
		log:      md.AddBool("log", false, "echo debugging log to stdout"),
	}
}

// apply the options to the preferences. options that were not specified do
// not change the preferences
func (opts *options) apply(p *preferences.Preferences) error {
	if *opts.machine != "" {
		m := strings.ToLower(*opts.machine)
		if !strings.HasSuffix(m, "k") {
			m = fmt.Sprintf("%sk", m)
		}
		if err := p.Machine.Set(m); err != nil {
			return err
		}
	}
	if *opts.divide {
		_ = p.DivIDE.Set(true)
	}
	if *opts.divmmc {
		_ = p.DivMMC.Set(true)
	}
	if *opts.kempston {
		_ = p.Kempston.Set(true)
	}
	if *opts.if2 != "" {
		_ = p.IF2.Set(true)
		_ = p.IF2Cartridge.Set(*opts.if2)
	}
	return nil
}

// notices are printed to stdout
type notifier struct {
	out io.Writer
}

func (n notifier) Notify(notice notifications.Notice, args ...any) error {
	switch notice {
	case notifications.NotifyPeripheralDisabled:
		fmt.Fprintf(n.out, "! peripheral disabled: %v\n", args)
	case notifications.NotifyHardResetRequired:
		fmt.Fprintln(n.out, "! hard reset")
	}
	return nil
}

func newSystem(opts *options) (*hardware.System, error) {
	// set debugging log echo
	if *opts.log {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			logger.SetEcho(logger.NewColorizer(os.Stdout))
		} else {
			logger.SetEcho(os.Stdout)
		}
	} else {
		logger.SetEcho(nil)
	}

	// command line preferences are consumed when the preferences file is
	// loaded
	if *opts.prefs != "" {
		prefs.PushCommandLineStack(*opts.prefs)
		defer func() {
			if unused := prefs.PopCommandLineStack(); unused != "" {
				logger.Logf(logger.Allow, "prefs", "unused command line preferences: %s", unused)
			}
		}()
	}

	p, err := preferences.NewPreferences(paths.ResourcePath("", prefs.DefaultPrefsFile))
	if err != nil {
		return nil, err
	}
	if err := opts.apply(p); err != nil {
		return nil, err
	}

	env, err := environment.NewEnvironment(environment.MainEmulation, p, notifier{out: os.Stdout})
	if err != nil {
		return nil, err
	}

	sys, err := hardware.NewSystem(env)
	if err != nil {
		return nil, err
	}

	if *opts.rom != "" {
		if err := sys.LoadROM(0, *opts.rom); err != nil {
			sys.Shutdown()
			return nil, err
		}
		sys.Reset(true)
	}

	return sys, nil
}

func run(md *modalflag.Modes) error {
	md.NewMode()
	opts := addOptions(md)
	script := md.AddString("macro", "", "macro or Lua script (.lua) to run against the bus")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	sys, err := newSystem(opts)
	if err != nil {
		return err
	}
	defer sys.Shutdown()

	if *script != "" {
		mcr, err := macro.Load(*script)
		if err != nil {
			return err
		}
		if err := mcr.Run(sys.Machine, os.Stdout); err != nil {
			return err
		}
	}

	fmt.Print(sys)
	fmt.Print(sys.Mem.Summary())

	return nil
}

func listPeripherals(md *modalflag.Modes) error {
	md.NewMode()
	opts := addOptions(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	sys, err := newSystem(opts)
	if err != nil {
		return err
	}
	defer sys.Shutdown()

	fmt.Print(sys.Machine.Peripherals())

	return nil
}

func dump(md *modalflag.Modes) error {
	md.NewMode()
	md.AdditionalHelp("The graph is written to the named file or to stdout if the filename is -")
	opts := addOptions(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	sys, err := newSystem(opts)
	if err != nil {
		return err
	}
	defer sys.Shutdown()

	var filename string
	switch len(md.RemainingArgs()) {
	case 0:
		filename = fmt.Sprintf("%s.dot", paths.UniqueFilename("memmap", sys.Machine.Model().String()))
	case 1:
		filename = md.GetArg(0)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	if filename == "-" {
		sys.Machine.Visualise(os.Stdout)
		return nil
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	sys.Machine.Visualise(f)
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("! memory map written to %s\n", filename)

	return nil
}

func stats(md *modalflag.Modes) error {
	md.NewMode()
	addr := md.AddString("addr", statsview.DefaultAddress, "address of the stats server")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	stop := statsview.Launch(os.Stdout, *addr)
	defer stop()
	if !statsview.Available() {
		return nil
	}

	// run until interrupted
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	<-intChan

	return nil
}
