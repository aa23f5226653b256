// msgr-demo exercises the messenger end to end: the standard informant
// table, culprit scopes, codicils, the progress bar and the termination
// protocol.
package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abyssdigger/msgr"
)

var (
	flagQuiet   bool
	flagVerbose bool
	flagNarrate bool
	flagMute    bool
	flagLogfile string
	flagScheme  string
	flagFail    bool
)

func scheme(name string) msgr.Scheme {
	switch name {
	case "light":
		return msgr.SCHEME_LIGHT
	case "none":
		return msgr.SCHEME_NONE
	}
	return msgr.SCHEME_DARK
}

func run(cmd *cobra.Command, args []string) {
	n := msgr.NewInformer(msgr.InformerOptions{
		Quiet:       flagQuiet,
		Verbose:     flagVerbose,
		Narrate:     flagNarrate,
		Mute:        flagMute,
		LogfilePath: flagLogfile,
		Colorscheme: scheme(flagScheme),
		Version:     "1.0.0",
	})
	defer n.Disconnect()

	msgr.Display.Emit("starting the tour")
	msgr.Comment.Emit("comments show up only with --verbose")
	msgr.Narrate.Emit("narration shows up only with --narrate")

	restore := n.SetCulprit("demo.cfg")
	msgr.Warn.EmitOpts(&msgr.EmitOptions{
		Codicil: []string{"this warning is attributed to the current culprit"},
	}, "value out of range")
	restore()

	items := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	msgr.Display.Emit("layout:\n" + msgr.Columns(items, 40))

	p := n.NewProgress(0, 50).SetWidth(50)
	p.AddMarker("ok", '.', msgr.COLOR_NONE)
	p.AddMarker("slow", '~', msgr.COLOR_YELLOW)
	defer p.Abandon()
	for i := 1; i <= 50; i++ {
		marker := "ok"
		if i%17 == 0 {
			marker = "slow"
			msgr.Comment.Emit("interrupting the bar mid-flight")
		}
		p.Draw(float64(i), marker)
		time.Sleep(5 * time.Millisecond)
	}
	p.Done()

	if flagFail {
		fault := msgr.NewFault("simulated failure").WithCulprit("demo")
		fault.Report()
		if suggestion := msgr.DidYouMean("duisplay", []string{"display", "comment", "narrate"}); suggestion != "" {
			msgr.Codicil.Emit("did you mean " + suggestion + "?")
		}
	}
	msgr.TerminateIfErrors()
	msgr.Done()
}

func main() {
	root := &cobra.Command{
		Use:   "msgr-demo",
		Short: "tour of the msgr messaging toolkit",
		Run:   run,
	}
	root.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress normal output")
	root.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "show comments")
	root.Flags().BoolVar(&flagNarrate, "narrate", false, "show narration")
	root.Flags().BoolVar(&flagMute, "mute", false, "suppress all output")
	root.Flags().StringVar(&flagLogfile, "logfile", "", "write a logfile to this path")
	root.Flags().StringVar(&flagScheme, "colorscheme", "dark", "dark, light or none")
	root.Flags().BoolVar(&flagFail, "fail", false, "report a simulated error")
	if err := root.Execute(); err != nil {
		os.Exit(msgr.STATUS_USAGE)
	}
}
