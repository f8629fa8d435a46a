// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/salonkit/stylesync/internal/app"
	"github.com/salonkit/stylesync/internal/config"
	"github.com/salonkit/stylesync/internal/ui"
)

var (
	verbose    bool
	quiet      bool
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stylesync",
	Short: "Sync salon style photos to a Google Business Profile",
	Long: `Stylesync scrapes the newest style photos from a salon's HotPepper Beauty
profile and uploads a chosen subset to the salon's Google Business Profile,
driving a real browser session through Google's console.

A bare invocation prints this usage; every operation is a subcommand.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// The context cancels in-flight operations when the process is interrupted.
func Execute(ctx context.Context) {
	// App startup happens in PersistentPreRunE, not here.
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Build the app on first need so -h/help never launches a browser.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetApp() != nil {
			return nil
		}

		cfg, err := config.Load(rootCmd)
		if err != nil {
			return err
		}

		appCtx, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		SetApp(appCtx)
		return nil
	}

	// Tear down whatever PersistentPreRunE built.
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		appCtx := GetApp()
		if appCtx == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), appCtx.Config.HTTPTimeout)
		defer cancel()
		_ = appCtx.Close(ctx)
		SetApp(nil)
	}
}

func init() {
	// Shared flags live in the config package.
	config.RegisterFlags(rootCmd)
	cobra.OnInitialize(initConfig)

	// Recreate the builtin flags so their help text matches the house style.
	rootCmd.Flags().BoolP("help", "h", false, "Help for Stylesync")
	rootCmd.Flags().Bool("version", false, "Version for Stylesync")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	cfg, err := config.Load(rootCmd)
	if err != nil {
		// Keep going with defaults; commands revalidate what they need.
		log.Warn().Err(err).Msg("failed to load configuration, using defaults")
		cfg = &config.Config{}
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		verbose = true
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
		quiet = true
	default:
		// Quiet by default; info noise is opt-in.
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	}

	if cfg.JSONLog {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		jsonOutput = true
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Debug().Str("browser", cfg.Browser).Str("user_agent", cfg.UserAgent).Msg("Config loaded")
}

func init() {
	// No shell completion; the command set is small.
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.SetHelpFunc(renderHelp)
	rootCmd.SetUsageFunc(renderUsage)
}

const helpWidth = 80

// renderHelp is the colorized replacement for cobra's help template.
func renderHelp(cmd *cobra.Command, args []string) {
	w := os.Stdout

	fmt.Fprintf(w, "\n%s%s%s\n", ui.ColorBold+ui.ColorCyan, strings.ToUpper(cmd.Name()), ui.ColorReset)
	if cmd.Short != "" {
		fmt.Fprintln(w, cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(w, "\n%s\n", wrap(cmd.Long, helpWidth))
	}

	section(w, "Usage")
	printUseLines(w, cmd)

	if cmd.HasExample() {
		section(w, "Examples")
		printExampleBlock(w, cmd.Example)
	}

	if cmd.HasAvailableSubCommands() {
		section(w, "Commands")
		printCommandList(w, cmd)
	}

	if cmd.HasAvailableLocalFlags() {
		section(w, "Flags")
		printFlagBlock(w, cmd.LocalFlags().FlagUsages())
	}
	if cmd.HasAvailableInheritedFlags() {
		section(w, "Global Flags")
		printFlagBlock(w, cmd.InheritedFlags().FlagUsages())
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\n%sUse \"%s %s %s\" for details on a command.%s\n",
			ui.ColorDim,
			resume(cmd.CommandPath(), ui.ColorCyan),
			resume("<command>", ui.ColorYellow),
			resume("--help", ui.ColorGreen),
			ui.ColorReset)
	}
	fmt.Fprintln(w)
}

// renderUsage is the colorized usage block cobra shows on errors and
// bare invocations.
func renderUsage(cmd *cobra.Command) error {
	w := os.Stderr

	section(w, "Usage")
	printUseLines(w, cmd)

	if cmd.HasAvailableSubCommands() {
		section(w, "Commands")
		printCommandList(w, cmd)
	}

	if cmd.HasAvailableLocalFlags() {
		section(w, "Flags")
		printFlagBlock(w, cmd.LocalFlags().FlagUsages())
	}

	fmt.Fprintf(w, "\n%sSee \"%s\" for the full help.%s\n",
		ui.ColorDim, resume(cmd.CommandPath()+" --help", ui.ColorCyan), ui.ColorReset)
	return nil
}

// section prints a bold section header.
func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s%s%s\n", ui.ColorBold+ui.ColorWhite, title, ui.ColorReset)
}

// resume colors a fragment and drops back to dim, for tokens embedded in
// dim footer prose.
func resume(s, color string) string {
	return color + s + ui.ColorReset + ui.ColorDim
}

// printUseLines prints the invocation forms: the command's own use line
// and, for parents, the subcommand form.
func printUseLines(w io.Writer, cmd *cobra.Command) {
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s%s%s\n", ui.ColorCyan, cmd.UseLine(), ui.ColorReset)
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s%s%s %s<command>%s %s[flags]%s\n",
			ui.ColorCyan, cmd.CommandPath(), ui.ColorReset,
			ui.ColorYellow, ui.ColorReset,
			ui.ColorDim, ui.ColorReset)
	}
}

// printExampleBlock reprints an Example block, dimming comment lines and
// prefixing command lines with a shell prompt.
func printExampleBlock(w io.Writer, block string) {
	prevWasCommand := false
	for _, raw := range strings.Split(block, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
		case strings.HasPrefix(line, "#"):
			if prevWasCommand {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "  %s%s%s\n", ui.ColorDim, line, ui.ColorReset)
			prevWasCommand = false
		default:
			fmt.Fprintf(w, "  %s$ %s%s\n", ui.ColorGreen, line, ui.ColorReset)
			prevWasCommand = true
		}
	}
}

// printCommandList prints the visible subcommands aligned on the longest
// name. The built-in help command is elided.
func printCommandList(w io.Writer, cmd *cobra.Command) {
	visible := make([]*cobra.Command, 0, len(cmd.Commands()))
	width := 0
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() || c.Name() == "help" {
			continue
		}
		visible = append(visible, c)
		if n := len(c.Name()); n > width {
			width = n
		}
	}
	for _, c := range visible {
		fmt.Fprintf(w, "  %s%-*s%s  %s%s%s\n",
			ui.ColorCyan, width, c.Name(), ui.ColorReset,
			ui.ColorDim, c.Short, ui.ColorReset)
	}
}

// printFlagBlock reparses pflag's usage text and reprints it with the
// flag spelling in green and the description dimmed. Alignment has to be
// recomputed because the color codes would throw pflag's own off.
func printFlagBlock(w io.Writer, usages string) {
	type row struct {
		flag string
		desc string
	}

	width := 28
	rows := make([]row, 0, 8)
	for _, raw := range strings.Split(usages, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		body := strings.TrimLeft(raw, " ")
		if !strings.HasPrefix(body, "-") {
			// Wrapped continuation of the previous description.
			rows = append(rows, row{desc: strings.TrimSpace(body)})
			continue
		}
		flag, desc, ok := strings.Cut(body, "  ")
		if !ok {
			rows = append(rows, row{flag: strings.TrimSpace(body)})
			continue
		}
		r := row{flag: strings.TrimSpace(flag), desc: strings.TrimSpace(desc)}
		if len(r.flag) > width {
			width = len(r.flag)
		}
		rows = append(rows, r)
	}

	for _, r := range rows {
		switch {
		case r.flag == "":
			fmt.Fprintf(w, "%s%s%s%s\n",
				strings.Repeat(" ", width+4), ui.ColorDim, r.desc, ui.ColorReset)
		case r.desc == "":
			fmt.Fprintf(w, "  %s%s%s\n", ui.ColorGreen, r.flag, ui.ColorReset)
		default:
			fmt.Fprintf(w, "  %s%-*s%s  %s%s%s\n",
				ui.ColorGreen, width, r.flag, ui.ColorReset,
				ui.ColorDim, r.desc, ui.ColorReset)
		}
	}
}

// wrap reflows prose to the given width. Blank-line separated paragraphs
// survive, and bullet lines stay on their own line.
func wrap(text string, width int) string {
	var paragraphs []string
	for _, para := range strings.Split(text, "\n\n") {
		var lines []string
		for _, src := range strings.Split(para, "\n") {
			src = strings.TrimSpace(src)
			if src == "" {
				continue
			}
			if strings.HasPrefix(src, "-") || strings.HasPrefix(src, "*") {
				lines = append(lines, src)
				continue
			}
			line := ""
			for _, word := range strings.Fields(src) {
				switch {
				case line == "":
					line = word
				case len(line)+len(word)+1 > width:
					lines = append(lines, line)
					line = word
				default:
					line += " " + word
				}
			}
			if line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
