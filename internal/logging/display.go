package logging

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/funvibe/callinfer/internal/diagnostics"
	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
	TraceColorFG   = pterm.FgCyan
)

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

func printTraceMessage(tag, msg string) {
	TraceColorFG.Print(fmt.Sprintf("[%s] ", tag))
	fmt.Println(msg)
}

// displayDiagnostic prints a banner with the code and file followed by the message.
func displayDiagnostic(d *diagnostics.DiagnosticError) {
	fmt.Print("\n-- ")
	banner := string(d.Code) + " " + d.Code.Description()
	if d.IsWarning() {
		WarnStyleBG.Print(banner)
	} else {
		ErrorStyleBG.Print(banner)
	}
	fmt.Print(" ")
	if d.File != "" {
		fileName := filepath.Base(d.File)
		dashCount := 50 - len(fileName) - len(banner) - 1
		if dashCount < 3 {
			dashCount = 3
		}
		fmt.Print(strings.Repeat("-", dashCount) + " ")
		InfoColorFG.Println(fileName)
	} else {
		fmt.Println()
	}
	if d.Subject != nil {
		fmt.Printf("at %s: ", d.Subject)
	}
	fmt.Println(d.Message)
}

// displayFinished displays a run finished message
func displayFinished(label string, success bool, errorCount, warningCount int) {
	if success {
		SuccessColorFG.Print("All done! ")
	} else {
		ErrorColorFG.Print("Oh no! ")
	}
	if label != "" {
		fmt.Print(label + " ")
	}
	fmt.Print("(")
	printCount(errorCount, "error", ErrorColorFG)
	fmt.Print(", ")
	printCount(warningCount, "warning", WarnColorFG)
	fmt.Println(")")
}

func printCount(n int, noun string, color pterm.Color) {
	if n == 0 {
		SuccessColorFG.Print(0)
	} else {
		color.Print(n)
	}
	if n == 1 {
		fmt.Print(" " + noun)
	} else {
		fmt.Print(" " + noun + "s")
	}
}
