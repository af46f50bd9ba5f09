package main

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"checkinq/internal/checkin"
)

const (
	colorReset  = "\x1b[0m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorBlue   = "\x1b[34m"
	colorRed    = "\x1b[31m"
)

var titleCaser = cases.Title(language.English)

// humanize turns identifiers like "up_to_date" into "Up To Date".
func humanize(value string) string {
	return titleCaser.String(strings.ReplaceAll(value, "_", " "))
}

func statusLabel(status checkin.Status, colorize bool) string {
	label := humanize(string(status))
	if !colorize {
		return label
	}
	switch status {
	case checkin.StatusUpToDate:
		return colorGreen + label + colorReset
	case checkin.StatusSending:
		return colorBlue + label + colorReset
	default:
		return colorYellow + label + colorReset
	}
}

func passLabel(passed, colorize bool) string {
	if passed {
		if colorize {
			return colorGreen + "ok" + colorReset
		}
		return "ok"
	}
	if colorize {
		return colorRed + "FAIL" + colorReset
	}
	return "FAIL"
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
