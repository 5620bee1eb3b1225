package main

import (
	"fmt"
	"os"
	"strings"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// autoTUIMinFiles: меньше файлов парсится быстрее, чем успевает отрисоваться кадр.
const autoTUIMinFiles = 2

// shouldUseTUI decides whether the directory progress view runs. It draws on
// stderr so stdout stays clean for node dumps.
func shouldUseTUI(mode uiMode, files int) bool {
	return decideTUI(mode, files, isTerminal(os.Stderr))
}

func decideTUI(mode uiMode, files int, stderrTTY bool) bool {
	if files == 0 {
		return false
	}
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return stderrTTY && files >= autoTUIMinFiles
	}
}
