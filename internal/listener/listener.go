// Package listener wraps a readline terminal so chat output can be printed
// above the prompt while the user is typing.
package listener

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"
)

var ErrClosed = errors.New("listener: input closed")

var rl *readline.Instance
var mu sync.Mutex
var holdAsync bool
var heldLines []string

func Init(prompt, historyFile string) error {
	var err error
	rl, err = readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	return err
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	if rl != nil {
		_ = rl.Close()
		rl = nil
	}
}

func SetPrompt(p string) {
	mu.Lock()
	defer mu.Unlock()
	if rl != nil {
		rl.SetPrompt(p)
	}
}

// BeginInteractive holds async output until EndInteractive so it does not
// interleave with a question.
func BeginInteractive() {
	mu.Lock()
	holdAsync = true
	mu.Unlock()
}

func EndInteractive() {
	mu.Lock()
	defer mu.Unlock()
	holdAsync = false
	for _, s := range heldLines {
		printAboveUnlocked(s)
	}
	heldLines = nil
}

func printAboveUnlocked(s string) {
	if rl == nil {
		fmt.Println(s)
		return
	}
	_, _ = rl.Write([]byte("\r\n" + s + "\r\n"))
	rl.Refresh()
}

func PrintAbove(s string) {
	mu.Lock()
	defer mu.Unlock()
	printAboveUnlocked(s)
}

// GetInput reads one trimmed line. Ctrl+D and a closed terminal return
// ErrClosed; Ctrl+C returns an empty line.
func GetInput() (string, error) {
	if rl == nil {
		return "", ErrClosed
	}
	line, err := rl.Readline()
	switch {
	case errors.Is(err, readline.ErrInterrupt):
		return "", nil
	case errors.Is(err, io.EOF):
		return "", ErrClosed
	case err != nil:
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func GetConfirmation(prompt string) string {
	mu.Lock()
	if rl == nil {
		mu.Unlock()
		return ""
	}
	old := rl.Config.Prompt
	rl.SetPrompt(prompt)
	mu.Unlock()

	line, err := rl.Readline()
	if err != nil {
		line = ""
	}
	ans := strings.TrimSpace(strings.ToLower(line))

	mu.Lock()
	if rl != nil {
		rl.SetPrompt(old)
	}
	mu.Unlock()
	return ans
}

func AsyncPrintln(s string) {
	mu.Lock()
	defer mu.Unlock()
	if holdAsync {
		heldLines = append(heldLines, s)
		return
	}
	printAboveUnlocked(s)
}

func AskYesNo(question string) bool {
	BeginInteractive()
	defer EndInteractive()

	PrintAbove(question + " [y/n]")

	for {
		switch GetConfirmation("> ") {
		case "y", "yes":
			return true
		case "n", "no", "":
			return false
		}
		PrintAbove("Please answer y/n.")
	}
}
