package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
)

type REPL struct {
	Commands map[string]func(string, *REPLConfig) error
	Help     map[string]string
}

type REPLConfig struct {
	Writer io.Writer
}

// Options configures the interactive line editor.
type Options struct {
	Prompt      string
	HistoryFile string
}

func NewRepl() *REPL {
	r := &REPL{make(map[string]func(string, *REPLConfig) error), make(map[string]string)}
	return r
}

// Add a command, along with its help string, to the set of commands
func (r *REPL) AddCommand(trigger string, handler func(string, *REPLConfig) error, help string) {
	if trigger == "" || trigger[0] == '.' {
		return
	}
	r.Help[trigger] = help
	r.Commands[trigger] = handler
}

// Return all REPL usage information as a string
func (r *REPL) HelpString() string {
	var sb strings.Builder
	sb.WriteString("Commands\n")
	for _, k := range r.triggers() {
		sb.WriteString(fmt.Sprintf("\t%s: %s\n", k, r.Help[k]))
	}
	return sb.String()
}

func (r *REPL) triggers() []string {
	keys := make([]string, 0, len(r.Help))
	for k := range r.Help {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Execute runs a single input line. Blank lines are ignored.
func (r *REPL) Execute(input string, config *REPLConfig) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}
	command := strings.Fields(input)[0]
	handler, ok := r.Commands[command]

	if !ok {
		io.WriteString(config.Writer, fmt.Sprintf("Invalid command: %s\n", command))
		io.WriteString(config.Writer, r.HelpString())
		return
	}
	if err := handler(input, config); err != nil {
		io.WriteString(config.Writer, fmt.Sprintf("Error: %v\n", err))
	}
}

// RunLines executes every line of in, writing output and prompts to out.
func (r *REPL) RunLines(in io.Reader, out io.Writer, prompt string) error {
	scanner := bufio.NewScanner(in)
	replConfig := &REPLConfig{Writer: out}

	io.WriteString(out, prompt)
	for scanner.Scan() {
		r.Execute(scanner.Text(), replConfig)
		io.WriteString(out, prompt)
	}
	return scanner.Err()
}

// Run reads commands from stdin until EOF. A terminal gets line editing,
// completion and history; piped input is executed line by line.
func (r *REPL) Run(opts Options) error {
	if !readline.IsTerminal(int(os.Stdin.Fd())) {
		return r.RunLines(os.Stdin, os.Stdout, opts.Prompt)
	}

	items := make([]readline.PrefixCompleterInterface, 0, len(r.Commands))
	for _, k := range r.triggers() {
		items = append(items, readline.PcItem(k))
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          opts.Prompt,
		HistoryFile:     opts.HistoryFile,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return errors.Wrap(err, "init line editor")
	}
	defer rl.Close()

	replConfig := &REPLConfig{Writer: rl.Stdout()}
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		r.Execute(line, replConfig)
	}
}
