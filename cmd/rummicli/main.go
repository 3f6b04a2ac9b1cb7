// cmd/rummicli is an interactive REPL for building up a hand and a
// table and asking the solver for its best move: a banner and
// config.Load at startup, a chzyer/readline instance reading lines, a
// signal-driven shutdown. kballard/go-shellquote tokenizes each line so
// quoted arguments split the way a shell would split them.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tilecraft/rummisolve/config"
	"github.com/tilecraft/rummisolve/hand"
	"github.com/tilecraft/rummisolve/meld"
	"github.com/tilecraft/rummisolve/meldsearch"
	"github.com/tilecraft/rummisolve/solverapi"
	"github.com/tilecraft/rummisolve/tile"
	"github.com/tilecraft/rummisolve/version"
)

const banner = `rummisolve - a Rummikub move solver`

func filterInput(r rune) (rune, bool) {
	if r == readline.CharCtrlZ {
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// repl holds the session's in-progress hand and table between commands.
type repl struct {
	l     *readline.Instance
	h     *hand.Hand
	table []meld.Meld
	memo  *meldsearch.Memo
	cfg   *config.Config
}

func newREPL(cfg *config.Config) *repl {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mrummisolve>\033[0m ",
		HistoryFile:     "/tmp/rummisolve_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &repl{
		l:     l,
		h:     hand.New(),
		table: nil,
		memo:  meldsearch.NewMemo(cfg.MemoMemoryFraction),
		cfg:   cfg,
	}
}

func (r *repl) showError(err error) {
	showMessage("Error: "+err.Error(), r.l.Stderr())
}

func (r *repl) loop(sig chan os.Signal) {
	defer r.l.Close()
	for {
		line, err := r.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if done := r.execute(line); done {
			sig <- syscall.SIGINT
			break
		}
	}
	log.Debug().Msg("exiting readline loop")
}

// execute runs one command line and reports whether the REPL should
// exit.
func (r *repl) execute(line string) bool {
	args, err := shellquote.Split(line)
	if err != nil {
		r.showError(err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "quit", "exit":
		return true

	case "help":
		r.printHelp()

	case "hand":
		r.handCommand(args[1:])

	case "table":
		r.tableCommand(args[1:])

	case "solve":
		r.solveCommand(args[1:])

	default:
		showMessage("unrecognized command: "+args[0], r.l.Stderr())
	}
	return false
}

func (r *repl) printHelp() {
	showMessage(strings.Join([]string{
		"hand add <tile...>       add tiles to your hand",
		"hand clear               empty your hand",
		"hand show                print your hand",
		"table add <group|run> <tile...>   add a meld to the table",
		"table clear              empty the table",
		"table show               print the table",
		"solve [tiles|points] [ms]  ask the solver for its best move",
		"quit                     exit",
	}, "\n"), r.l.Stdout())
}

func (r *repl) handCommand(args []string) {
	if len(args) == 0 {
		r.showError(fmt.Errorf("hand needs a subcommand: add, clear, show"))
		return
	}
	switch args[0] {
	case "add":
		for _, s := range args[1:] {
			t, err := tile.Parse(s)
			if err != nil {
				r.showError(err)
				return
			}
			r.h.Add(t)
		}
		r.printHand()
	case "clear":
		r.h = hand.New()
	case "show":
		r.printHand()
	default:
		r.showError(fmt.Errorf("unknown hand subcommand %q", args[0]))
	}
}

func (r *repl) printHand() {
	tiles := r.h.Flatten()
	strs := make([]string, len(tiles))
	for i, t := range tiles {
		strs[i] = t.String()
	}
	showMessage(strings.Join(strs, " "), r.l.Stdout())
}

func (r *repl) tableCommand(args []string) {
	if len(args) == 0 {
		r.showError(fmt.Errorf("table needs a subcommand: add, clear, show"))
		return
	}
	switch args[0] {
	case "add":
		if len(args) < 2 {
			r.showError(fmt.Errorf("table add needs a meld type (group or run) and tiles"))
			return
		}
		var ty meld.Type
		switch args[1] {
		case "group":
			ty = meld.Group
		case "run":
			ty = meld.Run
		default:
			r.showError(fmt.Errorf("unknown meld type %q", args[1]))
			return
		}
		tiles := make([]tile.Tile, 0, len(args)-2)
		for _, s := range args[2:] {
			t, err := tile.Parse(s)
			if err != nil {
				r.showError(err)
				return
			}
			tiles = append(tiles, t)
		}
		m := meld.New(ty, tiles)
		if err := m.Validate(); err != nil {
			r.showError(err)
			return
		}
		r.table = append(r.table, m)
		r.printTable()
	case "clear":
		r.table = nil
	case "show":
		r.printTable()
	default:
		r.showError(fmt.Errorf("unknown table subcommand %q", args[0]))
	}
}

func (r *repl) printTable() {
	for i, m := range r.table {
		strs := make([]string, len(m.Tiles))
		for j, t := range m.Tiles {
			strs[j] = t.String()
		}
		showMessage(fmt.Sprintf("%d: %s [%s]", i, m.Type, strings.Join(strs, " ")), r.l.Stdout())
	}
}

func (r *repl) solveCommand(args []string) {
	strategy := "tiles"
	timeLimitMs := r.cfg.DefaultTimeLimitMs
	if len(args) > 0 {
		strategy = args[0]
	}
	if len(args) > 1 {
		ms, err := strconv.Atoi(args[1])
		if err != nil {
			r.showError(err)
			return
		}
		timeLimitMs = ms
	}

	req := solverapi.Request{
		Hand:        handStrings(r.h),
		Table:       tableWires(r.table),
		Strategy:    strategy,
		TimeLimitMs: timeLimitMs,
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeLimitMs)*time.Millisecond+time.Second)
	defer cancel()
	resp := solverapi.Solve(ctx, req, r.memo)
	if !resp.Success {
		r.showError(fmt.Errorf("%s", resp.Error))
		return
	}
	if len(resp.Moves) == 0 {
		showMessage("no improving move found", r.l.Stdout())
		return
	}
	showMessage(fmt.Sprintf("quality %d -> %d (depth %d, completed=%v)",
		resp.InitialQuality, resp.FinalQuality, resp.DepthReached, resp.SearchCompleted), r.l.Stdout())
	for _, hm := range resp.HumanMoves {
		showMessage(describeHumanMove(hm), r.l.Stdout())
	}
}

func handStrings(h *hand.Hand) []string {
	tiles := h.Flatten()
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = t.String()
	}
	return out
}

func tableWires(melds []meld.Meld) []solverapi.MeldWire {
	out := make([]solverapi.MeldWire, len(melds))
	for i, m := range melds {
		tiles := make([]string, len(m.Tiles))
		for j, t := range m.Tiles {
			tiles[j] = t.String()
		}
		ty := "group"
		if m.Type == meld.Run {
			ty = "run"
		}
		out[i] = solverapi.MeldWire{Type: ty, Tiles: tiles}
	}
	return out
}

func describeHumanMove(hm solverapi.HumanMove) string {
	return fmt.Sprintf("%s %v", hm.Kind, hm.AddedTiles)
}

func main() {
	fmt.Println(banner)
	fmt.Println(version.ShortRevision())

	cfg := &config.Config{}
	args := os.Args[1:]
	if err := cfg.Load(args); err != nil {
		panic(err)
	}
	if cfg.DefaultTimeLimitMs == 0 {
		cfg.DefaultTimeLimitMs = 2000
	}
	if cfg.MemoMemoryFraction == 0 {
		cfg.MemoMemoryFraction = 0.01
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	var logger zerolog.Logger
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	log.Logger = logger

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	r := newREPL(cfg)
	argsLineTrimmed := strings.TrimSpace(strings.Join(args, " "))
	if argsLineTrimmed == "" {
		go r.loop(sig)
	} else {
		r.execute(argsLineTrimmed)
		sig <- syscall.SIGINT
	}

	<-idleConnsClosed
}
